package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/google/go-github/v66/github"
	"github.com/gregjones/httpcache"
	"golang.org/x/oauth2"
	"pkt.systems/pslog"
)

// pageSize is the per_page value used for every paginated listing
const pageSize = 100

// Compile-time interface satisfaction check.
var _ APIClient = (*Client)(nil)

// Client implements the APIClient interface using the GitHub REST API
type Client struct {
	client *github.Client
}

// ClientOptions configures the HTTP transport stack of a Client
type ClientOptions struct {
	// Token is the bearer credential sent with every request
	Token string

	// BaseURL overrides the REST API root (GitHub Enterprise, test servers)
	BaseURL string

	// DisableCache turns off the response cache. Cached list responses are
	// always revalidated by ETag before use.
	DisableCache bool
}

// NewClient creates a new GitHub API client with the provided token
func NewClient(token string) *Client {
	client, err := NewClientWithOptions(ClientOptions{Token: token})
	if err != nil {
		// Only a malformed BaseURL can fail and none was given.
		panic(err)
	}
	return client
}

// NewClientWithOptions creates a GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching, unless disabled)
//  2. revalidation (every GET asks httpcache for a conditional request)
//  3. go-github-ratelimit (secondary rate limit middleware, sleeps on 429/403)
//  4. oauth2 (static bearer token)
func NewClientWithOptions(opts ClientOptions) (*Client, error) {
	var base http.RoundTripper = http.DefaultTransport
	if !opts.DisableCache {
		base = revalidateTransport{next: httpcache.NewMemoryCacheTransport()}
	}
	rateLimitClient := github_ratelimit.NewClient(base)

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, rateLimitClient)
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: opts.Token},
	)
	tc := oauth2.NewClient(ctx, ts)

	client := github.NewClient(tc)

	if opts.BaseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parsing base URL: %w", err)
		}
		client.BaseURL = u
	}

	return &Client{client: client}, nil
}

// revalidateTransport marks GET requests max-age=0. httpcache then treats
// any cached response as stale and sends If-None-Match, so a reused client
// never plans against a label list GitHub has not confirmed. A 304 answer
// does not count against the primary rate limit.
type revalidateTransport struct {
	next http.RoundTripper
}

func (t revalidateTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method == http.MethodGet && req.Header.Get("Cache-Control") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("Cache-Control", "max-age=0")
	}
	return t.next.RoundTrip(req)
}

// ListOrgRepositories lists every repository owned by org, following pagination
func (c *Client) ListOrgRepositories(ctx context.Context, org string) ([]RepositoryRef, error) {
	opts := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: pageSize},
	}

	var allRepos []RepositoryRef

	for {
		repos, resp, err := c.client.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, WrapGitHubError(err, fmt.Sprintf("repositories for %s", org))
		}

		logRateLimit(ctx, resp, "repositories", org, opts.Page, len(repos))

		for _, repo := range repos {
			allRepos = append(allRepos, RepositoryRef{
				Owner: repo.GetOwner().GetLogin(),
				Name:  repo.GetName(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if allRepos == nil {
		allRepos = []RepositoryRef{}
	}

	return allRepos, nil
}

// ListLabels lists every label of a repository, following pagination
func (c *Client) ListLabels(ctx context.Context, repo RepositoryRef) ([]Label, error) {
	opts := &github.ListOptions{PerPage: pageSize}

	var allLabels []Label

	for {
		labels, resp, err := c.client.Issues.ListLabels(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return nil, WrapGitHubError(err, fmt.Sprintf("labels for %s", repo.FullName()))
		}

		logRateLimit(ctx, resp, "labels", repo.FullName(), opts.Page, len(labels))

		for _, label := range labels {
			allLabels = append(allLabels, Label{
				Name:  label.GetName(),
				Color: label.GetColor(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if allLabels == nil {
		allLabels = []Label{}
	}

	return allLabels, nil
}

// CreateLabel creates a label with the given name and color, without description
func (c *Client) CreateLabel(ctx context.Context, repo RepositoryRef, label Label) error {
	_, _, err := c.client.Issues.CreateLabel(ctx, repo.Owner, repo.Name, &github.Label{
		Name:  github.String(label.Name),
		Color: github.String(label.Color),
	})
	if err != nil {
		return WrapGitHubError(err, fmt.Sprintf("label '%s' in %s", label.Name, repo.FullName()))
	}
	return nil
}

// logRateLimit logs the remaining primary rate limit after a list call
func logRateLimit(ctx context.Context, resp *github.Response, kind, target string, page, count int) {
	if resp == nil {
		return
	}
	pslog.Ctx(ctx).Debug("github list page",
		"kind", kind,
		"target", target,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_reset", resp.Rate.Reset.Time,
	)
}

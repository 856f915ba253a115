package github

import (
	"context"
	"fmt"
	"strings"
)

// TokenInfo contains information about the authenticated token
type TokenInfo struct {
	User   string   `json:"user"`
	Scopes []string `json:"scopes"`
}

// ValidateToken resolves the token's user and checks its OAuth scopes.
// Fine-grained tokens report no scopes, so the scope check only applies to
// classic tokens.
func (c *Client) ValidateToken(ctx context.Context) (*TokenInfo, error) {
	user, resp, err := c.client.Users.Get(ctx, "")
	if err != nil {
		return nil, WrapGitHubError(err, "authenticated user")
	}

	scopes := []string{}
	if scopeHeader := resp.Header.Get("X-OAuth-Scopes"); scopeHeader != "" {
		scopes = strings.Split(strings.ReplaceAll(scopeHeader, " ", ""), ",")
	}

	tokenInfo := &TokenInfo{
		User:   user.GetLogin(),
		Scopes: scopes,
	}

	if err := validatePermissions(tokenInfo.Scopes); err != nil {
		return tokenInfo, err
	}

	return tokenInfo, nil
}

// validatePermissions checks if a classic token can write labels
func validatePermissions(scopes []string) error {
	if len(scopes) == 0 {
		return nil
	}

	for _, scope := range scopes {
		if scope == "repo" || scope == "public_repo" {
			return nil
		}
	}

	return fmt.Errorf("GitHub token missing required permissions: has %s, needs repo (or public_repo for public repositories only)",
		strings.Join(scopes, ", "))
}

// GetAuthInstructions returns markdown instructions for setting up GitHub authentication
func GetAuthInstructions() string {
	return `## GitHub authentication

labelsync needs a personal access token and the login of the organization to synchronize.

1. **Environment variables** (batch runner):

   ` + "```" + `
   export GITHUB_AUTH_TOKEN="your_personal_access_token"
   export GITHUB_ORG_NAME="your-org"
   ` + "```" + `

2. **.env file** in the working directory with the same two variables.

3. **Browser form** (` + "`labelsync serve`" + `): paste the token and organization into the form.
   The token is only used for the run you start and is never stored.

To create a token, open *GitHub Settings > Developer settings > Personal access tokens*.
A classic token needs the ` + "`repo`" + ` scope (or ` + "`public_repo`" + ` for public repositories only).
A fine-grained token needs read access to the organization's repositories and
read/write access to **Issues**, which covers labels.`
}

package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v66/github"
)

// Validator provides online checks with GitHub API access
type Validator struct {
	client *Client
}

// NewValidator creates a new validator with GitHub API access
func NewValidator(client *Client) *Validator {
	return &Validator{client: client}
}

// ValidateOrganization checks that org exists and its repositories are visible to the token
func (v *Validator) ValidateOrganization(ctx context.Context, org string) error {
	if org == "" {
		return fmt.Errorf("organization name cannot be empty")
	}

	_, _, err := v.client.client.Organizations.Get(ctx, org)
	if err != nil {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
			return fmt.Errorf("organization '%s' does not exist or you don't have access to it", org)
		}
		return fmt.Errorf("failed to validate organization access: %w", WrapGitHubError(err, "organization "+org))
	}

	opts := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: 1},
	}
	if _, _, err := v.client.client.Repositories.ListByOrg(ctx, org, opts); err != nil {
		return fmt.Errorf("insufficient permissions to list repositories in organization '%s': %w", org, WrapGitHubError(err, "repositories for "+org))
	}

	return nil
}

// ValidateAccess validates the token and, when org is set, the organization
func (v *Validator) ValidateAccess(ctx context.Context, org string) (*TokenInfo, error) {
	tokenInfo, err := v.client.ValidateToken(ctx)
	if err != nil {
		return tokenInfo, err
	}

	if org != "" {
		if err := v.ValidateOrganization(ctx, org); err != nil {
			return tokenInfo, err
		}
	}

	return tokenInfo, nil
}

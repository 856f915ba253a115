package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"labelsync/pkg/config"
	"labelsync/pkg/github"
)

var (
	authOrg    string
	authAPIURL string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Commands for checking the GitHub credentials labelsync runs with.",
}

var authCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the GitHub token and organization access",
	Long: `Check that GITHUB_AUTH_TOKEN is valid and may create labels, and that
the organization in GITHUB_ORG_NAME (or --org) is visible to it.`,
	Args: cobra.NoArgs,
	RunE: runAuthCheck,
}

func init() {
	authCheckCmd.Flags().StringVar(&authOrg, "org", "", "Organization login (overrides GITHUB_ORG_NAME)")
	authCheckCmd.Flags().StringVar(&authAPIURL, "api-url", "", "GitHub REST API base URL (overrides GITHUB_API_URL)")
	authCmd.AddCommand(authCheckCmd)
}

func runAuthCheck(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if authOrg != "" {
		cfg.GitHub.Organization = authOrg
	}
	if authAPIURL != "" {
		cfg.GitHub.APIURL = authAPIURL
	}

	if strings.TrimSpace(cfg.GitHub.Token) == "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", github.GetAuthInstructions())
		return &config.ConfigError{Missing: []string{config.EnvToken}}
	}

	client, err := github.NewClientWithOptions(github.ClientOptions{
		Token:        cfg.GitHub.Token,
		BaseURL:      cfg.GitHub.APIURL,
		DisableCache: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	tokenInfo, err := github.NewValidator(client).ValidateAccess(cmd.Context(), cfg.GitHub.Organization)
	if tokenInfo != nil {
		fmt.Fprintf(out, "✓ Authenticated as %s\n", tokenInfo.User)
		if len(tokenInfo.Scopes) > 0 {
			fmt.Fprintf(out, "  Scopes: %s\n", strings.Join(tokenInfo.Scopes, ", "))
		} else {
			fmt.Fprintf(out, "  Fine-grained token (no OAuth scopes reported)\n")
		}
	}
	if err != nil {
		return fmt.Errorf("authentication check failed: %w", err)
	}

	if cfg.GitHub.Organization != "" {
		fmt.Fprintf(out, "✓ Organization %s is accessible\n", cfg.GitHub.Organization)
	}
	return nil
}

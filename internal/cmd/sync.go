package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"labelsync/pkg/config"
	"labelsync/pkg/github"
)

var (
	syncOrg         string
	syncLabelsFile  string
	syncAPIURL      string
	syncDryRun      bool
	syncFailOnError bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Add missing labels to every repository of an organization",
	Long: `Add the desired labels to every repository of a GitHub organization.

Repositories are processed one at a time in the order GitHub lists them. For
each repository the existing labels are fetched and only the missing ones are
created. The first error stops the run; labels created before it are kept.

Credentials are read from GITHUB_AUTH_TOKEN and GITHUB_ORG_NAME, which may also
be set in a .env file in the working directory or in the config file.

An error during the run is reported and the command still exits 0. Use
--fail-on-error to exit 1 instead. Missing configuration always exits 1.

Examples:
  # Sync the default priority labels
  GITHUB_AUTH_TOKEN=ghp_xxx GITHUB_ORG_NAME=acme labelsync sync

  # Preview which labels would be added
  labelsync sync --dry-run

  # Use a custom label set
  labelsync sync --labels labels.yaml --org acme`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncOrg, "org", "", "Organization login (overrides GITHUB_ORG_NAME)")
	syncCmd.Flags().StringVar(&syncLabelsFile, "labels", "", "YAML file with the desired label set")
	syncCmd.Flags().StringVar(&syncAPIURL, "api-url", "", "GitHub REST API base URL (overrides GITHUB_API_URL)")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Report missing labels without creating them")
	syncCmd.Flags().BoolVar(&syncFailOnError, "fail-on-error", false, "Exit with status 1 when the run fails")
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if syncOrg != "" {
		cfg.GitHub.Organization = syncOrg
	}
	if syncAPIURL != "" {
		cfg.GitHub.APIURL = syncAPIURL
	}
	if syncLabelsFile != "" {
		set, err := github.LoadLabelSetFromFile(syncLabelsFile)
		if err != nil {
			return fmt.Errorf("failed to load label set: %w", err)
		}
		cfg.Labels = set.Labels
	}

	run, err := cfg.RunConfig()
	if err != nil {
		if config.IsConfigError(err) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%v\n\n%s\n", err, github.GetAuthInstructions())
		}
		return err
	}

	client, err := github.NewClientWithOptions(github.ClientOptions{
		Token:   run.Token(),
		BaseURL: cfg.GitHub.APIURL,
	})
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	logger := pslog.Ctx(ctx).With("org", run.Organization(), "dry_run", syncDryRun)
	reconciler := github.NewReconciler(client, newConsoleReporter(out), github.WithDryRun(syncDryRun))

	start := time.Now()
	summary, err := reconciler.Run(ctx, run.Organization(), run.Labels())
	if err != nil {
		logger.Error("label sync failed", "err", err, "processed", summary.RepositoriesProcessed, "added", summary.LabelsAdded)
		if syncFailOnError {
			return err
		}
		return nil
	}

	logger.Info("label sync complete",
		"repositories", summary.RepositoriesProcessed,
		"added", summary.LabelsAdded,
		"planned", summary.LabelsPlanned,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"labelsync/pkg/config"
)

var (
	initOrg   string
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize labelsync configuration",
	Long: `Create a configuration file with the default label set.

The file is written to --config or ~/.labelsync/config.yaml. The token is
never written; keep it in GITHUB_AUTH_TOKEN or a .env file.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initOrg, "org", "", "Organization login to store in the config file")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file without asking")
}

func runInit(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	path := configPath
	if path == "" {
		defaultPath, err := config.GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		path = defaultPath
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		fmt.Fprintf(out, "⚠️  Configuration file already exists at: %s\n", path)
		fmt.Fprint(out, "Do you want to overwrite it? (y/N): ")
		response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		response = strings.TrimSpace(response)
		if response != "y" && response != "Y" {
			fmt.Fprintln(out, "Configuration initialization cancelled.")
			return nil
		}
	}

	defaultConfig := config.DefaultConfig()
	defaultConfig.GitHub.Organization = initOrg

	if err := defaultConfig.SaveConfigToPath(path); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintf(out, "✅ Configuration file created at: %s\n", path)
	fmt.Fprintln(out, "📝 Edit the labels list to change the label set.")

	return nil
}

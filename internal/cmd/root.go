package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"labelsync/pkg/config"
)

var (
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:   "labelsync",
	Short: "Add a standard label set to every repository of a GitHub organization",
	Long: `labelsync makes sure every repository of a GitHub organization carries a
desired set of issue labels. Labels that already exist are left alone; missing
ones are created. Nothing is ever deleted or recolored.

Run it once from the command line with "labelsync sync", or start the browser
form with "labelsync serve".`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command with ctx
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.labelsync/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "File of KEY=value pairs read before the environment")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(initCmd)
}

// loadConfig loads configuration from the files selected by the persistent flags
func loadConfig() (*config.Config, error) {
	return config.Load(config.LoadOptions{ConfigPath: configPath, EnvFile: envFile})
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"labelsync/pkg/github"
)

var validateCmd = &cobra.Command{
	Use:   "validate <labels.yaml>",
	Short: "Validate a label set file",
	Long: `Validate a label set file without contacting GitHub.

Checks performed:
• YAML syntax
• At least one label
• Label names are present, unique and at most 50 characters
• Colors are six hex digits (a leading '#' is accepted and stripped)

Example file:
  labels:
    - name: "Prio: High"
      color: CA49BC
    - name: "Prio: Low"
      color: "#FDF3BF"`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	file := args[0]

	fmt.Fprintf(out, "🔍 Validating label set: %s\n", file)

	set, err := github.LoadLabelSetFromFile(file)
	if err != nil {
		return fmt.Errorf("label set validation failed: %w", err)
	}

	fmt.Fprintf(out, "✓ %d labels are valid\n", len(set.Labels))
	for _, label := range set.Labels {
		fmt.Fprintf(out, "  • %s (#%s)\n", label.Name, label.Color)
	}

	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kcartlidge/ruthless/internal/scaffold"
)

var newCmd = &cobra.Command{
	Use:   "new <folder>",
	Short: "Create a new sample site",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveFolder(args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Creating new site and content folders")
		if err := scaffold.New(root, out); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Site created: %s\n", root)
		fmt.Fprintf(out, "  Next: ruthless build %s\n", root)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}

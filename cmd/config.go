package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View site configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show [folder]",
	Short: "Show effective site configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, cfg, err := loadSite(args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "config: %s\n", paths.Config)
		fmt.Fprintf(out, "title: %s\n", cfg.Title)
		fmt.Fprintf(out, "blurb: %s\n", cfg.Blurb)
		fmt.Fprintf(out, "footer: %s\n", cfg.Footer)
		if cfg.Keywords != "" {
			fmt.Fprintf(out, "keywords: %s\n", cfg.Keywords)
		}
		fmt.Fprintf(out, "theme: %s\n", paths.Theme)
		fmt.Fprintf(out, "extensions: %t\n", cfg.UseExtensions)
		fmt.Fprintf(out, "beautify: %t\n", cfg.Beautify)
		fmt.Fprintf(out, "content: %s\n", paths.Content)
		fmt.Fprintf(out, "output: %s\n", paths.Output)
		for _, k := range sortedKeys(cfg.Settings) {
			fmt.Fprintf(out, "settings.%s: %s\n", k, cfg.Settings[k])
		}
		for _, m := range cfg.Menu {
			fmt.Fprintf(out, "menu: %s -> %s\n", m.Label, m.Href)
		}
		return nil
	},
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}

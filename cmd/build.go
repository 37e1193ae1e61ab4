package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kcartlidge/ruthless/internal/config"
	"github.com/kcartlidge/ruthless/internal/site"
)

var buildOut string

var buildCmd = &cobra.Command{
	Use:   "build [folder]",
	Short: "Generate the site output",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, cfg, err := loadSite(args)
		if err != nil {
			return err
		}
		_, err = runBuild(cmd.Context(), cmd, paths.WithOutput(buildOut), cfg)
		return err
	},
}

// runBuild performs one full build, printing progress to the command output.
func runBuild(ctx context.Context, cmd *cobra.Command, paths site.Paths, cfg *config.Site) (*site.Result, error) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "-------------------------------------------")
	b := site.NewBuilder(paths, cfg, site.Options{Logger: logger, Progress: out})
	res, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}
	printSummary(out, paths, res)
	return res, nil
}

func printSummary(out io.Writer, paths site.Paths, res *site.Result) {
	fmt.Fprintln(out, "-------------------------------------------")
	fmt.Fprintf(out, "✓ Generated %d pages, copied %d files (%d theme assets) in %s\n",
		res.Pages, res.Copied, res.Assets, res.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "  Output: %s\n", paths.Output)
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "output folder (default is <folder>/www)")
}

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kcartlidge/ruthless/internal/serve"
)

var (
	servePort int
	serveOut  string
)

var serveCmd = &cobra.Command{
	Use:   "serve [folder]",
	Short: "Build and serve a site",
	Long: `Build the site, then serve the output folder over HTTP until interrupted.
After Ctrl+C choose (R)estart to reload the config, rebuild and serve again,
or (Q)uit. Changes are not watched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		in := bufio.NewReader(cmd.InOrStdin())
		// Each round gets its own interrupt context; the first Ctrl+C must
		// not cancel the rebuilds that follow it.
		base := context.WithoutCancel(cmd.Context())
		for {
			if err := serveOnce(base, cmd, args); err != nil {
				return err
			}
			fmt.Fprintln(out)
			if !confirmRestart(in, out) {
				return nil
			}
			fmt.Fprintln(out)
		}
	},
}

// serveOnce loads, builds and serves the site until the process is interrupted.
func serveOnce(base context.Context, cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(base, os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths, cfg, err := loadSite(args)
	if err != nil {
		return err
	}
	paths = paths.WithOutput(serveOut)
	if _, err := runBuild(ctx, cmd, paths, cfg); err != nil {
		return err
	}

	addr := fmt.Sprintf("localhost:%d", servePort)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "-------------------------------------------")
	fmt.Fprintf(out, "Starting static server on http://%s ... Ctrl+C stops\n", addr)
	fmt.Fprintln(out)

	srv := serve.NewServer(addr, paths.Output, logger)
	if err := srv.ListenAndServe(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}

// confirmRestart asks until it gets R or Q. End of input counts as Q.
func confirmRestart(in *bufio.Reader, out io.Writer) bool {
	for {
		fmt.Fprintln(out, "(R)estart or (Q)uit?")
		line, err := in.ReadString('\n')
		switch strings.ToUpper(strings.TrimSpace(line)) {
		case "R":
			return true
		case "Q":
			return false
		}
		if err != nil {
			return false
		}
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", serve.DefaultPort, "port to listen on")
	serveCmd.Flags().StringVarP(&serveOut, "out", "o", "", "output folder (default is <folder>/www)")
}

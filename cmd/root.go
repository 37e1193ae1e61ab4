package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kcartlidge/ruthless/internal/config"
	rerrors "github.com/kcartlidge/ruthless/internal/errors"
	"github.com/kcartlidge/ruthless/internal/site"
	"github.com/kcartlidge/ruthless/internal/utils"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "ruthless",
	Short: "Ruthlessly simple static site generator",
	Long: `Ruthless turns a folder of Markdown and text files into a static site.

The <folder> should have a "site" subfolder.
Builds are written to a sibling "www" folder.
If in doubt, run "ruthless new <folder>" to see an example.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		rerrors.NewCLIErrorAdapter(debug, logger).HandleError(err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "site config file (default is <folder>/site/ruthless.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func setupLogging() {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// resolveFolder returns the project folder named by args, or the nearest
// ancestor of the working directory that holds a site.
func resolveFolder(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return "", rerrors.FileSystemError("resolve folder", args[0], err)
		}
		return abs, nil
	}
	root, err := utils.FindSiteRoot("")
	if err != nil {
		return "", rerrors.Wrap(err, rerrors.CategoryConfig, rerrors.SeverityFatal, "cannot find a site folder; pass <folder> or run inside a project")
	}
	return root, nil
}

// loadSite resolves the project folder and loads its configuration. The
// returned paths already point at the configured theme.
func loadSite(args []string) (site.Paths, *config.Site, error) {
	root, err := resolveFolder(args)
	if err != nil {
		return site.Paths{}, nil, err
	}
	paths := site.NewPaths(root)
	if cfgFile != "" {
		paths.Config = cfgFile
	}
	logger.Debug("Reading config", "path", paths.Config)
	cfg, err := config.Load(paths.Config)
	if err != nil {
		return site.Paths{}, nil, err
	}
	return paths.WithTheme(cfg.Theme), cfg, nil
}

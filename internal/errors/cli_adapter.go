package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/kcartlidge/ruthless/internal/logfields"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter creates a new CLI error adapter writing to stderr.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
		exit:    os.Exit,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	re, ok := As(err)
	if !ok {
		return 1
	}

	switch re.Category {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryConfig:
		return 7
	case CategoryParse:
		return 9
	case CategoryRender, CategoryFileSystem:
		return 11
	case CategoryServe:
		return 12
	case CategoryInternal:
		return 10
	default:
		return 1
	}
}

// FormatError formats an error for display: a context line (when there is
// context) followed by a one-line message.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	re, ok := As(err)
	if !ok {
		return fmt.Sprintf("ERROR: %v", err)
	}
	if a.verbose {
		return "ERROR: " + re.Error()
	}

	var b strings.Builder
	if ctx := formatContext(re.Context); ctx != "" {
		b.WriteString(ctx)
		b.WriteString("\n")
	}
	b.WriteString("ERROR: ")
	b.WriteString(re.Message)
	if re.Cause != nil {
		b.WriteString(": ")
		b.WriteString(re.Cause.Error())
	}
	return b.String()
}

// HandleError prints the error and exits the program with the matching code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	if a.verbose {
		a.logError(err)
	}

	fmt.Fprintln(a.out, "-------------------------------------------")
	fmt.Fprintln(a.out, a.FormatError(err))
	a.exit(a.ExitCodeFor(err))
}

func (a *CLIErrorAdapter) logError(err error) {
	if re, ok := As(err); ok {
		attrs := []slog.Attr{slog.String("category", string(re.Category))}
		for _, k := range sortedKeys(re.Context) {
			attrs = append(attrs, slog.Any(k, re.Context[k]))
		}
		a.logger.LogAttrs(context.Background(), slog.LevelError, re.Message, attrs...)
		return
	}
	a.logger.Error("Unclassified error", logfields.Error(err))
}

func formatContext(c ContextFields) string {
	if len(c) == 0 {
		return ""
	}
	parts := make([]string, 0, len(c))
	for _, k := range sortedKeys(c) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, c[k]))
	}
	return strings.Join(parts, " ")
}

func sortedKeys(c ContextFields) []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Package site walks a content tree once and writes the rendered site.
package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kcartlidge/ruthless/internal/config"
	"github.com/kcartlidge/ruthless/internal/content"
	rerrors "github.com/kcartlidge/ruthless/internal/errors"
	"github.com/kcartlidge/ruthless/internal/frontmatter"
	"github.com/kcartlidge/ruthless/internal/logfields"
	"github.com/kcartlidge/ruthless/internal/output"
	"github.com/kcartlidge/ruthless/internal/render"
	"github.com/kcartlidge/ruthless/internal/transform"
	"github.com/kcartlidge/ruthless/internal/utils"
)

// Options configures a Builder. Nil fields fall back to slog.Default and
// io.Discard.
type Options struct {
	Logger   *slog.Logger
	Progress io.Writer
}

// Result summarises a finished build.
type Result struct {
	Pages          int
	Copied         int
	Assets         int
	Folders        int
	IndexedFolders int
	Duration       time.Duration
}

// Builder owns everything scoped to a single build: the compiled layout,
// the sibling index cache and the set of output folders already created.
type Builder struct {
	paths    Paths
	site     *config.Site
	logger   *slog.Logger
	progress io.Writer

	renderer *render.Renderer
	cache    *content.IndexCache
	created  map[string]bool
	result   Result
}

// NewBuilder prepares a build of site into paths.Output.
func NewBuilder(paths Paths, site *config.Site, opts Options) *Builder {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}
	return &Builder{
		paths:    paths,
		site:     site,
		logger:   opts.Logger,
		progress: opts.Progress,
	}
}

// Build regenerates the whole output folder from scratch. Any error aborts
// the build; pages already written are left in place.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	b.result = Result{}
	b.created = map[string]bool{}

	b.printf("Reading %s\n", b.paths.Site)
	b.printf("Creating %s\n", b.paths.Output)

	if err := b.check(); err != nil {
		return nil, err
	}

	b.logger.Debug("Build stage", logfields.Stage("layout"), logfields.Theme(b.paths.Theme))
	r, err := render.New(b.paths.Layout, b.paths.Includes, b.site)
	if err != nil {
		return nil, rerrors.RenderFailed(b.paths.Layout, err)
	}
	b.renderer = r
	b.cache = content.NewIndexCache(b.paths.Content, transform.Templatable, b.logger)

	if err := b.freshOutput(); err != nil {
		return nil, err
	}
	b.logger.Debug("Build stage", logfields.Stage("theme"), logfields.Theme(b.paths.Theme))
	if err := b.copyThemeAssets(); err != nil {
		return nil, err
	}

	b.logger.Debug("Build stage", logfields.Stage("content"), logfields.Folder(b.paths.Content))
	b.printf("Rendering output\n")
	if b.site.UseExtensions {
		b.printf("Using page extensions\n")
	}
	b.printf("  /\n")
	b.created["."] = true

	err = filepath.WalkDir(b.paths.Content, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return rerrors.FileSystemError("read content", path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path != b.paths.Content && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		return b.buildFile(path)
	})
	if err != nil {
		return nil, err
	}

	b.result.IndexedFolders = b.cache.Len()
	b.result.Duration = time.Since(start)
	b.logger.Info("Build complete",
		logfields.Output(b.paths.Output),
		slog.Int("pages", b.result.Pages),
		slog.Int("copied", b.result.Copied),
		logfields.DurationMS(float64(b.result.Duration.Microseconds())/1000))
	res := b.result
	return &res, nil
}

func (b *Builder) check() error {
	if info, err := os.Stat(b.paths.Content); err != nil || !info.IsDir() {
		return rerrors.MissingPath("content folder", b.paths.Content)
	}
	if _, err := os.Stat(b.paths.Layout); err != nil {
		return rerrors.MissingPath("layout template", b.paths.Layout)
	}
	if _, err := os.Stat(b.paths.ThemeCSS); err != nil {
		return rerrors.MissingPath("theme styles", b.paths.ThemeCSS)
	}
	if within(b.paths.Site, b.paths.Output) {
		return rerrors.ValidationFailed("output", "output folder must not contain the site folder")
	}
	if within(b.paths.Output, b.paths.Site) {
		return rerrors.ValidationFailed("output", "output folder must not be inside the site folder")
	}
	return nil
}

// within reports whether p is dir or lies beneath it.
func within(p, dir string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func (b *Builder) freshOutput() error {
	if _, err := os.Stat(b.paths.Output); err == nil {
		b.printf("Removing output folder\n")
		if err := os.RemoveAll(b.paths.Output); err != nil {
			return rerrors.FileSystemError("remove folder", b.paths.Output, err)
		}
	}
	b.printf("Creating output folder\n")
	return output.EnsureDir(b.paths.Output)
}

// copyThemeAssets copies every theme file except the layout and includes
// into the output root, theme.css among them.
func (b *Builder) copyThemeAssets() error {
	return filepath.WalkDir(b.paths.Theme, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return rerrors.FileSystemError("read theme", path, err)
		}
		if path == b.paths.Theme {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || path == b.paths.Includes {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || path == b.paths.Layout {
			return nil
		}
		rel, err := filepath.Rel(b.paths.Theme, path)
		if err != nil {
			return rerrors.InternalError("theme asset path", err)
		}
		dest := filepath.Join(b.paths.Output, rel)
		if err := output.EnsureDir(filepath.Dir(dest)); err != nil {
			return err
		}
		if err := utils.CopyFile(path, dest); err != nil {
			return rerrors.FileSystemError("copy file", path, err)
		}
		b.logger.Debug("Theme asset", logfields.Source(path), logfields.Output(dest))
		b.result.Assets++
		return nil
	})
}

func (b *Builder) buildFile(path string) error {
	rel, err := filepath.Rel(b.paths.Content, path)
	if err != nil {
		return rerrors.InternalError("content path", err)
	}
	rel = filepath.ToSlash(rel)
	if err := b.ensureFolder(filepath.ToSlash(filepath.Dir(rel))); err != nil {
		return err
	}

	templatable := transform.Templatable(path)
	dest := filepath.Join(b.paths.Output, filepath.FromSlash(output.Resolve(rel, b.site.UseExtensions, templatable)))
	if err := output.EnsureDir(filepath.Dir(dest)); err != nil {
		return err
	}

	if !templatable {
		if err := utils.CopyFile(path, dest); err != nil {
			return rerrors.FileSystemError("copy file", path, err)
		}
		b.logger.Debug("Copied", logfields.Source(path), logfields.Output(dest))
		b.result.Copied++
		return nil
	}

	page, err := b.renderPage(path)
	if err != nil {
		return err
	}
	if err := utils.SafeWriteFile(dest, page); err != nil {
		return rerrors.FileSystemError("write file", dest, err)
	}
	b.logger.Debug("Rendered", logfields.Source(path), logfields.Output(dest))
	b.result.Pages++
	return nil
}

// ensureFolder creates the output folder mirroring a content folder the
// first time a file inside it is seen.
func (b *Builder) ensureFolder(relDir string) error {
	if b.created[relDir] {
		return nil
	}
	if err := output.EnsureDir(filepath.Join(b.paths.Output, filepath.FromSlash(relDir))); err != nil {
		return err
	}
	b.created[relDir] = true
	b.result.Folders++
	b.printf("  /%s\n", relDir)
	return nil
}

func (b *Builder) renderPage(path string) ([]byte, error) {
	item, err := content.Load(b.paths.Content, path, frontmatter.Full)
	if err != nil {
		return nil, loadError(path, err)
	}
	content.NormaliseDated(item.Metadata)

	body, err := b.cache.Substitute(item)
	if err != nil {
		return nil, loadError(filepath.Dir(path), err)
	}

	html, err := transform.Transform(path, body)
	if err != nil {
		return nil, rerrors.RenderFailed(path, err)
	}

	page, err := b.renderer.Render(b.renderer.Context(item.Metadata, html))
	if err != nil {
		return nil, rerrors.RenderFailed(path, err)
	}
	return page, nil
}

func loadError(path string, err error) error {
	var pe *frontmatter.ParseError
	if errors.As(err, &pe) {
		return rerrors.ParseFailed(pe.Path, err).WithContext("line", pe.Line)
	}
	return rerrors.FileSystemError("read content", path, err)
}

func (b *Builder) printf(format string, args ...any) {
	fmt.Fprintf(b.progress, format, args...)
}

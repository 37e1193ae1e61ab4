package site

import (
	"path/filepath"

	"github.com/kcartlidge/ruthless/internal/config"
	"github.com/kcartlidge/ruthless/internal/utils"
)

// OutputFolder is the default build target, a sibling of the site folder.
const OutputFolder = "www"

// Paths locates every input and output of a build.
type Paths struct {
	Root     string
	Site     string
	Config   string
	Content  string
	Theme    string
	Includes string
	Layout   string
	ThemeCSS string
	Output   string
}

// NewPaths derives the standard layout for the project folder root:
//
//	root/site/ruthless.yaml
//	root/site/content/
//	root/site/themes/default/{layout.html,theme.css,includes/}
//	root/www/
func NewPaths(root string) Paths {
	abs, err := filepath.Abs(root)
	if err == nil {
		root = abs
	}
	siteDir := filepath.Join(root, utils.SiteFolder)
	p := Paths{
		Root:    root,
		Site:    siteDir,
		Config:  filepath.Join(siteDir, utils.ConfigFile),
		Content: filepath.Join(siteDir, "content"),
		Output:  filepath.Join(root, OutputFolder),
	}
	return p.WithTheme(config.DefaultTheme)
}

// WithTheme points the theme paths at a folder relative to the site folder.
func (p Paths) WithTheme(theme string) Paths {
	if theme == "" {
		theme = config.DefaultTheme
	}
	p.Theme = filepath.Join(p.Site, filepath.FromSlash(theme))
	p.Includes = filepath.Join(p.Theme, "includes")
	p.Layout = filepath.Join(p.Theme, "layout.html")
	p.ThemeCSS = filepath.Join(p.Theme, "theme.css")
	return p
}

// WithOutput overrides the output folder. Empty keeps the default.
func (p Paths) WithOutput(out string) Paths {
	if out == "" {
		return p
	}
	if abs, err := filepath.Abs(out); err == nil {
		out = abs
	}
	p.Output = out
	return p
}

// Package scaffold writes a small sample site to start from.
package scaffold

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/kcartlidge/ruthless/internal/config"
	rerrors "github.com/kcartlidge/ruthless/internal/errors"
	"github.com/kcartlidge/ruthless/internal/utils"
)

//go:embed all:files
var files embed.FS

// SampleSite is the configuration written for a new site.
func SampleSite() *config.Site {
	return &config.Site{
		Title:    "Ruthless",
		Blurb:    "Ruthlessly simple static site generator",
		Footer:   `Created by <a href="https://github.com/kcartlidge/ruthless">Ruthless</a>.`,
		Keywords: "ruthless,static,site,generator",
		Theme:    config.DefaultTheme,
		Beautify: true,
		Settings: map[string]string{
			"google-analytics": "",
			"disqus-comments":  "",
		},
		Menu: []config.MenuItem{
			{Label: "Home", Href: "/"},
			{Label: "Latest News", Href: "/news"},
			{Label: "About", Href: "/about"},
		},
	}
}

// New creates root/site with a configuration file, sample content and the
// default theme. It refuses to touch an existing site folder.
func New(root string, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	siteDir := filepath.Join(root, utils.SiteFolder)
	if _, err := os.Stat(siteDir); err == nil {
		return rerrors.ValidationFailed("site", "site folder already exists").
			WithContext("path", siteDir)
	} else if !os.IsNotExist(err) {
		return rerrors.FileSystemError("inspect folder", siteDir, err)
	}

	if err := utils.EnsureDir(siteDir); err != nil {
		return rerrors.FileSystemError("create folder", siteDir, err)
	}

	cfgPath := filepath.Join(siteDir, utils.ConfigFile)
	if err := config.Save(SampleSite(), cfgPath); err != nil {
		return rerrors.FileSystemError("write file", cfgPath, err)
	}
	fmt.Fprintf(out, "  %s\n", utils.ConfigFile)

	return fs.WalkDir(files, "files", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel := p[len("files/"):]
		dest := filepath.Join(siteDir, filepath.FromSlash(rel))
		if err := utils.EnsureDir(filepath.Dir(dest)); err != nil {
			return rerrors.FileSystemError("create folder", filepath.Dir(dest), err)
		}
		data, err := files.ReadFile(p)
		if err != nil {
			return rerrors.InternalError("read embedded "+path.Base(p), err)
		}
		if err := utils.SafeWriteFile(dest, data); err != nil {
			return rerrors.FileSystemError("write file", dest, err)
		}
		fmt.Fprintf(out, "  %s\n", rel)
		return nil
	})
}

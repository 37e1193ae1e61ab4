// Package render merges a page's metadata and transformed content with the
// site layout.
//
// The layout is an html/template parsed with missingkey=error, so a layout
// that references a key the page does not define fails the build. Optional
// keys are read with index, which yields the zero value instead:
//
//	{{ with index . "author" }}<meta name="author" content="{{ . }}">{{ end }}
//
// Every file in the theme's includes folder is available to the layout as a
// named template, named after the file without its extension or a leading
// underscore: includes/_page.html is {{ template "page" . }}.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/kcartlidge/ruthless/internal/config"
	"github.com/kcartlidge/ruthless/internal/frontmatter"
)

// Keys injected into every page. They replace same-named front-matter keys.
const (
	KeyContent      = "content"
	KeySiteTitle    = "sitetitle"
	KeySiteBlurb    = "siteblurb"
	KeySiteFooter   = "sitefooter"
	KeySiteKeywords = "sitekeywords"
	KeySiteMenu     = "sitemenu"
	KeySettings     = "settings"
	KeyRandomVer    = "randomver"
)

// includeExts are the file extensions loaded from the includes folder.
var includeExts = []string{".html", ".tmpl", ".gohtml"}

// Context is the data handed to the layout for one page.
type Context map[string]any

// NewContext merges page metadata with the injected keys. Injected keys are
// written last and so always win.
func NewContext(meta *frontmatter.Metadata, contentHTML string, site *config.Site, token string) Context {
	ctx := make(Context, meta.Len()+8)
	for _, k := range meta.Keys() {
		v, _ := meta.Get(k)
		ctx[k] = v
	}

	menu := site.MenuAnchors()
	anchors := make([]template.HTML, len(menu))
	for i, a := range menu {
		anchors[i] = template.HTML(a)
	}
	settings := site.Settings
	if settings == nil {
		settings = map[string]string{}
	}

	ctx[KeyContent] = template.HTML(contentHTML)
	ctx[KeySiteTitle] = site.Title
	ctx[KeySiteBlurb] = template.HTML(site.Blurb)
	ctx[KeySiteFooter] = template.HTML(site.Footer)
	ctx[KeySiteKeywords] = site.Keywords
	ctx[KeySiteMenu] = anchors
	ctx[KeySettings] = settings
	ctx[KeyRandomVer] = token
	return ctx
}

// Renderer executes the compiled layout for each page.
type Renderer struct {
	layout   *template.Template
	site     *config.Site
	beautify bool
	token    func() string
}

// New parses layoutFile and every template in includesDir. A missing
// includes folder is allowed; a missing layout is not.
func New(layoutFile, includesDir string, site *config.Site) (*Renderer, error) {
	raw, err := os.ReadFile(layoutFile)
	if err != nil {
		return nil, fmt.Errorf("read layout %s: %w", layoutFile, err)
	}
	layout, err := template.New("layout").Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse layout %s: %w", layoutFile, err)
	}
	if err := addIncludes(layout, includesDir); err != nil {
		return nil, err
	}
	return &Renderer{
		layout:   layout,
		site:     site,
		beautify: site.Beautify,
		token:    RandomToken,
	}, nil
}

func addIncludes(layout *template.Template, dir string) error {
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		// skip hidden files and directories.
		if strings.HasPrefix(d.Name(), ".") && path != dir {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !validExt(filepath.Ext(d.Name())) {
			return nil
		}
		body, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read include %s: %w", path, err)
		}
		name := IncludeName(d.Name())
		if _, err := layout.New(name).Parse(string(body)); err != nil {
			return fmt.Errorf("parse include %s: %w", path, err)
		}
		return nil
	})
}

// IncludeName maps an include file name to its template name.
func IncludeName(file string) string {
	name := strings.TrimSuffix(file, filepath.Ext(file))
	return strings.TrimPrefix(name, "_")
}

func validExt(ext string) bool {
	for _, e := range includeExts {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// Context builds the layout data for one page, drawing a fresh randomver.
func (r *Renderer) Context(meta *frontmatter.Metadata, contentHTML string) Context {
	return NewContext(meta, contentHTML, r.site, r.token())
}

// Render executes the layout against ctx and returns the final page bytes.
func (r *Renderer) Render(ctx Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.layout.Execute(&buf, ctx); err != nil {
		return nil, fmt.Errorf("execute layout: %w", err)
	}

	out := strings.ReplaceAll(buf.String(), "\r", "")
	if r.beautify {
		pretty, err := Beautify(out)
		if err != nil {
			return nil, fmt.Errorf("beautify: %w", err)
		}
		out = pretty
	}
	return []byte(out), nil
}

// RandomToken returns a short random string for cache-busting asset URLs.
func RandomToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

package site

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcartlidge/ruthless/internal/config"
	rerrors "github.com/kcartlidge/ruthless/internal/errors"
)

const testLayout = `<html><head><title>{{ .title }} | {{ .sitetitle }}</title></head>` +
	`<body>{{ template "page" . }}</body></html>`

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func testSite() *config.Site {
	return &config.Site{Title: "Test", Blurb: "Blurb", Footer: "Footer"}
}

// fixture lays out a small project and returns its paths.
func fixture(t *testing.T) Paths {
	t.Helper()
	p := NewPaths(t.TempDir())
	writeFile(t, p.Config, "site:\n  title: Test\n")
	writeFile(t, p.Layout, testLayout)
	writeFile(t, filepath.Join(p.Includes, "_page.html"), `{{ with index . "dated" }}<div class="dated">{{ . }}</div>{{ end }}{{ .content }}`)
	writeFile(t, p.ThemeCSS, "body { margin: 0; }\n")
	writeFile(t, filepath.Join(p.Theme, "img", "logo.svg"), "<svg/>")

	writeFile(t, filepath.Join(p.Content, "index.md"), "---\ntitle: Home\n---\n# Welcome\n")
	writeFile(t, filepath.Join(p.Content, "about.md"), "---\ntitle: About\n---\nAbout us.\n")
	writeFile(t, filepath.Join(p.Content, "notes.txt"), "---\ntitle: Notes\n---\na < b\n")
	writeFile(t, filepath.Join(p.Content, "news", "index.md"), "---\ntitle: News\n---\n[[INDEX]]\n")
	writeFile(t, filepath.Join(p.Content, "news", "one.md"), "---\ntitle: One\ndated: August 27, 2023\n---\nFirst.\n")
	writeFile(t, filepath.Join(p.Content, "news", "two.md"), "---\ntitle: Two\ndated: 2024-01-23\n---\nSecond.\n")
	writeFile(t, filepath.Join(p.Content, "img", "photo.png"), "\x89PNG\r\n\x1a\n\x00binary")
	writeFile(t, filepath.Join(p.Content, ".draft.md"), "---\ntitle: Draft\n---\n")
	writeFile(t, filepath.Join(p.Content, ".git", "config"), "[core]")
	return p
}

func build(t *testing.T, p Paths, site *config.Site) (*Result, error) {
	t.Helper()
	return NewBuilder(p, site, Options{}).Build(context.Background())
}

func readOut(t *testing.T, p Paths, rel string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(p.Output, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(b)
}

func TestBuild_PrettyURLs(t *testing.T) {
	p := fixture(t)

	res, err := build(t, p, testSite())
	require.NoError(t, err)
	assert.Equal(t, 6, res.Pages)
	assert.Equal(t, 1, res.Copied)
	assert.Equal(t, 1, res.IndexedFolders)

	for _, rel := range []string{
		"index.html",
		"about/index.html",
		"notes/index.html",
		"news/index.html",
		"news/one/index.html",
		"news/two/index.html",
		"img/photo.png",
		"theme.css",
		"img/logo.svg",
	} {
		assert.FileExists(t, filepath.Join(p.Output, filepath.FromSlash(rel)), rel)
	}
	assert.NoFileExists(t, filepath.Join(p.Output, "about.html"))
	assert.NoFileExists(t, filepath.Join(p.Output, "layout.html"))
	assert.NoDirExists(t, filepath.Join(p.Output, "includes"))
	assert.NoFileExists(t, filepath.Join(p.Output, ".draft", "index.html"))
	assert.NoDirExists(t, filepath.Join(p.Output, ".git"))
}

func TestBuild_UseExtensions(t *testing.T) {
	p := fixture(t)
	site := testSite()
	site.UseExtensions = true

	_, err := build(t, p, site)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(p.Output, "about.html"))
	assert.FileExists(t, filepath.Join(p.Output, "news", "one.html"))
	assert.FileExists(t, filepath.Join(p.Output, "news", "index.html"))
	assert.NoDirExists(t, filepath.Join(p.Output, "about"))
}

func TestBuild_PageContent(t *testing.T) {
	p := fixture(t)
	_, err := build(t, p, testSite())
	require.NoError(t, err)

	home := readOut(t, p, "index.html")
	assert.Contains(t, home, "<title>Home | Test</title>")
	assert.Contains(t, home, "Welcome</h1>")

	notes := readOut(t, p, "notes/index.html")
	assert.Contains(t, notes, "<pre>a < b\n</pre>")

	one := readOut(t, p, "news/one/index.html")
	assert.Contains(t, one, `<div class="dated">27 August, 2023</div>`)
}

func TestBuild_SiblingIndex(t *testing.T) {
	p := fixture(t)
	_, err := build(t, p, testSite())
	require.NoError(t, err)

	news := readOut(t, p, "news/index.html")
	assert.Contains(t, news, `<a href="/news/two">Two</a> <span class="dated">23 January, 2024</span>`)
	assert.Contains(t, news, `<a href="/news/one">One</a> <span class="dated">27 August, 2023</span>`)
	assert.Less(t, bytes.Index([]byte(news), []byte("/news/two")), bytes.Index([]byte(news), []byte("/news/one")))
	assert.NotContains(t, news, `href="/news/index"`)
}

func TestBuild_NonTemplatableCopiedVerbatim(t *testing.T) {
	p := fixture(t)
	_, err := build(t, p, testSite())
	require.NoError(t, err)

	src, err := os.ReadFile(filepath.Join(p.Content, "img", "photo.png"))
	require.NoError(t, err)
	dst, err := os.ReadFile(filepath.Join(p.Output, "img", "photo.png"))
	require.NoError(t, err)
	assert.Equal(t, src, dst)
}

func TestBuild_RemovesStaleOutput(t *testing.T) {
	p := fixture(t)
	writeFile(t, filepath.Join(p.Output, "stale.html"), "old")

	_, err := build(t, p, testSite())
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(p.Output, "stale.html"))
}

func TestBuild_MalformedMetadataAborts(t *testing.T) {
	p := fixture(t)
	writeFile(t, filepath.Join(p.Content, "broken.md"), "---\ntitle: ok\nnot metadata\n---\nbody\n")

	_, err := build(t, p, testSite())
	require.Error(t, err)
	assert.True(t, rerrors.IsCategory(err, rerrors.CategoryParse))
	re, ok := rerrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 3, re.Context["line"])
	assert.NoFileExists(t, filepath.Join(p.Output, "broken", "index.html"))
}

func TestBuild_MalformedSiblingAbortsIndexPage(t *testing.T) {
	p := fixture(t)
	writeFile(t, filepath.Join(p.Content, "news", "bad.md"), "---\nnope\n---\n")

	_, err := build(t, p, testSite())
	require.Error(t, err)
	assert.True(t, rerrors.IsCategory(err, rerrors.CategoryParse))
}

func TestBuild_UndefinedVariableIsRenderError(t *testing.T) {
	p := fixture(t)
	writeFile(t, p.Layout, `<p>{{ .author }}</p>`)

	_, err := build(t, p, testSite())
	require.Error(t, err)
	assert.True(t, rerrors.IsCategory(err, rerrors.CategoryRender))
}

func TestBuild_MissingInputs(t *testing.T) {
	tests := []struct {
		name   string
		remove func(Paths) string
	}{
		{"content", func(p Paths) string { return p.Content }},
		{"layout", func(p Paths) string { return p.Layout }},
		{"theme css", func(p Paths) string { return p.ThemeCSS }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fixture(t)
			require.NoError(t, os.RemoveAll(tt.remove(p)))

			_, err := build(t, p, testSite())
			require.Error(t, err)
			assert.True(t, rerrors.IsCategory(err, rerrors.CategoryConfig))
		})
	}
}

func TestBuild_RefusesOutputOverSite(t *testing.T) {
	p := fixture(t)

	_, err := build(t, p.WithOutput(p.Root), testSite())
	require.Error(t, err)
	assert.True(t, rerrors.IsCategory(err, rerrors.CategoryValidation))
	assert.DirExists(t, p.Content)

	_, err = build(t, p.WithOutput(filepath.Join(p.Site, "out")), testSite())
	require.Error(t, err)
	assert.True(t, rerrors.IsCategory(err, rerrors.CategoryValidation))
}

func TestBuild_CustomTheme(t *testing.T) {
	p := fixture(t)
	custom := p.WithTheme("themes/plain")
	writeFile(t, custom.Layout, `<main>{{ .content }}</main>`)
	writeFile(t, custom.ThemeCSS, "p { color: red; }\n")

	_, err := build(t, custom, testSite())
	require.NoError(t, err)
	assert.Equal(t, "p { color: red; }\n", readOut(t, custom, "theme.css"))
	assert.Contains(t, readOut(t, custom, "about/index.html"), "<main><p>About us.</p>\n</main>")
}

func TestBuild_ProgressLists_NewFolders(t *testing.T) {
	p := fixture(t)
	var out bytes.Buffer

	_, err := NewBuilder(p, testSite(), Options{Progress: &out}).Build(context.Background())
	require.NoError(t, err)
	s := out.String()
	assert.Contains(t, s, "Rendering output\n  /\n")
	assert.Contains(t, s, "  /news\n")
	assert.Contains(t, s, "  /img\n")
}

func TestBuild_Cancelled(t *testing.T) {
	p := fixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder(p, testSite(), Options{}).Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewPaths(t *testing.T) {
	root := t.TempDir()
	p := NewPaths(root)
	assert.Equal(t, filepath.Join(root, "site", "ruthless.yaml"), p.Config)
	assert.Equal(t, filepath.Join(root, "site", "content"), p.Content)
	assert.Equal(t, filepath.Join(root, "site", "themes", "default", "layout.html"), p.Layout)
	assert.Equal(t, filepath.Join(root, "site", "themes", "default", "includes"), p.Includes)
	assert.Equal(t, filepath.Join(root, "www"), p.Output)

	out := filepath.Join(root, "public")
	assert.Equal(t, out, p.WithOutput(out).Output)
	assert.Equal(t, p.Output, p.WithOutput("").Output)
}

func TestBuild_LogsStages(t *testing.T) {
	p := fixture(t)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := NewBuilder(p, testSite(), Options{Logger: logger}).Build(context.Background())
	require.NoError(t, err)
	s := logs.String()
	assert.Contains(t, s, "stage=layout")
	assert.Contains(t, s, "stage=content")
	assert.Contains(t, s, "theme="+p.Theme)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "github.com/kcartlidge/ruthless/internal/errors"
)

const sample = `site:
  title: Sample Site
  blurb: Welcome
  footer: Built with <b>Ruthless</b>
  keywords: static,site
options:
  extensions: true
settings:
  google-analytics: AB-1
  disqus-comments: ""
menu:
  - label: Home
    href: /
  - label: Latest News
    href: /news
  - label: About
    href: /about
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "ruthless.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_ReadsAllSections(t *testing.T) {
	s, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "Sample Site", s.Title)
	assert.Equal(t, "Welcome", s.Blurb)
	assert.Equal(t, "Built with <b>Ruthless</b>", s.Footer)
	assert.Equal(t, "static,site", s.Keywords)
	assert.Equal(t, DefaultTheme, s.Theme)
	assert.True(t, s.UseExtensions)
	assert.True(t, s.Beautify)
	assert.Equal(t, "AB-1", s.Settings["google-analytics"])
	assert.Equal(t, []string{
		`<a href="/">Home</a>`,
		`<a href="/news">Latest News</a>`,
		`<a href="/about">About</a>`,
	}, s.MenuAnchors())
}

func TestLoad_MissingMandatoryFieldIsConfigError(t *testing.T) {
	for _, field := range []string{"title", "blurb", "footer"} {
		t.Run(field, func(t *testing.T) {
			body := map[string]string{
				"title":  "site:\n  blurb: b\n  footer: f\n",
				"blurb":  "site:\n  title: t\n  footer: f\n",
				"footer": "site:\n  title: t\n  blurb: b\n",
			}[field]
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
			assert.True(t, rerrors.IsCategory(err, rerrors.CategoryConfig))
			re, ok := rerrors.As(err)
			require.True(t, ok)
			assert.Equal(t, "site."+field, re.Context["field"])
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, rerrors.IsCategory(err, rerrors.CategoryConfig))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("RUTHLESS_SITE_TITLE", "From Env")
	s, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	assert.Equal(t, "From Env", s.Title)
}

func TestSaveThenLoad(t *testing.T) {
	in := &Site{
		Title: "T", Blurb: "B", Footer: "F", Theme: "themes/custom",
		Beautify: true, Settings: map[string]string{"k": "v"},
		Menu: []MenuItem{{Label: "Home", Href: "/"}, {Label: "About", Href: "/about"}},
	}
	p := filepath.Join(t.TempDir(), "nested", "ruthless.yaml")
	require.NoError(t, Save(in, p))

	out, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestMenuItem_AnchorEscapesHref(t *testing.T) {
	assert.Equal(t, `<a href="/a?x=1&amp;y=2">A</a>`, MenuItem{Label: "A", Href: "/a?x=1&y=2"}.Anchor())
}

func TestLoad_SettingsKeepKeyCase(t *testing.T) {
	body := `site:
  title: T
  blurb: B
  footer: F
settings:
  GoogleAnalytics: UA-1
  DisqusShortname: mixed
  port: 8080
`
	t.Setenv("RUTHLESS_SETTINGS_DISQUSSHORTNAME", "from-env")
	s, err := Load(writeConfig(t, body))
	require.NoError(t, err)

	assert.Equal(t, "UA-1", s.Settings["GoogleAnalytics"])
	assert.Equal(t, "from-env", s.Settings["DisqusShortname"])
	assert.Equal(t, "8080", s.Settings["port"])
	assert.NotContains(t, s.Settings, "googleanalytics")
}

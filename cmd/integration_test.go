package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "github.com/kcartlidge/ruthless/internal/errors"
)

// runCmd executes the root command with args and returns its output.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Reset sticky flags that persist across invocations
	buildOut, serveOut, listDir, listJSON, cfgFile = "", "", "", false, ""
	resetFlag(buildCmd, "out")
	resetFlag(serveCmd, "out")
	resetFlag(listCmd, "dir")
	resetFlag(listCmd, "json")
	if f := rootCmd.PersistentFlags().Lookup("config"); f != nil {
		f.Changed = false
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlag(c *cobra.Command, name string) {
	if f := c.Flags().Lookup(name); f != nil {
		f.Changed = false
	}
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCmd(t, args...)
	require.NoError(t, err, "command %v failed: %s", args, out)
	return out
}

func TestCLI_NewBuildListShow(t *testing.T) {
	root := filepath.Join(t.TempDir(), "blog")

	out := mustRun(t, "new", root)
	assert.Contains(t, out, "✓ Site created")
	assert.FileExists(t, filepath.Join(root, "site", "ruthless.yaml"))

	out = mustRun(t, "build", root)
	assert.Contains(t, out, "Rendering output")
	assert.Contains(t, out, "  /news\n")
	assert.Contains(t, out, "✓ Generated 5 pages")
	assert.FileExists(t, filepath.Join(root, "www", "index.html"))
	assert.FileExists(t, filepath.Join(root, "www", "about", "index.html"))
	assert.FileExists(t, filepath.Join(root, "www", "theme.css"))

	out = mustRun(t, "list", root, "--dir", "news")
	assert.Contains(t, out, "/news/sample-news-item-2  Sample News Item #2 (23 January, 2024)")

	out = mustRun(t, "list", root, "--dir", "news", "--json")
	var entries []listEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "news/sample-news-item-2.md", entries[0].Path)
	assert.Equal(t, "/news/sample-news-item-1", entries[1].Link)
	assert.Equal(t, "Ruthless", entries[0].Author)
	assert.Equal(t, "news", entries[0].Keywords)

	out = mustRun(t, "config", "show", root)
	assert.Contains(t, out, "title: Ruthless\n")
	assert.Contains(t, out, "menu: Latest News -> /news\n")
	assert.Contains(t, out, "settings.google-analytics: \n")
}

func TestCLI_BuildCustomOutput(t *testing.T) {
	root := filepath.Join(t.TempDir(), "site-one")
	mustRun(t, "new", root)

	dest := filepath.Join(t.TempDir(), "public")
	mustRun(t, "build", root, "--out", dest)
	assert.FileExists(t, filepath.Join(dest, "index.html"))
	assert.NoDirExists(t, filepath.Join(root, "www"))
}

func TestCLI_BuildWithExplicitConfig(t *testing.T) {
	root := filepath.Join(t.TempDir(), "site-two")
	mustRun(t, "new", root)

	alt := filepath.Join(t.TempDir(), "alt.yaml")
	require.NoError(t, os.WriteFile(alt, []byte(`site:
  title: Alternate
  blurb: Other
  footer: Bye
options:
  extensions: true
`), 0o644))

	mustRun(t, "build", root, "--config", alt)
	assert.FileExists(t, filepath.Join(root, "www", "about.html"))
	page, err := os.ReadFile(filepath.Join(root, "www", "about.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "Alternate")
}

func TestCLI_NewRefusesExistingSite(t *testing.T) {
	root := filepath.Join(t.TempDir(), "twice")
	mustRun(t, "new", root)

	_, err := runCmd(t, "new", root)
	require.Error(t, err)
	assert.True(t, rerrors.IsCategory(err, rerrors.CategoryValidation))
}

func TestCLI_BuildMissingConfig(t *testing.T) {
	_, err := runCmd(t, "build", t.TempDir())
	require.Error(t, err)
	assert.True(t, rerrors.IsCategory(err, rerrors.CategoryConfig))
}

func TestCLI_BuildMalformedPage(t *testing.T) {
	root := filepath.Join(t.TempDir(), "bad")
	mustRun(t, "new", root)
	bad := filepath.Join(root, "site", "content", "broken.md")
	require.NoError(t, os.WriteFile(bad, []byte("---\ntitle\n---\nbody\n"), 0o644))

	_, err := runCmd(t, "build", root)
	require.Error(t, err)
	assert.True(t, rerrors.IsCategory(err, rerrors.CategoryParse))
	assert.NoFileExists(t, filepath.Join(root, "www", "broken", "index.html"))
}

func TestCLI_Version(t *testing.T) {
	out := mustRun(t, "version")
	assert.Equal(t, "ruthless dev\n", out)
}

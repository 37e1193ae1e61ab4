// Package output maps content-relative source paths to destination paths
// under the output root.
package output

import (
	"os"
	"path"
	"strings"

	rerrors "github.com/kcartlidge/ruthless/internal/errors"
)

// IndexFile is written into each pretty-URL page folder.
const IndexFile = "index.html"

// Resolve returns the destination for a slash-separated path relative to
// the content root.
//
//   - non-templatable files keep their path and extension;
//   - templatable index.* files, or any templatable file when useExtensions
//     is set, become <dir>/<base>.html;
//   - other templatable files become <dir>/<base>/index.html.
func Resolve(rel string, useExtensions, templatable bool) string {
	if !templatable {
		return rel
	}
	dir, file := path.Split(rel)
	base := strings.TrimSuffix(file, path.Ext(file))
	if useExtensions || base == "index" {
		return dir + base + ".html"
	}
	return dir + base + "/" + IndexFile
}

// EnsureDir creates dir and its parents. It is safe to call repeatedly.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return rerrors.FileSystemError("create folder", dir, err)
	}
	return nil
}

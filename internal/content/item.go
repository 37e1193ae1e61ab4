package content

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/kcartlidge/ruthless/internal/frontmatter"
)

// Recognised front-matter keys.
const (
	KeyTitle    = "title"
	KeyDated    = "dated"
	KeySequence = "sequence"
	KeyAuthor   = "author"
	KeyKeywords = "keywords"
)

// Item is one content file discovered under the content root.
type Item struct {
	// Path is the absolute source path.
	Path string
	// RelPath is Path relative to the content root, slash separated.
	RelPath  string
	Metadata *frontmatter.Metadata
	Body     string

	sortKey string
}

// Load parses the file at path, which must live under root.
func Load(root, path string, mode frontmatter.Mode) (*Item, error) {
	rel, err := relativeTo(root, path)
	if err != nil {
		return nil, err
	}
	doc, err := frontmatter.ParseFile(path, mode)
	if err != nil {
		return nil, err
	}
	return &Item{
		Path:     path,
		RelPath:  rel,
		Metadata: doc.Metadata,
		Body:     doc.Body,
	}, nil
}

func relativeTo(root, p string) (string, error) {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return "", fmt.Errorf("relative path for %s: %w", p, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("expected %s to be inside %s", p, root)
	}
	return filepath.ToSlash(rel), nil
}

// IsIndexName reports whether a file name is index.<ext>.
func IsIndexName(name string) bool {
	return strings.TrimSuffix(name, filepath.Ext(name)) == "index"
}

// Link returns the site-relative link with the extension stripped.
func (i *Item) Link() string {
	return "/" + strings.TrimSuffix(i.RelPath, path.Ext(i.RelPath))
}

// Label is the title when present, otherwise the stripped relative path.
func (i *Item) Label() string {
	if t, ok := i.Metadata.Get(KeyTitle); ok {
		return t
	}
	return strings.TrimSuffix(i.RelPath, path.Ext(i.RelPath))
}

// SortKey returns the item's ranking key, deriving it on first use.
func (i *Item) SortKey() string {
	if i.sortKey == "" {
		i.sortKey = SortKey(i.Metadata)
	}
	return i.sortKey
}

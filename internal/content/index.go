package content

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/kcartlidge/ruthless/internal/frontmatter"
	"github.com/kcartlidge/ruthless/internal/logfields"
)

// IndexToken is replaced with the sibling index of the page's folder.
const IndexToken = "[[INDEX]]"

// IndexCache holds the sibling index fragment of each content folder for
// the duration of one build. A folder is scanned at most once.
type IndexCache struct {
	root        string
	templatable func(name string) bool
	logger      *slog.Logger

	mu      sync.Mutex
	entries map[string]string
}

// NewIndexCache returns an empty cache for the content tree at root.
// Only files accepted by templatable are listed.
func NewIndexCache(root string, templatable func(name string) bool, logger *slog.Logger) *IndexCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &IndexCache{
		root:        root,
		templatable: templatable,
		logger:      logger,
		entries:     make(map[string]string),
	}
}

// Substitute returns item's body with the first IndexToken replaced by the
// fragment for the item's folder. Bodies without the token are returned
// unchanged and no folder is scanned.
func (c *IndexCache) Substitute(item *Item) (string, error) {
	if !strings.Contains(item.Body, IndexToken) {
		return item.Body, nil
	}
	fragment, err := c.Fragment(filepath.Dir(item.Path))
	if err != nil {
		return "", err
	}
	return strings.Replace(item.Body, IndexToken, fragment, 1), nil
}

// Fragment returns the cached fragment for folder, building it on a miss.
func (c *IndexCache) Fragment(folder string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if f, ok := c.entries[folder]; ok {
		c.logger.Debug("Sibling index", logfields.Folder(folder), logfields.CacheHit(true))
		return f, nil
	}

	f, err := c.build(folder)
	if err != nil {
		return "", err
	}
	c.entries[folder] = f
	c.logger.Debug("Sibling index", logfields.Folder(folder), logfields.CacheHit(false))
	return f, nil
}

// Len returns the number of cached folders.
func (c *IndexCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *IndexCache) build(folder string) (string, error) {
	siblings, err := Siblings(c.root, folder, c.templatable)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, s := range siblings {
		b.WriteString(indexLine(s))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Siblings loads the metadata of every listable file directly inside
// folder and returns them in index order. Subfolders, hidden files and the
// folder's own index page are left out.
func Siblings(root, folder string, templatable func(name string) bool) ([]*Item, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("read folder %s: %w", folder, err)
	}

	var items []*Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || IsIndexName(name) {
			continue
		}
		if templatable != nil && !templatable(name) {
			continue
		}
		item, err := Load(root, filepath.Join(folder, name), frontmatter.MetadataOnly)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	SortItems(items)
	return items, nil
}

// SortItems orders items by descending sort key, ties broken by path.
func SortItems(items []*Item) {
	sort.SliceStable(items, func(i, j int) bool {
		ki, kj := items[i].SortKey(), items[j].SortKey()
		if ki != kj {
			return ki > kj
		}
		return items[i].RelPath < items[j].RelPath
	})
}

func indexLine(item *Item) string {
	line := fmt.Sprintf("* [%s](%s)", labelEscaper.Replace(item.Label()), escapeLink(item.Link()))
	if v, ok := item.Metadata.Get(KeyDated); ok {
		if t, ok := ParseDated(v); ok {
			v = t.Format(DisplayLayout)
		}
		line += fmt.Sprintf(` <span class="dated">%s</span>`, v)
	}
	return line
}

var labelEscaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`)

// escapeLink percent-encodes each segment of a site-relative link.
func escapeLink(link string) string {
	parts := strings.Split(link, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

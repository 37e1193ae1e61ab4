// Package transform turns the body of a templatable content file into an
// HTML fragment. Transformers are chosen by file extension; a file is
// templatable exactly when some registered transformer accepts it.
package transform

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Transformer converts one kind of content body to HTML.
type Transformer interface {
	CanTransform(filename string) bool
	Transform(body string) (string, error)
}

var registry []Transformer

// Register adds a transformer implementation to the registry.
func Register(t Transformer) {
	registry = append(registry, t)
}

// Templatable reports whether filename is rendered through the layout
// rather than copied verbatim.
func Templatable(filename string) bool {
	return lookup(filename) != nil
}

// Transform converts body using the transformer registered for filename.
func Transform(filename, body string) (string, error) {
	t := lookup(filename)
	if t == nil {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(filename))
	}
	return t.Transform(body)
}

func lookup(filename string) Transformer {
	for _, t := range registry {
		if t.CanTransform(filename) {
			return t
		}
	}
	return nil
}

func hasExt(filename, ext string) bool {
	return strings.EqualFold(filepath.Ext(filename), ext)
}

func init() {
	Register(markdownTransformer{md: newMarkdown()})
	Register(txtTransformer{})
}

// ErrUnsupported indicates a file is not templatable.
var ErrUnsupported = errors.New("unsupported content format")

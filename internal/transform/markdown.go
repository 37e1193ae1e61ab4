package transform

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

type markdownTransformer struct {
	md goldmark.Markdown
}

// newMarkdown enables tables, strikethrough, autolinks and task lists (GFM)
// and lets inline HTML through unchanged. Fenced code is core CommonMark.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
		),
	)
}

func (markdownTransformer) CanTransform(filename string) bool {
	return hasExt(filename, ".md")
}

func (m markdownTransformer) Transform(body string) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

package render

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

const indentUnit = "  "

// blockTags start on their own line and indent their children.
var blockTags = map[string]bool{
	"html": true, "head": true, "body": true, "title": true,
	"header": true, "footer": true, "nav": true, "main": true,
	"article": true, "aside": true, "section": true, "div": true,
	"p": true, "blockquote": true, "figure": true, "figcaption": true,
	"ul": true, "ol": true, "li": true, "dl": true, "dt": true, "dd": true,
	"table": true, "thead": true, "tbody": true, "tfoot": true,
	"tr": true, "th": true, "td": true, "caption": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"form": true, "fieldset": true, "details": true, "summary": true,
	"noscript": true, "address": true,
}

// voidTags never have an end tag.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// voidBlockTags are void elements that still get a line of their own.
var voidBlockTags = map[string]bool{
	"base": true, "hr": true, "link": true, "meta": true,
}

// verbatimTags have whitespace-significant content copied untouched.
var verbatimTags = map[string]bool{
	"pre": true, "textarea": true, "script": true, "style": true,
}

// Beautify re-indents an HTML document. Only whitespace between tags changes:
// block elements go on their own lines, inline runs are kept together with
// collapsed spacing, and pre, textarea, script and style are copied as-is.
func Beautify(doc string) (string, error) {
	b := beautifier{}
	z := html.NewTokenizer(strings.NewReader(doc))

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				return "", err
			}
			break
		}
		raw := string(z.Raw())

		if b.verbatim != "" {
			b.copyVerbatim(tt, z, raw)
			continue
		}

		switch tt {
		case html.DoctypeToken, html.CommentToken:
			b.flush()
			b.line(raw)
		case html.TextToken:
			b.text(raw)
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			b.open(string(name), raw, tt == html.SelfClosingTagToken)
		case html.EndTagToken:
			name, _ := z.TagName()
			b.close(string(name), raw)
		}
	}
	b.flush()
	return b.out.String(), nil
}

type beautifier struct {
	out      strings.Builder
	pending  strings.Builder
	depth    int
	verbatim string
	nested   int
}

func (b *beautifier) indent() string {
	if b.depth <= 0 {
		return ""
	}
	return strings.Repeat(indentUnit, b.depth)
}

func (b *beautifier) line(s string) {
	b.out.WriteString(b.indent())
	b.out.WriteString(s)
	b.out.WriteString("\n")
}

func (b *beautifier) flush() {
	s := strings.TrimSpace(b.pending.String())
	b.pending.Reset()
	if s != "" {
		b.line(s)
	}
}

func (b *beautifier) text(raw string) {
	collapsed := collapseSpace(raw)
	if b.pending.Len() == 0 {
		collapsed = strings.TrimLeft(collapsed, " ")
	}
	b.pending.WriteString(collapsed)
}

func (b *beautifier) open(name, raw string, selfClosing bool) {
	switch {
	case verbatimTags[name] && !selfClosing:
		b.flush()
		b.out.WriteString(b.indent())
		b.out.WriteString(raw)
		b.verbatim = name
		b.nested = 1
	case blockTags[name]:
		b.flush()
		b.line(raw)
		if !selfClosing {
			b.depth++
		}
	case voidBlockTags[name]:
		b.flush()
		b.line(raw)
	default:
		b.pending.WriteString(raw)
	}
}

func (b *beautifier) close(name, raw string) {
	if !blockTags[name] {
		b.pending.WriteString(raw)
		return
	}
	b.flush()
	b.depth--
	b.line(raw)
}

func (b *beautifier) copyVerbatim(tt html.TokenType, z *html.Tokenizer, raw string) {
	b.out.WriteString(raw)
	if tt != html.StartTagToken && tt != html.EndTagToken {
		return
	}
	name, _ := z.TagName()
	if string(name) != b.verbatim {
		return
	}
	if tt == html.StartTagToken {
		b.nested++
		return
	}
	b.nested--
	if b.nested == 0 {
		b.verbatim = ""
		b.out.WriteString("\n")
	}
}

// collapseSpace folds every run of HTML whitespace into a single space.
func collapseSpace(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			if !space {
				sb.WriteByte(' ')
				space = true
			}
		default:
			sb.WriteRune(r)
			space = false
		}
	}
	return sb.String()
}

// Package frontmatter splits a content file into its key/value metadata block
// and the remaining body.
//
// A file carries front-matter only when its first line is exactly "---". The
// block runs to the next line that is exactly "---"; each line inside it must
// be a "key: value" pair with a non-empty key and value. When the closing line
// never appears the file is treated as having no front-matter at all.
package frontmatter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Delimiter opens and closes the metadata block.
const Delimiter = "---"

const separator = ": "

// Mode selects how much of a file Parse reads.
type Mode int

const (
	// Full reads metadata and body.
	Full Mode = iota
	// MetadataOnly stops at the closing delimiter and leaves Body empty.
	MetadataOnly
)

// Document is a parsed content file.
type Document struct {
	Metadata *Metadata
	Body     string
	// HadFrontMatter is true when a closed metadata block was found.
	HadFrontMatter bool
}

// ParseError reports a malformed metadata line.
type ParseError struct {
	Path   string
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	loc := fmt.Sprintf("line %d", e.Line)
	if e.Path != "" {
		loc = e.Path + ":" + fmt.Sprint(e.Line)
	}
	return fmt.Sprintf("%s: %s, got %q", loc, e.Reason, e.Text)
}

// ParseFile opens path and parses it.
func ParseFile(path string, mode Mode) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open content file: %w", err)
	}
	defer f.Close()

	doc, err := Parse(f, mode)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// Parse reads a content file from r.
func Parse(r io.Reader, mode Mode) (*Document, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	doc := &Document{Metadata: NewMetadata()}
	var body strings.Builder

	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return strings.TrimSuffix(sc.Text(), "\r"), true
	}
	appendBody := func(line string) {
		body.WriteString(strings.TrimRight(line, " \t\r\v\f"))
		body.WriteByte('\n')
	}

	first, ok := next()
	if !ok {
		return doc, sc.Err()
	}

	if first == Delimiter {
		// Hold the block until the closing delimiter proves it is front-matter.
		pending := []string{}
		closed := false
		for {
			line, ok := next()
			if !ok {
				break
			}
			if line == Delimiter {
				closed = true
				break
			}
			pending = append(pending, line)
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("read content: %w", err)
		}

		if closed {
			for i, line := range pending {
				if err := parseLine(doc.Metadata, line, i+2); err != nil {
					return nil, err
				}
			}
			doc.HadFrontMatter = true
			if mode == MetadataOnly {
				return doc, nil
			}
		} else {
			if mode == MetadataOnly {
				return doc, nil
			}
			appendBody(first)
			for _, line := range pending {
				appendBody(line)
			}
		}
	} else {
		if mode == MetadataOnly {
			return doc, nil
		}
		appendBody(first)
	}

	for {
		line, ok := next()
		if !ok {
			break
		}
		appendBody(line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	doc.Body = body.String()
	return doc, nil
}

func parseLine(m *Metadata, line string, lineNo int) error {
	parts := strings.Split(strings.TrimRight(line, " \t"), separator)
	if len(parts) != 2 {
		return &ParseError{Line: lineNo, Text: line, Reason: "expected key: value"}
	}
	if parts[0] == "" {
		return &ParseError{Line: lineNo, Text: line, Reason: "key is empty"}
	}
	if parts[1] == "" {
		return &ParseError{Line: lineNo, Text: line, Reason: "value is empty"}
	}
	m.Set(parts[0], parts[1])
	return nil
}

// FrontMatter renders the metadata block with its delimiters, or "" when the
// document had none.
func (d *Document) FrontMatter() string {
	if !d.HadFrontMatter {
		return ""
	}
	var b strings.Builder
	b.WriteString(Delimiter + "\n")
	for _, k := range d.Metadata.Keys() {
		v, _ := d.Metadata.Get(k)
		b.WriteString(k + separator + v + "\n")
	}
	b.WriteString(Delimiter + "\n")
	return b.String()
}

// String reassembles the document.
func (d *Document) String() string {
	return d.FrontMatter() + d.Body
}

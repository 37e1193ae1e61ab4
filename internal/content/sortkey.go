package content

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/kcartlidge/ruthless/internal/frontmatter"
)

const (
	// epochSentinel stands in for a missing date or title.
	epochSentinel = "197001010000"
	// noSequence ranks below every explicit sequence, which is stored as
	// 99999-n with n capped at maxSequence so it never reaches 00000.
	noSequence  = "00000"
	maxSequence = 99998

	// A parsed date is prefixed with datedFlag and a missing one with
	// undatedFlag, so any real date outranks the sentinel, pre-1970 included.
	datedFlag   = "1"
	undatedFlag = "0"

	datetimeLayout = "200601021504"
	// DisplayLayout is how a parsed dated value is shown on pages.
	DisplayLayout = "2 January, 2006"
)

var datedLayouts = []string{
	DisplayLayout,
	"January 2, 2006",
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
}

// SortKey builds "<seq>|<flag><datetime>|<title>" such that sorting keys in
// descending order lists lower sequences first, then later dates, with
// items that have neither at the end.
//
// The sequence is stored as 99999-sequence so the descending sort still
// yields ascending sequence numbers. Sequences are clamped to 0..99998.
func SortKey(meta *frontmatter.Metadata) string {
	seq := noSequence
	if v, ok := meta.Get(KeySequence); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			seq = fmt.Sprintf("%05d", 99999-clamp(n, 0, maxSequence))
		}
	}

	when := undatedFlag + epochSentinel
	if v, ok := meta.Get(KeyDated); ok {
		if t, ok := ParseDated(v); ok {
			when = datedFlag + t.Format(datetimeLayout)
		}
	}

	title := epochSentinel
	if v, ok := meta.Get(KeyTitle); ok {
		title = v
	}

	return seq + "|" + when + "|" + title
}

// ParseDated parses a dated value. Unparseable values report false.
func ParseDated(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range datedLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	t, err := dateparse.ParseIn(v, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// NormaliseDated rewrites a parseable dated value as "<day> <Month>, <year>".
// Values that do not parse are left alone.
func NormaliseDated(meta *frontmatter.Metadata) {
	v, ok := meta.Get(KeyDated)
	if !ok {
		return
	}
	if t, ok := ParseDated(v); ok {
		meta.Set(KeyDated, t.Format(DisplayLayout))
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

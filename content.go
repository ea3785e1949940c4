package panelkit

import "github.com/mattn/go-runewidth"

// Highlight marks a styled column run on one line of a host buffer, by
// theme style name. The host binding layer owns how names map to its own
// highlight machinery; MemHost and the terminal host resolve them through
// a Theme.
type Highlight struct {
	Line     int
	ColStart int
	ColEnd   int // exclusive
	Style    string
}

// Content is the plain text plus highlight runs a panel body is built
// from. The core treats it as a pure value: it never mutates a Content
// and never renders one outside a widget region.
type Content interface {
	Lines() []string
	Highlights() []Highlight
}

// ContentBuilder is a small fluent accumulator implementing Content.
// Rich styling belongs to the embedding application; this covers panel
// bodies and demos.
//
// usage:
//
//	c := NewContent().
//	    Line("Settings").
//	    Styled("hint", "press Tab to move between fields").
//	    Blank()
type ContentBuilder struct {
	lines      []string
	highlights []Highlight
}

// NewContent creates an empty content builder.
func NewContent() *ContentBuilder {
	return &ContentBuilder{}
}

// Line appends a plain line.
func (c *ContentBuilder) Line(s string) *ContentBuilder {
	c.lines = append(c.lines, s)
	return c
}

// Styled appends a line highlighted with the named theme style.
func (c *ContentBuilder) Styled(style, s string) *ContentBuilder {
	c.highlights = append(c.highlights, Highlight{
		Line:     len(c.lines),
		ColStart: 0,
		ColEnd:   runewidth.StringWidth(s),
		Style:    style,
	})
	c.lines = append(c.lines, s)
	return c
}

// Blank appends an empty line.
func (c *ContentBuilder) Blank() *ContentBuilder {
	c.lines = append(c.lines, "")
	return c
}

// Span highlights a column run on the most recently added line.
// No-op before the first line.
func (c *ContentBuilder) Span(style string, colStart, colEnd int) *ContentBuilder {
	if len(c.lines) == 0 {
		return c
	}
	c.highlights = append(c.highlights, Highlight{
		Line:     len(c.lines) - 1,
		ColStart: colStart,
		ColEnd:   colEnd,
		Style:    style,
	})
	return c
}

// Lines returns the accumulated plain text, one string per line.
func (c *ContentBuilder) Lines() []string {
	return c.lines
}

// Highlights returns the accumulated highlight runs.
func (c *ContentBuilder) Highlights() []Highlight {
	return c.highlights
}

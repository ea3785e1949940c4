package panelkit

import "github.com/mattn/go-runewidth"

// Buffer is a 2D grid of cells representing a drawable surface.
// The in-memory host composites panel text and widget windows into one,
// and the terminal screen diffs two of them per flush.
type Buffer struct {
	cells  []Cell
	width  int
	height int
}

// NewBuffer creates a new buffer with the given dimensions.
func NewBuffer(width, height int) *Buffer {
	cells := make([]Cell, width*height)
	empty := EmptyCell()
	for i := range cells {
		cells[i] = empty
	}
	return &Buffer{
		cells:  cells,
		width:  width,
		height: height,
	}
}

// Width returns the buffer width.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the buffer height.
func (b *Buffer) Height() int {
	return b.height
}

// InBounds returns true if the given coordinates are within the buffer.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Buffer) index(x, y int) int {
	return y*b.width + x
}

// Get returns the cell at the given coordinates.
// Returns an empty cell if out of bounds.
func (b *Buffer) Get(x, y int) Cell {
	if !b.InBounds(x, y) {
		return EmptyCell()
	}
	return b.cells[b.index(x, y)]
}

// Set sets the cell at the given coordinates.
// Does nothing if out of bounds.
// When drawing border characters, automatically merges with existing borders.
func (b *Buffer) Set(x, y int, c Cell) {
	if !b.InBounds(x, y) {
		return
	}
	idx := b.index(x, y)
	existing := b.cells[idx]

	if merged, ok := mergeBorders(existing.Rune, c.Rune); ok {
		c.Rune = merged
	}

	b.cells[idx] = c
}

// Fill fills the entire buffer with the given cell.
func (b *Buffer) Fill(c Cell) {
	for i := range b.cells {
		b.cells[i] = c
	}
}

// Clear clears the buffer to empty cells with default style.
func (b *Buffer) Clear() {
	b.Fill(EmptyCell())
}

// FillRect fills a rectangular region with the given cell.
func (b *Buffer) FillRect(x, y, width, height int, c Cell) {
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			b.Set(x+dx, y+dy, c)
		}
	}
}

// WriteString writes a string at the given coordinates with the given style.
// Wide runes advance by their full display width. Returns the number of
// columns written.
func (b *Buffer) WriteString(x, y int, s string, style Style) int {
	written := 0
	for _, r := range s {
		if !b.InBounds(x, y) {
			break
		}
		b.Set(x, y, NewCell(r, style))
		w := runewidth.RuneWidth(r)
		if w < 1 {
			w = 1
		}
		x += w
		written += w
	}
	return written
}

// WriteSpans writes styled spans starting at the given coordinates,
// stopping after maxWidth columns.
func (b *Buffer) WriteSpans(x, y int, spans []Span, maxWidth int) {
	limit := x + maxWidth
	for _, sp := range spans {
		for _, r := range sp.Text {
			if x >= limit || !b.InBounds(x, y) {
				return
			}
			b.Set(x, y, NewCell(r, sp.Style))
			w := runewidth.RuneWidth(r)
			if w < 1 {
				w = 1
			}
			x += w
		}
	}
}

// HLine draws a horizontal line of the given rune.
func (b *Buffer) HLine(x, y, length int, r rune, style Style) {
	for i := 0; i < length; i++ {
		b.Set(x+i, y, NewCell(r, style))
	}
}

// VLine draws a vertical line of the given rune.
func (b *Buffer) VLine(x, y, length int, r rune, style Style) {
	for i := 0; i < length; i++ {
		b.Set(x, y+i, NewCell(r, style))
	}
}

// Blit copies a rectangle from src into this buffer.
func (b *Buffer) Blit(src *Buffer, srcX, srcY, dstX, dstY, width, height int) {
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			if !src.InBounds(srcX+dx, srcY+dy) {
				continue
			}
			b.Set(dstX+dx, dstY+dy, src.Get(srcX+dx, srcY+dy))
		}
	}
}

// Box drawing characters for borders.
const (
	BoxHorizontal         = '─'
	BoxVertical           = '│'
	BoxTopLeft            = '┌'
	BoxTopRight           = '┐'
	BoxBottomLeft         = '└'
	BoxBottomRight        = '┘'
	BoxRoundedTopLeft     = '╭'
	BoxRoundedTopRight    = '╮'
	BoxRoundedBottomLeft  = '╰'
	BoxRoundedBottomRight = '╯'
	BoxDoubleHorizontal   = '═'
	BoxDoubleVertical     = '║'
	BoxDoubleTopLeft      = '╔'
	BoxDoubleTopRight     = '╗'
	BoxDoubleBottomLeft   = '╚'
	BoxDoubleBottomRight  = '╝'
)

// Box junction characters for merged borders
const (
	BoxTeeDown  = '┬' // ─ meets │ from below
	BoxTeeUp    = '┴' // ─ meets │ from above
	BoxTeeRight = '├' // │ meets ─ from right
	BoxTeeLeft  = '┤' // │ meets ─ from left
	BoxCross    = '┼' // all four directions
)

// borderEdges maps border runes to which edges they connect (top, right, bottom, left)
// Using bits: 1=top, 2=right, 4=bottom, 8=left
var borderEdges = map[rune]uint8{
	BoxHorizontal:  0b1010, // left + right
	BoxVertical:    0b0101, // top + bottom
	BoxTopLeft:     0b0110, // right + bottom
	BoxTopRight:    0b1100, // left + bottom
	BoxBottomLeft:  0b0011, // top + right
	BoxBottomRight: 0b1001, // top + left
	BoxTeeDown:     0b1110, // left + right + bottom
	BoxTeeUp:       0b1011, // left + right + top
	BoxTeeRight:    0b0111, // top + bottom + right
	BoxTeeLeft:     0b1101, // top + bottom + left
	BoxCross:       0b1111, // all
	// Rounded corners - same edges as regular
	BoxRoundedTopLeft:     0b0110,
	BoxRoundedTopRight:    0b1100,
	BoxRoundedBottomLeft:  0b0011,
	BoxRoundedBottomRight: 0b1001,
}

// edgesToBorder maps edge combinations back to border runes
var edgesToBorder = map[uint8]rune{
	0b1010: BoxHorizontal,
	0b0101: BoxVertical,
	0b0110: BoxTopLeft,
	0b1100: BoxTopRight,
	0b0011: BoxBottomLeft,
	0b1001: BoxBottomRight,
	0b1110: BoxTeeDown,
	0b1011: BoxTeeUp,
	0b0111: BoxTeeRight,
	0b1101: BoxTeeLeft,
	0b1111: BoxCross,
}

// mergeBorders combines two border characters into one.
// Returns the merged rune and true if both were border chars, otherwise false.
func mergeBorders(existing, new rune) (rune, bool) {
	existingEdges, ok1 := borderEdges[existing]
	newEdges, ok2 := borderEdges[new]
	if !ok1 || !ok2 {
		return new, false
	}

	merged := existingEdges | newEdges
	if result, ok := edgesToBorder[merged]; ok {
		return result, true
	}
	return new, false
}

// BorderStyle defines the characters used for drawing borders.
type BorderStyle struct {
	Horizontal  rune
	Vertical    rune
	TopLeft     rune
	TopRight    rune
	BottomLeft  rune
	BottomRight rune
}

// Standard border styles.
var (
	BorderSingle = BorderStyle{
		Horizontal:  BoxHorizontal,
		Vertical:    BoxVertical,
		TopLeft:     BoxTopLeft,
		TopRight:    BoxTopRight,
		BottomLeft:  BoxBottomLeft,
		BottomRight: BoxBottomRight,
	}
	BorderRounded = BorderStyle{
		Horizontal:  BoxHorizontal,
		Vertical:    BoxVertical,
		TopLeft:     BoxRoundedTopLeft,
		TopRight:    BoxRoundedTopRight,
		BottomLeft:  BoxRoundedBottomLeft,
		BottomRight: BoxRoundedBottomRight,
	}
	BorderDouble = BorderStyle{
		Horizontal:  BoxDoubleHorizontal,
		Vertical:    BoxDoubleVertical,
		TopLeft:     BoxDoubleTopLeft,
		TopRight:    BoxDoubleTopRight,
		BottomLeft:  BoxDoubleBottomLeft,
		BottomRight: BoxDoubleBottomRight,
	}
)

// DrawBorder draws a complete border around the given rectangle.
func (b *Buffer) DrawBorder(x, y, width, height int, border BorderStyle, style Style) {
	b.DrawBorderEdges(x, y, width, height, border, style, EdgeAll)
}

// DrawBorderEdges draws only the given edges of a border. Each edge is an
// independent drawable piece: a widget scrolled half off the bottom still
// shows a clean top/left/right frame. Corners draw only when both adjacent
// edges are present.
func (b *Buffer) DrawBorderEdges(x, y, width, height int, border BorderStyle, style Style, edges EdgeSet) {
	if width < 2 || height < 2 || edges == 0 {
		return
	}

	if edges.Has(EdgeTop) && edges.Has(EdgeLeft) {
		b.Set(x, y, NewCell(border.TopLeft, style))
	}
	if edges.Has(EdgeTop) && edges.Has(EdgeRight) {
		b.Set(x+width-1, y, NewCell(border.TopRight, style))
	}
	if edges.Has(EdgeBottom) && edges.Has(EdgeLeft) {
		b.Set(x, y+height-1, NewCell(border.BottomLeft, style))
	}
	if edges.Has(EdgeBottom) && edges.Has(EdgeRight) {
		b.Set(x+width-1, y+height-1, NewCell(border.BottomRight, style))
	}

	for i := 1; i < width-1; i++ {
		if edges.Has(EdgeTop) {
			b.Set(x+i, y, NewCell(border.Horizontal, style))
		}
		if edges.Has(EdgeBottom) {
			b.Set(x+i, y+height-1, NewCell(border.Horizontal, style))
		}
	}

	for i := 1; i < height-1; i++ {
		if edges.Has(EdgeLeft) {
			b.Set(x, y+i, NewCell(border.Vertical, style))
		}
		if edges.Has(EdgeRight) {
			b.Set(x+width-1, y+i, NewCell(border.Vertical, style))
		}
	}
}

// Line returns the content of a single row as a string, trailing spaces
// trimmed. Useful for assertions.
func (b *Buffer) Line(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	var line []byte
	lastNonSpace := -1
	for x := 0; x < b.width; x++ {
		r := b.Get(x, y).Rune
		if r == 0 {
			r = ' '
		}
		line = append(line, string(r)...)
		if r != ' ' {
			lastNonSpace = len(line)
		}
	}
	if lastNonSpace >= 0 {
		return string(line[:lastNonSpace])
	}
	return ""
}

// String returns the buffer contents as a string (for testing/debugging).
// Each row is separated by a newline. Trailing spaces are preserved.
func (b *Buffer) String() string {
	var result []byte
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			c := b.Get(x, y)
			if c.Rune == 0 {
				result = append(result, ' ')
			} else {
				result = append(result, string(c.Rune)...)
			}
		}
		if y < b.height-1 {
			result = append(result, '\n')
		}
	}
	return string(result)
}

// Resize resizes the buffer to new dimensions.
// Existing content is preserved where it fits.
func (b *Buffer) Resize(width, height int) {
	if width == b.width && height == b.height {
		return
	}

	newCells := make([]Cell, width*height)
	empty := EmptyCell()
	for i := range newCells {
		newCells[i] = empty
	}

	minWidth := min(b.width, width)
	minHeight := min(b.height, height)

	for y := 0; y < minHeight; y++ {
		for x := 0; x < minWidth; x++ {
			newCells[y*width+x] = b.cells[y*b.width+x]
		}
	}

	b.cells = newCells
	b.width = width
	b.height = height
}

package panelkit

// Geometry for the widget system. Everything here is pure: rectangles in
// logical (buffer) or viewport coordinates, border thickness accounting,
// and point/clip queries. Misses are reported as ok=false, never as errors.

// Rect is a rectangle in row/column space. Containment is half-open on the
// high edge: a Rect of height 1 covers exactly its own row.
type Rect struct {
	Row    int
	Col    int
	Width  int
	Height int
}

// Contains reports whether the cell at (row, col) lies inside the rect.
func (r Rect) Contains(row, col int) bool {
	return row >= r.Row && row < r.Row+r.Height &&
		col >= r.Col && col < r.Col+r.Width
}

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Translate returns the rect shifted by the given deltas.
func (r Rect) Translate(dRow, dCol int) Rect {
	r.Row += dRow
	r.Col += dCol
	return r
}

// Border describes a widget's border: per-side thickness and the glyph set
// used to draw it. The zero value is borderless.
type Border struct {
	Top, Bottom, Left, Right int
	Glyphs                   BorderStyle
	Style                    Style
}

// Uniform returns a 1-cell border on all sides with the given glyph set.
func Uniform(glyphs BorderStyle) Border {
	return Border{Top: 1, Bottom: 1, Left: 1, Right: 1, Glyphs: glyphs}
}

// None reports whether the border has zero thickness on every side.
func (b Border) None() bool {
	return b.Top == 0 && b.Bottom == 0 && b.Left == 0 && b.Right == 0
}

// Offsets returns the border thickness per side in cells:
// (top, bottom, left, right). A borderless widget yields all zeros.
func (b Border) Offsets() (top, bottom, left, right int) {
	return b.Top, b.Bottom, b.Left, b.Right
}

// Edges returns the edge set with a bit for every side of nonzero
// thickness.
func (b Border) Edges() EdgeSet {
	var e EdgeSet
	if b.Top > 0 {
		e |= EdgeTop
	}
	if b.Bottom > 0 {
		e |= EdgeBottom
	}
	if b.Left > 0 {
		e |= EdgeLeft
	}
	if b.Right > 0 {
		e |= EdgeRight
	}
	return e
}

// Inner returns the content rect inside the border of r.
func (b Border) Inner(r Rect) Rect {
	return Rect{
		Row:    r.Row + b.Top,
		Col:    r.Col + b.Left,
		Width:  r.Width - b.Left - b.Right,
		Height: r.Height - b.Top - b.Bottom,
	}
}

// FindAt returns the index of the first rect (in the given ordering)
// containing the point, or ok=false when none does.
func FindAt(rects []Rect, row, col int) (int, bool) {
	for i, r := range rects {
		if r.Contains(row, col) {
			return i, true
		}
	}
	return 0, false
}

// NearestFreeRow searches outward from row for the closest row in
// [0, totalRows) not covered by any rect. The search alternates below and
// above (+1, -1, +2, -2, ...), so ties at equal distance resolve downward.
// Returns row unchanged when every candidate is covered.
func NearestFreeRow(rects []Rect, row, totalRows int) int {
	covered := func(r int) bool {
		for _, rect := range rects {
			if r >= rect.Row && r < rect.Row+rect.Height {
				return true
			}
		}
		return false
	}

	if row >= 0 && row < totalRows && !covered(row) {
		return row
	}
	for d := 1; d < totalRows; d++ {
		if below := row + d; below < totalRows && !covered(below) {
			return below
		}
		if above := row - d; above >= 0 && !covered(above) {
			return above
		}
	}
	return row
}

// ClipResult describes the visible slice of a rect after viewport clipping.
type ClipResult struct {
	// Visible is the surviving slice in viewport coordinates.
	// Undefined when Hidden.
	Visible Rect
	// Clip amounts per edge, in cells, measured against the full rect.
	Top, Bottom, Left, Right int
	// Hidden reports that nothing of the rect survives.
	Hidden bool
}

// FullyVisible reports that no edge was clipped.
func (c ClipResult) FullyVisible() bool {
	return !c.Hidden && c.Top == 0 && c.Bottom == 0 && c.Left == 0 && c.Right == 0
}

// Clip translates a logical rect into viewport space (subtracting the
// scroll offset implicit in viewport.Row/Col) and intersects it with the
// viewport. A zero or negative surviving size reports Hidden rather than
// a degenerate rect.
func Clip(r Rect, viewport Rect) ClipResult {
	var c ClipResult

	// Viewport-relative position.
	top := r.Row - viewport.Row
	left := r.Col - viewport.Col
	bottom := top + r.Height
	right := left + r.Width

	if top < 0 {
		c.Top = -top
		top = 0
	}
	if left < 0 {
		c.Left = -left
		left = 0
	}
	if bottom > viewport.Height {
		c.Bottom = bottom - viewport.Height
		bottom = viewport.Height
	}
	if right > viewport.Width {
		c.Right = right - viewport.Width
		right = viewport.Width
	}

	if bottom-top <= 0 || right-left <= 0 {
		c.Hidden = true
		return c
	}

	c.Visible = Rect{Row: top, Col: left, Width: right - left, Height: bottom - top}
	return c
}

// EdgeSet marks which border edges of a clipped widget remain drawable.
type EdgeSet uint8

const (
	EdgeTop EdgeSet = 1 << iota
	EdgeBottom
	EdgeLeft
	EdgeRight

	EdgeAll = EdgeTop | EdgeBottom | EdgeLeft | EdgeRight
)

// Has reports whether the set contains the given edge.
func (e EdgeSet) Has(edge EdgeSet) bool {
	return e&edge != 0
}

// VisibleEdges returns the border edges that survive the given clip.
// An edge is drawable only when its border rows/cols were not clipped away.
func VisibleEdges(c ClipResult) EdgeSet {
	if c.Hidden {
		return 0
	}
	e := EdgeAll
	if c.Top > 0 {
		e &^= EdgeTop
	}
	if c.Bottom > 0 {
		e &^= EdgeBottom
	}
	if c.Left > 0 {
		e &^= EdgeLeft
	}
	if c.Right > 0 {
		e &^= EdgeRight
	}
	return e
}

package panelkit

// Dir is a navigation direction.
type Dir int

const (
	DirUp Dir = iota
	DirDown
	DirLeft
	DirRight
)

// columnSeeker is implemented by widgets whose cursor can be placed at
// a display column, so directional entry lands where the eye expects.
type columnSeeker interface {
	seekColumn(col int)
}

// Router drives focus traversal across one panel's widgets: sequence
// cycling (Next/Prev), directional movement with entry-offset
// translation, and the cursor watcher that materializes a widget when
// plain buffer navigation lands inside its region.
type Router struct {
	panel *Panel

	// entryCol is the logical column the user last occupied; directional
	// vertical moves and widget entry preserve it.
	entryCol int
}

func newRouter(p *Panel) *Router {
	r := &Router{panel: p}
	p.ctrl.hst.OnCursorMoved(p.win, r.cursorMoved)
	return r
}

// Next activates the next widget in row-major order, cycling past the
// end. Hidden widgets are skipped.
func (r *Router) Next() { r.cycle(1) }

// Prev activates the previous widget in row-major order, cycling past
// the start.
func (r *Router) Prev() { r.cycle(-1) }

func (r *Router) cycle(step int) {
	order := r.panel.Widgets()
	if len(order) == 0 {
		return
	}
	start := 0
	if cur := r.panel.ctrl.Current(); cur != nil {
		for i, w := range order {
			if w == cur {
				start = i + step
				break
			}
		}
	} else if step < 0 {
		start = len(order) - 1
	}

	for i := 0; i < len(order); i++ {
		idx := ((start+i*step)%len(order) + len(order)) % len(order)
		w := order[idx]
		if r.hidden(w) {
			continue
		}
		r.enter(w, w.Region().Col)
		return
	}
}

// Move activates the nearest widget in the given direction from the
// current one, carrying the entry offset across: a vertical move enters
// the target at the column the user left, clamped to the target's
// width. No-op when no widget lies in that direction.
func (r *Router) Move(d Dir) bool {
	cur := r.panel.ctrl.Current()
	if cur == nil {
		return false
	}
	from := cur.Region()
	refCol := r.entryCol
	if refCol < from.Col || refCol >= from.Col+from.Width {
		refCol = from.Col
	}

	var best Widget
	bestPrimary, bestSecondary := 0, 0
	for _, w := range r.panel.Widgets() {
		if w == cur || r.hidden(w) {
			continue
		}
		t := w.Region()
		var primary, secondary int
		switch d {
		case DirUp:
			primary = from.Row - (t.Row + t.Height)
			secondary = colDistance(t, refCol)
		case DirDown:
			primary = t.Row - (from.Row + from.Height)
			secondary = colDistance(t, refCol)
		case DirLeft:
			primary = from.Col - (t.Col + t.Width)
			secondary = rowDistance(t, from.Row)
		case DirRight:
			primary = t.Col - (from.Col + from.Width)
			secondary = rowDistance(t, from.Row)
		}
		if primary < 0 {
			continue
		}
		if best == nil || primary < bestPrimary ||
			(primary == bestPrimary && secondary < bestSecondary) {
			best, bestPrimary, bestSecondary = w, primary, secondary
		}
	}
	if best == nil {
		return false
	}
	r.enter(best, refCol)
	return true
}

// ExitFrom leaves the widget in the given direction. A visible widget
// at the landing cell receives focus directly, without passing through
// an unfocused state; a hidden one there makes the cursor snap to the
// nearest free row, ties resolving downward. Otherwise plain buffer
// navigation resumes at the landing cell.
func (r *Router) ExitFrom(w Widget, d Dir) {
	ctrl := r.panel.ctrl
	if ctrl.Current() == w {
		ctrl.Deactivate()
	}

	reg := w.Region()
	row, col := reg.Row, reg.Col
	switch d {
	case DirUp:
		row = reg.Row - 1
	case DirDown:
		row = reg.Row + reg.Height
	case DirLeft:
		col = reg.Col - 1
		if col < 0 {
			col = 0
		}
	case DirRight:
		col = reg.Col + reg.Width
	}

	rects := make([]Rect, len(r.panel.widgets))
	for i, o := range r.panel.widgets {
		rects[i] = o.Region()
	}
	if i, hit := FindAt(rects, row, col); hit {
		if target := r.panel.widgets[i]; !r.hidden(target) {
			r.enter(target, col)
			return
		}
		row = NearestFreeRow(rects, row, r.panel.logicalHeight())
	}
	r.entryCol = col
	r.panel.win.SetCursor(row, col)
}

// enter activates the widget and translates the entry column into it.
func (r *Router) enter(w Widget, col int) {
	reg := w.Region()
	if col < reg.Col {
		col = reg.Col
	}
	if col >= reg.Col+reg.Width {
		col = reg.Col + reg.Width - 1
	}
	r.entryCol = col
	if err := r.panel.ctrl.Activate(w); err != nil {
		logger.WithField("widget", w.Name()).WithError(err).Debug("activation failed")
		return
	}
	if r.panel.ctrl.Current() != w {
		return // refused
	}
	if cs, ok := w.(columnSeeker); ok {
		cs.seekColumn(col - reg.Col)
	}
}

// cursorMoved is the fallback watcher: plain cursor motion in the panel
// buffer that lands inside a widget region activates that widget.
func (r *Router) cursorMoved(row, col int) {
	ctrl := r.panel.ctrl
	if ctrl.overlayOpen || ctrl.suppressFocus {
		return
	}
	w, ok := r.panel.WidgetAt(row, col)
	if !ok || ctrl.Current() == w {
		if !ok {
			r.entryCol = col
		}
		return
	}
	r.enter(w, col)
}

func (r *Router) hidden(w Widget) bool {
	if v, ok := r.panel.sync.viewState(w.Name()); ok {
		return v.hidden
	}
	return Clip(w.Region(), r.panel.viewport()).Hidden
}

func colDistance(t Rect, col int) int {
	if col < t.Col {
		return t.Col - col
	}
	if col >= t.Col+t.Width {
		return col - (t.Col + t.Width - 1)
	}
	return 0
}

func rowDistance(t Rect, row int) int {
	if row < t.Row {
		return t.Row - row
	}
	if row >= t.Row+t.Height {
		return row - (t.Row + t.Height - 1)
	}
	return 0
}

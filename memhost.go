package panelkit

import (
	"errors"
	"sort"
)

// MemHost is a complete in-memory host: scratch buffers, z-ordered
// sub-windows, synchronous event fan-out and a tick-drained defer queue.
// The test suite runs the whole engine against it, and headless callers
// can use it to render panels to a cell grid.
type MemHost struct {
	width, height int

	buffers []*MemBuffer
	windows []*MemWindow
	nextID  int

	focused *MemWindow

	scrollSubs []scrollSub
	cursorSubs []cursorSub
	enterSubs  []focusSub
	leaveSubs  []focusSub
	binds      []memBind

	deferred DeferQueue
}

type scrollSub struct {
	win *MemWindow
	fn  func()
}

type cursorSub struct {
	win *MemWindow
	fn  func(row, col int)
}

type focusSub struct {
	buf *MemBuffer
	fn  func()
}

type memBind struct {
	buf     *MemBuffer
	pattern string
	fn      func()
}

// NewMemHost creates an in-memory host with the given screen dimensions.
func NewMemHost(width, height int) *MemHost {
	return &MemHost{width: width, height: height}
}

// NewBuffer creates a scratch buffer.
func (h *MemHost) NewBuffer() HostBuffer {
	b := &MemBuffer{host: h, valid: true, modifiable: true, runs: map[string][]StyledRun{}}
	h.buffers = append(h.buffers, b)
	return b
}

// OpenWindow opens a sub-window over buf.
func (h *MemHost) OpenWindow(parent HostWindow, buf HostBuffer, cfg WindowConfig) (HostWindow, error) {
	mb, ok := buf.(*MemBuffer)
	if !ok || !mb.valid {
		return nil, errors.New("panelkit: buffer destroyed")
	}
	var mp *MemWindow
	if parent != nil {
		mp, ok = parent.(*MemWindow)
		if !ok || !mp.valid {
			return nil, errors.New("panelkit: parent window destroyed")
		}
	}
	h.nextID++
	w := &MemWindow{host: h, id: h.nextID, parent: mp, buf: mb, cfg: cfg, valid: true}
	h.windows = append(h.windows, w)
	return w, nil
}

// Focus transfers input focus to the window.
func (h *MemHost) Focus(win HostWindow) {
	w, ok := win.(*MemWindow)
	if !ok || !w.valid {
		return
	}
	if h.focused == w {
		return
	}
	prev := h.focused
	h.focused = w
	if prev != nil {
		h.fireFocus(h.leaveSubs, prev.buf)
	}
	h.fireFocus(h.enterSubs, w.buf)
}

// Focused returns the focused window, or nil.
func (h *MemHost) Focused() HostWindow {
	if h.focused == nil {
		return nil
	}
	return h.focused
}

func (h *MemHost) fireFocus(subs []focusSub, buf *MemBuffer) {
	for _, s := range subs {
		if s.buf == buf && s.buf.valid {
			s.fn()
		}
	}
}

// OnScroll subscribes to viewport-scroll events of a window.
func (h *MemHost) OnScroll(win HostWindow, fn func()) {
	if w, ok := win.(*MemWindow); ok {
		h.scrollSubs = append(h.scrollSubs, scrollSub{win: w, fn: fn})
	}
}

// OnCursorMoved subscribes to cursor movement within a window.
func (h *MemHost) OnCursorMoved(win HostWindow, fn func(row, col int)) {
	if w, ok := win.(*MemWindow); ok {
		h.cursorSubs = append(h.cursorSubs, cursorSub{win: w, fn: fn})
	}
}

// OnFocusEnter subscribes to a buffer gaining focus.
func (h *MemHost) OnFocusEnter(buf HostBuffer, fn func()) {
	if b, ok := buf.(*MemBuffer); ok {
		h.enterSubs = append(h.enterSubs, focusSub{buf: b, fn: fn})
	}
}

// OnFocusLeave subscribes to a buffer losing focus.
func (h *MemHost) OnFocusLeave(buf HostBuffer, fn func()) {
	if b, ok := buf.(*MemBuffer); ok {
		h.leaveSubs = append(h.leaveSubs, focusSub{buf: b, fn: fn})
	}
}

// Bind registers a key pattern scoped to one buffer. Bindings for
// destroyed buffers are pruned as new ones arrive, so per-activation
// rebinding does not accumulate.
func (h *MemHost) Bind(buf HostBuffer, pattern string, fn func()) {
	b, ok := buf.(*MemBuffer)
	if !ok || !b.valid {
		return
	}
	live := h.binds[:0]
	for _, bd := range h.binds {
		if bd.buf.valid {
			live = append(live, bd)
		}
	}
	h.binds = append(live, memBind{buf: b, pattern: pattern, fn: fn})
}

// Press simulates a keypress: the binding for the focused window's
// buffer fires, then the defer queue drains, mirroring one event-loop
// turn. Returns false when no binding matched.
func (h *MemHost) Press(pattern string) bool {
	handled := false
	if h.focused != nil {
		for _, b := range h.binds {
			if b.buf == h.focused.buf && b.pattern == pattern && b.buf.valid {
				b.fn()
				handled = true
				break
			}
		}
	}
	h.deferred.Drain()
	return handled
}

// Defer queues fn for the next tick.
func (h *MemHost) Defer(fn func()) {
	h.deferred.Push(fn)
}

// Tick drains the deferred-task queue once, as the event loop would
// after a callback unwinds.
func (h *MemHost) Tick() {
	h.deferred.Drain()
}

// Render composites all visible windows into a cell grid, lowest z
// first, creation order breaking ties.
func (h *MemHost) Render() *Buffer {
	screen := NewBuffer(h.width, h.height)

	wins := make([]*MemWindow, 0, len(h.windows))
	for _, w := range h.windows {
		if w.valid && !w.hiddenDeep() {
			wins = append(wins, w)
		}
	}
	sort.SliceStable(wins, func(i, j int) bool { return wins[i].cfg.Z < wins[j].cfg.Z })

	for _, w := range wins {
		w.draw(screen)
	}
	return screen
}

// MemBuffer is an in-memory HostBuffer.
type MemBuffer struct {
	host       *MemHost
	valid      bool
	modifiable bool
	lines      []string
	runs       map[string][]StyledRun
}

// Valid reports whether the buffer still exists.
func (b *MemBuffer) Valid() bool { return b.valid }

// LineCount returns the number of lines.
func (b *MemBuffer) LineCount() int {
	if !b.valid {
		return 0
	}
	return len(b.lines)
}

// Lines returns lines [start, end).
func (b *MemBuffer) Lines(start, end int) []string {
	if !b.valid {
		return nil
	}
	if start < 0 {
		start = 0
	}
	if end > len(b.lines) {
		end = len(b.lines)
	}
	if start >= end {
		return nil
	}
	out := make([]string, end-start)
	copy(out, b.lines[start:end])
	return out
}

// SetLines replaces lines [start, end), growing the buffer when needed.
func (b *MemBuffer) SetLines(start, end int, lines []string) {
	if !b.valid || !b.modifiable || start < 0 {
		return
	}
	for len(b.lines) < start {
		b.lines = append(b.lines, "")
	}
	if end > len(b.lines) {
		end = len(b.lines)
	}
	tail := append([]string{}, b.lines[end:]...)
	b.lines = append(b.lines[:start], append(append([]string{}, lines...), tail...)...)
}

// SetModifiable toggles write access.
func (b *MemBuffer) SetModifiable(modifiable bool) {
	if b.valid {
		b.modifiable = modifiable
	}
}

// SetStyledRuns replaces the styled runs in a namespace.
func (b *MemBuffer) SetStyledRuns(namespace string, runs []StyledRun) {
	if !b.valid {
		return
	}
	if runs == nil {
		delete(b.runs, namespace)
		return
	}
	b.runs[namespace] = append([]StyledRun{}, runs...)
}

// Close destroys the buffer and every window over it.
func (b *MemBuffer) Close() {
	if !b.valid {
		return
	}
	b.valid = false
	for _, w := range b.host.windows {
		if w.buf == b {
			w.Close()
		}
	}
}

// styleAt returns the resolved style for a cell, last-set namespace wins.
func (b *MemBuffer) styleAt(line, col int) (Style, bool) {
	var st Style
	found := false
	for _, runs := range b.runs {
		for _, r := range runs {
			if r.Line == line && col >= r.ColStart && col < r.ColEnd {
				st = r.Style
				found = true
			}
		}
	}
	return st, found
}

// MemWindow is an in-memory HostWindow.
type MemWindow struct {
	host   *MemHost
	id     int
	parent *MemWindow
	buf    *MemBuffer
	cfg    WindowConfig
	valid  bool

	curRow, curCol int
	topLine        int
	leftCol        int
}

// Valid reports whether the window still exists.
func (w *MemWindow) Valid() bool { return w.valid }

// Buffer returns the window's buffer.
func (w *MemWindow) Buffer() HostBuffer { return w.buf }

// Config returns the current window configuration.
func (w *MemWindow) Config() WindowConfig { return w.cfg }

// Reconfigure moves/resizes/hides the window.
func (w *MemWindow) Reconfigure(cfg WindowConfig) {
	if !w.valid {
		return
	}
	w.cfg = cfg
}

// Cursor returns the cursor position in buffer coordinates.
func (w *MemWindow) Cursor() (row, col int) {
	return w.curRow, w.curCol
}

// SetCursor moves the cursor, firing cursor-moved subscriptions.
func (w *MemWindow) SetCursor(row, col int) {
	if !w.valid {
		return
	}
	if row < 0 {
		row = 0
	}
	if col < 0 {
		col = 0
	}
	if row == w.curRow && col == w.curCol {
		return
	}
	w.curRow, w.curCol = row, col
	for _, s := range w.host.cursorSubs {
		if s.win == w {
			s.fn(row, col)
		}
	}
}

// TopLine returns the vertical scroll offset.
func (w *MemWindow) TopLine() int { return w.topLine }

// SetTopLine scrolls the window, firing scroll subscriptions on change.
func (w *MemWindow) SetTopLine(line int) {
	if !w.valid {
		return
	}
	if line < 0 {
		line = 0
	}
	if line == w.topLine {
		return
	}
	w.topLine = line
	w.fireScroll()
}

// LeftCol returns the horizontal scroll offset.
func (w *MemWindow) LeftCol() int { return w.leftCol }

// SetLeftCol scrolls the window horizontally.
func (w *MemWindow) SetLeftCol(col int) {
	if !w.valid {
		return
	}
	if col < 0 {
		col = 0
	}
	if col == w.leftCol {
		return
	}
	w.leftCol = col
	w.fireScroll()
}

func (w *MemWindow) fireScroll() {
	for _, s := range w.host.scrollSubs {
		if s.win == w {
			s.fn()
		}
	}
}

// Close destroys the window. Child windows are closed with it.
func (w *MemWindow) Close() {
	if !w.valid {
		return
	}
	w.valid = false
	if w.host.focused == w {
		w.host.focused = nil
	}
	for _, c := range w.host.windows {
		if c.parent == w {
			c.Close()
		}
	}
}

// hiddenDeep reports whether the window or any ancestor is hidden.
func (w *MemWindow) hiddenDeep() bool {
	for p := w; p != nil; p = p.parent {
		if p.cfg.Hidden {
			return true
		}
	}
	return false
}

// absOrigin returns the window's outer top-left in screen coordinates.
func (w *MemWindow) absOrigin() (row, col int) {
	if w.parent == nil {
		return w.cfg.Row, w.cfg.Col
	}
	pr, pc := w.parent.absOrigin()
	// Child coordinates are relative to the parent's content viewport.
	if b := w.parent.cfg.Border; b != nil {
		if b.Edges.Has(EdgeTop) {
			pr++
		}
		if b.Edges.Has(EdgeLeft) {
			pc++
		}
	}
	return pr + w.cfg.Row, pc + w.cfg.Col
}

// draw composites the window onto a screen buffer.
func (w *MemWindow) draw(screen *Buffer) {
	row, col := w.absOrigin()
	width, height := w.cfg.Width, w.cfg.Height
	if width <= 0 || height <= 0 {
		return
	}

	innerRow, innerCol := row, col
	innerW, innerH := width, height
	if b := w.cfg.Border; b != nil {
		screen.DrawBorderEdges(col, row, width, height, b.Glyphs, b.Style, b.Edges)
		if b.Edges.Has(EdgeTop) {
			innerRow++
			innerH--
		}
		if b.Edges.Has(EdgeBottom) {
			innerH--
		}
		if b.Edges.Has(EdgeLeft) {
			innerCol++
			innerW--
		}
		if b.Edges.Has(EdgeRight) {
			innerW--
		}
	}

	lines := w.buf.Lines(w.topLine, w.topLine+innerH)
	for dy, line := range lines {
		x := innerCol
		i := 0
		for _, r := range line {
			if i < w.leftCol {
				i++
				continue
			}
			if x >= innerCol+innerW {
				break
			}
			st, ok := w.buf.styleAt(w.topLine+dy, i)
			if !ok {
				st = DefaultStyle()
			}
			screen.Set(x, innerRow+dy, NewCell(r, st))
			x++
			i++
		}
	}
}

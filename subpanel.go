package panelkit

import (
	"fmt"
	"strings"
)

// SubPanelW is a nested scrollable content region. Unlike the field
// widgets it is permanently backed by a display window: its content,
// border and internal scroll position live in the host, and the scroll
// synchronizer clips and repositions the window as the outer panel
// scrolls. Activation focuses the existing window rather than opening
// a new one.
type SubPanelW struct {
	widgetBase

	content Content

	host    Host
	dispWin HostWindow
	dispBuf HostBuffer
	theme   *Theme
}

// SubPanel creates a nested panel at the given region.
func SubPanel(name string, region Rect) *SubPanelW {
	return &SubPanelW{widgetBase: widgetBase{name: name, region: region, dirty: true}}
}

// Bordered frames the sub-panel with the given glyph set on all sides.
func (w *SubPanelW) Bordered(glyphs BorderStyle) *SubPanelW {
	w.border = Uniform(glyphs)
	return w
}

// WithContent sets the initial content.
func (w *SubPanelW) WithContent(c Content) *SubPanelW {
	w.content = c
	return w
}

// SetContent replaces the displayed content and clamps the scroll
// position to the new extent.
func (w *SubPanelW) SetContent(c Content) {
	w.content = c
	if w.mounted() {
		w.renderContent()
		w.setScrollOffset(w.scrollOffset())
	}
}

// Value: sub-panels carry no scalar value.
func (w *SubPanelW) Value() Value { return nil }

// SetValue rejects any value; sub-panels hold content, not values.
func (w *SubPanelW) SetValue(Value) error {
	return fmt.Errorf("panelkit: subpanel %q holds no value", w.name)
}

// VirtualSpans reserves the region with blank lines. The display window
// paints over them; the blanks only keep the panel buffer's column
// accounting exact while the window is hidden.
func (w *SubPanelW) VirtualSpans(th *Theme, _ EdgeSet) [][]Span {
	blank := strings.Repeat(" ", w.region.Width)
	out := make([][]Span, w.region.Height)
	for i := range out {
		out[i] = []Span{Styled(blank, th.Base)}
	}
	return out
}

// mount opens the persistent display window. Called once by the owning
// panel when the widget is added; the window starts hidden and the
// scroll synchronizer reveals it at the right place.
func (w *SubPanelW) mount(host Host, parent HostWindow, th *Theme) error {
	if w.mounted() {
		return nil
	}
	buf := host.NewBuffer()
	cfg := WindowConfig{
		Row:    w.region.Row,
		Col:    w.region.Col,
		Width:  w.region.Width,
		Height: w.region.Height,
		Z:      20,
		Hidden: true,
	}
	if !w.border.None() {
		cfg.Border = &WindowBorder{Glyphs: w.border.Glyphs, Style: th.Border, Edges: w.border.Edges()}
	}
	win, err := host.OpenWindow(parent, buf, cfg)
	if err != nil {
		buf.Close()
		return err
	}
	w.host = host
	w.dispWin = win
	w.dispBuf = buf
	w.theme = th
	buf.SetModifiable(false)
	w.renderContent()
	host.OnScroll(win, w.updateScrollbar)
	return nil
}

// unmount closes the display window. Called when the widget is removed
// or the panel is destroyed.
func (w *SubPanelW) unmount() {
	if w.dispWin != nil {
		w.dispWin.Close()
	}
	if w.dispBuf != nil {
		w.dispBuf.Close()
	}
	w.dispWin = nil
	w.dispBuf = nil
	w.host = nil
	w.win = nil
}

// displayWindow returns the persistent window, nil before mount.
func (w *SubPanelW) displayWindow() HostWindow { return w.dispWin }

func (w *SubPanelW) mounted() bool {
	return w.dispWin != nil && w.dispWin.Valid()
}

// Materialized for a sub-panel means its display window holds focus.
func (w *SubPanelW) Materialized() bool {
	return w.win != nil && w.win.Valid()
}

func (w *SubPanelW) materialize(win HostWindow, th *Theme) error {
	// the controller passes the display window back in; activation is
	// a focus change, not a window open
	if win != w.dispWin {
		return fmt.Errorf("panelkit: subpanel %q: foreign window", w.name)
	}
	w.win = win
	w.setBorderStyle(th.FieldActive)
	return nil
}

func (w *SubPanelW) dematerialize() {
	w.setBorderStyle(w.theme.Border)
	w.win = nil
}

func (w *SubPanelW) setBorderStyle(style Style) {
	if !w.mounted() {
		return
	}
	cfg := w.dispWin.Config()
	if cfg.Border == nil {
		return
	}
	b := *cfg.Border
	b.Style = style
	cfg.Border = &b
	w.dispWin.Reconfigure(cfg)
}

// ScrollBy scrolls the content by delta lines, clamped.
func (w *SubPanelW) ScrollBy(delta int) {
	w.setScrollOffset(w.scrollOffset() + delta)
}

// scroller capability: the synchronizer preserves this offset across
// outer clip changes.

func (w *SubPanelW) scrollOffset() int {
	if !w.mounted() {
		return 0
	}
	return w.dispWin.TopLine()
}

func (w *SubPanelW) setScrollOffset(offset int) {
	if !w.mounted() {
		return
	}
	max := w.contentHeight() - w.innerHeight()
	if offset > max {
		offset = max
	}
	if offset < 0 {
		offset = 0
	}
	w.dispWin.SetTopLine(offset)
	w.updateScrollbar()
}

func (w *SubPanelW) contentHeight() int {
	if w.content == nil {
		return 0
	}
	return len(w.content.Lines())
}

func (w *SubPanelW) innerHeight() int {
	h := w.region.Height - w.border.Top - w.border.Bottom
	if h < 0 {
		h = 0
	}
	return h
}

func (w *SubPanelW) innerWidth() int {
	v := w.region.Width - w.border.Left - w.border.Right
	if v < 0 {
		v = 0
	}
	return v
}

// renderContent writes the content lines and resolved highlight runs
// into the display buffer.
func (w *SubPanelW) renderContent() {
	if !w.mounted() {
		return
	}
	var lines []string
	var runs []StyledRun
	if w.content != nil {
		lines = w.content.Lines()
		for _, h := range w.content.Highlights() {
			runs = append(runs, StyledRun{
				Line:     h.Line,
				ColStart: h.ColStart,
				ColEnd:   h.ColEnd,
				Style:    w.theme.Lookup(h.Style),
			})
		}
	}
	w.dispBuf.SetModifiable(true)
	w.dispBuf.SetLines(0, w.dispBuf.LineCount(), lines)
	w.dispBuf.SetModifiable(false)
	w.dispBuf.SetStyledRuns("content", runs)
	w.updateScrollbar()
}

// updateScrollbar paints the thumb glyphs in the last content column.
// The runs live in buffer coordinates, so they are recomputed whenever
// the window scrolls.
func (w *SubPanelW) updateScrollbar() {
	if !w.mounted() {
		return
	}
	inner, total := w.innerHeight(), w.contentHeight()
	if total <= inner || inner <= 0 {
		w.dispBuf.SetStyledRuns("scrollbar", nil)
		return
	}
	top := w.dispWin.TopLine()
	thumbLen := inner * inner / total
	if thumbLen < 1 {
		thumbLen = 1
	}
	thumbStart := top * (inner - thumbLen) / (total - inner)
	col := w.innerWidth() - 1
	runs := make([]StyledRun, 0, thumbLen)
	for i := 0; i < thumbLen; i++ {
		runs = append(runs, StyledRun{
			Line:     top + thumbStart + i,
			ColStart: col,
			ColEnd:   col + 1,
			Style:    w.theme.Accent,
		})
	}
	w.dispBuf.SetStyledRuns("scrollbar", runs)
}

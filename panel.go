package panelkit

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// PanelID is an opaque handle to a panel. Widgets and hosts hold the id
// rather than the *Panel, so a destroyed panel leaves no live back
// references behind.
type PanelID int

// PanelConfig places a panel on the host surface.
type PanelConfig struct {
	// Rect is the panel window's outer placement, border included.
	Rect Rect
	// Theme defaults to ThemeDark when nil.
	Theme *Theme
	// Bordered frames the panel window with a rounded border.
	Bordered bool
	// Z stacks the panel among other top-level windows.
	Z int
}

// Panel is one form surface: a host buffer holding content text with
// widget regions spliced in as styled virtual text, shown through a
// scrollable host window.
type Panel struct {
	id    PanelID
	ctrl  *Controller
	host  Host
	theme *Theme

	buf HostBuffer
	win HostWindow

	content Content
	widgets []Widget // insertion order; Widgets() returns row-major

	sync      *scrollSync
	router    *Router
	destroyed bool
}

// NewPanel opens a panel window and registers it with the controller.
func NewPanel(ctrl *Controller, cfg PanelConfig) (*Panel, error) {
	th := cfg.Theme
	if th == nil {
		d := ThemeDark
		th = &d
	}
	buf := ctrl.hst.NewBuffer()
	wc := WindowConfig{
		Row:    cfg.Rect.Row,
		Col:    cfg.Rect.Col,
		Width:  cfg.Rect.Width,
		Height: cfg.Rect.Height,
		Z:      cfg.Z,
	}
	if cfg.Bordered {
		wc.Border = &WindowBorder{Glyphs: BorderRounded, Style: th.Border, Edges: EdgeAll}
	}
	win, err := ctrl.hst.OpenWindow(nil, buf, wc)
	if err != nil {
		buf.Close()
		return nil, err
	}
	buf.SetModifiable(false)

	p := &Panel{
		ctrl:  ctrl,
		host:  ctrl.hst,
		theme: th,
		buf:   buf,
		win:   win,
	}
	p.id = ctrl.register(p)
	p.sync = newScrollSync(p)
	p.router = newRouter(p)
	ctrl.hst.OnScroll(win, func() {
		p.sync.apply()
	})
	logger.WithField("panel", p.id).Debug("panel opened")
	return p, nil
}

// ID returns the panel's opaque handle.
func (p *Panel) ID() PanelID { return p.id }

// Theme returns the panel's theme.
func (p *Panel) Theme() *Theme { return p.theme }

// Router returns the panel's navigation router.
func (p *Panel) Router() *Router { return p.router }

// Controller returns the controller the panel is registered with.
func (p *Panel) Controller() *Controller { return p.ctrl }

// Window returns the panel's host window.
func (p *Panel) Window() HostWindow { return p.win }

// Buffer returns the panel's host buffer.
func (p *Panel) Buffer() HostBuffer { return p.buf }

// SetContent replaces the panel's background text. Widget regions are
// re-spliced over it.
func (p *Panel) SetContent(c Content) {
	p.content = c
	p.renderAll()
}

// AddWidget registers a widget with the panel. Names must be unique
// within the panel and regions must not overlap existing widgets.
func (p *Panel) AddWidget(w Widget) error {
	if p.destroyed {
		return fmt.Errorf("panelkit: panel %d destroyed", p.id)
	}
	if _, ok := p.Widget(w.Name()); ok {
		return fmt.Errorf("panelkit: panel %d: duplicate widget %q", p.id, w.Name())
	}
	r := w.Region()
	if r.Empty() {
		return fmt.Errorf("panelkit: widget %q has an empty region", w.Name())
	}
	for _, other := range p.widgets {
		if rectsOverlap(r, other.Region()) {
			return fmt.Errorf("panelkit: widget %q overlaps %q", w.Name(), other.Name())
		}
	}
	// builders store preset values unchecked; run them through the
	// widget's own validation before the widget becomes reachable
	if v := w.Value(); v != nil {
		if err := w.SetValue(v); err != nil {
			return err
		}
	}

	w.attach(p.ctrl, p.id)
	if wb, ok := w.(windowBacked); ok {
		if err := wb.mount(p.host, p.win, p.theme); err != nil {
			return err
		}
	}
	p.widgets = append(p.widgets, w)
	p.renderWidget(w)
	p.sync.refresh()
	return nil
}

// RemoveWidget unregisters a widget, deactivating it first if needed,
// and blanks its region.
func (p *Panel) RemoveWidget(name string) {
	for i, w := range p.widgets {
		if w.Name() != name {
			continue
		}
		if p.ctrl.Current() == w {
			p.ctrl.Deactivate()
		}
		if wb, ok := w.(windowBacked); ok {
			wb.unmount()
		}
		p.widgets = append(p.widgets[:i], p.widgets[i+1:]...)
		p.blankRegion(w.Region())
		p.buf.SetStyledRuns("widget/"+name, nil)
		return
	}
}

// Widget returns the named widget.
func (p *Panel) Widget(name string) (Widget, bool) {
	for _, w := range p.widgets {
		if w.Name() == name {
			return w, true
		}
	}
	return nil, false
}

// Widgets returns the panel's widgets in row-major order.
func (p *Panel) Widgets() []Widget {
	return orderWidgets(p.widgets)
}

// WidgetAt returns the widget whose region contains the logical point.
func (p *Panel) WidgetAt(row, col int) (Widget, bool) {
	for _, w := range p.widgets {
		if w.Region().Contains(row, col) {
			return w, true
		}
	}
	return nil, false
}

// Destroy tears the panel down: deactivates any materialized widget,
// unmounts window-backed widgets and closes the panel window and
// buffer. Safe to call twice.
func (p *Panel) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	if cur := p.ctrl.Current(); cur != nil {
		if _, ok := p.Widget(cur.Name()); ok {
			p.ctrl.Deactivate()
		}
	}
	for _, w := range p.widgets {
		if wb, ok := w.(windowBacked); ok {
			wb.unmount()
		}
	}
	p.widgets = nil
	p.win.Close()
	p.buf.Close()
	p.ctrl.unregister(p.id)
	logger.WithField("panel", p.id).Debug("panel destroyed")
}

// viewport returns the window's current view of the logical buffer, in
// logical coordinates.
func (p *Panel) viewport() Rect {
	cfg := p.win.Config()
	w, h := cfg.Width, cfg.Height
	if cfg.Border != nil {
		if cfg.Border.Edges.Has(EdgeTop) {
			h--
		}
		if cfg.Border.Edges.Has(EdgeBottom) {
			h--
		}
		if cfg.Border.Edges.Has(EdgeLeft) {
			w--
		}
		if cfg.Border.Edges.Has(EdgeRight) {
			w--
		}
	}
	return Rect{Row: p.win.TopLine(), Col: p.win.LeftCol(), Width: w, Height: h}
}

// logicalHeight is the buffer extent: content plus widget regions.
func (p *Panel) logicalHeight() int {
	h := 0
	if p.content != nil {
		h = len(p.content.Lines())
	}
	for _, w := range p.widgets {
		r := w.Region()
		if bottom := r.Row + r.Height; bottom > h {
			h = bottom
		}
	}
	return h
}

// renderAll rewrites the whole buffer: content lines first, then every
// widget's virtual text spliced over them.
func (p *Panel) renderAll() {
	if p.destroyed {
		return
	}
	var base []string
	var runs []StyledRun
	if p.content != nil {
		base = append(base, p.content.Lines()...)
		for _, h := range p.content.Highlights() {
			runs = append(runs, StyledRun{
				Line:     h.Line,
				ColStart: h.ColStart,
				ColEnd:   h.ColEnd,
				Style:    p.theme.Lookup(h.Style),
			})
		}
	}
	for len(base) < p.logicalHeight() {
		base = append(base, "")
	}
	p.buf.SetModifiable(true)
	p.buf.SetLines(0, p.buf.LineCount(), base)
	p.buf.SetModifiable(false)
	p.buf.SetStyledRuns("content", runs)
	for _, w := range p.widgets {
		p.renderWidget(w)
	}
}

// renderWidget splices one widget's virtual text into the buffer and
// replaces its styled-run namespace. The spans cover the region
// exactly, so neighbouring text never shifts.
func (p *Panel) renderWidget(w Widget) {
	if p.destroyed {
		return
	}
	r := w.Region()
	edges := EdgeAll
	if vs, ok := p.sync.viewState(w.Name()); ok {
		edges = vs.edges
	}
	spans := w.VirtualSpans(p.theme, edges)

	var runs []StyledRun
	for i := 0; i < r.Height && i < len(spans); i++ {
		line := r.Row + i
		var text strings.Builder
		col := r.Col
		for _, sp := range spans[i] {
			text.WriteString(sp.Text)
			wdt := uniseg.StringWidth(sp.Text)
			runs = append(runs, StyledRun{Line: line, ColStart: col, ColEnd: col + wdt, Style: sp.Style})
			col += wdt
		}
		p.spliceLine(line, r.Col, text.String())
	}
	p.buf.SetStyledRuns("widget/"+w.Name(), runs)
	w.setDirty(false)
}

// blankRegion overwrites a removed widget's cells with spaces.
func (p *Panel) blankRegion(r Rect) {
	blank := strings.Repeat(" ", r.Width)
	for i := 0; i < r.Height; i++ {
		p.spliceLine(r.Row+i, r.Col, blank)
	}
}

// spliceLine replaces the display columns [col, col+width(text)) of one
// buffer line with text, padding the line when it is shorter than col.
func (p *Panel) spliceLine(line, col int, text string) {
	if line >= p.buf.LineCount() {
		pad := make([]string, line+1-p.buf.LineCount())
		p.buf.SetModifiable(true)
		p.buf.SetLines(p.buf.LineCount(), line+1, pad)
		p.buf.SetModifiable(false)
	}
	cur := ""
	if ls := p.buf.Lines(line, line+1); len(ls) == 1 {
		cur = ls[0]
	}
	head := cutColumns(cur, 0, col)
	if w := uniseg.StringWidth(head); w < col {
		head += strings.Repeat(" ", col-w)
	}
	tail := cutColumns(cur, col+uniseg.StringWidth(text), -1)
	p.buf.SetModifiable(true)
	p.buf.SetLines(line, line+1, []string{head + text + tail})
	p.buf.SetModifiable(false)
}

// cutColumns returns the grapheme clusters of s covering display
// columns [from, to); to < 0 means to end of line. A wide cluster
// straddling a boundary is dropped and replaced with a space on the
// inside, keeping column counts exact.
func cutColumns(s string, from, to int) string {
	var b strings.Builder
	col := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cluster := g.Str()
		w := uniseg.StringWidth(cluster)
		lo, hi := col, col+w
		col = hi
		if hi <= from || (to >= 0 && lo >= to) {
			continue
		}
		if lo < from || (to >= 0 && hi > to) {
			// straddles a cut edge
			inside := hi - from
			if to >= 0 && to-lo < inside {
				inside = to - lo
			}
			b.WriteString(strings.Repeat(" ", inside))
			continue
		}
		b.WriteString(cluster)
	}
	return b.String()
}

func rectsOverlap(a, b Rect) bool {
	return a.Row < b.Row+b.Height && b.Row < a.Row+a.Height &&
		a.Col < b.Col+b.Width && b.Col < a.Col+a.Width
}

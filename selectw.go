package panelkit

import (
	"fmt"

	"github.com/sahilm/fuzzy"
)

// optionArrow marks a select field's trailing glyph.
const optionArrow = "▾"

// overlayState is the temporary options popup a select widget shows
// while its list is open. It lives entirely inside the widget; the
// controller only observes open/closed through the overlayOwner
// capability.
type overlayState struct {
	win      HostWindow
	buf      HostBuffer
	query    string
	filtered []int // indexes into options, in display order
	sel      int   // index into filtered
	maxRows  int
}

// SelectW is a single-select dropdown. Virtual, it renders the selected
// option's label (or a placeholder) with a trailing arrow; materialized,
// it can pop an options overlay to pick from.
type SelectW struct {
	widgetBase

	options     []Option
	value       string // option id, "" for none
	placeholder string

	theme   *Theme
	overlay *overlayState
}

// Select creates a single-select at the given region.
func Select(name string, region Rect, options ...Option) *SelectW {
	region.Height = 1
	return &SelectW{
		widgetBase:  widgetBase{name: name, region: region, dirty: true},
		options:     options,
		placeholder: "Select...",
	}
}

// Placeholder overrides the text shown while nothing is selected.
func (w *SelectW) Placeholder(s string) *SelectW {
	w.placeholder = s
	return w
}

// WithValue sets the initial selection. Unknown ids are rejected when
// the widget is added to a panel.
func (w *SelectW) WithValue(id string) *SelectW {
	w.value = id
	return w
}

// Options returns the ordered option list.
func (w *SelectW) Options() []Option {
	return w.options
}

// Value returns the selected option id as a Choice.
func (w *SelectW) Value() Value {
	return Choice(w.value)
}

// SetValue stores a Choice referencing a present option id.
func (w *SelectW) SetValue(v Value) error {
	c, ok := v.(Choice)
	if !ok {
		return fmt.Errorf("panelkit: select %q: want Choice, got %T", w.name, v)
	}
	if c != "" {
		if err := validateIDs(w.options, string(c)); err != nil {
			return err
		}
	}
	w.value = string(c)
	if w.Materialized() {
		w.renderField()
		return nil
	}
	w.markChanged()
	return nil
}

// VirtualSpans renders the selected label (or placeholder) with the
// trailing arrow glyph, padded to exact field width.
func (w *SelectW) VirtualSpans(th *Theme, _ EdgeSet) [][]Span {
	text, style := w.displayText(th)
	body := fitToWidth(text, w.region.Width-1)
	return [][]Span{{
		Styled(body, style),
		Styled(optionArrow, th.Accent),
	}}
}

func (w *SelectW) displayText(th *Theme) (string, Style) {
	if w.value == "" {
		return w.placeholder, th.Muted
	}
	return labelFor(w.options, w.value), th.Base
}

func (w *SelectW) materialize(win HostWindow, th *Theme) error {
	w.win = win
	w.theme = th
	w.renderField()
	return nil
}

func (w *SelectW) dematerialize() {
	w.closeOverlay()
	w.win = nil
	w.theme = nil
	w.markChanged()
}

func (w *SelectW) renderField() {
	if !w.Materialized() || w.theme == nil {
		return
	}
	text, style := w.displayText(w.theme)
	line := fitToWidth(text, w.region.Width-1) + optionArrow
	buf := w.win.Buffer()
	buf.SetLines(0, 1, []string{line})
	buf.SetStyledRuns("select-field", []StyledRun{
		{Line: 0, ColStart: 0, ColEnd: w.region.Width - 1, Style: style},
		{Line: 0, ColStart: w.region.Width - 1, ColEnd: w.region.Width, Style: w.theme.Accent},
	})
}

// OpenOptions pops the options overlay under the field. No-op unless
// materialized, or when the list is already open.
func (w *SelectW) OpenOptions() {
	if !w.Materialized() || w.overlay != nil || w.ctrl == nil {
		return
	}
	ov, err := openOverlay(w.ctrl, w.region, len(w.options))
	if err != nil {
		logger.WithField("widget", w.name).Debug("options overlay refused")
		return
	}
	w.overlay = ov
	w.filterOptions("")
	w.ctrl.setOverlayOpen(true)
	w.renderOverlay()
}

// overlayVisible reports whether the options list is open.
func (w *SelectW) overlayVisible() bool {
	return w.overlay != nil
}

// closeOverlay tears the options popup down. Idempotent.
func (w *SelectW) closeOverlay() {
	if w.overlay == nil {
		return
	}
	w.overlay.win.Close()
	w.overlay.buf.Close()
	w.overlay = nil
	if w.ctrl != nil {
		w.ctrl.setOverlayOpen(false)
	}
}

// Filter narrows the visible options with fuzzy matching on labels.
func (w *SelectW) Filter(query string) {
	if w.overlay == nil {
		return
	}
	w.filterOptions(query)
	w.renderOverlay()
}

func (w *SelectW) filterOptions(query string) {
	ov := w.overlay
	ov.query = query
	ov.sel = 0
	ov.filtered = filterOptionIndexes(w.options, query)
	// keep the current value selected when it survives the filter
	for i, idx := range ov.filtered {
		if w.options[idx].ID == w.value {
			ov.sel = i
			break
		}
	}
}

// MoveSelection moves the overlay cursor by delta, clamped.
func (w *SelectW) MoveSelection(delta int) {
	if w.overlay == nil || len(w.overlay.filtered) == 0 {
		return
	}
	ov := w.overlay
	ov.sel += delta
	if ov.sel < 0 {
		ov.sel = 0
	}
	if ov.sel >= len(ov.filtered) {
		ov.sel = len(ov.filtered) - 1
	}
	w.renderOverlay()
}

// Confirm picks the highlighted option and closes the overlay.
func (w *SelectW) Confirm() {
	if w.overlay == nil {
		return
	}
	ov := w.overlay
	if len(ov.filtered) > 0 {
		w.value = w.options[ov.filtered[ov.sel]].ID
	}
	w.closeOverlay()
	w.renderField()
}

// Cancel closes the overlay without changing the value.
func (w *SelectW) Cancel() {
	w.closeOverlay()
}

func (w *SelectW) renderOverlay() {
	renderOptionRows(w.overlay, w.theme, w.options, func(o Option) string {
		marker := "  "
		if o.ID == w.value {
			marker = "• "
		}
		return marker + o.Label
	})
}

// openOverlay opens the popup window for an options list, anchored just
// below the field's region in the panel viewport.
func openOverlay(ctrl *Controller, field Rect, rows int) (*overlayState, error) {
	maxRows := rows
	if maxRows > 8 {
		maxRows = 8
	}
	buf := ctrl.host().NewBuffer()
	vp := ctrl.viewport()
	cfg := WindowConfig{
		Row:    field.Row - vp.Row + 1,
		Col:    field.Col - vp.Col,
		Width:  field.Width,
		Height: maxRows + 2,
		Z:      60,
		Border: &WindowBorder{Glyphs: BorderSingle, Style: ctrl.theme().Border, Edges: EdgeAll},
	}
	win, err := ctrl.host().OpenWindow(ctrl.parentWindow(), buf, cfg)
	if err != nil {
		buf.Close()
		return nil, err
	}
	return &overlayState{win: win, buf: buf, maxRows: maxRows}, nil
}

// filterOptionIndexes returns option indexes matching the fuzzy query,
// best match first; an empty query keeps the declared order.
func filterOptionIndexes(options []Option, query string) []int {
	if query == "" {
		out := make([]int, len(options))
		for i := range options {
			out[i] = i
		}
		return out
	}
	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = o.Label
	}
	matches := fuzzy.Find(query, labels)
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.Index
	}
	return out
}

// renderOptionRows writes the filtered rows into the overlay buffer and
// highlights the selected one. Scrolling keeps the selection visible.
func renderOptionRows(ov *overlayState, th *Theme, options []Option, format func(Option) string) {
	if ov == nil || th == nil {
		return
	}
	inner := ov.win.Config().Width - 2 // border columns
	lines := make([]string, len(ov.filtered))
	runs := []StyledRun{}
	for i, idx := range ov.filtered {
		lines[i] = fitToWidth(format(options[idx]), inner)
		if i == ov.sel {
			runs = append(runs, StyledRun{Line: i, ColStart: 0, ColEnd: inner, Style: th.Selection})
		}
	}
	ov.buf.SetLines(0, ov.buf.LineCount(), lines)
	ov.buf.SetStyledRuns("overlay", runs)

	// window the selection into view
	top := ov.win.TopLine()
	if ov.sel < top {
		top = ov.sel
	}
	if ov.sel >= top+ov.maxRows {
		top = ov.sel - ov.maxRows + 1
	}
	ov.win.SetTopLine(top)
}

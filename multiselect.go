package panelkit

import (
	"fmt"
	"strings"
)

// MultiDisplay selects how a multi-select renders its value inline.
type MultiDisplay int

const (
	// CountSummary renders "3 selected".
	CountSummary MultiDisplay = iota
	// LabelList renders the selected labels comma-separated, truncated.
	LabelList
)

// MultiSelectW is a multi-select dropdown. The overlay shows checkboxes
// and stays open across toggles; Confirm or Cancel closes it.
type MultiSelectW struct {
	widgetBase

	options     []Option
	selected    []string // option ids, in selection order
	placeholder string
	display     MultiDisplay

	theme   *Theme
	overlay *overlayState
}

// MultiSelect creates a multi-select at the given region.
func MultiSelect(name string, region Rect, options ...Option) *MultiSelectW {
	region.Height = 1
	return &MultiSelectW{
		widgetBase:  widgetBase{name: name, region: region, dirty: true},
		options:     options,
		placeholder: "Select...",
	}
}

// Placeholder overrides the text shown while nothing is selected.
func (w *MultiSelectW) Placeholder(s string) *MultiSelectW {
	w.placeholder = s
	return w
}

// Display sets the inline rendering mode.
func (w *MultiSelectW) Display(d MultiDisplay) *MultiSelectW {
	w.display = d
	return w
}

// WithValues sets the initial selection. Unknown ids are rejected when
// the widget is added to a panel.
func (w *MultiSelectW) WithValues(ids ...string) *MultiSelectW {
	w.selected = append([]string{}, ids...)
	return w
}

// Options returns the ordered option list.
func (w *MultiSelectW) Options() []Option {
	return w.options
}

// Value returns the selected ids as Choices, in selection order.
func (w *MultiSelectW) Value() Value {
	return Choices(append([]string{}, w.selected...))
}

// SetValue stores a Choices value whose ids all reference present
// options. Duplicates are collapsed, first occurrence wins.
func (w *MultiSelectW) SetValue(v Value) error {
	cs, ok := v.(Choices)
	if !ok {
		return fmt.Errorf("panelkit: multiselect %q: want Choices, got %T", w.name, v)
	}
	if err := validateIDs(w.options, cs...); err != nil {
		return err
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(cs))
	for _, id := range cs {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	w.selected = out
	if w.Materialized() {
		w.renderField()
		w.renderOverlay()
		return nil
	}
	w.markChanged()
	return nil
}

// VirtualSpans renders the summary (or placeholder) with the trailing
// arrow glyph, padded to exact field width.
func (w *MultiSelectW) VirtualSpans(th *Theme, _ EdgeSet) [][]Span {
	text, style := w.displayText(th)
	body := fitToWidth(text, w.region.Width-1)
	return [][]Span{{
		Styled(body, style),
		Styled(optionArrow, th.Accent),
	}}
}

func (w *MultiSelectW) displayText(th *Theme) (string, Style) {
	if len(w.selected) == 0 {
		return w.placeholder, th.Muted
	}
	if w.display == LabelList {
		labels := make([]string, len(w.selected))
		for i, id := range w.selected {
			labels[i] = labelFor(w.options, id)
		}
		return strings.Join(labels, ", "), th.Base
	}
	return fmt.Sprintf("%d selected", len(w.selected)), th.Base
}

func (w *MultiSelectW) materialize(win HostWindow, th *Theme) error {
	w.win = win
	w.theme = th
	w.renderField()
	return nil
}

func (w *MultiSelectW) dematerialize() {
	w.closeOverlay()
	w.win = nil
	w.theme = nil
	w.markChanged()
}

func (w *MultiSelectW) renderField() {
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

// OpenOptions pops the checkbox overlay under the field.
func (w *MultiSelectW) OpenOptions() {
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
func (w *MultiSelectW) overlayVisible() bool {
	return w.overlay != nil
}

// closeOverlay tears the options popup down. Idempotent.
func (w *MultiSelectW) closeOverlay() {
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
func (w *MultiSelectW) Filter(query string) {
	if w.overlay == nil {
		return
	}
	w.filterOptions(query)
	w.renderOverlay()
}

func (w *MultiSelectW) filterOptions(query string) {
	ov := w.overlay
	ov.query = query
	ov.sel = 0
	ov.filtered = filterOptionIndexes(w.options, query)
}

// MoveSelection moves the overlay cursor by delta, clamped.
func (w *MultiSelectW) MoveSelection(delta int) {
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

// Toggle flips the highlighted option in or out of the selection. The
// overlay stays open.
func (w *MultiSelectW) Toggle() {
	if w.overlay == nil || len(w.overlay.filtered) == 0 {
		return
	}
	id := w.options[w.overlay.filtered[w.overlay.sel]].ID
	if i := indexOf(w.selected, id); i >= 0 {
		w.selected = append(w.selected[:i], w.selected[i+1:]...)
	} else {
		w.selected = append(w.selected, id)
	}
	w.renderField()
	w.renderOverlay()
}

// Confirm closes the overlay, keeping the toggled selection.
func (w *MultiSelectW) Confirm() {
	w.closeOverlay()
	w.renderField()
}

// Cancel closes the overlay. Toggles already applied stay applied; the
// overlay is a view of the selection, not a staging area.
func (w *MultiSelectW) Cancel() {
	w.closeOverlay()
}

func (w *MultiSelectW) renderOverlay() {
	renderOptionRows(w.overlay, w.theme, w.options, func(o Option) string {
		box := "[ ] "
		if indexOf(w.selected, o.ID) >= 0 {
			box = "[x] "
		}
		return box + o.Label
	})
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

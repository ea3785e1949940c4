package panelkit

import (
	"fmt"

	"github.com/rivo/uniseg"
)

// InputW is a single-line text input. Virtual, it renders its value (or a
// muted placeholder) as styled text; materialized, it edits the real
// sub-window's buffer directly.
type InputW struct {
	widgetBase

	value       string
	placeholder string
	cursor      int // byte offset into value

	theme *Theme // set while materialized
}

// Input creates a text input at the given region. Single-line kinds have
// height 1 regardless of the rect passed in.
func Input(name string, region Rect) *InputW {
	region.Height = 1
	return &InputW{widgetBase: widgetBase{name: name, region: region, dirty: true}}
}

// Placeholder sets the muted text shown while the value is empty.
func (w *InputW) Placeholder(s string) *InputW {
	w.placeholder = s
	return w
}

// WithValue sets the initial value.
func (w *InputW) WithValue(s string) *InputW {
	w.value = s
	w.cursor = len(s)
	return w
}

// Value returns the current text. While materialized it reads through to
// the live sub-window, which is authoritative until deactivation.
func (w *InputW) Value() Value {
	return Text(w.liveValue())
}

func (w *InputW) liveValue() string {
	if w.Materialized() {
		if lines := w.win.Buffer().Lines(0, 1); len(lines) == 1 {
			return lines[0]
		}
	}
	return w.value
}

// SetValue stores a Text value, writing through to the sub-window while
// materialized.
func (w *InputW) SetValue(v Value) error {
	t, ok := v.(Text)
	if !ok {
		return fmt.Errorf("panelkit: input %q: want Text, got %T", w.name, v)
	}
	w.value = string(t)
	w.cursor = len(w.value)
	if w.Materialized() {
		w.win.Buffer().SetLines(0, 1, []string{w.value})
		w.syncWindowCursor()
		return nil
	}
	w.markChanged()
	return nil
}

// VirtualSpans renders the value padded/truncated to exact field width.
func (w *InputW) VirtualSpans(th *Theme, _ EdgeSet) [][]Span {
	if w.liveValue() == "" && w.placeholder != "" {
		return singleLineSpans(w.placeholder, th.Muted, w.region.Width)
	}
	return singleLineSpans(w.liveValue(), th.Base, w.region.Width)
}

func (w *InputW) materialize(win HostWindow, th *Theme) error {
	win.Buffer().SetLines(0, 1, []string{w.value})
	w.win = win
	w.theme = th
	w.syncWindowCursor()
	return nil
}

func (w *InputW) dematerialize() {
	if w.Materialized() {
		w.value = w.liveValue()
		if w.cursor > len(w.value) {
			w.cursor = len(w.value)
		}
	}
	w.win = nil
	w.theme = nil
	w.markChanged()
}

// Editing operations. Hosts bind these to keys while the input is
// materialized; they also work on the stored value when it is not.

// Insert inserts text at the cursor.
func (w *InputW) Insert(s string) {
	v := w.liveValue()
	w.value = v[:w.cursor] + s + v[w.cursor:]
	w.cursor += len(s)
	w.flush()
}

// Backspace deletes the grapheme cluster before the cursor.
func (w *InputW) Backspace() {
	v := w.liveValue()
	if w.cursor == 0 {
		return
	}
	start := prevBoundary(v, w.cursor)
	w.value = v[:start] + v[w.cursor:]
	w.cursor = start
	w.flush()
}

// CursorLeft moves one grapheme cluster left.
func (w *InputW) CursorLeft() {
	if w.cursor > 0 {
		w.cursor = prevBoundary(w.liveValue(), w.cursor)
		w.syncWindowCursor()
	}
}

// CursorRight moves one grapheme cluster right.
func (w *InputW) CursorRight() {
	v := w.liveValue()
	if w.cursor < len(v) {
		w.cursor = nextBoundary(v, w.cursor)
		w.syncWindowCursor()
	}
}

// CursorHome moves to the start of the value.
func (w *InputW) CursorHome() {
	w.cursor = 0
	w.syncWindowCursor()
}

// CursorEnd moves past the last grapheme cluster.
func (w *InputW) CursorEnd() {
	w.cursor = len(w.liveValue())
	w.syncWindowCursor()
}

// AtLeftEdge reports that the cursor sits at the first column, where a
// further left movement exits the widget.
func (w *InputW) AtLeftEdge() bool { return w.cursor == 0 }

// AtRightEdge reports that the cursor sits past the last column.
func (w *InputW) AtRightEdge() bool { return w.cursor >= len(w.liveValue()) }

// TextBinding exposes the value and cursor for a host text handler
// (riffkey.NewTextHandler). Call Refresh from the handler's change hook
// so edits write through to the live sub-window.
func (w *InputW) TextBinding() (value *string, cursor *int) {
	return &w.value, &w.cursor
}

// Refresh pushes the bound value into the live sub-window and resyncs
// the cursor.
func (w *InputW) Refresh() {
	w.flush()
}

// seekColumn places the cursor on the grapheme boundary nearest the
// display column, clamped to the value's extent.
func (w *InputW) seekColumn(col int) {
	v := w.liveValue()
	offset := 0
	used := 0
	g := uniseg.NewGraphemes(v)
	for g.Next() {
		wdt := uniseg.StringWidth(g.Str())
		if used+wdt > col {
			break
		}
		used += wdt
		_, offset = g.Positions()
	}
	w.cursor = offset
	w.syncWindowCursor()
}

func (w *InputW) flush() {
	if w.Materialized() {
		w.win.Buffer().SetLines(0, 1, []string{w.value})
		w.syncWindowCursor()
		return
	}
	w.markChanged()
}

func (w *InputW) syncWindowCursor() {
	if w.Materialized() {
		w.win.SetCursor(0, columnOf(w.value, w.cursor))
	}
}

// prevBoundary returns the byte offset of the grapheme cluster start
// preceding offset.
func prevBoundary(s string, offset int) int {
	start := 0
	g := uniseg.NewGraphemes(s[:offset])
	for g.Next() {
		from, _ := g.Positions()
		start = from
	}
	return start
}

// nextBoundary returns the byte offset just past the grapheme cluster
// at offset.
func nextBoundary(s string, offset int) int {
	g := uniseg.NewGraphemes(s[offset:])
	if g.Next() {
		_, to := g.Positions()
		return offset + to
	}
	return len(s)
}

// columnOf returns the display column for a byte offset.
func columnOf(s string, offset int) int {
	return uniseg.StringWidth(s[:offset])
}

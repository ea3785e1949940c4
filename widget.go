package panelkit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Value is the stored state of a widget. Concrete types:
// Text for inputs, Choice for single-selects, Choices for multi-selects.
// SubPanels carry no scalar value and return nil.
type Value interface {
	valueKind() string
}

// Text is a text-input value.
type Text string

func (Text) valueKind() string { return "text" }

// Choice is a single-select value: one option id, or "" for none.
type Choice string

func (Choice) valueKind() string { return "choice" }

// Choices is a multi-select value: an ordered set of option ids.
type Choices []string

func (Choices) valueKind() string { return "choices" }

// Option is one selectable entry of a select widget.
type Option struct {
	ID    string
	Label string
}

// Widget is one form field or nested panel. Implementations are chosen
// at construction; call sites never branch on a kind tag.
type Widget interface {
	// Name is the widget's unique, lifetime-stable key.
	Name() string
	// Region is the widget's logical rectangle in the panel buffer.
	Region() Rect
	// Frame is the widget's border descriptor; zero for borderless.
	Frame() Border

	// Value returns the current value. While materialized it reads
	// through to the live sub-window.
	Value() Value
	// SetValue validates shape and option membership, then stores.
	// Writes through to the live sub-window while materialized.
	SetValue(v Value) error

	// VirtualSpans renders the current value as styled text: exactly
	// Region().Height lines of exactly Region().Width columns each.
	// edges selects which border pieces to draw on framed widgets.
	VirtualSpans(th *Theme, edges EdgeSet) [][]Span

	// Materialized reports whether a real sub-window backs the widget.
	Materialized() bool
	// Dirty reports that the virtual rendering is stale.
	Dirty() bool

	// Lifecycle, driven by the Controller and the owning Panel.
	attach(ctrl *Controller, panel PanelID)
	owner() PanelID
	materialize(win HostWindow, th *Theme) error
	dematerialize()
	window() HostWindow
	setDirty(dirty bool)
}

// scroller is implemented by widgets with internal content scrolling.
// The scroll synchronizer adjusts their offset across clip changes.
type scroller interface {
	scrollOffset() int
	setScrollOffset(offset int)
	contentHeight() int
}

// overlayOwner is implemented by widgets that pop a temporary options
// overlay while materialized.
type overlayOwner interface {
	overlayVisible() bool
	closeOverlay()
}

// windowBacked is implemented by widgets that keep a persistent display
// window even while virtual (sub-panels). The scroll synchronizer
// hides, clips and repositions these windows directly.
type windowBacked interface {
	mount(host Host, parent HostWindow, th *Theme) error
	unmount()
	displayWindow() HostWindow
}

// widgetBase carries the state every widget kind shares.
type widgetBase struct {
	name   string
	region Rect
	border Border
	dirty  bool

	ctrl  *Controller
	panel PanelID
	win   HostWindow
}

func (b *widgetBase) Name() string       { return b.name }
func (b *widgetBase) Region() Rect       { return b.region }
func (b *widgetBase) Frame() Border      { return b.border }
func (b *widgetBase) Dirty() bool        { return b.dirty }
func (b *widgetBase) setDirty(d bool)    { b.dirty = d }
func (b *widgetBase) Materialized() bool { return b.win != nil && b.win.Valid() }
func (b *widgetBase) window() HostWindow { return b.win }
func (b *widgetBase) owner() PanelID     { return b.panel }

func (b *widgetBase) attach(ctrl *Controller, panel PanelID) {
	b.ctrl = ctrl
	b.panel = panel
}

// markChanged marks the virtual rendering stale and asks the owning
// panel to redraw before next paint, when attached.
func (b *widgetBase) markChanged() {
	b.dirty = true
	if b.ctrl != nil {
		b.ctrl.widgetChanged(b.panel, b.name)
	}
}

// Ellipsis terminates truncated field text.
const Ellipsis = "…"

// fitToWidth truncates s to the exact column width, appending an
// ellipsis when content was cut, and right-pads with spaces otherwise.
// Field boundaries stay exact every render, so buffer column accounting
// never drifts. Truncation happens on grapheme-cluster boundaries.
func fitToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if w := runewidth.StringWidth(s); w <= width {
		return s + strings.Repeat(" ", width-w)
	}

	budget := width - 1 // reserve the ellipsis column
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cluster := g.Str()
		w := runewidth.StringWidth(cluster)
		if used+w > budget {
			break
		}
		b.WriteString(cluster)
		used += w
	}
	b.WriteString(Ellipsis)
	used++
	if used < width {
		b.WriteString(strings.Repeat(" ", width-used))
	}
	return b.String()
}

// singleLineSpans is the common virtual rendering for one-line fields.
func singleLineSpans(text string, style Style, width int) [][]Span {
	return [][]Span{{Styled(fitToWidth(text, width), style)}}
}

// orderWidgets returns the widgets sorted row-major (row, then column),
// the cyclic sequence index cycling walks.
func orderWidgets(ws []Widget) []Widget {
	out := append([]Widget{}, ws...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Region(), out[j].Region()
		if ri.Row != rj.Row {
			return ri.Row < rj.Row
		}
		return ri.Col < rj.Col
	})
	return out
}

// validateIDs checks that every id references a present option.
func validateIDs(options []Option, ids ...string) error {
	for _, id := range ids {
		found := false
		for _, o := range options {
			if o.ID == id {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("panelkit: unknown option id %q", id)
		}
	}
	return nil
}

// labelFor returns the label of the option with the given id.
func labelFor(options []Option, id string) string {
	for _, o := range options {
		if o.ID == id {
			return o.Label
		}
	}
	return id
}

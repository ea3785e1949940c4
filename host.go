package panelkit

// The host layer is the thin seam between the widget engine and whatever
// owns the screen: an in-memory host for tests and headless embedding, a
// raw terminal host, or a bubbletea adapter. The engine only ever talks
// to these interfaces.
//
// Error discipline follows the engine's: a destroyed buffer or window is
// a normal lifecycle event, not a fault. Operations on invalid handles
// are no-ops, and Valid() is the only way to observe the difference.

// StyledRun is a resolved style applied to a column run of one buffer
// line. Content-level Highlight entries carry theme style names; the
// panel resolves them to StyledRuns before they reach a host.
type StyledRun struct {
	Line     int
	ColStart int
	ColEnd   int // exclusive
	Style    Style
}

// HostBuffer is a scratch text buffer owned by the host.
type HostBuffer interface {
	// Valid reports whether the buffer still exists. Every other method
	// is a no-op (or zero result) once it returns false.
	Valid() bool

	LineCount() int
	// Lines returns lines [start, end). Out-of-range rows are omitted.
	Lines(start, end int) []string
	// SetLines replaces lines [start, end) with the given lines. The
	// buffer grows when end exceeds the current line count.
	SetLines(start, end int, lines []string)
	SetModifiable(modifiable bool)

	// SetStyledRuns replaces all styled runs in the given namespace.
	// Namespaces keep widget renders from clobbering panel content.
	SetStyledRuns(namespace string, runs []StyledRun)

	Close()
}

// WindowBorder is border chrome drawn by the host around a window's
// content area. Edges selects which sides draw; the scroll synchronizer
// narrows it as the window is clipped.
type WindowBorder struct {
	Glyphs BorderStyle
	Style  Style
	Edges  EdgeSet
}

// WindowConfig positions a sub-window relative to its parent window's
// viewport. Width and Height are outer dimensions, border included.
type WindowConfig struct {
	Row, Col      int
	Width, Height int
	Z             int
	Hidden        bool
	Border        *WindowBorder
}

// HostWindow is a positioned view onto a HostBuffer.
type HostWindow interface {
	Valid() bool
	Buffer() HostBuffer
	Config() WindowConfig
	// Reconfigure moves/resizes/hides the window. No-op when invalid.
	Reconfigure(cfg WindowConfig)

	// Cursor position within the window's buffer, in buffer coordinates.
	Cursor() (row, col int)
	SetCursor(row, col int)

	// TopLine is the first visible buffer line (vertical scroll offset).
	TopLine() int
	SetTopLine(line int)
	// LeftCol is the first visible buffer column (horizontal scroll).
	LeftCol() int
	SetLeftCol(col int)

	Close()
}

// Host is the editor/terminal surface the engine runs inside. All
// callbacks fire on the host's single event loop; nothing here is safe
// for concurrent use and nothing needs to be.
type Host interface {
	NewBuffer() HostBuffer
	// OpenWindow opens a sub-window over buf, anchored to parent (nil
	// for a top-level window). Fails when buf or parent was destroyed.
	OpenWindow(parent HostWindow, buf HostBuffer, cfg WindowConfig) (HostWindow, error)

	// Focus transfers input focus to the window. Focus events fire for
	// the buffers losing and gaining focus.
	Focus(win HostWindow)
	Focused() HostWindow

	// Event subscriptions. Callbacks registered for a destroyed window
	// or buffer are dropped silently.
	OnScroll(win HostWindow, fn func())
	OnCursorMoved(win HostWindow, fn func(row, col int))
	OnFocusEnter(buf HostBuffer, fn func())
	OnFocusLeave(buf HostBuffer, fn func())

	// Bind registers a key pattern (riffkey syntax, e.g. "<Tab>", "j")
	// scoped to one buffer: the handler fires only while that buffer
	// has focus.
	Bind(buf HostBuffer, pattern string, fn func())

	// Defer queues fn to run once after the current event callback
	// unwinds, on the next event-loop tick. Single-step deferral only;
	// a deferred task that defers again runs the following tick.
	Defer(fn func())
}

// DeferQueue is the single-shot deferred-task queue hosts drain once per
// event-loop turn. Tasks queued while draining run on the next turn, so
// a self-deferring task cannot starve the loop.
type DeferQueue struct {
	tasks []func()
}

// Push queues a task for the next drain.
func (q *DeferQueue) Push(fn func()) {
	q.tasks = append(q.tasks, fn)
}

// Drain runs the tasks queued before this call, in order.
func (q *DeferQueue) Drain() {
	pending := q.tasks
	q.tasks = nil
	for _, fn := range pending {
		fn()
	}
}

// Len returns the number of queued tasks.
func (q *DeferQueue) Len() int {
	return len(q.tasks)
}

package panelkit

import (
	"os"
	"sync"

	"github.com/kungfusheep/riffkey"
)

// TermHost runs the engine on a raw terminal: the in-memory window
// model for bookkeeping, riffkey for input, and a double-buffered
// Screen for output. Key handlers run on the input goroutine and
// resize events on their own; mu serializes both against the window
// model.
type TermHost struct {
	*MemHost

	screen *Screen
	router *riffkey.Router
	input  *riffkey.Input
	reader *riffkey.Reader

	// held across every handler that touches the window model
	mu sync.Mutex

	bound   map[string]bool
	running bool
}

// NewTermHost creates a terminal host sized to the current terminal.
func NewTermHost() (*TermHost, error) {
	screen, err := NewScreen(nil)
	if err != nil {
		return nil, err
	}
	size := screen.Size()

	h := &TermHost{
		MemHost: NewMemHost(size.Width, size.Height),
		screen:  screen,
		router:  riffkey.NewRouter(),
		bound:   map[string]bool{},
	}
	h.input = riffkey.NewInput(h.router)
	h.reader = riffkey.NewReader(os.Stdin)
	return h, nil
}

// Screen returns the underlying screen.
func (h *TermHost) Screen() *Screen { return h.screen }

// Router returns the riffkey router for extra bindings (quit keys,
// app-level commands).
func (h *TermHost) Router() *riffkey.Router { return h.router }

// Input returns the riffkey input for modal router push/pop.
func (h *TermHost) Input() *riffkey.Input { return h.input }

// HandleUnmatched routes keys no binding claimed, typically to a
// riffkey.TextHandler driving the materialized input's TextBinding.
func (h *TermHost) HandleUnmatched(fn func(riffkey.Key) bool) {
	h.router.HandleUnmatched(func(k riffkey.Key) bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return fn(k)
	})
}

// Bind registers a buffer-scoped binding and lazily installs the
// pattern on the riffkey router. One router handler serves every
// buffer bound to the same pattern; dispatch picks the focused one.
func (h *TermHost) Bind(buf HostBuffer, pattern string, fn func()) {
	h.MemHost.Bind(buf, pattern, fn)
	if h.bound[pattern] {
		return
	}
	h.bound[pattern] = true
	p := pattern
	h.router.Handle(p, func(_ riffkey.Match) {
		h.mu.Lock()
		h.Press(p)
		h.mu.Unlock()
	})
}

// Run enters raw mode and blocks on the input loop until Stop.
func (h *TermHost) Run() error {
	h.running = true

	if err := h.screen.EnterRawMode(); err != nil {
		return err
	}
	defer h.screen.ExitRawMode()

	go func() {
		for size := range h.screen.ResizeChan() {
			h.applyResize(size)
		}
	}()

	h.mu.Lock()
	h.render()
	h.mu.Unlock()

	err := h.input.Run(h.reader, func(handled bool) {
		h.mu.Lock()
		defer h.mu.Unlock()
		if !h.running {
			return
		}
		h.Tick()
		h.render()
	})
	if !h.running {
		return nil
	}
	return err
}

// Stop ends the input loop. Callable from key handlers, so it takes no
// lock itself.
func (h *TermHost) Stop() {
	h.running = false
	os.Stdin.Close()
}

// applyResize adopts a new terminal size and repaints, serialized
// against the input handlers.
func (h *TermHost) applyResize(size Size) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.width, h.height = size.Width, size.Height
	h.render()
}

// render composites the window model and flushes the diff.
func (h *TermHost) render() {
	composite := h.Render()
	back := h.screen.Buffer()
	back.Clear()
	back.Blit(composite, 0, 0, 0, 0, composite.Width(), composite.Height())
	h.screen.Flush()

	if f := h.focused; f != nil && f.valid && !f.hiddenDeep() {
		row, col := f.absOrigin()
		if b := f.cfg.Border; b != nil {
			if b.Edges.Has(EdgeTop) {
				row++
			}
			if b.Edges.Has(EdgeLeft) {
				col++
			}
		}
		y := row + f.curRow - f.topLine
		x := col + f.curCol - f.leftCol
		h.screen.BufferCursor(x, y, true, CursorBar)
	} else {
		h.screen.BufferCursor(0, 0, false, CursorDefault)
	}
	h.screen.FlushBuffer()
}

package panelkit

// Controller owns the materialization lifecycle: at most one widget
// across all panels is backed by a focused sub-window at any time.
// All coordination state lives here; panels and widgets hold only
// their own rendering state.
type Controller struct {
	hst Host

	panels map[PanelID]*Panel
	nextID PanelID

	cur    Widget
	curWin HostWindow // materialized sub-window; nil for window-backed widgets
	curBuf HostBuffer

	overlayOpen bool
	// suppressFocus is set across controller-driven focus moves so the
	// focus-loss watcher does not re-enter Deactivate.
	suppressFocus bool
	// busy drops lifecycle calls arriving from callbacks fired by an
	// in-flight Activate/Deactivate.
	busy bool

	focusWatched map[string]bool

	pending     map[PanelID]map[string]bool
	flushQueued bool

	onActivate func(Widget)
}

// OnActivate registers a hook fired after each successful activation,
// with the sub-window already open. Hosts use it to wire key bindings
// onto the fresh sub-window buffer.
func (c *Controller) OnActivate(fn func(Widget)) {
	c.onActivate = fn
}

// NewController creates a controller over the given host.
func NewController(host Host) *Controller {
	return &Controller{
		hst:          host,
		panels:       map[PanelID]*Panel{},
		focusWatched: map[string]bool{},
	}
}

// Current returns the materialized widget, or nil.
func (c *Controller) Current() Widget { return c.cur }

// Activate materializes the widget: a window-backed widget gets its
// display window focused; any other widget gets a fresh sub-window over
// its region. The previously materialized widget is deactivated first.
//
// Activation is refused without error while an options overlay is open,
// and while the widget's region is scrolled out of view.
func (c *Controller) Activate(w Widget) error {
	if c.cur == w {
		return nil
	}
	if c.busy {
		logger.WithField("widget", w.Name()).Debug("activation dropped: lifecycle in flight")
		return nil
	}
	if c.overlayOpen {
		logger.WithField("widget", w.Name()).Debug("activation refused: overlay open")
		return nil
	}
	p, ok := c.panels[w.owner()]
	if !ok {
		logger.WithField("widget", w.Name()).Debug("activation refused: detached widget")
		return nil
	}
	if Clip(w.Region(), p.viewport()).Hidden {
		logger.WithField("widget", w.Name()).Debug("activation refused: region out of view")
		return nil
	}
	// every refusal must happen before the current widget is touched:
	// a rejected activation leaves the collection unchanged
	wb, isWB := w.(windowBacked)
	var dispWin HostWindow
	if isWB {
		dispWin = wb.displayWindow()
		if dispWin == nil || !dispWin.Valid() || dispWin.Config().Hidden {
			logger.WithField("widget", w.Name()).Debug("activation refused: window hidden")
			return nil
		}
	}

	c.busy = true
	defer func() { c.busy = false }()
	if c.cur != nil {
		// focus hands over widget-to-widget: the outgoing widget must
		// not queue a focus return that would steal focus from the
		// window opened below
		c.deactivate(false)
	}

	if isWB {
		if err := w.materialize(dispWin, p.theme); err != nil {
			c.refocusPanel(w.owner())
			return err
		}
		c.cur = w
		c.curWin, c.curBuf = nil, nil
		c.focusThrough(dispWin)
		c.watchFocusLoss(w, dispWin.Buffer())
		if c.onActivate != nil {
			c.onActivate(w)
		}
		return nil
	}

	r, vp := w.Region(), p.viewport()
	buf := c.hst.NewBuffer()
	cfg := WindowConfig{
		Row:    r.Row - vp.Row,
		Col:    r.Col - vp.Col,
		Width:  r.Width,
		Height: r.Height,
		Z:      50,
	}
	win, err := c.hst.OpenWindow(p.win, buf, cfg)
	if err != nil {
		buf.Close()
		c.refocusPanel(w.owner())
		return err
	}
	if err := w.materialize(win, p.theme); err != nil {
		win.Close()
		buf.Close()
		c.refocusPanel(w.owner())
		return err
	}
	c.cur = w
	c.curWin, c.curBuf = win, buf
	c.focusThrough(win)
	c.watchFocusLoss(w, buf)
	if c.onActivate != nil {
		c.onActivate(w)
	}
	logger.WithField("widget", w.Name()).Debug("materialized")
	return nil
}

// Deactivate commits and dematerializes the current widget. The value
// is read back from the sub-window, the window is torn down, and the
// widget repaints as virtual text. Idempotent.
func (c *Controller) Deactivate() {
	if c.busy {
		return
	}
	c.busy = true
	defer func() { c.busy = false }()
	c.deactivate(true)
}

// deactivate tears the current widget down. With refocus, focus returns
// to the panel window a tick later; without, the caller is about to
// focus a new sub-window itself and a queued return would steal focus
// back from it.
func (c *Controller) deactivate(refocus bool) {
	w := c.cur
	if w == nil {
		return
	}
	if ov, ok := w.(overlayOwner); ok && ov.overlayVisible() {
		ov.closeOverlay()
	}

	c.cur = nil
	c.suppressFocus = true
	w.dematerialize()
	if c.curWin != nil {
		c.curWin.Close()
	}
	if c.curBuf != nil {
		c.curBuf.Close()
	}
	c.curWin, c.curBuf = nil, nil

	if refocus {
		c.refocusPanel(w.owner())
	}
	logger.WithField("widget", w.Name()).Debug("dematerialized")
}

// refocusPanel returns focus to the panel window a tick later, after
// the host has finished tearing the sub-window down.
func (c *Controller) refocusPanel(id PanelID) {
	if p, ok := c.panels[id]; ok && !p.destroyed {
		c.hst.Defer(func() {
			c.hst.Focus(p.win)
			c.suppressFocus = false
		})
	} else {
		c.suppressFocus = false
	}
}

// focusThrough moves host focus with the focus-loss watcher suppressed
// for the rest of this event-loop turn.
func (c *Controller) focusThrough(win HostWindow) {
	c.suppressFocus = true
	c.hst.Focus(win)
	c.hst.Defer(func() { c.suppressFocus = false })
}

// watchFocusLoss deactivates the widget when its sub-window loses focus
// for any reason the controller did not itself cause.
func (c *Controller) watchFocusLoss(w Widget, buf HostBuffer) {
	// window-backed widgets keep one buffer for life; everything else
	// gets a fresh buffer per activation and needs a fresh watcher
	if isWindowBacked(w) {
		if c.focusWatched[w.Name()] {
			return
		}
		c.focusWatched[w.Name()] = true
	}
	c.hst.OnFocusLeave(buf, func() {
		if c.suppressFocus || c.overlayOpen {
			return
		}
		if c.cur == w {
			c.Deactivate()
		}
	})
}

// register assigns the next panel id.
func (c *Controller) register(p *Panel) PanelID {
	c.nextID++
	id := c.nextID
	c.panels[id] = p
	return id
}

func (c *Controller) unregister(id PanelID) {
	delete(c.panels, id)
}

// Panel returns a registered panel by id.
func (c *Controller) Panel(id PanelID) (*Panel, bool) {
	p, ok := c.panels[id]
	return p, ok
}

// setOverlayOpen records that a select overlay is open, blocking
// activation changes until it closes.
func (c *Controller) setOverlayOpen(open bool) {
	c.overlayOpen = open
}

// Accessors for widgets that open auxiliary windows. They describe the
// materialized widget's own panel, so they are only meaningful while a
// widget is materialized.

func (c *Controller) host() Host { return c.hst }

func (c *Controller) theme() *Theme {
	if c.cur != nil {
		if p, ok := c.panels[c.cur.owner()]; ok {
			return p.theme
		}
	}
	d := ThemeDark
	return &d
}

func (c *Controller) viewport() Rect {
	if c.cur != nil {
		if p, ok := c.panels[c.cur.owner()]; ok {
			return p.viewport()
		}
	}
	return Rect{}
}

func (c *Controller) parentWindow() HostWindow {
	if c.cur != nil {
		if p, ok := c.panels[c.cur.owner()]; ok {
			return p.win
		}
	}
	return nil
}

// widgetChanged queues a virtual repaint for the widget, coalescing
// bursts of changes into one deferred render per event-loop turn.
func (c *Controller) widgetChanged(id PanelID, name string) {
	if _, ok := c.panels[id]; !ok {
		return
	}
	if c.pending == nil {
		c.pending = map[PanelID]map[string]bool{}
	}
	if c.pending[id] == nil {
		c.pending[id] = map[string]bool{}
	}
	c.pending[id][name] = true
	if !c.flushQueued {
		c.flushQueued = true
		c.hst.Defer(c.flushRenders)
	}
}

func (c *Controller) flushRenders() {
	c.flushQueued = false
	pending := c.pending
	c.pending = nil
	for id, names := range pending {
		p, ok := c.panels[id]
		if !ok || p.destroyed {
			continue
		}
		for name := range names {
			if w, ok := p.Widget(name); ok && w.Dirty() {
				p.renderWidget(w)
			}
		}
	}
}

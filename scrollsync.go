package panelkit

// widgetView is the synchronizer's record of how one widget currently
// shows through the panel viewport.
type widgetView struct {
	clip   ClipResult
	edges  EdgeSet
	hidden bool
}

// scrollSync keeps window-backed widgets and the materialized
// sub-window glued to their logical regions as the panel scrolls. It
// runs on every panel scroll event and after widget registration.
type scrollSync struct {
	panel *Panel

	lastTop  int
	lastLeft int
	primed   bool

	views map[string]widgetView
	// top-clip at last sync, per scrolling widget; the delta feeds the
	// internal scroll offset so content appears anchored while the
	// widget's upper rows slide out of the viewport
	topClip map[string]int

	syncing bool
}

func newScrollSync(p *Panel) *scrollSync {
	return &scrollSync{
		panel:   p,
		views:   map[string]widgetView{},
		topClip: map[string]int{},
	}
}

// refresh forces a full recompute even when the viewport has not
// moved, for widget registration and removal.
func (s *scrollSync) refresh() {
	s.primed = false
	s.apply()
}

// viewState returns the last computed view of the named widget.
func (s *scrollSync) viewState(name string) (widgetView, bool) {
	v, ok := s.views[name]
	return v, ok
}

// apply recomputes every widget's clip against the current viewport and
// pushes the results into the host: window-backed widgets are moved,
// resized, hidden and re-edged; the materialized sub-window follows its
// region or is deactivated when it scrolls out.
func (s *scrollSync) apply() {
	if s.syncing || s.panel.destroyed {
		return
	}
	s.syncing = true
	defer func() { s.syncing = false }()

	vp := s.panel.viewport()
	if s.primed && vp.Row == s.lastTop && vp.Col == s.lastLeft {
		return
	}
	s.primed = true
	s.lastTop, s.lastLeft = vp.Row, vp.Col

	ctrl := s.panel.ctrl
	for _, w := range s.panel.widgets {
		clip := Clip(w.Region(), vp)
		edges := VisibleEdges(clip)
		hidden := clip.Hidden

		// a border is drawn whole or not at all: a bordered widget whose
		// top or left border rows are clipped cannot render a coherent
		// frame, so it goes fully hidden instead
		if !w.Frame().None() && !hidden && (clip.Top > 0 || clip.Left > 0) {
			hidden = true
		}

		prev, had := s.views[w.Name()]
		s.views[w.Name()] = widgetView{clip: clip, edges: edges, hidden: hidden}

		if wb, ok := w.(windowBacked); ok {
			s.syncWindowBacked(w, wb, clip, edges, hidden)
		} else if had && prev.edges != edges && !w.Frame().None() {
			s.panel.renderWidget(w)
		}

		if ctrl.Current() == w {
			if hidden {
				// materialization cannot survive out of view; overlays
				// owned by the widget fall with it
				ctrl.Deactivate()
			} else if !isWindowBacked(w) {
				s.followMaterialized(w, clip)
			}
		}
	}
}

// syncWindowBacked repositions a display window to the clipped slice of
// its region and preserves the widget's internal scroll position across
// the clip change.
func (s *scrollSync) syncWindowBacked(w Widget, wb windowBacked, clip ClipResult, edges EdgeSet, hidden bool) {
	win := wb.displayWindow()
	if win == nil || !win.Valid() {
		return
	}
	cfg := win.Config()

	if hidden {
		if !cfg.Hidden {
			cfg.Hidden = true
			win.Reconfigure(cfg)
		}
		// keep the last top clip so the offset math resumes cleanly
		return
	}

	cfg.Hidden = false
	cfg.Row = clip.Visible.Row
	cfg.Col = clip.Visible.Col
	cfg.Width = clip.Visible.Width
	cfg.Height = clip.Visible.Height
	if cfg.Border != nil {
		b := *cfg.Border
		b.Edges = edges
		cfg.Border = &b
	}
	win.Reconfigure(cfg)

	if sc, ok := w.(scroller); ok {
		prev := s.topClip[w.Name()]
		if delta := clip.Top - prev; delta != 0 {
			sc.setScrollOffset(sc.scrollOffset() + delta)
		}
		s.topClip[w.Name()] = clip.Top
	}
}

// followMaterialized moves and resizes the materialized sub-window to
// the visible slice of its widget's region, scrolling the window
// content by the clipped-off amount so the same cells stay under the
// same viewport positions.
func (s *scrollSync) followMaterialized(w Widget, clip ClipResult) {
	win := w.window()
	if win == nil || !win.Valid() {
		return
	}
	cfg := win.Config()
	cfg.Hidden = false
	cfg.Row = clip.Visible.Row
	cfg.Col = clip.Visible.Col
	cfg.Width = clip.Visible.Width
	cfg.Height = clip.Visible.Height
	win.Reconfigure(cfg)
	win.SetTopLine(clip.Top)
	win.SetLeftCol(clip.Left)
}

func isWindowBacked(w Widget) bool {
	_, ok := w.(windowBacked)
	return ok
}

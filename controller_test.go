package panelkit

import "testing"

func TestControllerLifecycle(t *testing.T) {
	t.Run("ActivateMaterializes", func(t *testing.T) {
		host, ctrl, p := newTestPanel(t, 30, 6)
		in := Input("name", Rect{Row: 0, Col: 0, Width: 10}).WithValue("abc")
		if err := p.AddWidget(in); err != nil {
			t.Fatal(err)
		}

		if err := ctrl.Activate(in); err != nil {
			t.Fatal(err)
		}
		if ctrl.Current() != Widget(in) {
			t.Fatal("input should be current")
		}
		if !in.Materialized() {
			t.Fatal("input should be materialized")
		}
		if host.Focused() != in.window() {
			t.Error("sub-window should hold focus")
		}
		// the sub-window buffer carries the value
		if lines := in.window().Buffer().Lines(0, 1); lines[0] != "abc" {
			t.Errorf("window line = %q", lines[0])
		}
	})

	t.Run("EditCommitRoundTrip", func(t *testing.T) {
		host, ctrl, p := newTestPanel(t, 30, 6)
		in := Input("name", Rect{Row: 0, Col: 0, Width: 10})
		if err := p.AddWidget(in); err != nil {
			t.Fatal(err)
		}

		if err := ctrl.Activate(in); err != nil {
			t.Fatal(err)
		}
		in.Insert("go")
		in.Insert("pher")

		ctrl.Deactivate()
		host.Tick()

		if in.Materialized() {
			t.Error("deactivate should dematerialize")
		}
		if got := string(in.Value().(Text)); got != "gopher" {
			t.Errorf("committed value = %q", got)
		}
		// virtual text repainted with the committed value
		if got := host.Render().Line(0); got != "gopher" {
			t.Errorf("virtual line = %q", got)
		}
		if host.Focused() != p.Window() {
			t.Error("focus should return to the panel window")
		}
	})

	t.Run("AtMostOneMaterialized", func(t *testing.T) {
		_, ctrl, p := newTestPanel(t, 30, 6)
		a := Input("a", Rect{Row: 0, Col: 0, Width: 8})
		b := Input("b", Rect{Row: 2, Col: 0, Width: 8})
		if err := p.AddWidget(a); err != nil {
			t.Fatal(err)
		}
		if err := p.AddWidget(b); err != nil {
			t.Fatal(err)
		}

		if err := ctrl.Activate(a); err != nil {
			t.Fatal(err)
		}
		if err := ctrl.Activate(b); err != nil {
			t.Fatal(err)
		}

		if ctrl.Current() != Widget(b) {
			t.Error("b should be current")
		}
		if a.Materialized() {
			t.Error("a must be dematerialized before b materializes")
		}
	})

	t.Run("HandoffFocusStaysOnNewWindow", func(t *testing.T) {
		host, ctrl, p := newTestPanel(t, 30, 6)
		a := Input("a", Rect{Row: 0, Col: 0, Width: 8})
		b := Input("b", Rect{Row: 2, Col: 0, Width: 8})
		if err := p.AddWidget(a); err != nil {
			t.Fatal(err)
		}
		if err := p.AddWidget(b); err != nil {
			t.Fatal(err)
		}

		if err := ctrl.Activate(a); err != nil {
			t.Fatal(err)
		}
		host.Tick()
		if err := ctrl.Activate(b); err != nil {
			t.Fatal(err)
		}
		host.Tick()

		// widget-to-widget transfer: the outgoing widget's focus return
		// must not fire after b's window took focus
		if ctrl.Current() != Widget(b) {
			t.Fatal("b should be current")
		}
		if host.Focused() != b.window() {
			t.Error("focus should stay on the new sub-window after the handoff settles")
		}
	})

	t.Run("DeactivateIdempotent", func(t *testing.T) {
		host, ctrl, p := newTestPanel(t, 30, 6)
		in := Input("name", Rect{Row: 0, Col: 0, Width: 8})
		if err := p.AddWidget(in); err != nil {
			t.Fatal(err)
		}
		if err := ctrl.Activate(in); err != nil {
			t.Fatal(err)
		}
		ctrl.Deactivate()
		ctrl.Deactivate()
		host.Tick()
		if ctrl.Current() != nil {
			t.Error("current should stay nil")
		}
	})

	t.Run("ActivateSameWidgetNoop", func(t *testing.T) {
		_, ctrl, p := newTestPanel(t, 30, 6)
		in := Input("name", Rect{Row: 0, Col: 0, Width: 8})
		if err := p.AddWidget(in); err != nil {
			t.Fatal(err)
		}
		if err := ctrl.Activate(in); err != nil {
			t.Fatal(err)
		}
		win := in.window()
		if err := ctrl.Activate(in); err != nil {
			t.Fatal(err)
		}
		if in.window() != win {
			t.Error("re-activating the current widget must not cycle the window")
		}
	})

	t.Run("HiddenWidgetRefused", func(t *testing.T) {
		_, ctrl, p := newTestPanel(t, 30, 4)
		in := Input("deep", Rect{Row: 10, Col: 0, Width: 8})
		if err := p.AddWidget(in); err != nil {
			t.Fatal(err)
		}
		if err := ctrl.Activate(in); err != nil {
			t.Fatalf("refusal is silent, got %v", err)
		}
		if ctrl.Current() != nil {
			t.Error("out-of-view widget must not activate")
		}
	})
}

func TestControllerRefusalPreservesCurrent(t *testing.T) {
	host, ctrl, p := newTestPanel(t, 30, 8)
	in := Input("name", Rect{Row: 6, Col: 0, Width: 8})
	sp := SubPanel("log", Rect{Row: 2, Col: 0, Width: 12, Height: 4}).
		Bordered(BorderSingle).
		WithContent(linesContent(10))
	if err := p.AddWidget(in); err != nil {
		t.Fatal(err)
	}
	if err := p.AddWidget(sp); err != nil {
		t.Fatal(err)
	}
	if err := ctrl.Activate(in); err != nil {
		t.Fatal(err)
	}
	host.Tick()

	// clip the sub-panel's top border so its display window hides while
	// its region still intersects the viewport
	p.Window().SetTopLine(3)
	host.Tick()
	if !sp.displayWindow().Config().Hidden {
		t.Fatal("setup: sub-panel window should be hidden")
	}

	if err := ctrl.Activate(sp); err != nil {
		t.Fatalf("refusal is silent, got %v", err)
	}
	if ctrl.Current() != Widget(in) {
		t.Error("refused activation must leave the current widget in place")
	}
	if !in.Materialized() {
		t.Error("refused activation must not dematerialize the current widget")
	}
}

func TestControllerOverlayGuard(t *testing.T) {
	opts := []Option{
		{ID: "free", Label: "Free"},
		{ID: "pro", Label: "Pro"},
	}

	host, ctrl, p := newTestPanel(t, 30, 8)
	sel := Select("plan", Rect{Row: 0, Col: 0, Width: 12}, opts...)
	in := Input("name", Rect{Row: 2, Col: 0, Width: 12})
	if err := p.AddWidget(sel); err != nil {
		t.Fatal(err)
	}
	if err := p.AddWidget(in); err != nil {
		t.Fatal(err)
	}

	if err := ctrl.Activate(sel); err != nil {
		t.Fatal(err)
	}
	sel.OpenOptions()
	if !sel.overlayVisible() {
		t.Fatal("overlay should be open")
	}

	// activation changes are refused while the overlay is open
	if err := ctrl.Activate(in); err != nil {
		t.Fatalf("refusal is silent, got %v", err)
	}
	if ctrl.Current() != Widget(sel) {
		t.Fatal("select must stay current")
	}

	sel.MoveSelection(1)
	sel.Confirm()
	if sel.overlayVisible() {
		t.Error("confirm should close the overlay")
	}
	if got := string(sel.Value().(Choice)); got != "pro" {
		t.Errorf("value = %q", got)
	}

	// closed overlay releases the guard
	if err := ctrl.Activate(in); err != nil {
		t.Fatal(err)
	}
	if ctrl.Current() != Widget(in) {
		t.Error("input should activate after the overlay closes")
	}

	host.Tick()
}

func TestControllerOverlayClosedOnDeactivate(t *testing.T) {
	_, ctrl, p := newTestPanel(t, 30, 8)
	sel := Select("plan", Rect{Row: 0, Col: 0, Width: 12},
		Option{ID: "a", Label: "A"})
	if err := p.AddWidget(sel); err != nil {
		t.Fatal(err)
	}
	if err := ctrl.Activate(sel); err != nil {
		t.Fatal(err)
	}
	sel.OpenOptions()

	ctrl.Deactivate()
	if sel.overlayVisible() {
		t.Error("deactivation must tear the overlay down")
	}
	if ctrl.overlayOpen {
		t.Error("overlay guard must be released")
	}
}

func TestControllerFocusLoss(t *testing.T) {
	host, ctrl, p := newTestPanel(t, 30, 6)
	in := Input("name", Rect{Row: 0, Col: 0, Width: 8})
	if err := p.AddWidget(in); err != nil {
		t.Fatal(err)
	}
	if err := ctrl.Activate(in); err != nil {
		t.Fatal(err)
	}
	host.Tick() // release the suppressed window

	in.Insert("hi")
	// the host moves focus elsewhere; the widget commits
	host.Focus(p.Window())
	host.Tick()

	if ctrl.Current() != nil {
		t.Error("focus loss should deactivate")
	}
	if got := string(in.Value().(Text)); got != "hi" {
		t.Errorf("value = %q, want committed edit", got)
	}
}

func TestSubPanelActivation(t *testing.T) {
	host, ctrl, p := newTestPanel(t, 30, 10)
	sp := SubPanel("log", Rect{Row: 1, Col: 0, Width: 12, Height: 4}).
		WithContent(NewContent().Line("a").Line("b"))
	if err := p.AddWidget(sp); err != nil {
		t.Fatal(err)
	}
	disp := sp.displayWindow()
	if disp == nil || !disp.Valid() {
		t.Fatal("sub-panel should be mounted on add")
	}

	if err := ctrl.Activate(sp); err != nil {
		t.Fatal(err)
	}
	if !sp.Materialized() {
		t.Fatal("activation should focus the display window")
	}
	if sp.window() != disp {
		t.Error("activation must reuse the persistent window")
	}
	if host.Focused() != disp {
		t.Error("display window should hold focus")
	}

	ctrl.Deactivate()
	host.Tick()
	if sp.Materialized() {
		t.Error("deactivation should drop focus backing")
	}
	if !disp.Valid() {
		t.Error("display window must survive deactivation")
	}
}

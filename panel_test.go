package panelkit

import "testing"

func newTestPanel(t *testing.T, width, height int) (*MemHost, *Controller, *Panel) {
	t.Helper()
	host := NewMemHost(width, height)
	ctrl := NewController(host)
	p, err := NewPanel(ctrl, PanelConfig{Rect: Rect{Row: 0, Col: 0, Width: width, Height: height}})
	if err != nil {
		t.Fatal(err)
	}
	return host, ctrl, p
}

func TestPanelRegistration(t *testing.T) {
	t.Run("DuplicateName", func(t *testing.T) {
		_, _, p := newTestPanel(t, 30, 10)
		if err := p.AddWidget(Input("a", Rect{Row: 0, Col: 0, Width: 5})); err != nil {
			t.Fatal(err)
		}
		if err := p.AddWidget(Input("a", Rect{Row: 2, Col: 0, Width: 5})); err == nil {
			t.Error("duplicate name should be rejected")
		}
	})

	t.Run("OverlappingRegion", func(t *testing.T) {
		_, _, p := newTestPanel(t, 30, 10)
		if err := p.AddWidget(Input("a", Rect{Row: 1, Col: 0, Width: 10})); err != nil {
			t.Fatal(err)
		}
		if err := p.AddWidget(Input("b", Rect{Row: 1, Col: 5, Width: 10})); err == nil {
			t.Error("overlapping region should be rejected")
		}
		if err := p.AddWidget(Input("c", Rect{Row: 1, Col: 10, Width: 10})); err != nil {
			t.Errorf("adjacent region rejected: %v", err)
		}
	})

	t.Run("EmptyRegion", func(t *testing.T) {
		_, _, p := newTestPanel(t, 30, 10)
		if err := p.AddWidget(Input("z", Rect{Row: 0, Col: 0, Width: 0})); err == nil {
			t.Error("empty region should be rejected")
		}
	})

	t.Run("PresetValueValidated", func(t *testing.T) {
		_, _, p := newTestPanel(t, 30, 10)
		opts := []Option{{ID: "a", Label: "A"}}

		sel := Select("plan", Rect{Row: 0, Col: 0, Width: 8}, opts...).WithValue("bogus")
		if err := p.AddWidget(sel); err == nil {
			t.Error("unknown preset id should be rejected")
		}
		if _, ok := p.Widget("plan"); ok {
			t.Error("rejected widget must not be registered")
		}

		ms := MultiSelect("f", Rect{Row: 2, Col: 0, Width: 8}, opts...).WithValues("a", "nope")
		if err := p.AddWidget(ms); err == nil {
			t.Error("unknown preset id should be rejected")
		}

		good := Select("ok", Rect{Row: 4, Col: 0, Width: 8}, opts...).WithValue("a")
		if err := p.AddWidget(good); err != nil {
			t.Errorf("valid preset rejected: %v", err)
		}
	})

	t.Run("Lookup", func(t *testing.T) {
		_, _, p := newTestPanel(t, 30, 10)
		in := Input("a", Rect{Row: 0, Col: 0, Width: 5})
		if err := p.AddWidget(in); err != nil {
			t.Fatal(err)
		}
		if w, ok := p.Widget("a"); !ok || w != Widget(in) {
			t.Error("lookup by name failed")
		}
		if w, ok := p.WidgetAt(0, 4); !ok || w.Name() != "a" {
			t.Error("lookup by point failed")
		}
		if _, ok := p.WidgetAt(0, 5); ok {
			t.Error("half-open edge should miss")
		}
	})
}

func TestPanelVirtualRender(t *testing.T) {
	t.Run("ValueSplicedIntoContent", func(t *testing.T) {
		host, _, p := newTestPanel(t, 30, 6)
		p.SetContent(NewContent().Line("Form").Line("  Name:"))

		in := Input("name", Rect{Row: 1, Col: 10, Width: 8}).WithValue("gopher")
		if err := p.AddWidget(in); err != nil {
			t.Fatal(err)
		}

		screen := host.Render()
		if got := screen.Line(1); got != "  Name:   gopher" {
			t.Errorf("line 1 = %q", got)
		}
	})

	t.Run("SelectShowsArrow", func(t *testing.T) {
		host, _, p := newTestPanel(t, 30, 4)
		sel := Select("plan", Rect{Row: 0, Col: 0, Width: 10},
			Option{ID: "pro", Label: "Pro"})
		if err := p.AddWidget(sel); err != nil {
			t.Fatal(err)
		}
		if got := host.Render().Line(0); got != "Select...▾" {
			t.Errorf("line 0 = %q", got)
		}
	})

	t.Run("DirtyRepaintIsDeferred", func(t *testing.T) {
		host, _, p := newTestPanel(t, 30, 4)
		in := Input("name", Rect{Row: 0, Col: 0, Width: 6})
		if err := p.AddWidget(in); err != nil {
			t.Fatal(err)
		}
		if err := in.SetValue(Text("abc")); err != nil {
			t.Fatal(err)
		}
		host.Tick() // drains the coalesced repaint
		if got := host.Render().Line(0); got != "abc" {
			t.Errorf("line 0 = %q", got)
		}
	})

	t.Run("RemoveBlanksRegion", func(t *testing.T) {
		host, _, p := newTestPanel(t, 30, 4)
		in := Input("name", Rect{Row: 0, Col: 0, Width: 6}).WithValue("xxxxxx")
		if err := p.AddWidget(in); err != nil {
			t.Fatal(err)
		}
		p.RemoveWidget("name")
		if got := host.Render().Line(0); got != "" {
			t.Errorf("line 0 = %q, want blank", got)
		}
		if _, ok := p.Widget("name"); ok {
			t.Error("widget still registered")
		}
	})

	t.Run("ContentHighlightsResolved", func(t *testing.T) {
		_, _, p := newTestPanel(t, 30, 4)
		p.SetContent(NewContent().Styled("accent", "Title"))
		mb := p.buf.(*MemBuffer)
		runs := mb.runs["content"]
		if len(runs) != 1 {
			t.Fatalf("runs = %+v", runs)
		}
		if !runs[0].Style.Equal(ThemeDark.Accent) {
			t.Error("highlight name should resolve through the theme")
		}
	})
}

func TestSpliceLine(t *testing.T) {
	t.Run("PadsShortLines", func(t *testing.T) {
		_, _, p := newTestPanel(t, 30, 4)
		p.spliceLine(0, 5, "abc")
		if got := p.buf.Lines(0, 1)[0]; got != "     abc" {
			t.Errorf("line = %q", got)
		}
	})

	t.Run("PreservesTail", func(t *testing.T) {
		_, _, p := newTestPanel(t, 30, 4)
		p.buf.SetModifiable(true)
		p.buf.SetLines(0, 0, []string{"0123456789"})
		p.buf.SetModifiable(false)
		p.spliceLine(0, 3, "XX")
		if got := p.buf.Lines(0, 1)[0]; got != "012XX56789" {
			t.Errorf("line = %q", got)
		}
	})

	t.Run("WideClusterStraddle", func(t *testing.T) {
		// cutting through 本 replaces the stranded half with a space
		if got := cutColumns("日本語", 0, 3); got != "日 " {
			t.Errorf("cut = %q", got)
		}
		if got := cutColumns("日本語", 3, -1); got != " 語" {
			t.Errorf("tail = %q", got)
		}
	})

	t.Run("GrowsBuffer", func(t *testing.T) {
		_, _, p := newTestPanel(t, 30, 8)
		p.spliceLine(5, 0, "deep")
		if p.buf.LineCount() != 6 {
			t.Errorf("line count = %d, want 6", p.buf.LineCount())
		}
	})
}

func TestPanelDestroy(t *testing.T) {
	host, ctrl, p := newTestPanel(t, 30, 6)
	in := Input("name", Rect{Row: 0, Col: 0, Width: 6})
	sp := SubPanel("log", Rect{Row: 2, Col: 0, Width: 10, Height: 3})
	if err := p.AddWidget(in); err != nil {
		t.Fatal(err)
	}
	if err := p.AddWidget(sp); err != nil {
		t.Fatal(err)
	}
	if err := ctrl.Activate(in); err != nil {
		t.Fatal(err)
	}

	p.Destroy()
	host.Tick()

	if ctrl.Current() != nil {
		t.Error("destroy should deactivate")
	}
	if sp.displayWindow() != nil {
		t.Error("window-backed widgets should be unmounted")
	}
	if p.Window().Valid() {
		t.Error("panel window should be closed")
	}
	if _, ok := ctrl.Panel(p.ID()); ok {
		t.Error("panel should be unregistered")
	}

	// idempotent
	p.Destroy()

	if err := p.AddWidget(Input("x", Rect{Row: 0, Col: 0, Width: 3})); err == nil {
		t.Error("adding to a destroyed panel should fail")
	}
}

package panelkit

import "testing"

func TestRouterCycle(t *testing.T) {
	t.Run("NextWraps", func(t *testing.T) {
		_, ctrl, p := newTestPanel(t, 30, 10)
		for _, w := range []*InputW{
			Input("a", Rect{Row: 0, Col: 0, Width: 8}),
			Input("b", Rect{Row: 2, Col: 0, Width: 8}),
			Input("c", Rect{Row: 4, Col: 0, Width: 8}),
		} {
			if err := p.AddWidget(w); err != nil {
				t.Fatal(err)
			}
		}

		r := p.Router()
		for _, want := range []string{"a", "b", "c", "a"} {
			r.Next()
			if cur := ctrl.Current(); cur == nil || cur.Name() != want {
				t.Fatalf("Next landed on %v, want %s", cur, want)
			}
		}
	})

	t.Run("PrevFromNothingStartsAtEnd", func(t *testing.T) {
		_, ctrl, p := newTestPanel(t, 30, 10)
		if err := p.AddWidget(Input("a", Rect{Row: 0, Col: 0, Width: 8})); err != nil {
			t.Fatal(err)
		}
		if err := p.AddWidget(Input("b", Rect{Row: 2, Col: 0, Width: 8})); err != nil {
			t.Fatal(err)
		}
		p.Router().Prev()
		if cur := ctrl.Current(); cur == nil || cur.Name() != "b" {
			t.Fatalf("Prev landed on %v, want b", cur)
		}
	})

	t.Run("SkipsHidden", func(t *testing.T) {
		_, ctrl, p := newTestPanel(t, 30, 6)
		if err := p.AddWidget(Input("a", Rect{Row: 0, Col: 0, Width: 8})); err != nil {
			t.Fatal(err)
		}
		if err := p.AddWidget(Input("b", Rect{Row: 4, Col: 0, Width: 8})); err != nil {
			t.Fatal(err)
		}
		// below the 6-row viewport
		if err := p.AddWidget(Input("deep", Rect{Row: 12, Col: 0, Width: 8})); err != nil {
			t.Fatal(err)
		}

		r := p.Router()
		r.Next() // a
		r.Next() // b
		r.Next() // deep is out of view; wrap back to a
		if cur := ctrl.Current(); cur == nil || cur.Name() != "a" {
			t.Fatalf("hidden widget not skipped, got %v", cur)
		}
	})
}

func TestRouterEntryOffset(t *testing.T) {
	_, ctrl, p := newTestPanel(t, 30, 10)
	top := Input("top", Rect{Row: 0, Col: 5, Width: 10}).WithValue("abcdef")
	bot := Input("bot", Rect{Row: 2, Col: 5, Width: 10}).WithValue("xyzxyz")
	if err := p.AddWidget(top); err != nil {
		t.Fatal(err)
	}
	if err := p.AddWidget(bot); err != nil {
		t.Fatal(err)
	}

	// plain cursor motion into the region activates and translates the
	// panel column into a widget-local cursor position
	p.Window().SetCursor(0, 8)
	if ctrl.Current() != Widget(top) {
		t.Fatal("cursor entry should activate the widget")
	}
	if top.cursor != 3 {
		t.Errorf("cursor = %d, want 3 (col 8 - region col 5)", top.cursor)
	}

	// a vertical move carries the same offset into the target
	if !p.Router().Move(DirDown) {
		t.Fatal("move down should find the lower input")
	}
	if ctrl.Current() != Widget(bot) {
		t.Fatal("bot should be current")
	}
	if bot.cursor != 3 {
		t.Errorf("cursor = %d, want entry offset preserved", bot.cursor)
	}
}

func TestRouterMove(t *testing.T) {
	_, ctrl, p := newTestPanel(t, 40, 10)
	a := Input("a", Rect{Row: 0, Col: 0, Width: 8})
	b := Input("b", Rect{Row: 0, Col: 20, Width: 8})
	c := Input("c", Rect{Row: 4, Col: 0, Width: 8})
	for _, w := range []*InputW{a, b, c} {
		if err := p.AddWidget(w); err != nil {
			t.Fatal(err)
		}
	}

	p.Router().Next() // a
	if !p.Router().Move(DirRight) {
		t.Fatal("right should reach b")
	}
	if ctrl.Current() != Widget(b) {
		t.Fatalf("current = %v, want b", ctrl.Current())
	}
	if p.Router().Move(DirRight) {
		t.Error("nothing lies right of b")
	}
	if p.Router().Move(DirUp) {
		t.Error("nothing lies above the top row")
	}
	if !p.Router().Move(DirLeft) {
		t.Fatal("left should reach a")
	}
	if !p.Router().Move(DirDown) {
		t.Fatal("down should reach c")
	}
	if ctrl.Current() != Widget(c) {
		t.Fatalf("current = %v, want c", ctrl.Current())
	}
}

func TestRouterExitFrom(t *testing.T) {
	_, ctrl, p := newTestPanel(t, 30, 10)
	p.SetContent(NewContent().
		Line("one").Line("two").Line("three").Line("four").Line("five"))
	in := Input("name", Rect{Row: 2, Col: 4, Width: 10})
	if err := p.AddWidget(in); err != nil {
		t.Fatal(err)
	}

	p.Router().Next()
	if ctrl.Current() != Widget(in) {
		t.Fatal("setup: input should be active")
	}

	p.Router().ExitFrom(in, DirDown)
	if ctrl.Current() != nil {
		t.Error("exit should deactivate")
	}
	row, col := p.Window().Cursor()
	if row != 3 || col != 4 {
		t.Errorf("cursor = (%d,%d), want (3,4)", row, col)
	}
}

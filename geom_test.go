package panelkit

import "testing"

func TestClip(t *testing.T) {
	vp := Rect{Row: 10, Col: 0, Width: 40, Height: 10}

	t.Run("FullyVisible", func(t *testing.T) {
		c := Clip(Rect{Row: 12, Col: 2, Width: 10, Height: 3}, vp)
		if !c.FullyVisible() {
			t.Fatalf("expected fully visible, got %+v", c)
		}
		want := Rect{Row: 2, Col: 2, Width: 10, Height: 3}
		if c.Visible != want {
			t.Errorf("visible = %+v, want %+v", c.Visible, want)
		}
	})

	t.Run("TopClipped", func(t *testing.T) {
		c := Clip(Rect{Row: 8, Col: 0, Width: 10, Height: 4}, vp)
		if c.Hidden {
			t.Fatal("should not be hidden")
		}
		if c.Top != 2 || c.Bottom != 0 {
			t.Errorf("clip top=%d bottom=%d, want 2/0", c.Top, c.Bottom)
		}
		if c.Visible.Row != 0 || c.Visible.Height != 2 {
			t.Errorf("visible = %+v", c.Visible)
		}
	})

	t.Run("BottomClipped", func(t *testing.T) {
		c := Clip(Rect{Row: 18, Col: 0, Width: 10, Height: 4}, vp)
		if c.Bottom != 2 || c.Top != 0 {
			t.Errorf("clip top=%d bottom=%d, want 0/2", c.Top, c.Bottom)
		}
		if c.Visible.Row != 8 || c.Visible.Height != 2 {
			t.Errorf("visible = %+v", c.Visible)
		}
	})

	t.Run("HorizontalClip", func(t *testing.T) {
		vp2 := Rect{Row: 0, Col: 5, Width: 10, Height: 5}
		c := Clip(Rect{Row: 0, Col: 3, Width: 20, Height: 1}, vp2)
		if c.Left != 2 || c.Right != 8 {
			t.Errorf("clip left=%d right=%d, want 2/8", c.Left, c.Right)
		}
		if c.Visible.Width != 10 {
			t.Errorf("visible width = %d, want 10", c.Visible.Width)
		}
	})

	t.Run("HiddenAbove", func(t *testing.T) {
		c := Clip(Rect{Row: 0, Col: 0, Width: 10, Height: 5}, vp)
		if !c.Hidden {
			t.Errorf("expected hidden, got %+v", c)
		}
	})

	t.Run("HiddenBelow", func(t *testing.T) {
		c := Clip(Rect{Row: 25, Col: 0, Width: 10, Height: 5}, vp)
		if !c.Hidden {
			t.Errorf("expected hidden, got %+v", c)
		}
	})
}

func TestVisibleEdges(t *testing.T) {
	tests := []struct {
		name string
		clip ClipResult
		want EdgeSet
	}{
		{"All", ClipResult{}, EdgeAll},
		{"TopGone", ClipResult{Top: 1}, EdgeBottom | EdgeLeft | EdgeRight},
		{"BottomGone", ClipResult{Bottom: 3}, EdgeTop | EdgeLeft | EdgeRight},
		{"Corner", ClipResult{Top: 1, Left: 2}, EdgeBottom | EdgeRight},
		{"Hidden", ClipResult{Hidden: true}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VisibleEdges(tt.clip); got != tt.want {
				t.Errorf("VisibleEdges(%+v) = %b, want %b", tt.clip, got, tt.want)
			}
		})
	}
}

func TestNearestFreeRow(t *testing.T) {
	rects := []Rect{{Row: 2, Col: 0, Width: 10, Height: 2}} // rows 2,3 owned

	t.Run("AlreadyFree", func(t *testing.T) {
		if got := NearestFreeRow(rects, 5, 10); got != 5 {
			t.Errorf("got %d, want 5", got)
		}
	})

	t.Run("TiesResolveDownward", func(t *testing.T) {
		one := []Rect{{Row: 5, Col: 0, Width: 10, Height: 1}}
		// rows 4 and 6 are equidistant; downward wins
		if got := NearestFreeRow(one, 5, 10); got != 6 {
			t.Errorf("got %d, want 6", got)
		}
	})

	t.Run("OnlyUpwardFree", func(t *testing.T) {
		if got := NearestFreeRow(rects, 2, 4); got != 1 {
			// rows 2,3 owned, total 4: row 3 covered, row 1 free
			t.Errorf("got %d, want 1", got)
		}
	})

	t.Run("AllCovered", func(t *testing.T) {
		full := []Rect{{Row: 0, Col: 0, Width: 10, Height: 10}}
		if got := NearestFreeRow(full, 4, 10); got != 4 {
			t.Errorf("got %d, want 4 (unchanged)", got)
		}
	})
}

func TestFindAt(t *testing.T) {
	rects := []Rect{
		{Row: 0, Col: 0, Width: 5, Height: 1},
		{Row: 2, Col: 3, Width: 4, Height: 2},
	}
	if i, ok := FindAt(rects, 3, 5); !ok || i != 1 {
		t.Errorf("FindAt(3,5) = %d,%v want 1,true", i, ok)
	}
	if _, ok := FindAt(rects, 0, 5); ok {
		t.Error("col 5 is past the half-open edge of rect 0")
	}
	if _, ok := FindAt(rects, 9, 9); ok {
		t.Error("expected miss")
	}
}

func TestBorder(t *testing.T) {
	t.Run("Edges", func(t *testing.T) {
		b := Uniform(BorderSingle)
		if got := b.Edges(); got != EdgeAll {
			t.Errorf("uniform edges = %b, want all", got)
		}
		part := Border{Top: 1, Left: 1}
		if got := part.Edges(); got != EdgeTop|EdgeLeft {
			t.Errorf("edges = %b", got)
		}
		if !(Border{}).None() {
			t.Error("zero border should be None")
		}
	})

	t.Run("Inner", func(t *testing.T) {
		b := Uniform(BorderSingle)
		in := b.Inner(Rect{Row: 2, Col: 3, Width: 10, Height: 5})
		want := Rect{Row: 3, Col: 4, Width: 8, Height: 3}
		if in != want {
			t.Errorf("inner = %+v, want %+v", in, want)
		}
	})
}

package panelkit

import "testing"

func TestBuffer(t *testing.T) {
	t.Run("NewBuffer", func(t *testing.T) {
		buf := NewBuffer(20, 4)
		if buf.Width() != 20 || buf.Height() != 4 {
			t.Errorf("expected 20x4, got %dx%d", buf.Width(), buf.Height())
		}
		if buf.Get(0, 0).Rune != ' ' {
			t.Error("new buffer should be blank")
		}
	})

	t.Run("WriteStringWide", func(t *testing.T) {
		buf := NewBuffer(10, 1)
		n := buf.WriteString(0, 0, "日本", DefaultStyle())
		if n != 4 {
			t.Errorf("wrote %d columns, want 4", n)
		}
		if buf.Get(0, 0).Rune != '日' || buf.Get(2, 0).Rune != '本' {
			t.Errorf("line = %q", buf.Line(0))
		}
	})

	t.Run("WriteSpansRespectsLimit", func(t *testing.T) {
		buf := NewBuffer(10, 1)
		buf.WriteSpans(0, 0, []Span{
			Styled("abc", DefaultStyle()),
			Styled("defgh", DefaultStyle().Bold()),
		}, 5)
		if got := buf.Line(0); got != "abcde" {
			t.Errorf("line = %q, want abcde", got)
		}
		if !buf.Get(3, 0).Style.Attr.Has(AttrBold) {
			t.Error("second span should carry its own style")
		}
	})

	t.Run("BorderMerge", func(t *testing.T) {
		buf := NewBuffer(10, 5)
		buf.DrawBorder(0, 0, 6, 3, BorderSingle, DefaultStyle())
		buf.DrawBorder(0, 2, 6, 3, BorderSingle, DefaultStyle())
		// shared edge merges into tees
		if got := buf.Get(0, 2).Rune; got != BoxTeeRight {
			t.Errorf("left junction = %q, want %q", got, BoxTeeRight)
		}
		if got := buf.Get(5, 2).Rune; got != BoxTeeLeft {
			t.Errorf("right junction = %q, want %q", got, BoxTeeLeft)
		}
	})

	t.Run("PartialEdges", func(t *testing.T) {
		buf := NewBuffer(8, 4)
		buf.DrawBorderEdges(0, 0, 6, 4, BorderSingle, DefaultStyle(), EdgeTop|EdgeLeft|EdgeRight)
		if buf.Get(0, 0).Rune != BoxTopLeft {
			t.Error("top-left corner missing")
		}
		if buf.Get(0, 3).Rune != ' ' || buf.Get(2, 3).Rune != ' ' {
			t.Errorf("bottom edge should be absent, got %q", buf.Line(3))
		}
		if buf.Get(0, 2).Rune != BoxVertical {
			t.Error("left edge missing")
		}
	})

	t.Run("CornersNeedBothEdges", func(t *testing.T) {
		buf := NewBuffer(8, 4)
		buf.DrawBorderEdges(0, 0, 6, 4, BorderSingle, DefaultStyle(), EdgeBottom)
		if buf.Get(0, 3).Rune != ' ' {
			t.Error("corner drawn with only one adjacent edge")
		}
		if buf.Get(2, 3).Rune != BoxHorizontal {
			t.Error("bottom run missing")
		}
	})

	t.Run("Resize", func(t *testing.T) {
		buf := NewBuffer(4, 2)
		buf.WriteString(0, 0, "abcd", DefaultStyle())
		buf.Resize(6, 3)
		if got := buf.Line(0); got != "abcd" {
			t.Errorf("content lost on grow: %q", got)
		}
		buf.Resize(2, 1)
		if got := buf.Line(0); got != "ab" {
			t.Errorf("content after shrink: %q", got)
		}
	})
}

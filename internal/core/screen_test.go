package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	// Check that it's initialized with spaces
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Errorf("New screen should be filled with spaces, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetColored(5, 5, '*', ColorRed)
	if s.Get(5, 5) != '*' {
		t.Errorf("Get(5, 5) = %q, expected '*'", s.Get(5, 5))
	}
	if s.GetCell(5, 5).Color != ColorRed {
		t.Errorf("GetCell(5, 5).Color = %v, expected red", s.GetCell(5, 5).Color)
	}

	// Out of bounds should be silent
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.Set(0, -1, 'A')
	s.Set(0, 100, 'A')

	if s.Get(-1, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawText(2, 1, "Hello")

	for i, ch := range "Hello" {
		if s.Get(2+i, 1) != ch {
			t.Errorf("DrawText: expected %q at (%d, 1), got %q", ch, 2+i, s.Get(2+i, 1))
		}
	}

	// Text should be clipped at boundaries
	s.DrawText(18, 0, "Hello")
	if s.Get(18, 0) != 'H' || s.Get(19, 0) != 'e' {
		t.Error("Text should be clipped at right boundary")
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawText(0, 0, "AAAAA")
	s.DrawText(0, 1, "BBBBB")
	s.DrawText(0, 2, "CCCCC")

	expected := "AAAAA\nBBBBB\nCCCCC"
	if result := s.String(); result != expected {
		t.Errorf("String() = %q, expected %q", result, expected)
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawText(0, 0, "Hello")

	s.Resize(8, 4)
	if s.Width() != 8 || s.Height() != 4 {
		t.Errorf("After resize, dimensions should be 8x4, got %dx%d", s.Width(), s.Height())
	}
	if row := s.Row(0); !strings.HasPrefix(row, "Hello") {
		t.Errorf("Content should be preserved, row 0 = %q", row)
	}

	s.Resize(15, 8)
	if row := s.Row(0); !strings.HasPrefix(row, "Hello") {
		t.Errorf("Content should be preserved after enlarging, row 0 = %q", row)
	}
	if outOfBounds := s.Row(-1); outOfBounds != strings.Repeat(" ", 15) {
		t.Errorf("Out of bounds row should be spaces, got %q", outOfBounds)
	}
}

func TestQueueCountsBlendSwitches(t *testing.T) {
	var q Queue
	q.SetBlend(BlendAlpha)
	q.Enqueue(Sprite{Glyph: 'a'})
	q.SetBlend(BlendAdd)
	q.Enqueue(Sprite{Glyph: 'b'})
	q.SetBlend(BlendAdd)
	q.Enqueue(Sprite{Glyph: 'c'})

	if q.BlendSwitches != 1 {
		t.Errorf("BlendSwitches = %d, expected 1", q.BlendSwitches)
	}
	if q.Sprites[2].Blend != BlendAdd {
		t.Errorf("sprite blend = %v, expected add", q.Sprites[2].Blend)
	}

	q.Reset()
	if len(q.Sprites) != 0 || q.BlendSwitches != 0 {
		t.Error("Reset should clear sprites and counters")
	}
}

func TestParseBlendMode(t *testing.T) {
	for _, name := range []string{"", "alpha", "add", "multiply", "screen"} {
		if _, ok := ParseBlendMode(name); !ok {
			t.Errorf("ParseBlendMode(%q) should succeed", name)
		}
	}
	if _, ok := ParseBlendMode("subtract"); ok {
		t.Error("ParseBlendMode(subtract) should fail")
	}
}

func TestColorNamesRoundTrip(t *testing.T) {
	for c := ColorDefault; c <= ColorGray; c++ {
		got, ok := ParseColor(c.String())
		if !ok || got != c {
			t.Errorf("ParseColor(%q) = %v, %v; expected %d", c.String(), got, ok, c)
		}
	}
	if Color(200).String() != "unknown" {
		t.Errorf("out-of-range color = %q", Color(200).String())
	}
}

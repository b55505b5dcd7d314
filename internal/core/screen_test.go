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

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c.Rune != ' ' || c.Color != ColorDefault {
				t.Fatalf("new screen should be blank, got %+v at (%d, %d)", c, x, y)
			}
		}
	}

	if z := NewScreen(-3, -1); z.Width() != 0 || z.Height() != 0 {
		t.Errorf("negative size should clamp to zero, got %dx%d", z.Width(), z.Height())
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetCell(5, 5, Cell{Rune: 'X', Color: ColorHazard})
	if c := s.GetCell(5, 5); c.Rune != 'X' || c.Color != ColorHazard {
		t.Errorf("GetCell(5, 5) = %+v", c)
	}

	// Out of bounds is silent.
	a := Cell{Rune: 'A'}
	s.SetCell(-1, 0, a)
	s.SetCell(100, 0, a)
	s.SetCell(0, -1, a)
	s.SetCell(0, 100, a)

	if s.GetCell(-1, 0).Rune != ' ' || s.GetCell(100, 0).Rune != ' ' {
		t.Error("out of bounds GetCell should return a blank cell")
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(10, 2)

	s.DrawText(7, 0, "fib(3)", ColorActive)
	if got := s.Row(0); got != "       fib" {
		t.Errorf("clipped row = %q", got)
	}
	if s.GetCell(8, 0).Color != ColorActive {
		t.Error("text color not applied")
	}

	s.Clear()
	s.DrawText(0, 1, "f→1", ColorDefault)
	if s.GetCell(2, 1).Rune != '1' {
		t.Errorf("multi-byte runes should advance one cell, row = %q", s.Row(1))
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(6, 4)
	s.DrawBox(NewRect(0, 0, 6, 4), ColorAccent)

	want := strings.Join([]string{
		"┌────┐",
		"│    │",
		"│    │",
		"└────┘",
	}, "\n")
	if got := s.String(); got != want {
		t.Errorf("box:\n%s\nwant:\n%s", got, want)
	}

	s.Clear()
	s.DrawBox(NewRect(0, 0, 1, 4), ColorAccent)
	if strings.TrimSpace(s.String()) != "" {
		t.Error("degenerate box should draw nothing")
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(4, 4)
	s.SetCell(1, 1, Cell{Rune: 'X'})

	s.Resize(8, 2)
	if s.Width() != 8 || s.Height() != 2 {
		t.Errorf("size after resize = %dx%d", s.Width(), s.Height())
	}
	if s.GetCell(1, 1).Rune != ' ' {
		t.Error("resize should clear the content")
	}
}

func TestScreenTrimmedString(t *testing.T) {
	s := NewScreen(8, 4)
	s.DrawText(0, 0, "ab", ColorDefault)
	s.DrawText(2, 1, "c", ColorDefault)

	if got := s.TrimmedString(); got != "ab\n  c" {
		t.Errorf("TrimmedString() = %q", got)
	}
}

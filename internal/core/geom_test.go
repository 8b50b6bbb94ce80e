package core

import "testing"

func TestPositionAdd(t *testing.T) {
	tests := []struct {
		name     string
		dir      Direction
		expected Position
	}{
		{"up", DirUp, Pos(5, 4)},
		{"down", DirDown, Pos(5, 6)},
		{"left", DirLeft, Pos(4, 5)},
		{"right", DirRight, Pos(6, 5)},
		{"none", DirNone, Pos(5, 5)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Pos(5, 5).Add(tc.dir)
			if got != tc.expected {
				t.Errorf("Add(%v) = %v, expected %v", tc.dir, got, tc.expected)
			}
		})
	}
}

func TestDirectionOpposite(t *testing.T) {
	for _, d := range Cardinals {
		if d.Opposite().Opposite() != d {
			t.Errorf("Opposite is not an involution for %v", d)
		}
		if Pos(0, 0).Add(d).Add(d.Opposite()) != Pos(0, 0) {
			t.Errorf("step %v then %v does not return to origin", d, d.Opposite())
		}
	}
	if DirNone.Opposite() != DirNone {
		t.Error("DirNone.Opposite() should be DirNone")
	}
}

func TestDistance(t *testing.T) {
	if d := Pos(1, 1).Distance(Pos(4, 5)); d != 7 {
		t.Errorf("Distance = %d, expected 7", d)
	}
	if d := Pos(4, 5).Distance(Pos(1, 1)); d != 7 {
		t.Errorf("Distance should be symmetric, got %d", d)
	}
}

func TestParseAdversaryID(t *testing.T) {
	for _, id := range AdversaryIDs {
		got, ok := ParseAdversaryID(id.String())
		if !ok || got != id {
			t.Errorf("ParseAdversaryID(%q) = %v, %v", id.String(), got, ok)
		}
	}
	if _, ok := ParseAdversaryID("sue"); ok {
		t.Error("unknown adversary name should not parse")
	}
}

func TestActionDirection(t *testing.T) {
	if d, ok := ActionLeft.Direction(); !ok || d != DirLeft {
		t.Errorf("ActionLeft.Direction() = %v, %v", d, ok)
	}
	if _, ok := ActionPause.Direction(); ok {
		t.Error("ActionPause should not carry a direction")
	}
}

func TestScreenClipping(t *testing.T) {
	s := NewScreen(4, 2)
	s.DrawText(2, 0, "abcd", ColorHUD)
	s.Set(-1, 0, 'x', ColorDefault)
	s.Set(0, 5, 'x', ColorDefault)

	if got := s.String(); got != "  ab\n    " {
		t.Errorf("String() = %q", got)
	}
	if c := s.GetCell(3, 0); c.Rune != 'b' || c.Color != ColorHUD {
		t.Errorf("GetCell(3,0) = %+v", c)
	}
	if c := s.GetCell(10, 10); c.Rune != ' ' {
		t.Errorf("out of bounds GetCell should be blank, got %q", c.Rune)
	}
}

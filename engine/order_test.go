package engine

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Pawn can take queen or knight, rook can take queen
var captureFen = "7k/8/8/1n1q4/2P5/8/8/K2R4 w - - 0 1"

func TestOrderCaptures(t *testing.T) {
	p := MustParsePosition(captureFen)
	captures := p.Captures()

	if err := OrderCaptures(p, captures); err != nil {
		t.Fatalf("OrderCaptures: %v", err)
	}

	// PxQ (-8), RxQ (-4), PxN (-2)
	expected := []string{"c4d5", "d1d5", "c4b5"}
	if diff := cmp.Diff(expected, moveStrings(captures)); diff != "" {
		t.Errorf("OrderCaptures mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderCapturesIsStable(t *testing.T) {
	// Both rooks take a rook: equal keys keep generator order
	p := MustParsePosition("k7/8/8/8/3r3R/8/8/K2R4 w - - 0 1")
	captures := p.Captures()
	before := moveStrings(captures)
	if len(before) != 2 {
		t.Fatalf("captures are %v expected d1d4 and h4d4", before)
	}

	if err := OrderCaptures(p, captures); err != nil {
		t.Fatalf("OrderCaptures: %v", err)
	}
	if diff := cmp.Diff(before, moveStrings(captures)); diff != "" {
		t.Errorf("equal keys reordered (-want +got):\n%s", diff)
	}
}

func TestOrderCapturesRejectsNonCaptures(t *testing.T) {
	p := MustParsePosition(Startpos)

	for _, moves := range [][]string{{"e2e4"}, {"e2e4", "d2d4"}} {
		var quiet []string
		legal := p.LegalMoves()
		ordered := legal[:0:0]
		for _, want := range moves {
			for _, m := range legal {
				if MoveString(m) == want {
					ordered = append(ordered, m)
					quiet = append(quiet, want)
				}
			}
		}

		err := OrderCaptures(p, ordered)
		var invErr *InvariantError
		if !errors.As(err, &invErr) {
			t.Fatalf("OrderCaptures(%v) returned %v, expected *InvariantError", quiet, err)
		}
		if !errors.Is(err, ErrInvariant) {
			t.Errorf("%v does not wrap ErrInvariant", err)
		}
		if invErr.Fen != p.Fen() {
			t.Errorf("InvariantError fen is %q", invErr.Fen)
		}
	}
}

func TestMvvLvaKey(t *testing.T) {
	p := MustParsePosition(captureFen)
	keys := map[string]int{}
	for _, m := range p.Captures() {
		key, err := mvvLvaKey(p, m)
		if err != nil {
			t.Fatalf("mvvLvaKey(%s): %v", MoveString(m), err)
		}
		keys[MoveString(m)] = key
	}

	expected := map[string]int{"c4d5": -8, "d1d5": -4, "c4b5": -2}
	if diff := cmp.Diff(expected, keys); diff != "" {
		t.Errorf("mvvLvaKey mismatch (-want +got):\n%s", diff)
	}
}

package engine

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var backRankMate = "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1"

func bestMoveString(t *testing.T, s *SearchT, fen string, depth int) (string, EvalCp) {
	t.Helper()
	move, eval, err := s.BestMove(MustParsePosition(fen), depth)
	if err != nil {
		t.Fatalf("BestMove(%s, %d): %v", fen, depth, err)
	}
	return MoveString(move), eval
}

func TestBestMove(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		depth    int
		expected string
	}{
		{"back rank mate", backRankMate, 1, "a1a8"},
		{"back rank mate deeper", backRankMate, 3, "a1a8"},
		{"mate beats winning the queen", "6k1/8/1q5P/8/8/8/1Q1K4/8 w - - 0 1", 1, "b2g7"},
		{"rook takes hanging queen", "8/8/8/5k2/2K5/8/8/2Q4r b - - 0 1", 1, "h1c1"},
		{"rook takes hanging queen deeper", "8/8/8/5k2/2K5/8/8/2Q4r b - - 0 1", 2, "h1c1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			move, _ := bestMoveString(t, testSearch(t), tt.fen, tt.depth)
			if move != tt.expected {
				t.Errorf("best move is %s expected %s", move, tt.expected)
			}
		})
	}
}

func TestBestMoveMateDistance(t *testing.T) {
	s := testSearch(t)
	for _, depth := range []int{1, 2, 3} {
		_, eval := bestMoveString(t, s, backRankMate, depth)
		plies, ok := s.Config().MatePlies(eval, depth)
		if !ok || plies != 1 {
			t.Errorf("depth %d eval %d is mate in %d plies (%v) expected 1", depth, eval, plies, ok)
		}
	}

	if _, ok := s.Config().MatePlies(250, 3); ok {
		t.Errorf("MatePlies(250) reported a mate")
	}
}

func TestBestMoveAvoidsStalemate(t *testing.T) {
	// Qg6 stalemates, several queen moves mate
	fen := "7k/5K2/8/8/8/8/8/6Q1 w - - 0 1"
	p := MustParsePosition(fen)

	for _, depth := range []int{1, 2} {
		move, eval, err := testSearch(t).BestMove(p, depth)
		if err != nil {
			t.Fatalf("BestMove: %v", err)
		}
		if MoveString(move) == "g1g6" {
			t.Errorf("depth %d chose the stalemate", depth)
		}
		if p.Apply(move).Status() != Checkmate {
			t.Errorf("depth %d chose %s (eval %d) which does not mate", depth, MoveString(move), eval)
		}
	}
}

func TestBestMoveDepthZero(t *testing.T) {
	move, eval, err := testSearch(t).BestMove(MustParsePosition(captureFen), 0)
	if err != nil {
		t.Fatalf("BestMove: %v", err)
	}
	// Either capture of the queen, never a move that leaves it en prise
	if to := SquareName(move.To()); to != "d5" {
		t.Errorf("depth 0 chose %s (eval %d) expected a capture on d5", MoveString(move), eval)
	}
}

func TestBestMoveErrors(t *testing.T) {
	s := testSearch(t)

	for _, fen := range []string{whiteInCheckmate, whiteInStalemate, blackInCheckmate, blackInStalemate} {
		if _, _, err := s.BestMove(MustParsePosition(fen), 2); !errors.Is(err, ErrNoLegalMoves) {
			t.Errorf("BestMove(%s) returned %v, expected ErrNoLegalMoves", fen, err)
		}
	}

	for _, depth := range []int{-1, MaxDepth + 1} {
		if _, _, err := s.BestMove(MustParsePosition(Startpos), depth); !errors.Is(err, ErrInvalidDepth) {
			t.Errorf("BestMove at depth %d returned %v, expected ErrInvalidDepth", depth, err)
		}
	}
}

func TestBestMoveIsDeterministic(t *testing.T) {
	for _, fen := range evalFens {
		move1, eval1 := bestMoveString(t, testSearch(t), fen, 2)
		move2, eval2 := bestMoveString(t, testSearch(t), fen, 2)
		if move1 != move2 || eval1 != eval2 {
			t.Errorf("%s searched twice gave %s (%d) and %s (%d)", fen, move1, eval1, move2, eval2)
		}
	}
}

func TestMoveOrderingDoesNotChangeResult(t *testing.T) {
	unordered := DefaultConfig()
	unordered.UseQSearchMoveOrdering = false

	for _, fen := range append([]string{captureFen}, evalFens...) {
		ordered := testSearch(t)
		plain, err := NewSearch(unordered)
		if err != nil {
			t.Fatalf("NewSearch: %v", err)
		}

		move1, eval1 := bestMoveString(t, ordered, fen, 2)
		move2, eval2 := bestMoveString(t, plain, fen, 2)
		if move1 != move2 || eval1 != eval2 {
			t.Errorf("%s with ordering %s (%d), without %s (%d)", fen, move1, eval1, move2, eval2)
		}
	}
}

func TestRootEventsAndTieBreak(t *testing.T) {
	p := MustParsePosition(Startpos)
	s := testSearch(t)

	var events []SearchEvent
	s.SetObserver(func(ev SearchEvent) { events = append(events, ev) })

	move, eval, err := s.BestMove(p, 2)
	if err != nil {
		t.Fatalf("BestMove: %v", err)
	}

	legalMoves := p.LegalMoves()
	if len(events) != len(legalMoves)+1 {
		t.Fatalf("got %d events for %d root moves", len(events), len(legalMoves))
	}

	var kinds []EventKind
	first := -1
	maxEval := -RootFloorEval
	for i, ev := range events[:len(legalMoves)] {
		kinds = append(kinds, ev.Kind)
		if ev.Move != legalMoves[i] || ev.Index != i {
			t.Errorf("event %d is for %s expected %s", i, MoveString(ev.Move), MoveString(legalMoves[i]))
		}
		if ev.Eval > maxEval {
			maxEval, first = ev.Eval, i
		}
	}
	kinds = append(kinds, events[len(legalMoves)].Kind)

	expectedKinds := make([]EventKind, len(legalMoves)+1)
	expectedKinds[len(legalMoves)] = EventBestMove
	if diff := cmp.Diff(expectedKinds, kinds); diff != "" {
		t.Errorf("event kinds mismatch (-want +got):\n%s", diff)
	}

	if move != legalMoves[first] || eval != maxEval {
		t.Errorf("best move %s (%d) expected the first best %s (%d)", MoveString(move), eval, MoveString(legalMoves[first]), maxEval)
	}
	last := events[len(events)-1]
	if last.BestMove != move || last.BestEval != eval || last.Stats != s.Stats() {
		t.Errorf("best move event %+v does not match the result", last)
	}
	if s.Stats().Nodes == 0 || s.Stats().QNodes == 0 || s.Stats().Evals == 0 {
		t.Errorf("stats not counted: %+v", s.Stats())
	}
}

func TestBestMoveRecoversInvariantErrors(t *testing.T) {
	s := testSearch(t)
	s.SetObserver(func(ev SearchEvent) {
		panic(&InvariantError{Op: "observer", Fen: Startpos, Err: ErrInvariant})
	})

	move, _, err := s.BestMove(MustParsePosition(Startpos), 1)
	if !errors.Is(err, ErrInvariant) || move != NoMove {
		t.Errorf("BestMove returned %s, %v expected ErrInvariant", MoveString(move), err)
	}

	s.SetObserver(func(ev SearchEvent) { panic("boom") })
	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("recovered %v expected the observer's panic", r)
		}
	}()
	s.BestMove(MustParsePosition(Startpos), 1)
	t.Errorf("BestMove swallowed a foreign panic")
}

func expectedClip(v EvalCp, alpha EvalCp, beta EvalCp) EvalCp {
	if v >= beta {
		return beta
	}
	if v <= alpha {
		return alpha
	}
	return v
}

func TestNegAlphaBetaWindowClipping(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	fens := []string{evalFens[1], evalFens[2], evalFens[4], captureFen, whiteInCheck, backRankMate}

	for _, fen := range fens {
		p := MustParsePosition(fen)
		for _, depth := range []int{0, 1, 2} {
			s := testSearch(t)
			exact := s.NegAlphaBeta(p, depth, -WindowEval, WindowEval)

			for i := 0; i < 12; i++ {
				alpha := EvalCp(rng.Intn(3000) - 1500)
				beta := alpha + 1 + EvalCp(rng.Intn(1500))
				if i%4 == 0 {
					// window around the exact value
					alpha, beta = exact-1, exact+1
				}

				got := s.NegAlphaBeta(p, depth, alpha, beta)
				if got < alpha || got > beta {
					t.Errorf("%s depth %d window (%d, %d) returned %d", fen, depth, alpha, beta, got)
				}
				if want := expectedClip(exact, alpha, beta); got != want {
					t.Errorf("%s depth %d window (%d, %d) returned %d expected %d (exact %d)", fen, depth, alpha, beta, got, want, exact)
				}
			}
		}
	}
}

func TestQSearchStandPat(t *testing.T) {
	s := testSearch(t)
	cfg := s.Config()

	// No captures: quiescence is the static eval
	p := MustParsePosition(evalFens[4])
	if eval := s.QSearchNegAlphaBeta(p, cfg.QSearchDepth, -WindowEval, WindowEval); eval != 409 {
		t.Errorf("quiet qsearch is %d expected 409", eval)
	}

	// Stand pat cut
	if eval := s.QSearchNegAlphaBeta(p, cfg.QSearchDepth, -WindowEval, 100); eval != 100 {
		t.Errorf("qsearch above beta is %d expected 100", eval)
	}
	if s.Stats().QPatCuts != 1 {
		t.Errorf("QPatCuts is %d expected 1", s.Stats().QPatCuts)
	}

	// Out of budget returns stand pat as is, even outside the window
	q := MustParsePosition(captureFen)
	standPat := s.Evaluate(q, cfg.qRemaining(cfg.QSearchFloor))
	if eval := s.QSearchNegAlphaBeta(q, cfg.QSearchFloor, -WindowEval, standPat-1); eval != standPat {
		t.Errorf("qsearch at the floor is %d expected stand pat %d", eval, standPat)
	}

	// Taking the queen is better than standing pat
	if eval := s.QSearchNegAlphaBeta(q, cfg.QSearchDepth, -WindowEval, WindowEval); eval <= standPat {
		t.Errorf("qsearch %d not above stand pat %d with a queen en prise", eval, standPat)
	}
}

func TestSearchWithDefaults(t *testing.T) {
	move, _, err := Search(MustParsePosition(backRankMate), 1)
	if err != nil || MoveString(move) != "a1a8" {
		t.Errorf("Search returned %s, %v", MoveString(move), err)
	}
}

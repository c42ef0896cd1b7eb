package engine

import (
	"fmt"

	dragon "github.com/dylhunn/dragontoothmg"
)

// SearchT runs fixed-depth searches. It is not safe for concurrent use; give
// each goroutine its own.
type SearchT struct {
	cfg      Config
	observer Observer
	stats    SearchStatsT
}

func NewSearch(cfg Config) (*SearchT, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &SearchT{cfg: cfg}, nil
}

// Observer may be nil.
func (s *SearchT) SetObserver(observer Observer) {
	s.observer = observer
}

func (s *SearchT) Config() Config {
	return s.cfg
}

// Stats of the most recent search.
func (s *SearchT) Stats() SearchStatsT {
	return s.stats
}

func (s *SearchT) notify(ev SearchEvent) {
	if s.observer != nil {
		ev.Stats = s.stats
		s.observer(ev)
	}
}

// BestMove searches p to the given depth and returns the best move for the
// side to move with its eval. Moves with equal evals go to the first in
// generator order. At depth 0 each root move is scored by quiescence alone.
func (s *SearchT) BestMove(p Position, depth int) (bestMove dragon.Move, bestEval EvalCp, err error) {
	if depth < MinDepth || depth > MaxDepth {
		return NoMove, 0, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidDepth, depth, MinDepth, MaxDepth)
	}

	s.stats = SearchStatsT{}

	legalMoves := p.LegalMoves()
	if len(legalMoves) == 0 {
		return NoMove, 0, fmt.Errorf("%w: %s is %s", ErrNoLegalMoves, p.Fen(), p.status(legalMoves))
	}

	defer func() {
		if r := recover(); r != nil {
			invErr, ok := r.(*InvariantError)
			if !ok {
				panic(r)
			}
			bestMove, bestEval, err = NoMove, 0, invErr
		}
	}()

	childDepth := depth - 1
	if childDepth < 0 {
		childDepth = 0
	}

	bestMove, bestEval = NoMove, -RootFloorEval
	alpha, beta := -WindowEval, WindowEval

	for i, move := range legalMoves {
		eval := -s.NegAlphaBeta(p.Apply(move), childDepth, -beta, -alpha)

		// Strictly > so the first of equal moves wins
		if eval > bestEval {
			bestEval, bestMove = eval, move
		}
		if eval > alpha {
			alpha = eval
		}

		s.notify(SearchEvent{
			Kind:     EventRootMove,
			Depth:    depth,
			Index:    i,
			Move:     move,
			Eval:     eval,
			BestMove: bestMove,
			BestEval: bestEval,
		})
	}

	s.notify(SearchEvent{
		Kind:     EventBestMove,
		Depth:    depth,
		Index:    -1,
		Move:     bestMove,
		Eval:     bestEval,
		BestMove: bestMove,
		BestEval: bestEval,
	})

	return bestMove, bestEval, nil
}

// Search finds the best move with the default config.
func Search(p Position, depth int) (dragon.Move, EvalCp, error) {
	s, err := NewSearch(DefaultConfig())
	if err != nil {
		return NoMove, 0, err
	}
	return s.BestMove(p, depth)
}

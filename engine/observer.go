package engine

import (
	dragon "github.com/dylhunn/dragontoothmg"
	"github.com/rs/zerolog"
)

type EventKind int

const (
	EventRootMove EventKind = iota // a root move has been scored
	EventBestMove                  // the search is done
)

func (k EventKind) String() string {
	switch k {
	case EventRootMove:
		return "root_move"
	case EventBestMove:
		return "best_move"
	default:
		return "unknown"
	}
}

// SearchEvent reports search progress. For EventRootMove, Move and Eval are
// the move just scored and BestMove/BestEval the best so far.
type SearchEvent struct {
	Kind     EventKind
	Depth    int
	Index    int // root move index, in generator order
	Move     dragon.Move
	Eval     EvalCp
	BestMove dragon.Move
	BestEval EvalCp
	Stats    SearchStatsT
}

// Observer receives search events synchronously, on the searching goroutine.
type Observer func(SearchEvent)

// LogObserver logs root moves at debug level and the result at info level.
func LogObserver(logger zerolog.Logger) Observer {
	return func(ev SearchEvent) {
		switch ev.Kind {
		case EventRootMove:
			logger.Debug().
				Int("depth", ev.Depth).
				Int("index", ev.Index).
				Str("move", MoveString(ev.Move)).
				Int("eval", int(ev.Eval)).
				Str("best_move", MoveString(ev.BestMove)).
				Msg("root-move")
		case EventBestMove:
			logger.Info().
				Int("depth", ev.Depth).
				Str("best_move", MoveString(ev.BestMove)).
				Int("best_eval", int(ev.BestEval)).
				Object("stats", ev.Stats).
				Msg("best-move")
		}
	}
}

// Observers fans events out to several observers; nil entries are skipped.
func Observers(observers ...Observer) Observer {
	return func(ev SearchEvent) {
		for _, o := range observers {
			if o != nil {
				o(ev)
			}
		}
	}
}

package engine

import "fmt"

const MinDepth = 0
const MaxDepth = 64

// Config holds the search tunables. The zero value is not useful; start from
// DefaultConfig.
type Config struct {
	SearchDepth int `json:"search_depth"` // used by hosts that don't pass a depth

	// Quiescence budget: it starts at QSearchDepth and drops by one per
	// capture; at QSearchFloor the stand pat eval is returned as is.
	QSearchDepth int `json:"qsearch_depth"`
	QSearchFloor int `json:"qsearch_floor"`

	PawnValue EvalCp `json:"pawn_value"` // material multiplier

	UseQSearchMoveOrdering bool `json:"use_qsearch_move_ordering"`
	CheckReplyLookahead    bool `json:"check_reply_lookahead"` // one-ply in-check correction
}

func DefaultConfig() Config {
	return Config{
		SearchDepth:            3,
		QSearchDepth:           100,
		QSearchFloor:           -100,
		PawnValue:              100,
		UseQSearchMoveOrdering: true,
		CheckReplyLookahead:    true,
	}
}

func (c Config) Validate() error {
	if c.SearchDepth < MinDepth || c.SearchDepth > MaxDepth {
		return fmt.Errorf("%w: search depth %d not in [%d, %d]", ErrInvalidConfig, c.SearchDepth, MinDepth, MaxDepth)
	}
	if c.QSearchFloor >= c.QSearchDepth {
		return fmt.Errorf("%w: qsearch floor %d must be below qsearch depth %d", ErrInvalidConfig, c.QSearchFloor, c.QSearchDepth)
	}
	if c.PawnValue <= 0 {
		return fmt.Errorf("%w: pawn value %d must be positive", ErrInvalidConfig, c.PawnValue)
	}
	return nil
}

// qSearchSpan is the most plies quiescence can add below the main tree.
func (c Config) qSearchSpan() int {
	return c.QSearchDepth - c.QSearchFloor
}

// remaining maps main tree depth onto the depth scale used for mate scores.
func (c Config) remaining(depthToGo int) int {
	return depthToGo + c.qSearchSpan()
}

func (c Config) qRemaining(qDepthToGo int) int {
	return qDepthToGo - c.QSearchFloor
}

// MatePlies converts a mate eval returned by a root search of the given
// depth into the number of plies to mate. ok is false for ordinary evals.
func (c Config) MatePlies(eval EvalCp, depth int) (plies int, ok bool) {
	if !IsMateEval(eval) {
		return 0, false
	}
	magnitude := eval
	if magnitude < 0 {
		magnitude = -magnitude
	}
	return c.remaining(depth) - int(magnitude-MateEval), true
}

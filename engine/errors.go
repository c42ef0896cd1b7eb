package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers match them with errors.Is; most are returned
// wrapped with the offending input.
var (
	// ErrInvalidFen indicates a position string that cannot be parsed.
	ErrInvalidFen = errors.New("invalid FEN")

	// ErrNoLegalMoves indicates a search was asked for a move in a finished game.
	ErrNoLegalMoves = errors.New("no legal moves")

	// ErrNullMoveInCheck indicates a pass was requested while the side to move is in check.
	ErrNullMoveInCheck = errors.New("null move while in check")

	// ErrIllegalMove indicates a move that is not legal in the position.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidDepth indicates a negative or otherwise unusable search depth.
	ErrInvalidDepth = errors.New("invalid search depth")

	// ErrInvalidConfig indicates search settings that cannot work together.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvariant indicates the rules engine broke a contract the search relies on.
	ErrInvariant = errors.New("internal invariant violated")
)

// InvariantError is raised (by panic) deep in the search when a collaborator
// contract is broken. SearchT.BestMove turns it back into an ordinary error.
type InvariantError struct {
	Op  string // where it was detected
	Fen string // the position being searched
	Err error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %v [%s]", e.Op, e.Err, e.Fen)
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}

func violated(op string, p Position, err error) {
	panic(&InvariantError{Op: op, Fen: p.Fen(), Err: err})
}

package engine

import (
	"fmt"

	dragon "github.com/dylhunn/dragontoothmg"
)

// Eval in centi-pawns (with the default PawnValue), i.e. 100 === 1 pawn.
// Always from the perspective of the side to move.
type EvalCp int

// Mated positions score -(MateEval + remaining depth), so a mate found nearer
// the root is more extreme. Search windows start at +/-WindowEval which no real
// score can reach, and the root starts its best eval below even that.
const (
	MateEval      EvalCp = 10_000_000
	WindowEval    EvalCp = 100_000_000
	RootFloorEval EvalCp = 1_000_000_000
	DrawEval      EvalCp = 0
)

// Piece values in pawns. The king never gets captured, it is only ever the
// aggressor, so it is valued above everything else.
const (
	nothingVal = 0
	pawnVal    = 1
	knightVal  = 3
	bishopVal  = 3
	rookVal    = 5
	queenVal   = 9
	kingVal    = 10
)

var pieceVals = [7]int{
	nothingVal,
	pawnVal,
	knightVal,
	bishopVal,
	rookVal,
	queenVal,
	kingVal}

var materialPieces = [...]dragon.Piece{dragon.Pawn, dragon.Knight, dragon.Bishop, dragon.Rook, dragon.Queen}

// PieceVal returns the material value of a piece kind in pawns.
func PieceVal(piece dragon.Piece) int {
	if int(piece) >= len(pieceVals) {
		return 0
	}
	return pieceVals[piece]
}

// MatedEval is the eval of a checkmated position for the side to move.
func MatedEval(remaining int) EvalCp {
	return -(MateEval + EvalCp(remaining))
}

// IsMateEval reports whether eval encodes a forced mate for either side.
func IsMateEval(eval EvalCp) bool {
	return eval >= MateEval/2 || eval <= -MateEval/2
}

// MaterialDelta counts material for the side to move minus the opponent's, in pawns.
func MaterialDelta(p Position) int {
	us := p.SideToMove()
	delta := 0
	for _, piece := range materialPieces {
		delta += (p.Count(us, piece) - p.Count(us.Other(), piece)) * pieceVals[piece]
	}
	return delta
}

// MobilityDelta is our legal move count minus the opponent's, where the
// opponent's count is taken by passing the turn. It fails when the side to
// move is in check.
func MobilityDelta(p Position) (int, error) {
	return mobilityDelta(p, p.LegalMoves())
}

func mobilityDelta(p Position, legalMoves []dragon.Move) (int, error) {
	passed, err := p.NullMove()
	if err != nil {
		return 0, err
	}
	return len(legalMoves) - len(passed.LegalMoves()), nil
}

// Evaluate scores p for the side to move. remaining is the depth left to
// search, which orders mates by distance.
func (s *SearchT) Evaluate(p Position, remaining int) EvalCp {
	eval, _ := s.evaluate(p, remaining)
	return eval
}

// evaluate also hands back the legal moves it had to generate anyway.
func (s *SearchT) evaluate(p Position, remaining int) (EvalCp, []dragon.Move) {
	s.stats.Evals++

	legalMoves := p.LegalMoves()
	switch p.status(legalMoves) {
	case Checkmate:
		s.stats.Mates++
		return MatedEval(remaining), legalMoves
	case Stalemate:
		s.stats.Mates++
		return DrawEval, legalMoves
	}

	if p.InCheck() {
		s.stats.InCheckEvals++
		return s.inCheckEval(p, legalMoves, remaining), legalMoves
	}

	return s.quietEval(p, legalMoves), legalMoves
}

func (s *SearchT) materialEval(p Position) EvalCp {
	return s.cfg.PawnValue * EvalCp(MaterialDelta(p))
}

func (s *SearchT) quietEval(p Position, legalMoves []dragon.Move) EvalCp {
	mobility, err := mobilityDelta(p, legalMoves)
	if err != nil {
		violated("mobility", p, fmt.Errorf("%w: %w", ErrInvariant, err))
	}
	return s.materialEval(p) + EvalCp(mobility)
}

// In check we can't pass, so mobility is meaningless. Instead look one ply
// at the real replies and take the one that turns out worst for us.
func (s *SearchT) inCheckEval(p Position, legalMoves []dragon.Move, remaining int) EvalCp {
	if !s.cfg.CheckReplyLookahead {
		return s.materialEval(p)
	}

	worstEval := RootFloorEval
	for _, move := range legalMoves {
		eval := -s.replyEval(p.Apply(move), remaining-1)
		if eval < worstEval {
			worstEval = eval
		}
	}
	return worstEval
}

// replyEval is the static eval used inside the in-check lookahead. It does
// not look further ahead, even if the reply gives check.
func (s *SearchT) replyEval(p Position, remaining int) EvalCp {
	s.stats.Evals++

	legalMoves := p.LegalMoves()
	switch p.status(legalMoves) {
	case Checkmate:
		return MatedEval(remaining)
	case Stalemate:
		return DrawEval
	}
	if p.InCheck() {
		return s.materialEval(p)
	}
	return s.quietEval(p, legalMoves)
}

// terminalEval scores a position with no legal moves.
func terminalEval(p Position, remaining int) EvalCp {
	if p.InCheck() {
		return MatedEval(remaining)
	}
	return DrawEval
}

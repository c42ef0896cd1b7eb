package engine

import (
	"fmt"
	"sort"

	dragon "github.com/dylhunn/dragontoothmg"
)

type rankedMove struct {
	move dragon.Move
	key  int
}

// OrderCaptures sorts captures in place, MVV-LVA: by attacker value minus
// victim value, ascending, so a pawn taking a queen comes first. Ties keep
// the generator's order. A move that is not a capture by the side to move is
// reported as an *InvariantError.
func OrderCaptures(p Position, captures []dragon.Move) error {
	if len(captures) < 2 {
		// Still validate a lone capture
		for _, move := range captures {
			if _, err := mvvLvaKey(p, move); err != nil {
				return err
			}
		}
		return nil
	}

	ranked := make([]rankedMove, len(captures))
	for i, move := range captures {
		key, err := mvvLvaKey(p, move)
		if err != nil {
			return err
		}
		ranked[i] = rankedMove{move: move, key: key}
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].key < ranked[j].key })

	for i := range ranked {
		captures[i] = ranked[i].move
	}
	return nil
}

func mvvLvaKey(p Position, move dragon.Move) (int, error) {
	us := p.SideToMove()

	attacker, attackerColor, ok := p.PieceAt(move.From())
	if !ok || attackerColor != us {
		return 0, &InvariantError{
			Op:  "order captures",
			Fen: p.Fen(),
			Err: fmt.Errorf("%w: %s has no piece of the side to move", ErrInvariant, MoveString(move)),
		}
	}

	victim, victimColor, ok := p.PieceAt(move.To())
	if !ok || victimColor == us || victim == dragon.King {
		return 0, &InvariantError{
			Op:  "order captures",
			Fen: p.Fen(),
			Err: fmt.Errorf("%w: %s captures nothing", ErrInvariant, MoveString(move)),
		}
	}

	return PieceVal(attacker) - PieceVal(victim), nil
}

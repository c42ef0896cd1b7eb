package interop

import (
	"errors"
	"fmt"
	"strings"

	dragon "github.com/dylhunn/dragontoothmg"

	"github.com/clanpj/stablebot/engine"
)

var ErrMalformedMove = errors.New("interop: malformed encoded move")

// EncodedMove is the three field boundary form of a move, e.g. "e7;e8;queen".
type EncodedMove struct {
	From      string
	To        string
	Promotion string // "none" if the move does not promote
}

func Encode(m dragon.Move) EncodedMove {
	return EncodedMove{
		From:      engine.SquareName(m.From()),
		To:        engine.SquareName(m.To()),
		Promotion: engine.PieceName(m.Promote()),
	}
}

func (e EncodedMove) String() string {
	return e.From + ";" + e.To + ";" + e.Promotion
}

var promotionLetters = map[string]string{
	"none":   "",
	"knight": "n",
	"bishop": "b",
	"rook":   "r",
	"queen":  "q",
}

// UCI renders the move in long algebraic form, for hosts that took the
// encoded string from StablebotBestMove and need to post it to a UCI or
// lichess peer.
func (e EncodedMove) UCI() string {
	return e.From + e.To + promotionLetters[e.Promotion]
}

// ParseEncoded decodes "src;dst;promo", the form the C-ABI and websocket
// hosts hand back to their callers.
func ParseEncoded(s string) (EncodedMove, error) {
	fields := strings.Split(strings.TrimSpace(s), ";")
	if len(fields) != 3 {
		return EncodedMove{}, fmt.Errorf("%w: %q wants 3 fields", ErrMalformedMove, s)
	}
	e := EncodedMove{From: fields[0], To: fields[1], Promotion: fields[2]}
	if !isSquare(e.From) || !isSquare(e.To) {
		return EncodedMove{}, fmt.Errorf("%w: %q has a bad square", ErrMalformedMove, s)
	}
	if _, ok := promotionLetters[e.Promotion]; !ok {
		return EncodedMove{}, fmt.Errorf("%w: %q has a bad promotion", ErrMalformedMove, s)
	}
	return e, nil
}

func isSquare(s string) bool {
	return len(s) == 2 && s[0] >= 'a' && s[0] <= 'h' && s[1] >= '1' && s[1] <= '8'
}

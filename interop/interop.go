// Package interop is the call boundary of the engine: a position in FEN and
// a depth in, one encoded move out.
package interop

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notnil/chess"

	"github.com/clanpj/stablebot/engine"
)

type Request struct {
	Fen   string `json:"fen"`
	Depth int    `json:"depth"`
}

type Reply struct {
	Encoded   string              `json:"encoded"` // src;dst;promo
	Move      string              `json:"move"`    // long algebraic
	San       string              `json:"san"`
	Eval      engine.EvalCp       `json:"eval"`
	MatePlies int                 `json:"mate_plies,omitempty"`
	Stats     engine.SearchStatsT `json:"stats"`
}

// Options tune a boundary call. The zero value searches with
// engine.DefaultConfig and no observer.
type Options struct {
	Config   *engine.Config
	Observer engine.Observer
	MaxDepth int // 0 means engine.MaxDepth
}

// BestMove is the boundary operation with default options.
func BestMove(fen string, depth int) (string, error) {
	reply, err := Run(Request{Fen: fen, Depth: depth}, Options{})
	if err != nil {
		return "", err
	}
	return reply.Encoded, nil
}

func Run(req Request, opts Options) (Reply, error) {
	cfg := engine.DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 || maxDepth > engine.MaxDepth {
		maxDepth = engine.MaxDepth
	}
	if req.Depth < engine.MinDepth || req.Depth > maxDepth {
		return Reply{}, fmt.Errorf("%w: %d not in [%d, %d]", engine.ErrInvalidDepth, req.Depth, engine.MinDepth, maxDepth)
	}

	fen, game, err := parseFen(req.Fen)
	if err != nil {
		return Reply{}, err
	}
	pos, err := engine.ParsePosition(fen)
	if err != nil {
		return Reply{}, err
	}

	s, err := engine.NewSearch(cfg)
	if err != nil {
		return Reply{}, err
	}
	s.SetObserver(opts.Observer)

	move, eval, err := s.BestMove(pos, req.Depth)
	if err != nil {
		return Reply{}, err
	}

	reply := Reply{
		Encoded: Encode(move).String(),
		Move:    engine.MoveString(move),
		Eval:    eval,
		Stats:   s.Stats(),
	}
	if plies, ok := cfg.MatePlies(eval, req.Depth); ok {
		reply.MatePlies = plies
		if eval < 0 {
			reply.MatePlies = -plies
		}
	}
	reply.San, err = san(game, reply.Move)
	if err != nil {
		return Reply{}, err
	}

	return reply, nil
}

// parseFen checks the notation independently of the move generator, which
// trusts its input. Clocks may be left off.
func parseFen(fen string) (string, *chess.Game, error) {
	fields := strings.Fields(fen)
	if len(fields) == 4 {
		fields = append(fields, "0", "1")
	}
	normalized := strings.Join(fields, " ")

	opt, err := chess.FEN(normalized)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", engine.ErrInvalidFen, err)
	}
	return normalized, chess.NewGame(opt), nil
}

// san renders uci in SAN. The generator's own moves carry the check tags
// that the + and # suffixes come from; a decoded move does not.
func san(game *chess.Game, uci string) (string, error) {
	pos := game.Position()
	for _, m := range pos.ValidMoves() {
		if (chess.UCINotation{}).Encode(pos, m) == uci {
			return chess.AlgebraicNotation{}.Encode(pos, m), nil
		}
	}
	return "", &engine.InvariantError{Op: "san", Fen: pos.String(), Err: fmt.Errorf("%w: %s is not a legal move", engine.ErrInvariant, uci)}
}

// ErrorKind classifies a boundary failure for hosts that can only pass strings.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, engine.ErrInvalidFen):
		return "invalid_fen"
	case errors.Is(err, engine.ErrNoLegalMoves):
		return "no_legal_moves"
	case errors.Is(err, engine.ErrInvalidDepth):
		return "invalid_depth"
	case errors.Is(err, engine.ErrInvalidConfig):
		return "invalid_config"
	case errors.Is(err, engine.ErrInvariant):
		return "invariant"
	default:
		return "internal"
	}
}

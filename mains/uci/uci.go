package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clanpj/stablebot/engine"
)

type uci struct {
	cfg      engine.Config
	params   []engine.ConfigParam
	position engine.Position
	out      io.Writer
	logger   zerolog.Logger
}

func newUCI(cfg engine.Config, out io.Writer, logger zerolog.Logger) *uci {
	u := &uci{
		cfg:      cfg,
		position: engine.MustParsePosition(engine.Startpos),
		out:      out,
		logger:   logger,
	}
	u.params = engine.ConfigParams(&u.cfg)
	return u
}

func (u *uci) println(a ...interface{}) {
	fmt.Fprintln(u.out, a...)
}

// loop handles commands until "quit" or the end of input. Searches run to
// completion before the next command is read, so "stop" has nothing to do.
func (u *uci) loop(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			u.println("id name Stablebot", VersionString)
			u.println("id author Clan PJ")
			for _, p := range u.params {
				if p.IsBool {
					u.println("option name", p.Descr, "type check default", p.Value())
				} else {
					u.println("option name", p.Descr, "type spin default", p.Value(), "min", p.Min, "max", p.Max)
				}
			}
			u.println("uciok")
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			// reset the board, in case the GUI skips 'position' after 'newgame'
			u.position = engine.MustParsePosition(engine.Startpos)
		case "quit":
			return nil
		case "setoption":
			u.setOption(tokens)
		case "position":
			u.setPosition(tokens[1:])
		case "go":
			u.goSearch(tokens[1:])
		case "stop":
		default:
			u.println("info string Unknown command:", line)
		}
	}
	return scanner.Err()
}

func (u *uci) setOption(tokens []string) {
	if len(tokens) != 5 || tokens[1] != "name" || tokens[3] != "value" {
		u.println("info string Malformed setoption command")
		return
	}
	param, ok := engine.FindConfigParam(u.params, tokens[2])
	if !ok {
		u.println("info string Unknown UCI option", tokens[2])
		return
	}
	if err := param.Parse(tokens[4]); err != nil {
		u.println("info string", err)
		return
	}
	u.println("info string", param.Descr, "changed to", param.Value())
}

// setPosition handles "startpos [moves ...]" and "fen <fen> [moves ...]".
// A bad command leaves the current position alone.
func (u *uci) setPosition(args []string) {
	if len(args) == 0 {
		u.println("info string Malformed position command")
		return
	}

	var fen string
	var rest []string
	switch strings.ToLower(args[0]) {
	case "startpos":
		fen, rest = engine.Startpos, args[1:]
	case "fen":
		i := 1
		for i < len(args) && strings.ToLower(args[i]) != "moves" {
			i++
		}
		fen, rest = strings.Join(args[1:i], " "), args[i:]
	default:
		u.println("info string Invalid position subcommand")
		return
	}

	position, err := engine.ParsePosition(fen)
	if err != nil {
		u.println("info string", err)
		return
	}

	if len(rest) > 0 {
		if strings.ToLower(rest[0]) != "moves" {
			u.println("info string Malformed position command")
			return
		}
		for _, moveStr := range rest[1:] {
			if position, err = position.ApplyUCI(moveStr); err != nil {
				u.println("info string", err)
				return
			}
		}
	}

	u.position = position
}

// goSearch runs a fixed-depth search. Only "depth" is honoured; clock
// options are accepted and ignored.
func (u *uci) goSearch(args []string) {
	depth := u.cfg.SearchDepth
	for i := 0; i < len(args); i++ {
		switch strings.ToLower(args[i]) {
		case "depth":
			if i+1 >= len(args) {
				u.println("info string Malformed go command option depth")
				return
			}
			i++
			d, err := strconv.Atoi(args[i])
			if err != nil {
				u.println("info string Malformed go command option; could not convert depth")
				return
			}
			depth = d
		case "wtime", "btime", "winc", "binc", "movestogo", "movetime", "nodes", "mate":
			i++
		case "infinite", "ponder":
		default:
			u.println("info string Unknown go subcommand", args[i])
		}
	}

	search, err := engine.NewSearch(u.cfg)
	if err != nil {
		u.println("info string", err)
		return
	}
	search.SetObserver(engine.LogObserver(u.logger))

	start := time.Now()
	bestMove, eval, err := search.BestMove(u.position, depth)
	if err != nil {
		u.println("info string", err)
		u.println("bestmove 0000")
		return
	}
	elapsed := time.Since(start)

	stats := search.Stats()
	for _, s := range stats.InfoStrings() {
		u.println(s)
	}

	nodes := stats.Nodes + stats.QNodes
	var nps uint64
	if elapsed > 0 {
		nps = uint64(float64(nodes) / elapsed.Seconds())
	}
	u.println("info depth", depth, "score", u.score(eval, depth), "nodes", nodes,
		"time", elapsed.Milliseconds(), "nps", nps, "pv", engine.MoveString(bestMove))
	u.println("bestmove", engine.MoveString(bestMove))
}

// score renders eval from the side to move as "cp N" or "mate N", where N
// counts full moves and is negative when we are being mated.
func (u *uci) score(eval engine.EvalCp, depth int) string {
	plies, ok := u.cfg.MatePlies(eval, depth)
	if !ok {
		return fmt.Sprint("cp ", int(eval))
	}
	moves := (plies + 1) / 2
	if eval < 0 {
		moves = -moves
	}
	return fmt.Sprint("mate ", moves)
}

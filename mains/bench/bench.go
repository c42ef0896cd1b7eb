package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/clanpj/stablebot/engine"
	"github.com/clanpj/stablebot/interop"
)

// benchPosition is one input line: a FEN or an EPD record, whose "bm" and
// "id" operations are picked up when present.
type benchPosition struct {
	Line      int
	Fen       string
	ID        string
	BestMoves []string // SAN
}

type benchResult struct {
	benchPosition
	Reply interop.Reply
	Err   error
}

// Pass reports whether the search found one of the expected moves. ok is
// false when the position has no "bm" operation or the search failed.
func (r benchResult) Pass() (pass bool, ok bool) {
	if len(r.BestMoves) == 0 || r.Err != nil {
		return false, false
	}
	for _, bm := range r.BestMoves {
		if stripSanSuffix(bm) == stripSanSuffix(r.Reply.San) {
			return true, true
		}
	}
	return false, true
}

func stripSanSuffix(san string) string {
	return strings.TrimRight(san, "+#!?")
}

// readPositions reads one position per line. Blank lines and lines starting
// with '#' are skipped.
func readPositions(r io.Reader) ([]benchPosition, error) {
	var positions []benchPosition
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		positions = append(positions, parsePosition(lineNo, line))
	}
	return positions, scanner.Err()
}

func isClock(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func parsePosition(lineNo int, line string) benchPosition {
	fields := strings.Fields(line)
	n := 4
	if len(fields) >= 6 && isClock(fields[4]) && isClock(fields[5]) {
		n = 6
	}
	if len(fields) < n {
		// Let the search report the bad FEN.
		return benchPosition{Line: lineNo, Fen: line}
	}

	pos := benchPosition{Line: lineNo, Fen: strings.Join(fields[:n], " ")}
	for _, op := range strings.Split(strings.Join(fields[n:], " "), ";") {
		words := strings.Fields(op)
		if len(words) == 0 {
			continue
		}
		switch words[0] {
		case "bm":
			pos.BestMoves = append(pos.BestMoves, words[1:]...)
		case "id":
			pos.ID = strings.Trim(strings.Join(words[1:], " "), `"`)
		}
	}
	return pos
}

// runBench searches every position at depth with at most workers searches
// in flight. Results come back in input order; a failed search is recorded
// in its result and does not stop the others.
func runBench(ctx context.Context, positions []benchPosition, cfg engine.Config, depth int, workers int, logger zerolog.Logger) ([]benchResult, error) {
	results := make([]benchResult, len(positions))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range positions {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			pos := positions[i]
			reply, err := interop.Run(interop.Request{Fen: pos.Fen, Depth: depth}, interop.Options{Config: &cfg})
			results[i] = benchResult{benchPosition: pos, Reply: reply, Err: err}

			if err != nil {
				logger.Warn().Err(err).Int("line", pos.Line).Str("kind", interop.ErrorKind(err)).Msg("bench-position")
			} else {
				logger.Debug().Int("line", pos.Line).Str("move", reply.Move).Object("stats", reply.Stats).Msg("bench-position")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

type benchSummary struct {
	Positions int
	Failed    int
	Tested    int // positions with a "bm" operation
	Passed    int
	Nodes     uint64
}

func summarize(results []benchResult) benchSummary {
	var s benchSummary
	for _, r := range results {
		s.Positions++
		if r.Err != nil {
			s.Failed++
			continue
		}
		s.Nodes += r.Reply.Stats.Nodes + r.Reply.Stats.QNodes
		if pass, ok := r.Pass(); ok {
			s.Tested++
			if pass {
				s.Passed++
			}
		}
	}
	return s
}

func printResults(w io.Writer, results []benchResult) {
	for _, r := range results {
		label := strconv.Itoa(r.Line)
		if r.ID != "" {
			label += " " + r.ID
		}

		if r.Err != nil {
			fmt.Fprintf(w, "%s: error %s: %v\n", label, interop.ErrorKind(r.Err), r.Err)
			continue
		}

		verdict := ""
		if pass, ok := r.Pass(); ok {
			verdict = " fail (bm " + strings.Join(r.BestMoves, " ") + ")"
			if pass {
				verdict = " pass"
			}
		}
		fmt.Fprintf(w, "%s: %s %s eval %d nodes %d%s\n", label, r.Reply.Move, r.Reply.San, r.Reply.Eval,
			r.Reply.Stats.Nodes+r.Reply.Stats.QNodes, verdict)
	}

	s := summarize(results)
	fmt.Fprintf(w, "positions %d failed %d nodes %d bm %d/%d\n", s.Positions, s.Failed, s.Nodes, s.Passed, s.Tested)
}

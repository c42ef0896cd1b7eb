package engine

import (
	"fmt"

	"github.com/rs/zerolog"
)

type SearchStatsT struct {
	Nodes          uint64 // #main tree nodes visited (excluding quiescence)
	NonLeafs       uint64 // #main tree nodes that expanded children
	Mates          uint64 // #checkmate or stalemate nodes
	CutNodes       uint64 // #(beta-)cut nodes
	FirstChildCuts uint64 // #nodes that (beta-)cut on the first child searched
	QNodes         uint64 // #nodes visited in qsearch
	QPatCuts       uint64 // #qnodes with stand pat cut
	QCutNodes      uint64 // #qnodes cut by a capture
	QPrunes        uint64 // #qnodes where the budget ran out before quiescing
	Evals          uint64 // #static evals
	InCheckEvals   uint64 // #static evals of a side in check
}

func PerC(n uint64, N uint64) string {
	if N == 0 {
		return fmt.Sprintf("%d [-]", n)
	}
	return fmt.Sprintf("%d [%.2f%%]", n, float64(n)/float64(N)*100)
}

// InfoStrings renders the stats as UCI "info string" lines.
func (s *SearchStatsT) InfoStrings() []string {
	return []string{
		fmt.Sprint("info string nodes: ", s.Nodes, " non-leafs: ", s.NonLeafs, " mates: ", PerC(s.Mates, s.Nodes),
			" cuts: ", PerC(s.CutNodes, s.NonLeafs), " 1st-child-cuts: ", PerC(s.FirstChildCuts, s.CutNodes)),
		fmt.Sprint("info string q-nodes: ", s.QNodes, " q-pat-cuts: ", PerC(s.QPatCuts, s.QNodes),
			" q-cuts: ", PerC(s.QCutNodes, s.QNodes), " q-prunes: ", PerC(s.QPrunes, s.QNodes)),
		fmt.Sprint("info string evals: ", s.Evals, " in-check-evals: ", PerC(s.InCheckEvals, s.Evals)),
	}
}

func (s SearchStatsT) MarshalZerologObject(e *zerolog.Event) {
	e.Uint64("nodes", s.Nodes).
		Uint64("non_leafs", s.NonLeafs).
		Uint64("mates", s.Mates).
		Uint64("cuts", s.CutNodes).
		Uint64("first_child_cuts", s.FirstChildCuts).
		Uint64("q_nodes", s.QNodes).
		Uint64("q_pat_cuts", s.QPatCuts).
		Uint64("q_cuts", s.QCutNodes).
		Uint64("q_prunes", s.QPrunes).
		Uint64("evals", s.Evals).
		Uint64("in_check_evals", s.InCheckEvals)
}

package engine

// NegAlphaBeta returns the fail-hard alpha-beta eval of p from the side to
// move's perspective: beta on a cut, alpha if nothing beats it, otherwise the
// exact eval. At depthToGo 0 it hands over to quiescence.
func (s *SearchT) NegAlphaBeta(p Position, depthToGo int, alpha EvalCp, beta EvalCp) EvalCp {
	if depthToGo <= 0 {
		return s.QSearchNegAlphaBeta(p, s.cfg.QSearchDepth, alpha, beta)
	}

	s.stats.Nodes++

	legalMoves := p.LegalMoves()

	// Checkmate or stalemate
	if len(legalMoves) == 0 {
		s.stats.Mates++
		return clampEval(terminalEval(p, s.cfg.remaining(depthToGo)), alpha, beta)
	}

	s.stats.NonLeafs++

	for i, move := range legalMoves {
		eval := -s.NegAlphaBeta(p.Apply(move), depthToGo-1, -beta, -alpha)

		if eval >= beta {
			// beta cut-off
			s.stats.CutNodes++
			if i == 0 {
				s.stats.FirstChildCuts++
			}
			return beta
		}

		if eval > alpha {
			alpha = eval
		}
	}

	return alpha
}

func clampEval(eval EvalCp, alpha EvalCp, beta EvalCp) EvalCp {
	if eval >= beta {
		return beta
	}
	if eval < alpha {
		return alpha
	}
	return eval
}

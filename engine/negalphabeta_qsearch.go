package engine

// Quiescence search - differs from full search as follows:
//   - we only look at captures; en-passant and quiet promotions are not followed
//   - the static eval is a candidate itself ('standing pat') since captures are not compulsory
//   - the budget drops by one per capture and at QSearchFloor we take the stand pat eval as is
func (s *SearchT) QSearchNegAlphaBeta(p Position, qDepthToGo int, alpha EvalCp, beta EvalCp) EvalCp {
	s.stats.QNodes++

	standPatEval, legalMoves := s.evaluate(p, s.cfg.qRemaining(qDepthToGo))

	if qDepthToGo <= s.cfg.QSearchFloor {
		s.stats.QPrunes++
		return standPatEval
	}

	if standPatEval >= beta {
		s.stats.QPatCuts++
		return beta
	}
	if standPatEval > alpha {
		alpha = standPatEval
	}

	captures := p.capturesOf(legalMoves)

	if s.cfg.UseQSearchMoveOrdering {
		if err := OrderCaptures(p, captures); err != nil {
			panic(err)
		}
	}

	for _, move := range captures {
		eval := -s.QSearchNegAlphaBeta(p.Apply(move), qDepthToGo-1, -beta, -alpha)

		if eval >= beta {
			s.stats.QCutNodes++
			return beta
		}
		if eval > alpha {
			alpha = eval
		}
	}

	return alpha
}

package ai

import (
	"math"

	"github.com/kayasax/Awale-sub000/game/engine"
)

const defaultDepth = 4

// Minimax searches a fixed number of plies ahead with negamax-style
// alternation and picks the move with the best guaranteed outcome.
// Deterministic: equal scores resolve to the lowest pit index.
type Minimax struct {
	depth int
}

// NewMinimax returns a Minimax policy searching depth plies; depth values
// below one fall back to the default.
func NewMinimax(depth int) *Minimax {
	if depth < 1 {
		depth = defaultDepth
	}
	return &Minimax{depth: depth}
}

// Name implements Policy.
func (m *Minimax) Name() string { return "minimax" }

// ChooseMove implements Policy.
func (m *Minimax) ChooseMove(s engine.GameState) (int, error) {
	moves := engine.LegalMoves(s)
	if len(moves) == 0 {
		return 0, ErrNoMoves
	}
	me := s.CurrentPlayer
	best, bestScore := moves[0], math.MinInt
	for _, pit := range moves {
		next, _, err := engine.ApplyMove(s, pit)
		if err != nil {
			return 0, err
		}
		if score := m.score(next, me, m.depth-1); score > bestScore {
			best, bestScore = pit, score
		}
	}
	return best, nil
}

// score evaluates s from me's point of view, searching depth further plies.
func (m *Minimax) score(s engine.GameState, me engine.Player, depth int) int {
	if s.Ended {
		diff := s.CapturedBy(me) - s.CapturedBy(me.Opponent())
		switch {
		case diff > 0:
			return 1000 + diff
		case diff < 0:
			return -1000 + diff
		default:
			return 0
		}
	}
	if depth == 0 {
		return evaluate(s, me)
	}

	moves := engine.LegalMoves(s)
	if s.CurrentPlayer == me {
		best := math.MinInt
		for _, pit := range moves {
			next, _, err := engine.ApplyMove(s, pit)
			if err != nil {
				continue
			}
			if v := m.score(next, me, depth-1); v > best {
				best = v
			}
		}
		return best
	}
	worst := math.MaxInt
	for _, pit := range moves {
		next, _, err := engine.ApplyMove(s, pit)
		if err != nil {
			continue
		}
		if v := m.score(next, me, depth-1); v < worst {
			worst = v
		}
	}
	return worst
}

// evaluate scores a live position: banked seeds dominate, seeds still held
// in the own row break ties.
func evaluate(s engine.GameState, me engine.Player) int {
	capturedDiff := s.CapturedBy(me) - s.CapturedBy(me.Opponent())
	rowDiff := s.RowSeeds(me) - s.RowSeeds(me.Opponent())
	return capturedDiff*8 + rowDiff
}

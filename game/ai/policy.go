package ai

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/kayasax/Awale-sub000/game/engine"
)

// ErrNoMoves reports a position with no legal move; the engine ends such
// games itself, so a policy consulted on one indicates a caller bug.
var ErrNoMoves = errors.New("no legal moves")

// Policy selects a move for the player to act in a given position.
type Policy interface {
	// Name returns the registry name of the policy.
	Name() string
	// ChooseMove returns a pit from engine.LegalMoves(s).
	ChooseMove(s engine.GameState) (int, error)
}

// ForName returns a fresh policy instance. Known names are "random",
// "greedy" and "minimax"; the empty string defaults to greedy.
func ForName(name string) (Policy, error) {
	switch name {
	case "", "greedy":
		return Greedy{}, nil
	case "random":
		return NewRandom(), nil
	case "minimax":
		return NewMinimax(0), nil
	}
	return nil, fmt.Errorf("unknown policy %q (known: %v)", name, Names())
}

// Names lists the registry names accepted by ForName.
func Names() []string {
	return []string{"random", "greedy", "minimax"}
}

// Random picks uniformly among legal moves.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a Random policy drawing from the shared generator.
func NewRandom() *Random {
	return &Random{}
}

// NewRandomSeeded returns a deterministic Random policy for tests and
// reproducible self-play runs.
func NewRandomSeeded(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Name implements Policy.
func (r *Random) Name() string { return "random" }

// ChooseMove implements Policy.
func (r *Random) ChooseMove(s engine.GameState) (int, error) {
	moves := engine.LegalMoves(s)
	if len(moves) == 0 {
		return 0, ErrNoMoves
	}
	if r.rng != nil {
		return moves[r.rng.IntN(len(moves))], nil
	}
	return moves[rand.IntN(len(moves))], nil
}

// Greedy plays the move with the largest immediate capture, preferring the
// lowest pit index on ties. Deterministic.
type Greedy struct{}

// Name implements Policy.
func (Greedy) Name() string { return "greedy" }

// ChooseMove implements Policy.
func (Greedy) ChooseMove(s engine.GameState) (int, error) {
	moves := engine.LegalMoves(s)
	if len(moves) == 0 {
		return 0, ErrNoMoves
	}
	best, bestCaptured := moves[0], -1
	for _, pit := range moves {
		_, captured, err := engine.ApplyMove(s, pit)
		if err != nil {
			return 0, fmt.Errorf("evaluating pit %d: %w", pit, err)
		}
		if captured > bestCaptured {
			best, bestCaptured = pit, captured
		}
	}
	return best, nil
}

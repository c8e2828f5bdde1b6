package engine

import "errors"

// Board geometry and rule thresholds. Awale rules are fixed; none of these
// are configurable at runtime.
const (
	// PitCount is the number of pits on the board.
	PitCount = 12
	// RowSize is the number of pits in each player's row.
	RowSize = 6
	// SeedsPerPit is the opening seed count of every pit.
	SeedsPerPit = 4
	// TotalSeeds is the number of seeds in play; the sum of board seeds and
	// captured seeds equals TotalSeeds after every operation.
	TotalSeeds = PitCount * SeedsPerPit

	// WinThreshold ends the game as soon as the mover's captured total
	// reaches it.
	WinThreshold = 25
	// EndgameSeedLimit ends the game when the whole board holds this many
	// seeds or fewer after a move.
	EndgameSeedLimit = 6

	captureMin = 2
	captureMax = 3
)

// Player identifies a side of the board.
type Player string

const (
	// PlayerA owns the south row, pits 0-5, and moves first in a fresh game.
	PlayerA Player = "A"
	// PlayerB owns the north row, pits 6-11.
	PlayerB Player = "B"
)

// WinnerDraw is the GameState.Winner value for a tied final score.
const WinnerDraw = "draw"

// Sentinel errors returned by ApplyMove.
var (
	// ErrBadPit reports a pit index outside [0, PitCount).
	ErrBadPit = errors.New("pit index out of range")
	// ErrGameEnded reports a move attempted on a finished game.
	ErrGameEnded = errors.New("game already ended")
	// ErrIllegalMove reports a pit the current player may not sow from.
	ErrIllegalMove = errors.New("illegal move")
)

// Opponent returns the other side.
func (p Player) Opponent() Player {
	if p == PlayerA {
		return PlayerB
	}
	return PlayerA
}

// Valid reports whether p names one of the two sides.
func (p Player) Valid() bool {
	return p == PlayerA || p == PlayerB
}

// Captured holds the seeds each side has banked.
type Captured struct {
	A int `json:"A"`
	B int `json:"B"`
}

// GameState is a complete description of an Awale position.
//
// GameState is a value type: assignment copies it, rule functions return
// fresh values, and a state handed to ApplyMove is never modified. Version
// increases by exactly one per applied move, which lets callers detect
// stale snapshots.
type GameState struct {
	Pits          [PitCount]int `json:"pits"`
	CurrentPlayer Player        `json:"currentPlayer"`
	Captured      Captured      `json:"captured"`
	Ended         bool          `json:"ended"`
	Winner        string        `json:"winner,omitempty"`
	TurnCount     int           `json:"turnCount"`
	Version       int           `json:"version"`
}

// Owner returns the side that owns pit. The caller must pass a pit inside
// the board.
func Owner(pit int) Player {
	if pit < RowSize {
		return PlayerA
	}
	return PlayerB
}

// rowRange returns the half-open pit interval [lo, hi) owned by p.
func rowRange(p Player) (lo, hi int) {
	if p == PlayerA {
		return 0, RowSize
	}
	return RowSize, PitCount
}

// RowSeeds returns the number of seeds currently in p's row.
func (s GameState) RowSeeds(p Player) int {
	lo, hi := rowRange(p)
	total := 0
	for pit := lo; pit < hi; pit++ {
		total += s.Pits[pit]
	}
	return total
}

// BoardSeeds returns the number of seeds still on the board.
func (s GameState) BoardSeeds() int {
	total := 0
	for _, n := range s.Pits {
		total += n
	}
	return total
}

// CapturedBy returns the seeds captured by p.
func (s GameState) CapturedBy(p Player) int {
	if p == PlayerA {
		return s.Captured.A
	}
	return s.Captured.B
}

// addCaptured banks n seeds for p.
func (s *GameState) addCaptured(p Player, n int) {
	if p == PlayerA {
		s.Captured.A += n
	} else {
		s.Captured.B += n
	}
}

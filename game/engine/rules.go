package engine

import "fmt"

// NewGameState returns the opening position: four seeds in every pit,
// nothing captured, player A to move, version zero.
func NewGameState() GameState {
	var s GameState
	for i := range s.Pits {
		s.Pits[i] = SeedsPerPit
	}
	s.CurrentPlayer = PlayerA
	return s
}

// LegalMoves returns the pits the current player may sow from, in ascending
// pit order. A pit qualifies when it belongs to the current player and holds
// at least one seed; if the opponent's row is empty, only pits whose sowing
// delivers at least one seed into that row qualify. An empty result on a
// live position means the game is over; ApplyMove never produces such a
// position, it sweeps the board instead.
func LegalMoves(s GameState) []int {
	if s.Ended {
		return nil
	}
	mover := s.CurrentPlayer
	mustFeed := s.RowSeeds(mover.Opponent()) == 0
	lo, hi := rowRange(mover)
	moves := make([]int, 0, RowSize)
	for pit := lo; pit < hi; pit++ {
		if s.Pits[pit] == 0 {
			continue
		}
		if mustFeed && !feedsOpponent(s, pit) {
			continue
		}
		moves = append(moves, pit)
	}
	return moves
}

// ApplyMove sows pit for the current player and returns the successor state
// along with the number of seeds the move captured. The input state is left
// untouched.
//
// Errors: ErrBadPit when pit is outside the board, ErrGameEnded when the
// game is over, ErrIllegalMove when the pit is not in LegalMoves (wrong row,
// empty pit, or a feeding-rule violation).
func ApplyMove(s GameState, pit int) (GameState, int, error) {
	if pit < 0 || pit >= PitCount {
		return s, 0, fmt.Errorf("%w: %d", ErrBadPit, pit)
	}
	if s.Ended {
		return s, 0, ErrGameEnded
	}
	if !isLegal(s, pit) {
		return s, 0, fmt.Errorf("%w: pit %d for player %s", ErrIllegalMove, pit, s.CurrentPlayer)
	}

	mover := s.CurrentPlayer
	next, last := sow(s, pit)
	next, captured := captureChain(next, mover, last)
	if captured > 0 {
		next.addCaptured(mover, captured)
	}
	next.TurnCount++
	next.Version++

	// Endgame checks, in order. Switching the turn only happens when the
	// first two conditions do not hold.
	switch {
	case next.CapturedBy(mover) >= WinThreshold:
		next = sweep(next)
	case next.BoardSeeds() <= EndgameSeedLimit:
		next = sweep(next)
	default:
		next.CurrentPlayer = mover.Opponent()
		if len(LegalMoves(next)) == 0 {
			next = sweep(next)
		}
	}
	return next, captured, nil
}

// isLegal reports whether pit is in LegalMoves(s), without allocating.
func isLegal(s GameState, pit int) bool {
	if Owner(pit) != s.CurrentPlayer || s.Pits[pit] == 0 {
		return false
	}
	if s.RowSeeds(s.CurrentPlayer.Opponent()) == 0 && !feedsOpponent(s, pit) {
		return false
	}
	return true
}

// nextPit advances one pit counter-clockwise, skipping the sowing origin.
func nextPit(j, origin int) int {
	j = (j + 1) % PitCount
	if j == origin {
		j = (j + 1) % PitCount
	}
	return j
}

// feedsOpponent reports whether sowing from pit would drop at least one
// seed into the opposing row.
func feedsOpponent(s GameState, pit int) bool {
	owner := Owner(pit)
	j := pit
	for seeds := s.Pits[pit]; seeds > 0; seeds-- {
		j = nextPit(j, pit)
		if Owner(j) != owner {
			return true
		}
	}
	return false
}

// sow lifts every seed from origin and drops one per subsequent pit
// counter-clockwise, skipping the origin on every lap. It returns the new
// state and the index of the pit that received the last seed.
func sow(s GameState, origin int) (GameState, int) {
	seeds := s.Pits[origin]
	s.Pits[origin] = 0
	j := origin
	for ; seeds > 0; seeds-- {
		j = nextPit(j, origin)
		s.Pits[j]++
	}
	return s, j
}

// captureChain resolves captures after a sow whose last seed landed in pit
// last. A capture happens when that pit is in the opponent's row and now
// holds two or three seeds; the chain then extends backward through
// contiguous opponent pits holding two or three, stopping at the first pit
// that fails either test. Captured pits are emptied; the count is returned
// for the caller to bank.
func captureChain(s GameState, mover Player, last int) (GameState, int) {
	captured := 0
	j := last
	for Owner(j) != mover && s.Pits[j] >= captureMin && s.Pits[j] <= captureMax {
		captured += s.Pits[j]
		s.Pits[j] = 0
		j = (j + PitCount - 1) % PitCount
	}
	return s, captured
}

// sweep ends the game: every seed still on the board is banked by its row
// owner, the board is zeroed, and the winner is the higher captured total,
// with equal totals declared a draw.
func sweep(s GameState) GameState {
	for pit, n := range s.Pits {
		if n == 0 {
			continue
		}
		s.addCaptured(Owner(pit), n)
		s.Pits[pit] = 0
	}
	s.Ended = true
	switch {
	case s.Captured.A > s.Captured.B:
		s.Winner = string(PlayerA)
	case s.Captured.B > s.Captured.A:
		s.Winner = string(PlayerB)
	default:
		s.Winner = WinnerDraw
	}
	return s
}

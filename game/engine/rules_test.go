package engine

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"
)

func TestNewGameState(t *testing.T) {
	s := NewGameState()

	for pit, n := range s.Pits {
		if n != SeedsPerPit {
			t.Errorf("Expected %d seeds in pit %d, got %d", SeedsPerPit, pit, n)
		}
	}
	if s.CurrentPlayer != PlayerA {
		t.Errorf("Expected player A to move first, got %s", s.CurrentPlayer)
	}
	if s.Captured.A != 0 || s.Captured.B != 0 {
		t.Errorf("Expected no captures, got %d/%d", s.Captured.A, s.Captured.B)
	}
	if s.Ended {
		t.Error("Expected a fresh game to be live")
	}
	if s.Version != 0 || s.TurnCount != 0 {
		t.Errorf("Expected version and turn count 0, got %d and %d", s.Version, s.TurnCount)
	}
	if s.BoardSeeds() != TotalSeeds {
		t.Errorf("Expected %d seeds on the board, got %d", TotalSeeds, s.BoardSeeds())
	}
}

func TestOwnerAndOpponent(t *testing.T) {
	for pit := 0; pit < RowSize; pit++ {
		if Owner(pit) != PlayerA {
			t.Errorf("Expected pit %d to belong to A, got %s", pit, Owner(pit))
		}
	}
	for pit := RowSize; pit < PitCount; pit++ {
		if Owner(pit) != PlayerB {
			t.Errorf("Expected pit %d to belong to B, got %s", pit, Owner(pit))
		}
	}
	if PlayerA.Opponent() != PlayerB || PlayerB.Opponent() != PlayerA {
		t.Error("Expected Opponent to swap sides")
	}
}

func TestLegalMoves(t *testing.T) {
	t.Run("opening position", func(t *testing.T) {
		moves := LegalMoves(NewGameState())
		expected := []int{0, 1, 2, 3, 4, 5}
		if !reflect.DeepEqual(moves, expected) {
			t.Errorf("Expected %v, got %v", expected, moves)
		}
	})

	t.Run("B to move", func(t *testing.T) {
		s := NewGameState()
		s.CurrentPlayer = PlayerB
		moves := LegalMoves(s)
		expected := []int{6, 7, 8, 9, 10, 11}
		if !reflect.DeepEqual(moves, expected) {
			t.Errorf("Expected %v, got %v", expected, moves)
		}
	})

	t.Run("empty pits excluded", func(t *testing.T) {
		s := NewGameState()
		s.Pits[1] = 0
		s.Pits[4] = 0
		moves := LegalMoves(s)
		expected := []int{0, 2, 3, 5}
		if !reflect.DeepEqual(moves, expected) {
			t.Errorf("Expected %v, got %v", expected, moves)
		}
	})

	t.Run("feeding rule filters non-reaching pits", func(t *testing.T) {
		s := GameState{CurrentPlayer: PlayerA}
		s.Pits = [PitCount]int{1, 0, 0, 0, 2, 3, 0, 0, 0, 0, 0, 0}
		moves := LegalMoves(s)
		// Pit 0 sows only to pit 1; pits 4 and 5 reach B's row.
		expected := []int{4, 5}
		if !reflect.DeepEqual(moves, expected) {
			t.Errorf("Expected %v, got %v", expected, moves)
		}
	})

	t.Run("no feeding move possible", func(t *testing.T) {
		s := GameState{CurrentPlayer: PlayerA}
		s.Pits = [PitCount]int{1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
		if moves := LegalMoves(s); len(moves) != 0 {
			t.Errorf("Expected no legal moves, got %v", moves)
		}
	})

	t.Run("ended game has no moves", func(t *testing.T) {
		s := NewGameState()
		s.Ended = true
		if moves := LegalMoves(s); moves != nil {
			t.Errorf("Expected nil, got %v", moves)
		}
	})
}

func TestApplyMoveSowing(t *testing.T) {
	s := NewGameState()
	next, captured, err := ApplyMove(s, 0)
	if err != nil {
		t.Fatalf("Failed to apply move: %v", err)
	}
	if captured != 0 {
		t.Errorf("Expected no capture, got %d", captured)
	}
	if next.Pits[0] != 0 {
		t.Errorf("Expected origin pit emptied, got %d", next.Pits[0])
	}
	for pit := 1; pit <= 4; pit++ {
		if next.Pits[pit] != SeedsPerPit+1 {
			t.Errorf("Expected pit %d to hold %d, got %d", pit, SeedsPerPit+1, next.Pits[pit])
		}
	}
	if next.CurrentPlayer != PlayerB {
		t.Errorf("Expected turn to pass to B, got %s", next.CurrentPlayer)
	}
	if next.Version != 1 || next.TurnCount != 1 {
		t.Errorf("Expected version and turn count 1, got %d and %d", next.Version, next.TurnCount)
	}
}

func TestSowingSkipsOrigin(t *testing.T) {
	s := GameState{CurrentPlayer: PlayerA}
	s.Pits = [PitCount]int{13, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1}

	next, _, err := ApplyMove(s, 0)
	if err != nil {
		t.Fatalf("Failed to apply move: %v", err)
	}
	if next.Pits[0] != 0 {
		t.Errorf("Expected origin to stay empty after a full lap, got %d", next.Pits[0])
	}
	// 13 seeds cover pits 1-11 once, then skip pit 0 and land in 1 and 2.
	if next.Pits[1] != 2 {
		t.Errorf("Expected pit 1 to hold 2, got %d", next.Pits[1])
	}
	if next.Pits[2] != 2 {
		t.Errorf("Expected pit 2 to hold 2, got %d", next.Pits[2])
	}
}

func TestCaptureChain(t *testing.T) {
	s := GameState{CurrentPlayer: PlayerA}
	s.Pits = [PitCount]int{0, 0, 6, 0, 0, 0, 1, 1, 1, 1, 1, 1}

	next, captured, err := ApplyMove(s, 2)
	if err != nil {
		t.Fatalf("Failed to apply move: %v", err)
	}
	// The last seed lands in pit 8 making it 2, and the chain walks back
	// through pits 7 and 6, also at 2, stopping at A's row.
	if captured != 6 {
		t.Errorf("Expected 6 captured seeds, got %d", captured)
	}
	// Six seeds remain on the board afterwards, so the game ends by the
	// low-seed rule and both rows are swept to their owners.
	if !next.Ended {
		t.Error("Expected the game to end once six seeds remain")
	}
	if next.Captured.A != 9 {
		t.Errorf("Expected A to finish with 9, got %d", next.Captured.A)
	}
	if next.Captured.B != 3 {
		t.Errorf("Expected B to finish with 3, got %d", next.Captured.B)
	}
	if next.Winner != string(PlayerA) {
		t.Errorf("Expected A to win, got %q", next.Winner)
	}
	if next.BoardSeeds() != 0 {
		t.Errorf("Expected a swept board, got %d seeds", next.BoardSeeds())
	}
}

func TestCaptureStopsAtNonQualifyingPit(t *testing.T) {
	s := GameState{CurrentPlayer: PlayerA}
	s.Pits = [PitCount]int{0, 0, 0, 0, 0, 5, 4, 4, 1, 2, 4, 4}

	// Pit 5 sows 5 seeds into 6..10; pit 10 becomes 5, no capture there,
	// so nothing at all is captured despite pit 9 reaching 3.
	next, captured, err := ApplyMove(s, 5)
	if err != nil {
		t.Fatalf("Failed to apply move: %v", err)
	}
	if captured != 0 {
		t.Errorf("Expected no capture, got %d", captured)
	}
	if next.Pits[9] != 3 {
		t.Errorf("Expected pit 9 untouched at 3, got %d", next.Pits[9])
	}
}

func TestCaptureNeverTakesOwnRow(t *testing.T) {
	s := GameState{CurrentPlayer: PlayerA}
	s.Pits = [PitCount]int{0, 1, 0, 0, 0, 0, 4, 4, 4, 4, 4, 4}

	// The single seed lands in A's own pit 2 making it 1; even if it held
	// 2 or 3 nothing may be captured from the mover's row.
	next, captured, err := ApplyMove(s, 1)
	if err != nil {
		t.Fatalf("Failed to apply move: %v", err)
	}
	if captured != 0 {
		t.Errorf("Expected no capture in own row, got %d", captured)
	}
	if next.Pits[2] != 1 {
		t.Errorf("Expected pit 2 to hold 1, got %d", next.Pits[2])
	}
}

func TestEndgameByWinThreshold(t *testing.T) {
	s := GameState{CurrentPlayer: PlayerA}
	s.Pits = [PitCount]int{0, 0, 0, 0, 0, 1, 1, 4, 4, 4, 0, 0}
	s.Captured = Captured{A: 24, B: 10}

	next, captured, err := ApplyMove(s, 5)
	if err != nil {
		t.Fatalf("Failed to apply move: %v", err)
	}
	if captured != 2 {
		t.Errorf("Expected 2 captured seeds, got %d", captured)
	}
	if !next.Ended {
		t.Error("Expected the game to end at 25 or more captures")
	}
	if next.Captured.A != 26 {
		t.Errorf("Expected A to finish with 26, got %d", next.Captured.A)
	}
	// B banks its remaining row in the sweep.
	if next.Captured.B != 22 {
		t.Errorf("Expected B to finish with 22, got %d", next.Captured.B)
	}
	if next.Winner != string(PlayerA) {
		t.Errorf("Expected A to win, got %q", next.Winner)
	}
}

func TestEndgameWhenOpponentStarved(t *testing.T) {
	s := GameState{CurrentPlayer: PlayerA}
	s.Pits = [PitCount]int{4, 4, 4, 4, 4, 2, 2, 2, 0, 0, 0, 0}

	// Pit 5 sows into 6 and 7, capturing both and emptying B's entire row
	// while more than six seeds remain, so B has no reply and the rest of
	// the board sweeps to A.
	next, captured, err := ApplyMove(s, 5)
	if err != nil {
		t.Fatalf("Failed to apply move: %v", err)
	}
	if captured != 6 {
		t.Errorf("Expected 6 captured seeds, got %d", captured)
	}
	if !next.Ended {
		t.Error("Expected the game to end when the next player has no move")
	}
	if next.Captured.A != 26 || next.Captured.B != 0 {
		t.Errorf("Expected final score 26-0, got %d-%d", next.Captured.A, next.Captured.B)
	}
	if next.Winner != string(PlayerA) {
		t.Errorf("Expected A to win, got %q", next.Winner)
	}
}

func TestEndgameDraw(t *testing.T) {
	s := GameState{CurrentPlayer: PlayerA}
	s.Pits = [PitCount]int{0, 0, 0, 1, 1, 2, 2, 2, 0, 0, 0, 0}
	s.Captured = Captured{A: 16, B: 24}

	// Pit 5 captures pits 7 and 6 for six seeds, leaving two board seeds;
	// the sweep hands those to A and both sides finish on 24.
	next, captured, err := ApplyMove(s, 5)
	if err != nil {
		t.Fatalf("Failed to apply move: %v", err)
	}
	if captured != 6 {
		t.Errorf("Expected 6 captured seeds, got %d", captured)
	}
	if !next.Ended {
		t.Error("Expected the game to end")
	}
	if next.Captured.A != 24 || next.Captured.B != 24 {
		t.Errorf("Expected final score 24-24, got %d-%d", next.Captured.A, next.Captured.B)
	}
	if next.Winner != WinnerDraw {
		t.Errorf("Expected a draw, got %q", next.Winner)
	}
}

func TestApplyMoveErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*GameState)
		pit     int
		wantErr error
	}{
		{"pit below range", nil, -1, ErrBadPit},
		{"pit above range", nil, 12, ErrBadPit},
		{"opponent row", nil, 7, ErrIllegalMove},
		{"empty pit", func(s *GameState) { s.Pits[3] = 0 }, 3, ErrIllegalMove},
		{"ended game", func(s *GameState) { s.Ended = true }, 0, ErrGameEnded},
		{
			"feeding rule violation",
			func(s *GameState) {
				s.Pits = [PitCount]int{1, 0, 0, 0, 2, 3, 0, 0, 0, 0, 0, 0}
			},
			0,
			ErrIllegalMove,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewGameState()
			if tt.mutate != nil {
				tt.mutate(&s)
			}
			_, _, err := ApplyMove(s, tt.pit)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestApplyMoveDoesNotMutateInput(t *testing.T) {
	s := NewGameState()
	before := s

	if _, _, err := ApplyMove(s, 2); err != nil {
		t.Fatalf("Failed to apply move: %v", err)
	}
	if !reflect.DeepEqual(s, before) {
		t.Errorf("Expected input state unchanged, got %+v", s)
	}
}

func TestApplyMoveDeterministic(t *testing.T) {
	s := GameState{CurrentPlayer: PlayerA}
	s.Pits = [PitCount]int{0, 0, 6, 0, 0, 0, 1, 1, 1, 1, 1, 1}

	first, c1, err1 := ApplyMove(s, 2)
	second, c2, err2 := ApplyMove(s, 2)
	if err1 != nil || err2 != nil {
		t.Fatalf("Failed to apply move: %v / %v", err1, err2)
	}
	if c1 != c2 || !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical results, got %+v/%d and %+v/%d", first, c1, second, c2)
	}
}

func TestRandomPlayoutInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))

	for game := 0; game < 25; game++ {
		s := NewGameState()
		for move := 0; !s.Ended; move++ {
			if move > 400 {
				t.Fatalf("Game %d did not finish within 400 moves", game)
			}
			moves := LegalMoves(s)
			if len(moves) == 0 {
				t.Fatalf("Game %d reached a live position with no moves: %+v", game, s)
			}
			next, _, err := ApplyMove(s, moves[rng.IntN(len(moves))])
			if err != nil {
				t.Fatalf("Failed to apply legal move: %v", err)
			}
			if sum := next.BoardSeeds() + next.Captured.A + next.Captured.B; sum != TotalSeeds {
				t.Fatalf("Expected %d total seeds, got %d after %+v", TotalSeeds, sum, next)
			}
			if next.Version != s.Version+1 {
				t.Fatalf("Expected version %d, got %d", s.Version+1, next.Version)
			}
			s = next
		}
		if s.Winner == "" {
			t.Errorf("Game %d ended without a verdict", game)
		}
		if s.BoardSeeds() != 0 {
			t.Errorf("Game %d ended with %d seeds on the board", game, s.BoardSeeds())
		}
	}
}

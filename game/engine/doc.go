// Package engine implements the Awale (Oware) rules.
//
// The engine package implements the game mechanics including:
//   - The twelve-pit board with two rows of six pits
//   - Sowing with origin-skip on every lap
//   - Backward capture chains through opponent pits holding 2 or 3 seeds
//   - The feeding rule when the opponent's row is empty
//   - End-of-game detection and territory sweeps
//
// Core Types:
//
// GameState is a value type describing a complete position: pit contents,
// the player to move, captured totals, and the end-of-game verdict. All
// operations are pure functions over GameState; none of them mutate their
// input, perform I/O, read the clock, or draw randomness.
//
// Usage:
//
//	state := engine.NewGameState()
//	moves := engine.LegalMoves(state)
//
//	next, captured, err := engine.ApplyMove(state, moves[0])
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(engine.FormatBoard(next), captured)
//
// Game Rules:
//
// Player A owns pits 0-5 (south row), player B owns pits 6-11 (north row),
// and each pit starts with four seeds. A move lifts every seed from one of
// the mover's pits and sows them counter-clockwise, one per pit, always
// skipping the origin pit. If the last seed lands in an opponent pit that
// now holds two or three seeds, that pit is captured together with every
// contiguous preceding opponent pit holding two or three. A player whose
// opponent's row is empty may only play moves that feed it. The game ends
// when a player has captured 25 or more seeds, when six or fewer seeds
// remain on the board, or when the player to move has no legal move; any
// seeds still on the board then go to their row's owner and the higher
// captured total wins.
package engine

// Package ai provides move-selection policies for single-player Awale games
// and scripted self-play.
//
// The ai package implements:
//   - Random: uniform choice over legal moves, optionally seeded
//   - Greedy: largest immediate capture, lowest pit on ties
//   - Minimax: fixed-depth negamax over the pure engine
//
// Core Types:
//
// Policy is the contract consumed by vs-AI game sessions and the self-play
// analyzer. Policies are pure consumers of engine.GameState: they never
// mutate positions and hold no game state of their own, so a fresh instance
// per session is cheap. ForName builds instances from their registry names.
//
// Usage:
//
//	policy, err := ai.ForName("minimax")
//	if err != nil {
//		log.Fatal(err)
//	}
//	pit, err := policy.ChooseMove(state)
package ai

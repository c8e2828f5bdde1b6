// Package session manages authoritative Awale game sessions.
//
// The session package implements:
//   - The per-game state machine: awaiting-guest, active, ended
//   - Seat management with reconnection by persistent player id
//   - Turn enforcement, move application and ordered broadcasting
//   - A registry with short join codes, reaping sweeps and counters
//   - JSON file persistence so live games survive a restart
//
// Core Types:
//
// Game is one session. Every operation takes the session mutex, so exactly
// one move is in flight per game and broadcasts leave in a deterministic
// order: moveApplied always precedes the state it produced, and
// gameStarting precedes the first state. Seats hold a connection variant
// that is either connected with a live transport handle or disconnected
// with a last-seen timestamp; a disconnect is a normal state, not an error,
// and the game stays available for reconnection until reaped.
//
// Registry owns the id space and the lifecycle sweeps. Reaping removes a
// game once every human seat has been disconnected longer than the
// configured timeout, or unconditionally past the maximum age.
//
// Concurrency:
//
// Registry uses an RWMutex around its map; each Game carries its own mutex.
// Transport handles must never block: Game sends through the non-blocking
// Conn interface while holding its lock.
package session

// Package lobby manages the pre-game space of connected, unpaired players.
//
// The lobby package implements:
//   - A presence roster keyed by persistent player id
//   - Status management: available, busy, away, in-game
//   - A bounded lobby-wide chat ring
//   - Invitations with expiry that hand off into game sessions
//   - Idle-entry and stale-invitation sweeps
//
// Invitations:
//
// Inviting someone moves the inviter to away, which also bounds every
// player to one outstanding invitation: a second invite is rejected with
// PLAYER_BUSY until the first resolves. Accepting creates the game session
// directly in the active state through the session registry; both players
// are marked in-game and receive the game start over their lobby
// connections. Declining or expiry returns the inviter to available.
//
// Concurrency:
//
// One mutex guards the roster, the chat ring and the invitation table.
// Broadcasts go through the non-blocking session.Conn interface while the
// lock is held, mirroring the session package's discipline.
package lobby

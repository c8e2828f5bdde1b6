// Package telemetry delivers fire-and-forget event notifications about game
// and lobby activity.
//
// Sinks are observers only: nothing they do feeds back into game logic, and
// implementations must return without blocking, because events are emitted
// while session and lobby locks are held. The zero-configuration Nop sink is
// the default; Log prints one line per event.
package telemetry

import (
	"log"
	"time"
)

// Event types emitted by the server.
const (
	EventGameCreated        = "game_created"
	EventGameStarted        = "game_started"
	EventMoveApplied        = "move_applied"
	EventGameEnded          = "game_ended"
	EventGameReaped         = "game_reaped"
	EventLobbyJoined        = "lobby_joined"
	EventLobbyLeft          = "lobby_left"
	EventChatMessage        = "chat_message"
	EventInvitationSent     = "invitation_sent"
	EventInvitationAccepted = "invitation_accepted"
	EventInvitationDeclined = "invitation_declined"
	EventInvitationExpired  = "invitation_expired"
)

// Event is one notification.
type Event struct {
	Type     string
	GameID   string
	PlayerID string
	At       time.Time
	Fields   map[string]any
}

// Sink receives events. Implementations must not block.
type Sink interface {
	Emit(Event)
}

// Nop discards every event.
type Nop struct{}

// Emit implements Sink.
func (Nop) Emit(Event) {}

// Log prints every event on one line.
type Log struct{}

// Emit implements Sink.
func (Log) Emit(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	if len(e.Fields) > 0 {
		log.Printf("[TELEMETRY] %s game=%s player=%s fields=%v", e.Type, e.GameID, e.PlayerID, e.Fields)
		return
	}
	log.Printf("[TELEMETRY] %s game=%s player=%s", e.Type, e.GameID, e.PlayerID)
}

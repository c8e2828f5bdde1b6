package protocol

import (
	"time"

	"github.com/kayasax/Awale-sub000/game/engine"
)

// Client-to-server message kinds.
const (
	TypeCreate = "create"
	TypeJoin   = "join"
	TypeMove   = "move"
	TypeResign = "resign"
	TypePing   = "ping"

	TypeLobbyJoin          = "lobby.join"
	TypeLobbyLeave         = "lobby.leave"
	TypeLobbyChat          = "lobby.chat"
	TypeLobbyInvite        = "lobby.invite"
	TypeLobbyAcceptInvite  = "lobby.acceptInvite"
	TypeLobbyDeclineInvite = "lobby.declineInvite"
	TypeLobbyStatus        = "lobby.status"
)

// Server-to-client message kinds.
const (
	TypeCreated      = "created"
	TypeJoined       = "joined"
	TypeGameStarting = "gameStarting"
	TypeState        = "state"
	TypeMoveApplied  = "moveApplied"
	TypeGameEnded    = "gameEnded"
	TypeError        = "error"
	TypePong         = "pong"

	TypeLobbySnapshot           = "lobby.snapshot"
	TypeLobbyPlayerJoined       = "lobby.playerJoined"
	TypeLobbyPlayerLeft         = "lobby.playerLeft"
	TypeLobbyPlayerStatus       = "lobby.playerStatus"
	TypeLobbyChatMessage        = "lobby.chatMessage"
	TypeLobbyInvitation         = "lobby.invitation"
	TypeLobbyInvitationResponse = "lobby.invitationResponse"
)

// Lobby presence statuses. Clients may set the first three; InGame is
// managed by the server while a player sits in a live session.
const (
	StatusAvailable = "available"
	StatusBusy      = "busy"
	StatusAway      = "away"
	StatusInGame    = "in-game"
)

// ValidUserStatus reports whether clients may request the status themselves.
func ValidUserStatus(s string) bool {
	return s == StatusAvailable || s == StatusBusy || s == StatusAway
}

// Game end reasons.
const (
	ReasonVictory     = "victory"
	ReasonResignation = "resignation"
)

// ClientMessage is the envelope for everything a client sends. Type selects
// the kind; the other fields are kind-specific and omitted when unused. Pit
// is a pointer so that pit 0 is distinguishable from an absent field.
type ClientMessage struct {
	Type     string `json:"type"`
	GameID   string `json:"gameId,omitempty"`
	Pit      *int   `json:"pit,omitempty"`
	Name     string `json:"name,omitempty"`
	PlayerID string `json:"playerId,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Status   string `json:"status,omitempty"`
	Message  string `json:"message,omitempty"`
	TargetID string `json:"targetId,omitempty"`
	InviteID string `json:"inviteId,omitempty"`
	VsAI     bool   `json:"vsAi,omitempty"`
	AIPolicy string `json:"aiPolicy,omitempty"`
	TS       int64  `json:"ts,omitempty"`
}

// ServerMessage is the envelope for everything the server sends.
type ServerMessage struct {
	Type          string              `json:"type"`
	GameID        string              `json:"gameId,omitempty"`
	PlayerToken   string              `json:"playerToken,omitempty"`
	Role          string              `json:"role,omitempty"`
	YouAre        string              `json:"youAre,omitempty"`
	Opponent      string              `json:"opponent,omitempty"`
	CurrentPlayer string              `json:"currentPlayer,omitempty"`
	Seq           int                 `json:"seq,omitempty"`
	Pit           *int                `json:"pit,omitempty"`
	Player        string              `json:"player,omitempty"`
	Version       int                 `json:"version,omitempty"`
	Captured      int                 `json:"captured,omitempty"`
	State         *engine.GameState   `json:"state,omitempty"`
	Winner        string              `json:"winner,omitempty"`
	Reason        string              `json:"reason,omitempty"`
	Code          string              `json:"code,omitempty"`
	Message       string              `json:"message,omitempty"`
	Latency       int64               `json:"latency,omitempty"`
	PlayerID      string              `json:"playerId,omitempty"`
	Status        string              `json:"status,omitempty"`
	Entry         *LobbyPlayer        `json:"entry,omitempty"`
	Players       []LobbyPlayer       `json:"players,omitempty"`
	Messages      []ChatMessage       `json:"messages,omitempty"`
	Chat          *ChatMessage        `json:"chat,omitempty"`
	Invite        *Invitation         `json:"invite,omitempty"`
	Response      *InvitationResponse `json:"response,omitempty"`
}

// LobbyPlayer is one roster entry in the lobby.
type LobbyPlayer struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	Status   string `json:"status"`
	GameID   string `json:"gameId,omitempty"`
}

// ChatMessage is one lobby chat line.
type ChatMessage struct {
	ID       string    `json:"id"`
	PlayerID string    `json:"playerId"`
	Name     string    `json:"name"`
	Text     string    `json:"text"`
	SentAt   time.Time `json:"sentAt"`
}

// Invitation is a pending game invitation delivered to its target.
type Invitation struct {
	ID        string    `json:"id"`
	FromID    string    `json:"fromId"`
	FromName  string    `json:"fromName"`
	ToID      string    `json:"toId"`
	GameID    string    `json:"gameId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// InvitationResponse reports the outcome of an invitation to its sender.
type InvitationResponse struct {
	ID       string `json:"id"`
	FromID   string `json:"fromId"`
	ToID     string `json:"toId"`
	Accepted bool   `json:"accepted"`
	GameID   string `json:"gameId,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Mutating reports whether a client message kind changes server state and
// is therefore subject to the per-connection rate limit. Pings and unknown
// kinds are exempt; unknown kinds are rejected before any work happens.
func Mutating(kind string) bool {
	switch kind {
	case TypeCreate, TypeJoin, TypeMove, TypeResign,
		TypeLobbyJoin, TypeLobbyLeave, TypeLobbyChat, TypeLobbyInvite,
		TypeLobbyAcceptInvite, TypeLobbyDeclineInvite, TypeLobbyStatus:
		return true
	}
	return false
}

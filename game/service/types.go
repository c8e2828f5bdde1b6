package service

import (
	"time"

	"github.com/kayasax/Awale-sub000/game/engine"
	"github.com/kayasax/Awale-sub000/game/protocol"
	"github.com/kayasax/Awale-sub000/game/session"
)

// GameInfo summarizes one session for listings and lookups.
type GameInfo struct {
	ID             string            `json:"id"`
	Status         string            `json:"status"`
	Host           string            `json:"host"`
	Guest          string            `json:"guest,omitempty"`
	AIPolicy       string            `json:"ai_policy,omitempty"`
	MoveCount      int               `json:"move_count"`
	HostConnected  bool              `json:"host_connected"`
	GuestConnected bool              `json:"guest_connected"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	State          *engine.GameState `json:"state,omitempty"`
}

// CreateOptions configures a new session created over REST or MCP.
type CreateOptions struct {
	Name     string `json:"name"`
	PlayerID string `json:"player_id"`
	VsAI     bool   `json:"vs_ai"`
	AIPolicy string `json:"ai_policy"`
}

// CreateResult hands the creator their seat credentials. PlayerToken
// authenticates later moves and resignations; it is shown only here.
type CreateResult struct {
	GameID      string            `json:"game_id"`
	PlayerToken string            `json:"player_token"`
	PlayerID    string            `json:"player_id"`
	Role        string            `json:"role"`
	YouAre      string            `json:"you_are"`
	Status      string            `json:"status"`
	State       *engine.GameState `json:"state"`
}

// JoinResult hands a joining (or reconnecting) player their seat.
type JoinResult struct {
	GameID      string            `json:"game_id"`
	PlayerToken string            `json:"player_token"`
	PlayerID    string            `json:"player_id"`
	Role        string            `json:"role"`
	YouAre      string            `json:"you_are"`
	Opponent    string            `json:"opponent,omitempty"`
	State       *engine.GameState `json:"state"`
}

// MoveResult reports one applied move plus the state it produced.
type MoveResult struct {
	Seq      int               `json:"seq"`
	Pit      int               `json:"pit"`
	Player   string            `json:"player"`
	Version  int               `json:"version"`
	Captured int               `json:"captured"`
	State    *engine.GameState `json:"state"`
	Ended    bool              `json:"ended"`
	Winner   string            `json:"winner,omitempty"`
}

// StateResult wraps the authoritative state of one session.
type StateResult struct {
	GameID  string            `json:"game_id"`
	Status  string            `json:"status"`
	Version int               `json:"version"`
	State   *engine.GameState `json:"state"`
}

// LegalMovesResult lists the pits the side to move may sow from.
type LegalMovesResult struct {
	GameID        string `json:"game_id"`
	CurrentPlayer string `json:"current_player"`
	Moves         []int  `json:"moves"`
	Ended         bool   `json:"ended"`
}

// HistoryOptions selects a page of a session's move history.
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc", newest first by default
}

// HistoryResponse is one page of move history.
type HistoryResponse struct {
	GameID     string               `json:"game_id"`
	Moves      []session.MoveRecord `json:"moves"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
	TotalMoves int                  `json:"total_moves"`
	Order      string               `json:"order"`
}

// LobbyInfo is a read-only snapshot of the lobby roster and chat.
type LobbyInfo struct {
	Players []protocol.LobbyPlayer `json:"players"`
	Chat    []protocol.ChatMessage `json:"chat"`
	Count   int                    `json:"count"`
}

// HealthInfo reports server liveness counters.
type HealthInfo struct {
	Status       string `json:"status"`
	ActiveGames  int    `json:"active_games"`
	LobbyPlayers int    `json:"lobby_players"`
	Config       string `json:"config"`
}

package service

import (
	"context"

	"github.com/kayasax/Awale-sub000/game/config"
	"github.com/kayasax/Awale-sub000/game/protocol"
	"github.com/kayasax/Awale-sub000/game/session"
)

// GameService defines every operation the REST and MCP surfaces expose. The
// websocket transport talks to the registry and the lobby directly; REST and
// MCP go through this interface and authenticate mutations with the per-seat
// token handed out on create and join.
type GameService interface {
	// Session lifecycle
	CreateGame(ctx context.Context, opts CreateOptions) (*CreateResult, error)
	JoinGame(ctx context.Context, gameID, name, playerID string) (*JoinResult, error)
	GetGame(ctx context.Context, gameID string) (*GameInfo, error)
	ListGames(ctx context.Context, status string) ([]*GameInfo, error)

	// Game play
	GetState(ctx context.Context, gameID string) (*StateResult, error)
	LegalMoves(ctx context.Context, gameID string) (*LegalMovesResult, error)
	Move(ctx context.Context, gameID, playerToken string, pit int) (*MoveResult, error)
	Resign(ctx context.Context, gameID, playerToken string) (*GameInfo, error)
	GetHistory(ctx context.Context, gameID string, opts HistoryOptions) (*HistoryResponse, error)

	// Rendering and surroundings
	RenderBoard(ctx context.Context, gameID string) (string, error)
	LobbySnapshot(ctx context.Context) (*LobbyInfo, error)
	Health(ctx context.Context) *HealthInfo
}

// SessionRegistry is the slice of the session registry the service consumes.
type SessionRegistry interface {
	Create(conn session.Conn, hostName, hostPlayerID string) (*session.Game, error)
	CreateVsAI(conn session.Conn, hostName, hostPlayerID, policyName string) (*session.Game, error)
	Get(id string) (*session.Game, error)
	List() []*session.Game
	Count() int
}

// LobbyDirectory is the slice of the lobby the service consumes.
type LobbyDirectory interface {
	Snapshot() ([]protocol.LobbyPlayer, []protocol.ChatMessage)
	Count() int
}

// ConfigProvider exposes the active tuning profile.
type ConfigProvider interface {
	GetDefault() *config.Tuning
}

// Package service provides the orchestration layer behind the REST API and
// the MCP tools.
//
// The service package implements:
//   - Session creation, joining and listing over stateless transports
//   - Token-authenticated moves and resignations
//   - Paginated move history
//   - Lobby and health snapshots
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game
// operations. SessionRegistry and LobbyDirectory are the slices of the
// session registry and the lobby it consumes; ConfigProvider exposes the
// active tuning profile.
//
// Architecture:
//
// The service layer sits between the HTTP and MCP transports and the
// session registry. The websocket transport bypasses it and talks to the
// registry and lobby directly because it holds live connections; REST and
// MCP calls carry no connection, so seats created through the service start
// disconnected and mutations authenticate with the per-seat token handed
// out on create and join. Errors cross the service boundary carrying their
// protocol codes, which the API maps to HTTP statuses.
//
// Usage:
//
//	registry := session.NewRegistry(persist, sink)
//	lob := lobby.NewLobby(registry, tuning, sink)
//	svc := service.NewGameService(registry, lob, configs)
//
//	created, err := svc.CreateGame(ctx, service.CreateOptions{Name: "Alice"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Play with the returned token
//	result, err := svc.Move(ctx, created.GameID, created.PlayerToken, 2)
package service

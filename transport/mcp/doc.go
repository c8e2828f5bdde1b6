// Package mcp provides the Model Context Protocol surface of the Awale
// server.
//
// The mcp package implements:
//   - An MCP server whose tools proxy to the REST API over HTTP
//   - Tool definitions for creating, inspecting and playing games
//   - Token-authenticated moves and resignations
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_game: Create a game, optionally against an AI policy
//   - list_games: List games with an optional status filter
//   - get_game: Get one game's summary
//   - game_state: Current board, captures and side to move
//   - legal_moves: Pits the side to move may sow from
//   - move: Sow from a pit, authenticated by player_token
//   - resign: Concede the game
//   - move_history: Paginated move history
//   - game_instructions: The complete rules
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: HTTP endpoint for remote MCP integration
//
// Proxy Design:
//
// The client holds no game state. Every tool call becomes a REST request
// against the API server, so MCP agents, websocket players and plain HTTP
// clients all act on the same authoritative sessions. Responses embed the
// fixed-width ASCII board so an agent can read the position without extra
// round trips.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp

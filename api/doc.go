// Package api provides the HTTP surface of the Awale server.
//
// The api package implements:
//   - RESTful endpoints for creating, joining and playing games
//   - A read-only lobby snapshot
//   - WebSocket upgrade handling at /ws
//   - A health endpoint with liveness counters
//
// Endpoints:
//
// Game Lifecycle:
//   - POST /api/games - Create a game (optionally vs an AI policy)
//   - GET /api/games - List games, optional ?status= filter
//   - GET /api/games/{id} - Get one game summary
//   - POST /api/games/{id}/join - Take or reconnect to the guest seat
//
// Game Play:
//   - GET /api/games/{id}/state - Authoritative state snapshot
//   - GET /api/games/{id}/board - Fixed-width ASCII board (text/plain)
//   - GET /api/games/{id}/legal-moves - Pits the side to move may play
//   - GET /api/games/{id}/history - Move history with pagination
//   - POST /api/games/{id}/move - Apply a move
//   - POST /api/games/{id}/resign - Concede the game
//
// Lobby and Liveness:
//   - GET /api/lobby - Roster and recent chat
//   - GET /api/health - Liveness counters
//
// Request/Response Format:
//
// All endpoints accept and return JSON except the board rendering, which is
// plain text. Creation and joining return a player_token; mutations carry it
// back in the request body:
//
//	{
//	  "player_token": "b2f5…",
//	  "pit": 2
//	}
//
// Seats created over REST start without a live connection. The player can
// keep playing over REST with the token, or open /ws and reconnect into the
// seat with the same player_id.
//
// Error Handling:
//
// Errors are returned as JSON carrying the protocol code; the HTTP status
// follows from the code (404 unknown game, 400 malformed input, 409 rule
// conflicts, 429 rate limiting):
//
//	{
//	  "error": "NOT_YOUR_TURN: not your turn",
//	  "code": "NOT_YOUR_TURN"
//	}
package api

// Package websocket provides the real-time transport of the Awale server.
//
// The websocket package implements:
//   - Connection lifecycle: upgrade, read/write pumps, keepalive pings
//   - A hub tracking every connected client
//   - A dispatcher routing the JSON protocol to sessions and the lobby
//   - Per-connection token-bucket rate limiting of mutating messages
//
// Architecture:
//
// Each connection runs a read pump and a write pump. The read pump hands
// every inbound frame to the Dispatcher and waits for it to finish before
// reading the next one, so messages from one connection are processed
// strictly in order, with all broadcasts they trigger completed first.
// Cross-connection serialization comes from the per-session and lobby
// mutexes, never from a global lock.
//
// Message Protocol:
//
// Frames are JSON-encoded protocol.ClientMessage / protocol.ServerMessage
// envelopes. Malformed JSON answers BAD_JSON, unknown kinds answer UNKNOWN,
// and the connection stays open in both cases.
//
// Backpressure:
//
// Client implements session.Conn. Its Send never blocks: outbound messages
// go through a bounded buffer drained by the write pump, and a client that
// lets the buffer fill is closed as a slow consumer rather than stalling a
// game broadcast.
//
// Connection Lifecycle:
//
//  1. Client connects to /ws and is registered with the hub
//  2. create/join/lobby.join binds a persistent player id
//  3. Messages flow; the dispatcher rate-limits mutating kinds
//  4. Disconnection detaches game seats (kept for reconnection) and
//     removes the lobby entry
package websocket

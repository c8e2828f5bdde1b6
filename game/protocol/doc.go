// Package protocol defines the JSON wire protocol between Awale clients and
// the server, shared by the websocket transport, the REST API, and the MCP
// proxy.
//
// The protocol package implements:
//   - The client-to-server message envelope and its message kinds
//   - The server-to-client message envelope and its message kinds
//   - Lobby payload types (roster entries, chat, invitations)
//   - The closed set of error codes and the Error type carrying them
//
// Core Types:
//
// ClientMessage and ServerMessage are flat envelopes with a "type"
// discriminator; unused fields are omitted from the JSON encoding. Error is
// a code-carrying error value: domain packages declare their sentinel
// errors as *protocol.Error so transports can surface the code without
// string matching.
//
// Ordering guarantees are part of the protocol: a moveApplied message is
// always followed by the state it produced, gameStarting always precedes
// the first state, and per-game sequence numbers increase by one per
// applied move.
package protocol

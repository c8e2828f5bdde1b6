package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kayasax/Awale-sub000/game/config"
	"github.com/kayasax/Awale-sub000/game/engine"
	"github.com/kayasax/Awale-sub000/game/lobby"
	"github.com/kayasax/Awale-sub000/game/protocol"
	"github.com/kayasax/Awale-sub000/game/session"
)

// createTestServer wires registry, lobby, hub and dispatcher behind an
// httptest server exposing only the websocket endpoint.
func createTestServer(t *testing.T, cfg *config.Tuning) (*httptest.Server, *session.Registry) {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultTuning()
	}

	registry := session.NewRegistry(nil, nil)
	lob := lobby.NewLobby(registry, cfg, nil)
	registry.OnEnded(lob.SessionEnded)

	hub := NewHub()
	go hub.Run()
	dispatcher := NewDispatcher(registry, lob)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, dispatcher, cfg, w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, registry
}

func dialTestServer(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendMessage(t *testing.T, conn *websocket.Conn, msg protocol.ClientMessage) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
}

// recvMessage reads the next server message within a deadline.
func recvMessage(t *testing.T, conn *websocket.Conn) protocol.ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg protocol.ServerMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	return msg
}

// recvType skips messages until one of the wanted type arrives. An
// unexpected error message fails the test.
func recvType(t *testing.T, conn *websocket.Conn, wantType string) protocol.ServerMessage {
	t.Helper()
	for i := 0; i < 20; i++ {
		msg := recvMessage(t, conn)
		if msg.Type == wantType {
			return msg
		}
		if msg.Type == protocol.TypeError {
			t.Fatalf("Expected %s, got error %s: %s", wantType, msg.Code, msg.Message)
		}
	}
	t.Fatalf("Expected %s within 20 messages", wantType)
	return protocol.ServerMessage{}
}

func intPtr(v int) *int { return &v }

func TestPingPong(t *testing.T) {
	srv, _ := createTestServer(t, nil)
	conn := dialTestServer(t, srv)

	sendMessage(t, conn, protocol.ClientMessage{
		Type: protocol.TypePing,
		TS:   time.Now().UnixMilli(),
	})
	pong := recvType(t, conn, protocol.TypePong)
	if pong.Latency < 0 {
		t.Errorf("Expected nonnegative latency, got %d", pong.Latency)
	}
}

func TestBadJSONKeepsConnection(t *testing.T) {
	srv, _ := createTestServer(t, nil)
	conn := dialTestServer(t, srv)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("WriteMessage failed: %v", err)
	}
	errMsg := recvMessage(t, conn)
	if errMsg.Type != protocol.TypeError || errMsg.Code != protocol.CodeBadJSON {
		t.Fatalf("Expected BAD_JSON error, got %+v", errMsg)
	}

	// Connection must still work.
	sendMessage(t, conn, protocol.ClientMessage{Type: protocol.TypePing})
	recvType(t, conn, protocol.TypePong)
}

func TestUnknownMessageType(t *testing.T) {
	srv, _ := createTestServer(t, nil)
	conn := dialTestServer(t, srv)

	sendMessage(t, conn, protocol.ClientMessage{Type: "teleport"})
	errMsg := recvMessage(t, conn)
	if errMsg.Type != protocol.TypeError || errMsg.Code != protocol.CodeUnknown {
		t.Fatalf("Expected UNKNOWN error, got %+v", errMsg)
	}
}

func TestEndToEndCreateJoinMove(t *testing.T) {
	srv, _ := createTestServer(t, nil)
	host := dialTestServer(t, srv)
	guest := dialTestServer(t, srv)

	sendMessage(t, host, protocol.ClientMessage{
		Type: protocol.TypeCreate, Name: "Alice", PlayerID: "p-host",
	})
	created := recvType(t, host, protocol.TypeCreated)
	if created.GameID == "" || created.PlayerToken == "" {
		t.Fatalf("Expected game id and token, got %+v", created)
	}

	sendMessage(t, guest, protocol.ClientMessage{
		Type: protocol.TypeJoin, GameID: created.GameID, Name: "Bob", PlayerID: "p-guest",
	})
	joined := recvType(t, guest, protocol.TypeJoined)
	if joined.Role != session.RoleGuest {
		t.Errorf("Expected role guest, got %s", joined.Role)
	}

	// Exactly one gameStarting precedes the first state on both sides.
	hostStart := recvType(t, host, protocol.TypeGameStarting)
	guestStart := recvType(t, guest, protocol.TypeGameStarting)
	if hostStart.CurrentPlayer != guestStart.CurrentPlayer {
		t.Fatalf("Starter mismatch: host saw %s, guest saw %s",
			hostStart.CurrentPlayer, guestStart.CurrentPlayer)
	}
	hostState := recvType(t, host, protocol.TypeState)
	recvType(t, guest, protocol.TypeState)
	if hostState.Version != 0 {
		t.Errorf("Expected initial state version 0, got %d", hostState.Version)
	}

	// The side named by the coin flip moves from its own row.
	mover, moverPit := host, 0
	if hostStart.CurrentPlayer == string(engine.PlayerB) {
		mover, moverPit = guest, 6
	}
	sendMessage(t, mover, protocol.ClientMessage{
		Type: protocol.TypeMove, GameID: created.GameID, Pit: intPtr(moverPit),
	})

	for name, conn := range map[string]*websocket.Conn{"host": host, "guest": guest} {
		applied := recvType(t, conn, protocol.TypeMoveApplied)
		if applied.Seq != 1 || applied.Version != 1 {
			t.Errorf("%s: expected seq=1 version=1, got seq=%d version=%d",
				name, applied.Seq, applied.Version)
		}
		state := recvType(t, conn, protocol.TypeState)
		if state.Version != 1 {
			t.Errorf("%s: expected state version 1 after moveApplied, got %d", name, state.Version)
		}
	}
}

func TestOutOfTurnRejected(t *testing.T) {
	srv, _ := createTestServer(t, nil)
	host := dialTestServer(t, srv)
	guest := dialTestServer(t, srv)

	sendMessage(t, host, protocol.ClientMessage{Type: protocol.TypeCreate, Name: "Alice", PlayerID: "p-host"})
	created := recvType(t, host, protocol.TypeCreated)
	sendMessage(t, guest, protocol.ClientMessage{Type: protocol.TypeJoin, GameID: created.GameID, Name: "Bob", PlayerID: "p-guest"})
	start := recvType(t, guest, protocol.TypeGameStarting)
	recvType(t, guest, protocol.TypeState)

	// The side NOT to move submits a pit from its own row.
	waiter, pit := guest, 6
	if start.CurrentPlayer == string(engine.PlayerB) {
		waiter, pit = host, 0
		recvType(t, host, protocol.TypeGameStarting)
		recvType(t, host, protocol.TypeState)
	}
	sendMessage(t, waiter, protocol.ClientMessage{
		Type: protocol.TypeMove, GameID: created.GameID, Pit: intPtr(pit),
	})
	errMsg := recvMessage(t, waiter)
	if errMsg.Type != protocol.TypeError || errMsg.Code != protocol.CodeNotYourTurn {
		t.Fatalf("Expected NOT_YOUR_TURN, got %+v", errMsg)
	}
}

func TestReconnectionOverWebsocket(t *testing.T) {
	srv, registry := createTestServer(t, nil)
	host := dialTestServer(t, srv)
	guest := dialTestServer(t, srv)

	sendMessage(t, host, protocol.ClientMessage{Type: protocol.TypeCreate, Name: "Alice", PlayerID: "p-host"})
	created := recvType(t, host, protocol.TypeCreated)
	sendMessage(t, guest, protocol.ClientMessage{Type: protocol.TypeJoin, GameID: created.GameID, Name: "Bob", PlayerID: "p-guest"})
	recvType(t, guest, protocol.TypeState)

	// Guest drops without a word.
	guest.Close()

	// Session must stay active while the seat waits for reconnection.
	deadline := time.Now().Add(2 * time.Second)
	for {
		g, err := registry.Get(created.GameID)
		if err != nil {
			t.Fatalf("Session disappeared after disconnect: %v", err)
		}
		if !g.Summary().GuestConnected {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Guest seat never marked disconnected")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Rejoin with the same persistent player id.
	guest2 := dialTestServer(t, srv)
	sendMessage(t, guest2, protocol.ClientMessage{Type: protocol.TypeJoin, GameID: created.GameID, Name: "Bob", PlayerID: "p-guest"})
	joined := recvType(t, guest2, protocol.TypeJoined)
	if joined.Role != session.RoleGuest {
		t.Errorf("Expected restored role guest, got %s", joined.Role)
	}
	state := recvType(t, guest2, protocol.TypeState)
	if state.Version != 0 {
		t.Errorf("Expected version unchanged by reconnection, got %d", state.Version)
	}
}

func TestRateLimitExcessOnly(t *testing.T) {
	cfg := config.DefaultTuning()
	cfg.RateLimitCapacity = 3
	cfg.RateLimitRefillMS = 60_000 // no refill within the test

	srv, _ := createTestServer(t, cfg)
	conn := dialTestServer(t, srv)

	sendMessage(t, conn, protocol.ClientMessage{Type: protocol.TypeLobbyJoin, PlayerID: "p1", Name: "Alice"})
	recvType(t, conn, protocol.TypeLobbySnapshot)

	// Two more tokens left, then exhaustion.
	for i := 0; i < 2; i++ {
		sendMessage(t, conn, protocol.ClientMessage{Type: protocol.TypeLobbyChat, Message: "hi"})
		recvType(t, conn, protocol.TypeLobbyChatMessage)
	}
	sendMessage(t, conn, protocol.ClientMessage{Type: protocol.TypeLobbyChat, Message: "one too many"})
	errMsg := recvMessage(t, conn)
	if errMsg.Type != protocol.TypeError || errMsg.Code != protocol.CodeRateLimit {
		t.Fatalf("Expected RATE_LIMIT, got %+v", errMsg)
	}

	// Exempt kinds still pass.
	sendMessage(t, conn, protocol.ClientMessage{Type: protocol.TypePing})
	recvType(t, conn, protocol.TypePong)
}

func TestLobbyInviteFlowOverWebsocket(t *testing.T) {
	srv, _ := createTestServer(t, nil)
	alice := dialTestServer(t, srv)
	bob := dialTestServer(t, srv)

	sendMessage(t, alice, protocol.ClientMessage{Type: protocol.TypeLobbyJoin, PlayerID: "p1", Name: "Alice"})
	recvType(t, alice, protocol.TypeLobbySnapshot)
	sendMessage(t, bob, protocol.ClientMessage{Type: protocol.TypeLobbyJoin, PlayerID: "p2", Name: "Bob"})
	recvType(t, bob, protocol.TypeLobbySnapshot)
	recvType(t, alice, protocol.TypeLobbyPlayerJoined)

	sendMessage(t, alice, protocol.ClientMessage{Type: protocol.TypeLobbyInvite, TargetID: "p2"})
	invitation := recvType(t, bob, protocol.TypeLobbyInvitation)
	if invitation.Invite.FromName != "Alice" {
		t.Errorf("Expected invitation from Alice, got %+v", invitation.Invite)
	}

	sendMessage(t, bob, protocol.ClientMessage{Type: protocol.TypeLobbyAcceptInvite, InviteID: invitation.Invite.ID})

	// Both sides enter the game through their lobby connections.
	for name, conn := range map[string]*websocket.Conn{"alice": alice, "bob": bob} {
		start := recvType(t, conn, protocol.TypeGameStarting)
		if start.GameID == "" {
			t.Errorf("%s: expected game id in gameStarting", name)
		}
		recvType(t, conn, protocol.TypeState)
	}
	response := recvType(t, alice, protocol.TypeLobbyInvitationResponse)
	if !response.Response.Accepted {
		t.Errorf("Expected accepted response, got %+v", response.Response)
	}
}

func TestDisconnectLeavesLobby(t *testing.T) {
	srv, _ := createTestServer(t, nil)
	alice := dialTestServer(t, srv)
	bob := dialTestServer(t, srv)

	sendMessage(t, alice, protocol.ClientMessage{Type: protocol.TypeLobbyJoin, PlayerID: "p1", Name: "Alice"})
	recvType(t, alice, protocol.TypeLobbySnapshot)
	sendMessage(t, bob, protocol.ClientMessage{Type: protocol.TypeLobbyJoin, PlayerID: "p2", Name: "Bob"})
	recvType(t, bob, protocol.TypeLobbySnapshot)
	recvType(t, alice, protocol.TypeLobbyPlayerJoined)

	bob.Close()
	left := recvType(t, alice, protocol.TypeLobbyPlayerLeft)
	if left.PlayerID != "p2" {
		t.Errorf("Expected playerLeft for p2, got %+v", left)
	}
}

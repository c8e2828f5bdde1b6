package lobby

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kayasax/Awale-sub000/game/config"
	"github.com/kayasax/Awale-sub000/game/protocol"
	"github.com/kayasax/Awale-sub000/game/session"
	"github.com/kayasax/Awale-sub000/telemetry"
)

// Sentinel errors carrying their protocol codes.
var (
	ErrNotInLobby         = protocol.NewError(protocol.CodeNotInLobby, "join the lobby first")
	ErrPlayerNotFound     = protocol.NewError(protocol.CodePlayerNotFound, "player not in the lobby")
	ErrPlayerBusy         = protocol.NewError(protocol.CodePlayerBusy, "player is not available")
	ErrInvitationNotFound = protocol.NewError(protocol.CodeInvitationNotFound, "invitation not found or expired")
	ErrNotInvited         = protocol.NewError(protocol.CodeNotInvited, "invitation is addressed to someone else")
	ErrBadStatus          = protocol.NewError(protocol.CodeBadJSON, "status must be available, busy or away")
	ErrEmptyChat          = protocol.NewError(protocol.CodeBadJSON, "chat message is empty")
)

// entry is one roster member.
type entry struct {
	playerID string
	name     string
	avatar   string
	status   string
	gameID   string
	joinedAt time.Time
	lastSeen time.Time
	conn     session.Conn
}

// invitation is one pending game invitation.
type invitation struct {
	id        string
	fromID    string
	toID      string
	gameID    string
	createdAt time.Time
	expiresAt time.Time
}

// Lobby is the presence registry of connected, unpaired players. One mutex
// guards roster, chat and invitations; every operation runs to completion,
// broadcasts included, before the next one starts.
type Lobby struct {
	mu       sync.Mutex
	entries  map[string]*entry
	chat     []protocol.ChatMessage
	invites  map[string]*invitation
	registry *session.Registry
	cfg      *config.Tuning
	sink     telemetry.Sink
}

// NewLobby creates a lobby backed by the given session registry. sink may
// be nil to disable telemetry.
func NewLobby(registry *session.Registry, cfg *config.Tuning, sink telemetry.Sink) *Lobby {
	if sink == nil {
		sink = telemetry.Nop{}
	}
	return &Lobby{
		entries:  make(map[string]*entry),
		invites:  make(map[string]*invitation),
		registry: registry,
		cfg:      cfg,
		sink:     sink,
	}
}

// Join inserts or replaces the roster entry for playerID and returns the
// effective player id (generated when empty). The joiner receives the full
// roster and recent chat; everyone else sees playerJoined. Rejoining never
// duplicates: a stale entry for the same player id is dropped first.
func (l *Lobby) Join(conn session.Conn, playerID, name, avatar string) (string, error) {
	if playerID == "" {
		playerID = uuid.NewString()
	}
	if name == "" {
		name = "Player " + playerID[:min(8, len(playerID))]
	}

	// Resolve any live seat before taking the lobby lock: lock order is
	// game mutex before lobby mutex, never the reverse.
	liveGameID, inGame := l.liveGameFor(playerID)

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	e := &entry{
		playerID: playerID,
		name:     name,
		avatar:   avatar,
		status:   protocol.StatusAvailable,
		joinedAt: now,
		lastSeen: now,
		conn:     conn,
	}
	if prev, exists := l.entries[playerID]; exists {
		e.joinedAt = prev.joinedAt
	}

	// A player already seated in a live game rejoins as in-game.
	if inGame {
		e.status = protocol.StatusInGame
		e.gameID = liveGameID
	}
	l.entries[playerID] = e

	l.sendTo(e, protocol.ServerMessage{
		Type:     protocol.TypeLobbySnapshot,
		Players:  l.rosterLocked(),
		Messages: l.chatLocked(),
	})
	l.broadcastExcept(playerID, protocol.ServerMessage{
		Type:  protocol.TypeLobbyPlayerJoined,
		Entry: l.playerLocked(e),
	})

	log.Printf("[LOBBY] join player=%s name=%q status=%s", playerID, name, e.status)
	l.emit(telemetry.EventLobbyJoined, playerID, nil)
	return playerID, nil
}

// Leave removes the player from the roster, cancels invitations that
// involve them, and tells everyone else.
func (l *Lobby) Leave(playerID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.leaveLocked(playerID)
}

// LeaveByConn removes whichever entry is bound to connID, used when a
// transport connection closes without an explicit lobby.leave.
func (l *Lobby) LeaveByConn(connID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, e := range l.entries {
		if e.conn != nil && e.conn.ID() == connID {
			l.leaveLocked(id)
			return
		}
	}
}

func (l *Lobby) leaveLocked(playerID string) {
	if _, exists := l.entries[playerID]; !exists {
		return
	}
	l.cancelInvitesLocked(playerID, "player left")
	delete(l.entries, playerID)

	l.broadcastLocked(protocol.ServerMessage{
		Type:     protocol.TypeLobbyPlayerLeft,
		PlayerID: playerID,
	})
	log.Printf("[LOBBY] leave player=%s", playerID)
	l.emit(telemetry.EventLobbyLeft, playerID, nil)
}

// SetStatus updates the caller's own status and broadcasts it. Only
// available, busy and away may be requested; in-game is managed by the
// server.
func (l *Lobby) SetStatus(playerID, status string) error {
	if !protocol.ValidUserStatus(status) {
		return ErrBadStatus
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, exists := l.entries[playerID]
	if !exists {
		return ErrNotInLobby
	}
	l.setStatusLocked(e, status, "")
	return nil
}

// Chat appends a message to the bounded lobby history and broadcasts it to
// everyone, the sender included. Overlong messages are truncated to the
// configured rune limit.
func (l *Lobby) Chat(playerID, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, exists := l.entries[playerID]
	if !exists {
		return ErrNotInLobby
	}
	if text == "" {
		return ErrEmptyChat
	}
	if runes := []rune(text); len(runes) > l.cfg.ChatMaxLength {
		text = string(runes[:l.cfg.ChatMaxLength])
	}

	msg := protocol.ChatMessage{
		ID:       uuid.NewString(),
		PlayerID: e.playerID,
		Name:     e.name,
		Text:     text,
		SentAt:   time.Now(),
	}
	l.chat = append(l.chat, msg)
	if len(l.chat) > l.cfg.ChatHistorySize {
		l.chat = l.chat[len(l.chat)-l.cfg.ChatHistorySize:]
	}

	l.broadcastLocked(protocol.ServerMessage{
		Type: protocol.TypeLobbyChatMessage,
		Chat: &msg,
	})
	l.emit(telemetry.EventChatMessage, playerID, nil)
	return nil
}

// Invite sends a game invitation from fromID to toID. The inviter goes
// away while the invitation is pending, which bounds every player to one
// outstanding invitation at a time.
func (l *Lobby) Invite(fromID, toID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	from, exists := l.entries[fromID]
	if !exists {
		return ErrNotInLobby
	}
	if from.status != protocol.StatusAvailable {
		return ErrPlayerBusy
	}
	to, exists := l.entries[toID]
	if !exists {
		return ErrPlayerNotFound
	}
	if toID == fromID || to.status != protocol.StatusAvailable {
		return ErrPlayerBusy
	}

	now := time.Now()
	inv := &invitation{
		id:        uuid.NewString(),
		fromID:    fromID,
		toID:      toID,
		gameID:    l.registry.AllocateID(),
		createdAt: now,
		expiresAt: now.Add(l.cfg.InviteTTL()),
	}
	l.invites[inv.id] = inv
	l.setStatusLocked(from, protocol.StatusAway, "")

	l.sendTo(to, protocol.ServerMessage{
		Type: protocol.TypeLobbyInvitation,
		Invite: &protocol.Invitation{
			ID:        inv.id,
			FromID:    fromID,
			FromName:  from.name,
			ToID:      toID,
			GameID:    inv.gameID,
			ExpiresAt: inv.expiresAt,
		},
	})

	log.Printf("[LOBBY] invite id=%s from=%s to=%s game=%s", inv.id, fromID, toID, inv.gameID)
	l.emit(telemetry.EventInvitationSent, fromID, map[string]any{"to": toID})
	return nil
}

// AcceptInvite resolves an invitation by creating the game session directly
// in the active state: the inviter hosts as side A, the acceptor joins as
// side B, and the coin flip still decides who starts.
func (l *Lobby) AcceptInvite(playerID, inviteID string) error {
	l.mu.Lock()
	inv, err := l.takeInviteLocked(playerID, inviteID)
	if err != nil {
		l.mu.Unlock()
		return err
	}

	from := l.entries[inv.fromID]
	to := l.entries[inv.toID]
	if from == nil || to == nil {
		// The counterpart left between invite and accept.
		if from != nil {
			l.setStatusLocked(from, protocol.StatusAvailable, "")
		}
		l.mu.Unlock()
		return ErrPlayerNotFound
	}
	hostConn, hostName, hostID := from.conn, from.name, from.playerID
	guestConn, guestName, guestID := to.conn, to.name, to.playerID

	// Create the session outside the lobby lock: seating players takes the
	// game mutex, which must always come before the lobby mutex.
	l.mu.Unlock()
	g, err := l.registry.CreateActive(inv.gameID,
		hostConn, hostName, hostID,
		guestConn, guestName, guestID)
	l.mu.Lock()
	defer l.mu.Unlock()

	from = l.entries[inv.fromID]
	if err != nil {
		if from != nil {
			l.setStatusLocked(from, protocol.StatusAvailable, "")
		}
		return err
	}
	if from != nil {
		l.setStatusLocked(from, protocol.StatusInGame, g.ID())
	}
	if to := l.entries[inv.toID]; to != nil {
		l.setStatusLocked(to, protocol.StatusInGame, g.ID())
	}

	l.sendTo(from, protocol.ServerMessage{
		Type: protocol.TypeLobbyInvitationResponse,
		Response: &protocol.InvitationResponse{
			ID:       inv.id,
			FromID:   inv.fromID,
			ToID:     inv.toID,
			Accepted: true,
			GameID:   g.ID(),
		},
	})

	log.Printf("[LOBBY] invite id=%s accepted game=%s", inv.id, g.ID())
	l.emit(telemetry.EventInvitationAccepted, playerID, map[string]any{"game": g.ID()})
	return nil
}

// DeclineInvite resolves an invitation negatively: the inviter returns to
// available and is told.
func (l *Lobby) DeclineInvite(playerID, inviteID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	inv, err := l.takeInviteLocked(playerID, inviteID)
	if err != nil {
		return err
	}
	l.resolveDeclinedLocked(inv, "declined")

	log.Printf("[LOBBY] invite id=%s declined by=%s", inv.id, playerID)
	l.emit(telemetry.EventInvitationDeclined, playerID, nil)
	return nil
}

// Touch bumps the idle clock of playerID on any inbound activity.
func (l *Lobby) Touch(playerID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, exists := l.entries[playerID]; exists {
		e.lastSeen = time.Now()
	}
}

// SessionEnded returns every listed participant still in the lobby to
// available. Wired to the session registry's end-of-game callback.
func (l *Lobby) SessionEnded(gameID string, playerIDs []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range playerIDs {
		if e, exists := l.entries[id]; exists && e.gameID == gameID {
			l.setStatusLocked(e, protocol.StatusAvailable, "")
		}
	}
}

// ExpireInvitations deletes invitations past their TTL. The inviter comes
// back to available and receives a declined response, reason "expired".
func (l *Lobby) ExpireInvitations(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	expired := 0
	for id, inv := range l.invites {
		if now.Before(inv.expiresAt) {
			continue
		}
		delete(l.invites, id)
		l.resolveDeclinedLocked(inv, "expired")
		expired++
		log.Printf("[SWEEP] invite id=%s expired from=%s to=%s", inv.id, inv.fromID, inv.toID)
		l.emit(telemetry.EventInvitationExpired, inv.fromID, nil)
	}
	return expired
}

// EvictIdle removes entries unseen past the lobby idle timeout and
// broadcasts their departure.
func (l *Lobby) EvictIdle(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	evicted := 0
	for id, e := range l.entries {
		if now.Sub(e.lastSeen) <= l.cfg.LobbyIdleTimeout() {
			continue
		}
		l.leaveLocked(id)
		evicted++
		log.Printf("[SWEEP] lobby entry player=%s evicted idle", id)
	}
	return evicted
}

// Snapshot returns the roster and chat history for the REST API.
func (l *Lobby) Snapshot() ([]protocol.LobbyPlayer, []protocol.ChatMessage) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rosterLocked(), l.chatLocked()
}

// Count returns the number of roster entries.
func (l *Lobby) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// takeInviteLocked validates and removes an invitation addressed to
// playerID.
func (l *Lobby) takeInviteLocked(playerID, inviteID string) (*invitation, error) {
	inv, exists := l.invites[inviteID]
	if !exists || time.Now().After(inv.expiresAt) {
		return nil, ErrInvitationNotFound
	}
	if inv.toID != playerID {
		return nil, ErrNotInvited
	}
	delete(l.invites, inviteID)
	return inv, nil
}

// resolveDeclinedLocked restores the inviter and notifies them that the
// invitation will not become a game.
func (l *Lobby) resolveDeclinedLocked(inv *invitation, reason string) {
	from, exists := l.entries[inv.fromID]
	if !exists {
		return
	}
	if from.status == protocol.StatusAway {
		l.setStatusLocked(from, protocol.StatusAvailable, "")
	}
	l.sendTo(from, protocol.ServerMessage{
		Type: protocol.TypeLobbyInvitationResponse,
		Response: &protocol.InvitationResponse{
			ID:       inv.id,
			FromID:   inv.fromID,
			ToID:     inv.toID,
			Accepted: false,
			Reason:   reason,
		},
	})
}

// cancelInvitesLocked removes every invitation involving playerID and
// notifies the counterpart.
func (l *Lobby) cancelInvitesLocked(playerID, reason string) {
	for id, inv := range l.invites {
		switch playerID {
		case inv.toID:
			delete(l.invites, id)
			l.resolveDeclinedLocked(inv, reason)
		case inv.fromID:
			delete(l.invites, id)
			if to, exists := l.entries[inv.toID]; exists {
				l.sendTo(to, protocol.ServerMessage{
					Type: protocol.TypeLobbyInvitationResponse,
					Response: &protocol.InvitationResponse{
						ID:       inv.id,
						FromID:   inv.fromID,
						ToID:     inv.toID,
						Accepted: false,
						Reason:   reason,
					},
				})
			}
		}
	}
}

// setStatusLocked updates an entry's status and game binding and
// broadcasts the change.
func (l *Lobby) setStatusLocked(e *entry, status, gameID string) {
	e.status = status
	e.gameID = gameID
	l.broadcastLocked(protocol.ServerMessage{
		Type:     protocol.TypeLobbyPlayerStatus,
		PlayerID: e.playerID,
		Status:   status,
		GameID:   gameID,
	})
}

// liveGameFor reports the id of a non-ended session seating playerID.
func (l *Lobby) liveGameFor(playerID string) (string, bool) {
	if l.registry == nil {
		return "", false
	}
	for _, g := range l.registry.List() {
		if g.Status() == session.StatusEnded {
			continue
		}
		for _, id := range g.PlayerIDs() {
			if id == playerID {
				return g.ID(), true
			}
		}
	}
	return "", false
}

// rosterLocked returns the roster sorted by join time, oldest first.
func (l *Lobby) rosterLocked() []protocol.LobbyPlayer {
	type pair struct {
		e *entry
		p protocol.LobbyPlayer
	}
	pairs := make([]pair, 0, len(l.entries))
	for _, e := range l.entries {
		pairs = append(pairs, pair{e, *l.playerLocked(e)})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if !pairs[i].e.joinedAt.Equal(pairs[j].e.joinedAt) {
			return pairs[i].e.joinedAt.Before(pairs[j].e.joinedAt)
		}
		return pairs[i].e.playerID < pairs[j].e.playerID
	})
	players := make([]protocol.LobbyPlayer, len(pairs))
	for i, p := range pairs {
		players[i] = p.p
	}
	return players
}

func (l *Lobby) playerLocked(e *entry) *protocol.LobbyPlayer {
	return &protocol.LobbyPlayer{
		PlayerID: e.playerID,
		Name:     e.name,
		Avatar:   e.avatar,
		Status:   e.status,
		GameID:   e.gameID,
	}
}

func (l *Lobby) chatLocked() []protocol.ChatMessage {
	out := make([]protocol.ChatMessage, len(l.chat))
	copy(out, l.chat)
	return out
}

// sendTo pushes a message to one entry if it has a live connection.
func (l *Lobby) sendTo(e *entry, msg protocol.ServerMessage) {
	if e == nil || e.conn == nil {
		return
	}
	if !e.conn.Send(msg) {
		log.Printf("[LOBBY] dropped %s to player=%s", msg.Type, e.playerID)
	}
}

// broadcastLocked pushes a message to every entry.
func (l *Lobby) broadcastLocked(msg protocol.ServerMessage) {
	for _, e := range l.entries {
		l.sendTo(e, msg)
	}
}

// broadcastExcept pushes a message to every entry but one.
func (l *Lobby) broadcastExcept(playerID string, msg protocol.ServerMessage) {
	for id, e := range l.entries {
		if id != playerID {
			l.sendTo(e, msg)
		}
	}
}

func (l *Lobby) emit(eventType, playerID string, fields map[string]any) {
	l.sink.Emit(telemetry.Event{
		Type:     eventType,
		PlayerID: playerID,
		At:       time.Now(),
		Fields:   fields,
	})
}

package session

import (
	"errors"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kayasax/Awale-sub000/game/ai"
	"github.com/kayasax/Awale-sub000/game/engine"
	"github.com/kayasax/Awale-sub000/game/protocol"
	"github.com/kayasax/Awale-sub000/telemetry"
)

// Status is the lifecycle phase of a session.
type Status string

const (
	StatusAwaitingGuest Status = "awaiting-guest"
	StatusActive        Status = "active"
	StatusEnded         Status = "ended"
)

// Seat roles. The host always plays side A, the guest side B.
const (
	RoleHost  = "host"
	RoleGuest = "guest"
)

// Sentinel errors carrying their protocol codes.
var (
	ErrGameNotFound       = protocol.NewError(protocol.CodeGameNotFound, "game not found")
	ErrGameFull           = protocol.NewError(protocol.CodeFull, "game already has two players")
	ErrNotInGame          = protocol.NewError(protocol.CodeNotInGame, "player is not in this game")
	ErrNotYourTurn        = protocol.NewError(protocol.CodeNotYourTurn, "not your turn")
	ErrBadPit             = protocol.NewError(protocol.CodeBadPit, "pit index out of range")
	ErrBadSide            = protocol.NewError(protocol.CodeBadSide, "pit is not on your side")
	ErrIllegal            = protocol.NewError(protocol.CodeIllegal, "illegal move")
	ErrEnded              = protocol.NewError(protocol.CodeEnded, "game already ended")
	ErrWaitingForOpponent = protocol.NewError(protocol.CodeWaitingForOpponent, "waiting for an opponent")
)

// flipCoin decides whether the guest takes the first move of a starting
// game. Stubbed in tests.
var flipCoin = func() bool { return rand.IntN(2) == 1 }

// Conn is the transport handle a seat pushes messages through. Send must
// never block; it reports whether the message was accepted.
type Conn interface {
	ID() string
	Send(msg protocol.ServerMessage) bool
}

// link is the connection variant of a seat: connected while conn is
// non-nil, otherwise disconnected since lastSeen.
type link struct {
	conn     Conn
	lastSeen time.Time
}

func (l link) connected() bool { return l.conn != nil }

// seat is one side of a game.
type seat struct {
	role     string
	side     engine.Player
	playerID string
	name     string
	token    string
	link     link
	policy   ai.Policy // non-nil for an AI guest
}

func (s *seat) isAI() bool { return s.policy != nil }

// MoveRecord is one applied move in a session's history.
type MoveRecord struct {
	Seq      int           `json:"seq"`
	Player   engine.Player `json:"player"`
	Pit      int           `json:"pit"`
	Captured int           `json:"captured"`
	Version  int           `json:"version"`
	PlayedAt time.Time     `json:"playedAt"`
}

// SeatInfo describes the seat handed to a joining or creating player.
type SeatInfo struct {
	GameID   string
	Role     string
	Side     engine.Player
	Token    string
	PlayerID string
	Opponent string
}

// Summary is a read-only snapshot of a session for listings and APIs.
type Summary struct {
	ID             string
	Status         Status
	Host           string
	Guest          string
	AIPolicy       string
	State          engine.GameState
	MoveCount      int
	HostConnected  bool
	GuestConnected bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Game is one authoritative Awale session. All exported methods lock the
// session mutex, so at most one operation mutates a game at a time and
// broadcasts leave in a deterministic order.
type Game struct {
	id string

	mu        sync.Mutex
	status    Status
	state     engine.GameState
	host      *seat
	guest     *seat
	moveSeq   int
	history   []MoveRecord
	createdAt time.Time
	updatedAt time.Time

	// registry-injected hooks
	persist func(*PersistedGame)
	onEnded func(gameID string, playerIDs []string)
	sink    telemetry.Sink
}

// newGame builds a session in the awaiting-guest state. The caller owns id
// uniqueness.
func newGame(id string, hostConn Conn, hostName, hostPlayerID string, sink telemetry.Sink) *Game {
	now := time.Now()
	if hostPlayerID == "" {
		hostPlayerID = uuid.NewString()
	}
	if hostName == "" {
		hostName = "Host"
	}
	g := &Game{
		id:        id,
		status:    StatusAwaitingGuest,
		state:     engine.NewGameState(),
		createdAt: now,
		updatedAt: now,
		sink:      sink,
		host: &seat{
			role:     RoleHost,
			side:     engine.PlayerA,
			playerID: hostPlayerID,
			name:     hostName,
			token:    uuid.NewString(),
			link:     link{conn: hostConn, lastSeen: now},
		},
	}
	return g
}

// ID returns the session's join code.
func (g *Game) ID() string { return g.id }

// Status returns the lifecycle phase.
func (g *Game) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// Snapshot returns a copy of the current engine state.
func (g *Game) Snapshot() engine.GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// History returns a copy of the applied moves.
func (g *Game) History() []MoveRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]MoveRecord, len(g.history))
	copy(out, g.history)
	return out
}

// Summary returns a read-only snapshot for listings.
func (g *Game) Summary() Summary {
	g.mu.Lock()
	defer g.mu.Unlock()
	sum := Summary{
		ID:            g.id,
		Status:        g.status,
		Host:          g.host.name,
		State:         g.state,
		MoveCount:     g.moveSeq,
		HostConnected: g.host.link.connected(),
		CreatedAt:     g.createdAt,
		UpdatedAt:     g.updatedAt,
	}
	if g.guest != nil {
		sum.Guest = g.guest.name
		sum.GuestConnected = g.guest.link.connected()
		if g.guest.isAI() {
			sum.AIPolicy = g.guest.policy.Name()
		}
	}
	return sum
}

// PlayerIDs returns the persistent ids of the human participants.
func (g *Game) PlayerIDs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.humanPlayerIDsLocked()
}

// HostInfo returns the host's seat description.
func (g *Game) HostInfo() *SeatInfo {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seatInfoLocked(g.host)
}

// Join seats a player. Three cases, in order:
//
//  1. playerID matches an existing seat: reconnection. The seat's transport
//     link is replaced (when conn is non-nil), the joiner receives joined
//     plus the current state, and no move is re-applied.
//  2. The guest seat is empty: the player becomes the guest, a fair coin
//     picks the starting side on the fresh initial state, and the game
//     starts with gameStarting followed by the initial state.
//  3. Otherwise the game is full.
//
// conn may be nil for transports without a live connection.
func (g *Game) Join(conn Conn, name, playerID string) (*SeatInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if st := g.seatByPlayerIDLocked(playerID); st != nil {
		if conn != nil {
			st.link = link{conn: conn, lastSeen: time.Now()}
		}
		g.updatedAt = time.Now()
		info := g.seatInfoLocked(st)
		g.sendTo(st, protocol.ServerMessage{
			Type:     protocol.TypeJoined,
			GameID:   g.id,
			Role:     st.role,
			YouAre:   string(st.side),
			Opponent: info.Opponent,
		})
		g.sendStateTo(st)
		log.Printf("[SESSION] game=%s reconnect player=%s role=%s", g.id, st.playerID, st.role)
		g.persistLocked()
		return info, nil
	}

	if g.status == StatusEnded {
		return nil, ErrEnded
	}
	if g.guest != nil {
		return nil, ErrGameFull
	}

	if playerID == "" {
		playerID = uuid.NewString()
	}
	if name == "" {
		name = "Guest"
	}
	g.guest = &seat{
		role:     RoleGuest,
		side:     engine.PlayerB,
		playerID: playerID,
		name:     name,
		token:    uuid.NewString(),
		link:     link{conn: conn, lastSeen: time.Now()},
	}
	info := g.seatInfoLocked(g.guest)
	g.sendTo(g.guest, protocol.ServerMessage{
		Type:     protocol.TypeJoined,
		GameID:   g.id,
		Role:     RoleGuest,
		YouAre:   string(engine.PlayerB),
		Opponent: g.host.name,
	})
	g.startLocked()
	return info, nil
}

// AttachAI fills the guest seat with a move-selection policy and starts the
// game. The AI plays side B like any guest; the coin flip may hand it the
// first move.
func (g *Game) AttachAI(policyName string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status == StatusEnded {
		return ErrEnded
	}
	if g.guest != nil {
		return ErrGameFull
	}
	policy, err := ai.ForName(policyName)
	if err != nil {
		return protocol.NewError(protocol.CodeBadJSON, "%v", err)
	}
	g.guest = &seat{
		role:     RoleGuest,
		side:     engine.PlayerB,
		playerID: "ai:" + policy.Name(),
		name:     "AI (" + policy.Name() + ")",
		token:    uuid.NewString(),
		policy:   policy,
	}
	g.startLocked()
	return nil
}

// Move validates and applies a move submitted by playerID.
func (g *Game) Move(playerID string, pit int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.moveLocked(g.seatByPlayerIDLocked(playerID), pit)
}

// MoveByToken applies a move authenticated by a seat token (REST and MCP)
// and returns the record of the mover's own move, even when an AI guest
// replies immediately afterwards.
func (g *Game) MoveByToken(token string, pit int) (MoveRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	seq := g.moveSeq
	if err := g.moveLocked(g.seatByTokenLocked(token), pit); err != nil {
		return MoveRecord{}, err
	}
	return g.history[seq], nil
}

func (g *Game) moveLocked(st *seat, pit int) error {
	if g.status == StatusEnded {
		return ErrEnded
	}
	if st == nil {
		return ErrNotInGame
	}
	if g.status == StatusAwaitingGuest {
		return ErrWaitingForOpponent
	}
	if pit < 0 || pit >= engine.PitCount {
		return ErrBadPit
	}
	if g.state.CurrentPlayer != st.side {
		return ErrNotYourTurn
	}
	if engine.Owner(pit) != st.side {
		return ErrBadSide
	}
	if err := g.applyLocked(st, pit); err != nil {
		return err
	}
	g.maybeAIMoveLocked()
	return nil
}

// applyLocked runs one engine move for st and broadcasts moveApplied
// followed by the new state. The caller has validated seat and turn.
func (g *Game) applyLocked(st *seat, pit int) error {
	next, captured, err := engine.ApplyMove(g.state, pit)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrBadPit):
			return ErrBadPit
		case errors.Is(err, engine.ErrGameEnded):
			return ErrEnded
		case errors.Is(err, engine.ErrIllegalMove):
			return ErrIllegal
		default:
			return protocol.NewError(protocol.CodeEngineErr, "engine failure: %v", err)
		}
	}

	g.state = next
	g.moveSeq++
	g.updatedAt = time.Now()
	record := MoveRecord{
		Seq:      g.moveSeq,
		Player:   st.side,
		Pit:      pit,
		Captured: captured,
		Version:  next.Version,
		PlayedAt: g.updatedAt,
	}
	g.history = append(g.history, record)

	pitCopy := pit
	g.broadcast(protocol.ServerMessage{
		Type:     protocol.TypeMoveApplied,
		GameID:   g.id,
		Seq:      record.Seq,
		Pit:      &pitCopy,
		Player:   string(st.side),
		Version:  next.Version,
		Captured: captured,
	})
	g.broadcastStateLocked()

	log.Printf("[MOVE] game=%s seq=%d player=%s pit=%d captured=%d version=%d",
		g.id, record.Seq, st.side, pit, captured, next.Version)
	g.emit(telemetry.EventMoveApplied, st.playerID, map[string]any{
		"pit": pit, "captured": captured, "version": next.Version,
	})

	if g.state.Ended {
		g.finishLocked(protocol.ReasonVictory)
	} else {
		g.persistLocked()
	}
	return nil
}

// maybeAIMoveLocked lets an AI guest reply while it holds the turn. The
// loop degenerates to a single iteration in practice because turns
// alternate, but it also terminates cleanly if the game ends mid-way.
func (g *Game) maybeAIMoveLocked() {
	for g.status == StatusActive && !g.state.Ended {
		st := g.seatBySideLocked(g.state.CurrentPlayer)
		if st == nil || !st.isAI() {
			return
		}
		pit, err := st.policy.ChooseMove(g.state)
		if err != nil {
			log.Printf("[AI] game=%s policy %s failed: %v", g.id, st.policy.Name(), err)
			return
		}
		if err := g.applyLocked(st, pit); err != nil {
			log.Printf("[AI] game=%s policy %s chose bad pit %d: %v", g.id, st.policy.Name(), pit, err)
			return
		}
	}
}

// Resign ends the game in favor of the opponent. Board and captures stay
// as they were; no sweep happens. A host resigning before a guest arrived
// simply cancels the game without a winner.
func (g *Game) Resign(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resignLocked(g.seatByPlayerIDLocked(playerID))
}

// ResignByToken is Resign authenticated by a seat token.
func (g *Game) ResignByToken(token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resignLocked(g.seatByTokenLocked(token))
}

func (g *Game) resignLocked(st *seat) error {
	if st == nil {
		return ErrNotInGame
	}
	if g.status == StatusEnded {
		return ErrEnded
	}

	g.state.Ended = true
	if g.guest != nil {
		g.state.Winner = string(st.side.Opponent())
	}
	log.Printf("[SESSION] game=%s resign player=%s", g.id, st.playerID)
	g.broadcastStateLocked()
	g.finishLocked(protocol.ReasonResignation)
	return nil
}

// Detach marks the seat bound to connID as disconnected. Not an error: the
// seat stays reserved for reconnection until the registry reaps the game.
func (g *Game) Detach(connID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, st := range []*seat{g.host, g.guest} {
		if st == nil || !st.link.connected() || st.link.conn.ID() != connID {
			continue
		}
		st.link = link{lastSeen: time.Now()}
		log.Printf("[SESSION] game=%s disconnect player=%s role=%s", g.id, st.playerID, st.role)
	}
}

// Reapable reports whether the game qualifies for removal: past maxAge, or
// every human seat disconnected for longer than disconnectTimeout.
func (g *Game) Reapable(now time.Time, disconnectTimeout, maxAge time.Duration) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if now.Sub(g.createdAt) > maxAge {
		return true
	}
	latest := g.updatedAt
	for _, st := range []*seat{g.host, g.guest} {
		if st == nil || st.isAI() {
			continue
		}
		if st.link.connected() {
			return false
		}
		if st.link.lastSeen.After(latest) {
			latest = st.link.lastSeen
		}
	}
	return now.Sub(latest) > disconnectTimeout
}

// startLocked activates the game: fair coin for the starting side applied
// to the fresh initial state, then gameStarting per seat and the first
// state broadcast.
func (g *Game) startLocked() {
	if flipCoin() {
		g.state.CurrentPlayer = g.guest.side
	}
	g.status = StatusActive
	g.updatedAt = time.Now()

	for _, st := range []*seat{g.host, g.guest} {
		other := g.otherSeatLocked(st)
		g.sendTo(st, protocol.ServerMessage{
			Type:          protocol.TypeGameStarting,
			GameID:        g.id,
			YouAre:        string(st.side),
			Opponent:      other.name,
			CurrentPlayer: string(g.state.CurrentPlayer),
		})
	}
	g.broadcastStateLocked()

	log.Printf("[SESSION] game=%s started host=%s guest=%s first=%s",
		g.id, g.host.name, g.guest.name, g.state.CurrentPlayer)
	g.emit(telemetry.EventGameStarted, "", map[string]any{
		"first": string(g.state.CurrentPlayer),
	})
	g.persistLocked()
	g.maybeAIMoveLocked()
}

// finishLocked transitions to ended and tells everyone.
func (g *Game) finishLocked(reason string) {
	g.status = StatusEnded
	g.updatedAt = time.Now()
	g.broadcast(protocol.ServerMessage{
		Type:   protocol.TypeGameEnded,
		GameID: g.id,
		Winner: g.state.Winner,
		Reason: reason,
	})
	log.Printf("[SESSION] game=%s ended winner=%q reason=%s score=%d-%d",
		g.id, g.state.Winner, reason, g.state.Captured.A, g.state.Captured.B)
	g.emit(telemetry.EventGameEnded, "", map[string]any{
		"winner": g.state.Winner, "reason": reason,
	})
	g.persistLocked()
	if g.onEnded != nil {
		g.onEnded(g.id, g.humanPlayerIDsLocked())
	}
}

func (g *Game) seatByPlayerIDLocked(playerID string) *seat {
	if playerID == "" {
		return nil
	}
	for _, st := range []*seat{g.host, g.guest} {
		if st != nil && st.playerID == playerID {
			return st
		}
	}
	return nil
}

func (g *Game) seatByTokenLocked(token string) *seat {
	if token == "" {
		return nil
	}
	for _, st := range []*seat{g.host, g.guest} {
		if st != nil && st.token == token {
			return st
		}
	}
	return nil
}

func (g *Game) seatBySideLocked(side engine.Player) *seat {
	for _, st := range []*seat{g.host, g.guest} {
		if st != nil && st.side == side {
			return st
		}
	}
	return nil
}

func (g *Game) otherSeatLocked(st *seat) *seat {
	if st == g.host {
		return g.guest
	}
	return g.host
}

func (g *Game) seatInfoLocked(st *seat) *SeatInfo {
	info := &SeatInfo{
		GameID:   g.id,
		Role:     st.role,
		Side:     st.side,
		Token:    st.token,
		PlayerID: st.playerID,
	}
	if other := g.otherSeatLocked(st); other != nil {
		info.Opponent = other.name
	}
	return info
}

func (g *Game) humanPlayerIDsLocked() []string {
	var ids []string
	for _, st := range []*seat{g.host, g.guest} {
		if st != nil && !st.isAI() {
			ids = append(ids, st.playerID)
		}
	}
	return ids
}

// sendTo pushes a message to one seat if it is connected.
func (g *Game) sendTo(st *seat, msg protocol.ServerMessage) {
	if st == nil || !st.link.connected() {
		return
	}
	if !st.link.conn.Send(msg) {
		log.Printf("[SESSION] game=%s dropped %s to player=%s", g.id, msg.Type, st.playerID)
	}
}

// broadcast pushes a message to both seats.
func (g *Game) broadcast(msg protocol.ServerMessage) {
	g.sendTo(g.host, msg)
	g.sendTo(g.guest, msg)
}

func (g *Game) sendStateTo(st *seat) {
	state := g.state
	g.sendTo(st, protocol.ServerMessage{
		Type:    protocol.TypeState,
		GameID:  g.id,
		Version: state.Version,
		State:   &state,
	})
}

func (g *Game) broadcastStateLocked() {
	state := g.state
	g.broadcast(protocol.ServerMessage{
		Type:    protocol.TypeState,
		GameID:  g.id,
		Version: state.Version,
		State:   &state,
	})
}

func (g *Game) persistLocked() {
	if g.persist != nil {
		g.persist(g.snapshotLocked())
	}
}

func (g *Game) emit(eventType, playerID string, fields map[string]any) {
	if g.sink == nil {
		return
	}
	g.sink.Emit(telemetry.Event{
		Type:     eventType,
		GameID:   g.id,
		PlayerID: playerID,
		At:       time.Now(),
		Fields:   fields,
	})
}

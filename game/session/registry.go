package session

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kayasax/Awale-sub000/telemetry"
)

// Registry owns every live game session. It hands out short join codes,
// wires persistence and telemetry into each game, and runs the reaping
// sweep that removes abandoned sessions.
type Registry struct {
	mu      sync.RWMutex
	games   map[string]*Game
	persist Persistence
	sink    telemetry.Sink

	// onEnded is invoked after a game transitions to ended, outside any
	// registry lock but under the game's own mutex.
	onEnded func(gameID string, playerIDs []string)
}

// NewRegistry creates a registry. persist may be nil to disable snapshots;
// sink may be nil to disable telemetry.
func NewRegistry(persist Persistence, sink telemetry.Sink) *Registry {
	if sink == nil {
		sink = telemetry.Nop{}
	}
	return &Registry{
		games:   make(map[string]*Game),
		persist: persist,
		sink:    sink,
	}
}

// OnEnded registers the callback run when any game ends. The lobby uses it
// to release participants back to available.
func (r *Registry) OnEnded(fn func(gameID string, playerIDs []string)) {
	r.onEnded = fn
}

// AllocateID hands out a join code unused by any live game, letting the
// lobby name the pending game inside an invitation before it exists.
func (r *Registry) AllocateID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generateGameIDLocked()
}

// Create builds a session awaiting its guest. conn may be nil for
// REST-created games, whose host attaches later by player id.
func (r *Registry) Create(conn Conn, hostName, hostPlayerID string) (*Game, error) {
	return r.createWithID("", conn, hostName, hostPlayerID)
}

func (r *Registry) createWithID(id string, conn Conn, hostName, hostPlayerID string) (*Game, error) {
	r.mu.Lock()
	if id == "" {
		id = r.generateGameIDLocked()
	} else if _, exists := r.games[strings.ToLower(id)]; exists {
		// A reserved id collided with a game created in the meantime.
		id = r.generateGameIDLocked()
	}
	id = strings.ToLower(id)
	g := newGame(id, conn, hostName, hostPlayerID, r.sink)
	r.wireGame(g)
	r.games[id] = g
	r.mu.Unlock()

	log.Printf("[REGISTRY] game=%s created host=%s", id, g.host.name)
	r.sink.Emit(telemetry.Event{
		Type:     telemetry.EventGameCreated,
		GameID:   id,
		PlayerID: g.host.playerID,
		At:       time.Now(),
	})
	g.mu.Lock()
	g.persistLocked()
	g.mu.Unlock()
	return g, nil
}

// CreateVsAI builds a session whose guest seat is a move-selection policy.
// The game starts immediately; the coin flip may hand the AI the first move.
func (r *Registry) CreateVsAI(conn Conn, hostName, hostPlayerID, policyName string) (*Game, error) {
	g, err := r.Create(conn, hostName, hostPlayerID)
	if err != nil {
		return nil, err
	}
	if err := g.AttachAI(policyName); err != nil {
		r.Remove(g.ID())
		return nil, err
	}
	return g, nil
}

// CreateActive builds a session with both seats filled, used when a lobby
// invitation is accepted: the game never waits for a guest. id may name the
// pending game announced in the invitation; an empty id generates one.
func (r *Registry) CreateActive(id string, hostConn Conn, hostName, hostPlayerID string, guestConn Conn, guestName, guestPlayerID string) (*Game, error) {
	g, err := r.createWithID(id, hostConn, hostName, hostPlayerID)
	if err != nil {
		return nil, err
	}
	if _, err := g.Join(guestConn, guestName, guestPlayerID); err != nil {
		r.Remove(g.ID())
		return nil, err
	}
	return g, nil
}

// Get retrieves a game by join code, case-insensitively.
func (r *Registry) Get(id string) (*Game, error) {
	r.mu.RLock()
	g, exists := r.games[strings.ToLower(id)]
	r.mu.RUnlock()
	if !exists {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// List returns every live game, ordered by id for stable output.
func (r *Registry) List() []*Game {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Game, 0, len(r.games))
	for _, g := range r.games {
		result = append(result, g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].id < result[j].id })
	return result
}

// Remove drops a game from the registry and deletes its snapshot.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.games, strings.ToLower(id))
	r.mu.Unlock()

	if r.persist != nil && r.persist.Exists(id) {
		if err := r.persist.Delete(id); err != nil {
			log.Printf("[REGISTRY] game=%s failed to delete snapshot: %v", id, err)
		}
	}
}

// Count returns the number of live games.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// DetachConn marks the seat bound to connID disconnected in every game that
// holds it. Called by the transport when a connection closes.
func (r *Registry) DetachConn(connID string) {
	for _, g := range r.List() {
		g.Detach(connID)
	}
}

// ReapExpired removes games whose human seats have all been disconnected
// longer than disconnectTimeout, and games older than maxAge regardless of
// connections. Returns the number of games removed.
func (r *Registry) ReapExpired(now time.Time, disconnectTimeout, maxAge time.Duration) int {
	removed := 0
	for _, g := range r.List() {
		if !g.Reapable(now, disconnectTimeout, maxAge) {
			continue
		}
		r.Remove(g.ID())
		removed++
		log.Printf("[SWEEP] game=%s reaped status=%s", g.ID(), g.Status())
		r.sink.Emit(telemetry.Event{
			Type:   telemetry.EventGameReaped,
			GameID: g.ID(),
			At:     now,
		})
	}
	return removed
}

// LoadPersisted restores every non-ended persisted session into memory with
// all human seats disconnected, so players can reconnect after a restart.
func (r *Registry) LoadPersisted() error {
	if r.persist == nil {
		return nil
	}

	ids, err := r.persist.ListAll()
	if err != nil {
		return err
	}

	now := time.Now()
	loaded := 0
	for _, id := range ids {
		data, err := r.persist.Load(id)
		if err != nil {
			log.Printf("[REGISTRY] game=%s failed to load snapshot: %v", id, err)
			continue
		}
		if data.Status == StatusEnded {
			continue
		}
		g, err := restoreGame(data, now)
		if err != nil {
			log.Printf("[REGISTRY] game=%s failed to restore: %v", id, err)
			continue
		}
		g.sink = r.sink
		r.wireGame(g)

		r.mu.Lock()
		if _, exists := r.games[strings.ToLower(id)]; !exists {
			r.games[strings.ToLower(id)] = g
			loaded++
		}
		r.mu.Unlock()
	}

	if loaded > 0 {
		log.Printf("[REGISTRY] restored %d persisted sessions", loaded)
	}
	return nil
}

// SaveAll snapshots every live session, used on graceful shutdown.
func (r *Registry) SaveAll() {
	if r.persist == nil {
		return
	}
	for _, g := range r.List() {
		g.mu.Lock()
		data := g.snapshotLocked()
		g.mu.Unlock()
		if err := r.persist.Save(data); err != nil {
			log.Printf("[REGISTRY] game=%s failed to save snapshot: %v", g.ID(), err)
		}
	}
}

// wireGame installs the registry-owned hooks on a game.
func (r *Registry) wireGame(g *Game) {
	g.onEnded = func(gameID string, playerIDs []string) {
		if r.onEnded != nil {
			r.onEnded(gameID, playerIDs)
		}
	}
	if r.persist != nil {
		g.persist = func(data *PersistedGame) {
			if err := r.persist.Save(data); err != nil {
				log.Printf("[REGISTRY] game=%s failed to persist: %v", data.ID, err)
			}
		}
	}
}

// generateGameIDLocked produces a 4-hex-character join code unused by any
// live game. The caller holds the registry write lock.
func (r *Registry) generateGameIDLocked() string {
	for {
		bytes := make([]byte, 2)
		rand.Read(bytes)
		id := hex.EncodeToString(bytes)
		if _, exists := r.games[id]; !exists {
			return id
		}
	}
}

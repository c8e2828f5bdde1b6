package session

import (
	"time"

	"github.com/kayasax/Awale-sub000/game/ai"
	"github.com/kayasax/Awale-sub000/game/engine"
)

// Persistence stores session snapshots so live games survive a restart.
type Persistence interface {
	// Save persists a session snapshot to storage.
	Save(data *PersistedGame) error

	// Load retrieves a session snapshot from storage by id.
	Load(id string) (*PersistedGame, error)

	// Delete removes a session from storage.
	Delete(id string) error

	// ListAll returns all persisted session ids.
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage.
	Exists(id string) bool
}

// PersistedSeat is the storable part of a seat. Transport handles are never
// persisted: restored seats come back disconnected.
type PersistedSeat struct {
	Role     string `json:"role"`
	Side     string `json:"side"`
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Token    string `json:"token"`
	AIPolicy string `json:"ai_policy,omitempty"`
}

// PersistedGame is the JSON structure written for each session.
type PersistedGame struct {
	ID        string           `json:"id"`
	Status    Status           `json:"status"`
	Host      *PersistedSeat   `json:"host"`
	Guest     *PersistedSeat   `json:"guest,omitempty"`
	State     engine.GameState `json:"state"`
	MoveSeq   int              `json:"move_seq"`
	History   []MoveRecord     `json:"history,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// snapshotLocked captures the storable view of the session. The caller holds
// the session mutex.
func (g *Game) snapshotLocked() *PersistedGame {
	data := &PersistedGame{
		ID:        g.id,
		Status:    g.status,
		Host:      persistSeat(g.host),
		Guest:     persistSeat(g.guest),
		State:     g.state,
		MoveSeq:   g.moveSeq,
		CreatedAt: g.createdAt,
		UpdatedAt: g.updatedAt,
	}
	if len(g.history) > 0 {
		data.History = make([]MoveRecord, len(g.history))
		copy(data.History, g.history)
	}
	return data
}

func persistSeat(st *seat) *PersistedSeat {
	if st == nil {
		return nil
	}
	ps := &PersistedSeat{
		Role:     st.role,
		Side:     string(st.side),
		PlayerID: st.playerID,
		Name:     st.name,
		Token:    st.token,
	}
	if st.isAI() {
		ps.AIPolicy = st.policy.Name()
	}
	return ps
}

// restoreGame rebuilds a session from its persisted form. Every human seat
// comes back disconnected with lastSeen = now, so the disconnect-eviction
// clock starts fresh after a restart.
func restoreGame(data *PersistedGame, now time.Time) (*Game, error) {
	g := &Game{
		id:        data.ID,
		status:    data.Status,
		state:     data.State,
		moveSeq:   data.MoveSeq,
		createdAt: data.CreatedAt,
		updatedAt: data.UpdatedAt,
	}
	if len(data.History) > 0 {
		g.history = make([]MoveRecord, len(data.History))
		copy(g.history, data.History)
	}

	var err error
	if g.host, err = restoreSeat(data.Host, now); err != nil {
		return nil, err
	}
	if g.guest, err = restoreSeat(data.Guest, now); err != nil {
		return nil, err
	}
	return g, nil
}

func restoreSeat(ps *PersistedSeat, now time.Time) (*seat, error) {
	if ps == nil {
		return nil, nil
	}
	st := &seat{
		role:     ps.Role,
		side:     engine.Player(ps.Side),
		playerID: ps.PlayerID,
		name:     ps.Name,
		token:    ps.Token,
		link:     link{lastSeen: now},
	}
	if ps.AIPolicy != "" {
		policy, err := ai.ForName(ps.AIPolicy)
		if err != nil {
			return nil, err
		}
		st.policy = policy
	}
	return st, nil
}

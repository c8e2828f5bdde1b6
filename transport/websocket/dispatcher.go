package websocket

import (
	"encoding/json"
	"time"

	"github.com/kayasax/Awale-sub000/game/lobby"
	"github.com/kayasax/Awale-sub000/game/protocol"
	"github.com/kayasax/Awale-sub000/game/session"
)

// Dispatcher routes decoded client messages to the session registry and the
// lobby. Dispatch is called from a connection's read pump, so messages from
// one connection are handled strictly in order; cross-connection
// serialization comes from the per-session and lobby mutexes.
type Dispatcher struct {
	registry *session.Registry
	lobby    *lobby.Lobby
}

// NewDispatcher creates a dispatcher over the given registry and lobby.
func NewDispatcher(registry *session.Registry, lob *lobby.Lobby) *Dispatcher {
	return &Dispatcher{registry: registry, lobby: lob}
}

// Dispatch handles one inbound frame to completion, all broadcasts
// included.
func (d *Dispatcher) Dispatch(c *Client, raw []byte) {
	var msg protocol.ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.Send(protocol.ErrorMessage(protocol.CodeBadJSON, "malformed message"))
		return
	}

	// Mutating kinds pass the per-connection token bucket; ping and
	// unknown kinds are exempt.
	if protocol.Mutating(msg.Type) && !c.bucket.Allow() {
		c.Send(protocol.ErrorMessage(protocol.CodeRateLimit, "too many requests, slow down"))
		return
	}

	if pid := c.PlayerID(); pid != "" {
		d.lobby.Touch(pid)
	}

	switch msg.Type {
	case protocol.TypePing:
		d.handlePing(c, msg)
	case protocol.TypeCreate:
		d.handleCreate(c, msg)
	case protocol.TypeJoin:
		d.handleJoin(c, msg)
	case protocol.TypeMove:
		d.handleMove(c, msg)
	case protocol.TypeResign:
		d.handleResign(c, msg)
	case protocol.TypeLobbyJoin:
		d.handleLobbyJoin(c, msg)
	case protocol.TypeLobbyLeave:
		d.identified(c, func(playerID string) error {
			d.lobby.Leave(playerID)
			return nil
		})
	case protocol.TypeLobbyChat:
		d.identified(c, func(playerID string) error {
			return d.lobby.Chat(playerID, msg.Message)
		})
	case protocol.TypeLobbyStatus:
		d.identified(c, func(playerID string) error {
			return d.lobby.SetStatus(playerID, msg.Status)
		})
	case protocol.TypeLobbyInvite:
		d.identified(c, func(playerID string) error {
			return d.lobby.Invite(playerID, msg.TargetID)
		})
	case protocol.TypeLobbyAcceptInvite:
		d.identified(c, func(playerID string) error {
			return d.lobby.AcceptInvite(playerID, msg.InviteID)
		})
	case protocol.TypeLobbyDeclineInvite:
		d.identified(c, func(playerID string) error {
			return d.lobby.DeclineInvite(playerID, msg.InviteID)
		})
	default:
		c.Send(protocol.ErrorMessage(protocol.CodeUnknown, "unknown message type "+msg.Type))
	}
}

// Disconnect releases everything bound to a closed connection: game seats
// go disconnected for later reconnection, the lobby entry leaves.
func (d *Dispatcher) Disconnect(c *Client) {
	d.registry.DetachConn(c.ID())
	d.lobby.LeaveByConn(c.ID())
}

func (d *Dispatcher) handlePing(c *Client, msg protocol.ClientMessage) {
	latency := int64(0)
	if msg.TS > 0 {
		if delta := time.Now().UnixMilli() - msg.TS; delta > 0 {
			latency = delta
		}
	}
	c.Send(protocol.ServerMessage{Type: protocol.TypePong, Latency: latency})
}

func (d *Dispatcher) handleCreate(c *Client, msg protocol.ClientMessage) {
	g, err := d.registry.Create(c, msg.Name, msg.PlayerID)
	if err != nil {
		c.Send(protocol.ErrorMessageFor(err))
		return
	}
	info := g.HostInfo()
	c.bindPlayerID(info.PlayerID)
	c.Send(protocol.ServerMessage{
		Type:        protocol.TypeCreated,
		GameID:      g.ID(),
		PlayerToken: info.Token,
		Role:        info.Role,
		YouAre:      string(info.Side),
	})

	// The AI guest attaches after the created reply so the host sees
	// created before gameStarting.
	if msg.VsAI {
		if err := g.AttachAI(msg.AIPolicy); err != nil {
			c.Send(protocol.ErrorMessageFor(err))
		}
	}
}

func (d *Dispatcher) handleJoin(c *Client, msg protocol.ClientMessage) {
	g, err := d.registry.Get(msg.GameID)
	if err != nil {
		c.Send(protocol.ErrorMessageFor(err))
		return
	}
	info, err := g.Join(c, msg.Name, msg.PlayerID)
	if err != nil {
		c.Send(protocol.ErrorMessageFor(err))
		return
	}
	c.bindPlayerID(info.PlayerID)
}

func (d *Dispatcher) handleMove(c *Client, msg protocol.ClientMessage) {
	playerID := c.PlayerID()
	if playerID == "" {
		c.Send(protocol.ErrorMessage(protocol.CodeNotInGame, "create or join a game first"))
		return
	}
	g, err := d.registry.Get(msg.GameID)
	if err != nil {
		c.Send(protocol.ErrorMessageFor(err))
		return
	}
	if msg.Pit == nil {
		c.Send(protocol.ErrorMessage(protocol.CodeBadPit, "missing pit"))
		return
	}
	if err := g.Move(playerID, *msg.Pit); err != nil {
		c.Send(protocol.ErrorMessageFor(err))
	}
}

func (d *Dispatcher) handleResign(c *Client, msg protocol.ClientMessage) {
	playerID := c.PlayerID()
	if playerID == "" {
		c.Send(protocol.ErrorMessage(protocol.CodeNotInGame, "create or join a game first"))
		return
	}
	g, err := d.registry.Get(msg.GameID)
	if err != nil {
		c.Send(protocol.ErrorMessageFor(err))
		return
	}
	if err := g.Resign(playerID); err != nil {
		c.Send(protocol.ErrorMessageFor(err))
	}
}

func (d *Dispatcher) handleLobbyJoin(c *Client, msg protocol.ClientMessage) {
	requested := msg.PlayerID
	if requested == "" {
		requested = c.PlayerID()
	}
	playerID, err := d.lobby.Join(c, requested, msg.Name, msg.Avatar)
	if err != nil {
		c.Send(protocol.ErrorMessageFor(err))
		return
	}
	c.bindPlayerID(playerID)
}

// identified runs fn with the connection's bound player id, or reports
// NOT_IN_LOBBY for unidentified connections.
func (d *Dispatcher) identified(c *Client, fn func(playerID string) error) {
	playerID := c.PlayerID()
	if playerID == "" {
		c.Send(protocol.ErrorMessage(protocol.CodeNotInLobby, "join the lobby first"))
		return
	}
	if err := fn(playerID); err != nil {
		c.Send(protocol.ErrorMessageFor(err))
	}
}

package service

import (
	"context"
	"strings"

	"github.com/kayasax/Awale-sub000/game/engine"
	"github.com/kayasax/Awale-sub000/game/protocol"
	"github.com/kayasax/Awale-sub000/game/session"
)

// Pagination bounds for move history.
const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// gameServiceImpl implements GameService on top of the session registry and
// the lobby. It holds no state of its own; every call reads or mutates the
// underlying session under that session's lock.
type gameServiceImpl struct {
	registry SessionRegistry
	lobby    LobbyDirectory
	configs  ConfigProvider
}

// NewGameService creates the service consumed by the REST and MCP surfaces.
func NewGameService(registry SessionRegistry, lobby LobbyDirectory, configs ConfigProvider) GameService {
	return &gameServiceImpl{
		registry: registry,
		lobby:    lobby,
		configs:  configs,
	}
}

func (s *gameServiceImpl) CreateGame(ctx context.Context, opts CreateOptions) (*CreateResult, error) {
	var (
		g   *session.Game
		err error
	)
	if opts.VsAI {
		g, err = s.registry.CreateVsAI(nil, opts.Name, opts.PlayerID, opts.AIPolicy)
	} else {
		g, err = s.registry.Create(nil, opts.Name, opts.PlayerID)
	}
	if err != nil {
		return nil, err
	}

	info := g.HostInfo()
	state := g.Snapshot()
	return &CreateResult{
		GameID:      g.ID(),
		PlayerToken: info.Token,
		PlayerID:    info.PlayerID,
		Role:        info.Role,
		YouAre:      string(info.Side),
		Status:      string(g.Status()),
		State:       &state,
	}, nil
}

func (s *gameServiceImpl) JoinGame(ctx context.Context, gameID, name, playerID string) (*JoinResult, error) {
	g, err := s.registry.Get(gameID)
	if err != nil {
		return nil, err
	}
	info, err := g.Join(nil, name, playerID)
	if err != nil {
		return nil, err
	}
	state := g.Snapshot()
	return &JoinResult{
		GameID:      g.ID(),
		PlayerToken: info.Token,
		PlayerID:    info.PlayerID,
		Role:        info.Role,
		YouAre:      string(info.Side),
		Opponent:    info.Opponent,
		State:       &state,
	}, nil
}

func (s *gameServiceImpl) GetGame(ctx context.Context, gameID string) (*GameInfo, error) {
	g, err := s.registry.Get(gameID)
	if err != nil {
		return nil, err
	}
	return gameInfo(g), nil
}

func (s *gameServiceImpl) ListGames(ctx context.Context, status string) ([]*GameInfo, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	games := s.registry.List()
	infos := make([]*GameInfo, 0, len(games))
	for _, g := range games {
		info := gameInfo(g)
		if status != "" && info.Status != status {
			continue
		}
		info.State = nil // listings stay compact
		infos = append(infos, info)
	}
	return infos, nil
}

func (s *gameServiceImpl) GetState(ctx context.Context, gameID string) (*StateResult, error) {
	g, err := s.registry.Get(gameID)
	if err != nil {
		return nil, err
	}
	state := g.Snapshot()
	return &StateResult{
		GameID:  g.ID(),
		Status:  string(g.Status()),
		Version: state.Version,
		State:   &state,
	}, nil
}

func (s *gameServiceImpl) LegalMoves(ctx context.Context, gameID string) (*LegalMovesResult, error) {
	g, err := s.registry.Get(gameID)
	if err != nil {
		return nil, err
	}
	state := g.Snapshot()
	return &LegalMovesResult{
		GameID:        g.ID(),
		CurrentPlayer: string(state.CurrentPlayer),
		Moves:         engine.LegalMoves(state),
		Ended:         state.Ended,
	}, nil
}

func (s *gameServiceImpl) Move(ctx context.Context, gameID, playerToken string, pit int) (*MoveResult, error) {
	g, err := s.registry.Get(gameID)
	if err != nil {
		return nil, err
	}
	record, err := g.MoveByToken(playerToken, pit)
	if err != nil {
		return nil, err
	}
	state := g.Snapshot()
	return &MoveResult{
		Seq:      record.Seq,
		Pit:      record.Pit,
		Player:   string(record.Player),
		Version:  record.Version,
		Captured: record.Captured,
		State:    &state,
		Ended:    state.Ended,
		Winner:   state.Winner,
	}, nil
}

func (s *gameServiceImpl) Resign(ctx context.Context, gameID, playerToken string) (*GameInfo, error) {
	g, err := s.registry.Get(gameID)
	if err != nil {
		return nil, err
	}
	if err := g.ResignByToken(playerToken); err != nil {
		return nil, err
	}
	return gameInfo(g), nil
}

func (s *gameServiceImpl) GetHistory(ctx context.Context, gameID string, opts HistoryOptions) (*HistoryResponse, error) {
	g, err := s.registry.Get(gameID)
	if err != nil {
		return nil, err
	}
	moves := g.History()

	order := strings.ToLower(strings.TrimSpace(opts.Order))
	if order == "" {
		order = "desc"
	}
	if order != "asc" && order != "desc" {
		return nil, protocol.NewError(protocol.CodeBadJSON, "order must be asc or desc, got %q", opts.Order)
	}
	if order == "desc" {
		for i, j := 0, len(moves)-1; i < j; i, j = i+1, j-1 {
			moves[i], moves[j] = moves[j], moves[i]
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	totalPages := (len(moves) + limit - 1) / limit
	page := opts.Page
	if page < 1 {
		page = 1
	}

	start := (page - 1) * limit
	end := start + limit
	if start > len(moves) {
		start = len(moves)
	}
	if end > len(moves) {
		end = len(moves)
	}

	return &HistoryResponse{
		GameID:     g.ID(),
		Moves:      moves[start:end],
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		TotalMoves: len(moves),
		Order:      order,
	}, nil
}

func (s *gameServiceImpl) RenderBoard(ctx context.Context, gameID string) (string, error) {
	g, err := s.registry.Get(gameID)
	if err != nil {
		return "", err
	}
	return engine.FormatBoard(g.Snapshot()), nil
}

func (s *gameServiceImpl) LobbySnapshot(ctx context.Context) (*LobbyInfo, error) {
	players, chat := s.lobby.Snapshot()
	return &LobbyInfo{
		Players: players,
		Chat:    chat,
		Count:   len(players),
	}, nil
}

func (s *gameServiceImpl) Health(ctx context.Context) *HealthInfo {
	return &HealthInfo{
		Status:       "ok",
		ActiveGames:  s.registry.Count(),
		LobbyPlayers: s.lobby.Count(),
		Config:       s.configs.GetDefault().Name,
	}
}

// gameInfo converts a session summary into the API shape.
func gameInfo(g *session.Game) *GameInfo {
	sum := g.Summary()
	state := sum.State
	return &GameInfo{
		ID:             sum.ID,
		Status:         string(sum.Status),
		Host:           sum.Host,
		Guest:          sum.Guest,
		AIPolicy:       sum.AIPolicy,
		MoveCount:      sum.MoveCount,
		HostConnected:  sum.HostConnected,
		GuestConnected: sum.GuestConnected,
		CreatedAt:      sum.CreatedAt,
		UpdatedAt:      sum.UpdatedAt,
		State:          &state,
	}
}

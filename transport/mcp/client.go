package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kayasax/Awale-sub000/game/engine"
	"github.com/kayasax/Awale-sub000/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Awale Game Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Awale (Oware) Game Server - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Two players sow seeds around a 12-pit board and capture seeds from the
opponent's row. The first player over 24 captured seeds wins.

AVAILABLE TOOLS:
- create_game: Create a game (optionally against a built-in AI policy)
- list_games: List games on the server
- get_game: Get one game's summary
- game_state: Current board, captures and side to move
- legal_moves: Pits the side to move may sow from
- move: Sow from a pit - requires the player_token from create/join
- resign: Concede the game
- move_history: Past moves with pagination
- game_instructions: Full rules of the game

NOTE: Keep the player_token returned by create_game; every move and
resignation authenticates with it.`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_game",
		Description: "Create a new Awale game. Set vs_ai to practice against a built-in policy (random, greedy, minimax).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Display name of the creating player",
				},
				"vs_ai": map[string]interface{}{
					"type":        "boolean",
					"description": "Fill the guest seat with an AI opponent",
				},
				"ai_policy": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"random", "greedy", "minimax"},
					"description": "AI policy when vs_ai is set (default: greedy)",
				},
			},
		},
	}, c.handleCreateGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List games on the server, optionally filtered by status",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"status": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"awaiting-guest", "active", "ended"},
					"description": "Only list games in this lifecycle phase",
				},
			},
		},
	}, c.handleListGames)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_game",
		Description: "Get the summary of one game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleGetGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, captures and side to move",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "legal_moves",
		Description: "List the pits the side to move may sow from",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleLegalMoves)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Sow the seeds of one pit. Side A owns pits 0-5, side B owns pits 6-11.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
				"player_token": map[string]interface{}{
					"type":        "string",
					"description": "Seat token returned by create_game or join",
				},
				"pit": map[string]interface{}{
					"type":        "integer",
					"description": "Pit index to sow from (0-11, must be on your side)",
				},
			},
			Required: []string{"game_id", "player_token", "pit"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "resign",
		Description: "Concede the game; the opponent wins",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
				"player_token": map[string]interface{}{
					"type":        "string",
					"description": "Seat token of the resigning player",
				},
			},
			Required: []string{"game_id", "player_token"},
		},
	}, c.handleResign)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get the move history of a game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Ordering, newest first by default",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules of Awale",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	name, _ := args["name"].(string)
	vsAI, _ := args["vs_ai"].(bool)
	policy, _ := args["ai_policy"].(string)
	if vsAI && policy == "" {
		policy = "greedy"
	}

	body := map[string]interface{}{
		"name":      name,
		"vs_ai":     vsAI,
		"ai_policy": policy,
	}

	var created service.CreateResult
	if err := c.apiCall("POST", "/api/games", body, &created); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf(`Created game: %s
Status: %s
Your role: %s (side %s)
Player token (keep it, moves authenticate with it): %s

%s`,
		created.GameID, created.Status, created.Role, created.YouAre,
		created.PlayerToken, formatState(created.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	status, _ := args["status"].(string)

	path := "/api/games"
	if status != "" {
		path += "?status=" + status
	}

	var response struct {
		Count int                `json:"count"`
		Games []service.GameInfo `json:"games"`
	}
	if err := c.apiCall("GET", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Games (%d):\n\n", response.Count)
	for _, g := range response.Games {
		opponent := g.Guest
		if opponent == "" {
			opponent = "(open seat)"
		}
		result += fmt.Sprintf("- %s [%s] %s vs %s, %d moves, created %s\n",
			g.ID, g.Status, g.Host, opponent, g.MoveCount, g.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var info service.GameInfo
	if err := c.apiCall("GET", fmt.Sprintf("/api/games/%s", gameID), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameInfo(&info)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var state service.StateResult
	if err := c.apiCall("GET", fmt.Sprintf("/api/games/%s/state", gameID), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Game %s [%s], version %d\n\n%s",
		state.GameID, state.Status, state.Version, formatState(state.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleLegalMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var legal service.LegalMovesResult
	if err := c.apiCall("GET", fmt.Sprintf("/api/games/%s/legal-moves", gameID), nil, &legal); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if legal.Ended {
		return mcp.NewToolResultText("The game has ended; no moves are available."), nil
	}
	result := fmt.Sprintf("Side %s to move. Legal pits: %s",
		legal.CurrentPlayer, joinInts(legal.Moves))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	token, _ := args["player_token"].(string)
	pitRaw, ok := args["pit"].(float64)
	if !ok {
		return mcp.NewToolResultError("pit is required"), nil
	}

	body := map[string]interface{}{
		"player_token": token,
		"pit":          int(pitRaw),
	}

	var result service.MoveResult
	if err := c.apiCall("POST", fmt.Sprintf("/api/games/%s/move", gameID), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleResign(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	token, _ := args["player_token"].(string)

	body := map[string]string{"player_token": token}

	var info service.GameInfo
	if err := c.apiCall("POST", fmt.Sprintf("/api/games/%s/resign", gameID), body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Resigned.\n\n" + formatGameInfo(&info)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}
	if order, ok := args["order"].(string); ok && order != "" {
		params += "order=" + order
	}

	var history service.HistoryResponse
	if err := c.apiCall("GET", fmt.Sprintf("/api/games/%s/history%s", gameID, params), nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Awale (Oware) - Complete Rules

BOARD:
12 pits in two rows of 6. Side A owns pits 0-5 (bottom), side B owns
pits 6-11 (top). Every pit starts with 4 seeds. Sowing runs
counter-clockwise: 0,1,...,11 and back to 0.

ON YOUR TURN:
1. Pick a non-empty pit on YOUR side.
2. Its seeds are sown one by one into the following pits, skipping the
   origin pit on every lap (a pit of 12+ seeds wraps around it).
3. If the LAST seed lands in an opponent pit that now holds 2 or 3
   seeds, you capture that pit - and keep capturing backwards through
   contiguous opponent pits of 2 or 3 seeds.

FEEDING RULE:
If your opponent's row is empty, you MUST play a move that gives them
seeds. If no such move exists, the game ends and you sweep your own
remaining seeds into your capture pile.

GRAND SLAM:
A move that would capture ALL the opponent's seeds makes no capture at
all; the sowing stands, the seeds stay on the board.

WINNING:
- More than 24 captured seeds wins immediately.
- If the game ends otherwise (starvation or agreed sweep), the higher
  capture count wins; 24-24 is a draw.
- A resignation hands the win to the opponent.

TOOL WORKFLOW:
1. create_game (keep the player_token!)
2. game_state / legal_moves to inspect the position
3. move with your token and a pit index
4. move_history to review the game

PLAYING THE AI:
create_game with vs_ai=true seats a policy opponent on side B:
- random: uniformly random legal moves
- greedy: maximizes immediate captures
- minimax: looks several plies ahead

A coin flip decides who moves first, so the AI may open the game.`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatGameInfo(info *service.GameInfo) string {
	opponent := info.Guest
	if opponent == "" {
		opponent = "(open seat)"
	}
	result := fmt.Sprintf("Game: %s\nStatus: %s\nHost: %s (side A)\nGuest: %s (side B)\nMoves: %d\nCreated: %s\n",
		info.ID, info.Status, info.Host, opponent, info.MoveCount,
		info.CreatedAt.Format("2006-01-02 15:04:05"))
	if info.AIPolicy != "" {
		result += fmt.Sprintf("AI policy: %s\n", info.AIPolicy)
	}
	if info.State != nil {
		result += "\n" + formatState(info.State)
	}
	return result
}

func formatState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}
	return engine.FormatBoard(*state)
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move applied: side %s sowed pit %d (seq %d, version %d)\n",
		result.Player, result.Pit, result.Seq, result.Version)
	if result.Captured > 0 {
		fmt.Fprintf(&b, "Captured %d seeds\n", result.Captured)
	}
	if result.Ended {
		switch result.Winner {
		case engine.WinnerDraw:
			b.WriteString("Game over: draw\n")
		case "":
			b.WriteString("Game over\n")
		default:
			fmt.Fprintf(&b, "Game over: %s wins\n", result.Winner)
		}
	}
	b.WriteString("\n")
	b.WriteString(formatState(result.State))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Move History (Page %d/%d, %s) — Total: %d\n\n",
		history.Page, history.TotalPages, history.Order, history.TotalMoves)

	for _, move := range history.Moves {
		line := fmt.Sprintf("%d. side %s pit %d", move.Seq, move.Player, move.Pit)
		if move.Captured > 0 {
			line += fmt.Sprintf(" (captured %d)", move.Captured)
		}
		result += line + "\n"
	}

	return result
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}

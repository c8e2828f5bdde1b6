package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/kayasax/Awale-sub000/game/config"
	"github.com/kayasax/Awale-sub000/game/protocol"
	"github.com/kayasax/Awale-sub000/game/service"
	"github.com/kayasax/Awale-sub000/transport/websocket"
)

// Server is the HTTP front of the game: the REST API under /api plus the
// websocket endpoint at /ws.
type Server struct {
	service    service.GameService
	hub        *websocket.Hub
	dispatcher *websocket.Dispatcher
	tuning     *config.Tuning
	router     *mux.Router
}

// NewServer creates a new API server.
func NewServer(gameService service.GameService, hub *websocket.Hub, dispatcher *websocket.Dispatcher, tuning *config.Tuning) *Server {
	s := &Server{
		service:    gameService,
		hub:        hub,
		dispatcher: dispatcher,
		tuning:     tuning,
		router:     mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Game lifecycle
	api.HandleFunc("/games", s.handleCreateGame).Methods("POST")
	api.HandleFunc("/games", s.handleListGames).Methods("GET")
	api.HandleFunc("/games/{id}", s.handleGetGame).Methods("GET")
	api.HandleFunc("/games/{id}/join", s.handleJoinGame).Methods("POST")

	// Game play
	api.HandleFunc("/games/{id}/state", s.handleGetState).Methods("GET")
	api.HandleFunc("/games/{id}/board", s.handleGetBoard).Methods("GET")
	api.HandleFunc("/games/{id}/legal-moves", s.handleLegalMoves).Methods("GET")
	api.HandleFunc("/games/{id}/history", s.handleGetHistory).Methods("GET")
	api.HandleFunc("/games/{id}/move", s.handleMove).Methods("POST")
	api.HandleFunc("/games/{id}/resign", s.handleResign).Methods("POST")

	// Lobby (read-only; joining the lobby needs a live websocket)
	api.HandleFunc("/lobby", s.handleLobby).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps a domain error to its REST status via the error's
// protocol code.
func respondServiceError(w http.ResponseWriter, err error) {
	code := protocol.CodeOf(err)
	respondJSON(w, protocol.HTTPStatus(code), map[string]string{
		"error": err.Error(),
		"code":  code,
	})
}

// Game Handlers

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var opts service.CreateOptions
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&opts)
	}

	result, err := s.service.CreateGame(r.Context(), opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	log.Printf("[API] created game=%s host=%q vs_ai=%t", result.GameID, opts.Name, opts.VsAI)
	respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.service.ListGames(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(games),
		"games": games,
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.GetGame(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		PlayerID string `json:"player_id"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	result, err := s.service.JoinGame(r.Context(), mux.Vars(r)["id"], req.Name, req.PlayerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetState(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	board, err := s.service.RenderBoard(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(board))
}

func (s *Server) handleLegalMoves(w http.ResponseWriter, r *http.Request) {
	moves, err := s.service.LegalMoves(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, moves)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var req struct {
		PlayerToken string `json:"player_token"`
		Pit         *int   `json:"pit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Pit == nil {
		respondError(w, http.StatusBadRequest, "pit is required")
		return
	}

	result, err := s.service.Move(r.Context(), gameID, req.PlayerToken, *req.Pit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleResign(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var req struct {
		PlayerToken string `json:"player_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	info, err := s.service.Resign(r.Context(), gameID, req.PlayerToken)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	var opts service.HistoryOptions

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil {
			opts.Page = p
		}
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			opts.Limit = l
		}
	}
	opts.Order = strings.ToLower(query.Get("order"))

	history, err := s.service.GetHistory(r.Context(), mux.Vars(r)["id"], opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

// Lobby Handler

func (s *Server) handleLobby(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.service.LobbySnapshot(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.ServeWS(s.hub, s.dispatcher, s.tuning, w, r)
}

// Health check

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.service.Health(r.Context()))
}

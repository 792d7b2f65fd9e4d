package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/justinabrahms/randchess/internal/chess"
	"github.com/justinabrahms/randchess/internal/config"
	"github.com/rs/zerolog/log"
)

type Service struct {
	config *config.Config
	store  *Store
	hub    *Hub
	now    func() time.Time

	// seats is nil unless seat tokens are required.
	seats *Seats

	// engineOptions are appended after the config-derived options.
	engineOptions []chess.Option
}

func NewService(cfg *config.Config, hub *Hub) (*Service, error) {
	s := &Service{
		config: cfg,
		store:  NewStore(),
		hub:    hub,
		now:    time.Now,
	}
	if cfg.Seats.Required {
		seats, err := NewSeats(cfg.Seats.Secret)
		if err != nil {
			return nil, err
		}
		s.seats = seats
	}
	return s, nil
}

// RegisterRoutes mounts the API and websocket endpoints on router.
func (s *Service) RegisterRoutes(router *mux.Router) {
	// Preflight requests match before any method-restricted route so
	// CORSMiddleware can answer them.
	router.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.HealthHandler).Methods("GET")
	api.HandleFunc("/games", s.ListGamesHandler).Methods("GET")
	api.HandleFunc("/games", s.CreateGameHandler).Methods("POST")
	api.HandleFunc("/games/{id}", s.GetGameHandler).Methods("GET")
	api.HandleFunc("/games/{id}/destinations", s.DestinationsHandler).Methods("GET")
	api.HandleFunc("/games/{id}/hints", s.HintsHandler).Methods("GET")
	api.HandleFunc("/games/{id}/moves", s.MoveHandler).Methods("POST")
	api.HandleFunc("/games/{id}/reroll", s.RerollHandler).Methods("POST")
	api.HandleFunc("/games/{id}/skip", s.SkipHandler).Methods("POST")
	api.HandleFunc("/games/{id}/resign", s.ResignHandler).Methods("POST")
	api.HandleFunc("/games/{id}/restart", s.RestartHandler).Methods("POST")

	router.HandleFunc("/ws", s.WebSocketHandler()).Methods("GET")
}

func (s *Service) newEngine(mode chess.Mode) *chess.Engine {
	opts := []chess.Option{
		chess.WithLogger(log.Logger.With().Str("component", "engine").Logger()),
	}
	if s.config.Game.WeightedAllocation {
		opts = append(opts, chess.WithWeightedAllocation())
	}
	if s.config.Game.Seed != 0 {
		opts = append(opts, chess.WithRand(chess.NewRandSource(s.config.Game.Seed)))
	}
	opts = append(opts, s.engineOptions...)
	return chess.NewEngine(mode, opts...)
}

// ClockView is a game's clock as seen at response time.
type ClockView struct {
	Running chess.Color `json:"running"`
	WhiteMs int64       `json:"whiteMs"`
	BlackMs int64       `json:"blackMs"`
	White   string      `json:"white"`
	Black   string      `json:"black"`
}

// GameView is the JSON shape of a game for clients.
type GameView struct {
	ID        string              `json:"id"`
	Mode      chess.Mode          `json:"mode"`
	Status    chess.GameStatus    `json:"status"`
	FEN       string              `json:"fen"`
	State     chess.GameState     `json:"state"`
	Material  chess.MaterialCount `json:"material"`
	CanReroll bool                `json:"canReroll"`
	CanSkip   bool                `json:"canSkip"`
	Clock     ClockView           `json:"clock"`
}

// TransitionResponse is returned by every state-changing endpoint.
type TransitionResponse struct {
	Game   GameView      `json:"game"`
	Events []chess.Event `json:"events"`
}

// CreateGameResponse is a GameView plus the seat tokens when seats are
// required. The tokens are only ever returned here.
type CreateGameResponse struct {
	GameView
	Seats map[chess.Color]string `json:"seats,omitempty"`
}

// view must be called with g.mu held.
func (s *Service) view(g *Game) GameView {
	now := s.now()
	state := g.engine.State()
	white := g.clock.Remaining(chess.White, now)
	black := g.clock.Remaining(chess.Black, now)

	return GameView{
		ID:        g.ID,
		Mode:      state.Mode,
		Status:    state.Status(),
		FEN:       state.FEN(),
		State:     state,
		Material:  chess.CountMaterial(state.Board),
		CanReroll: state.CanReroll(),
		CanSkip:   state.CanSkip(),
		Clock: ClockView{
			Running: g.clock.Running(),
			WhiteMs: white.Milliseconds(),
			BlackMs: black.Milliseconds(),
			White:   chess.FormatTimeRemaining(white),
			Black:   chess.FormatTimeRemaining(black),
		},
	}
}

func (s *Service) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"games":  s.store.Len(),
	})
}

type CreateGameRequest struct {
	Mode string `json:"mode,omitempty"`
}

func (s *Service) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Mode == "" {
		req.Mode = s.config.Game.DefaultMode
	}

	mode, err := chess.ParseMode(req.Mode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g := s.store.Add(s.newEngine(mode), s.now())

	g.mu.Lock()
	resp := CreateGameResponse{GameView: s.view(g)}
	g.mu.Unlock()

	if s.seats != nil {
		if resp.Seats, err = s.seats.issuePair(g.ID); err != nil {
			log.Error().Err(err).Str("gameID", g.ID).Msg("Failed to issue seats")
			http.Error(w, "Failed to issue seats", http.StatusInternalServerError)
			return
		}
	}

	log.Info().Str("gameID", g.ID).Str("mode", string(mode)).Msg("Game created")
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Service) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookup(w, r)
	if !ok {
		return
	}

	g.mu.Lock()
	view := s.view(g)
	g.mu.Unlock()

	writeJSON(w, http.StatusOK, view)
}

func (s *Service) DestinationsHandler(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookup(w, r)
	if !ok {
		return
	}

	from, ok := chess.ParseSquare(r.URL.Query().Get("from"))
	if !ok {
		http.Error(w, "Invalid from square", http.StatusBadRequest)
		return
	}

	g.mu.Lock()
	dests := g.engine.Destinations(from)
	g.mu.Unlock()

	squares := make([]string, 0, len(dests))
	for _, d := range dests {
		squares = append(squares, d.String())
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"from":         from.String(),
		"destinations": squares,
	})
}

func (s *Service) HintsHandler(w http.ResponseWriter, r *http.Request) {
	if !s.config.Game.HintsEnabled {
		http.Error(w, "Hints are disabled", http.StatusForbidden)
		return
	}
	g, ok := s.lookup(w, r)
	if !ok {
		return
	}

	g.mu.Lock()
	hints := g.engine.Hints()
	g.mu.Unlock()

	if hints == nil {
		hints = []chess.Hint{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"hints": hints})
}

type MoveRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

func (s *Service) MoveHandler(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	from, okFrom := chess.ParseSquare(req.From)
	to, okTo := chess.ParseSquare(req.To)
	if !okFrom || !okTo {
		http.Error(w, "Invalid square", http.StatusBadRequest)
		return
	}
	promotion := chess.ParsePieceType(req.Promotion)
	if req.Promotion != "" && promotion == chess.NoPieceType {
		http.Error(w, "Invalid promotion piece", http.StatusBadRequest)
		return
	}

	s.transition(w, r, moverSeat, func(g *Game) (chess.Outcome, error) {
		return g.engine.Move(from, to, promotion)
	})
}

func (s *Service) RerollHandler(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, moverSeat, func(g *Game) (chess.Outcome, error) {
		return g.engine.Reroll()
	})
}

func (s *Service) SkipHandler(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, moverSeat, func(g *Game) (chess.Outcome, error) {
		return g.engine.SkipTurn()
	})
}

type ResignRequest struct {
	Color string `json:"color"`
}

func (s *Service) ResignHandler(w http.ResponseWriter, r *http.Request) {
	var req ResignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	color, err := chess.ParseColor(req.Color)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ownSeat := func(_ chess.GameState, seat chess.Color) bool { return seat == color }
	s.transition(w, r, ownSeat, func(g *Game) (chess.Outcome, error) {
		return g.engine.Resign(color)
	})
}

func (s *Service) RestartHandler(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, anySeat, func(g *Game) (chess.Outcome, error) {
		g.clock.Reset(s.now())
		return g.engine.NewGame(), nil
	})
}

// seatRule reports whether the holder of seat may act on state.
type seatRule func(state chess.GameState, seat chess.Color) bool

func moverSeat(state chess.GameState, seat chess.Color) bool {
	return seat == state.CurrentPlayer
}

func anySeat(chess.GameState, chess.Color) bool { return true }

// transition runs apply against the game named in the route, then updates
// the clock and broadcasts the events. When seats are required the bearer
// token must satisfy allowed first.
func (s *Service) transition(w http.ResponseWriter, r *http.Request, allowed seatRule, apply func(*Game) (chess.Outcome, error)) {
	g, ok := s.lookup(w, r)
	if !ok {
		return
	}

	g.mu.Lock()
	if s.seats != nil {
		seat, err := s.seats.Verify(bearerToken(r), g.ID)
		if err != nil {
			g.mu.Unlock()
			log.Info().Err(err).Str("gameID", g.ID).Str("path", r.URL.Path).Msg("Seat rejected")
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		if !allowed(g.engine.State(), seat) {
			g.mu.Unlock()
			http.Error(w, "Not your seat", http.StatusForbidden)
			return
		}
	}
	out, err := apply(g)
	if err != nil {
		g.mu.Unlock()
		log.Info().Err(err).Str("gameID", g.ID).Str("path", r.URL.Path).Msg("Transition refused")
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	s.afterTransition(g, out)
	view := s.view(g)
	g.mu.Unlock()

	writeJSON(w, http.StatusOK, TransitionResponse{Game: view, Events: out.Events})
}

// afterTransition must be called with g.mu held.
func (s *Service) afterTransition(g *Game, out chess.Outcome) {
	now := s.now()

	for _, ev := range out.Events {
		switch ev.Type {
		case chess.EventTurnChanged:
			g.clock.Switch(ev.Player, now)
		case chess.EventGameOver:
			g.clock.Stop(now)
			log.Info().
				Str("gameID", g.ID).
				Str("winner", string(ev.Winner)).
				Str("reason", string(ev.Reason)).
				Msg("Game over")
		}
	}

	if s.hub == nil {
		return
	}
	for _, ev := range out.Events {
		s.hub.BroadcastGameUpdate(GameUpdate{GameID: g.ID, Type: string(ev.Type), Data: ev})
	}
	s.hub.BroadcastGameUpdate(GameUpdate{GameID: g.ID, Type: UpdateState, Data: s.view(g)})
}

// RunClockSweep flags expired clocks every interval until ctx is done.
func (s *Service) RunClockSweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepClocks()
		}
	}
}

func (s *Service) sweepClocks() {
	now := s.now()
	for _, g := range s.store.List() {
		g.mu.Lock()
		if color, expired := g.clock.Expired(now); expired {
			out, err := g.engine.TimeUp(color)
			if err == nil {
				log.Info().Str("gameID", g.ID).Str("color", string(color)).Msg("Clock expired")
				s.afterTransition(g, out)
			}
		}
		g.mu.Unlock()
	}
}

func (s *Service) lookup(w http.ResponseWriter, r *http.Request) (*Game, bool) {
	g, err := s.store.Get(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Game not found", http.StatusNotFound)
		return nil, false
	}
	return g, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, chess.ErrGameOver),
		errors.Is(err, chess.ErrRerollNotAllowed),
		errors.Is(err, chess.ErrSkipNotAllowed):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// CORSMiddleware allows browser clients on other origins.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

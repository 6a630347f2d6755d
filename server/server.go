// Package server exposes a Game over HTTP and streams the board to websocket
// observers after every real move.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"unimax-chess/engine"
	mg "unimax-chess/unimaxmg"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type boardResponse struct {
	Grid        [][]int  `json:"grid"`
	FEN         string   `json:"fen"`
	SideToMove  string   `json:"side_to_move"`
	Value       float64  `json:"value"`
	GameOver    bool     `json:"game_over"`
	Winner      string   `json:"winner,omitempty"`
	Captured    []string `json:"captured"`
	History     []string `json:"history"`
	Repetitions int      `json:"repetitions"`
	Seen        []string `json:"seen"`
}

type searchResponse struct {
	Move    string  `json:"move"`
	Value   float64 `json:"value"`
	Depth   int     `json:"depth"`
	Nodes   uint64  `json:"nodes"`
	Cutoffs uint64  `json:"cutoffs"`
	Skipped uint64  `json:"skipped_repetitions"`
	Elapsed float64 `json:"elapsed_ms"`
}

type playResponse struct {
	searchResponse
	Board boardResponse `json:"board"`
}

type apiMove struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type apiSearch struct {
	Side  string `json:"side"`
	Depth *int   `json:"depth"`
}

// Server owns one live game. mu serialises every handler that touches it, so
// a search never overlaps a mutation.
type Server struct {
	mu    sync.Mutex
	game  *engine.Game
	store *ConfigStore
	hub   *Hub
	log   zerolog.Logger

	engineLog zerolog.Logger
	router    chi.Router
}

func New(store *ConfigStore, logger zerolog.Logger) *Server {
	s := &Server{
		store: store,
		hub:   NewHub(),
		log:   logger.With().Str("component", "server").Logger(),

		engineLog: logger,
	}
	s.game = engine.NewGame(store.Get().engineConfig(logger))
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/board", s.handleBoard)
	r.Post("/api/new", s.handleNew)
	r.Post("/api/move", s.handleMove)
	r.Post("/api/bestmove", s.handleBestMove)
	r.Post("/api/play", s.handlePlay)
	r.Get("/api/config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.store.Get())
	})
	r.Post("/api/config", s.handleConfig)
	r.Get("/ws", s.serveWS)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	hubCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.hub.Run(hubCtx.Done())

	srv := &http.Server{
		Addr:    s.store.Get().Addr,
		Handler: s.router,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.log.Info().Str("addr", srv.Addr).Msg("listening")

	select {
	case <-ctx.Done():
		s.log.Info().Err(ctx.Err()).Msg("shutting down")
	case err, ok := <-errCh:
		if ok {
			return err
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Error().Err(err).Msg("graceful shutdown failed")
		return srv.Close()
	}
	return nil
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	state := boardState(s.game)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		FEN string `json:"fen"`
	}
	if !decodeOptional(w, r, &payload) {
		return
	}
	cfg := s.store.Get().engineConfig(s.engineLog)
	game := engine.NewGame(cfg)
	if payload.FEN != "" {
		g, err := engine.NewGameFromFEN(payload.FEN, cfg)
		if err != nil {
			writeError(w, err)
			return
		}
		game = g
	}

	s.mu.Lock()
	s.game = game
	state := boardState(game)
	s.mu.Unlock()

	s.hub.PublishReset(state)
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var payload apiMove
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	from, err := mg.ParseSquare(payload.From)
	if err != nil {
		writeError(w, err)
		return
	}
	to, err := mg.ParseSquare(payload.To)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	err = s.game.Apply(mg.Move{From: from, To: to})
	state := boardState(s.game)
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	s.hub.PublishBoard(state)
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleBestMove(w http.ResponseWriter, r *http.Request) {
	var payload apiSearch
	if !decodeOptional(w, r, &payload) {
		return
	}
	depth, err := s.resolveDepth(payload.Depth)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	side := s.game.SideToMove()
	if payload.Side != "" {
		var ok bool
		if side, ok = mg.ParseSide(payload.Side); !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("unknown side %q", payload.Side)})
			return
		}
	}
	m, v, err := s.game.BestMoveValue(side, depth)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResult(m, v, depth, s.game.SearchStats()))
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var payload apiSearch
	if !decodeOptional(w, r, &payload) {
		return
	}
	depth, err := s.resolveDepth(payload.Depth)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	m, v, err := s.game.BestMoveValue(s.game.SideToMove(), depth)
	if err == nil {
		err = s.game.Apply(m)
	}
	stats := s.game.SearchStats()
	state := boardState(s.game)
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}

	s.hub.PublishBoard(state)
	writeJSON(w, http.StatusOK, playResponse{
		searchResponse: searchResult(m, v, depth, stats),
		Board:          state,
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Depth    *int    `json:"depth"`
		MaxDepth *int    `json:"max_depth"`
		Seed     *uint64 `json:"seed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	cfg := s.store.Get()
	if payload.Depth != nil {
		cfg.Depth = *payload.Depth
	}
	if payload.MaxDepth != nil {
		cfg.MaxDepth = *payload.MaxDepth
	}
	if payload.Seed != nil {
		cfg.Seed = *payload.Seed
	}
	if err := cfg.Validate(); err != nil {
		writeError(w, err)
		return
	}
	s.store.Update(cfg)
	s.log.Info().Int("depth", cfg.Depth).Int("max_depth", cfg.MaxDepth).Msg("config updated")
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) resolveDepth(requested *int) (int, error) {
	cfg := s.store.Get()
	if requested == nil {
		return cfg.Depth, nil
	}
	if d := *requested; d < 0 || d > cfg.MaxDepth {
		return 0, fmt.Errorf("%w: %d outside [0,%d]", engine.ErrInvalidDepth, d, cfg.MaxDepth)
	}
	return *requested, nil
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	o := s.hub.join()
	s.log.Debug().Int("observers", s.hub.Observers()).Msg("observer joined")
	s.sendBoard(o)

	go func() {
		defer conn.Close()
		if err := streamFrames(conn, o.frames); err != nil {
			s.log.Debug().Err(err).Msg("websocket writer stopped")
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			s.hub.leave(o)
			s.log.Debug().Int("observers", s.hub.Observers()).Msg("observer left")
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_board":
			s.sendBoard(o)
		}
	}
}

func (s *Server) sendBoard(o *observer) {
	s.mu.Lock()
	state := boardState(s.game)
	s.mu.Unlock()
	frame, err := encodeFrame(msgBoard, state)
	if err != nil {
		s.log.Error().Err(err).Msg("encode board")
		return
	}
	o.offer(frame)
}

func boardState(g *engine.Game) boardResponse {
	b := g.Board()
	grid := make([][]int, mg.Rows)
	for r := range grid {
		grid[r] = make([]int, mg.Cols)
		for c := range grid[r] {
			grid[r][c] = int(b[r][c])
		}
	}
	state := boardResponse{
		Grid:        grid,
		FEN:         g.FEN(),
		SideToMove:  g.SideToMove().String(),
		Value:       g.Value(),
		GameOver:    g.IsGameOver(),
		Captured:    []string{},
		History:     []string{},
		Repetitions: g.Repetitions(),
		Seen:        g.SeenPlacements(),
	}
	if w, ok := g.Winner(); ok {
		state.Winner = w.String()
	}
	for _, p := range g.Captured() {
		state.Captured = append(state.Captured, p.String())
	}
	for _, m := range g.History() {
		state.History = append(state.History, m.String())
	}
	return state
}

func searchResult(m mg.Move, v float64, depth int, st engine.SearchStats) searchResponse {
	return searchResponse{
		Move:    m.String(),
		Value:   v,
		Depth:   depth,
		Nodes:   st.Nodes,
		Cutoffs: st.Cutoffs,
		Skipped: st.Repetitions,
		Elapsed: float64(st.Elapsed.Microseconds()) / 1000,
	}
}

// decodeOptional accepts an empty body as the zero payload.
func decodeOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, engine.ErrNoLegalMoves):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info().
					Str("request_id", middleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("elapsed", time.Since(start)).
					Msg("request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

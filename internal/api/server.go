// Package api exposes level simulations over HTTP so external level
// orchestrators can start a simulation, step it turn by turn or stream
// its turns over a websocket, and read back persisted runs.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/playtest-arcade/internal/balance"
	"github.com/vovakirdan/playtest-arcade/internal/config"
	"github.com/vovakirdan/playtest-arcade/internal/games/match3"
	"github.com/vovakirdan/playtest-arcade/internal/storage"
)

// Error types returned in the "type" field of error responses.
const (
	ErrTypeBadRequest  = "bad_request"
	ErrTypeValidation  = "validation"
	ErrTypeNotFound    = "not_found"
	ErrTypeUnavailable = "unavailable"
	ErrTypeInternal    = "internal"
)

// Server handles HTTP requests.
type Server struct {
	levels  []config.Level
	manager *Manager
	store   *storage.Store
	logger  *log.Logger
	now     func() time.Time
}

// NewServer creates an API server. store may be nil, in which case run
// history endpoints answer 503 and finished simulations are not saved.
func NewServer(levels []config.Level, store *storage.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		levels:  levels,
		manager: NewManager(),
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
}

// Manager returns the server's handle manager.
func (s *Server) Manager() *Manager { return s.manager }

// Routes sets up the HTTP routes with middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))

	// Streams outlive a request timeout.
	r.Get("/simulations/{id}/stream", s.handleStream)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/levels", s.handleListLevels)

		r.Post("/simulations", s.handleCreateSimulation)
		r.Get("/simulations/{id}", s.handleGetSimulation)
		r.Delete("/simulations/{id}", s.handleDeleteSimulation)
		r.Post("/simulations/{id}/step", s.handleStep)

		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Get("/stats", s.handleStats)
	})

	return r
}

// requestLogger logs every request with its status and latency.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// CreateRequest starts a simulation either from a level of the pack or
// from explicit settings.
type CreateRequest struct {
	LevelID    string           `json:"level_id,omitempty"`
	Settings   *match3.Settings `json:"settings,omitempty"`
	Difficulty string           `json:"difficulty,omitempty"`
	Seed       *int64           `json:"seed,omitempty"`
}

// SimulationResponse describes a simulation handle.
type SimulationResponse struct {
	ID         string           `json:"id"`
	LevelID    string           `json:"level_id,omitempty"`
	Difficulty string           `json:"difficulty"`
	Seed       int64            `json:"seed"`
	Snapshot   match3.Snapshot  `json:"snapshot"`
	Verdict    *balance.Verdict `json:"verdict,omitempty"`
}

// StepResponse is the result of one turn.
type StepResponse struct {
	Turn     match3.TurnOutcome `json:"turn"`
	Snapshot match3.Snapshot    `json:"snapshot"`
	Verdict  *balance.Verdict   `json:"verdict,omitempty"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (s *Server) handleListLevels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.levels)
}

func (s *Server) handleCreateSimulation(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrTypeBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	var settings match3.Settings
	difficulty, err := config.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrTypeBadRequest, err.Error())
		return
	}

	switch {
	case req.LevelID != "" && req.Settings != nil:
		writeError(w, http.StatusBadRequest, ErrTypeBadRequest, "give either level_id or settings, not both")
		return
	case req.LevelID != "":
		lvl, err := config.FindLevel(s.levels, req.LevelID)
		if err != nil {
			writeError(w, http.StatusNotFound, ErrTypeNotFound, err.Error())
			return
		}
		if lvl.Kind != config.KindMatch3 {
			writeError(w, http.StatusBadRequest, ErrTypeBadRequest, "level "+lvl.ID+" is not a match3 level")
			return
		}
		settings = match3.SettingsFromLevel(lvl.Match3)
		if req.Difficulty == "" {
			difficulty = lvl.Difficulty
		}
	case req.Settings != nil:
		settings = *req.Settings
	default:
		writeError(w, http.StatusBadRequest, ErrTypeBadRequest, "level_id or settings is required")
		return
	}

	seed := s.now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	h, err := s.manager.Create(req.LevelID, difficulty, settings, seed)
	if err != nil {
		var ve match3.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusBadRequest, apiError{Type: ErrTypeValidation, Message: ve.Message, Code: ve.Code})
			return
		}
		writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error())
		return
	}

	s.logger.Info("simulation created", "id", h.ID, "level_id", h.LevelID, "seed", seed)
	snap, verdict := h.Snapshot()
	writeJSON(w, http.StatusCreated, simulationResponse(h, snap, verdict))
}

func (s *Server) handleGetSimulation(w http.ResponseWriter, r *http.Request) {
	h, ok := s.lookup(w, r)
	if !ok {
		return
	}
	snap, verdict := h.Snapshot()
	writeJSON(w, http.StatusOK, simulationResponse(h, snap, verdict))
}

func (s *Server) handleDeleteSimulation(w http.ResponseWriter, r *http.Request) {
	if !s.manager.Delete(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, ErrTypeNotFound, "simulation not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	h, ok := s.lookup(w, r)
	if !ok {
		return
	}
	resp, finished := h.Step()
	if finished {
		s.finish(h)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := s.store.RecentRuns(r.URL.Query().Get("level"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error())
		return
	}
	if runs == nil {
		runs = []storage.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	run, err := s.store.RunByID(chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, ErrTypeNotFound, "run not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	if !s.requireStore(w) {
		return
	}
	stats, err := s.store.AllLevelStats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error())
		return
	}
	if stats == nil {
		stats = []storage.LevelStats{}
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*Handle, bool) {
	h, ok := s.manager.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, ErrTypeNotFound, "simulation not found")
	}
	return h, ok
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, ErrTypeUnavailable, "run history is not enabled")
		return false
	}
	return true
}

// finish logs and persists a simulation that just terminated.
func (s *Server) finish(h *Handle) {
	run := h.run()
	s.logger.Info("simulation finished",
		"id", h.ID,
		"level_id", h.LevelID,
		"result", run.Result,
		"score", run.Score,
		"balanced", run.Balanced,
	)
	if s.store == nil {
		return
	}
	if _, err := s.store.SaveRun(run); err != nil {
		s.logger.Error("cannot save run", "id", h.ID, "err", err)
	}
}

func simulationResponse(h *Handle, snap match3.Snapshot, v *balance.Verdict) SimulationResponse {
	return SimulationResponse{
		ID:         h.ID,
		LevelID:    h.LevelID,
		Difficulty: string(h.Difficulty),
		Seed:       h.Seed,
		Snapshot:   snap,
		Verdict:    v,
	}
}

// writeJSON writes a JSON response with proper headers.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, apiError{Type: errType, Message: message})
}

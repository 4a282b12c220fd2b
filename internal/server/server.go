// Package server exposes the tutor over HTTP: syntax highlighting, streamed
// analysis and the learner's progress.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/codetutor/codetutor/internal/curriculum"
	"github.com/codetutor/codetutor/internal/feedback"
	"github.com/codetutor/codetutor/internal/highlight"
	"github.com/codetutor/codetutor/internal/lang"
	"github.com/codetutor/codetutor/internal/rewards"
	"github.com/codetutor/codetutor/internal/state"
	"github.com/codetutor/codetutor/internal/tutor"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// Trailers sent after a streamed analysis.
const (
	TrailerPoints     = "X-Codetutor-Points"
	TrailerTaskSolved = "X-Codetutor-Task-Solved"
)

// Server serves the HTTP API. Handlers run concurrently; mu serialises
// every access to the shared state.
type Server struct {
	tutor      *tutor.Service
	controller state.Controller
	curriculum *curriculum.Curriculum
	logger     *log.Logger

	mu    sync.Mutex
	state *state.Shared
}

// New creates a server. tutorSvc may be nil, in which case analysis
// requests get 503.
func New(st *state.Shared, ctrl state.Controller, tutorSvc *tutor.Service, logger *log.Logger) *Server {
	return &Server{
		tutor:      tutorSvc,
		controller: ctrl,
		curriculum: ctrl.Curriculum,
		logger:     logger,
		state:      st,
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/highlight", s.handleHighlight)
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/progress", s.handleProgress)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
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

type highlightRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

type highlightResponse struct {
	HTML string `json:"html"`
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	var req highlightRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	l, err := lang.Parse(req.Language)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, highlightResponse{
		HTML: highlight.Sanitize(highlight.HTML(req.Code, l)),
	})
}

type analyzeRequest struct {
	Code       string `json:"code"`
	Language   string `json:"language"`
	Difficulty string `json:"difficulty"`
	Mode       string `json:"mode"`
	TaskID     string `json:"taskId"`
}

// workspace validates req into the workspace the analysis runs against.
func (s *Server) workspace(req analyzeRequest) (state.Workspace, feedback.Mode, error) {
	if strings.TrimSpace(req.Code) == "" {
		return state.Workspace{}, "", errors.New("code is required")
	}
	w := state.Workspace{Language: lang.Python, Difficulty: lang.Beginner, Code: req.Code}

	if req.Language != "" {
		l, err := lang.Parse(req.Language)
		if err != nil {
			return w, "", err
		}
		w.Language = l
	}
	if req.Difficulty != "" {
		d, err := lang.ParseDifficulty(req.Difficulty)
		if err != nil {
			return w, "", err
		}
		w.Difficulty = d
	}

	mode := feedback.ModeAnalyze
	if req.Mode != "" {
		m, ok := feedback.ParseMode(req.Mode)
		if !ok {
			return w, "", fmt.Errorf("unknown mode %q", req.Mode)
		}
		mode = m
	}

	if req.TaskID != "" {
		task, ok := s.curriculum.Task(req.TaskID)
		if !ok {
			return w, "", fmt.Errorf("unknown task %q", req.TaskID)
		}
		code := w.Code
		w = s.controller.OpenTask(w, task)
		w.Code = code
	}
	return w, mode, nil
}

// handleAnalyze streams the feedback as plain text. Points and the task
// result are reported in trailers once the stream completes.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ws, mode, err := s.workspace(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if s.tutor == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("no AI provider configured"))
		return
	}

	var p feedback.Pipeline
	if err := p.Start(mode, ws.InTask()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	flusher, _ := w.(http.Flusher)
	started := false
	sent := ""
	render := func(display string) {
		if !started {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("Trailer", TrailerPoints+", "+TrailerTaskSolved)
			w.WriteHeader(http.StatusOK)
			started = true
		}
		// The display only shrinks while a success marker is being
		// stripped; nothing is written until it grows past what was sent.
		if !strings.HasPrefix(display, sent) {
			return
		}
		if _, err := w.Write([]byte(display[len(sent):])); err != nil {
			return
		}
		sent = display
		if flusher != nil {
			flusher.Flush()
		}
	}

	out, err := p.Run(r.Context(), s.tutor.Analyze(r.Context(), tutor.AnalyzeInput{
		Code:       ws.Code,
		Language:   ws.Language,
		Difficulty: ws.Difficulty,
		Task:       ws.Task,
		Mode:       mode,
	}), render)
	if err != nil {
		s.logger.Warn("analysis failed", "mode", mode, "err", err)
		if !started {
			writeError(w, statusFor(err), errors.New(p.Message()))
			return
		}
		fmt.Fprintf(w, "\n\n⚠ %s\n", p.Message())
		return
	}
	if !started {
		render("")
	}

	d := s.record(func(st state.State) state.Decision {
		return s.controller.AfterAnalysis(st.Progress, ws, mode, out)
	})
	w.Header().Set(TrailerPoints, fmt.Sprint(d.Grant.Points))
	w.Header().Set(TrailerTaskSolved, fmt.Sprint(d.Completed != nil))
}

// record applies a reward decision to the shared state.
func (s *Server) record(decide func(state.State) state.Decision) state.Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state.Get()
	d := decide(st)
	if d.Changed() {
		next, keys := st.WithProgress(d.Progress)
		if err := s.state.Set(context.Background(), next, keys); err != nil {
			s.logger.Warn("persist progress", "err", err)
		}
	}
	return d
}

type progressResponse struct {
	User       state.User        `json:"user"`
	Points     int               `json:"points"`
	Level      string            `json:"level"`
	TotalTasks int               `json:"totalTasks"`
	Analytics  rewards.Analytics `json:"analytics"`
}

func (s *Server) handleProgress(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	st := s.state.Get().Clone()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, progressResponse{
		User:       st.User,
		Points:     st.Progress.Points,
		Level:      st.Level().Name,
		TotalTasks: s.curriculum.TotalTasks(),
		Analytics:  st.Progress.Analytics,
	})
}

func statusFor(err error) int {
	var limit *tutor.ErrDailyLimit
	switch {
	case errors.As(err, &limit):
		return http.StatusTooManyRequests
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusBadGateway
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

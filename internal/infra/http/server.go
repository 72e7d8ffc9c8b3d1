package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"question-notifier/internal/domain"
	"question-notifier/internal/questions"
)

// Scheduler описывает часть планировщика, доступную через HTTP.
type Scheduler interface {
	CurrentQuestion() (index int, question string, ok bool)
	AssignQuestion(ctx context.Context, userID string, index int) (string, error)
}

// Server оборачивает chi.Router с базовыми middlewares.
type Server struct {
	Router chi.Router
	log    zerolog.Logger
	srv    *http.Server
}

// NewServer создаёт HTTP сервер со служебными и административными маршрутами.
func NewServer(logger zerolog.Logger, scheduler Scheduler, adminToken string) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	h := handlers{scheduler: scheduler, log: logger}
	r.Get("/api/v1/scheduler/state", h.state)
	r.Group(func(admin chi.Router) {
		admin.Use(AdminTokenMiddleware(adminToken))
		admin.Post("/api/v1/users/{id}/question", h.assignQuestion)
	})
	return &Server{Router: r, log: logger}
}

// Start запускает http.Server и блокируется до остановки.
func (s *Server) Start(addr string) error {
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	s.log.Info().Str("addr", addr).Msg("HTTP сервер запущен")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown позволяет корректно завершить работу.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

type handlers struct {
	scheduler Scheduler
	log       zerolog.Logger
}

type stateResponse struct {
	Chosen   bool   `json:"chosen"`
	Index    int    `json:"index"`
	Question string `json:"question,omitempty"`
}

func (h handlers) state(w http.ResponseWriter, r *http.Request) {
	index, question, ok := h.scheduler.CurrentQuestion()
	writeJSON(w, http.StatusOK, stateResponse{Chosen: ok, Index: index, Question: question})
}

type assignRequest struct {
	Index *int `json:"index"`
}

func (h handlers) assignQuestion(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	userID := chi.URLParam(r, "id")
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Index == nil {
		writeError(w, http.StatusBadRequest, "index is required")
		return
	}
	question, err := h.scheduler.AssignQuestion(r.Context(), userID, *req.Index)
	switch {
	case errors.Is(err, questions.ErrIndexOutOfRange):
		writeError(w, http.StatusBadRequest, "index out of range")
		return
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
		return
	case err != nil:
		h.log.Error().Err(err).Str("user", userID).Msg("http: не удалось назначить вопрос")
		writeError(w, http.StatusInternalServerError, "failed to assign question")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":     userID,
		"index":    *req.Index,
		"question": question,
	})
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http: запрос")
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

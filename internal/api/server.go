package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"kinetic/internal/logging"
	"kinetic/internal/metrics"
	"kinetic/internal/services"
	"kinetic/internal/store"
	"kinetic/internal/workflow"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Options wires the router to the daemon's components.
type Options struct {
	Store    *store.Store
	Workflow *workflow.Manager
	// Status builds the /api/status payload. When nil only workflow state is reported.
	Status func(ctx context.Context) DaemonStatus
	Token  string
	Logger *slog.Logger
}

type server struct {
	store    *store.Store
	workflow *workflow.Manager
	status   func(ctx context.Context) DaemonStatus
	logger   *slog.Logger
}

// NewHandler builds the HTTP router.
func NewHandler(opts Options) http.Handler {
	s := &server{
		store:    opts.Store,
		workflow: opts.Workflow,
		status:   opts.Status,
		logger:   logging.NewComponentLogger(opts.Logger, "api-server"),
	}
	metrics.Register()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestContext)

	r.Get("/healthz", s.handleHealthz)
	r.Group(func(r chi.Router) {
		r.Use(bearerAuth(opts.Token))
		r.Handle("/metrics", metrics.Handler())
		r.Route("/api", func(r chi.Router) {
			r.Get("/status", s.handleStatus)

			r.Get("/projects", s.handleListProjects)
			r.Post("/projects", s.handleCreateProject)
			r.Get("/projects/{id}", s.handleGetProject)
			r.Delete("/projects/{id}", s.handleDeleteProject)
			r.Post("/projects/{id}/jobs", s.handleCreateProjectJob)

			r.Get("/jobs", s.handleListJobs)
			r.Post("/jobs", s.handleCreateJob)
			r.Get("/jobs/{id}", s.handleGetJob)

			r.Get("/media", s.handleListMedia)
			r.Get("/media/{id}/file", s.handleMediaFile)
		})
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// requestContext tags each request with a request id and logs its outcome.
func (s *server) requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := services.WithRequestID(r.Context(), requestID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))

		logging.WithContext(ctx, s.logger).Debug("api request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", ww.Status()),
			logging.Duration("duration", time.Since(start)))
	})
}

func (s *server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.status != nil {
		s.writeJSON(w, http.StatusOK, s.status(r.Context()))
		return
	}
	summary := s.workflow.Status(r.Context())
	s.writeJSON(w, http.StatusOK, DaemonStatus{
		Running:  summary.Running,
		Workflow: FromStatusSummary(summary),
	})
}

func (s *server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps the error taxonomy onto HTTP status codes.
func (s *server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	default:
		logging.WithContext(r.Context(), s.logger).Error("request failed",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "api_request_failed"),
			logging.String(logging.FieldErrorHint, "check daemon logs and database access"))
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return services.Wrap(services.ErrValidation, "", "decode request", "invalid JSON body", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, services.Wrap(services.ErrValidation, "", "parse path", "invalid "+name+" "+strconv.Quote(raw), nil)
	}
	return id, nil
}

// Package server exposes the insight pipeline over REST and WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/finlens/insight-go/core"
	"github.com/finlens/insight-go/logger"
	"github.com/finlens/insight-go/pipeline"
)

// noDataMessage is the user-facing explanation for core.ErrNoData.
const noDataMessage = "no transaction data to analyze. Sync your accounts first."

// Config configures the server.
type Config struct {
	// Addr is the listen address.
	Addr string

	// AuthFunc validates requests and returns a user ID.
	// If nil, the X-User-ID header is used (not recommended for
	// production).
	AuthFunc func(r *http.Request) (userID string, err error)

	// RequestTimeout bounds REST handlers. Zero means 120s, long enough
	// for a full generation.
	RequestTimeout time.Duration
}

// Pinger reports storage health for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server routes insight requests to the pipeline.
type Server struct {
	cfg      Config
	insights *pipeline.Service
	pinger   Pinger
	upgrader websocket.Upgrader
}

// New creates a server around the pipeline service.
func New(cfg Config, insights *pipeline.Service, pinger Pinger) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 120 * time.Second
	}
	return &Server{
		cfg:      cfg,
		insights: insights,
		pinger:   pinger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in development
			},
		},
	}
}

// Router builds the HTTP handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// The websocket stays outside the timeout middleware so the
		// connection can outlive a single generation.
		r.Get("/ws", s.handleWS)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(s.cfg.RequestTimeout))
			r.Get("/insights/types", s.handleTypes)
			r.Get("/insights/{type}", s.handleLatest)
			r.Get("/insights/{type}/history", s.handleHistory)
			r.Post("/insights/{type}/generate", s.handleGenerate)
			r.Delete("/insights/{type}", s.handlePurge)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().WithField("addr", srv.Addr).Info("insight server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down insight server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.L().WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"durationMs": time.Since(start).Milliseconds(),
			"requestID":  middleware.GetReqID(r.Context()),
		}).Info("request handled")
	})
}

// userID resolves the caller's identity.
func (s *Server) userID(r *http.Request) (string, error) {
	if s.cfg.AuthFunc != nil {
		return s.cfg.AuthFunc(r)
	}
	id := r.Header.Get("X-User-ID")
	if id == "" {
		return "", errors.New("missing X-User-ID header")
	}
	return id, nil
}

// identify writes a 401 and returns false when the caller is anonymous.
func (s *Server) identify(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := s.userID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", err.Error())
		return "", false
	}
	return id, true
}

// insightType parses the {type} route parameter, writing a 400 on
// unknown values.
func insightType(w http.ResponseWriter, r *http.Request) (core.InsightType, bool) {
	t, err := core.ParseInsightType(chi.URLParam(r, "type"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "unknown insight type", err.Error())
		return "", false
	}
	return t, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := s.pinger.Ping(ctx); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"types": core.TypeDefinitions()})
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identify(w, r)
	if !ok {
		return
	}
	t, ok := insightType(w, r)
	if !ok {
		return
	}

	res, err := s.insights.Latest(r.Context(), userID, t)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			respondError(w, http.StatusNotFound, "no analysis found", "generate one first")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load analysis", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identify(w, r)
	if !ok {
		return
	}
	t, ok := insightType(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid limit", err.Error())
			return
		}
		limit = n
	}

	recs, err := s.insights.History(r.Context(), userID, t, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load history", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"type":    t,
		"history": recs,
		"count":   len(recs),
	})
}

type generateRequest struct {
	Force bool `json:"force"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identify(w, r)
	if !ok {
		return
	}
	t, ok := insightType(w, r)
	if !ok {
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	res, err := s.insights.Run(r.Context(), userID, t, pipeline.RunOptions{Force: req.Force})
	if err != nil {
		if errors.Is(err, core.ErrNoData) {
			respondError(w, http.StatusUnprocessableEntity, noDataMessage, "")
			return
		}
		respondError(w, http.StatusBadGateway, "insight generation failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handlePurge(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identify(w, r)
	if !ok {
		return
	}
	t, ok := insightType(w, r)
	if !ok {
		return
	}

	n, err := s.insights.Purge(r.Context(), userID, t)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to purge history", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"removed": n})
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L().Errorf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg, details string) {
	respondJSON(w, status, errorResponse{Error: msg, Details: details})
}

// Package server implements the companion backend: the {message} -> {response}
// HTTP contract that chat profiles post to, answered by an OpenAI-compatible LLM.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Error details returned to clients
const (
	DetailEmptyMessage = "Mensaje vacío"
	DetailInvalidJSON  = "JSON inválido"
)

// completionTimeout bounds a single LLM call
const completionTimeout = 120 * time.Second

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Server routes chat requests to the LLM
type Server struct {
	router  *chi.Mux
	llm     LLM
	prompts *Prompts
	cfg     Config
	logger  zerolog.Logger
}

// New creates a Server. prompts must not be nil.
func New(cfg Config, llm LLM, prompts *Prompts, logger zerolog.Logger) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.origins(),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Origin", "X-Requested-With"},
		MaxAge:         300,
	}))

	s := &Server{
		router:  r,
		llm:     llm,
		prompts: prompts,
		cfg:     cfg,
		logger:  logger,
	}
	r.Use(s.requestLogger)
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/", s.handleRoot)
	s.router.Get("/health", s.handleHealth)
	s.router.Post("/api/chat", s.handleChat)
	s.router.Post("/option/", s.handleOption)
	s.router.Post("/option", s.handleOption)
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Str("llm_base_url", s.cfg.LLMBaseURL).Msg("companion backend listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "chatclient companion backend running"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleChat answers free text in Spanish
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	message, ok := s.decodeMessage(w, r)
	if !ok {
		return
	}

	s.complete(w, r, Completion{
		User:     s.prompts.Chat.Prefix + message,
		Sampling: s.prompts.Sampling,
	})
}

// handleOption answers the crypto-advisor preset questions. Messages that
// match no topic get the fallback text without calling the LLM.
func (s *Server) handleOption(w http.ResponseWriter, r *http.Request) {
	message, ok := s.decodeMessage(w, r)
	if !ok {
		return
	}

	topic, found := s.prompts.MatchTopic(message)
	if !found {
		s.writeJSON(w, http.StatusOK, chatResponse{Response: s.prompts.Option.Fallback})
		return
	}

	s.logger.Debug().Str("topic", topic.Name).Msg("option matched")
	s.complete(w, r, Completion{
		System:   strings.TrimSpace(s.prompts.Option.System + "\n\n" + topic.Instruction),
		User:     message,
		Sampling: s.prompts.Sampling,
	})
}

// decodeMessage reads and trims the message; it writes the 400 itself on failure
func (s *Server) decodeMessage(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, DetailInvalidJSON)
		return "", false
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		s.writeError(w, http.StatusBadRequest, DetailEmptyMessage)
		return "", false
	}
	return message, true
}

func (s *Server) complete(w http.ResponseWriter, r *http.Request, c Completion) {
	ctx, cancel := context.WithTimeout(r.Context(), completionTimeout)
	defer cancel()

	start := time.Now()
	reply, err := s.llm.Complete(ctx, c)
	if err != nil {
		s.logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("completion failed")
		s.writeError(w, http.StatusBadGateway, fmt.Sprintf("LLM error: %v", err))
		return
	}

	s.logger.Debug().Dur("elapsed", time.Since(start)).Int("reply_len", len(reply)).Msg("completion done")
	s.writeJSON(w, http.StatusOK, chatResponse{Response: reply})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn().Err(err).Msg("failed to write response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, errorResponse{Detail: detail})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

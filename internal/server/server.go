package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"pdf-rag/internal/config"
	"pdf-rag/internal/indexer"
	"pdf-rag/internal/models"
	"pdf-rag/internal/rag"
	"pdf-rag/internal/session"
)

const (
	SessionHeader = "X-Session-ID"
	filesField    = "files"

	multipartMemory = 8 << 20
)

// Builder builds the index for one upload batch.
type Builder interface {
	Build(ctx context.Context, files []models.File) (*indexer.Result, error)
}

// Querier answers a question against an index.
type Querier interface {
	Query(ctx context.Context, index rag.Searcher, query string) (*models.PromptResponse, error)
}

type Server struct {
	cfg      config.ServerConfig
	indexer  Builder
	rag      Querier
	sessions *session.Store
}

func New(cfg config.ServerConfig, indexer Builder, querier Querier, sessions *session.Store) *Server {
	return &Server{
		cfg:      cfg,
		indexer:  indexer,
		rag:      querier,
		sessions: sessions,
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/upload", s.handleUpload).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/ask", s.handleAsk).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/session", s.handleGetSession).Methods(http.MethodGet)
	r.HandleFunc("/session", s.handleCreateSession).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/session", s.handleDeleteSession).Methods(http.MethodDelete)

	r.Use(mux.CORSMethodMiddleware(r))
	r.Use(s.cors)
	return r
}

// Handler is the router wrapped with request logging and tracing.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Router()
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})(h)
	h = hlog.RequestIDHandler("req_id", "Request-Id")(h)
	h = hlog.NewHandler(log.Logger)(h)
	return otelhttp.NewHandler(h, "pdf-rag")
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := s.allowedOrigin(r.Header.Get("Origin")); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+SessionHeader)
			w.Header().Set("Access-Control-Expose-Headers", SessionHeader)
			if origin != "*" {
				w.Header().Add("Vary", "Origin")
			}
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowedOrigin(origin string) string {
	for _, o := range s.cfg.CORSOrigins {
		if o == "*" {
			return "*"
		}
		if origin != "" && o == origin {
			return origin
		}
	}
	return ""
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.cfg.Addr).Msg("Listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Strs("sessions", s.sessions.ListIDs()).Msg("Shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

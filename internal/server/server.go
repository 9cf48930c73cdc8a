package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/teemow/mailgate/internal/config"
	"github.com/teemow/mailgate/internal/gmail"
	"github.com/teemow/mailgate/internal/session"
)

const (
	defaultReadHeaderTimeout = 10 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
)

// AuthFlow drives the delegated authorization against the mail provider.
type AuthFlow interface {
	AuthorizationRequest() (authURL, state string, err error)
	Exchange(ctx context.Context, code string) (*session.ProviderCredential, error)
	FetchIdentity(ctx context.Context, cred *session.ProviderCredential) (string, error)
}

// SessionStore is the authority over bearer-token validity and provider
// credential freshness.
type SessionStore interface {
	Issue(owner string, cred *session.ProviderCredential) (string, error)
	Resolve(token string) (*session.Entry, error)
	LiveCredential(ctx context.Context, token string) (*session.ProviderCredential, error)
	Revoke(token string) bool
}

// Mailbox performs mailbox operations with a live provider credential.
type Mailbox interface {
	List(ctx context.Context, query string, pageSize int64, pageToken string, labelIDs []string) (*gmail.ListResult, error)
	Get(ctx context.Context, messageID string) (*gmail.MessageDetail, error)
	AddLabels(ctx context.Context, messageID string, labelIDs []string) *gmail.LabelOutcome
	RemoveLabels(ctx context.Context, messageID string, labelIDs []string) *gmail.LabelOutcome
	Trash(ctx context.Context, messageID string) (*gmail.TrashOutcome, error)
	ListLabels(ctx context.Context) ([]gmail.Label, error)
}

// MailboxFactory builds a Mailbox for one request from a live credential.
type MailboxFactory func(ctx context.Context, cred *session.ProviderCredential, owner string) (Mailbox, error)

// Server is the gateway's HTTP front end.
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	auth    AuthFlow
	store   SessionStore
	mailbox MailboxFactory
	metrics *Metrics

	httpServer *http.Server
	startTime  time.Time
}

// NewServer wires the HTTP surface. metrics may be nil to disable
// instrumentation (tests).
func NewServer(cfg *config.Config, logger *slog.Logger, auth AuthFlow, store SessionStore, factory MailboxFactory, metrics *Metrics) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:       cfg,
		logger:    logger,
		auth:      auth,
		store:     store,
		mailbox:   factory,
		metrics:   metrics,
		startTime: time.Now(),
	}
}

// Router builds the chi router with all gateway routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}

	r.Get("/auth/login", s.handleLogin)
	r.Get("/auth/callback", s.handleCallback)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireSession)

		r.Get("/messages", s.handleListMessages)
		r.Get("/messages/{messageID}", s.handleGetMessage)
		r.Post("/messages/{messageID}/labels", s.handleAddLabels)
		r.Delete("/messages/{messageID}/labels", s.handleRemoveLabels)
		r.Post("/messages/{messageID}/trash", s.handleTrashMessage)
		r.Get("/labels", s.handleListLabels)
	})

	r.Get("/mcp/tools", s.handleToolCatalog)
	r.Get("/health", s.handleHealth)

	return r
}

// Start runs the HTTP server until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.Router(),
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
	}

	s.logger.Info("starting gateway server", slog.String("addr", s.cfg.ListenAddr()))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("shutting down gateway server")
	return s.httpServer.Shutdown(ctx)
}

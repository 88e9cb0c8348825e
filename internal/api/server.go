// Package api exposes the portal operations over HTTP. Each route
// authenticates the caller and delegates to the same handler the Zeebe
// worker runs, so both paths share validation and persistence.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"legal-workers/internal/common/auth"
	"legal-workers/internal/common/config"
	"legal-workers/internal/common/logger"
	"legal-workers/internal/store"
	portalstats "legal-workers/internal/workers/admin/portal-stats"
	getcasestatus "legal-workers/internal/workers/cases/get-case-status"
	generatefir "legal-workers/internal/workers/fir/generate-fir"
	notifyfir "legal-workers/internal/workers/fir/notify-fir"
	searchfirs "legal-workers/internal/workers/fir/search-firs"
	updatefirstatus "legal-workers/internal/workers/fir/update-fir-status"
	classifyquery "legal-workers/internal/workers/legal-assistant/classify-query"
	getchathistory "legal-workers/internal/workers/legal-assistant/get-chat-history"
	suggestipcsections "legal-workers/internal/workers/legal-assistant/suggest-ipc-sections"
)

// TokenValidator is satisfied by *auth.KeycloakClient.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*auth.TokenInfo, error)
}

type RoleResolver interface {
	Role(ctx context.Context, userID string) (string, error)
}

// Directory answers the read-only lookups that have no worker of their own.
type Directory interface {
	GetUser(ctx context.Context, userID string) (*store.User, error)
	ListFIRsByUser(ctx context.Context, userID string) ([]store.FIR, error)
	ListFIRs(ctx context.Context, limit int) ([]store.FIR, error)
}

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Handlers are the worker handlers the routes delegate to. A nil handler
// makes its routes answer 501.
type Handlers struct {
	Classify     *classifyquery.Handler
	SuggestIPC   *suggestipcsections.Handler
	ChatHistory  *getchathistory.Handler
	GenerateFIR  *generatefir.Handler
	UpdateStatus *updatefirstatus.Handler
	SearchFIRs   *searchfirs.Handler
	NotifyFIR    *notifyfir.Handler
	CaseStatus   *getcasestatus.Handler
	PortalStats  *portalstats.Handler
}

type Deps struct {
	Handlers  Handlers
	Tokens    TokenValidator
	Roles     RoleResolver
	Directory Directory
	Readiness map[string]ReadinessCheck
	Version   string
}

type Server struct {
	cfg     config.ServerConfig
	deps    Deps
	router  *mux.Router
	limiter *ipLimiter
	http    *http.Server
	logger  logger.Logger
}

func NewServer(cfg config.ServerConfig, deps Deps, log logger.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		deps:    deps,
		router:  mux.NewRouter(),
		limiter: newIPLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		logger:  log.WithFields(map[string]interface{}{"component": "api"}),
	}
	s.routes()

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	s.http = &http.Server{
		Addr:         cfg.Address,
		Handler:      c.Handler(s.router),
		ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.WriteTimeout),
		IdleTimeout:  2 * time.Minute,
	}
	return s
}

func (s *Server) routes() {
	s.router.Use(s.recoverMiddleware, s.metricsMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	public := s.router.PathPrefix("/api").Subrouter()
	public.Use(s.rateLimitMiddleware)
	public.HandleFunc("/chatbot/suggested-questions", s.handleSuggestedQuestions).Methods(http.MethodGet)
	public.HandleFunc("/emergency-contacts", s.handleEmergencyContacts).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.rateLimitMiddleware, s.authMiddleware)

	api.HandleFunc("/auth/user", s.handleCurrentUser).Methods(http.MethodGet)

	api.HandleFunc("/chatbot", s.handleChatbot).Methods(http.MethodPost)
	api.HandleFunc("/chat", s.handleChatbot).Methods(http.MethodPost)
	api.HandleFunc("/chat/history", s.handleChatHistory).Methods(http.MethodGet)
	api.HandleFunc("/ai/ipc-suggestions", s.handleIPCSuggestions).Methods(http.MethodPost)

	api.HandleFunc("/fir/generate", s.handleGenerateFIR).Methods(http.MethodPost)
	api.HandleFunc("/fir", s.handleGenerateFIR).Methods(http.MethodPost)
	api.HandleFunc("/fir/user", s.handleUserFIRs).Methods(http.MethodGet)
	api.HandleFunc("/fir/all", s.handleAllFIRs).Methods(http.MethodGet)
	api.HandleFunc("/fir/search", s.handleSearchFIRs).Methods(http.MethodGet)
	api.HandleFunc("/fir/{id}/status", s.handleUpdateFIRStatus).Methods(http.MethodPut)

	api.HandleFunc("/case-status", s.handleCaseStatus).Methods(http.MethodGet)
	api.HandleFunc("/cases/user", s.handleCaseStatus).Methods(http.MethodGet)
	api.HandleFunc("/case-status/{caseId}", s.handleCaseStatus).Methods(http.MethodGet)

	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	api.HandleFunc("/audit", s.handleAudit).Methods(http.MethodGet)
}

// Handler returns the full middleware chain, CORS included.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) Start() error {
	s.logger.Info("starting api server", map[string]interface{}{"address": s.cfg.Address})
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

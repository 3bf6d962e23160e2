package api

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"

	"github.com/medadhere/console/pkg/auth"
	"github.com/medadhere/console/pkg/httputil"
	"github.com/medadhere/console/pkg/middleware"
	"github.com/medadhere/console/pkg/observability"
)

// maxBodyBytes bounds request bodies; the console only ever receives small
// JSON documents
const maxBodyBytes = 1 << 20

// Auditor records security and data-mutation events. Implemented by
// pkg/audit; an interface here keeps the dependency one-directional.
type Auditor interface {
	LoginSucceeded(email string)
	LoginFailed(email string)
	LoggedOut(email string)
	CohortCreated(actor, name string)
	CohortUpdated(actor, name string)
	CohortDeleted(actor, name string)
	CapUpdated(actor string, capID int)
	QuestionCreated(actor, text string)
}

// AdherenceProvider serves cohort adherence summaries. Implemented by
// pkg/adherence.
type AdherenceProvider interface {
	CohortSummary(cohortID string) (AdherenceSummary, error)
}

// Options configures a Server
type Options struct {
	Store     Store
	Codec     *auth.TokenCodec
	Audit     Auditor
	Adherence AdherenceProvider
	Logger    *observability.Logger
	Metrics   *observability.Metrics

	// TokenTTL is the session lifetime applied to minted tokens
	TokenTTL time.Duration
	// Production toggles the Secure cookie attribute
	Production bool
	// StaticDir holds the built dashboard UI; empty disables page serving
	StaticDir string
}

// Server is the admin console HTTP server: the auth endpoints, the
// session-gated dashboard pages, and the session-protected data API.
type Server struct {
	router    *mux.Router
	handler   http.Handler
	store     Store
	codec     *auth.TokenCodec
	audit     Auditor
	adherence AdherenceProvider
	logger    *observability.Logger
	metrics   *observability.Metrics

	tokenTTL   time.Duration
	production bool
	staticDir  string
}

// NewServer creates the server and mounts all routes
func NewServer(opts Options) *Server {
	s := &Server{
		router:     mux.NewRouter(),
		store:      opts.Store,
		codec:      opts.Codec,
		audit:      opts.Audit,
		adherence:  opts.Adherence,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		tokenTTL:   opts.TokenTTL,
		production: opts.Production,
		staticDir:  opts.StaticDir,
	}
	if s.tokenTTL == 0 {
		s.tokenTTL = auth.TokenTTL
	}

	s.setupRoutes()

	gate := middleware.NewSessionGate(s.codec, s.logger, s.metrics)
	s.handler = httputil.Chain(
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(s.logger, s.metrics),
		httputil.RecoveryMiddleware(s.logger),
		httputil.MaxBytesMiddleware(maxBodyBytes),
		gate.Handler,
	)(s.router)

	return s
}

// ServeHTTP implements http.Handler. Every request passes through the
// session gate; the data API additionally requires a valid session.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	// Auth endpoints; the gate allowlists this prefix
	s.router.HandleFunc("/api/auth/login", s.login).Methods("POST")
	s.router.HandleFunc("/api/auth/logout", s.logout).Methods("POST")
	s.router.HandleFunc("/api/auth/session", s.session).Methods("GET")

	// Data API, session-protected with 401 semantics
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(middleware.RequireSession(s.codec))

	api.HandleFunc("/dashboard/stats", s.dashboardStats).Methods("GET")

	api.HandleFunc("/cohorts", s.listCohorts).Methods("GET")
	api.HandleFunc("/cohorts", s.createCohort).Methods("POST")
	api.HandleFunc("/cohorts/{id}", s.getCohort).Methods("GET")
	api.HandleFunc("/cohorts/{id}", s.updateCohort).Methods("PUT")
	api.HandleFunc("/cohorts/{id}", s.deleteCohort).Methods("DELETE")

	api.HandleFunc("/users", s.listUsers).Methods("GET")
	api.HandleFunc("/users/{id}", s.getUser).Methods("GET")

	api.HandleFunc("/caps", s.listCaps).Methods("GET")
	api.HandleFunc("/caps/{id}", s.updateCap).Methods("PUT")

	api.HandleFunc("/questions", s.listQuestions).Methods("GET")
	api.HandleFunc("/questions", s.createQuestion).Methods("POST")

	api.HandleFunc("/adherence/cohorts/{id}", s.cohortAdherence).Methods("GET")
	api.HandleFunc("/adherence/records", s.listAdherenceRecords).Methods("GET")

	api.HandleFunc("/activity", s.recentActivity).Methods("GET")

	// Dashboard pages and assets, behind the gate's redirect policy
	if s.staticDir != "" {
		s.router.PathPrefix("/assets/").Handler(
			http.StripPrefix("/assets/", http.FileServer(http.Dir(filepath.Join(s.staticDir, "assets")))))
		s.router.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, filepath.Join(s.staticDir, "favicon.ico"))
		})
		s.router.HandleFunc("/login", s.servePage("login.html"))
		s.router.PathPrefix("/admin").HandlerFunc(s.servePage("index.html"))
		s.router.HandleFunc("/", s.servePage("index.html"))
	}
}

// servePage serves one of the built dashboard entry points
func (s *Server) servePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(s.staticDir, name))
	}
}

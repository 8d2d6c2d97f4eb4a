package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/marcv42/blog-backend/config"
	"github.com/marcv42/blog-backend/database"
	"github.com/marcv42/blog-backend/errs"
	"github.com/marcv42/blog-backend/identity"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(database database.Database, c map[string]string) (Server, error) {
	// Ensure correct port is set
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	// Capture startup time
	startupTime := time.Now()

	sessionTTL := time.Duration(config.GetInt(c, "SESSION_TTL_HOURS", 24)) * time.Hour
	sessions, err := identity.NewSessionManager(config.GetString(c, "SESSION_SECRET", ""), "blog-backend", sessionTTL)
	if err != nil {
		return Server{}, errs.NewEnvironmentVariableError("SESSION_SECRET")
	}

	opts := []func(*router){
		withConfig(c),
		withStartupTime(startupTime),
		withSessions(sessions),
	}

	github, err := identity.NewGitHubClient(
		config.GetString(c, "GITHUB_CLIENT_ID", ""),
		config.GetString(c, "GITHUB_CLIENT_SECRET", ""),
		config.GetString(c, "GITHUB_REDIRECT_URL", ""),
	)
	if err != nil {
		log.Warn().Err(err).Msg("GitHub login disabled")
	} else {
		opts = append(opts, withIdentityProvider(github))
	}

	router := newRouter(database, opts...)

	// Get timeout values from config with sensible defaults
	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 30)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 30)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 120)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,  // Timeout for reading the entire request
		WriteTimeout: writeTimeout, // Timeout for writing the response
		IdleTimeout:  idleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config           map[string]string
	startupTime      time.Time
	sessions         *identity.SessionManager
	identityProvider identityProvider
	cookies          cookieJar
	frontendURL      string
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func withSessions(sessions *identity.SessionManager) func(*router) {
	return func(r *router) {
		r.sessions = sessions
	}
}

func withIdentityProvider(provider identityProvider) func(*router) {
	return func(r *router) {
		r.identityProvider = provider
	}
}

func newRouter(database database.Database, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	router.frontendURL = config.GetString(router.config, "FRONTEND_URL", "/")
	router.cookies = cookieJar{
		secure:     config.GetBool(router.config, "COOKIE_SECURE", false),
		sessionTTL: 24 * time.Hour,
	}
	if router.sessions != nil {
		router.cookies.sessionTTL = router.sessions.TTL()
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)

	// Apply CORS middleware
	acceptedOrigins := config.GetStrings(router.config, "ACCEPTED_ORIGINS")
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   acceptedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize all handlers
	handlers := initializeHandlers(database, router)

	// Initialize auth middleware
	authMiddleware := newAuthMiddleware(config.GetString(router.config, "BACKEND_PASSWORD", ""), router.sessions)

	setupRoutes(chiRouter, handlers, authMiddleware)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Dur("uptime", time.Since(s.startupTime)).Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}

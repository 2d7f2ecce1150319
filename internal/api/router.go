package api

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/cse341/records-api/docs"
	"github.com/cse341/records-api/internal/api/handler"
	"github.com/cse341/records-api/internal/api/middleware"
	"github.com/cse341/records-api/internal/core/ports"
	"github.com/cse341/records-api/internal/core/service"
	mongostore "github.com/cse341/records-api/internal/infrastructure/db/mongo"
	redisstore "github.com/cse341/records-api/internal/infrastructure/db/redis"
	"github.com/cse341/records-api/internal/infrastructure/oauth/github"
	"github.com/cse341/records-api/internal/pkg/config"
	"github.com/cse341/records-api/pkg/logger"
)

// Services are the use cases the HTTP layer exposes.
type Services struct {
	Data  ports.DataService
	Users ports.UserService
	Auth  ports.AuthService
}

// Options configures the transport concerns around the services.
type Options struct {
	SessionSecret  string
	SessionTTL     time.Duration
	SecureCookie   bool
	AllowedOrigins []string

	// Readiness serves /health/ready when set.
	Readiness echo.HandlerFunc

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// New wires repositories, services and the router from configuration. Audit
// entries go to audit, typically a queue.AuditDispatcher.
func New(cfg *config.Config, db *mongo.Database, rdb *redis.Client, audit ports.AuditRepository, log zerolog.Logger) *echo.Echo {
	dataService := service.NewDataService(mongostore.NewDataRepository(db), audit, logger.Component(log, "data"))
	userService := service.NewUserService(mongostore.NewUserRepository(db), audit, logger.Component(log, "users"))

	provider := github.NewProvider(github.Config{
		ClientID:     cfg.GitHub.ClientID,
		ClientSecret: cfg.GitHub.ClientSecret,
		CallbackURL:  cfg.OAuthCallbackURL(),
	})
	sessionStore := redisstore.NewSessionStore(rdb, cfg.Session.TTL)
	authService := service.NewAuthService(provider, sessionStore, cfg.Session.Secret, logger.Component(log, "auth"))

	return NewRouter(Services{
		Data:  dataService,
		Users: userService,
		Auth:  authService,
	}, Options{
		SessionSecret:  cfg.Session.Secret,
		SessionTTL:     cfg.Session.TTL,
		SecureCookie:   cfg.IsProduction(),
		AllowedOrigins: cfg.AllowedOrigins(),
		Readiness:      handler.NewHealthDependenciesHandler(db, rdb).Readiness,
	}, log)
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomiddleware.CORSWithConfig(corsConfig(opts.AllowedOrigins)))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "records",
		Registerer: opts.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(session.Middleware(cookieStore(opts)))
	e.Use(middleware.LoadSession(svc.Auth, log))

	requireSession := middleware.EnsureAuthenticated()

	// --- Handlers ---
	dataHandler := handler.NewDataHandler(svc.Data)
	userHandler := handler.NewUserHandler(svc.Users)
	authHandler := handler.NewAuthHandler(svc.Auth, logger.Component(log, "auth"))

	// --- Data routes ---
	data := e.Group("/data")
	data.GET("", dataHandler.List)
	data.POST("", dataHandler.Create)
	data.GET("/protected", dataHandler.ProtectedList, requireSession)
	data.POST("/protected", dataHandler.ProtectedCreate, requireSession)
	data.GET("/:id", dataHandler.Get)
	data.PUT("/:id", dataHandler.Update)
	data.DELETE("/:id", dataHandler.Delete)

	// --- User routes ---
	users := e.Group("/users")
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/protected", userHandler.ProtectedList, requireSession)
	users.POST("/protected", userHandler.ProtectedCreate, requireSession)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.GET("/github", authHandler.GitHub, middleware.EnsureNotAuthenticated())
	auth.GET("/github/callback", authHandler.Callback)
	auth.GET("/login/success", authHandler.LoginSuccess)
	auth.GET("/login/failed", authHandler.LoginFailed)
	auth.GET("/status", authHandler.Status)
	auth.GET("/logout", authHandler.Logout)
	auth.GET("/profile", authHandler.Profile, requireSession)

	// --- Health probes, metrics, docs (no auth required) ---
	e.GET("/", handler.Root)
	e.GET("/health", handler.NewHealthHandler().Liveness)
	if opts.Readiness != nil {
		e.GET("/health/ready", opts.Readiness)
	}
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: opts.Gatherer}))
	e.GET("/api-docs/*", echoSwagger.WrapHandler)

	return e
}

func cookieStore(opts Options) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(opts.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(opts.SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func corsConfig(origins []string) echomiddleware.CORSConfig {
	cfg := echomiddleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}
	// Browsers refuse credentialed requests against a wildcard origin.
	if len(origins) > 0 && origins[0] != "*" {
		cfg.AllowCredentials = true
	}
	return cfg
}

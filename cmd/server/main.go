package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benvon/autoartisan/internal/config"
	"github.com/benvon/autoartisan/internal/database"
	"github.com/benvon/autoartisan/internal/handlers"
	"github.com/benvon/autoartisan/internal/i18n"
	"github.com/benvon/autoartisan/internal/logger"
	"github.com/benvon/autoartisan/internal/middleware"
	"github.com/benvon/autoartisan/internal/models"
	"github.com/benvon/autoartisan/internal/queue"
	"github.com/benvon/autoartisan/internal/services/firebase"
	"github.com/benvon/autoartisan/internal/services/session"
	"github.com/benvon/autoartisan/internal/telemetry"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const (
	configReloadInterval = 1 * time.Minute
	dlqGCInterval        = 1 * time.Hour
	dlqRetention         = 24 * time.Hour
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	migrateFlag := flag.Bool("migrate", true, "Apply pending database migrations at startup")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(telemetry.ServiceAPI, debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync(zapLogger) }()

	zapLogger.Info("starting_server",
		zap.String("version", version),
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.String("environment", cfg.Environment),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)
	if missing := cfg.Auth().Missing(); len(missing) > 0 {
		// logins answer 500 until these are set
		zapLogger.Warn("session_config_incomplete", zap.Strings("missing", missing))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	otelActive := false
	if cfg.OTELEnabled {
		tp, err := telemetry.InitTracer(ctx, telemetry.ServiceAPI, cfg.OTELEndpoint)
		if err != nil {
			zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
		} else {
			otelActive = true
			zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
					zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
				}
			}()
		}
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	if *migrateFlag {
		applied, err := db.Migrate(ctx)
		if err != nil {
			zapLogger.Fatal("failed_to_apply_migrations", zap.Error(err))
		}
		zapLogger.Info("migrations_applied", zap.Strings("versions", applied))
	}

	redisClient, err := middleware.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
		}
	}()
	limiterStore, err := middleware.NewRedisStore(redisClient)
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limit_store", zap.Error(err))
	}
	zapLogger.Info("connected_to_redis")

	// The storefront works without RabbitMQ; only the contact form needs it.
	var jobQueue *queue.RabbitMQQueue
	if cfg.RabbitMQURL == "" {
		zapLogger.Warn("rabbitmq_not_configured_contact_form_disabled")
	} else {
		jobQueue = connectQueue(cfg.RabbitMQURL, zapLogger)
		defer func() {
			if err := jobQueue.Close(); err != nil {
				zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
			}
		}()
	}

	catalog, err := i18n.Load()
	if err != nil {
		zapLogger.Fatal("failed_to_load_translations", zap.Error(err))
	}

	carRepo := database.NewCarRepository(db)
	settingsRepo := database.NewSettingsRepository(db)
	corsConfigRepo := database.NewCorsConfigRepository(db)
	ratelimitConfigRepo := database.NewRatelimitConfigRepository(db)

	keyFetcher := firebase.NewCertificateFetcher(cfg.KeysMaxCacheAge)
	issuer := session.NewIssuer(cfg.Auth(), keyFetcher, zapLogger)

	// A nil *RabbitMQQueue must not reach the handler as a non-nil interface.
	var contactQueue queue.Enqueuer
	healthChecks := map[string]handlers.Pinger{
		"database": db,
		"redis":    handlers.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }),
	}
	if jobQueue != nil {
		contactQueue = jobQueue
		healthChecks["rabbitmq"] = handlers.PingFunc(jobQueue.HealthCheck)
	}

	authHandler := handlers.NewAuthHandler(issuer, cfg.IsProduction(), zapLogger)
	carHandler := handlers.NewCarHandler(carRepo, zapLogger)
	settingsHandler := handlers.NewSettingsHandler(settingsRepo, zapLogger)
	contactHandler := handlers.NewContactHandler(contactQueue, catalog, cfg.DefaultLanguage, zapLogger)
	i18nHandler := handlers.NewI18nHandler(catalog)
	healthChecker := handlers.NewHealthChecker(healthChecks)

	r := mux.NewRouter()

	// Middleware registered first is outermost.
	if otelActive {
		r.Use(otelmux.Middleware(telemetry.ServiceAPI))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	corsReloader := middleware.NewCORSReloader(corsConfigRepo, cfg.FrontendURL, zapLogger, configReloadInterval)
	r.Use(corsReloader.Middleware())
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize,
		middleware.PathLimit{Prefix: "/api/auth/", MaxBytes: middleware.SmallFormMaxRequestSize},
		middleware.PathLimit{Prefix: "/api/contact", MaxBytes: middleware.SmallFormMaxRequestSize},
	))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Audit(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	sessionLimiter := middleware.NewRateLimitReloader(limiterStore, ratelimitConfigRepo, models.RatelimitScopeSession, zapLogger, configReloadInterval)
	contactLimiter := middleware.NewRateLimitReloader(limiterStore, ratelimitConfigRepo, models.RatelimitScopeContact, zapLogger, configReloadInterval)

	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")
	handlers.NewOpenAPIHandler().RegisterRoutes(r)

	api := r.PathPrefix("/api").Subrouter()

	authRouter := api.PathPrefix("/auth").Subrouter()
	authRouter.Use(sessionLimiter.Middleware())
	authHandler.RegisterRoutes(authRouter)

	carHandler.RegisterRoutes(api.PathPrefix("/cars").Subrouter())
	settingsHandler.RegisterRoutes(api.PathPrefix("/settings").Subrouter())
	i18nHandler.RegisterRoutes(api.PathPrefix("/i18n").Subrouter())

	contactRouter := api.PathPrefix("/contact").Subrouter()
	contactRouter.Use(contactLimiter.Middleware())
	contactHandler.RegisterRoutes(contactRouter)

	panel := api.PathPrefix("/panel").Subrouter()
	panel.Use(middleware.RequireSession(issuer.Minter(), zapLogger))
	panel.HandleFunc("/session", authHandler.GetSession).Methods("GET")
	carHandler.RegisterPanelRoutes(panel.PathPrefix("/cars").Subrouter())
	settingsHandler.RegisterPanelRoutes(panel.PathPrefix("/settings").Subrouter())

	// Preflight requests need a matching route for the CORS middleware to run.
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   middleware.DefaultRequestTimeout + 5*time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go corsReloader.Start(ctx)
	go sessionLimiter.Start(ctx)
	go contactLimiter.Start(ctx)

	if jobQueue != nil {
		dlqGC := queue.NewGarbageCollector(jobQueue, dlqGCInterval, dlqRetention, zapLogger)
		go func() {
			if err := dlqGC.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				zapLogger.Error("dlq_garbage_collector_stopped_with_error", zap.Error(err))
			}
		}()
		zapLogger.Info("started_dlq_garbage_collector",
			zap.Duration("interval", dlqGCInterval),
			zap.Duration("retention", dlqRetention),
		)
	}

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

// connectQueue retries with exponential backoff to ride out RabbitMQ startup delays.
func connectQueue(url string, zapLogger *zap.Logger) *queue.RabbitMQQueue {
	const maxRetries = 10
	const initialDelay = 2 * time.Second

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		q, err := queue.NewRabbitMQQueue(url, zapLogger)
		if err == nil {
			zapLogger.Info("connected_to_rabbitmq")
			return q
		}
		lastErr = err

		delay := initialDelay * time.Duration(1<<uint(attempt))
		if delay > 30*time.Second {
			delay = 30 * time.Second
		}
		zapLogger.Warn("failed_to_connect_to_rabbitmq_retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
			zap.Duration("retry_delay", delay),
		)
		time.Sleep(delay)
	}

	zapLogger.Fatal("failed_to_connect_to_rabbitmq_after_retries",
		zap.Int("max_retries", maxRetries),
		zap.Error(lastErr),
	)
	return nil
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, `{"version":%q,"timestamp":"%s"}`, version, time.Now().UTC().Format(time.RFC3339))
}

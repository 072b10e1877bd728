package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"workconnect/internal/config"
	"workconnect/internal/csrf"
	"workconnect/internal/database"
	"workconnect/internal/event"
	"workconnect/internal/handler"
	"workconnect/internal/mail"
	"workconnect/internal/metrics"
	"workconnect/internal/policy"
	"workconnect/internal/ratelimit"
	"workconnect/internal/rdb"
	"workconnect/internal/repository"
	"workconnect/internal/router"
	"workconnect/internal/service"
	"workconnect/internal/session"
	"workconnect/internal/storage"
	"workconnect/internal/websocket"
)

const (
	verificationTokenTTL = 24 * time.Hour
	cleanupInterval      = time.Hour
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New(cfg *config.Config) (*App, error) {
	m := metrics.New()

	if cfg.MigrateOnStart {
		slog.Info("applying database migrations")
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			slog.Error("database migration failed", "error", err)
		}
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), database.Options{
		URL:                cfg.DatabaseURL,
		MaxConns:           cfg.DBMaxConns,
		MinConns:           cfg.DBMinConns,
		SlowQueryThreshold: cfg.SlowQueryThreshold,
		Metrics:            m,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.EnsureSchema(context.Background()); err != nil {
		slog.Warn("database schema check failed", "error", err)
	}

	redisClient := connectRedis(cfg)

	appHandler, stop, err := NewHandler(cfg, db, redisClient, m)
	if err != nil {
		db.Close()
		return nil, err
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appHandler,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		cleanupFuncs: []func(){
			stop,
			func() {
				if redisClient != nil {
					_ = redisClient.Close()
				}
			},
			db.Close,
		},
	}, nil
}

// NewHandler wires repositories, services and handlers over db. A nil
// redisClient keeps sessions and rate-limit windows in memory. stop ends the
// background workers it starts.
func NewHandler(cfg *config.Config, db *database.DB, redisClient *redis.Client, m *metrics.Metrics) (http.Handler, func(), error) {
	store, err := storage.New(cfg.UploadRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize upload storage: %w", err)
	}

	sessionStore, rateStore := backingStores(redisClient)
	sessions := session.NewManager(sessionStore, session.Options{
		Lifetime:       cfg.SessionLifetime,
		RotateInterval: cfg.SessionRotateInterval,
		Secure:         cfg.SessionSecure,
	})
	tokens := csrf.New(cfg.CSRFTokenExpiry)
	limiter := ratelimit.New(rateStore, cfg.RateLimitMax, cfg.RateLimitWindow)
	mailer := newMailer(cfg, m)

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	tokenRepo := repository.NewTokenRepository(pool)
	jobRepo := repository.NewJobRepository(pool)
	applicationRepo := repository.NewApplicationRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	bus := event.NewBus()
	hub := websocket.NewHub(bus)

	notifications := service.NewNotificationService(notificationRepo, bus)
	authService := service.NewAuthService(userRepo, tokenRepo, service.NewTokenSigner(cfg.TokenSecret, verificationTokenTTL), mailer, cfg.AppURL)
	jobService := service.NewJobService(jobRepo)
	applicationService := service.NewApplicationService(applicationRepo, notifications)
	profileService := service.NewProfileService(profileRepo)
	uploadService := service.NewUploadService(store, userRepo, profileRepo, cfg.MaxUploadSize)
	adminService := service.NewAdminService(userRepo, jobRepo, statsRepo, db, notifications)
	dashboardService := service.NewDashboardService(statsRepo)

	table := policy.Default()
	dispatcher, err := handler.NewDispatcher(table, !cfg.IsProduction(),
		handler.NewAuthHandler(authService, sessions, tokens),
		handler.NewJobsHandler(jobService, applicationService),
		handler.NewApplicationsHandler(applicationService),
		handler.NewProfilesHandler(profileService),
		handler.NewUploadHandler(uploadService),
		handler.NewAdminHandler(adminService),
		handler.NewDashboardHandler(dashboardService),
		handler.NewNotificationsHandler(notifications),
	)
	if err != nil {
		return nil, nil, err
	}

	checks := map[string]handler.Check{"database": db.Health}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx, redisClient) }
	}

	appRouter := router.New(cfg, router.Dependencies{
		Metrics:  m,
		Sessions: sessions,
		Tokens:   tokens,
		Limiter:  limiter,
		Policy:   table,
		DB:       db,
	}, router.Handlers{
		API:     dispatcher,
		Pages:   handler.NewPagesHandler(sessions, tokens),
		WS:      handler.NewWebSocketHandler(hub, cfg.CORSOrigins),
		Health:  handler.NewHealthHandler(checks),
		Uploads: handler.NewUploadsHandler(store, "/uploads/"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	go startCleanupTicker(ctx, cleanupInterval, tokenRepo)

	return appRouter, cancel, nil
}

// connectRedis returns nil when Redis is not configured or unreachable.
func connectRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisURL == "" {
		slog.Info("REDIS_URL not set, keeping sessions and rate limits in memory")
		return nil
	}

	client, err := rdb.NewClient(context.Background(), cfg.RedisURL)
	if err != nil {
		slog.Warn("redis unavailable, falling back to in-memory stores", "error", err)
		return nil
	}
	return client
}

func backingStores(client *redis.Client) (session.Store, ratelimit.Store) {
	if client == nil {
		return session.NewMemoryStore(), ratelimit.NewMemoryStore()
	}
	return session.NewRedisStore(client), ratelimit.NewRedisStore(client)
}

func newMailer(cfg *config.Config, m *metrics.Metrics) mail.Sender {
	var sender mail.Sender = mail.NewLogSender(slog.Default())
	if cfg.SMTPEnabled() {
		sender = mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	}
	return mail.NewThrottled(sender, cfg.MailRatePerSecond, m)
}

type expiringStore interface {
	CleanExpired(ctx context.Context) (int64, error)
}

// startCleanupTicker purges expired rows on startup and then every interval.
func startCleanupTicker(ctx context.Context, interval time.Duration, stores ...expiringStore) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		for _, s := range stores {
			removed, err := s.CleanExpired(ctx)
			if err != nil {
				slog.Warn("expired row cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				slog.Info("expired rows removed", "count", removed)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownErr := a.server.Shutdown(ctx)
	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}
	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}

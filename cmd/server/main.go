package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stayhaven/guidebook-server-go/internal/cache"
	"github.com/stayhaven/guidebook-server-go/internal/config"
	"github.com/stayhaven/guidebook-server-go/internal/database"
	"github.com/stayhaven/guidebook-server-go/internal/email"
	"github.com/stayhaven/guidebook-server-go/internal/handler"
	"github.com/stayhaven/guidebook-server-go/internal/jobs"
	"github.com/stayhaven/guidebook-server-go/internal/middleware"
	"github.com/stayhaven/guidebook-server-go/internal/redis"
	"github.com/stayhaven/guidebook-server-go/internal/repository"
	"github.com/stayhaven/guidebook-server-go/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("FLY_APP_NAME") != ""
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Msg("database connected")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	mailer, err := email.NewMailer(context.Background(), cfg.AWSRegion, cfg.EmailFrom, cfg.EmailFromName, cfg.BaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize mailer")
	}

	hostRepo := repository.NewHostRepository(db.DB)
	hostSessionRepo := repository.NewHostSessionRepository(db.DB)
	propertyRepo := repository.NewPropertyRepository(db.DB)
	sectionRepo := repository.NewGuideSectionRepository(db.DB)
	inviteRepo := repository.NewInviteRepository(db.DB)
	requestRepo := repository.NewAccessRequestRepository(db.DB)

	guideCache := cache.NewRedis(redisClient.Client)

	authService := service.NewAuthService(hostRepo, hostSessionRepo)
	guideService := service.NewGuideService(sectionRepo, propertyRepo, guideCache, cfg.GuideCacheTTL())
	propertyService := service.NewPropertyService(propertyRepo, guideService)
	accessService := service.NewAccessService(inviteRepo)
	inviteService := service.NewInviteService(inviteRepo, propertyRepo, mailer)
	requestService := service.NewAccessRequestService(requestRepo, propertyRepo, hostRepo, mailer)

	rateLimiter := service.NewRateLimiter(redisClient.Client)

	sessionMiddleware := middleware.NewHostSessionMiddleware(authService)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(isProduction)
	validateLimitMiddleware := middleware.NewIPRateLimitMiddleware(
		rateLimiter, config.GuestValidateLimitPerMin, time.Minute, "validate",
	)
	requestLimitMiddleware := middleware.NewIPRateLimitMiddleware(
		rateLimiter, config.GuestRequestLimitPerMin, time.Minute, "request",
	)

	guestHandler := handler.NewGuestHandler(accessService, requestService, guideService)
	hostHandler := handler.NewHostHandler(
		authService, propertyService, inviteService, requestService, guideService,
		sessionMiddleware.Handler, isProduction,
	)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)
	r.Use(securityHeadersMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.With(validateLimitMiddleware.Handler).Post("/validate-access-code", guestHandler.ValidateAccessCode)
		r.With(requestLimitMiddleware.Handler).Post("/request-access", guestHandler.RequestAccess)
		r.With(validateLimitMiddleware.Handler).Get("/guide/{propertyID}", guestHandler.GetGuide)

		r.Route("/host", func(r chi.Router) {
			r.Mount("/", hostHandler.Routes())
		})
	})

	cleanupJob := jobs.NewCleanupJob(hostSessionRepo, inviteRepo, requestRepo, config.CleanupJobInterval)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

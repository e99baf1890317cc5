package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"swapmarket/config"
	httpHandler "swapmarket/internal/adapter/http/handler"
	"swapmarket/internal/adapter/notifier"
	pgStorage "swapmarket/internal/adapter/storage/postgres"
	redisStorage "swapmarket/internal/adapter/storage/redis"
	"swapmarket/internal/core/ports"
	"swapmarket/internal/service"
	"swapmarket/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting SwapMarket API")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize core services
	encSvc, err := service.NewAESEncryptionService(cfg.AES.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Initialize repositories
	userRepo := pgStorage.NewUserRepo(pool)
	offerRepo := pgStorage.NewOfferRepo(pool)
	txnRepo := pgStorage.NewTransactionRepo(pool)
	kycRepo := pgStorage.NewKYCRepo(pool, encSvc)
	msgRepo := pgStorage.NewMessageRepo(pool)
	auditRepo := pgStorage.NewAuditRepository(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	phoneCodes := redisStorage.NewPhoneCodeStore(rdb)
	preferences := redisStorage.NewPreferenceStore(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Fire-and-forget notification fan-out over Redis pub/sub
	notify := notifier.NewRedisNotifier(rdb, log)

	// Initialize business services
	auditSvc := service.NewAuditService(auditRepo, log)
	authSvc := service.NewAuthService(userRepo, hashSvc, tokenSvc, auditSvc)
	offerSvc := service.NewOfferService(offerRepo, auditSvc, cfg.Market.OfferTTL)
	txnSvc := service.NewTransactionService(txnRepo, offerRepo, userRepo, notify, auditSvc, cfg.Market.DealDeadline)
	kycSvc := service.NewKYCService(kycRepo, userRepo, transactor, phoneCodes, notify, auditSvc, cfg.Market.PhoneCodeTTL)
	msgSvc := service.NewMessageService(msgRepo, txnRepo, notify, cfg.Market.MaxChatLength)
	// The transaction service doubles as the admin override path so both
	// share one transition guard.
	adminSvc := service.NewAdminService(userRepo, txnRepo, kycRepo, msgRepo, transactor, txnSvc, notify, auditSvc)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		OfferSvc:       offerSvc,
		TxnSvc:         txnSvc,
		KYCSvc:         kycSvc,
		MessageSvc:     msgSvc,
		AdminSvc:       adminSvc,
		TokenSvc:       tokenSvc,
		UserRepo:       userRepo,
		Preferences:    preferences,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"printforge.backend/internal/config"
	"printforge.backend/internal/infrastructure/jobs"
	"printforge.backend/internal/infrastructure/repositories"
	"printforge.backend/internal/infrastructure/sinalite"
	"printforge.backend/internal/interfaces/http/handlers"
	"printforge.backend/internal/interfaces/http/middleware"
	"printforge.backend/internal/usecases"
	"printforge.backend/pkg/jwks"
	"printforge.backend/pkg/jwt"
	"printforge.backend/pkg/logger"
	"printforge.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Resolve optional schema pieces once; never sniffed per request
	caps := repositories.ResolveCapabilities(db)
	if !caps.StoreCredits {
		log.Println("⚠️ store_credits table missing: redemptions will not persist credits")
	}
	if !caps.TransactionNote {
		log.Println("⚠️ loyalty_transactions.note column missing: notes will be dropped")
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Identity-provider verification is optional; without a JWKS URL only
	// first-party tokens are accepted
	var identityVerifier middleware.IdentityVerifier
	if cfg.IdP.JWKSURL != "" {
		identityVerifier = jwks.NewVerifier(cfg.IdP.JWKSURL, cfg.IdP.Issuer, nil, nil)
	} else {
		log.Println("⚠️ IDP_JWKS_URL not set: identity-provider tokens disabled")
	}

	// Initialize repositories
	walletRepo := repositories.NewWalletRepository(db)
	ledgerRepo := repositories.NewLedgerTransactionRepository(db, caps.TransactionNote)
	creditRepo := repositories.NewStoreCreditRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize vendor client and price cache
	vendorClient := sinalite.NewClient(sinalite.Config{
		BaseURL:      cfg.Sinalite.BaseURL,
		AuthURL:      cfg.Sinalite.AuthURL,
		ClientID:     cfg.Sinalite.ClientID,
		ClientSecret: cfg.Sinalite.ClientSecret,
		Audience:     cfg.Sinalite.Audience,
		Timeout:      cfg.Sinalite.Timeout,
	}, nil)
	priceCache := redis.NewPriceCache(cfg.Sinalite.PriceCacheTTL)

	// Initialize usecases
	loyaltyUsecase := usecases.NewLoyaltyUsecase(walletRepo, ledgerRepo, uow)
	checkoutUsecase := usecases.NewCheckoutCreditUsecase(loyaltyUsecase, creditRepo, uow, cfg.Loyalty.RedeemRate, caps.StoreCredits)
	pricingUsecase := usecases.NewPricingUsecase(vendorClient, priceCache)
	webhookUsecase := usecases.NewWebhookUsecase(loyaltyUsecase, creditRepo, cfg.Loyalty.EarnRate, cfg.Loyalty.SignupBonus)
	exportUsecase := usecases.NewExportUsecase(ledgerRepo)

	// Initialize handlers
	loyaltyHandler := handlers.NewLoyaltyHandler(loyaltyUsecase, checkoutUsecase)
	adminLoyaltyHandler := handlers.NewAdminLoyaltyHandler(loyaltyUsecase)
	pricingHandler := handlers.NewPricingHandler(pricingUsecase)
	webhookHandler := handlers.NewWebhookHandler(webhookUsecase)
	exportHandler := handlers.NewExportHandler(exportUsecase)

	// Create auth middleware
	authMiddleware := middleware.AuthMiddleware(jwtService, identityVerifier)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	auditJob := jobs.NewLedgerAuditJob(walletRepo, ledgerRepo, cfg.Loyalty.AuditInterval, cfg.Loyalty.AuditPageSize)
	go auditJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		loyaltyHandler:      loyaltyHandler,
		adminLoyaltyHandler: adminLoyaltyHandler,
		pricingHandler:      pricingHandler,
		webhookHandler:      webhookHandler,
		exportHandler:       exportHandler,

		authMiddleware:           authMiddleware,
		orderWebhookSignature:    middleware.WebhookSignatureMiddleware(cfg.Webhook.OrdersSecret),
		customerWebhookSignature: middleware.WebhookSignatureMiddleware(cfg.Webhook.CustomersSecret),
	})

	// Print all registered routes for debugging
	log.Println("📋 Registered Routes:")
	for _, route := range r.Routes() {
		log.Printf("   %s %s", route.Method, route.Path)
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		auditJob.Stop()
		cancel()
	}()

	// Start server
	log.Printf("🚀 PrintForge Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

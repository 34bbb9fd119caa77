package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	_ "github.com/lib/pq"

	httpapi "earnx-backend/internal/api/http"
	"earnx-backend/internal/config"
	"earnx-backend/internal/logger"
	"earnx-backend/internal/notify"
	"earnx-backend/internal/repository/postgres"
	"earnx-backend/internal/security"
	"earnx-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting EarnX Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize outbound channels
	notifier := notify.NewTelegramNotifier(cfg.Telegram.APIBase, cfg.Telegram.BotToken, store.UserRepository)
	mailer := notify.NewSendGridMailer(cfg.Mail.SendGridAPIKey, cfg.Mail.FromEmail, cfg.Mail.FromName, cfg.Mail.AdminEmail)

	// Initialize Services
	userSvc := service.NewUserService(
		store.UserRepository,
		store.ReferralRepository,
		store.StatsRepository,
		cfg.Rewards,
		notifier,
	)
	submissionSvc := service.NewSubmissionService(
		store.UserRepository,
		store.SubmissionRepository,
		cfg.Rewards,
		notifier,
	)
	withdrawalSvc := service.NewWithdrawalService(
		store.UserRepository,
		store.WithdrawalRepository,
		cfg.Rewards,
		notifier,
		mailer,
	)
	referralSvc := service.NewReferralService(store.ReferralRepository)
	adminSvc := service.NewAdminService(
		store.UserRepository,
		store.StatsRepository,
		store.AuditRepository,
		notifier,
		mailer,
	)

	// Set up HTTP server
	server := httpapi.NewServer(
		userSvc,
		submissionSvc,
		withdrawalSvc,
		referralSvc,
		adminSvc,
		tokenManager,
		cfg.Admin,
	)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), server.Router()); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}

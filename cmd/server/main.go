package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"budgetbuddy/internal/config"
	"budgetbuddy/internal/email/noop"
	"budgetbuddy/internal/email/ses"
	"budgetbuddy/internal/handler"
	"budgetbuddy/internal/llm"
	"budgetbuddy/internal/llm/gemini"
	"budgetbuddy/internal/logger"
	"budgetbuddy/internal/port"
	"budgetbuddy/internal/repository/postgres"
	"budgetbuddy/internal/router"
	"budgetbuddy/internal/service"
	s3storage "budgetbuddy/internal/storage/s3"
)

// @title budgetbuddy API
// @version 1.0
// @description Conversational expense tracking for students.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if _, err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)

	db, err := postgres.NewDB(context.Background(), &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	expenseRepo := postgres.NewExpenseRepo(db)

	// Initialize the model gateway
	llm.RegisterProvider("gemini", gemini.Factory)
	completer, err := llm.NewCompleter(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to initialize llm provider: %w", err)
	}

	// Initialize email
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.FrontendURL)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender(cfg.Email.FrontendURL, zl)
	}

	// Initialize export storage
	var storage port.ObjectStorage
	if cfg.S3.Enabled {
		storage, err = s3storage.NewExportStore(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, emailSender, cfg.JWT, zl)
	expenseSvc := service.NewExpenseService(expenseRepo)
	exportSvc := service.NewExportService(expenseRepo, expenseSvc, storage, cfg.S3)
	engine := service.NewConversationEngine(completer, zl.Named("chat"),
		service.WithLocation(cfg.Chat.Location()),
		service.WithMaxInputChars(cfg.Chat.MaxInputChars),
	)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	chatH := handler.NewChatHandler(engine, expenseSvc, &cfg.Chat, zl)
	expenseH := handler.NewExpenseHandler(expenseSvc, exportSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins, zl, authH, chatH, expenseH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("environment", cfg.Server.Environment),
			zap.Bool("exports_enabled", storage != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zl.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// Package main запускает HTTP-сервер сервиса agromart.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/agromart/internal/catalog"
	"github.com/mmeshcher/agromart/internal/config"
	"github.com/mmeshcher/agromart/internal/handler"
	"github.com/mmeshcher/agromart/internal/notify"
	"github.com/mmeshcher/agromart/internal/ordernum"
	"github.com/mmeshcher/agromart/internal/otp"
	"github.com/mmeshcher/agromart/internal/repository"
	"github.com/mmeshcher/agromart/internal/secret"
	"github.com/mmeshcher/agromart/internal/service"
	"github.com/mmeshcher/agromart/internal/token"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if !cfg.Production() {
		zcfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}

func main() {
	cfg, err := config.Parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger initialization error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	sugar := logger.Sugar()

	var repo service.Repository
	if cfg.DatabaseURI != "" {
		repo, err = repository.NewPostgresRepository(cfg.DatabaseURI)
		if err != nil {
			sugar.Fatalw("database initialization error", "error", err.Error())
		}
	} else {
		sugar.Warn("DATABASE_URI is empty, using in-memory store")
		repo = repository.NewMemoryRepository()
	}
	defer repo.Close()

	var products catalog.Reader
	if cfg.CatalogURL != "" {
		products = catalog.NewHTTPReader(cfg.CatalogURL, 0)
	} else {
		products, err = catalog.NewFileReader(cfg.CatalogPath)
		if err != nil {
			sugar.Fatalw("catalog initialization error", "error", err.Error())
		}
	}

	templates, err := notify.LoadTemplates()
	if err != nil {
		sugar.Fatalw("mail templates error", "error", err.Error())
	}

	var sender notify.Sender
	if cfg.SMTPHost != "" {
		sender = notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			Timeout:  cfg.NotifyTimeout,
		}, templates)
	} else {
		sugar.Warn("SMTP_HOST is empty, mail is written to the log")
		sender = notify.NewLogSender(logger, templates, cfg.Development())
	}
	dispatcher := notify.NewDispatcher(sender, logger, cfg.NotifyTimeout)

	if cfg.OperatorAPIKey == "" {
		sugar.Warn("OPERATOR_API_KEY is empty, order status updates are disabled")
	}

	hasher := secret.NewBcryptHasher(secret.DefaultCost)
	tokens := token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)

	accounts := service.NewAccountService(repo, hasher, otp.NewManager(hasher), tokens, dispatcher, logger)
	orders := service.NewOrderService(
		repo,
		repo,
		ordernum.NewGenerator(cfg.OrderNumberPrefix),
		service.FreeShipping,
		dispatcher,
		cfg.OrderNotificationEmail,
		logger,
	)

	h := handler.NewHandler(accounts, orders, products, logger, handler.Options{
		Environment:    cfg.Environment,
		OperatorAPIKey: cfg.OperatorAPIKey,
		CORSOrigins:    cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           h.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infow("starting agromart server", "addr", cfg.RunAddress, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		dispatcher.Wait()
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/abellastitches/storefront/internal/config"
	"github.com/abellastitches/storefront/internal/httpapi"
	"github.com/abellastitches/storefront/internal/mailer"
	"github.com/abellastitches/storefront/internal/paystack"
	"github.com/abellastitches/storefront/internal/repository"
	"github.com/abellastitches/storefront/internal/service"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("repository.NewPool: %w", err)
	}
	defer pool.Close()

	if err := repository.ApplySchema(ctx, pool); err != nil {
		return fmt.Errorf("repository.ApplySchema: %w", err)
	}

	gateway, err := paystack.NewClient(cfg.PaystackSecretKey, cfg.PaystackBaseURL, nil)
	if err != nil {
		return fmt.Errorf("paystack.NewClient: %w", err)
	}

	orderMailer, err := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
	})
	if err != nil {
		return fmt.Errorf("mailer.New: %w", err)
	}

	orders := repository.NewOrder(pool)

	reconciler, err := service.NewReconciler(gateway, orders, orderMailer, logger)
	if err != nil {
		return fmt.Errorf("service.NewReconciler: %w", err)
	}

	auth, err := service.NewAuth(repository.NewAdminUser(pool), []byte(cfg.JWTSecret))
	if err != nil {
		return fmt.Errorf("service.NewAuth: %w", err)
	}

	server, err := httpapi.NewServer(httpapi.Options{
		Gateway:       gateway,
		Reconciler:    reconciler,
		Auth:          auth,
		Orders:        orders,
		Products:      repository.NewProduct(pool),
		Subscribers:   repository.NewSubscriber(pool),
		Mailer:        orderMailer,
		WebhookSecret: cfg.PaystackWebhookSecret,
		Production:    cfg.Production(),
		CORSOrigins:   cfg.CORSOrigins,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("httpapi.NewServer: %w", err)
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", httpServer.Addr, "env", cfg.Environment)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("httpServer.ListenAndServe: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("httpServer.Shutdown: %w", err)
	}

	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

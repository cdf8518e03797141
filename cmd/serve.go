package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pagewatch/internal/api"
	"pagewatch/internal/check"
	"pagewatch/internal/config"
	"pagewatch/internal/events"
	collyfetcher "pagewatch/internal/fetch/colly"
	"pagewatch/internal/logging"
	"pagewatch/internal/pagewatch"
	"pagewatch/internal/sites"
	"pagewatch/internal/storage/memory"
	"pagewatch/internal/storage/postgres"
	"pagewatch/internal/storage/sqlite"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addresses, checks, closeStores, err := buildStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	promSink, err := events.NewPrometheusSink(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("register check metrics: %w", err)
	}
	hub := events.NewHub(logger, events.NewLogSink(logger), promSink)
	defer hub.Close()

	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   cfg.FetchTimeout(),
	})
	pipeline := check.New(addresses, checks, fetcher, pagewatch.SystemClock{}, hub, logger)
	service := sites.NewService(addresses, checks, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewServer(service, pipeline, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.Int("port", cfg.Server.Port), zap.String("driver", cfg.DB.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func buildStores(ctx context.Context, cfg config.Config) (pagewatch.AddressStore, pagewatch.CheckStore, func(), error) {
	switch cfg.DB.Driver {
	case "postgres":
		if err := postgres.RunMigrations(cfg.DB.DSN); err != nil {
			return nil, nil, nil, err
		}
		pool, err := postgres.Connect(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, nil, nil, err
		}
		return postgres.NewAddressStore(pool), postgres.NewCheckStore(pool), pool.Close, nil
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, nil, nil, err
		}
		return sqlite.NewAddressStore(db), sqlite.NewCheckStore(db), func() { _ = db.Close() }, nil
	default:
		return memory.NewAddressStore(nil), memory.NewCheckStore(), func() {}, nil
	}
}

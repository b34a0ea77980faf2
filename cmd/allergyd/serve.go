package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leengari/allergy-lookup/internal/engine"
	"github.com/leengari/allergy-lookup/internal/metrics"
	"github.com/leengari/allergy-lookup/internal/network"
	"github.com/leengari/allergy-lookup/internal/storage/manager"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP lookup service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().String("addr", "", "listen address (default :5000)")
	_ = a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	cfg, logger, closeFn, err := a.setup()
	if err != nil {
		return err
	}
	defer closeFn()

	logger.Info("Starting allergy lookup service...",
		slog.String("dataset", cfg.Dataset.Path),
		slog.String("addr", cfg.Server.Addr),
	)

	// A failed load is not fatal: the service stays up and answers 500 on use
	store := manager.NewStore(cfg.Dataset.Path, logger)
	_ = store.Load()
	recordDataset(store)

	eng := engine.New(store)
	eng.AddObserver(engine.NewLoggingObserver(logger))
	eng.AddObserver(metrics.SearchObserver{})

	srv := network.NewServer(store, eng, network.Options{
		Addr:            cfg.Server.Addr,
		CORSOrigin:      cfg.Server.CORSOrigin,
		RateLimit:       cfg.Server.RateLimit,
		RateBurst:       cfg.Server.RateBurst,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go reloadOnHangup(ctx, store, logger)

	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("HTTP server failed", slog.Any("error", err))
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// reloadOnHangup swaps in a freshly loaded dataset on every SIGHUP
func reloadOnHangup(ctx context.Context, store *manager.Store, logger *slog.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			logger.Info("SIGHUP received, reloading dataset")
			_ = store.Reload()
			recordDataset(store)
		}
	}
}

func recordDataset(store *manager.Store) {
	metrics.RecordDataset(store.IsAvailable(), store.Dataset().NumRows())
}

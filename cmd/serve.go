package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vaskito85/buscador-precios/internal/api"
	"github.com/vaskito85/buscador-precios/internal/api/handler/v1handler"
	"github.com/vaskito85/buscador-precios/internal/catalog"
	"github.com/vaskito85/buscador-precios/internal/config"
	"github.com/vaskito85/buscador-precios/internal/dispatch"
	"github.com/vaskito85/buscador-precios/internal/pipeline"
	"github.com/vaskito85/buscador-precios/pkg/logger"
	"github.com/vaskito85/buscador-precios/pkg/notifier"
	"github.com/vaskito85/buscador-precios/pkg/storage/postgres"
)

func setupServer(ctx context.Context, cfg *config.Config, strg *postgres.PgSQL) func(ctx context.Context) {
	deps := api.Deps{
		Deps: v1handler.Deps{
			Pipeline: pipeline.New(strg, pipeline.NewOptions(cfg)),
			Catalog:  catalog.New(strg),
		},
	}

	server, err := api.NewServer(deps, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...")
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func setupDispatch(ctx context.Context, cfg *config.Config, strg *postgres.PgSQL) func(ctx context.Context) {
	riverClient, err := dispatch.Start(ctx, cfg, strg.Pool, strg, notifier.LogDeliverer{})
	if err != nil {
		logger.Fatal(ctx, "could not start dispatch workers", zap.Error(err))
	}

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping dispatch workers...")
		if err := riverClient.Stop(ctx); err != nil {
			logger.Error(ctx, "could not stop dispatch workers", zap.Error(err))
		}
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts API server and background workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			stopWebserver := setupServer(ctx, cfg, strg)
			stopDispatch := setupDispatch(ctx, cfg, strg)

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)
			stopDispatch(shutdownCtx)
		},
	}

	return cmd
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iwvelando/flip-calculator/internal/server"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var address, maxBodySize string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator form over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := serverConfig(a, address, maxBodySize)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:         cfg.Address,
				Handler:      server.NewHandler(a.logger, a.calc, cfg),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 60 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServer(ctx, a.logger, srv)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "listen address override (e.g. :8080)")
	cmd.Flags().StringVar(&maxBodySize, "max-body-size", "", "request body limit override (e.g. 64K, 1M)")
	return cmd
}

// serverConfig applies the serve flag overrides on top of the loaded configuration.
func serverConfig(a *app, address, maxBodySize string) (*server.Config, error) {
	if address != "" {
		a.conf.Server.Address = address
	}
	cfg, err := server.NewConfig(a.conf.Server, version)
	if err != nil {
		return nil, err
	}
	if maxBodySize != "" {
		size, err := server.ParseSize(maxBodySize)
		if err != nil {
			return nil, fmt.Errorf("invalid --max-body-size: %w", err)
		}
		if size <= 0 {
			return nil, fmt.Errorf("invalid --max-body-size: %s must be positive", maxBodySize)
		}
		cfg.SetBodySizeBytes(size)
	}
	return cfg, nil
}

// runServer serves until ctx is cancelled, then shuts down gracefully.
func runServer(ctx context.Context, logger *zap.Logger, srv *http.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server",
			zap.String("op", "main.serve"),
			zap.String("address", srv.Addr),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", zap.String("op", "main.serve"))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/mailgate/internal/config"
	"github.com/teemow/mailgate/internal/gmail"
	"github.com/teemow/mailgate/internal/google"
	"github.com/teemow/mailgate/internal/logging"
	"github.com/teemow/mailgate/internal/server"
	"github.com/teemow/mailgate/internal/session"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	var (
		host        string
		port        int
		metricsAddr string
		debug       bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the delegation gateway HTTP server",
		Long: `Start the gateway that mediates third-party access to a Gmail mailbox.

Configuration is read from environment variables (GOOGLE_CLIENT_ID,
GOOGLE_CLIENT_SECRET, GOOGLE_REDIRECT_URI, SECRET_KEY, ...); command-line
flags override the listener settings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.Metrics.Addr = metricsAddr
			}
			if cmd.Flags().Changed("debug") {
				cfg.Debug = debug
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "Address to bind the HTTP listener to")
	cmd.Flags().IntVar(&port, "port", 12000, "Port for the HTTP listener")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Address for the Prometheus metrics listener")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	return cmd
}

func runServe(cfg *config.Config) error {
	logger := logging.New(cfg.Debug)
	slog.SetDefault(logger)

	signer, err := session.NewTokenSigner(cfg.Token.Secret, cfg.Token.Algorithm)
	if err != nil {
		return fmt.Errorf("failed to initialize token signer: %w", err)
	}
	store := session.NewStore(signer, cfg.SessionTTL(), logger)

	auth := google.NewAuthClient(cfg.Google, logger)

	factory := func(ctx context.Context, cred *session.ProviderCredential, owner string) (server.Mailbox, error) {
		return gmail.NewClient(ctx, cred, owner)
	}

	var metrics *server.Metrics
	var metricsServer *server.MetricsServer
	if cfg.Metrics.Enabled {
		metrics = server.NewMetrics(store.Len)
		metricsServer = server.NewMetricsServer(metrics, cfg.Metrics.Addr)
	}

	srv := server.NewServer(cfg, logger, auth, store, factory, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("gateway server failed: %w", err)
		}
	}()

	if metricsServer != nil {
		go func() {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server failed: %w", err)
			}
		}()
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown failed", logging.Err(err))
		}
	}
	return srv.Shutdown(shutdownCtx)
}

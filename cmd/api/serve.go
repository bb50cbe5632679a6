package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ferrypratamaa-00/monii-sub001/internal/config"
	jwtinfra "github.com/ferrypratamaa-00/monii-sub001/internal/infrastructure/jwt"
	"github.com/ferrypratamaa-00/monii-sub001/internal/infrastructure/metrics"
	natsinfra "github.com/ferrypratamaa-00/monii-sub001/internal/infrastructure/nats"
	"github.com/ferrypratamaa-00/monii-sub001/internal/infrastructure/smtp"
	"github.com/ferrypratamaa-00/monii-sub001/internal/infrastructure/sns"
	transporthttp "github.com/ferrypratamaa-00/monii-sub001/internal/transport/http"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the SSE stream and the alert subscriber",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			setupLogging(cfg.LogLevel)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	stores, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStores(); err != nil {
			slog.Warn("close store", "err", err)
		}
	}()

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		return fmt.Errorf("jwt provider: %w", err)
	}

	var channels transporthttp.Channels
	if mailer := smtp.NewMailer(cfg); mailer != nil {
		channels.Mailer = mailer
	}
	if pub, err := sns.NewPublisher(ctx, cfg); err != nil {
		log.Printf("WARN: SNS publisher not available: %v", err)
	} else if pub != nil {
		channels.Publisher = pub
	}

	m := metrics.New()
	deps := transporthttp.NewDeps(stores, channels, jwtProvider, m, cfg.StreamWriteTimeout)
	router := transporthttp.NewRouter(ctx, cfg, deps)

	if cfg.NATSURL != "" {
		nc, err := natsinfra.Connect(cfg.NATSURL)
		if err != nil {
			return err
		}
		sub, err := natsinfra.Subscribe(nc, cfg.NATSAlertSubject, cfg.NATSQueueGroup, deps.Notifier)
		if err != nil {
			nc.Close()
			return err
		}
		defer func() {
			drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := sub.Close(drainCtx); err != nil {
				slog.Warn("drain nats", "err", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	// Open streams never go idle; end them once Shutdown has closed the listeners.
	srv.RegisterOnShutdown(deps.Registry.CloseAll)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on :%s (env=%s, store=%s)", cfg.AppPort, cfg.AppEnv, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	log.Println("Server stopped")
	return nil
}

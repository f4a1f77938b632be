package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/digitalgoods/storefront/internal/api"
	"github.com/digitalgoods/storefront/internal/core/domain"
	"github.com/digitalgoods/storefront/internal/core/service"
	"github.com/digitalgoods/storefront/internal/infrastructure/config"
	"github.com/digitalgoods/storefront/internal/infrastructure/db/redis"
	"github.com/digitalgoods/storefront/internal/infrastructure/restapi"
	"github.com/digitalgoods/storefront/internal/infrastructure/tracing"
	"github.com/digitalgoods/storefront/internal/pkg/notify"
	"github.com/digitalgoods/storefront/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the console HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.Init(logger.Options{
		Level:          cfg.LogLevel,
		Pretty:         cfg.Log.Pretty,
		File:           cfg.Log.File,
		FileMaxSizeMB:  cfg.Log.MaxSizeMB,
		FileMaxBackups: cfg.Log.MaxBackups,
	})
	defer func() { _ = logger.Close() }()

	shutdownTracing := tracing.Setup("storefront", cfg.Env)
	defer func() { _ = shutdownTracing(context.Background()) }()

	client, err := restapi.New(restapi.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout}, log)
	if err != nil {
		return err
	}

	session := service.NewSessionStore(client.Auth(), client.Admin(), log)
	changes := notify.NewTopic[domain.CartChanged]()
	badge := service.NewCartBadge(client.Cart(), session, changes, log)

	var rdb *goredis.Client
	if cfg.RelayEnabled() {
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()

		relay := redis.NewCartRelay(rdb, cfg.Redis.Channel, changes, log)
		go runRelay(ctx, relay, log)
	}

	// Probes run in the background; guarded routes answer 503 until they
	// settle.
	go session.Bootstrap(ctx)

	badge.Mount(ctx)
	defer badge.Unmount()

	e := api.NewRouter(api.Deps{
		Client:      client,
		Session:     session,
		CartChanges: changes,
		Badge:       badge,
		Redis:       rdb,
		SignInPath:  cfg.Admin.SignInPath,
		Log:         log,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("api", cfg.API.BaseURL).
			Bool("relay", cfg.RelayEnabled()).
			Msg("storefront console listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return e.Close()
	}
	return nil
}

// runRelay keeps the cart relay subscribed, reconnecting after a dropped
// Redis connection until ctx ends.
func runRelay(ctx context.Context, relay *redis.CartRelay, log zerolog.Logger) {
	for {
		err := relay.Run(ctx)
		if ctx.Err() != nil {
			return
		}
		log.Warn().Err(err).Str("instance", relay.InstanceID()).Msg("cart relay stopped, restarting")

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pix-checkout/internal/config"
	"pix-checkout/internal/infrastructure/asaas"
	"pix-checkout/internal/infrastructure/events"
	"pix-checkout/internal/infrastructure/repo"
	"pix-checkout/internal/logging"
	"pix-checkout/internal/server"
	"pix-checkout/internal/settings"
	"pix-checkout/internal/usecase"
)

type store interface {
	settings.Store
	usecase.ProductRepo
	usecase.OrderRepo
	repo.Seeder
}

type publisher interface {
	usecase.EventPublisher
	Close() error
}

func serveCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the checkout HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, *cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	log := logging.New(os.Stdout, cfg.LogJSON, cfg.Env)
	slog.SetDefault(log)

	st, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()
	if cfg.SeedFile != "" {
		if err := applySeed(ctx, cfg.SeedFile, st); err != nil {
			return err
		}
		log.Info("seed applied", "file", cfg.SeedFile)
	}

	var pub publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		log.Info("publishing order events", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	defer pub.Close()

	secret := cfg.SessionSecret
	if secret == "" {
		if cfg.Env != "dev" {
			return errors.New("CHECKOUT_SESSION_SECRET is required outside dev")
		}
		secret = uuid.NewString()
		log.Warn("no session secret configured, using a random one; sessions will not survive restarts")
	}

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	resolver := &settings.Resolver{Store: st}
	gateway := &asaas.Client{
		Config: resolver,
		HTTP:   &http.Client{Timeout: cfg.GatewayTimeout},
		Logger: log,
	}
	ledger := &usecase.Ledger{Repo: st, Events: pub, Logger: log}
	checkout := &usecase.Checkout{
		Products: st,
		Config:   resolver,
		Gateway:  gateway,
		Ledger:   ledger,
		Logger:   log,
	}
	srv := server.New(cfg, server.Deps{
		Checkout: checkout,
		Orders:   ledger,
		Charges:  gateway,
		Tokens:   &usecase.SessionTokens{Secret: secret, TTL: cfg.SessionTTL},
		Logger:   log,
	})

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", httpSrv.Addr, "env", cfg.Env)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (store, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn("no database configured, using in-memory store")
		return repo.NewMemoryStore(), func() {}, nil
	}
	pg, err := repo.NewPostgresRepo(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := pg.Ping(ctx); err != nil {
		_ = pg.Close()
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pg.Migrate(ctx); err != nil {
		_ = pg.Close()
		return nil, nil, err
	}
	return pg, func() { _ = pg.Close() }, nil
}

func applySeed(ctx context.Context, path string, dst repo.Seeder) error {
	seed, err := repo.LoadSeed(path)
	if err != nil {
		return err
	}
	return seed.Apply(ctx, dst)
}

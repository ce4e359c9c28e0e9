package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pix-checkout/internal/config"
	"pix-checkout/internal/env"
)

var Version = "dev"

func main() {
	env.Load(".env", ".env.local")
	cfg := config.EnvDefaults()

	rootCmd := &cobra.Command{
		Use:           "checkout-backend",
		Short:         "Single product checkout with PIX and card capture",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	bindFlags(rootCmd, &cfg)

	rootCmd.AddCommand(serveCmd(&cfg))
	rootCmd.AddCommand(migrateCmd(&cfg))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bindFlags lets flags override values already taken from the environment.
func bindFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.PersistentFlags()
	f.StringVar(&cfg.Env, "env", cfg.Env, "environment name (dev enables debug logs)")
	f.IntVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	f.StringVar(&cfg.SessionSecret, "session-secret", cfg.SessionSecret, "HMAC secret for checkout session tokens")
	f.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "checkout session lifetime")
	f.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "log as JSON")
	f.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "Postgres DSN; in-memory store when empty")
	f.StringSliceVar(&cfg.KafkaBrokers, "kafka-brokers", cfg.KafkaBrokers, "Kafka brokers for order events")
	f.StringVar(&cfg.KafkaTopic, "kafka-topic", cfg.KafkaTopic, "Kafka topic for order events")
	f.DurationVar(&cfg.GatewayTimeout, "gateway-timeout", cfg.GatewayTimeout, "timeout for each gateway request")
	f.StringVar(&cfg.SeedFile, "seed", cfg.SeedFile, "JSON file with settings and products to load at startup")
}

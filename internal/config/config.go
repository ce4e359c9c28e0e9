package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env            string
	Port           int
	SessionSecret  string
	SessionTTL     time.Duration
	LogJSON        bool
	DatabaseURL    string
	KafkaBrokers   []string
	KafkaTopic     string
	GatewayTimeout time.Duration
	SeedFile       string
}

func Default() Config {
	return Config{
		Env:            "dev",
		Port:           5000,
		SessionSecret:  "",
		SessionTTL:     2 * time.Hour,
		LogJSON:        true,
		KafkaTopic:     "checkout.orders",
		GatewayTimeout: 15 * time.Second,
	}
}

func EnvDefaults() Config {
	return fromEnv(Default())
}

func fromEnv(c Config) Config {
	if v := os.Getenv("CHECKOUT_ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("CHECKOUT_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Port = p
		}
	}
	if v := os.Getenv("CHECKOUT_SESSION_SECRET"); v != "" {
		c.SessionSecret = v
	}
	if v := os.Getenv("CHECKOUT_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.SessionTTL = d
		}
	}
	if v := os.Getenv("CHECKOUT_LOG_JSON"); v != "" {
		switch v {
		case "1", "true", "TRUE":
			c.LogJSON = true
		case "0", "false", "FALSE":
			c.LogJSON = false
		}
	}
	if v := os.Getenv("CHECKOUT_DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("CHECKOUT_KAFKA_BROKERS"); v != "" {
		c.KafkaBrokers = SplitList(v)
	}
	if v := os.Getenv("CHECKOUT_KAFKA_TOPIC"); v != "" {
		c.KafkaTopic = v
	}
	if v := os.Getenv("CHECKOUT_GATEWAY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.GatewayTimeout = d
		}
	}
	if v := os.Getenv("CHECKOUT_SEED_FILE"); v != "" {
		c.SeedFile = v
	}
	return c
}

// SplitList splits a comma separated value and drops empty entries.
func SplitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

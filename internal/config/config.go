package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	TreasuryAddress string
	TokenSecret     string
	SettleInterval  time.Duration
	WorkerPoolSize  int
	ShutdownTimeout time.Duration
	MaxSettleBatch  int
}

const (
	defaultRunAddress      = ":8080"
	defaultTokenSecret     = "change-me-in-production"
	defaultSettleInterval  = 3 * time.Second
	defaultWorkerPoolSize  = 4
	defaultShutdownTimeout = 10 * time.Second
	defaultMaxSettleBatch  = 32
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		TreasuryAddress: getString(lookup, "TREASURY_ADDRESS", ""),
		TokenSecret:     getString(lookup, "TOKEN_SECRET", defaultTokenSecret),
		SettleInterval:  getDuration(lookup, "SETTLE_INTERVAL", defaultSettleInterval),
		WorkerPoolSize:  getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		MaxSettleBatch:  getInt(lookup, "SETTLE_BATCH_SIZE", defaultMaxSettleBatch),
	}

	fs := flag.NewFlagSet("rewards", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		settleIntervalStr  = cfg.SettleInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.TreasuryAddress, "t", cfg.TreasuryAddress, "Treasury service base URL")
	fs.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "Secret for signing auth tokens")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent settlement workers")
	fs.StringVar(&settleIntervalStr, "settle-interval", settleIntervalStr, "Interval between payout settlement polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.MaxSettleBatch, "settle-batch", cfg.MaxSettleBatch, "Maximum payouts per settlement batch")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.SettleInterval, err = time.ParseDuration(settleIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid settle interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("TOKEN_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read token secret file: %w", err)
		}
		cfg.TokenSecret = string(content)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.MaxSettleBatch <= 0 {
		cfg.MaxSettleBatch = defaultMaxSettleBatch
	}

	if cfg.SettleInterval <= 0 {
		cfg.SettleInterval = defaultSettleInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.TreasuryAddress == "" {
		return nil, fmt.Errorf("treasury address must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nkiryanov/grail/internal/logger"
	"github.com/nkiryanov/grail/internal/service/purchase"
)

const (
	defaultListenAddr   = "localhost:8000"
	defaultLoggingLevel = logger.LevelInfo
	defaultEnvironment  = logger.EnvProduction

	// Wallet of the single app session
	defaultWalletID = "6f1c2a4e-8b3d-4e5f-9a7b-1c2d3e4f5a6b"
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the grail service will be run
	ListenAddr string

	// Database to connect to. Wallet is kept in memory if empty
	DatabaseDSN string

	// Environment
	Environment string

	// Wallet served by the app. Created with the starting balance if it doesn't exist
	WalletID string

	// Simulated processing time of product purchases and token top ups
	PurchaseDelay time.Duration
	TopUpDelay    time.Duration

	// How long finished purchases stay queryable and their request ids replay
	FlowTTL time.Duration
}

func NewConfig() *Config {
	return &Config{
		LogLevel:      defaultLoggingLevel,
		ListenAddr:    defaultListenAddr,
		Environment:   defaultEnvironment,
		WalletID:      defaultWalletID,
		PurchaseDelay: purchase.DefaultProductDelay,
		TopUpDelay:    purchase.DefaultTopUpDelay,
		FlowTTL:       purchase.DefaultFlowTTL,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		return c.LoadEnv(func(key string) string {
			return envMap[key]
		})
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) error {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) error {
		return func(value string) error {
			if value != "" {
				*o = value
			}
			return nil
		}
	}

	setDuration := func(o *time.Duration) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			*o = d
			return nil
		}
	}

	envMap := map[string]func(string) error{
		"RUN_ADDRESS":    setString(&c.ListenAddr),
		"DATABASE_URI":   setString(&c.DatabaseDSN),
		"LOG_LEVEL":      setString(&c.LogLevel),
		"ENVIRONMENT":    setString(&c.Environment),
		"WALLET_ID":      setString(&c.WalletID),
		"PURCHASE_DELAY": setDuration(&c.PurchaseDelay),
		"TOPUP_DELAY":    setDuration(&c.TopUpDelay),
		"FLOW_TTL":       setDuration(&c.FlowTTL),
	}

	for key, parseFn := range envMap {
		if err := parseFn(getenv(key)); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}

	return nil
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("grail", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string, in-memory wallet if empty")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")
	fs.StringVarP(&c.WalletID, "wallet-id", "w", c.WalletID, "Wallet UUID")
	fs.DurationVar(&c.PurchaseDelay, "purchase-delay", c.PurchaseDelay, "Product purchase processing time")
	fs.DurationVar(&c.TopUpDelay, "topup-delay", c.TopUpDelay, "Token top up processing time")
	fs.DurationVar(&c.FlowTTL, "flow-ttl", c.FlowTTL, "How long finished purchases are kept")

	return fs.Parse(args)
}

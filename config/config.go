// Package config provides configuration management for cryptobook.
// It loads settings from environment variables, optionally read from a .env
// file, and the book definition from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Store   StoreConfig
	Oracle  OracleConfig
	Addr    string // listen address of the API server
	Verbose bool
	Book    Book
}

// StoreConfig selects where transactions are kept.
type StoreConfig struct {
	Kind string // jsonl, sqlite or bolt
	Path string
}

// OracleConfig configures the price oracle.
type OracleConfig struct {
	URL        string
	MinRefresh time.Duration
	Timeout    time.Duration
	CacheDir   string
}

// Book is the definition of the tracked book: who owns, and which assets.
type Book struct {
	Owners  []string          `yaml:"owners"`
	Fiat    []string          `yaml:"fiat"`
	Stable  []string          `yaml:"stable"`
	Cryptos []string          `yaml:"cryptos"`
	IDs     map[string]string `yaml:"coingecko_ids"`
}

// DefaultBook is used when no book file is given.
func DefaultBook() Book {
	return Book{
		Owners:  []string{"hassan", "abbas", "shahla", "mohsen"},
		Fiat:    []string{"IRR"},
		Stable:  []string{"USDT"},
		Cryptos: []string{"BTC", "ETH", "BNB", "SOL", "XRP", "USDC", "ADA", "DOGE", "DOT", "PAXG"},
		IDs: map[string]string{
			"BTC":  "bitcoin",
			"ETH":  "ethereum",
			"BNB":  "binancecoin",
			"SOL":  "solana",
			"XRP":  "ripple",
			"USDC": "usd-coin",
			"ADA":  "cardano",
			"DOGE": "dogecoin",
			"DOT":  "polkadot",
			"PAXG": "pax-gold",
			"USDT": "tether",
		},
	}
}

// Currencies returns the stable assets followed by the cryptos.
func (b Book) Currencies() []string { return slices.Concat(b.Stable, b.Cryptos) }

// IsFiat reports whether symbol is a fiat currency of the book.
func (b Book) IsFiat(symbol string) bool { return slices.Contains(b.Fiat, strings.ToUpper(symbol)) }

// IsStable reports whether symbol is a stable asset of the book.
func (b Book) IsStable(symbol string) bool {
	return slices.Contains(b.Stable, strings.ToUpper(symbol))
}

// LoadBook reads a book definition from a YAML file. Missing sections keep
// their default value.
func LoadBook(path string) (Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Book{}, fmt.Errorf("failed to read book file: %w", err)
	}
	return ParseBook(data)
}

// ParseBook parses a YAML book definition.
func ParseBook(data []byte) (Book, error) {
	var b Book
	if err := yaml.Unmarshal(data, &b); err != nil {
		return Book{}, fmt.Errorf("failed to parse book file: %w", err)
	}
	def := DefaultBook()
	if len(b.Owners) == 0 {
		b.Owners = def.Owners
	}
	if len(b.Fiat) == 0 {
		b.Fiat = def.Fiat
	}
	if len(b.Stable) == 0 {
		b.Stable = def.Stable
	}
	if len(b.Cryptos) == 0 {
		b.Cryptos = def.Cryptos
	}
	ids := def.IDs
	for sym, id := range b.IDs {
		ids[strings.ToUpper(sym)] = id
	}
	b.IDs = ids
	for _, list := range [][]string{b.Fiat, b.Stable, b.Cryptos} {
		for i := range list {
			list[i] = strings.ToUpper(strings.TrimSpace(list[i]))
		}
	}
	return b, nil
}

// Load loads configuration from environment variables.
// It loads the .env file at envPath if given, or from the current directory
// if available.
func Load(envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	minRefresh, err := parseDurationEnv("CBK_PRICE_REFRESH", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	timeout, err := parseDurationEnv("CBK_PRICE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	verbose, err := parseBoolEnv("CBK_VERBOSE", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Store: StoreConfig{
			Kind: getEnvOrDefault("CBK_STORE", "jsonl"),
			Path: getEnvOrDefault("CBK_LEDGER", "transactions.jsonl"),
		},
		Oracle: OracleConfig{
			URL:        getEnvOrDefault("CBK_COINGECKO_URL", "https://api.coingecko.com/api/v3"),
			MinRefresh: minRefresh,
			Timeout:    timeout,
			CacheDir:   getEnvOrDefault("CBK_CACHE_DIR", os.TempDir()),
		},
		Addr:    getEnvOrDefault("CBK_ADDR", "localhost:8080"),
		Verbose: verbose,
		Book:    DefaultBook(),
	}

	if path := os.Getenv("CBK_BOOK"); path != "" {
		b, err := LoadBook(path)
		if err != nil {
			return nil, err
		}
		cfg.Book = b
	} else if b, err := LoadBook("cryptobook.yaml"); err == nil {
		cfg.Book = b
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	switch c.Store.Kind {
	case "jsonl", "sqlite", "bolt":
	default:
		return fmt.Errorf("invalid CBK_STORE %q: want jsonl, sqlite or bolt", c.Store.Kind)
	}
	if c.Store.Path == "" {
		return errors.New("missing required configuration: CBK_LEDGER")
	}
	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration value for %s: %s", key, value)
	}
	return d, nil
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean value for %s: %s", key, value)
	}
	return b, nil
}

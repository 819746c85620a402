package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port           int           `yaml:"port"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
	} `yaml:"server"`
	DataSource struct {
		Provider string        `yaml:"provider"`
		BaseURL  string        `yaml:"base_url"`
		Currency string        `yaml:"currency"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Investment struct {
		DefaultAmount float64 `yaml:"default_amount"`
		CurrencyLabel string  `yaml:"currency_label"`
	} `yaml:"investment"`
	Card struct {
		ImageURL string `yaml:"image_url"`
		LinkURL  string `yaml:"link_url"`
	} `yaml:"card"`
	Schedule struct {
		ProbeCron string `yaml:"probe_cron"`
	} `yaml:"schedule"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Timezone string `yaml:"timezone"`
	Proxy    string `yaml:"proxy"`
}

// Supported price providers.
const (
	ProviderCoindesk      = "coindesk"
	ProviderCryptoCompare = "cryptocompare"
	ProviderMock          = "mock"
)

// Load reads config from a YAML file, then applies .env and environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Server.RequestTimeout = d
		}
	}
	if v := os.Getenv("PRICE_PROVIDER"); v != "" {
		c.DataSource.Provider = v
	}
	if v := os.Getenv("PRICE_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("PRICE_CURRENCY"); v != "" {
		c.DataSource.Currency = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("DEFAULT_INVESTMENT"); v != "" {
		var amount float64
		if _, err := fmt.Sscanf(v, "%f", &amount); err == nil {
			c.Investment.DefaultAmount = amount
		}
	}
	if v := os.Getenv("CARD_IMAGE_URL"); v != "" {
		c.Card.ImageURL = v
	}
	if v := os.Getenv("CARD_LINK_URL"); v != "" {
		c.Card.LinkURL = v
	}
	if v := os.Getenv("CRON_PROBE"); v != "" {
		c.Schedule.ProbeCron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_PRETTY"); v != "" {
		c.Log.Pretty = v == "true" || v == "1"
	}
	if v := os.Getenv("TIMEZONE"); v != "" {
		c.Timezone = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 10 * time.Second
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderCoindesk
	}
	c.DataSource.Provider = strings.ToLower(c.DataSource.Provider)
	if c.DataSource.Currency == "" {
		c.DataSource.Currency = "EUR"
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 30 * time.Second
	}
	if c.Investment.DefaultAmount == 0 {
		c.Investment.DefaultAmount = 10000
	}
	if c.Investment.CurrencyLabel == "" {
		c.Investment.CurrencyLabel = strings.ToUpper(c.DataSource.Currency)
	}
	if c.Schedule.ProbeCron == "" {
		c.Schedule.ProbeCron = "0 0 * * * *"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
}

// Location returns the time zone used to decide what "today" is.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case ProviderCoindesk, ProviderCryptoCompare, ProviderMock:
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Investment.DefaultAmount <= 0 {
		return fmt.Errorf("investment.default_amount must be positive")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	return nil
}

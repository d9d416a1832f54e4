package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"OptionSentinel/internal/model"
)

// Stock is one watched symbol with optional threshold overrides.
type Stock struct {
	Symbol         string   `yaml:"symbol"`
	PremiumLotSize int      `yaml:"premium_lot_size"`
	MinPremium     *float64 `yaml:"min_premium"`
	MinOI          *int64   `yaml:"min_oi"`
}

// Thresholds mirrors model.AlertThresholds in YAML form.
type Thresholds struct {
	MinPremium float64 `yaml:"min_premium"`
	MinOI      int64   `yaml:"min_oi"`
	PutRatio   float64 `yaml:"put_ratio"`
	CallRatio  float64 `yaml:"call_ratio"`
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken      string `yaml:"bot_token"`
		ChatID        string `yaml:"chat_id"`
		APIBase       string `yaml:"api_base"`
		MaxMessageLen int    `yaml:"max_message_len"`
		Retries       int    `yaml:"retries"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Thresholds Thresholds `yaml:"thresholds"`
	Stocks     []Stock    `yaml:"stocks"`
	Run        struct {
		ExpiryMode  string `yaml:"expiry_mode"`
		MaxExpiries int    `yaml:"max_expiries"`
		Concurrency int    `yaml:"concurrency"`
	} `yaml:"run"`
	Schedule struct {
		Cron       string `yaml:"cron"`
		RunOnStart bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// DefaultStocks is the watch list used when none is configured.
var DefaultStocks = []string{
	"nifty",
	"infosys-ltd",
	"hindustan-unilever-ltd",
	"reliance-industries-ltd",
	"state-bank-of-india",
	"tata-consultancy-services-ltd",
	"wipro-ltd",
	"itc-ltd",
	"bharti-airtel-ltd",
	"icici-bank-ltd",
	"hdfc-bank-ltd",
	"axis-bank-ltd",
	"maruti-suzuki-india-ltd",
	"nestle-india-ltd",
	"apollo-hospitals-enterprise-ltd",
}

// Load reads .env and the YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := newDefault()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("GROWW_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		c.Schedule.Cron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("STOCKS"); v != "" {
		c.Stocks = nil
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Stocks = append(c.Stocks, Stock{Symbol: s})
			}
		}
	}
}

// newDefault returns a Config holding every default. The YAML file is decoded
// on top of it, so explicit values in the file, zeros included, win.
func newDefault() *Config {
	c := &Config{}
	c.Telegram.APIBase = "https://api.telegram.org"
	c.Telegram.MaxMessageLen = 3900
	c.Telegram.Retries = 3
	c.DataSource.BaseURL = "https://groww.in/options"
	c.DataSource.Timeout = 15 * time.Second
	c.Thresholds = Thresholds{MinPremium: 4000, MinOI: 50, PutRatio: 0.9, CallRatio: 1.1}
	c.Run.ExpiryMode = "nearest"
	c.Run.Concurrency = 1
	c.Schedule.Cron = "0 */15 9-15 * * 1-5"
	c.Log.Level = "info"
	return c
}

// applyDefaults fills what an empty file section or env value leaves unset.
func (c *Config) applyDefaults() {
	if len(c.Stocks) == 0 {
		for _, s := range DefaultStocks {
			c.Stocks = append(c.Stocks, Stock{Symbol: s})
		}
	}
	if c.Telegram.APIBase == "" {
		c.Telegram.APIBase = "https://api.telegram.org"
	}
	if c.DataSource.BaseURL == "" {
		c.DataSource.BaseURL = "https://groww.in/options"
	}
}

// Validate checks that all required fields are set. Telegram credentials are
// only required when messages will actually be sent.
func (c *Config) Validate(requireTelegram bool) error {
	if requireTelegram {
		if c.Telegram.BotToken == "" {
			return errors.New("telegram.bot_token is required")
		}
		if c.Telegram.ChatID == "" {
			return errors.New("telegram.chat_id is required")
		}
	}
	if len(c.Stocks) == 0 {
		return errors.New("stocks must not be empty")
	}
	seen := make(map[string]bool, len(c.Stocks))
	for i, s := range c.Stocks {
		if s.Symbol == "" {
			return fmt.Errorf("stocks[%d].symbol is required", i)
		}
		if seen[s.Symbol] {
			return fmt.Errorf("stocks[%d]: duplicate symbol %q", i, s.Symbol)
		}
		seen[s.Symbol] = true
		if s.PremiumLotSize < 0 {
			return fmt.Errorf("stocks[%d].premium_lot_size must not be negative", i)
		}
		if s.MinPremium != nil && *s.MinPremium < 0 {
			return fmt.Errorf("stocks[%d].min_premium must not be negative", i)
		}
		if s.MinOI != nil && *s.MinOI < 0 {
			return fmt.Errorf("stocks[%d].min_oi must not be negative", i)
		}
	}
	if c.Thresholds.MinPremium < 0 || c.Thresholds.MinOI < 0 {
		return errors.New("thresholds must not be negative")
	}
	if c.Thresholds.PutRatio <= 0 || c.Thresholds.CallRatio <= 0 {
		return errors.New("thresholds.put_ratio and thresholds.call_ratio must be positive")
	}
	switch c.Run.ExpiryMode {
	case "nearest", "all":
	default:
		return fmt.Errorf("run.expiry_mode must be nearest or all, got %q", c.Run.ExpiryMode)
	}
	if c.Run.MaxExpiries < 0 {
		return errors.New("run.max_expiries must not be negative")
	}
	if c.Run.Concurrency < 1 {
		return errors.New("run.concurrency must be at least 1")
	}
	if c.Telegram.MaxMessageLen < 100 {
		return errors.New("telegram.max_message_len must be at least 100")
	}
	return nil
}

// Symbols returns the configured symbols in order.
func (c *Config) Symbols() []string {
	out := make([]string, len(c.Stocks))
	for i, s := range c.Stocks {
		out[i] = s.Symbol
	}
	return out
}

// Stock returns the entry for symbol, or a bare entry when it is not configured.
func (c *Config) Stock(symbol string) Stock {
	for _, s := range c.Stocks {
		if s.Symbol == symbol {
			return s
		}
	}
	return Stock{Symbol: symbol}
}

// PremiumLotSize returns the configured premium lot size for symbol, 0 if unset.
func (c *Config) PremiumLotSize(symbol string) int {
	return c.Stock(symbol).PremiumLotSize
}

// ThresholdsFor resolves the alert thresholds for symbol, applying per-stock overrides.
func (c *Config) ThresholdsFor(symbol string) model.AlertThresholds {
	th := model.AlertThresholds{
		MinPremium:      decimal.NewFromFloat(c.Thresholds.MinPremium),
		MinOpenInterest: c.Thresholds.MinOI,
		PutTargetRatio:  decimal.NewFromFloat(c.Thresholds.PutRatio),
		CallTargetRatio: decimal.NewFromFloat(c.Thresholds.CallRatio),
	}
	s := c.Stock(symbol)
	if s.MinPremium != nil {
		th.MinPremium = decimal.NewFromFloat(*s.MinPremium)
	}
	if s.MinOI != nil {
		th.MinOpenInterest = *s.MinOI
	}
	return th
}

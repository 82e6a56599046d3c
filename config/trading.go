package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// StockConfig is one symbol entry of the trading configuration document.
type StockConfig struct {
	Code             string  `yaml:"code" json:"code"`
	Name             string  `yaml:"name" json:"name"`
	Strategy         string  `yaml:"strategy" json:"strategy"`
	MaxAmount        int64   `yaml:"max_amount" json:"max_amount"`
	BuyPrice         int64   `yaml:"buy_price" json:"buy_price"`
	SellPrice        int64   `yaml:"sell_price" json:"sell_price"`
	K                float64 `yaml:"k,omitempty" json:"k,omitempty"`
	TargetProfitRate float64 `yaml:"target_profit_rate,omitempty" json:"target_profit_rate,omitempty"`
	StopLossRate     float64 `yaml:"stop_loss_rate,omitempty" json:"stop_loss_rate,omitempty"`
	Interval         int     `yaml:"interval,omitempty" json:"interval,omitempty"` // seconds, 0 means the default
	Enabled          bool    `yaml:"enabled" json:"enabled"`
	Priority         int     `yaml:"priority" json:"priority"`
}

// TradingSettings is the settings block of the trading configuration document.
type TradingSettings struct {
	DefaultInterval int `yaml:"default_interval" json:"default_interval"` // seconds between polls
	MaxDailyTrades  int `yaml:"max_daily_trades" json:"max_daily_trades"`
}

// TradingConfig is the full per-symbol trading configuration.
type TradingConfig struct {
	Settings TradingSettings `yaml:"settings" json:"settings"`
	Stocks   []StockConfig   `yaml:"stocks" json:"stocks"`
}

// DefaultTradingConfig returns the configuration used when no document exists yet.
func DefaultTradingConfig() *TradingConfig {
	return &TradingConfig{
		Settings: TradingSettings{
			DefaultInterval: 60,
			MaxDailyTrades:  10,
		},
	}
}

// EnabledStocks returns the enabled symbols sorted by ascending priority.
func (c *TradingConfig) EnabledStocks() []StockConfig {
	enabled := make([]StockConfig, 0, len(c.Stocks))
	for _, s := range c.Stocks {
		if s.Enabled {
			enabled = append(enabled, s)
		}
	}
	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})
	return enabled
}

// StockByCode returns the config for a symbol, or nil when it is not listed.
func (c *TradingConfig) StockByCode(code string) *StockConfig {
	for i := range c.Stocks {
		if c.Stocks[i].Code == code {
			return &c.Stocks[i]
		}
	}
	return nil
}

// Interval returns the poll interval in seconds for a symbol.
func (c *TradingConfig) Interval(s StockConfig) int {
	if s.Interval > 0 {
		return s.Interval
	}
	return c.Settings.DefaultInterval
}

// UpsertStock replaces the entry with the same code or appends a new one.
func (c *TradingConfig) UpsertStock(stock StockConfig) {
	for i := range c.Stocks {
		if c.Stocks[i].Code == stock.Code {
			c.Stocks[i] = stock
			return
		}
	}
	c.Stocks = append(c.Stocks, stock)
}

// RemoveStock deletes the entry with the given code.
func (c *TradingConfig) RemoveStock(code string) bool {
	for i := range c.Stocks {
		if c.Stocks[i].Code == code {
			c.Stocks = append(c.Stocks[:i], c.Stocks[i+1:]...)
			return true
		}
	}
	return false
}

// LoadTradingConfig reads the YAML document at path. A missing file yields
// the default configuration rather than an error.
func LoadTradingConfig(path string) (*TradingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultTradingConfig(), nil
		}
		return nil, fmt.Errorf("failed to read trading config %s: %w", path, err)
	}

	cfg := DefaultTradingConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse trading config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the document back to path, creating parent directories as needed.
func (c *TradingConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal trading config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	return os.WriteFile(path, data, 0o644)
}

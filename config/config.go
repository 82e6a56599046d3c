package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log      Logger         `mapstructure:"logger"`
	DB       Database       `mapstructure:"database"`
	API      API            `mapstructure:"api"`
	KIS      KIS            `mapstructure:"kis"`
	Cache    Cache          `mapstructure:"cache"`
	Trading  Trading        `mapstructure:"trading"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Enabled         bool   `mapstructure:"enabled"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

// KIS holds credentials and limits for the Korea Investment & Securities open API.
type KIS struct {
	AppKey              string        `mapstructure:"app_key"`
	AppSecret           string        `mapstructure:"app_secret"`
	AccountNo           string        `mapstructure:"account_no"`
	Environment         string        `mapstructure:"environment"` // "prod" or "dev"
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerSecond int           `mapstructure:"max_request_per_second"`
}

// IsProduction reports whether the client talks to the real-money endpoint
// instead of the virtual trading sandbox.
func (k KIS) IsProduction() bool {
	return k.Environment == "prod"
}

// AccountPrefix returns the first 8 digits of the account number ("12345678-01").
func (k KIS) AccountPrefix() string {
	return strings.SplitN(k.AccountNo, "-", 2)[0]
}

// AccountSuffix returns the 2-digit product code of the account number.
func (k KIS) AccountSuffix() string {
	parts := strings.SplitN(k.AccountNo, "-", 2)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

// Trading points at the per-symbol trading configuration document.
type Trading struct {
	ConfigPath string `mapstructure:"config_path"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

func Load() (*Config, error) {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	viper.SetConfigName("config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("kis.environment", "dev")
	viper.SetDefault("kis.timeout", 10*time.Second)
	viper.SetDefault("kis.max_request_per_second", 5)
	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)
	viper.SetDefault("trading.config_path", "trading.yaml")
}

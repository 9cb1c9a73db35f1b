// Package config loads application configuration from defaults,
// config.yaml, .env, environment variables and command line flags, in
// that order of precedence.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Helius   HeliusConfig   `mapstructure:"helius"`
	RPC      RPCConfig      `mapstructure:"rpc"`
	Dex      DexConfig      `mapstructure:"dex"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	DB       DBConfig       `mapstructure:"db"`
	Workers  WorkersConfig  `mapstructure:"workers"`
	App      AppConfig      `mapstructure:"app"`
}

type HeliusConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type RPCConfig struct {
	URL string `mapstructure:"url"`
}

type DexConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	// OperatorHandle is hidden from the public influencer roster.
	OperatorHandle string `mapstructure:"operator_handle"`
}

type DBConfig struct {
	DSN      string `mapstructure:"dsn"`
	MinConns int32  `mapstructure:"min_conns"`
	MaxConns int32  `mapstructure:"max_conns"`
}

type WorkersConfig struct {
	InventoryIntervalSec int `mapstructure:"inventory_interval_sec"`
	IngestIntervalSec    int `mapstructure:"ingest_interval_sec"`
	DetectorIntervalSec  int `mapstructure:"detector_interval_sec"`
	RecoveryDelaySec     int `mapstructure:"recovery_delay_sec"`
}

type AppConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	LogLevel   string `mapstructure:"log_level"`
	LogFormat  string `mapstructure:"log_format"`
}

// InventoryInterval returns the holdings loop period.
func (w WorkersConfig) InventoryInterval() time.Duration {
	return time.Duration(w.InventoryIntervalSec) * time.Second
}

// IngestInterval returns the activity loop period.
func (w WorkersConfig) IngestInterval() time.Duration {
	return time.Duration(w.IngestIntervalSec) * time.Second
}

// DetectorInterval returns the detector loop period.
func (w WorkersConfig) DetectorInterval() time.Duration {
	return time.Duration(w.DetectorIntervalSec) * time.Second
}

// RecoveryDelay returns the pause after a failed tick.
func (w WorkersConfig) RecoveryDelay() time.Duration {
	return time.Duration(w.RecoveryDelaySec) * time.Second
}

// RegisterFlags adds the override flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("helius.api_key", "", "Helius API key (env: HELIUS_API_KEY)")
	fs.String("helius.base_url", "", "Helius base URL override")
	fs.String("rpc.url", "", "Solana RPC endpoint (env: SOLANA_RPC_URL)")
	fs.String("dex.base_url", "", "DexScreener base URL override")
	fs.String("telegram.bot_token", "", "Telegram bot token (env: TELEGRAM_BOT_TOKEN)")
	fs.String("db.dsn", "", "Postgres DSN (env: DATABASE_DSN)")
	fs.Int("workers.inventory_interval_sec", 120, "Holdings loop period in seconds")
	fs.Int("workers.ingest_interval_sec", 60, "Activity loop period in seconds")
	fs.Int("workers.detector_interval_sec", 60, "Detector loop period in seconds")
	fs.String("app.listen_addr", ":8080", "Metrics and health listen address")
	fs.String("app.log_level", "info", "Log level: debug, info, warn, error")
	fs.String("app.log_format", "json", "Log format: json or console")
}

// Load builds the configuration. fs may be nil when no flag overrides
// apply (operator subcommands).
func Load(fs *pflag.FlagSet) (*Config, error) {
	godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.ReadInConfig() // optional file

	v.AutomaticEnv()
	bindEnvAliases(v)

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required (env: DATABASE_DSN)")
	}
	return &cfg, nil
}

func bindEnvAliases(v *viper.Viper) {
	v.BindEnv("helius.api_key", "HELIUS_API_KEY")
	v.BindEnv("helius.base_url", "HELIUS_BASE_URL")
	v.BindEnv("rpc.url", "SOLANA_RPC_URL")
	v.BindEnv("dex.base_url", "DEXSCREENER_BASE_URL")
	v.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.operator_handle", "OPERATOR_HANDLE")
	v.BindEnv("db.dsn", "DATABASE_DSN")
	v.BindEnv("db.min_conns", "DATABASE_MIN_CONNS")
	v.BindEnv("db.max_conns", "DATABASE_MAX_CONNS")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("helius.api_key", "")
	v.SetDefault("helius.base_url", "https://api.helius.xyz")
	v.SetDefault("rpc.url", "https://api.mainnet-beta.solana.com")
	v.SetDefault("dex.base_url", "https://api.dexscreener.com")
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.operator_handle", "")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.min_conns", 1)
	v.SetDefault("db.max_conns", 10)
	v.SetDefault("workers.inventory_interval_sec", 120)
	v.SetDefault("workers.ingest_interval_sec", 60)
	v.SetDefault("workers.detector_interval_sec", 60)
	v.SetDefault("workers.recovery_delay_sec", 60)
	v.SetDefault("app.listen_addr", ":8080")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")
}

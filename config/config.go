package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultConversionRate is the number of TARGET_CURRENCY units per one
// SOURCE_CURRENCY unit used by every report.
const DefaultConversionRate = "140"

type Config struct {
	ListenPath string `yaml:"listen_path"`

	DBType string `yaml:"db_type"`
	DBDSN  string `yaml:"db_dsn"`

	JWTSecret       string        `yaml:"jwt_secret"`
	JWTTestMode     bool          `yaml:"jwt_test_mode"`
	JWKSURL         string        `yaml:"jwks_url"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`

	MarketProvider      string        `yaml:"market_provider"`
	AlphaVantageAPIKey  string        `yaml:"alpha_vantage_api_key"`
	AlphaVantageBaseURL string        `yaml:"alpha_vantage_base_url"`
	FinnhubAPIKey       string        `yaml:"finnhub_api_key"`
	AlpacaKeyID         string        `yaml:"alpaca_key_id"`
	AlpacaSecretKey     string        `yaml:"alpaca_secret_key"`
	MarketTimeout       time.Duration `yaml:"market_timeout"`
	IgnoreSSLCerts      bool          `yaml:"ignore_ssl_certs"`

	MarketOAuthTokenURL     string `yaml:"market_oauth_token_url"`
	MarketOAuthClientID     string `yaml:"market_oauth_client_id"`
	MarketOAuthClientSecret string `yaml:"market_oauth_client_secret"`

	SnapshotPath    string        `yaml:"snapshot_path"`
	SnapshotSymbols []string      `yaml:"snapshot_symbols"`
	SnapshotCron    string        `yaml:"snapshot_cron"`
	RepriceInterval time.Duration `yaml:"reprice_interval"`

	ConversionRate decimal.Decimal `yaml:"-"`
	RawRate        string          `yaml:"conversion_rate"`
	SourceCurrency string          `yaml:"source_currency"`
	TargetCurrency string          `yaml:"target_currency"`

	BrokerNetwork string `yaml:"message_broker_network"`
	BrokerHost    string `yaml:"message_broker_host"`

	LogFile       string `yaml:"log_file"`
	LogLevel      string `yaml:"log_level"`
	LogMaxSizeMB  int64  `yaml:"log_max_size_mb"`
	LogMaxBackups int    `yaml:"log_max_backups"`
}

func defaults() *Config {
	return &Config{
		ListenPath:          ":8080",
		DBType:              "SQLITE",
		DBDSN:               "investmanager.db",
		AccessTokenTTL:      15 * time.Minute,
		RefreshTokenTTL:     24 * time.Hour,
		MarketProvider:      "alphavantage",
		AlphaVantageBaseURL: "https://www.alphavantage.co/query",
		MarketTimeout:       5 * time.Second,
		SnapshotPath:        "stock_prices.json",
		SnapshotSymbols:     []string{"AAPL", "GOOGL", "MSFT", "TSLA", "AMZN", "IBM"},
		SnapshotCron:        "0 0 * * * *",
		RepriceInterval:     time.Hour,
		RawRate:             DefaultConversionRate,
		SourceCurrency:      "USD",
		TargetCurrency:      "KES",
		LogLevel:            "INFO",
		LogMaxSizeMB:        10,
		LogMaxBackups:       3,
	}
}

// Load reads .env (if present), then CONFIG_FILE (YAML, if set), then the
// process environment. Later sources win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.mergeEnv()

	rate, err := decimal.NewFromString(cfg.RawRate)
	if err != nil || !rate.IsPositive() {
		return nil, fmt.Errorf("invalid CONVERSION_RATE %q", cfg.RawRate)
	}
	cfg.ConversionRate = rate

	if cfg.JWTSecret == "" && cfg.JWTTestMode {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}
	return cfg, nil
}

// SigningKey decodes the base64 JWT_SECRET used for HS256 tokens.
func (c *Config) SigningKey() ([]byte, error) {
	if c.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}
	key, err := base64.StdEncoding.DecodeString(c.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to decode JWT_SECRET: %w", err)
	}
	return key, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() {
	setString(&c.ListenPath, "LISTEN_PATH")
	setString(&c.DBType, "DB_TYPE")
	setString(&c.DBDSN, "DB_DSN")

	setString(&c.JWTSecret, "JWT_SECRET")
	setBool(&c.JWTTestMode, "JWT_TEST_MODE")
	setString(&c.JWKSURL, "JWKS_URL")
	setDuration(&c.AccessTokenTTL, "ACCESS_TOKEN_TTL")
	setDuration(&c.RefreshTokenTTL, "REFRESH_TOKEN_TTL")

	setString(&c.MarketProvider, "MARKET_PROVIDER")
	setString(&c.AlphaVantageAPIKey, "ALPHA_VANTAGE_API_KEY")
	setString(&c.AlphaVantageBaseURL, "ALPHA_VANTAGE_BASE_URL")
	setString(&c.FinnhubAPIKey, "FINNHUB_API_KEY")
	setString(&c.AlpacaKeyID, "APCA_API_KEY_ID")
	setString(&c.AlpacaSecretKey, "APCA_API_SECRET_KEY")
	setDuration(&c.MarketTimeout, "MARKET_TIMEOUT")
	setBool(&c.IgnoreSSLCerts, "IGNORE_SSL_CERTS")

	setString(&c.MarketOAuthTokenURL, "MARKET_OAUTH_TOKEN_URL")
	setString(&c.MarketOAuthClientID, "MARKET_OAUTH_CLIENT_ID")
	setString(&c.MarketOAuthClientSecret, "MARKET_OAUTH_CLIENT_SECRET")

	setString(&c.SnapshotPath, "SNAPSHOT_PATH")
	if v, ok := os.LookupEnv("SNAPSHOT_SYMBOLS"); ok && v != "" {
		c.SnapshotSymbols = splitSymbols(v)
	}
	setString(&c.SnapshotCron, "SNAPSHOT_CRON")
	setDuration(&c.RepriceInterval, "REPRICE_INTERVAL")

	setString(&c.RawRate, "CONVERSION_RATE")
	setString(&c.SourceCurrency, "SOURCE_CURRENCY")
	setString(&c.TargetCurrency, "TARGET_CURRENCY")

	setString(&c.BrokerNetwork, "MESSAGE_BROKER_NETWORK")
	setString(&c.BrokerHost, "MESSAGE_BROKER_HOST")

	setString(&c.LogFile, "LOG_FILE")
	setString(&c.LogLevel, "LOG_LEVEL")
	setInt64(&c.LogMaxSizeMB, "LOG_MAX_SIZE_MB")
	setInt(&c.LogMaxBackups, "LOG_MAX_BACKUPS")
}

func splitSymbols(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

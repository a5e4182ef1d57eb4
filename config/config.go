package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func New() (*Config, error) {
	var Config Config
	err := godotenv.Load(".env")
	if err != nil {
		logrus.Error("Error can't get the environment variables by file")
	}
	if err := env.Parse(&Config); err != nil {
		logrus.Fatalf("Error initializing: %s", err.Error())
		os.Exit(1)
	}
	Config.APP.ConfigureLogger()
	return &Config, nil
}

type Config struct {
	APP
	DB
	Kafka
	Solana
	Monitor
	Fee
	Tokens
	Payment
}

type DB struct {
	HOST     string `env:"DB_HOST"`
	USER     string `env:"DB_USER"`
	PASSWORD string `env:"DB_PASSWORD"`
	NAME     string `env:"DB_NAME"`
	PORT     string `env:"DB_PORT"`
	SSLMODE  string `env:"DB_SSLMODE"`
}

type APP struct {
	PORT      string `env:"APP_PORT" envDefault:"8080"`
	ENV       string `env:"GO_ENV" envDefault:"production"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// ConfigureLogger applies the level and formatter to the standard logrus logger.
func (a APP) ConfigureLogger() {
	level, err := logrus.ParseLevel(a.LogLevel)
	if err != nil {
		logrus.Warnf("invalid LOG_LEVEL %q, falling back to info", a.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if a.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

type Kafka struct {
	Brokers          string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	SettlementGroup  string `env:"KAFKA_SETTLEMENT_GROUP_ID" envDefault:"settlement-service"`
	PublishTopics    string `env:"KAFKA_PUBLISH_TOPICS" envDefault:"payments.completed,payments.watch.expired,payments.dlq"`
	SubscriberTopics string `env:"KAFKA_SUBSCRIBER_TOPICS" envDefault:"payments.pending"`
	Enabled          bool   `env:"KAFKA_ENABLED" envDefault:"true"`

	RetryMaxAttempts int           `env:"KAFKA_RETRY_MAX_ATTEMPTS" envDefault:"5"`
	RetryBaseDelay   time.Duration `env:"KAFKA_RETRY_BASE_DELAY" envDefault:"100ms"`
	RetryMaxDelay    time.Duration `env:"KAFKA_RETRY_MAX_DELAY" envDefault:"10s"`
	RetryJitter      bool          `env:"KAFKA_RETRY_JITTER" envDefault:"true"`
}

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      bool
}

func (k Kafka) GetRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: k.RetryMaxAttempts,
		BaseDelay:   k.RetryBaseDelay,
		MaxDelay:    k.RetryMaxDelay,
		Jitter:      k.RetryJitter,
	}
}

type Solana struct {
	RPCURL string `env:"SOLANA_RPC" envDefault:"https://api.mainnet-beta.solana.com"`
	WSURL  string `env:"SOLANA_WS_URL" envDefault:"wss://api.mainnet-beta.solana.com/"`
}

// Monitor holds the timings of the settlement monitor. Defaults mirror the
// production values: 5s reconnect, 10m watch TTL swept every 10m, 2m recency.
type Monitor struct {
	ReconnectDelay         time.Duration `env:"MONITOR_RECONNECT_DELAY" envDefault:"5s"`
	WatchTTL               time.Duration `env:"MONITOR_WATCH_TTL" envDefault:"10m"`
	SweepInterval          time.Duration `env:"MONITOR_SWEEP_INTERVAL" envDefault:"10m"`
	RecencyWindow          time.Duration `env:"MONITOR_RECENCY_WINDOW" envDefault:"2m"`
	SignatureLimit         int           `env:"MONITOR_SIGNATURE_LIMIT" envDefault:"5"`
	ResubscribeOnReconnect bool          `env:"MONITOR_RESUBSCRIBE_ON_RECONNECT" envDefault:"true"`
}

type Fee struct {
	Wallet string          `env:"CRYPTONOW_FEE_WALLET" envDefault:"9E9ME8Xjrnnz5tyLqPWUbXVbPjXusEp9NdjKeugDjW5t"`
	Amount decimal.Decimal `env:"CRYPTONOW_FEE_AMOUNT" envDefault:"0.1"`
}

type Tokens struct {
	USDCMint string `env:"TOKEN_USDC_MINT" envDefault:"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"`
	USDTMint string `env:"TOKEN_USDT_MINT" envDefault:"Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"`
}

// TokenInfo describes an SPL token the service can watch.
type TokenInfo struct {
	Symbol string
	Mint   string
}

// Lookup returns the SPL token configured for symbol. Native SOL has no mint
// and is reported as unsupported.
func (t Tokens) Lookup(symbol string) (TokenInfo, bool) {
	switch symbol {
	case "USDC":
		return TokenInfo{Symbol: symbol, Mint: t.USDCMint}, true
	case "USDT":
		return TokenInfo{Symbol: symbol, Mint: t.USDTMint}, true
	default:
		return TokenInfo{}, false
	}
}

type Payment struct {
	ExpirationMinutes int     `env:"PAYMENT_EXPIRATION_MINUTES" envDefault:"30"`
	MinAmount         float64 `env:"PAYMENT_MIN_AMOUNT" envDefault:"0.01"`
	MaxAmount         float64 `env:"PAYMENT_MAX_AMOUNT" envDefault:"1000000"`
}

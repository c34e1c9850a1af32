package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
	Postgres          Postgres
	Telegram          Telegram
	Redis             Redis
	API               API
	Cache             Cache
	Jobs              Jobs
	GoogleDrive       GoogleDrive
	Dashboard         Dashboard
	SessionExpiration time.Duration `env:"SESSION_EXPIRATION" envDefault:"720h"`
}

type Postgres struct {
	Host            string `env:"PG_HOST"`
	Port            int    `env:"PG_PORT"`
	DbName          string `env:"PG_DB_NAME"`
	Password        string `env:"PG_PASSWORD"`
	User            string `env:"PG_USER"`
	MaxOpenConns    int    `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	ConnMaxLifetime int    `env:"PG_CONN_MAX_LIFETIME" envDefault:"300"`
	MaxIdleConns    int    `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxIdleTime int    `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"60"`
	MigrationDir    string `env:"PG_MIGRATION_DIR" envDefault:"migrations"`
}

type Telegram struct {
	Token         string        `env:"TELEGRAM_TOKEN"`
	UpdTimeout    time.Duration `env:"TELEGRAM_UPD_TIMEOUT" envDefault:"10s"`
	DialogTimeout time.Duration `env:"TELEGRAM_DIALOG_TIMEOUT" envDefault:"5m"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST"`
	Port     int    `env:"REDIS_PORT"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type API struct {
	Debug          bool          `env:"API_DEBUG" envDefault:"false"`
	Timeout        time.Duration `env:"API_TIMEOUT" envDefault:"5s"`
	MarketApi      MarketApi
	CircuitBreaker CircuitBreaker
}

type MarketApi struct {
	Url string `env:"MARKET_API_URL" envDefault:"https://api.binance.com"`
	// symbols are quoted against this asset, BTC -> BTCUSDT
	QuoteAsset string `env:"MARKET_API_QUOTE_ASSET" envDefault:"USDT"`
}

type CircuitBreaker struct {
	MaxRequests      uint32        `env:"CB_MAX_REQUESTS" envDefault:"1"`
	Interval         time.Duration `env:"CB_INTERVAL" envDefault:"1m"`
	Timeout          time.Duration `env:"CB_TIMEOUT" envDefault:"30s"`
	FailureThreshold uint32        `env:"CB_FAILURE_THRESHOLD" envDefault:"5"`
}

type Cache struct {
	QuotesExpiration time.Duration `env:"CACHE_QUOTES_EXPIRATION" envDefault:"5m"`
}

type Jobs struct {
	RefreshPricesInterval time.Duration `env:"JOBS_REFRESH_PRICES_INTERVAL" envDefault:"5m"`
	CleanupReportsCrontab string        `env:"JOBS_CLEANUP_REPORTS_CRONTAB" envDefault:"0 3 * * *"`
}

type GoogleDrive struct {
	CredentialsFile string        `env:"GOOGLE_DRIVE_CREDENTIALS_FILE"`
	FileTTL         time.Duration `env:"GOOGLE_DRIVE_FILE_TTL" envDefault:"24h"`
}

type Dashboard struct {
	PageSize int    `env:"DASHBOARD_PAGE_SIZE" envDefault:"10"`
	Currency string `env:"DASHBOARD_CURRENCY" envDefault:"USD"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}

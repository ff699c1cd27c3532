package config

import (
	"time"
)

type DB struct {
	Url string `envconfig:"URL" default:"finance.db"`
}

type Redis struct {
	URL       string `envconfig:"URL"`
	KeyPrefix string `envconfig:"KEY_PREFIX" default:"findash:"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[findash]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"0.0.0.0"`
	Port   int    `envconfig:"PORT" default:"8000"`
}

// Market configures where daily price history comes from. Provider is
// either "stooq" or "simulated".
type Market struct {
	Provider    string        `envconfig:"PROVIDER" default:"stooq"`
	Url         string        `envconfig:"URL" default:"https://stooq.com"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	CacheTTL    time.Duration `envconfig:"CACHE_TTL" default:"1h"`
	FallbackTTL time.Duration `envconfig:"FALLBACK_TTL" default:"5m"`
	Lookback    time.Duration `envconfig:"LOOKBACK" default:"8760h"`
}

type Kafka struct {
	Brokers string `envconfig:"BROKERS"`
	Topic   string `envconfig:"TOPIC" default:"findash.events"`
	GroupID string `envconfig:"GROUP_ID" default:"findash"`
}

type Cors struct {
	AllowOrigins string `envconfig:"ALLOW_ORIGINS" default:"*"`
}

type Dashboard struct {
	Host       string        `envconfig:"HOST" default:"0.0.0.0"`
	Port       int           `envconfig:"PORT" default:"8050"`
	BackendURL string        `envconfig:"BACKEND_URL" default:"http://127.0.0.1:8000"`
	Timeout    time.Duration `envconfig:"TIMEOUT" default:"30s"`
}

type App struct {
	Env       string     `envconfig:"APP_ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	Log       *Log       `envconfig:"LOG"`
	DB        *DB        `envconfig:"DATABASE"`
	Redis     *Redis     `envconfig:"REDIS"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
	Market    *Market    `envconfig:"MARKET"`
	Kafka     *Kafka     `envconfig:"KAFKA"`
	Cors      *Cors      `envconfig:"CORS"`
	Dashboard *Dashboard `envconfig:"DASHBOARD"`
}

package config

import (
	"time"
)

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[ledger]"`
}

type Server struct {
	Scheme          string        `envconfig:"SCHEME" default:"http"`
	Host            string        `envconfig:"HOST" default:"localhost"`
	Port            int           `envconfig:"PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

// EventBus selects and tunes the bus carrying domain events.
type EventBus struct {
	Driver  string `envconfig:"DRIVER" default:"memory"` // memory, redis or kafka
	URL     string `envconfig:"URL" default:"redis://localhost:6379/0"`
	Brokers string `envconfig:"BROKERS" default:"localhost:9092"`
	// Stream is the Redis stream name, or the Kafka topic prefix.
	Stream  string `envconfig:"STREAM" default:"ledger.events"`
	Group   string `envconfig:"GROUP" default:"ledger"`
	Workers int    `envconfig:"WORKERS" default:"4"`
	Buffer  int    `envconfig:"BUFFER" default:"1024"`
}

type Notification struct {
	Timeout time.Duration `envconfig:"TIMEOUT" default:"2s"`
}

type App struct {
	Env          string        `envconfig:"APP_ENV" default:"development"`
	Server       *Server       `envconfig:"SERVER"`
	Log          *Log          `envconfig:"LOG"`
	RateLimit    *RateLimit    `envconfig:"RATE_LIMIT"`
	EventBus     *EventBus     `envconfig:"EVENT_BUS"`
	Notification *Notification `envconfig:"NOTIFICATION"`
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (a *App) IsProduction() bool {
	return a.Env == "production"
}

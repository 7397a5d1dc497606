package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EventBusMemory = "memory"
	EventBusRedis  = "redis"
	EventBusKafka  = "kafka"
)

// Load reads the first env file it can resolve into the process environment
// and builds the config from it. With no paths it tries .env.<APP_ENV> and
// then .env. Each name is searched for from the working directory upward;
// variables already set in the process win over file values.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()
	logger.Info("Loading environment variables")

	names := envFilePath
	if len(names) == 0 {
		names = envFileCandidates()
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: resolve working directory: %w", err)
	}

	for _, name := range names {
		path, ok := resolveEnvFile(cwd, name)
		if !ok {
			logger.Debug("Environment file not found", "name", name, "from", cwd)
			continue
		}
		if err := godotenv.Load(path); err != nil {
			logger.Error("Failed to load environment file", "path", path, "error", err)
			continue
		}
		logger.Info("Loaded environment file", "path", path)
		return loadFromEnv()
	}

	logger.Info("No environment file found, using process environment")
	return loadFromEnv()
}

func loadFromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	slog.Default().Info("App config loaded",
		"env", cfg.Env,
		"port", cfg.Server.Port,
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
		"event_bus_driver", cfg.EventBus.Driver,
		"event_bus_url", maskValue(cfg.EventBus.URL),
		"notification_timeout", cfg.Notification.Timeout,
	)
	return &cfg, nil
}

func (a *App) validate() error {
	switch a.EventBus.Driver {
	case EventBusMemory, EventBusRedis, EventBusKafka:
	default:
		return fmt.Errorf("config: unknown EVENT_BUS_DRIVER %q", a.EventBus.Driver)
	}
	if a.EventBus.Workers <= 0 {
		return fmt.Errorf("config: EVENT_BUS_WORKERS must be positive, got %d", a.EventBus.Workers)
	}
	return nil
}

func maskValue(key string) string {
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}

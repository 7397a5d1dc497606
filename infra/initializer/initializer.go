package initializer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	infra_eventbus "github.com/amirasaad/ledger/infra/eventbus"
	"github.com/amirasaad/ledger/infra/repository/memory"
	"github.com/amirasaad/ledger/pkg/app"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/amirasaad/ledger/pkg/metrics"
	"github.com/amirasaad/ledger/pkg/notification"
)

// InitializeDependencies builds the logger, account store, event bus and
// metrics recorder described by cfg.
func InitializeDependencies(cfg *config.App) (*app.Deps, error) {
	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	store := memory.NewAccountStore(logger)

	recorder := metrics.NewRecorder()
	recorder.RegisterAccountGauge(func() float64 {
		return float64(store.Count(context.Background()))
	})

	bus, err := initEventBus(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &app.Deps{
		Accounts: store,
		EventBus: bus,
		Notifier: notification.NewLogNotifier(logger),
		Metrics:  recorder,
		Logger:   logger,
	}, nil
}

// initEventBus picks the bus driver. An unreachable Redis or Kafka falls back
// to the in-process bus so the ledger keeps serving.
func initEventBus(cfg *config.App, logger *slog.Logger) (eventbus.Bus, error) {
	ec := cfg.EventBus
	if ec == nil {
		ec = &config.EventBus{Driver: config.EventBusMemory, Workers: 4, Buffer: 1024}
	}
	memoryBus := func() eventbus.Bus {
		return infra_eventbus.NewWithMemoryAsync(logger, ec.Workers, ec.Buffer)
	}

	switch ec.Driver {
	case "", config.EventBusMemory:
		return memoryBus(), nil

	case config.EventBusRedis:
		if ec.URL == "" {
			return nil, fmt.Errorf("redis event bus requires EVENT_BUS_URL")
		}
		bus, err := infra_eventbus.NewWithRedis(ec.URL, logger, &infra_eventbus.RedisEventBusConfig{
			Stream: ec.Stream,
			Group:  ec.Group,
			Block:  5 * time.Second,
		})
		if err != nil {
			logger.Warn("Redis event bus unavailable, falling back to memory", "error", err)
			return memoryBus(), nil
		}
		logger.Info("Using Redis event bus", "stream", ec.Stream)
		return bus, nil

	case config.EventBusKafka:
		if ec.Brokers == "" {
			return nil, fmt.Errorf("kafka event bus requires EVENT_BUS_BROKERS")
		}
		bus, err := infra_eventbus.NewWithKafka(ec.Brokers, logger, &infra_eventbus.KafkaEventBusConfig{
			GroupID:     ec.Group,
			TopicPrefix: ec.Stream,
			DialTimeout: 3 * time.Second,
		})
		if err != nil {
			logger.Warn("Kafka event bus unavailable, falling back to memory", "error", err)
			return memoryBus(), nil
		}
		logger.Info("Using Kafka event bus", "topic_prefix", ec.Stream)
		return bus, nil

	default:
		return nil, fmt.Errorf("unknown event bus driver %q", ec.Driver)
	}
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	academicstore "academix/internal/academic/store"
	"academix/internal/certificate/cache"
	"academix/internal/certificate/ledger"
	"academix/internal/certificate/notify"
	"academix/internal/certificate/service"
	certstore "academix/internal/certificate/store"
	"academix/internal/platform/config"
	"academix/internal/platform/database"
	"academix/internal/platform/health"
	"academix/internal/platform/kafka"
	"academix/internal/platform/kafka/producer"
	"academix/internal/platform/redis"
	"academix/internal/seeder"
)

const (
	topicPartitions  = 3
	topicReplication = 1
	setupTimeout     = 15 * time.Second
)

// infra holds the process-wide adapters and what must be released on exit.
type infra struct {
	certificates service.Store
	academic     academicSource
	ledger       ledger.Gateway
	dispatcher   notify.Dispatcher

	redis   *redis.Client
	closers []func() error
	checks  map[string]health.CheckFunc
}

type academicSource interface {
	service.AcademicReader
	notify.StudentFinder
}

func buildInfra(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	ctx, cancel := context.WithTimeout(ctx, setupTimeout)
	defer cancel()

	in := &infra{checks: make(map[string]health.CheckFunc)}
	if err := in.buildStores(ctx, cfg, log); err != nil {
		in.Close(log)
		return nil, err
	}
	if err := in.buildLedger(ctx, cfg, log); err != nil {
		in.Close(log)
		return nil, err
	}
	if err := in.buildDispatcher(ctx, cfg, log); err != nil {
		in.Close(log)
		return nil, err
	}
	return in, nil
}

func (in *infra) buildStores(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	pool, err := database.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if pool == nil {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		academic := academicstore.NewInMemoryStore()
		if cfg.Server.SeedDemoData {
			if _, err := seeder.New(academic, log).SeedAll(ctx); err != nil {
				return fmt.Errorf("seed demo data: %w", err)
			}
		}
		in.certificates = certstore.NewInMemoryStore()
		in.academic = academic
		return nil
	}

	in.closers = append(in.closers, pool.Close)
	in.checks["postgres"] = pool.Health
	if cfg.Database.AutoMigrate {
		if err := pool.Migrate(log); err != nil {
			return err
		}
	}
	in.certificates = certstore.NewPostgres(pool.DB())
	in.academic = academicstore.NewPostgres(pool.DB())
	log.Info("using postgres stores")
	return nil
}

func (in *infra) buildLedger(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	var gateway ledger.Gateway = ledger.Offline{}
	if cfg.Ledger.RPCURL == "" {
		log.Warn("LEDGER_RPC_URL not set, certificates will stay pending")
	} else {
		evm, err := ledger.Dial(ctx, cfg.Ledger, log)
		if err != nil {
			return err
		}
		in.checks["ledger"] = evm.Health
		gateway = evm
	}

	client, err := redis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	var views cache.TokenCache
	if client != nil {
		in.redis = client
		in.closers = append(in.closers, client.Close)
		in.checks["redis"] = client.Health
		views = cache.NewRedisCache(client.Client, cfg.Ledger.ViewCacheTTL, log)
	} else {
		views = cache.NewLRUCache(cfg.Ledger.ViewCacheSize, cfg.Ledger.ViewCacheTTL)
	}

	in.ledger = cache.NewCachedGateway(gateway, views)
	return nil
}

// buildDispatcher fans notifications out to every configured channel.
func (in *infra) buildDispatcher(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	var channels notify.Multi

	if cfg.Kafka.Brokers != "" {
		prod, err := producer.New(cfg.Kafka, log)
		if err != nil {
			return err
		}
		in.closers = append(in.closers, prod.Close)

		admin := kafka.NewAdmin(prod.Client())
		in.checks["kafka"] = admin.Check
		if err := admin.EnsureTopic(ctx, cfg.Kafka.NotificationsTopic, topicPartitions, topicReplication); err != nil {
			log.Warn("could not ensure notifications topic", "error", err, "topic", cfg.Kafka.NotificationsTopic)
		}
		channels = append(channels, notify.NewKafkaDispatcher(prod, cfg.Kafka.NotificationsTopic))
	}

	if cfg.Notification.SendGridAPIKey != "" {
		channels = append(channels, notify.NewEmailDispatcher(cfg.Notification, in.academic))
	}

	switch len(channels) {
	case 0:
		log.Warn("no notification channel configured, notifications are dropped")
		in.dispatcher = notify.Noop{}
	case 1:
		in.dispatcher = channels[0]
	default:
		in.dispatcher = channels
	}
	return nil
}

// Close releases adapters in reverse order of creation.
func (in *infra) Close(log *slog.Logger) {
	for i := len(in.closers) - 1; i >= 0; i-- {
		if err := in.closers[i](); err != nil {
			log.Warn("error releasing resource", "error", err)
		}
	}
}

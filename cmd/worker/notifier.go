package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmehdipour/phone-engine/internal/config"
	"github.com/jmehdipour/phone-engine/internal/db"
	"github.com/jmehdipour/phone-engine/internal/kafka"
	"github.com/jmehdipour/phone-engine/internal/logger"
	"github.com/jmehdipour/phone-engine/internal/metrics"
	"github.com/jmehdipour/phone-engine/internal/repository"
	"github.com/jmehdipour/phone-engine/internal/webhook"
	"github.com/jmehdipour/phone-engine/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var notifierCmd = &cobra.Command{
	Use:   "notifier",
	Short: "Relay contact actions from Kafka to webhook sinks",
	RunE:  runNotifier,
}

func runNotifier(cmd *cobra.Command, _ []string) error {
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Log.Level)
	log := logger.Named("notifier")

	metrics.MustRegister(prometheus.DefaultRegisterer)

	engine, err := cfg.Engine()
	if err != nil {
		return fmt.Errorf("phone engine: %w", err)
	}

	sinks := webhook.SinksFromConfig(cfg.Webhooks)
	if len(sinks) == 0 {
		return fmt.Errorf("no webhooks enabled in config")
	}
	relay := webhook.NewRelay(sinks, cfg.Notifier.MaxAttempts)

	dbx, err := db.NewMySQLConnection(cfg.MySQL)
	if err != nil {
		return fmt.Errorf("mysql connect: %w", err)
	}
	defer dbx.Close()

	groupID := cfg.Kafka.GroupID
	if groupID == "" {
		groupID = "phoneeng-notifier"
	}
	consumer := kafka.NewConsumer(kafka.Config{
		Brokers:        cfg.Kafka.Brokers,
		Topic:          cfg.Kafka.Topic,
		GroupID:        groupID,
		MinBytes:       cfg.Kafka.MinBytes,
		MaxBytes:       cfg.Kafka.MaxBytes,
		CommitInterval: time.Duration(cfg.Kafka.CommitInterval) * time.Millisecond,
	})
	defer consumer.Close()

	w := worker.NewNotifier(
		consumer,
		relay,
		worker.TxStatusWriter{DB: dbx, Actions: repository.NewActionsRepository(dbx)},
		engine,
	)
	if cfg.Notifier.WorkerCount > 0 {
		w.Workers = cfg.Notifier.WorkerCount
	}
	if cfg.Notifier.BatchSize > 0 {
		w.BatchSize = cfg.Notifier.BatchSize
	}
	if cfg.Notifier.BatchWait > 0 {
		w.BatchWait = cfg.Notifier.BatchWait
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("notifier started",
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("group", groupID),
		zap.Int("sinks", relay.Len()),
		zap.Int("workers", w.Workers),
		zap.Int("batch_size", w.BatchSize),
		zap.Duration("batch_wait", w.BatchWait),
	)

	return w.Run(ctx)
}

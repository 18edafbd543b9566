package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/lugx/internal/domain"
	"github.com/vladislavdragonenkov/lugx/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/lugx/internal/metrics"
	"github.com/vladislavdragonenkov/lugx/internal/service/outbox"
)

const outboxBreakerName = "kafka-outbox"

// initKafkaProducer создаёт producer, если события заказов включены.
// Возвращает nil, nil если brokers не заданы.
func initKafkaProducer(cfg Config, logger *log.Entry) (*kafka.Producer, error) {
	if !cfg.EventsEnabled() {
		return nil, nil
	}

	brokers := cfg.Brokers()
	producer, err := kafka.NewProducer(brokers, "lugx-"+cfg.Service)
	if err != nil {
		return nil, err
	}

	logger.WithField("brokers", brokers).Info("kafka producer initialized")
	return producer, nil
}

// newOutboxWorker собирает цепочку публикации: breaker -> topic publisher -> producer.
func newOutboxWorker(cfg Config, repo domain.OutboxRepository, producer *kafka.Producer, infra *metrics.InfraMetrics, logger *log.Entry) *outbox.Worker {
	publisher := kafka.NewBreakerPublisher(
		outboxBreakerName,
		kafka.NewOutboxPublisher(producer, cfg.KafkaTopic),
		kafka.DefaultBreakerSettings(),
		infra,
	)

	return outbox.NewWorker(repo, publisher,
		outbox.WithLogger(logger.WithField("component", "outbox-worker")),
		outbox.WithDLQPublisher(kafka.NewDLQPublisher(producer, cfg.KafkaDLQTopic, cfg.KafkaTopic)),
		outbox.WithPollInterval(cfg.OutboxPollInterval),
		outbox.WithBatchSize(cfg.OutboxBatchSize),
		outbox.WithMaxAttempts(cfg.OutboxMaxAttempts),
		outbox.WithRetryBaseDelay(cfg.OutboxRetryDelay),
	)
}

// newOutboxCleanupWorker собирает воркер удаления обработанных сообщений outbox.
func newOutboxCleanupWorker(cfg Config, repo domain.OutboxCleaner, logger *log.Entry) *outbox.CleanupWorker {
	return outbox.NewCleanupWorker(repo,
		outbox.WithCleanupLogger(logger.WithField("component", "outbox-cleanup-worker")),
		outbox.WithCleanupInterval(cfg.OutboxCleanupInterval),
		outbox.WithRetention(cfg.OutboxRetention),
	)
}

// closeKafkaProducer закрывает Kafka producer если он не nil.
func closeKafkaProducer(producer *kafka.Producer, logger *log.Entry) {
	if producer == nil {
		return
	}

	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close kafka producer")
	} else {
		logger.Info("kafka producer closed")
	}
}

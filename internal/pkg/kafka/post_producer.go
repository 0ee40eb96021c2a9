package kafka

import (
	"Gazette/internal/api/config"
	"Gazette/internal/api/dto"
	"context"
	"fmt"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// PostProducer 帖子生命周期事件生产者
type PostProducer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewPostProducer 连接 Kafka 并创建同步生产者
func NewPostProducer(cfg config.KafkaConfig) (*PostProducer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, newSaramaConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return newPostProducer(producer, cfg.PostTopic), nil
}

func newPostProducer(producer sarama.SyncProducer, topic string) *PostProducer {
	return &PostProducer{producer: producer, topic: topic}
}

// PublishPostEvent 以帖子 ID 作为分区键，保证同一帖子的事件有序
func (s *PostProducer) PublishPostEvent(ctx context.Context, event *dto.PostEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	partition, offset, err := s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(event.PostID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("failed to publish post event: %w", err)
	}

	log.DebugContext(ctx, "post event published",
		"type", event.Type,
		"post_id", event.PostID,
		"partition", partition,
		"offset", offset,
	)
	return nil
}

func (s *PostProducer) Close() error {
	return s.producer.Close()
}

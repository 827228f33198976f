package storage

import (
	"context"
	"encoding/json"

	"tableside-ordering/kiosk-svc/internal/domain"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaEventPublisher struct {
	Writer MessageWriter
}

func NewKafkaEventPublisher(writer MessageWriter) *KafkaEventPublisher {
	return &KafkaEventPublisher{Writer: writer}
}

// PublishSessionEvent keys by session id so one session's events stay ordered
// within a partition.
func (p *KafkaEventPublisher) PublishSessionEvent(ctx context.Context, event domain.SessionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.SessionID),
		Value: payload,
	})
}

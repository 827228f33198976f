package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	"tableside-ordering/kiosk-svc/internal/domain"
	"tableside-ordering/kiosk-svc/internal/logger"

	"github.com/segmentio/kafka-go"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// SessionEventConsumer reads back the session event stream, e.g. for the
// events CLI command.
type SessionEventConsumer struct {
	Reader MessageReader
	Log    *logger.Logger
}

func NewSessionEventConsumer(reader MessageReader, log *logger.Logger) *SessionEventConsumer {
	if log == nil {
		log = logger.Discard()
	}
	return &SessionEventConsumer{Reader: reader, Log: log}
}

// Consume hands each decoded event to handle until ctx is done or the reader
// is closed. Malformed messages are skipped.
func (c *SessionEventConsumer) Consume(ctx context.Context, handle func(domain.SessionEvent)) error {
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			c.Log.Warn("consume_event", "", "Error reading message", slog.String("error", err.Error()))
			return err
		}

		var event domain.SessionEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			c.Log.Warn("consume_event", string(message.Key), "Skipping malformed event",
				slog.Int64("offset", message.Offset), slog.String("error", err.Error()))
			continue
		}
		handle(event)
	}
}

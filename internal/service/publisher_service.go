package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"emojiart-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// deadlineMetadata carries the caller's deadline to the consumer. The
// gochannel pubsub copies messages without their context.
const deadlineMetadata = "deadline"

// IPublisherService queues snapshot writes for the consumer. It satisfies
// ISnapshotWriter.
type IPublisherService interface {
	Write(ctx context.Context, key string, data []byte) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

// Write returns once the message is handed over. With a gochannel configured
// to block until ack, that is after the consumer wrote it.
func (ps *publisherService) Write(ctx context.Context, key string, data []byte) error {
	payload, err := json.Marshal(dto.AutosaveMessage{
		Key:  key,
		Data: data,
	})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if deadline, ok := ctx.Deadline(); ok {
		msg.Metadata.Set(deadlineMetadata, deadline.Format(time.RFC3339Nano))
	}

	if err := ps.publisher.Publish(ps.topicName, msg); err != nil {
		return fmt.Errorf("publish autosave: %w", err)
	}
	return nil
}

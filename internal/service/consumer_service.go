package service

import (
	"context"
	"encoding/json"
	"time"

	"emojiart-be/internal/dto"
	"emojiart-be/internal/pkg/logger"
	"emojiart-be/internal/repository/contract"

	"github.com/ThreeDotsLabs/watermill/message"
)

const autosaveModule = "AUTOSAVE"

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	store      contract.SnapshotRepository
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	store contract.SnapshotRepository,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		store:      store,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

// processMessage always acks: a failed write is logged and the next autosave
// supersedes it, so redelivery would only hammer a broken store.
func (cs *consumerService) processMessage(msg *message.Message) {
	defer msg.Ack()

	ctx, cancel := messageContext(msg)
	defer cancel()

	var payload dto.AutosaveMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error(autosaveModule, "Failed to unmarshal autosave message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err,
		})
		return
	}

	if err := cs.store.Write(ctx, payload.Key, payload.Data); err != nil {
		cs.logger.Error(autosaveModule, "Failed to write autosave", map[string]interface{}{
			"key":   payload.Key,
			"error": err,
		})
		return
	}
	cs.logger.Debug(autosaveModule, "Autosave written", map[string]interface{}{
		"key":   payload.Key,
		"bytes": len(payload.Data),
	})
}

// messageContext restores the publisher's deadline on top of the message
// context.
func messageContext(msg *message.Message) (context.Context, context.CancelFunc) {
	ctx := msg.Context()
	raw := msg.Metadata.Get(deadlineMetadata)
	if raw == "" {
		return context.WithCancel(ctx)
	}
	deadline, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return context.WithCancel(ctx)
	}
	return context.WithDeadline(ctx, deadline)
}

package service

import (
	"context"
	"encoding/json"

	"ai-jobadvisor-be/internal/model"
	"ai-jobadvisor-be/internal/pkg/logger"
	"ai-jobadvisor-be/internal/repository/contract"
	"ai-jobadvisor-be/pkg/events"
	"ai-jobadvisor-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/datatypes"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains turn-completed events off the in-process bus,
// archives them to Postgres, and optionally forwards them to NATS.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	archives  contract.TurnArchiveRepository
	publisher *nats.Publisher // nil when no broker is configured
	log       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	archives contract.TurnArchiveRepository,
	publisher *nats.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		archives:  archives,
		publisher: publisher,
		log:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, events.TypeTurnCompleted)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

type turnCompletedPayload struct {
	SessionID string            `json:"session_id"`
	Question  string            `json:"question"`
	Answer    string            `json:"answer"`
	Intent    string            `json:"intent"`
	Route     string            `json:"route"`
	Turn      int               `json:"turn"`
	Profile   map[string]string `json:"profile"`
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload turnCompletedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "Failed to unmarshal turn event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	profileJSON, err := json.Marshal(payload.Profile)
	if err != nil {
		profileJSON = []byte("{}")
	}

	archive := &model.TurnArchive{
		SessionId: payload.SessionID,
		Turn:      payload.Turn,
		Question:  payload.Question,
		Answer:    payload.Answer,
		Intent:    payload.Intent,
		Route:     payload.Route,
		Profile:   datatypes.JSON(profileJSON),
	}
	if err := cs.archives.Create(ctx, archive); err != nil {
		cs.log.Error("consumer", "Failed to archive turn", map[string]interface{}{
			"session_id": payload.SessionID,
			"error":      err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}

	if cs.publisher != nil {
		event := events.NewTurnCompleted(
			payload.SessionID, payload.Question, payload.Answer,
			payload.Intent, payload.Route, payload.Turn, payload.Profile,
		)
		if err := cs.publisher.Publish(ctx, event); err != nil {
			// The local archive already holds the record; forwarding is
			// best effort.
			cs.log.Warn("consumer", "Failed to forward turn event to NATS", map[string]interface{}{
				"session_id": payload.SessionID,
				"error":      err.Error(),
			})
		}
	}

	msg.Ack()
}

package service

import (
	"context"
	"encoding/json"
	"time"

	"news-agent-be/internal/dto"
	"news-agent-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
	// StartScheduler periodically enqueues a refresh for every active
	// tracked query until the context ends.
	StartScheduler(ctx context.Context, interval time.Duration)
}

type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	trackedSvc ITrackedQueryService
	publisher  IPublisherService
	logger     logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	trackedSvc ITrackedQueryService,
	publisher IPublisherService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		trackedSvc: trackedSvc,
		publisher:  publisher,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
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

func (cs *consumerService) StartScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				queued, err := cs.publisher.EnqueueRefreshAll(ctx)
				if err != nil {
					cs.logger.Error("ConsumerService", "Scheduled refresh sweep failed", map[string]interface{}{"error": err.Error()})
					continue
				}
				cs.logger.Info("ConsumerService", "Scheduled refresh sweep queued", map[string]interface{}{"count": queued})
			}
		}
	}()
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishRefreshMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal refresh message", map[string]interface{}{"error": err.Error()})
		// Ack invalid messages to prevent infinite retry.
		msg.Ack()
		return
	}

	if err := cs.trackedSvc.RefreshByID(ctx, payload.TrackedQueryId); err != nil {
		cs.logger.Error("ConsumerService", "Refresh failed", map[string]interface{}{
			"tracked_query_id": payload.TrackedQueryId,
			"error":            err.Error(),
		})
		msg.Nack()
		return
	}

	msg.Ack()
}

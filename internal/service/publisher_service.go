package service

import (
	"context"
	"encoding/json"

	"news-agent-be/internal/dto"
	"news-agent-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/google/uuid"
)

type IPublisherService interface {
	EnqueueRefresh(ctx context.Context, trackedQueryId uuid.UUID) error
	// EnqueueRefreshAll queues a refresh for every active tracked query and
	// returns how many were queued. Used by the periodic scheduler.
	EnqueueRefreshAll(ctx context.Context) (int, error)
	// EnqueueRefreshForUser queues refreshes for one user's queries only.
	EnqueueRefreshForUser(ctx context.Context, userId uuid.UUID) (int, error)
}

type publisherService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	trackedSvc ITrackedQueryService
	logger     logger.ILogger
}

func NewPublisherService(
	pubSub *gochannel.GoChannel,
	topicName string,
	trackedSvc ITrackedQueryService,
	log logger.ILogger,
) IPublisherService {
	return &publisherService{
		pubSub:     pubSub,
		topicName:  topicName,
		trackedSvc: trackedSvc,
		logger:     log,
	}
}

func (ps *publisherService) EnqueueRefresh(ctx context.Context, trackedQueryId uuid.UUID) error {
	payload, err := json.Marshal(dto.PublishRefreshMessage{TrackedQueryId: trackedQueryId})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	return ps.pubSub.Publish(ps.topicName, msg)
}

func (ps *publisherService) EnqueueRefreshAll(ctx context.Context) (int, error) {
	ids, err := ps.trackedSvc.ListActiveIDs(ctx)
	if err != nil {
		return 0, err
	}
	return ps.enqueueBatch(ctx, ids), nil
}

func (ps *publisherService) EnqueueRefreshForUser(ctx context.Context, userId uuid.UUID) (int, error) {
	trackedQueries, err := ps.trackedSvc.List(ctx, userId)
	if err != nil {
		return 0, err
	}

	ids := make([]uuid.UUID, 0, len(trackedQueries))
	for _, tq := range trackedQueries {
		ids = append(ids, tq.Id)
	}
	return ps.enqueueBatch(ctx, ids), nil
}

func (ps *publisherService) enqueueBatch(ctx context.Context, ids []uuid.UUID) int {
	queued := 0
	for _, id := range ids {
		if err := ps.EnqueueRefresh(ctx, id); err != nil {
			ps.logger.Error("PublisherService", "Failed to enqueue refresh", map[string]interface{}{
				"tracked_query_id": id,
				"error":            err.Error(),
			})
			continue
		}
		queued++
	}

	return queued
}

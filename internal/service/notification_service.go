package service

import (
	"context"
	"strings"
	"time"

	"news-agent-be/internal/dto"
	"news-agent-be/internal/pkg/logger"
	"news-agent-be/pkg/events"
	pktNats "news-agent-be/pkg/nats"

	"github.com/google/uuid"
)

// NotificationDelivery defines how to push real-time updates. Implemented by
// the WebSocket hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification dto.TrackedQueryNotification)
}

type NotificationService struct {
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus with a durable consumer.
func (s *NotificationService) Start() {
	subject := "events." + events.SubjectTrackedQueryUpdated
	if err := s.subscriber.Subscribe(subject, "notif-service-worker", s.handleEvent); err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started", map[string]interface{}{"subject": subject})
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	userIdStr, _ := payload["user_id"].(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		// Malformed events are acked, not retried.
		s.logger.Warn("NotificationService", "Event missing usable user_id", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	trackedIdStr, _ := payload["tracked_query_id"].(string)
	trackedId, err := uuid.Parse(trackedIdStr)
	if err != nil {
		s.logger.Warn("NotificationService", "Event missing usable tracked_query_id", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	query, _ := payload["query"].(string)
	summary, _ := payload["summary"].(string)
	diff, _ := payload["diff"].(string)

	occurredAt := time.Now()
	if ts, ok := payload["occurred_at"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			occurredAt = parsed
		}
	}

	notif := dto.TrackedQueryNotification{
		Type:           strings.TrimPrefix(event.EventType(), "events."),
		TrackedQueryId: trackedId,
		Query:          query,
		Summary:        summary,
		Diff:           diff,
		OccurredAt:     occurredAt,
	}

	if s.delivery != nil {
		s.delivery.Send(userId, notif)
	}

	return nil
}

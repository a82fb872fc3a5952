package contract

import (
	"context"

	"news-agent-be/internal/entity"
	"news-agent-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TrackedQueryRepository interface {
	Create(ctx context.Context, query *entity.TrackedQuery) error
	Update(ctx context.Context, query *entity.TrackedQuery) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TrackedQuery, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TrackedQuery, error)

	// Tracking history is append-only.
	CreateUpdate(ctx context.Context, update *entity.TrackedQueryUpdate) error
	FindUpdates(ctx context.Context, specs ...specification.Specification) ([]*entity.TrackedQueryUpdate, error)
	DeleteUpdatesByTrackedQueryId(ctx context.Context, trackedQueryId uuid.UUID) (int64, error)
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

type TrackedQuery struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Query     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// TrackedQueryUpdate is one entry in a tracked query's append-only history.
type TrackedQueryUpdate struct {
	Id             uuid.UUID
	TrackedQueryId uuid.UUID
	Summary        string
	Sources        []ArticleSource
	Diff           string
	CreatedAt      time.Time
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TrackedQuery struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Query     string    `gorm:"type:text;not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (TrackedQuery) TableName() string {
	return "tracked_queries"
}

type TrackedQueryUpdate struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TrackedQueryId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Summary        string         `gorm:"type:text;not null"`
	Sources        datatypes.JSON `gorm:"type:jsonb"`
	Diff           string         `gorm:"type:text"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
}

func (TrackedQueryUpdate) TableName() string {
	return "tracked_query_updates"
}

package mapper

import (
	"encoding/json"
	"time"

	"news-agent-be/internal/entity"
	"news-agent-be/internal/model"

	"gorm.io/datatypes"
)

type TrackedQueryMapper struct{}

func NewTrackedQueryMapper() *TrackedQueryMapper {
	return &TrackedQueryMapper{}
}

func (m *TrackedQueryMapper) ToEntity(q *model.TrackedQuery) *entity.TrackedQuery {
	if q == nil {
		return nil
	}

	var updatedAt *time.Time
	if !q.UpdatedAt.IsZero() {
		t := q.UpdatedAt
		updatedAt = &t
	}

	return &entity.TrackedQuery{
		Id:        q.Id,
		UserId:    q.UserId,
		Query:     q.Query,
		IsActive:  q.IsActive,
		CreatedAt: q.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *TrackedQueryMapper) ToModel(q *entity.TrackedQuery) *model.TrackedQuery {
	if q == nil {
		return nil
	}

	var updatedAt time.Time
	if q.UpdatedAt != nil {
		updatedAt = *q.UpdatedAt
	}

	return &model.TrackedQuery{
		Id:        q.Id,
		UserId:    q.UserId,
		Query:     q.Query,
		IsActive:  q.IsActive,
		CreatedAt: q.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *TrackedQueryMapper) UpdateToEntity(u *model.TrackedQueryUpdate) *entity.TrackedQueryUpdate {
	if u == nil {
		return nil
	}

	var sources []entity.ArticleSource
	if len(u.Sources) > 0 {
		_ = json.Unmarshal(u.Sources, &sources)
	}

	return &entity.TrackedQueryUpdate{
		Id:             u.Id,
		TrackedQueryId: u.TrackedQueryId,
		Summary:        u.Summary,
		Sources:        sources,
		Diff:           u.Diff,
		CreatedAt:      u.CreatedAt,
	}
}

func (m *TrackedQueryMapper) UpdateToModel(u *entity.TrackedQueryUpdate) *model.TrackedQueryUpdate {
	if u == nil {
		return nil
	}

	var sources datatypes.JSON
	if len(u.Sources) > 0 {
		if raw, err := json.Marshal(u.Sources); err == nil {
			sources = datatypes.JSON(raw)
		}
	}

	return &model.TrackedQueryUpdate{
		Id:             u.Id,
		TrackedQueryId: u.TrackedQueryId,
		Summary:        u.Summary,
		Sources:        sources,
		Diff:           u.Diff,
		CreatedAt:      u.CreatedAt,
	}
}

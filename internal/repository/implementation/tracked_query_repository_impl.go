package implementation

import (
	"context"
	"errors"

	"news-agent-be/internal/entity"
	"news-agent-be/internal/mapper"
	"news-agent-be/internal/model"
	"news-agent-be/internal/repository/contract"
	"news-agent-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TrackedQueryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TrackedQueryMapper
}

func NewTrackedQueryRepository(db *gorm.DB) contract.TrackedQueryRepository {
	return &TrackedQueryRepositoryImpl{
		db:     db,
		mapper: mapper.NewTrackedQueryMapper(),
	}
}

func (r *TrackedQueryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TrackedQueryRepositoryImpl) Create(ctx context.Context, query *entity.TrackedQuery) error {
	m := r.mapper.ToModel(query)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*query = *r.mapper.ToEntity(m)
	return nil
}

func (r *TrackedQueryRepositoryImpl) Update(ctx context.Context, query *entity.TrackedQuery) error {
	m := r.mapper.ToModel(query)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*query = *r.mapper.ToEntity(m)
	return nil
}

func (r *TrackedQueryRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.TrackedQuery{}, id)
	return res.RowsAffected, res.Error
}

func (r *TrackedQueryRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TrackedQuery, error) {
	var m model.TrackedQuery
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TrackedQueryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TrackedQuery, error) {
	var models []*model.TrackedQuery
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.TrackedQuery, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *TrackedQueryRepositoryImpl) CreateUpdate(ctx context.Context, update *entity.TrackedQueryUpdate) error {
	m := r.mapper.UpdateToModel(update)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*update = *r.mapper.UpdateToEntity(m)
	return nil
}

func (r *TrackedQueryRepositoryImpl) FindUpdates(ctx context.Context, specs ...specification.Specification) ([]*entity.TrackedQueryUpdate, error) {
	var models []*model.TrackedQueryUpdate
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	updates := make([]*entity.TrackedQueryUpdate, len(models))
	for i, m := range models {
		updates[i] = r.mapper.UpdateToEntity(m)
	}
	return updates, nil
}

func (r *TrackedQueryRepositoryImpl) DeleteUpdatesByTrackedQueryId(ctx context.Context, trackedQueryId uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("tracked_query_id = ?", trackedQueryId).
		Delete(&model.TrackedQueryUpdate{})
	return res.RowsAffected, res.Error
}

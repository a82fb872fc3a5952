package service

import (
	"context"
	"fmt"
	"time"

	"news-agent-be/internal/constant"
	"news-agent-be/internal/dto"
	"news-agent-be/internal/entity"
	"news-agent-be/internal/pkg/logger"
	"news-agent-be/internal/repository/specification"
	"news-agent-be/internal/repository/unitofwork"
	"news-agent-be/pkg/events"
	"news-agent-be/pkg/llm"
	pktNats "news-agent-be/pkg/nats"
	"news-agent-be/pkg/news"
	"news-agent-be/pkg/textdiff"

	"github.com/google/uuid"
)

const trackedQuerySearchLimit = 5

type ITrackedQueryService interface {
	Create(ctx context.Context, userId uuid.UUID, request *dto.CreateTrackedQueryRequest) (*dto.TrackedQueryResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.TrackedQueryResponse, error)
	Get(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.TrackedQueryResponse, error)
	SetActive(ctx context.Context, userId uuid.UUID, id uuid.UUID, active bool) error
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	GetUpdates(ctx context.Context, userId uuid.UUID, id uuid.UUID) ([]*dto.TrackedQueryUpdateResponse, error)
	Refresh(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.RefreshTrackedQueryResponse, error)

	// RefreshByID is the background-worker entry point. It skips inactive
	// queries and quietly succeeds when the query is gone.
	RefreshByID(ctx context.Context, id uuid.UUID) error
	// ListActiveIDs feeds the periodic refresh scheduler.
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
}

type trackedQueryService struct {
	uowFactory  unitofwork.RepositoryFactory
	searchTool  news.SearchProvider
	llmProvider llm.LLMProvider
	publisher   *pktNats.Publisher
	logger      logger.ILogger
}

func NewTrackedQueryService(
	uowFactory unitofwork.RepositoryFactory,
	searchTool news.SearchProvider,
	llmProvider llm.LLMProvider,
	publisher *pktNats.Publisher,
	log logger.ILogger,
) ITrackedQueryService {
	return &trackedQueryService{
		uowFactory:  uowFactory,
		searchTool:  searchTool,
		llmProvider: llmProvider,
		publisher:   publisher,
		logger:      log,
	}
}

// Create registers a standing query and takes its baseline snapshot in the
// same transaction. The baseline carries no diff; later refreshes diff
// against it.
func (ts *trackedQueryService) Create(ctx context.Context, userId uuid.UUID, request *dto.CreateTrackedQueryRequest) (*dto.TrackedQueryResponse, error) {
	summary, sources, err := ts.summarize(ctx, request.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to take baseline snapshot: %w", err)
	}

	now := time.Now()
	tracked := entity.TrackedQuery{
		Id:        uuid.New(),
		UserId:    userId,
		Query:     request.Query,
		IsActive:  true,
		CreatedAt: now,
	}
	baseline := entity.TrackedQueryUpdate{
		Id:             uuid.New(),
		TrackedQueryId: tracked.Id,
		Summary:        summary,
		Sources:        sources,
		CreatedAt:      now,
	}

	uow := ts.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.TrackedQueryRepository().Create(ctx, &tracked); err != nil {
		return nil, err
	}
	if err := uow.TrackedQueryRepository().CreateUpdate(ctx, &baseline); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.TrackedQueryResponse{
		Id:          tracked.Id,
		Query:       tracked.Query,
		IsActive:    tracked.IsActive,
		LastSummary: summary,
		CreatedAt:   tracked.CreatedAt,
		UpdatedAt:   tracked.UpdatedAt,
	}, nil
}

func (ts *trackedQueryService) List(ctx context.Context, userId uuid.UUID) ([]*dto.TrackedQueryResponse, error) {
	uow := ts.uowFactory.NewUnitOfWork(ctx)

	trackedQueries, err := uow.TrackedQueryRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.TrackedQueryResponse, 0, len(trackedQueries))
	for _, tq := range trackedQueries {
		latest, err := ts.latestUpdate(ctx, uow, tq.Id)
		if err != nil {
			return nil, err
		}
		lastSummary := ""
		if latest != nil {
			lastSummary = latest.Summary
		}
		response = append(response, &dto.TrackedQueryResponse{
			Id:          tq.Id,
			Query:       tq.Query,
			IsActive:    tq.IsActive,
			LastSummary: lastSummary,
			CreatedAt:   tq.CreatedAt,
			UpdatedAt:   tq.UpdatedAt,
		})
	}

	return response, nil
}

func (ts *trackedQueryService) Get(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.TrackedQueryResponse, error) {
	uow := ts.uowFactory.NewUnitOfWork(ctx)

	tracked, err := ts.verifyOwned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	latest, err := ts.latestUpdate(ctx, uow, tracked.Id)
	if err != nil {
		return nil, err
	}
	lastSummary := ""
	if latest != nil {
		lastSummary = latest.Summary
	}

	return &dto.TrackedQueryResponse{
		Id:          tracked.Id,
		Query:       tracked.Query,
		IsActive:    tracked.IsActive,
		LastSummary: lastSummary,
		CreatedAt:   tracked.CreatedAt,
		UpdatedAt:   tracked.UpdatedAt,
	}, nil
}

// SetActive pauses or resumes background tracking. Inactive queries keep
// their history and can still be refreshed manually.
func (ts *trackedQueryService) SetActive(ctx context.Context, userId uuid.UUID, id uuid.UUID, active bool) error {
	uow := ts.uowFactory.NewUnitOfWork(ctx)

	tracked, err := ts.verifyOwned(ctx, uow, userId, id)
	if err != nil {
		return err
	}
	if tracked.IsActive == active {
		return nil
	}

	tracked.IsActive = active

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.TrackedQueryRepository().Update(ctx, tracked); err != nil {
		return err
	}

	return uow.Commit()
}

func (ts *trackedQueryService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := ts.uowFactory.NewUnitOfWork(ctx)

	if _, err := ts.verifyOwned(ctx, uow, userId, id); err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if _, err := uow.TrackedQueryRepository().DeleteUpdatesByTrackedQueryId(ctx, id); err != nil {
		return err
	}

	affected, err := uow.TrackedQueryRepository().Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTrackedQueryNotFound
	}

	return uow.Commit()
}

func (ts *trackedQueryService) GetUpdates(ctx context.Context, userId uuid.UUID, id uuid.UUID) ([]*dto.TrackedQueryUpdateResponse, error) {
	uow := ts.uowFactory.NewUnitOfWork(ctx)

	if _, err := ts.verifyOwned(ctx, uow, userId, id); err != nil {
		return nil, err
	}

	updates, err := uow.TrackedQueryRepository().FindUpdates(ctx,
		specification.ByTrackedQueryID{TrackedQueryID: id},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.TrackedQueryUpdateResponse, 0, len(updates))
	for _, u := range updates {
		response = append(response, &dto.TrackedQueryUpdateResponse{
			Id:             u.Id,
			TrackedQueryId: u.TrackedQueryId,
			Summary:        u.Summary,
			Diff:           u.Diff,
			CreatedAt:      u.CreatedAt,
		})
	}

	return response, nil
}

func (ts *trackedQueryService) Refresh(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.RefreshTrackedQueryResponse, error) {
	uow := ts.uowFactory.NewUnitOfWork(ctx)

	tracked, err := ts.verifyOwned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	return ts.refresh(ctx, tracked)
}

func (ts *trackedQueryService) RefreshByID(ctx context.Context, id uuid.UUID) error {
	uow := ts.uowFactory.NewUnitOfWork(ctx)

	tracked, err := uow.TrackedQueryRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if tracked == nil {
		// Deleted since it was enqueued.
		ts.logger.Info("TrackedQueryService", "Skipping refresh for deleted query", map[string]interface{}{"id": id})
		return nil
	}
	if !tracked.IsActive {
		return nil
	}

	_, err = ts.refresh(ctx, tracked)
	return err
}

func (ts *trackedQueryService) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	uow := ts.uowFactory.NewUnitOfWork(ctx)

	trackedQueries, err := uow.TrackedQueryRepository().FindAll(ctx,
		specification.IsActive{},
	)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(trackedQueries))
	for _, tq := range trackedQueries {
		ids = append(ids, tq.Id)
	}
	return ids, nil
}

// refresh re-runs the search, summarizes, and appends an update only when the
// summary's line diff against the previous snapshot is non-empty.
func (ts *trackedQueryService) refresh(ctx context.Context, tracked *entity.TrackedQuery) (*dto.RefreshTrackedQueryResponse, error) {
	summary, sources, err := ts.summarize(ctx, tracked.Query)
	if err != nil {
		return nil, err
	}

	uow := ts.uowFactory.NewUnitOfWork(ctx)

	previous, err := ts.latestUpdate(ctx, uow, tracked.Id)
	if err != nil {
		return nil, err
	}
	previousSummary := ""
	if previous != nil {
		previousSummary = previous.Summary
	}

	diff := textdiff.Lines(previousSummary, summary)
	if diff == "" {
		return &dto.RefreshTrackedQueryResponse{Changed: false}, nil
	}

	update := entity.TrackedQueryUpdate{
		Id:             uuid.New(),
		TrackedQueryId: tracked.Id,
		Summary:        summary,
		Sources:        sources,
		Diff:           diff,
		CreatedAt:      time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.TrackedQueryRepository().CreateUpdate(ctx, &update); err != nil {
		return nil, err
	}
	if err := uow.TrackedQueryRepository().Update(ctx, tracked); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	ts.publishUpdated(ctx, tracked, &update)

	return &dto.RefreshTrackedQueryResponse{
		Changed: true,
		Update: &dto.TrackedQueryUpdateResponse{
			Id:             update.Id,
			TrackedQueryId: update.TrackedQueryId,
			Summary:        update.Summary,
			Diff:           update.Diff,
			CreatedAt:      update.CreatedAt,
		},
	}, nil
}

// publishUpdated emits the update event. Delivery is best effort; the update
// row is already committed.
func (ts *trackedQueryService) publishUpdated(ctx context.Context, tracked *entity.TrackedQuery, update *entity.TrackedQueryUpdate) {
	if ts.publisher == nil {
		return
	}

	evt := events.TrackedQueryUpdated{
		TrackedQueryId: tracked.Id,
		UserId:         tracked.UserId,
		Query:          tracked.Query,
		Summary:        update.Summary,
		Diff:           update.Diff,
		OccurredAt:     update.CreatedAt,
	}
	if err := ts.publisher.Publish(ctx, evt); err != nil {
		ts.logger.Error("TrackedQueryService", "Failed to publish update event", map[string]interface{}{
			"tracked_query_id": tracked.Id,
			"error":            err.Error(),
		})
	}
}

func (ts *trackedQueryService) verifyOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.TrackedQuery, error) {
	tracked, err := uow.TrackedQueryRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if tracked == nil {
		return nil, ErrTrackedQueryNotFound
	}
	return tracked, nil
}

func (ts *trackedQueryService) latestUpdate(ctx context.Context, uow unitofwork.UnitOfWork, trackedQueryId uuid.UUID) (*entity.TrackedQueryUpdate, error) {
	updates, err := uow.TrackedQueryRepository().FindUpdates(ctx,
		specification.ByTrackedQueryID{TrackedQueryID: trackedQueryId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: 1},
	)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, nil
	}
	return updates[0], nil
}

func (ts *trackedQueryService) summarize(ctx context.Context, query string) (string, []entity.ArticleSource, error) {
	articles, err := ts.searchTool.Search(ctx, query, trackedQuerySearchLimit)
	if err != nil {
		return "", nil, fmt.Errorf("news search failed: %w", err)
	}

	prompt := fmt.Sprintf(constant.TrackedQuerySummaryPromptV1, query, news.FormatArticles(articles))
	summary, err := ts.llmProvider.Generate(ctx, prompt)
	if err != nil {
		return "", nil, fmt.Errorf("summary generation failed: %w", err)
	}

	return summary, toArticleSources(articles), nil
}

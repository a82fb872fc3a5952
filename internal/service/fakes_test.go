package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"news-agent-be/internal/entity"
	"news-agent-be/internal/repository/contract"
	"news-agent-be/internal/repository/specification"
	"news-agent-be/internal/repository/unitofwork"
	"news-agent-be/pkg/llm"
	"news-agent-be/pkg/news"

	"github.com/google/uuid"
)

// In-memory doubles shared by the service tests. The repositories interpret
// the same specification values the gorm implementations translate to SQL.

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type stubLLM struct {
	outputs []string
	err     error
	calls   int
	prompts []string
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.Generate(ctx, "", options...)
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	idx := s.calls
	if idx >= len(s.outputs) {
		idx = len(s.outputs) - 1
	}
	s.calls++
	return s.outputs[idx], nil
}

type stubSearch struct {
	articles []news.Article
	err      error
	queries  []string
}

func (s *stubSearch) Search(ctx context.Context, query string, limit int) ([]news.Article, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.articles, nil
}

type stubTitle struct {
	title string
	calls int
}

func (s *stubTitle) Generate(ctx context.Context, query string) string {
	s.calls++
	return s.title
}

type memStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.ChatSession
	messages []*entity.ChatMessage
	tracked  map[uuid.UUID]*entity.TrackedQuery
	updates  []*entity.TrackedQueryUpdate
}

func newMemStore() *memStore {
	return &memStore{
		sessions: make(map[uuid.UUID]*entity.ChatSession),
		tracked:  make(map[uuid.UUID]*entity.TrackedQuery),
	}
}

type memFactory struct {
	store *memStore
}

func (f *memFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memUow{store: f.store}
}

type memUow struct {
	store *memStore
}

func (u *memUow) Begin(ctx context.Context) error { return nil }
func (u *memUow) Commit() error                   { return nil }
func (u *memUow) Rollback() error                 { return nil }

func (u *memUow) ChatSessionRepository() contract.ChatSessionRepository {
	return &memSessionRepo{store: u.store}
}

func (u *memUow) ChatMessageRepository() contract.ChatMessageRepository {
	return &memMessageRepo{store: u.store}
}

func (u *memUow) TrackedQueryRepository() contract.TrackedQueryRepository {
	return &memTrackedRepo{store: u.store}
}

// listOptions are the cross-cutting specs every FindAll understands.
type listOptions struct {
	orderField string
	orderDesc  bool
	limit      int
	offset     int
}

func splitListOptions(specs []specification.Specification) ([]specification.Specification, listOptions) {
	opts := listOptions{limit: -1}
	filters := make([]specification.Specification, 0, len(specs))
	for _, sp := range specs {
		switch v := sp.(type) {
		case specification.OrderBy:
			opts.orderField = v.Field
			opts.orderDesc = v.Desc
		case specification.Pagination:
			opts.limit = v.Limit
			opts.offset = v.Offset
		default:
			filters = append(filters, sp)
		}
	}
	return filters, opts
}

type memSessionRepo struct {
	store *memStore
}

func (r *memSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *session
	r.store.sessions[session.Id] = &cp
	return nil
}

func (r *memSessionRepo) UpdateTitle(ctx context.Context, id uuid.UUID, title string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.sessions[id]
	if !ok {
		return 0, nil
	}
	s.Title = title
	return 1, nil
}

func (r *memSessionRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.sessions[id]; !ok {
		return 0, nil
	}
	delete(r.store.sessions, id)
	return 1, nil
}

func (r *memSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	matches, err := r.FindAll(ctx, specs...)
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	return matches[0], nil
}

func (r *memSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	filters, opts := splitListOptions(specs)
	out := make([]*entity.ChatSession, 0, len(r.store.sessions))
	for _, s := range r.store.sessions {
		if r.matches(s, filters) {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if opts.orderDesc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return paginate(out, opts), nil
}

func (r *memSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	matches, err := r.FindAll(ctx, specs...)
	return int64(len(matches)), err
}

func (r *memSessionRepo) matches(s *entity.ChatSession, filters []specification.Specification) bool {
	for _, sp := range filters {
		switch v := sp.(type) {
		case specification.ByID:
			if s.Id != v.ID {
				return false
			}
		case specification.UserOwnedBy:
			if s.UserId != v.UserID {
				return false
			}
		case specification.SessionMatchesTerm:
			if !r.termMatches(s, v.Term) {
				return false
			}
		}
	}
	return true
}

func (r *memSessionRepo) termMatches(s *entity.ChatSession, term string) bool {
	needle := strings.ToLower(term)
	if strings.Contains(strings.ToLower(s.Title), needle) {
		return true
	}
	for _, m := range r.store.messages {
		if m.ChatSessionId == s.Id && strings.Contains(strings.ToLower(m.Content), needle) {
			return true
		}
	}
	return false
}

type memMessageRepo struct {
	store *memStore
}

func (r *memMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *message
	r.store.messages = append(r.store.messages, &cp)
	return nil
}

func (r *memMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	filters, opts := splitListOptions(specs)
	out := make([]*entity.ChatMessage, 0, len(r.store.messages))
	for _, m := range r.store.messages {
		if messageMatches(m, filters) {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if opts.orderDesc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return paginate(out, opts), nil
}

func (r *memMessageRepo) DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := r.store.messages[:0]
	var removed int64
	for _, m := range r.store.messages {
		if m.ChatSessionId == sessionId {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	r.store.messages = kept
	return removed, nil
}

func (r *memMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	matches, err := r.FindAll(ctx, specs...)
	return int64(len(matches)), err
}

func messageMatches(m *entity.ChatMessage, filters []specification.Specification) bool {
	for _, sp := range filters {
		switch v := sp.(type) {
		case specification.ByChatSessionID:
			if m.ChatSessionId != v.ChatSessionID {
				return false
			}
		case specification.MessageMatchesTerm:
			if !strings.Contains(strings.ToLower(m.Content), strings.ToLower(v.Term)) {
				return false
			}
		}
	}
	return true
}

type memTrackedRepo struct {
	store *memStore
}

func (r *memTrackedRepo) Create(ctx context.Context, query *entity.TrackedQuery) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *query
	r.store.tracked[query.Id] = &cp
	return nil
}

func (r *memTrackedRepo) Update(ctx context.Context, query *entity.TrackedQuery) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *query
	r.store.tracked[query.Id] = &cp
	return nil
}

func (r *memTrackedRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.tracked[id]; !ok {
		return 0, nil
	}
	delete(r.store.tracked, id)
	return 1, nil
}

func (r *memTrackedRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TrackedQuery, error) {
	matches, err := r.FindAll(ctx, specs...)
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	return matches[0], nil
}

func (r *memTrackedRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TrackedQuery, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	filters, opts := splitListOptions(specs)
	out := make([]*entity.TrackedQuery, 0, len(r.store.tracked))
	for _, tq := range r.store.tracked {
		if trackedMatches(tq, filters) {
			cp := *tq
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if opts.orderDesc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return paginate(out, opts), nil
}

func (r *memTrackedRepo) CreateUpdate(ctx context.Context, update *entity.TrackedQueryUpdate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *update
	r.store.updates = append(r.store.updates, &cp)
	return nil
}

func (r *memTrackedRepo) FindUpdates(ctx context.Context, specs ...specification.Specification) ([]*entity.TrackedQueryUpdate, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	filters, opts := splitListOptions(specs)
	out := make([]*entity.TrackedQueryUpdate, 0, len(r.store.updates))
	for _, u := range r.store.updates {
		if updateMatches(u, filters) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if opts.orderDesc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return paginate(out, opts), nil
}

func (r *memTrackedRepo) DeleteUpdatesByTrackedQueryId(ctx context.Context, trackedQueryId uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := r.store.updates[:0]
	var removed int64
	for _, u := range r.store.updates {
		if u.TrackedQueryId == trackedQueryId {
			removed++
			continue
		}
		kept = append(kept, u)
	}
	r.store.updates = kept
	return removed, nil
}

func trackedMatches(tq *entity.TrackedQuery, filters []specification.Specification) bool {
	for _, sp := range filters {
		switch v := sp.(type) {
		case specification.ByID:
			if tq.Id != v.ID {
				return false
			}
		case specification.UserOwnedBy:
			if tq.UserId != v.UserID {
				return false
			}
		case specification.IsActive:
			if !tq.IsActive {
				return false
			}
		}
	}
	return true
}

func updateMatches(u *entity.TrackedQueryUpdate, filters []specification.Specification) bool {
	for _, sp := range filters {
		switch v := sp.(type) {
		case specification.ByID:
			if u.Id != v.ID {
				return false
			}
		case specification.ByTrackedQueryID:
			if u.TrackedQueryId != v.TrackedQueryID {
				return false
			}
		}
	}
	return true
}

func paginate[T any](items []T, opts listOptions) []T {
	if opts.offset > 0 {
		if opts.offset >= len(items) {
			return nil
		}
		items = items[opts.offset:]
	}
	if opts.limit >= 0 && len(items) > opts.limit {
		items = items[:opts.limit]
	}
	return items
}

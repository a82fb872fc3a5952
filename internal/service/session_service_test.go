package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"news-agent-be/internal/constant"
	"news-agent-be/internal/dto"
	"news-agent-be/internal/entity"

	"github.com/google/uuid"
)

func newSessionServiceForTest(store *memStore, title ITitleService) ISessionService {
	if title == nil {
		title = &stubTitle{title: "Generated Title"}
	}
	return NewSessionService(&memFactory{store: store}, title, nopLogger{})
}

func seedSession(store *memStore, userId uuid.UUID, title string, createdAt time.Time) *entity.ChatSession {
	s := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		CreatedAt: createdAt,
	}
	store.sessions[s.Id] = s
	return s
}

func seedMessage(store *memStore, sessionId uuid.UUID, role, content string, createdAt time.Time) *entity.ChatMessage {
	m := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: sessionId,
		Role:          role,
		Content:       content,
		CreatedAt:     createdAt,
	}
	store.messages = append(store.messages, m)
	return m
}

func TestCreateSessionWithInitialQuery(t *testing.T) {
	store := newMemStore()
	title := &stubTitle{title: "Chip Export Rules"}
	svc := newSessionServiceForTest(store, title)
	userId := uuid.New()

	resp, err := svc.CreateSession(context.Background(), userId, &dto.CreateSessionRequest{InitialQuery: "chip exports?"})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if resp.Title != "Chip Export Rules" {
		t.Errorf("Title = %q", resp.Title)
	}
	if title.calls != 1 {
		t.Errorf("title generator calls = %d, want 1", title.calls)
	}

	stored, ok := store.sessions[resp.Id]
	if !ok {
		t.Fatal("session not persisted")
	}
	if stored.UserId != userId || stored.Title != "Chip Export Rules" {
		t.Errorf("stored session = %+v", stored)
	}
}

func TestCreateSessionWithoutInitialQuery(t *testing.T) {
	store := newMemStore()
	title := &stubTitle{title: "should not be used"}
	svc := newSessionServiceForTest(store, title)

	resp, err := svc.CreateSession(context.Background(), uuid.New(), &dto.CreateSessionRequest{})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if resp.Title != constant.DefaultSessionTitle {
		t.Errorf("Title = %q, want %q", resp.Title, constant.DefaultSessionTitle)
	}
	if title.calls != 0 {
		t.Errorf("title generator calls = %d, want 0", title.calls)
	}
}

func TestGetAllSessionsNewestFirstAndScoped(t *testing.T) {
	store := newMemStore()
	svc := newSessionServiceForTest(store, nil)
	userId := uuid.New()

	base := time.Now()
	older := seedSession(store, userId, "older", base.Add(-time.Hour))
	newer := seedSession(store, userId, "newer", base)
	seedSession(store, uuid.New(), "someone else's", base)

	resp, err := svc.GetAllSessions(context.Background(), userId)
	if err != nil {
		t.Fatalf("GetAllSessions() error = %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("len = %d, want 2", len(resp))
	}
	if resp[0].Id != newer.Id || resp[1].Id != older.Id {
		t.Errorf("order = [%s, %s], want newest first", resp[0].Title, resp[1].Title)
	}
}

func TestSearchSessionsMatchesTitleAndContent(t *testing.T) {
	store := newMemStore()
	svc := newSessionServiceForTest(store, nil)
	userId := uuid.New()

	base := time.Now()
	byTitle := seedSession(store, userId, "Solar Subsidies", base)
	byContent := seedSession(store, userId, "Untitled", base.Add(-time.Minute))
	seedMessage(store, byContent.Id, constant.ChatMessageRoleUser, "anything about solar?", base)
	seedSession(store, userId, "Rate Hikes", base.Add(-2*time.Minute))

	resp, err := svc.SearchSessions(context.Background(), userId, "solar")
	if err != nil {
		t.Fatalf("SearchSessions() error = %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("len = %d, want 2 (title match and content match)", len(resp))
	}
	if resp[0].Id != byTitle.Id || resp[1].Id != byContent.Id {
		t.Errorf("matches = [%s, %s]", resp[0].Title, resp[1].Title)
	}

	// A title-only match carries no message excerpts; a content match
	// carries the message that matched.
	if len(resp[0].MatchedMessages) != 0 {
		t.Errorf("title match excerpts = %d, want 0", len(resp[0].MatchedMessages))
	}
	if len(resp[1].MatchedMessages) != 1 {
		t.Fatalf("content match excerpts = %d, want 1", len(resp[1].MatchedMessages))
	}
	excerpt := resp[1].MatchedMessages[0]
	if excerpt.Role != constant.ChatMessageRoleUser || excerpt.Preview != "anything about solar?" {
		t.Errorf("excerpt = %+v", excerpt)
	}
}

func TestSearchSessionsTruncatesPreviews(t *testing.T) {
	store := newMemStore()
	svc := newSessionServiceForTest(store, nil)
	userId := uuid.New()

	sess := seedSession(store, userId, "Untitled", time.Now())
	long := "solar " + strings.Repeat("x", 200)
	seedMessage(store, sess.Id, constant.ChatMessageRoleAssistant, long, time.Now())

	resp, err := svc.SearchSessions(context.Background(), userId, "solar")
	if err != nil {
		t.Fatalf("SearchSessions() error = %v", err)
	}
	if len(resp) != 1 || len(resp[0].MatchedMessages) != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	preview := resp[0].MatchedMessages[0].Preview
	if len([]rune(preview)) != messagePreviewMaxLen+3 || !strings.HasSuffix(preview, "...") {
		t.Errorf("preview len = %d, want %d plus ellipsis", len([]rune(preview)), messagePreviewMaxLen)
	}
}

func TestGetChatHistory(t *testing.T) {
	store := newMemStore()
	svc := newSessionServiceForTest(store, nil)
	userId := uuid.New()

	sess := seedSession(store, userId, "t", time.Now().Add(-time.Hour))
	base := time.Now()
	seedMessage(store, sess.Id, constant.ChatMessageRoleUser, "first", base.Add(-2*time.Minute))
	asst := seedMessage(store, sess.Id, constant.ChatMessageRoleAssistant, "second", base.Add(-time.Minute))
	asst.Sources = []entity.ArticleSource{{Title: "src", Link: "l"}}
	seedMessage(store, uuid.New(), constant.ChatMessageRoleUser, "other session", base)

	resp, err := svc.GetChatHistory(context.Background(), userId, sess.Id)
	if err != nil {
		t.Fatalf("GetChatHistory() error = %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("len = %d, want 2", len(resp))
	}
	if resp[0].Content != "first" || resp[1].Content != "second" {
		t.Errorf("order = [%q, %q], want oldest first", resp[0].Content, resp[1].Content)
	}
	if len(resp[1].Sources) != 1 || resp[1].Sources[0].Title != "src" {
		t.Errorf("Sources = %+v", resp[1].Sources)
	}
	if len(resp[0].Sources) != 0 {
		t.Errorf("user message should carry no sources: %+v", resp[0].Sources)
	}
}

func TestGetChatHistoryUnknownSession(t *testing.T) {
	svc := newSessionServiceForTest(newMemStore(), nil)

	_, err := svc.GetChatHistory(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestGetChatHistoryForeignSession(t *testing.T) {
	store := newMemStore()
	svc := newSessionServiceForTest(store, nil)

	sess := seedSession(store, uuid.New(), "t", time.Now())

	_, err := svc.GetChatHistory(context.Background(), uuid.New(), sess.Id)
	if !errors.Is(err, ErrSessionAccessDenied) {
		t.Errorf("err = %v, want ErrSessionAccessDenied", err)
	}
}

func TestUpdateSessionTitle(t *testing.T) {
	store := newMemStore()
	svc := newSessionServiceForTest(store, nil)
	userId := uuid.New()

	sess := seedSession(store, userId, "old", time.Now())

	resp, err := svc.UpdateSessionTitle(context.Background(), userId, sess.Id, &dto.UpdateSessionTitleRequest{Title: "Renamed"})
	if err != nil {
		t.Fatalf("UpdateSessionTitle() error = %v", err)
	}
	if resp.Title != "Renamed" {
		t.Errorf("Title = %q", resp.Title)
	}
	if store.sessions[sess.Id].Title != "Renamed" {
		t.Errorf("stored title = %q", store.sessions[sess.Id].Title)
	}
}

func TestUpdateSessionTitleTruncates(t *testing.T) {
	store := newMemStore()
	svc := newSessionServiceForTest(store, nil)
	userId := uuid.New()

	sess := seedSession(store, userId, "old", time.Now())
	long := strings.Repeat("t", 50)

	resp, err := svc.UpdateSessionTitle(context.Background(), userId, sess.Id, &dto.UpdateSessionTitleRequest{Title: long})
	if err != nil {
		t.Fatalf("UpdateSessionTitle() error = %v", err)
	}
	if len([]rune(resp.Title)) != constant.SessionTitleMaxLen || !strings.HasSuffix(resp.Title, "...") {
		t.Errorf("Title = %q, want %d-rune truncation", resp.Title, constant.SessionTitleMaxLen)
	}
}

func TestUpdateSessionTitleForeign(t *testing.T) {
	store := newMemStore()
	svc := newSessionServiceForTest(store, nil)

	sess := seedSession(store, uuid.New(), "old", time.Now())

	_, err := svc.UpdateSessionTitle(context.Background(), uuid.New(), sess.Id, &dto.UpdateSessionTitleRequest{Title: "x"})
	if !errors.Is(err, ErrSessionAccessDenied) {
		t.Errorf("err = %v, want ErrSessionAccessDenied", err)
	}
	if store.sessions[sess.Id].Title != "old" {
		t.Errorf("title changed despite rejection: %q", store.sessions[sess.Id].Title)
	}
}

func TestClearSessionIsIdempotentAndKeepsTitle(t *testing.T) {
	store := newMemStore()
	svc := newSessionServiceForTest(store, nil)
	userId := uuid.New()

	sess := seedSession(store, userId, "Keep Me", time.Now())
	seedMessage(store, sess.Id, constant.ChatMessageRoleUser, "m1", time.Now())
	seedMessage(store, sess.Id, constant.ChatMessageRoleAssistant, "m2", time.Now())

	for i := 0; i < 2; i++ {
		if err := svc.ClearSession(context.Background(), userId, sess.Id); err != nil {
			t.Fatalf("ClearSession() pass %d error = %v", i+1, err)
		}
		if len(store.messages) != 0 {
			t.Errorf("pass %d: messages = %d, want 0", i+1, len(store.messages))
		}
	}
	if store.sessions[sess.Id].Title != "Keep Me" {
		t.Errorf("title after clear = %q", store.sessions[sess.Id].Title)
	}
}

func TestClearSessionUnknown(t *testing.T) {
	svc := newSessionServiceForTest(newMemStore(), nil)

	err := svc.ClearSession(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestDeleteSessionRemovesMessages(t *testing.T) {
	store := newMemStore()
	svc := newSessionServiceForTest(store, nil)
	userId := uuid.New()

	sess := seedSession(store, userId, "t", time.Now())
	seedMessage(store, sess.Id, constant.ChatMessageRoleUser, "m1", time.Now())
	seedMessage(store, sess.Id, constant.ChatMessageRoleAssistant, "m2", time.Now())
	other := seedSession(store, userId, "keep", time.Now())
	seedMessage(store, other.Id, constant.ChatMessageRoleUser, "keep me", time.Now())

	err := svc.DeleteSession(context.Background(), userId, &dto.DeleteSessionRequest{ChatSessionId: sess.Id})
	if err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}

	if _, ok := store.sessions[sess.Id]; ok {
		t.Error("session still stored")
	}
	if len(store.messages) != 1 || store.messages[0].Content != "keep me" {
		t.Errorf("messages after delete = %d", len(store.messages))
	}
}

func TestDeleteSessionUnknown(t *testing.T) {
	svc := newSessionServiceForTest(newMemStore(), nil)

	err := svc.DeleteSession(context.Background(), uuid.New(), &dto.DeleteSessionRequest{ChatSessionId: uuid.New()})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestDeleteSessionForeign(t *testing.T) {
	store := newMemStore()
	svc := newSessionServiceForTest(store, nil)

	sess := seedSession(store, uuid.New(), "t", time.Now())

	err := svc.DeleteSession(context.Background(), uuid.New(), &dto.DeleteSessionRequest{ChatSessionId: sess.Id})
	if !errors.Is(err, ErrSessionAccessDenied) {
		t.Errorf("err = %v, want ErrSessionAccessDenied", err)
	}
}

package service

import (
	"context"
	"time"

	"news-agent-be/internal/constant"
	"news-agent-be/internal/dto"
	"news-agent-be/internal/entity"
	"news-agent-be/internal/pkg/logger"
	"news-agent-be/internal/repository/specification"
	"news-agent-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ISessionService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, request *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error)
	SearchSessions(ctx context.Context, userId uuid.UUID, term string) ([]*dto.SearchSessionsResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	UpdateSessionTitle(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, request *dto.UpdateSessionTitleRequest) (*dto.UpdateSessionTitleResponse, error)
	ClearSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
	DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error
}

type sessionService struct {
	uowFactory   unitofwork.RepositoryFactory
	titleService ITitleService
	logger       logger.ILogger
}

func NewSessionService(uowFactory unitofwork.RepositoryFactory, titleService ITitleService, log logger.ILogger) ISessionService {
	return &sessionService{
		uowFactory:   uowFactory,
		titleService: titleService,
		logger:       log,
	}
}

// verifySession loads the session and distinguishes "does not exist" from
// "exists but is someone else's".
func verifySession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	sess, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	if sess.UserId != userId {
		return nil, ErrSessionAccessDenied
	}
	return sess, nil
}

// CreateSession opens a new conversation. When the client sends the first
// query up front, the title is derived immediately; otherwise the session
// starts with the default title and gets named on the first exchange.
func (ss *sessionService) CreateSession(ctx context.Context, userId uuid.UUID, request *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	title := constant.DefaultSessionTitle
	if request != nil && request.InitialQuery != "" {
		title = ss.titleService.Generate(ctx, request.InitialQuery)
	}

	chatSession := entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		CreatedAt: time.Now(),
	}

	uow := ss.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatSessionRepository().Create(ctx, &chatSession); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{Id: chatSession.Id, Title: chatSession.Title}, nil
}

func (ss *sessionService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error) {
	uow := ss.uowFactory.NewUnitOfWork(ctx)

	chatSessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	return toSessionResponses(chatSessions), nil
}

// messagePreviewMaxLen bounds the excerpt attached to a search result.
const messagePreviewMaxLen = 100

// SearchSessions matches sessions by title or message content and attaches
// shortened excerpts of the messages that matched, so the client can show
// why a session turned up.
func (ss *sessionService) SearchSessions(ctx context.Context, userId uuid.UUID, term string) ([]*dto.SearchSessionsResponse, error) {
	uow := ss.uowFactory.NewUnitOfWork(ctx)

	chatSessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.SessionMatchesTerm{Term: term},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.SearchSessionsResponse, 0, len(chatSessions))
	for _, s := range chatSessions {
		matched, err := uow.ChatMessageRepository().FindAll(ctx,
			specification.ByChatSessionID{ChatSessionID: s.Id},
			specification.MessageMatchesTerm{Term: term},
			specification.OrderBy{Field: "created_at", Desc: false},
		)
		if err != nil {
			return nil, err
		}

		previews := make([]dto.MatchedMessageDTO, 0, len(matched))
		for _, m := range matched {
			previews = append(previews, dto.MatchedMessageDTO{
				Role:      m.Role,
				Preview:   messagePreview(m.Content),
				CreatedAt: m.CreatedAt,
			})
		}

		response = append(response, &dto.SearchSessionsResponse{
			Id:              s.Id,
			Title:           s.Title,
			CreatedAt:       s.CreatedAt,
			UpdatedAt:       s.UpdatedAt,
			MatchedMessages: previews,
		})
	}

	return response, nil
}

func messagePreview(content string) string {
	runes := []rune(content)
	if len(runes) <= messagePreviewMaxLen {
		return content
	}
	return string(runes[:messagePreviewMaxLen]) + "..."
}

func toSessionResponses(chatSessions []*entity.ChatSession) []*dto.GetAllSessionsResponse {
	response := make([]*dto.GetAllSessionsResponse, 0, len(chatSessions))
	for _, s := range chatSessions {
		response = append(response, &dto.GetAllSessionsResponse{
			Id:        s.Id,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}
	return response
}

func (ss *sessionService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := ss.uowFactory.NewUnitOfWork(ctx)

	if _, err := verifySession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	chatMessages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.GetChatHistoryResponse, 0, len(chatMessages))
	for _, msg := range chatMessages {
		resp = append(resp, &dto.GetChatHistoryResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Content:   msg.Content,
			Sources:   toSourceDTOs(msg.Sources),
			CreatedAt: msg.CreatedAt,
		})
	}

	return resp, nil
}

func toSourceDTOs(sources []entity.ArticleSource) []dto.SourceDTO {
	if len(sources) == 0 {
		return nil
	}
	out := make([]dto.SourceDTO, 0, len(sources))
	for _, s := range sources {
		out = append(out, dto.SourceDTO{
			Title:   s.Title,
			Link:    s.Link,
			Source:  s.Source,
			Date:    s.Date,
			Snippet: s.Snippet,
		})
	}
	return out
}

// UpdateSessionTitle renames a session. The new title is truncated to the
// display limit before it is stored.
func (ss *sessionService) UpdateSessionTitle(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, request *dto.UpdateSessionTitleRequest) (*dto.UpdateSessionTitleResponse, error) {
	uow := ss.uowFactory.NewUnitOfWork(ctx)

	if _, err := verifySession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	title := truncateTitle(request.Title)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	affected, err := uow.ChatSessionRepository().UpdateTitle(ctx, sessionId, title)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrSessionNotFound
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.UpdateSessionTitleResponse{Id: sessionId, Title: title}, nil
}

// ClearSession empties the message log but keeps the session and its title.
// Clearing an already empty session is a no-op.
func (ss *sessionService) ClearSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := ss.uowFactory.NewUnitOfWork(ctx)

	if _, err := verifySession(ctx, uow, userId, sessionId); err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if _, err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, sessionId); err != nil {
		return err
	}

	return uow.Commit()
}

// DeleteSession removes the session and its messages. The delete is verified
// by rows affected, so a session that vanished between the ownership check
// and the delete surfaces as not found instead of a silent no-op.
func (ss *sessionService) DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error {
	uow := ss.uowFactory.NewUnitOfWork(ctx)

	if _, err := verifySession(ctx, uow, userId, request.ChatSessionId); err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	affected, err := uow.ChatSessionRepository().Delete(ctx, request.ChatSessionId)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSessionNotFound
	}

	if _, err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, request.ChatSessionId); err != nil {
		return err
	}

	return uow.Commit()
}

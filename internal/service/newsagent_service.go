package service

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"news-agent-be/internal/constant"
	"news-agent-be/internal/dto"
	"news-agent-be/internal/entity"
	"news-agent-be/internal/pkg/logger"
	"news-agent-be/internal/repository/specification"
	"news-agent-be/internal/repository/unitofwork"
	"news-agent-be/pkg/agent"
	"news-agent-be/pkg/llm"
	"news-agent-be/pkg/news"

	"github.com/google/uuid"
)

type INewsAgentService interface {
	Ask(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
}

type newsAgentService struct {
	uowFactory   unitofwork.RepositoryFactory
	llmProvider  llm.LLMProvider
	searchTool   news.SearchProvider
	titleService ITitleService
	logger       logger.ILogger
	agentLogger  *log.Logger

	// One mutex per session id. Turns within a session are strictly
	// sequential; turns across sessions run concurrently.
	sessionLocks sync.Map
}

func NewNewsAgentService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	searchTool news.SearchProvider,
	titleService ITitleService,
	log logger.ILogger,
) INewsAgentService {
	return &newsAgentService{
		uowFactory:   uowFactory,
		llmProvider:  llmProvider,
		searchTool:   searchTool,
		titleService: titleService,
		logger:       log,
		agentLogger:  initAgentLogger(),
	}
}

func initAgentLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "agent.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[AGENT] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

func (ns *newsAgentService) lockSession(sessionId uuid.UUID) func() {
	v, _ := ns.sessionLocks.LoadOrStore(sessionId, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Ask runs one conversational turn. The user message is persisted before the
// agent runs, and an assistant message is persisted even when the agent
// fails, so the stored history always shows what the user actually saw.
func (ns *newsAgentService) Ask(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	unlock := ns.lockSession(request.ChatSessionId)
	defer unlock()

	uow := ns.uowFactory.NewUnitOfWork(ctx)

	chatSession, err := verifySession(ctx, uow, userId, request.ChatSessionId)
	if err != nil {
		return nil, err
	}

	history, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: request.ChatSessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}
	firstTurn := len(history) == 0

	now := time.Now()
	userMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: request.ChatSessionId,
		Role:          constant.ChatMessageRoleUser,
		Content:       request.Message,
		CreatedAt:     now,
	}
	if err := ns.persistMessage(ctx, &userMessage); err != nil {
		return nil, err
	}

	// Fresh agent per turn; memory is rebuilt from the stored history.
	ag := agent.New(ns.llmProvider, ns.searchTool, ns.agentLogger)
	ag.Replay(toLLMMessages(history))
	result := ag.Answer(ctx, request.Message)

	if !result.Success {
		ns.logger.Warn("NewsAgentService", "Agent turn failed", map[string]interface{}{
			"session_id": request.ChatSessionId,
			"exit":       string(result.Exit),
		})
	}

	var sources []entity.ArticleSource
	if result.Success {
		sources = toArticleSources(result.Sources)
	}

	assistantMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: request.ChatSessionId,
		Role:          constant.ChatMessageRoleAssistant,
		Content:       result.Response,
		Sources:       sources,
		CreatedAt:     time.Now(),
	}
	if err := ns.persistMessage(ctx, &assistantMessage); err != nil {
		return nil, err
	}

	// The derived title is returned only on the turn that names the session;
	// later turns leave the field empty.
	var title string
	if firstTurn && chatSession.Title == constant.DefaultSessionTitle {
		title = ns.renameSession(ctx, uow, request.ChatSessionId, request.Message)
	}

	return &dto.SendChatResponse{
		ChatSessionId:    chatSession.Id,
		ChatSessionTitle: title,
		Success:          result.Success,
		Sent: &dto.SendChatResponseChat{
			Id:        userMessage.Id,
			Role:      userMessage.Role,
			Content:   userMessage.Content,
			CreatedAt: userMessage.CreatedAt,
		},
		Reply: &dto.SendChatResponseChat{
			Id:        assistantMessage.Id,
			Role:      assistantMessage.Role,
			Content:   assistantMessage.Content,
			Sources:   toSourceDTOs(assistantMessage.Sources),
			CreatedAt: assistantMessage.CreatedAt,
		},
	}, nil
}

func (ns *newsAgentService) persistMessage(ctx context.Context, msg *entity.ChatMessage) error {
	uow := ns.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, msg); err != nil {
		return err
	}
	return uow.Commit()
}

// renameSession derives and stores the title for a session's first turn. A
// rename failure never fails the turn; the derived title is still returned
// so the client sees it.
func (ns *newsAgentService) renameSession(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID, query string) string {
	title := ns.titleService.Generate(ctx, query)

	affected, err := uow.ChatSessionRepository().UpdateTitle(ctx, sessionId, title)
	if err != nil {
		ns.logger.Warn("NewsAgentService", "Failed to store session title", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	} else if affected == 0 {
		ns.logger.Warn("NewsAgentService", "Session disappeared before title update", map[string]interface{}{
			"session_id": sessionId,
		})
	}

	return title
}

func toLLMMessages(history []*entity.ChatMessage) []llm.Message {
	out := make([]llm.Message, 0, len(history))
	for _, msg := range history {
		out = append(out, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	return out
}

func toArticleSources(articles []news.Article) []entity.ArticleSource {
	if len(articles) == 0 {
		return nil
	}
	out := make([]entity.ArticleSource, 0, len(articles))
	for _, a := range articles {
		out = append(out, entity.ArticleSource{
			Title:   a.Title,
			Link:    a.Link,
			Source:  a.Source,
			Date:    a.Date,
			Snippet: a.Snippet,
		})
	}
	return out
}

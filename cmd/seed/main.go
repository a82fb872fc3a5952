package main

import (
	"context"
	"log"
	"os"
	"time"

	"news-agent-be/internal/constant"
	"news-agent-be/internal/entity"
	"news-agent-be/internal/repository/unitofwork"
	"news-agent-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Seeds a demo conversation and tracked query for local development. The
// demo user id matches the one embedded in the sample JWT in the README of
// the frontend repo.
var demoUserId = uuid.MustParse("11111111-1111-1111-1111-111111111111")

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		log.Fatal("Error: Failed to begin transaction:", err)
	}
	defer uow.Rollback()

	now := time.Now()
	session := entity.ChatSession{
		Id:        uuid.New(),
		UserId:    demoUserId,
		Title:     "AI Chip Export Rules",
		CreatedAt: now,
	}
	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		log.Fatal("Error: Failed to seed session:", err)
	}

	messages := []entity.ChatMessage{
		{
			Id:            uuid.New(),
			ChatSessionId: session.Id,
			Role:          constant.ChatMessageRoleUser,
			Content:       "What's the latest on AI chip export rules?",
			CreatedAt:     now,
		},
		{
			Id:            uuid.New(),
			ChatSessionId: session.Id,
			Role:          constant.ChatMessageRoleAssistant,
			Content:       "Regulators announced updated licensing requirements for high-end AI accelerators this week.",
			Sources: []entity.ArticleSource{
				{Title: "New export rules target AI accelerators", Link: "https://example.com/ai-chips", Source: "Example Wire", Date: "2 days ago"},
			},
			CreatedAt: now.Add(2 * time.Second),
		},
	}
	for i := range messages {
		if err := uow.ChatMessageRepository().Create(ctx, &messages[i]); err != nil {
			log.Fatal("Error: Failed to seed message:", err)
		}
	}

	tracked := entity.TrackedQuery{
		Id:        uuid.New(),
		UserId:    demoUserId,
		Query:     "AI chip export regulations",
		IsActive:  true,
		CreatedAt: now,
	}
	if err := uow.TrackedQueryRepository().Create(ctx, &tracked); err != nil {
		log.Fatal("Error: Failed to seed tracked query:", err)
	}

	baseline := entity.TrackedQueryUpdate{
		Id:             uuid.New(),
		TrackedQueryId: tracked.Id,
		Summary:        "Regulators have proposed updated licensing requirements for high-end AI accelerators. Industry groups are preparing comments. A final rule is expected within months.",
		CreatedAt:      now,
	}
	if err := uow.TrackedQueryRepository().CreateUpdate(ctx, &baseline); err != nil {
		log.Fatal("Error: Failed to seed baseline update:", err)
	}

	if err := uow.Commit(); err != nil {
		log.Fatal("Error: Failed to commit seed:", err)
	}

	log.Printf("Seeded demo data for user %s (session %s)", demoUserId, session.Id)
}

package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"news-agent-be/internal/entity"
	"news-agent-be/internal/repository/specification"
	"news-agent-be/internal/repository/unitofwork"
	"news-agent-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ChatSessionRepository())
	assert.NotNil(t, uow.ChatMessageRepository())
	assert.NotNil(t, uow.TrackedQueryRepository())

	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	t.Run("Check Session Repository", func(t *testing.T) {
		count, err := uow.ChatSessionRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Session count: %d", count)
	})

	t.Run("Transactional Session With Messages", func(t *testing.T) {
		ctx := context.Background()
		uow := uowFactory.NewUnitOfWork(ctx)

		userId := uuid.New()
		now := time.Now()

		session := entity.ChatSession{
			Id:        uuid.New(),
			UserId:    userId,
			Title:     "Integration Test Session",
			CreatedAt: now,
		}
		message := entity.ChatMessage{
			Id:            uuid.New(),
			ChatSessionId: session.Id,
			Role:          "user",
			Content:       "integration test message",
			CreatedAt:     now,
		}

		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()

		require.NoError(t, uow.ChatSessionRepository().Create(ctx, &session))
		require.NoError(t, uow.ChatMessageRepository().Create(ctx, &message))
		require.NoError(t, uow.Commit())

		// Cleanup in a fresh unit of work.
		cleanup := uowFactory.NewUnitOfWork(ctx)
		require.NoError(t, cleanup.Begin(ctx))
		defer cleanup.Rollback()

		found, err := cleanup.ChatSessionRepository().FindOne(ctx,
			specification.ByID{ID: session.Id},
			specification.UserOwnedBy{UserID: userId},
		)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Integration Test Session", found.Title)

		_, err = cleanup.ChatMessageRepository().DeleteByChatSessionId(ctx, session.Id)
		require.NoError(t, err)
		affected, err := cleanup.ChatSessionRepository().Delete(ctx, session.Id)
		require.NoError(t, err)
		assert.EqualValues(t, 1, affected)
		require.NoError(t, cleanup.Commit())
	})
}

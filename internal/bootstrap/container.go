package bootstrap

import (
	"context"
	"log"

	"news-agent-be/internal/config"
	"news-agent-be/internal/controller"
	"news-agent-be/internal/handler"
	"news-agent-be/internal/pkg/logger"
	"news-agent-be/internal/repository/unitofwork"
	"news-agent-be/internal/service"
	"news-agent-be/internal/websocket"
	"news-agent-be/pkg/llm/factory"
	pktNats "news-agent-be/pkg/nats"
	"news-agent-be/pkg/news"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatbotController      controller.IChatbotController
	NewsController         controller.INewsController
	TrackedQueryController controller.ITrackedQueryController

	// Background services, exposed for main.go to run.
	ConsumerService service.IConsumerService

	// WebSockets & notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus (in-process refresh queue)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	var searchTool news.SearchProvider = news.NewSerperProvider(cfg.Keys.Serper)
	if cfg.Tracking.SearchCacheTTL > 0 {
		searchTool = news.NewCachingProvider(searchTool, cfg.Tracking.SearchCacheTTL)
	}

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. Services
	titleService := service.NewTitleService(llmProvider, sysLogger)
	sessionService := service.NewSessionService(uowFactory, titleService, sysLogger)
	newsAgentService := service.NewNewsAgentService(uowFactory, llmProvider, searchTool, titleService, sysLogger)
	newsService := service.NewNewsService(searchTool)
	trackedService := service.NewTrackedQueryService(uowFactory, searchTool, llmProvider, natsPub, sysLogger)
	publisherService := service.NewPublisherService(pubSub, cfg.Tracking.RefreshTopicName, trackedService, sysLogger)
	consumerService := service.NewConsumerService(pubSub, cfg.Tracking.RefreshTopicName, trackedService, publisherService, sysLogger)

	notifService := service.NewNotificationService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(wsHub, wsLogger)

	// 6. Controllers
	return &Container{
		ChatbotController:      controller.NewChatbotController(sessionService, newsAgentService),
		NewsController:         controller.NewNewsController(newsService),
		TrackedQueryController: controller.NewTrackedQueryController(trackedService, publisherService),

		ConsumerService: consumerService,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}

package bootstrap

import (
	"context"
	"log"

	"ai-jobadvisor-be/internal/config"
	"ai-jobadvisor-be/internal/controller"
	"ai-jobadvisor-be/internal/pkg/logger"
	"ai-jobadvisor-be/internal/repository/implementation"
	"ai-jobadvisor-be/internal/service"
	"ai-jobadvisor-be/pkg/llm/factory"
	"ai-jobadvisor-be/pkg/prompt"
	"ai-jobadvisor-be/pkg/retrieval"
	"ai-jobadvisor-be/pkg/store"
	"ai-jobadvisor-be/pkg/websearch"

	pktNats "ai-jobadvisor-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController

	// Session storage (exposed for the server's session middleware)
	Sessions store.SessionStore

	// Application logger (exposed for the server's error middleware)
	Logger logger.ILogger

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Services
	// Initialize LLM Provider based on Config
	llmBaseURL := cfg.Ai.LLMBaseURL
	if cfg.Ai.LLMProvider == "ollama" && llmBaseURL == "" {
		llmBaseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL,
		cfg.Ai.OpenAIAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	completer := prompt.NewCompleter(llmProvider)

	// Job retrieval and web search tools
	retriever := retrieval.NewHTTPRetriever(cfg.Retrieval.BaseURL, cfg.Retrieval.TopK)
	searcher := websearch.NewTavilyClient(cfg.Search.TavilyAPIKey, cfg.Search.MaxResults)

	// 2.5 Infrastructure (Moved up for dependency injection)
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
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
	sessions := store.NewRedisSessionStore(rdb)

	archiveRepo := implementation.NewTurnArchiveRepository(db)

	chatService := service.NewChatService(
		sessions,
		completer,
		retriever,
		searcher,
		pubSub,
		sysLogger,
	)
	// The archive consumer gets its own file logger so archival noise
	// stays out of the main log.
	consumerLogger := logger.NewIsolatedLogger("logs/archive.log")
	consumerService := service.NewConsumerService(
		pubSub,
		archiveRepo,
		natsPub,
		consumerLogger,
	)

	// 4. Controllers
	// Note: We return the container with public fields for the server to register
	return &Container{
		ChatController:  controller.NewChatController(chatService),
		Sessions:        sessions,
		Logger:          sysLogger,
		ConsumerService: consumerService,
	}
}

package main

import (
	"context"
	"expvar"
	"log"
	"runtime"

	"github.com/murmurchat/murmur/internal/infrastructure/configs"
	"github.com/murmurchat/murmur/internal/infrastructure/events"
	"github.com/murmurchat/murmur/internal/infrastructure/logging"
	"github.com/murmurchat/murmur/internal/infrastructure/messaging"
	"github.com/murmurchat/murmur/internal/infrastructure/profanity"
	"github.com/murmurchat/murmur/internal/infrastructure/ratelimiter"
	"github.com/murmurchat/murmur/internal/infrastructure/tracing"
	"github.com/murmurchat/murmur/internal/infrastructure/translate"
	"github.com/murmurchat/murmur/internal/persistence/db"
	"github.com/murmurchat/murmur/internal/persistence/repository"
	"github.com/murmurchat/murmur/internal/presentation/api"
	"github.com/murmurchat/murmur/internal/presentation/handler/health"
	"github.com/murmurchat/murmur/internal/presentation/handler/messages"
	"github.com/murmurchat/murmur/internal/presentation/handler/rooms"
	"github.com/murmurchat/murmur/internal/presentation/handler/translations"
	"github.com/murmurchat/murmur/internal/presentation/handler/users"
)

const serviceName = "murmur-api"

func main() {
	tracerCfg := tracing.NewDefaultConfig(serviceName)

	sh, err := tracing.InitTracer(tracerCfg)
	if err != nil {
		log.Fatalf("Failed to initialize the tracer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer sh(ctx)

	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.Logger, serviceName)
	defer logger.Sync()

	pool, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	userRepository := repository.NewUserRepository(pool)
	roomRepository := repository.NewRoomRepository(pool)
	messageRepository := repository.NewMessageRepository(pool)

	rabbitmq := messaging.New()
	publisher := events.NewPublisher(rabbitmq, logger)

	// Event publishing is best effort: a broker outage must not keep the
	// API from serving requests.
	uri := messaging.URI(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password)
	if err := publisher.Connect(uri); err != nil {
		logger.Warnw("rabbitmq unavailable, events will be dropped", "error", err)
	}
	defer publisher.Close()

	translator := translate.NewClient(cfg.Translation.URL)
	if !translator.IsAvailable(ctx) {
		logger.Warnw("translation API unavailable", "url", cfg.Translation.URL)
	}

	filter := profanity.NewFilter()

	usersHandler := users.NewHandler(userRepository, publisher)
	roomsHandler := rooms.NewHandler(roomRepository, userRepository, publisher)
	messagesHandler := messages.NewHandler(messageRepository, roomRepository, userRepository, publisher, filter)
	translationsHandler := translations.NewHandler(translator)
	healthHandler := health.NewHandler(pool, publisher)

	rl := ratelimiter.New(ratelimiter.Options{
		MaxRatePerSecond: 50,
		MaxBurst:         100,
	})

	app := api.NewApplication(*cfg, usersHandler, roomsHandler, messagesHandler, translationsHandler, healthHandler, logger, rl)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	logger.Fatal(app.Run(mux))
}

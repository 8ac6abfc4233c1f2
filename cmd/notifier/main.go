package main

import (
	"log"
	"net/http"
	"os"

	"github.com/murmurchat/murmur/internal/infrastructure/configs"
	"github.com/murmurchat/murmur/internal/infrastructure/events"
	"github.com/murmurchat/murmur/internal/infrastructure/logging"
	"github.com/murmurchat/murmur/internal/infrastructure/messaging"
	"github.com/murmurchat/murmur/internal/notification"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serviceName = "murmur-notifier"

func main() {
	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.Logger, serviceName)
	defer logger.Sync()

	logger.Infow("starting notification service")

	mailer := notification.NewMailer(notification.SMTPSettings{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
	}, logger)

	dispatcher := notification.NewDispatcher(mailer, logger, cfg.Notifier.TestRecipient)

	rabbitmq := messaging.New()
	consumer := events.NewConsumer(rabbitmq, dispatcher, logger)
	defer consumer.Close()

	// Unlike the API, the notifier is useless without a broker: fail fast
	// so the orchestrator can restart it.
	uri := messaging.URI(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password)
	if err := consumer.Connect(uri); err != nil {
		logger.Errorw("failed to connect to rabbitmq", "error", err)
		os.Exit(1)
	}

	if addr := cfg.Notifier.MetricsAddr; addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Infow("metrics listener started", "addr", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Errorw("metrics listener stopped", "error", err)
			}
		}()
	}

	logger.Infow("waiting for events", "queue", "notification_queue")

	if err := consumer.Run(); err != nil {
		logger.Errorw("consumer stopped", "error", err)
		os.Exit(1)
	}
}

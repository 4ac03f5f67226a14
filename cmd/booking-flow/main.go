package main

import (
	"context"

	"bookingflow/internal/booking/events"
	"bookingflow/internal/booking/handler"
	"bookingflow/internal/booking/repository"
	"bookingflow/internal/booking/service"
	"bookingflow/internal/booking/validator"
	"bookingflow/pkg/app"
	"bookingflow/pkg/config"
	"bookingflow/pkg/kafka"
	kafkamiddleware "bookingflow/pkg/kafka/middleware"
)

const ServiceName = "booking-flow"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetBackend()
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Booking Flow service")
	serverApp := app.NewApplication(cfg)

	healthHandler := handler.NewHealthHandler(cfg.Log)
	sessionService := initServices(cfg, serverApp, healthHandler)
	healthHandler.AddStat("sessions", func() any { return sessionService.Count() })

	serverApp.SetApp(handler.NewSessionHandler(sessionService, cfg.Log), healthHandler)
	serverApp.Run()
}

func initServices(cfg *config.Config, serverApp *app.Application, healthHandler *handler.HealthHandler) service.SessionService {
	var store service.ConfirmationStore
	if cfg.Client.Mongo != nil {
		store = repository.NewMongoConfirmationRepository(cfg)
		healthHandler.AddCheck("mongo", func(ctx context.Context) error {
			return cfg.Client.Mongo.Ping(ctx, nil)
		})
	}

	if cfg.Client.Redis != nil {
		healthHandler.AddCheck("redis", func(ctx context.Context) error {
			return cfg.Client.Redis.Ping(ctx).Err()
		})
	}

	var publisher service.EventPublisher
	if cfg.KafkaEnabled() {
		producer, err := kafka.NewProducer(cfg.Kafka, cfg.KafkaBookingTopic, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		if cfg.Kafka.EnableMiddleware {
			metrics := kafkamiddleware.NewMetrics()
			producer.Use(kafkamiddleware.MetricsProducerMiddleware(metrics))
			producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
			healthHandler.AddStat("kafka", func() any { return metrics.Snapshot() })
		}

		publisher = events.NewBookingEventPublisher(producer, ServiceName)
		serverApp.OnShutdown("kafka-producer", func(context.Context) error {
			return producer.Close()
		})
		cfg.Log.Info("Booking events enabled", "topic", producer.Topic())
	}

	sessionService := service.NewSessionService(
		cfg.Client.Availability,
		cfg.Client.Reservation,
		validator.NewContactValidator(cfg.DefaultPhoneRegion),
		store,
		publisher,
		cfg,
		nil,
	)
	serverApp.OnShutdown("sessions", func(context.Context) error {
		sessionService.Stop()
		return nil
	})

	cfg.Log.Info("Booking session service initialized",
		"session_ttl", cfg.SessionTTL,
		"archive_enabled", store != nil,
		"events_enabled", publisher != nil,
	)
	return sessionService
}

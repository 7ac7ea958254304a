package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/email"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, logger)
	defer consumer.Close()

	emailSender := email.NewSender(logger)

	logger.Info("starting notification worker",
		zap.String("topic", cfg.Kafka.NotificationsTopic),
		zap.String("group_id", cfg.Kafka.GroupID),
	)

	err = consumer.Consume(ctx, func(ctx context.Context, event kafka.BookingEvent) error {
		if event.Type != kafka.EventBookingConfirmed {
			return nil
		}
		// Notification failures are recorded, never retried into the
		// booking's state.
		if err := emailSender.Send(ctx, event); err != nil {
			logger.Error("send confirmation email",
				zap.String("booking_id", event.BookingID),
				zap.Error(err),
			)
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("consumer stopped", zap.Error(err))
	}
}

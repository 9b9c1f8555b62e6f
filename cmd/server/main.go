package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"wardrobewizard/backend/internal/cart"
	"wardrobewizard/backend/internal/config"
	"wardrobewizard/backend/internal/events"
	"wardrobewizard/backend/internal/httpapi"
	"wardrobewizard/backend/internal/store/factory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := validateSecurityConfig(cfg); err != nil {
		log.Fatalf("invalid security configuration: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, repoCloser, repoKind, err := factory.New(ctx, cfg)
	if err != nil {
		logger.Fatal("cart store unavailable", zap.String("store", repoKind), zap.Error(err))
	}
	logger.Info("cart store ready", zap.String("store", repoKind))

	closers := make([]func() error, 0, 2)
	if repoCloser != nil {
		closers = append(closers, repoCloser)
	}

	publisherCtx, publisherCancel := context.WithCancel(context.Background())
	defer publisherCancel()

	publisher := events.Publisher(events.NoopPublisher{})
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, 256, logger)
		kafkaPublisher.Start(publisherCtx)
		publisher = kafkaPublisher
		closers = append(closers, func() error {
			publisherCancel()
			kafkaPublisher.WaitClosed()
			return nil
		})
		logger.Info("events: kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	} else {
		logger.Info("events: noop")
	}

	carts := cart.NewManager(repo, publisher, logger, cfg.MaxLiveSessions)
	sessions := httpapi.NewSessionManager(cfg.SessionSecret, time.Duration(cfg.SessionTTLMinutes)*time.Minute)
	api := httpapi.New(carts, sessions, cfg.AllowedOrigin, logger)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("cart engine listening", zap.String("addr", cfg.Address()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown error", zap.Error(err))
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Warn("close error", zap.Error(err))
		}
	}

	logger.Info("server stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(level)); err == nil {
		cfg.Level = lvl
	}
	return cfg.Build()
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be set and at least 32 characters")
	}
	return nil
}

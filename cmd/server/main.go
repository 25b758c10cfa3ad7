package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	marketsvc "mandi/internal/application/service/market"
	negotiationsvc "mandi/internal/application/service/negotiation"
	translationsvc "mandi/internal/application/service/translation"
	"mandi/internal/application/session"
	"mandi/internal/config"
	"mandi/internal/domain/interfaces"
	"mandi/internal/infrastructure/broker"
	"mandi/internal/infrastructure/gemini"
	"mandi/internal/infrastructure/i18n"
	"mandi/internal/infrastructure/langdetect"
	inframarket "mandi/internal/infrastructure/market"
	infrahttp "mandi/internal/interfaces/http"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	// Missing credential is a valid degraded mode: translation becomes a
	// pass-through for every session.
	var gateway interfaces.TranslationGateway
	if cfg.Gemini.Enabled() {
		client, err := gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			logger.Warnf("translation gateway unavailable, falling back to pass-through: %v", err)
		} else {
			gateway = client
		}
	} else {
		logger.Info("GEMINI_API_KEY not set, translation disabled")
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var publisher *broker.Publisher
	if cfg.RabbitMQ.URL != "" {
		publisher, err = broker.NewPublisher(cfg.RabbitMQ, logger)
		if err != nil {
			logger.Fatalf("failed to init rates publisher: %v", err)
		}
		if err := publisher.Start(); err != nil {
			logger.Fatalf("failed to start rates publisher: %v", err)
		}
		defer publisher.Close()
	}

	detector := langdetect.NewLatinDetector()
	factory := func() (*marketsvc.Service, *translationsvc.Service, *negotiationsvc.Session) {
		return marketsvc.NewService(inframarket.NewRepository()),
			translationsvc.NewService(gateway, detector, cfg.Gemini.Timeout, logger),
			negotiationsvc.NewSession()
	}
	sessions := session.NewManager(factory, cfg.Session.TTL, logger)

	labels := i18n.NewTranslator(cfg.DefaultLang, logger)

	cacheTTL := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	handler := infrahttp.NewHandler(sessions, labels, redisClient, cacheTTL, logger)

	server := &http.Server{
		Addr:    cfg.HTTP.Addr(),
		Handler: handler,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Infof("HTTP server listening on %s", cfg.HTTP.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.Market.TickInterval > 0 {
		group.Go(func() error {
			ticker := time.NewTicker(cfg.Market.TickInterval)
			defer ticker.Stop()
			for {
				select {
				case <-groupCtx.Done():
					return nil
				case <-ticker.C:
					sessions.TickAll(groupCtx, func(s *session.Session) {
						if publisher == nil {
							return
						}
						rates, err := s.Rates.GetAll(groupCtx)
						if err != nil {
							return
						}
						if err := publisher.PublishRates(groupCtx, s.ID, rates); err != nil {
							logger.Warnf("failed to publish rates: %v", err)
						}
					})
					sessions.Sweep()
				}
			}
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Infof("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Errorf("server error: %v", err)
	}
	logger.Info("server stopped")
}

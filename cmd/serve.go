package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/checkout-payments/internal/api"
	"github.com/akylbek/payment-system/checkout-payments/internal/config"
	"github.com/akylbek/payment-system/checkout-payments/internal/health"
	"github.com/akylbek/payment-system/checkout-payments/internal/interfaces"
	"github.com/akylbek/payment-system/checkout-payments/internal/messaging"
	"github.com/akylbek/payment-system/checkout-payments/internal/middleware"
	"github.com/akylbek/payment-system/checkout-payments/internal/provider"
	"github.com/akylbek/payment-system/checkout-payments/internal/qrcode"
	"github.com/akylbek/payment-system/checkout-payments/internal/repository"
	"github.com/akylbek/payment-system/checkout-payments/internal/scheduler"
	"github.com/akylbek/payment-system/checkout-payments/internal/service"
	"github.com/akylbek/payment-system/checkout-payments/internal/telemetry"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the payments HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}
}

// backends owns the connections opened for the configured stores and publishers.
type backends struct {
	db     *sql.DB
	redis  *redis.Client
	nats   *nats.Conn
	kafka  *messaging.KafkaPublisher
	checks map[string]health.CheckFunc
}

func (b *backends) Close() {
	if b.kafka != nil {
		if err := b.kafka.Close(); err != nil {
			telemetry.Logger.Warn("Failed to close kafka writer", zap.Error(err))
		}
	}
	if b.nats != nil {
		b.nats.Close()
	}
	if b.redis != nil {
		b.redis.Close()
	}
	if b.db != nil {
		b.db.Close()
	}
}

func openBackends(cfg *config.Config) (*backends, error) {
	b := &backends{checks: make(map[string]health.CheckFunc)}

	if cfg.Store.Backend == "postgres" || cfg.History.Backend == "postgres" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		b.db = db
		b.checks["postgres"] = db.PingContext
	}

	if cfg.RedisURL != "" {
		b.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
		b.checks["redis"] = func(ctx context.Context) error { return b.redis.Ping(ctx).Err() }
	}

	if cfg.NatsURL != "" {
		nc, err := nats.Connect(cfg.NatsURL)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("connect to nats: %w", err)
		}
		b.nats = nc
	}

	if cfg.Kafka.Brokers != "" {
		b.kafka = messaging.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}
	return b, nil
}

func (b *backends) recordStore(cfg *config.Config) (interfaces.PaymentRecordStore, error) {
	switch cfg.Store.Backend {
	case "redis":
		return repository.NewRedisRecordStore(b.redis, cfg.Store.RecordTTL), nil
	case "postgres":
		store := repository.NewPostgresRecordStore(b.db)
		if err := store.InitDB(); err != nil {
			return nil, fmt.Errorf("initialize payment_records: %w", err)
		}
		return store, nil
	default:
		return repository.NewMemoryRecordStore(), nil
	}
}

func (b *backends) historyRepository(cfg *config.Config) (interfaces.PaymentHistoryRepository, error) {
	var history interfaces.PaymentHistoryRepository = repository.NewMemoryHistoryRepository()
	if cfg.History.Backend == "postgres" {
		repo := repository.NewPostgresHistoryRepository(b.db)
		if err := repo.InitDB(); err != nil {
			return nil, fmt.Errorf("initialize payments: %w", err)
		}
		history = repo
	}
	if b.redis != nil && cfg.History.CacheTTL > 0 {
		history = repository.NewCachedHistoryRepository(history, b.redis, cfg.History.CacheTTL)
	}
	return history, nil
}

func (b *backends) publisher(cfg *config.Config) interfaces.EventPublisher {
	var pubs messaging.MultiPublisher
	if b.kafka != nil {
		pubs = append(pubs, b.kafka)
	}
	if b.nats != nil {
		pubs = append(pubs, messaging.NewNATSPublisher(b.nats, cfg.Nats.Subject))
	}
	if len(pubs) == 0 {
		return messaging.NoopPublisher{}
	}
	return pubs
}

func intentProvider(cfg *config.Config) interfaces.IntentProvider {
	if cfg.Provider.Name == "midtrans" {
		return provider.NewMidtransProvider(cfg.Provider.MidtransServerKey, cfg.Provider.Production)
	}
	return provider.NewFakeProvider()
}

func runServe(cfg *config.Config) error {
	if err := telemetry.InitTelemetry(telemetry.Options{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: Version,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		LogLevel:       cfg.LogLevel,
	}); err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	defer telemetry.Shutdown(context.Background())

	telemetry.Logger.Info("Starting checkout payments",
		zap.String("store", cfg.Store.Backend),
		zap.String("history", cfg.History.Backend),
		zap.String("provider", cfg.Provider.Name),
	)

	b, err := openBackends(cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	store, err := b.recordStore(cfg)
	if err != nil {
		return err
	}
	history, err := b.historyRepository(cfg)
	if err != nil {
		return err
	}
	publisher := b.publisher(cfg)
	if p, ok := store.(interface{ Ping(context.Context) error }); ok {
		b.checks["store"] = p.Ping
	}

	timers := scheduler.NewTimerScheduler(cfg.Settlement.MaxPending)
	timers.OnPendingChange(func(pending int) { telemetry.SettlementTimers.Set(float64(pending)) })

	orchestrator := service.NewOrchestrator(store, publisher)
	simulator := service.NewSettlementSimulator(timers, orchestrator, cfg.Settlement.Delay)
	auth := middleware.NewJWTAuth(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	r := api.NewRouter(api.Deps{
		ServiceName: cfg.ServiceName,
		Intents:     service.NewIntentIssuer(intentProvider(cfg), cfg.Intent.DefaultCurrency),
		References:  service.NewReferenceGenerator(store, qrcode.NewPNGEncoder(cfg.QR.Size), simulator, publisher),
		Recorder:    service.NewCompletionRecorder(history, store, publisher),
		Status:      service.NewStatusService(store),
		Settlements: service.NewSettlements(orchestrator, simulator, cfg.Webhook.Secret),
		Health:      health.NewService(5*time.Second, b.checks),
		Auth:        auth.Middleware(),

		AllowManualTrigger: cfg.Settlement.AllowManualTrigger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		telemetry.Logger.Info("Checkout payments listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			telemetry.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	telemetry.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		telemetry.Logger.Error("Server forced to shutdown", zap.Error(err))
	}
	simulator.Stop()
	timers.Stop()

	telemetry.Logger.Info("Server exited")
	return nil
}

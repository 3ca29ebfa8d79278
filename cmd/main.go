package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"noticeboard/backend/internal/api/handler"
	"noticeboard/backend/internal/config"
	"noticeboard/backend/internal/localization"
	"noticeboard/backend/internal/logger"
	"noticeboard/backend/internal/realtime"
	"noticeboard/backend/internal/storage"
	"noticeboard/backend/internal/telegram"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupDependencies(cfg *config.Config, zl *zap.Logger) (*gorm.DB, *redis.Client) {
	// 1. PostgreSQL
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		zl.Fatal("failed to connect PostgreSQL", zap.Error(err))
	}

	// 2. Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		zl.Fatal("failed to connect Redis", zap.Error(err))
	}

	// 3. Міграції та тригери сповіщень
	if err := storage.Migrate(db, cfg.Database.NotifyChannel); err != nil {
		zl.Fatal("failed to run migrations", zap.Error(err))
	}

	zl.Info("database and redis connections established, migrations complete")
	return db, rdb
}

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("failed to read config: %v", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Fatalf("refusing to start: %v", err)
	}
	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	zl.Info("starting notice board backend", zap.String("addr", cfg.HTTPAddr))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Ініціалізація залежностей
	db, rdb := setupDependencies(cfg, zl)
	s := storage.NewStorageService(db, rdb, zl)

	loc, err := localization.Default()
	if err != nil {
		zl.Fatal("failed to load translations", zap.Error(err))
	}
	notifier, err := telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.AdminChatID, loc, cfg.Language, zl)
	if err != nil {
		zl.Fatal("failed to start telegram bot", zap.Error(err))
	}

	// 2. Realtime: Postgres NOTIFY -> Redis Pub/Sub -> Hub -> WebSocket
	hub := realtime.NewHub(zl)
	pubsub := s.SubscribeChanges(ctx)
	defer pubsub.Close()
	listener := realtime.NewPGListener(cfg.Database.DSN, cfg.Database.NotifyChannel, s, zl)

	tokens := handler.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	h := handler.NewHandler(s, hub, tokens, notifier, zl)
	h.AllowVoteRevision = cfg.AllowVoteRevision

	// 3. Запуск основних goroutines
	go hub.Run(ctx)
	go hub.Listen(ctx, pubsub.Channel())
	go func() {
		if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			zl.Error("postgres listener stopped", zap.Error(err))
		}
	}()
	go notifier.ListenCommands(ctx, h.Triage)

	// 4. HTTP-сервер
	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        handler.NewRouter(h),
		ReadTimeout:    10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}

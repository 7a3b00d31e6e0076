package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dbadapter "github.com/yone-k/yone-discord-bot-sub002/internal/adapter/db"
	discordadapter "github.com/yone-k/yone-discord-bot-sub002/internal/adapter/discord"
	httpadapter "github.com/yone-k/yone-discord-bot-sub002/internal/adapter/http"
	"github.com/yone-k/yone-discord-bot-sub002/internal/adapter/http/handlers"
	httpmiddleware "github.com/yone-k/yone-discord-bot-sub002/internal/adapter/http/middleware"
	appservice "github.com/yone-k/yone-discord-bot-sub002/internal/app/service"
	"github.com/yone-k/yone-discord-bot-sub002/internal/config"
	"github.com/yone-k/yone-discord-bot-sub002/pkg/translator"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	translator.InitTranslator(translator.Config{
		TranslationFolder:  "pkg/translator/translation",
		SupportedLanguages: []string{translator.LanguageJa, translator.LanguageEn},
	})

	cfg := config.LoadConfig()
	db, err := dbadapter.ConnectDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to mysql", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close mysql connection", zap.Error(err))
		}
	}()

	clk := clock.New()
	taskRepository := dbadapter.NewTaskRepository(db)
	channelRepository := dbadapter.NewChannelRepository(db)
	discordClient := discordadapter.NewClient(cfg.DiscordToken, cfg.DiscordBaseURL)
	notifier := discordadapter.NewNotifier(discordClient, cfg.BotLanguage)

	taskService := appservice.NewTaskService(taskRepository, channelRepository, notifier, clk, cfg.BotLanguage)
	scheduler := appservice.NewScheduler(taskRepository, channelRepository, notifier, clk, cfg.SweepInterval, cfg.BotLanguage, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go scheduler.Start(ctx)

	r := gin.New()
	r.Use(gin.Recovery(), httpmiddleware.GinZapMiddleware(logger))
	if len(cfg.TrustedProxies) > 0 {
		if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			logger.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}
	healthHandler := handlers.NewHealthHandler(db)
	taskHandler := handlers.NewTaskHandler(taskService)
	httpadapter.RegisterRoutes(r, healthHandler, taskHandler)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	addr := ":" + port
	logger.Info("starting server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("could not start server", zap.Error(err))
	}
}

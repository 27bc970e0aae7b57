// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"daily-muse-api/internal/application/card"
	"daily-muse-api/internal/application/export"
	"daily-muse-api/internal/config"
	"daily-muse-api/internal/infrastructure/persistence/redis"
	"daily-muse-api/internal/infrastructure/provider/gemini"
	"daily-muse-api/internal/infrastructure/render"
	"daily-muse-api/internal/interfaces/http/handler"
	"daily-muse-api/internal/interfaces/http/router"
	"daily-muse-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// App 应用依赖容器
type App struct {
	router *router.Router

	redisClient *redis.Client
}

// Engine 返回 HTTP 引擎
func (a *App) Engine() *gin.Engine {
	return a.router.Engine()
}

// InitializeApp 按依赖顺序手工装配应用
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	// 数据层
	redisClient, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := redisClient.Close(); err != nil {
			logger.Error(ctx, "failed to close redis client", err)
		}
	}

	cardStore := redis.NewCardStore(redisClient)

	// 提供方客户端：持久化凭证优先，配置兜底
	apiKey, err := cardStore.GetCredential(ctx)
	if err != nil {
		logger.Warn(ctx, "failed to read stored credential, falling back to config", "error", err)
		apiKey = ""
	}
	if apiKey == "" {
		apiKey = cfg.Provider.Gemini.APIKey
	}

	geminiClient, err := gemini.NewClient(ctx, &cfg.Provider.Gemini, apiKey)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	// 应用层
	orchestrator := card.NewOrchestrator(geminiClient, cardStore)

	renderer, err := render.NewRenderer(&cfg.Render)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	exporter := export.NewService(renderer)

	// 接口层
	cardHandler := handler.NewCardHandler(orchestrator, exporter)
	settingsHandler := handler.NewSettingsHandler(cardStore, geminiClient)
	healthHandler := handler.NewHealthHandler(redisClient)

	r := router.New(cfg, cardHandler, settingsHandler, healthHandler)

	app := &App{
		router:      r,
		redisClient: redisClient,
	}
	return app, cleanup, nil
}

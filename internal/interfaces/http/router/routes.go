// Package router 提供 HTTP 路由配置
package router

import (
	"daily-muse-api/internal/interfaces/http/handler"

	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(
	v1 *gin.RouterGroup,
	cardHandler *handler.CardHandler,
	settingsHandler *handler.SettingsHandler,
) {
	// 每日卡片
	card := v1.Group("/card")
	{
		card.GET("", cardHandler.Get)
		card.GET("/today", cardHandler.GetToday)
		card.POST("/generate", cardHandler.Generate)
		card.GET("/export", cardHandler.Export)
	}

	// 生成参数
	preferences := v1.Group("/preferences")
	{
		preferences.PUT("", cardHandler.UpdatePreferences)
		preferences.PUT("/language", cardHandler.SetLanguage)
	}

	// 提供方设置
	settings := v1.Group("/settings")
	{
		settings.GET("/credential", settingsHandler.GetCredential)
		settings.PUT("/credential", settingsHandler.UpdateCredential)
	}
}

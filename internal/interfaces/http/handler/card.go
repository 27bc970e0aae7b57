// Package handler 提供 HTTP 请求处理器
package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"daily-muse-api/internal/application/card"
	"daily-muse-api/internal/application/export"
	"daily-muse-api/internal/domain/entity"
	"daily-muse-api/internal/interfaces/http/dto"
	apperrors "daily-muse-api/pkg/errors"
)

// CardHandler 每日卡片处理器
type CardHandler struct {
	orchestrator *card.Orchestrator
	exporter     *export.Service
}

// NewCardHandler 创建卡片处理器
func NewCardHandler(orchestrator *card.Orchestrator, exporter *export.Service) *CardHandler {
	return &CardHandler{
		orchestrator: orchestrator,
		exporter:     exporter,
	}
}

// GetToday 首次加载：缓存命中直接返回，未命中用默认参数生成
// @Summary 获取今日卡片
// @Tags Cards
// @Produce json
// @Success 200 {object} dto.Response[dto.SnapshotResponse]
// @Router /v1/card/today [get]
func (h *CardHandler) GetToday(c *gin.Context) {
	snap := h.orchestrator.LoadOrInitialize(c.Request.Context())
	dto.Success(c, dto.ToSnapshotResponse(snap))
}

// Get 返回当前快照，无副作用
// @Summary 获取当前状态快照
// @Tags Cards
// @Produce json
// @Success 200 {object} dto.Response[dto.SnapshotResponse]
// @Router /v1/card [get]
func (h *CardHandler) Get(c *gin.Context) {
	dto.Success(c, dto.ToSnapshotResponse(h.orchestrator.Snapshot()))
}

// Generate 用户主动生成，使用当前参数；管线在途时为空操作
// @Summary 生成今日卡片
// @Tags Cards
// @Produce json
// @Success 200 {object} dto.Response[dto.SnapshotResponse]
// @Router /v1/card/generate [post]
func (h *CardHandler) Generate(c *gin.Context) {
	snap := h.orchestrator.Generate(c.Request.Context(), false)
	dto.Success(c, dto.ToSnapshotResponse(snap))
}

// SetLanguage 切换语言，只做缓存重查，不自动生成
// @Summary 切换卡片语言
// @Tags Preferences
// @Accept json
// @Produce json
// @Param body body dto.SetLanguageRequest true "目标语言"
// @Success 200 {object} dto.Response[dto.SnapshotResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/preferences/language [put]
func (h *CardHandler) SetLanguage(c *gin.Context) {
	var req dto.SetLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	lang := entity.Language(req.Language)
	if !lang.Valid() {
		dto.BadRequest(c, fmt.Sprintf("unsupported language: %q", req.Language))
		return
	}

	snap, err := h.orchestrator.SetLanguage(c.Request.Context(), lang)
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}
	dto.Success(c, dto.ToSnapshotResponse(snap))
}

// UpdatePreferences 更新拨盘与展示参数
// @Summary 更新生成参数
// @Tags Preferences
// @Accept json
// @Produce json
// @Param body body dto.UpdatePreferencesRequest true "生成参数"
// @Success 200 {object} dto.Response[dto.SnapshotResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/preferences [put]
func (h *CardHandler) UpdatePreferences(c *gin.Context) {
	var req dto.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	snap, err := h.orchestrator.SetPreferences(
		req.Mood, req.Weather, req.Luck,
		entity.ArtStyle(req.ArtStyle), entity.CardLayout(req.Layout),
	)
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}
	dto.Success(c, dto.ToSnapshotResponse(snap))
}

// Export 将当前卡片渲染为 PNG 附件下载
// @Summary 导出当前卡片
// @Tags Cards
// @Produce png
// @Param layout query string false "导出版式，默认跟随当前参数"
// @Success 200 {file} binary
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/card/export [get]
func (h *CardHandler) Export(c *gin.Context) {
	layout := entity.CardLayout(c.Query("layout"))

	result, err := h.exporter.Export(c.Request.Context(), h.orchestrator.Snapshot(), layout)
	if err != nil {
		appErr := apperrors.AsAppError(err)
		dto.Error(c, appErr.HTTPStatus, appErr.Message)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

package handler

import (
	"github.com/gin-gonic/gin"

	"daily-muse-api/internal/application/card"
	"daily-muse-api/internal/domain/repository"
	"daily-muse-api/internal/interfaces/http/dto"
	"daily-muse-api/pkg/logger"
	"daily-muse-api/pkg/metrics"
)

// SettingsHandler 提供方凭证设置处理器
type SettingsHandler struct {
	credentials repository.CredentialRepository
	rotator     card.CredentialRotator
}

// NewSettingsHandler 创建设置处理器
func NewSettingsHandler(credentials repository.CredentialRepository, rotator card.CredentialRotator) *SettingsHandler {
	return &SettingsHandler{
		credentials: credentials,
		rotator:     rotator,
	}
}

// GetCredential 返回凭证的脱敏视图
// @Summary 查看提供方凭证
// @Tags Settings
// @Produce json
// @Success 200 {object} dto.Response[dto.CredentialResponse]
// @Router /v1/settings/credential [get]
func (h *SettingsHandler) GetCredential(c *gin.Context) {
	ctx := c.Request.Context()

	key, err := h.credentials.GetCredential(ctx)
	if err != nil {
		logger.Error(ctx, "failed to read credential", err)
		dto.InternalError(c, "failed to read credential")
		return
	}
	dto.Success(c, dto.MaskCredential(key))
}

// UpdateCredential 持久化新凭证并热替换到提供方客户端，
// 对紧随其后的调用立即生效
// @Summary 更新提供方凭证
// @Tags Settings
// @Accept json
// @Produce json
// @Param body body dto.UpdateCredentialRequest true "新凭证"
// @Success 200 {object} dto.Response[dto.CredentialResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/settings/credential [put]
func (h *SettingsHandler) UpdateCredential(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.UpdateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.credentials.PutCredential(ctx, req.APIKey); err != nil {
		logger.Error(ctx, "failed to persist credential", err)
		dto.InternalError(c, "failed to persist credential")
		return
	}

	if err := h.rotator.UpdateCredential(ctx, req.APIKey); err != nil {
		logger.Error(ctx, "failed to rotate provider credential", err)
		dto.InternalError(c, "failed to apply credential")
		return
	}

	metrics.CredentialUpdateTotal.Inc()
	dto.Success(c, dto.MaskCredential(req.APIKey))
}

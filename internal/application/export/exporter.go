// Package export 将当前展示的卡片导出为图像文件
package export

import (
	"context"
	"fmt"
	"sync/atomic"

	"daily-muse-api/internal/application/card"
	"daily-muse-api/internal/domain/entity"
	apperrors "daily-muse-api/pkg/errors"
	"daily-muse-api/pkg/logger"
	"daily-muse-api/pkg/metrics"
)

// Renderer 卡片栅格化契约
type Renderer interface {
	Render(card *entity.QuoteCard, layout entity.CardLayout) ([]byte, error)
}

// Result 一次导出的产物
type Result struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Service 导出服务。自带独立的在途标志，与生成管线互不相干。
type Service struct {
	renderer Renderer
	busy     atomic.Bool
}

// NewService 创建导出服务
func NewService(renderer Renderer) *Service {
	return &Service{renderer: renderer}
}

// Export 渲染快照中的卡片。仅在 completed 且无生成在途时可用；
// 导出失败以独立于生成状态的窄错误呈现。
func (s *Service) Export(ctx context.Context, snap card.Snapshot, layout entity.CardLayout) (*Result, error) {
	if snap.Status != entity.StatusCompleted || snap.Card == nil {
		return nil, apperrors.ErrCardNotReady
	}
	if !layout.Valid() {
		layout = snap.Preferences.Layout
	}

	if !s.busy.CompareAndSwap(false, true) {
		return nil, apperrors.ErrExportBusy
	}
	defer s.busy.Store(false)

	data, err := s.renderer.Render(snap.Card, layout)
	if err != nil {
		logger.Error(ctx, "card export failed", err, "layout", string(layout))
		metrics.CardExportTotal.WithLabelValues(string(layout), "error").Inc()
		return nil, apperrors.Wrap(err, apperrors.CodeExportFailed, FailureMessage(snap.Card.Language))
	}

	metrics.CardExportTotal.WithLabelValues(string(layout), "completed").Inc()
	return &Result{
		Data:        data,
		Filename:    fmt.Sprintf("daily-muse-%s.png", snap.Card.Date),
		ContentType: "image/png",
	}, nil
}

// FailureMessage 导出失败的本地化文案
func FailureMessage(lang entity.Language) string {
	if lang == entity.LanguageZH {
		return "保存图片失败"
	}
	return "Failed to save image"
}

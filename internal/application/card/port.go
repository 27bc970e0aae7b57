// Package card 实现每日灵感卡片的编排逻辑
package card

import (
	"context"

	"daily-muse-api/internal/domain/entity"
)

// ContentProvider 生成内容提供方的两步契约。
// 编排层只依赖这两个操作，提供方可整体替换。
type ContentProvider interface {
	// GenerateQuote 根据生成参数请求结构化的引文内容
	GenerateQuote(ctx context.Context, prefs entity.Preferences) (entity.QuoteContent, error)
	// GenerateImage 根据提示词请求配图，返回 data URI
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// CredentialRotator 支持运行期热替换凭证的提供方
type CredentialRotator interface {
	UpdateCredential(ctx context.Context, apiKey string) error
}

// Package repository 定义领域仓储接口
package repository

import (
	"context"

	"daily-muse-api/internal/domain/entity"
)

// CardRepository 每日卡片缓存仓储。
// 每个 (日期, 语言) 对至多一条记录；Put 整体覆盖，Get 整体读回。
type CardRepository interface {
	// Get 查询指定身份的卡片；不存在时返回 (nil, nil)
	Get(ctx context.Context, identity entity.CardIdentity) (*entity.QuoteCard, error)
	// Put 写入卡片，键由卡片自身的身份决定
	Put(ctx context.Context, card *entity.QuoteCard) error
}

// CredentialRepository 提供方凭证的单值存取，独立于每日记录
type CredentialRepository interface {
	// GetCredential 读取当前凭证；未设置时返回 ("", nil)
	GetCredential(ctx context.Context) (string, error)
	// PutCredential 覆盖当前凭证
	PutCredential(ctx context.Context, key string) error
}

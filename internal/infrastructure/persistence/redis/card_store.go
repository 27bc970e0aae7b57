package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"daily-muse-api/internal/domain/entity"
	"daily-muse-api/pkg/metrics"
)

var storeTracer = otel.Tracer("redis.cardstore")

const (
	// 日期为 YYYY-MM-DD、语言为 zh/en，两者都不含分隔符，键不会碰撞
	cardKeyPrefix = "card:"
	credentialKey = "provider:credential"
)

// CardStore 每日卡片与提供方凭证的 Redis 存储。
// 记录不设 TTL：每天每语言一小条，无限增长是可接受的。
type CardStore struct {
	client *Client
}

// NewCardStore 创建卡片存储
func NewCardStore(client *Client) *CardStore {
	return &CardStore{client: client}
}

// CardKey 构造卡片的存储键
func CardKey(identity entity.CardIdentity) string {
	return fmt.Sprintf("%s%s:%s", cardKeyPrefix, identity.Date, identity.Language)
}

// Get 查询指定身份的卡片；不存在时返回 (nil, nil)
func (s *CardStore) Get(ctx context.Context, identity entity.CardIdentity) (*entity.QuoteCard, error) {
	key := CardKey(identity)
	ctx, span := storeTracer.Start(ctx, "cardstore.Get",
		trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	raw, err := s.client.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			span.SetAttributes(attribute.Bool("cache.hit", false))
			metrics.CacheLookupTotal.WithLabelValues("miss").Inc()
			return nil, nil
		}
		span.RecordError(err)
		metrics.CacheLookupTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to get card %s: %w", key, err)
	}

	var card entity.QuoteCard
	if err := json.Unmarshal(raw, &card); err != nil {
		// 旧格式记录无法解码时按未命中处理，等待被覆盖
		span.RecordError(err)
		metrics.CacheLookupTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}

	span.SetAttributes(attribute.Bool("cache.hit", true))
	metrics.CacheLookupTotal.WithLabelValues("hit").Inc()
	return &card, nil
}

// Put 写入卡片，整体覆盖同一身份下的既有记录
func (s *CardStore) Put(ctx context.Context, card *entity.QuoteCard) error {
	key := CardKey(card.Identity())
	ctx, span := storeTracer.Start(ctx, "cardstore.Put",
		trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	raw, err := json.Marshal(card)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to marshal card: %w", err)
	}

	if err := s.client.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to put card %s: %w", key, err)
	}
	return nil
}

// GetCredential 读取提供方凭证；未设置时返回空串
func (s *CardStore) GetCredential(ctx context.Context) (string, error) {
	ctx, span := storeTracer.Start(ctx, "cardstore.GetCredential")
	defer span.End()

	val, err := s.client.rdb.Get(ctx, credentialKey).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		span.RecordError(err)
		return "", fmt.Errorf("failed to get credential: %w", err)
	}
	return val, nil
}

// PutCredential 覆盖提供方凭证
func (s *CardStore) PutCredential(ctx context.Context, key string) error {
	ctx, span := storeTracer.Start(ctx, "cardstore.PutCredential")
	defer span.End()

	if err := s.client.rdb.Set(ctx, credentialKey, key, 0).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to put credential: %w", err)
	}
	return nil
}

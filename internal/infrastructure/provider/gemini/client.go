// Package gemini 封装与 Gemini 生成式 API 的全部交互。
// 其余部分只依赖两步操作的契约，不感知任何提供方细节。
package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"daily-muse-api/internal/config"
	"daily-muse-api/internal/domain/entity"
	apperrors "daily-muse-api/pkg/errors"
)

var providerTracer = otel.Tracer("provider.gemini")

// quoteSchema 文本生成的结构化响应 Schema，四个字段全部必填
var quoteSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"quote":       {Type: genai.TypeString, Description: "The quote text."},
		"author":      {Type: genai.TypeString, Description: "Author of the quote."},
		"source":      {Type: genai.TypeString, Description: "Source work (book, movie, song) or context."},
		"imagePrompt": {Type: genai.TypeString, Description: "A detailed visual description for an AI image generator to create a matching scene."},
	},
	Required: []string{"quote", "author", "source", "imagePrompt"},
}

// Client Gemini 适配器。凭证可在运行期热替换，
// 替换返回后发出的下一次调用立即使用新凭证。
type Client struct {
	mu     sync.RWMutex
	apiKey string
	client *genai.Client

	textModel  string
	imageModel string
	timeout    time.Duration
}

// NewClient 创建适配器；apiKey 允许为空，空凭证的调用会以生成失败收场
func NewClient(ctx context.Context, cfg *config.GeminiConfig, apiKey string) (*Client, error) {
	c := &Client{
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		timeout:    cfg.Timeout,
	}
	if err := c.rebuild(ctx, apiKey); err != nil {
		return nil, err
	}
	return c, nil
}

// rebuild 用给定凭证重建底层 SDK 客户端
func (c *Client) rebuild(ctx context.Context, apiKey string) error {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fmt.Errorf("failed to create genai client: %w", err)
	}

	c.mu.Lock()
	c.apiKey = apiKey
	c.client = client
	c.mu.Unlock()
	return nil
}

// UpdateCredential 热替换凭证，对紧随其后的调用生效
func (c *Client) UpdateCredential(ctx context.Context, apiKey string) error {
	return c.rebuild(ctx, apiKey)
}

// Credential 返回当前生效的凭证
func (c *Client) Credential() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey
}

// current 获取当前 SDK 客户端
func (c *Client) current() *genai.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

// callContext 给单次提供方调用套上配置的超时
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// GenerateQuote 单次往返请求结构化的引文内容
func (c *Client) GenerateQuote(ctx context.Context, prefs entity.Preferences) (entity.QuoteContent, error) {
	ctx, span := providerTracer.Start(ctx, "gemini.GenerateQuote",
		trace.WithAttributes(
			attribute.String("gemini.model", c.textModel),
			attribute.String("card.language", string(prefs.Language)),
		))
	defer span.End()

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction(prefs), genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    quoteSchema,
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()
	resp, err := c.current().Models.GenerateContent(callCtx, c.textModel, genai.Text(userPrompt(prefs)), cfg)
	if err != nil {
		span.RecordError(err)
		return entity.QuoteContent{}, apperrors.Wrap(err, apperrors.CodeProviderError, "quote generation request failed")
	}

	raw := resp.Text()
	if raw == "" {
		return entity.QuoteContent{}, apperrors.New(apperrors.CodeProviderContract, "empty text response")
	}

	content, err := decodeQuoteContent(raw)
	if err != nil {
		span.RecordError(err)
		return entity.QuoteContent{}, err
	}
	return content, nil
}

// decodeQuoteContent 解析结构化响应并校验契约：
// 四个字段缺任何一个都判为契约违背，绝不静默补默认值
func decodeQuoteContent(raw string) (entity.QuoteContent, error) {
	var content entity.QuoteContent
	if err := json.Unmarshal([]byte(raw), &content); err != nil {
		return entity.QuoteContent{}, apperrors.Wrap(err, apperrors.CodeProviderContract, "malformed quote response")
	}

	missing := make([]string, 0, 4)
	if content.Quote == "" {
		missing = append(missing, "quote")
	}
	if content.Author == "" {
		missing = append(missing, "author")
	}
	if content.Source == "" {
		missing = append(missing, "source")
	}
	if content.ImagePrompt == "" {
		missing = append(missing, "imagePrompt")
	}
	if len(missing) > 0 {
		return entity.QuoteContent{}, apperrors.New(apperrors.CodeProviderContract, "quote response missing required fields").
			WithDetail(fmt.Sprintf("missing: %v", missing))
	}
	return content, nil
}

// GenerateImage 单次往返请求配图，返回 data URI
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	ctx, span := providerTracer.Start(ctx, "gemini.GenerateImage",
		trace.WithAttributes(attribute.String("gemini.model", c.imageModel)))
	defer span.End()

	callCtx, cancel := c.callContext(ctx)
	defer cancel()
	resp, err := c.current().Models.GenerateContent(callCtx, c.imageModel, genai.Text(prompt), nil)
	if err != nil {
		span.RecordError(err)
		return "", apperrors.Wrap(err, apperrors.CodeProviderError, "image generation request failed")
	}

	data, ok := firstInlineImage(resp)
	if !ok {
		return "", apperrors.New(apperrors.CodeProviderContract, "no inline image in response")
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// firstInlineImage 扫描响应，返回第一个内联图像负载
func firstInlineImage(resp *genai.GenerateContentResponse) ([]byte, bool) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, false
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, true
		}
	}
	return nil, false
}

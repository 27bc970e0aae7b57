package gemini

import (
	"context"
	"strings"
	"testing"
	"time"

	"google.golang.org/genai"

	"daily-muse-api/internal/config"
	apperrors "daily-muse-api/pkg/errors"
)

func TestUpdateCredentialTakesEffectImmediately(t *testing.T) {
	ctx := context.Background()
	cfg := &config.GeminiConfig{TextModel: "gemini-2.5-flash", ImageModel: "gemini-2.5-flash-image"}

	c, err := NewClient(ctx, cfg, "sk-initial-key")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if got := c.Credential(); got != "sk-initial-key" {
		t.Fatalf("Credential = %q, want initial key", got)
	}
	before := c.current()

	if err := c.UpdateCredential(ctx, "sk-rotated-key"); err != nil {
		t.Fatalf("UpdateCredential: %v", err)
	}

	// 替换返回后，下一次调用看到的必须已经是新凭证和新客户端
	if got := c.Credential(); got != "sk-rotated-key" {
		t.Fatalf("Credential = %q, want rotated key", got)
	}
	if c.current() == before {
		t.Fatal("underlying client must be rebuilt with the new credential")
	}
}

func TestCallContextAppliesTimeout(t *testing.T) {
	ctx := context.Background()
	cfg := &config.GeminiConfig{TextModel: "m", ImageModel: "m", Timeout: 45 * time.Second}

	c, err := NewClient(ctx, cfg, "sk-test")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()
	deadline, ok := callCtx.Deadline()
	if !ok {
		t.Fatal("expected a deadline on provider call context")
	}
	if remaining := time.Until(deadline); remaining > 45*time.Second || remaining < 40*time.Second {
		t.Fatalf("deadline in %v, want about 45s", remaining)
	}
}

func TestCallContextWithoutTimeout(t *testing.T) {
	c, err := NewClient(context.Background(), &config.GeminiConfig{}, "sk-test")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	callCtx, cancel := c.callContext(context.Background())
	defer cancel()
	if _, ok := callCtx.Deadline(); ok {
		t.Fatal("no timeout configured, call context must carry no deadline")
	}
}

func TestDecodeQuoteContent(t *testing.T) {
	raw := `{"quote":"q","author":"a","source":"s","imagePrompt":"p"}`
	content, err := decodeQuoteContent(raw)
	if err != nil {
		t.Fatalf("decodeQuoteContent: %v", err)
	}
	if content.Quote != "q" || content.Author != "a" || content.Source != "s" || content.ImagePrompt != "p" {
		t.Fatalf("content = %+v", content)
	}
}

func TestDecodeQuoteContentRejectsMalformedJSON(t *testing.T) {
	_, err := decodeQuoteContent("not json")
	if err == nil {
		t.Fatal("expected error for malformed response")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeProviderContract {
		t.Fatalf("code = %v, want provider contract violation", apperrors.AsAppError(err).Code)
	}
}

func TestDecodeQuoteContentRejectsMissingFields(t *testing.T) {
	cases := map[string]string{
		"quote":       `{"author":"a","source":"s","imagePrompt":"p"}`,
		"author":      `{"quote":"q","source":"s","imagePrompt":"p"}`,
		"source":      `{"quote":"q","author":"a","imagePrompt":"p"}`,
		"imagePrompt": `{"quote":"q","author":"a","source":"s"}`,
	}
	for field, raw := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := decodeQuoteContent(raw)
			if err == nil {
				t.Fatalf("expected error when %s is missing", field)
			}
			appErr := apperrors.AsAppError(err)
			if appErr.Code != apperrors.CodeProviderContract {
				t.Fatalf("code = %v, want provider contract violation", appErr.Code)
			}
			if !strings.Contains(appErr.Detail, field) {
				t.Fatalf("detail = %q, must name the missing field", appErr.Detail)
			}
		})
	}
}

func TestFirstInlineImage(t *testing.T) {
	payload := []byte{0xff, 0xd8, 0xff}
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "here is your image"},
				{InlineData: &genai.Blob{MIMEType: "image/jpeg", Data: payload}},
			}},
		}},
	}

	data, ok := firstInlineImage(resp)
	if !ok {
		t.Fatal("expected an inline image")
	}
	if string(data) != string(payload) {
		t.Fatalf("data = %v, want %v", data, payload)
	}
}

func TestFirstInlineImageAbsent(t *testing.T) {
	cases := map[string]*genai.GenerateContentResponse{
		"nil response":  nil,
		"no candidates": {},
		"text only": {
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{{Text: "sorry"}}},
			}},
		},
	}
	for name, resp := range cases {
		t.Run(name, func(t *testing.T) {
			if _, ok := firstInlineImage(resp); ok {
				t.Fatal("expected no inline image")
			}
		})
	}
}

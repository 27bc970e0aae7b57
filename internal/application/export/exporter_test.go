package export

import (
	"context"
	"errors"
	"sync"
	"testing"

	"daily-muse-api/internal/application/card"
	"daily-muse-api/internal/domain/entity"
	apperrors "daily-muse-api/pkg/errors"
)

// fakeRenderer 可编程的渲染桩
type fakeRenderer struct {
	mu      sync.Mutex
	layouts []entity.CardLayout
	fn      func(card *entity.QuoteCard, layout entity.CardLayout) ([]byte, error)
}

func (r *fakeRenderer) Render(c *entity.QuoteCard, layout entity.CardLayout) ([]byte, error) {
	r.mu.Lock()
	r.layouts = append(r.layouts, layout)
	r.mu.Unlock()
	if r.fn != nil {
		return r.fn(c, layout)
	}
	return []byte("png-bytes"), nil
}

func completedSnapshot() card.Snapshot {
	prefs := entity.DefaultPreferences()
	prefs.Layout = entity.LayoutPolaroid
	return card.Snapshot{
		Status: entity.StatusCompleted,
		Card: &entity.QuoteCard{
			Quote: "q", Author: "a", Source: "s", ImagePrompt: "p",
			ImageURL: "data:image/jpeg;base64,Zg==",
			Date:     "2026-08-31", Language: entity.LanguageEN,
		},
		Preferences: prefs,
	}
}

func TestExportProducesNamedAttachment(t *testing.T) {
	renderer := &fakeRenderer{}
	svc := NewService(renderer)

	result, err := svc.Export(context.Background(), completedSnapshot(), entity.LayoutClassic)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if result.Filename != "daily-muse-2026-08-31.png" {
		t.Fatalf("filename = %q", result.Filename)
	}
	if result.ContentType != "image/png" {
		t.Fatalf("content type = %q", result.ContentType)
	}
	if string(result.Data) != "png-bytes" {
		t.Fatalf("data = %q", result.Data)
	}
	if len(renderer.layouts) != 1 || renderer.layouts[0] != entity.LayoutClassic {
		t.Fatalf("rendered layouts = %v, want requested layout", renderer.layouts)
	}
}

func TestExportInvalidLayoutFallsBackToPreferences(t *testing.T) {
	renderer := &fakeRenderer{}
	svc := NewService(renderer)

	if _, err := svc.Export(context.Background(), completedSnapshot(), entity.CardLayout("diamond")); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(renderer.layouts) != 1 || renderer.layouts[0] != entity.LayoutPolaroid {
		t.Fatalf("rendered layouts = %v, want preference layout", renderer.layouts)
	}
}

func TestExportRequiresCompletedCard(t *testing.T) {
	svc := NewService(&fakeRenderer{})

	snaps := map[string]card.Snapshot{
		"idle":       {Status: entity.StatusIdle, Preferences: entity.DefaultPreferences()},
		"generating": {Status: entity.StatusGeneratingImage, Preferences: entity.DefaultPreferences()},
		"no card":    {Status: entity.StatusCompleted, Preferences: entity.DefaultPreferences()},
	}
	for name, snap := range snaps {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Export(context.Background(), snap, entity.LayoutClassic)
			if err == nil {
				t.Fatal("expected error")
			}
			if apperrors.AsAppError(err).Code != apperrors.CodeCardNotReady {
				t.Fatalf("code = %v, want card not ready", apperrors.AsAppError(err).Code)
			}
		})
	}
}

func TestExportBusyGuard(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var startedOnce sync.Once
	renderer := &fakeRenderer{fn: func(*entity.QuoteCard, entity.CardLayout) ([]byte, error) {
		startedOnce.Do(func() { close(started) })
		<-release
		return []byte("png"), nil
	}}
	svc := NewService(renderer)

	done := make(chan error)
	go func() {
		_, err := svc.Export(context.Background(), completedSnapshot(), entity.LayoutClassic)
		done <- err
	}()
	<-started

	_, err := svc.Export(context.Background(), completedSnapshot(), entity.LayoutClassic)
	if apperrors.AsAppError(err).Code != apperrors.CodeExportBusy {
		t.Fatalf("code = %v, want export busy", apperrors.AsAppError(err).Code)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first export failed: %v", err)
	}

	// 第一趟完成后标志回落
	if _, err := svc.Export(context.Background(), completedSnapshot(), entity.LayoutClassic); err != nil {
		t.Fatalf("export after release: %v", err)
	}
}

func TestExportFailureIsLocalized(t *testing.T) {
	renderer := &fakeRenderer{fn: func(*entity.QuoteCard, entity.CardLayout) ([]byte, error) {
		return nil, errors.New("encode failed")
	}}
	svc := NewService(renderer)

	snap := completedSnapshot()
	snap.Card.Language = entity.LanguageZH
	_, err := svc.Export(context.Background(), snap, entity.LayoutClassic)
	if err == nil {
		t.Fatal("expected error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeExportFailed {
		t.Fatalf("code = %v, want export failed", appErr.Code)
	}
	if appErr.Message != "保存图片失败" {
		t.Fatalf("message = %q, want localized failure text", appErr.Message)
	}

	snap = completedSnapshot()
	_, err = svc.Export(context.Background(), snap, entity.LayoutClassic)
	if apperrors.AsAppError(err).Message != "Failed to save image" {
		t.Fatalf("message = %q, want English failure text", apperrors.AsAppError(err).Message)
	}
}

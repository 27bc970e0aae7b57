package entity

import (
	"testing"
	"time"
)

func TestDefaultPreferencesAreValid(t *testing.T) {
	if err := DefaultPreferences().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejectsOutOfDomain(t *testing.T) {
	base := DefaultPreferences()

	p := base
	p.Mood = 0
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for mood below range")
	}

	p = base
	p.Luck = 5
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for luck above range")
	}

	p = base
	p.Language = "fr"
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for unsupported language")
	}

	p = base
	p.Layout = "diamond"
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for unsupported layout")
	}

	p = base
	p.ArtStyle = "pixel"
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for unsupported art style")
	}
}

func TestDateString(t *testing.T) {
	got := DateString(time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC))
	if got != "2026-08-31" {
		t.Fatalf("DateString = %q", got)
	}
}

func TestGenerationStatusStrings(t *testing.T) {
	cases := map[GenerationStatus]string{
		StatusIdle:            "idle",
		StatusGeneratingText:  "generating_text",
		StatusGeneratingImage: "generating_image",
		StatusCompleted:       "completed",
		StatusError:           "error",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Fatalf("%d.String() = %q, want %q", status, got, want)
		}
	}
	if !StatusGeneratingText.IsGenerating() || !StatusGeneratingImage.IsGenerating() {
		t.Fatal("generating states must report IsGenerating")
	}
	if StatusCompleted.IsGenerating() || StatusIdle.IsGenerating() {
		t.Fatal("terminal states must not report IsGenerating")
	}
}

package dto

import (
	"testing"

	"daily-muse-api/internal/application/card"
	"daily-muse-api/internal/domain/entity"
)

func TestMaskCredential(t *testing.T) {
	cases := []struct {
		key  string
		set  bool
		mask string
	}{
		{"", false, ""},
		{"short", true, "****"},
		{"elevenchars", true, "****"},
		{"AIzaSyA1B2C3D4E5F6", true, "AIza****E5F6"},
	}
	for _, tc := range cases {
		got := MaskCredential(tc.key)
		if got.Set != tc.set || got.MaskedKey != tc.mask {
			t.Fatalf("MaskCredential(%q) = %+v, want set=%v mask=%q", tc.key, got, tc.set, tc.mask)
		}
	}
}

func TestToSnapshotResponse(t *testing.T) {
	snap := card.Snapshot{
		Status: entity.StatusCompleted,
		Card: &entity.QuoteCard{
			Quote: "q", Author: "a", Source: "s", ImagePrompt: "p",
			ImageURL: "data:image/jpeg;base64,Zg==",
			Date:     "2026-08-31", Language: entity.LanguageZH,
		},
		Preferences: entity.DefaultPreferences(),
	}

	resp := ToSnapshotResponse(snap)
	if resp.Status != "completed" {
		t.Fatalf("status = %q", resp.Status)
	}
	if resp.Card == nil || resp.Card.Date != "2026-08-31" || resp.Card.Language != "zh" {
		t.Fatalf("card = %+v", resp.Card)
	}
	if resp.Preferences.Language != "en" || resp.Preferences.Mood != 3 {
		t.Fatalf("preferences = %+v", resp.Preferences)
	}
}

func TestToSnapshotResponseWithoutCard(t *testing.T) {
	resp := ToSnapshotResponse(card.Snapshot{
		Status:       entity.StatusError,
		ErrorMessage: "Generation failed, please check your API key and try again.",
		Preferences:  entity.DefaultPreferences(),
	})
	if resp.Card != nil {
		t.Fatalf("card = %+v, want nil", resp.Card)
	}
	if resp.Status != "error" || resp.ErrorMessage == "" {
		t.Fatalf("resp = %+v", resp)
	}
}

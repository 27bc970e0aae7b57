package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"daily-muse-api/internal/config"
	"daily-muse-api/internal/domain/entity"
)

func testDataURI(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 128, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func testCard(t *testing.T) *entity.QuoteCard {
	t.Helper()
	return &entity.QuoteCard{
		Quote:       "The woods are lovely, dark and deep.",
		Author:      "Robert Frost",
		Source:      "Stopping by Woods on a Snowy Evening",
		ImagePrompt: "snowy forest at dusk",
		ImageURL:    testDataURI(t, 320, 200),
		Date:        "2026-08-31",
		Language:    entity.LanguageEN,
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(&config.RenderConfig{Width: 300, Height: 400})
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func TestRenderAllLayouts(t *testing.T) {
	r := newTestRenderer(t)
	card := testCard(t)

	for _, layout := range []entity.CardLayout{
		entity.LayoutClassic, entity.LayoutPolaroid, entity.LayoutCinematic, entity.LayoutMagazine,
	} {
		t.Run(string(layout), func(t *testing.T) {
			data, err := r.Render(card, layout)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("output is not decodable PNG: %v", err)
			}
			b := img.Bounds()
			if b.Dx() != 300 || b.Dy() != 400 {
				t.Fatalf("output size = %dx%d, want 300x400", b.Dx(), b.Dy())
			}
		})
	}
}

func TestRenderRejectsNonImageURL(t *testing.T) {
	r := newTestRenderer(t)
	card := testCard(t)
	card.ImageURL = "https://example.com/picture.png"

	if _, err := r.Render(card, entity.LayoutClassic); err == nil {
		t.Fatal("expected error for non data URI image")
	}
}

func TestDecodeDataURI(t *testing.T) {
	uri := testDataURI(t, 10, 10)
	img, err := decodeDataURI(uri)
	if err != nil {
		t.Fatalf("decodeDataURI: %v", err)
	}
	if img.Bounds().Dx() != 10 {
		t.Fatalf("width = %d, want 10", img.Bounds().Dx())
	}

	for _, bad := range []string{"", "data:image/png;base64,!!!", "data:text/plain;base64,Zg=="} {
		if _, err := decodeDataURI(bad); err == nil {
			t.Fatalf("decodeDataURI(%q): expected error", bad)
		}
	}
}

func TestCoverScaleFillsTarget(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 50))
	out := coverScale(src, 60, 60)
	b := out.Bounds()
	if b.Dx() != 60 || b.Dy() != 60 {
		t.Fatalf("size = %dx%d, want 60x60", b.Dx(), b.Dy())
	}
}

func TestAttribution(t *testing.T) {
	r := newTestRenderer(t)
	card := testCard(t)

	if got := r.attribution(card); got != "— Robert Frost · Stopping by Woods on a Snowy Evening" {
		t.Fatalf("attribution = %q", got)
	}
	card.Source = ""
	if got := r.attribution(card); got != "— Robert Frost" {
		t.Fatalf("attribution without source = %q", got)
	}
}

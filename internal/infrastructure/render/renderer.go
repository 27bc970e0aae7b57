// Package render 将卡片栅格化为可下载的 PNG 图像
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"

	_ "image/jpeg"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"daily-muse-api/internal/config"
	"daily-muse-api/internal/domain/entity"
)

// Renderer 卡片渲染器，持有版面尺寸与字体
type Renderer struct {
	width  int
	height int

	quoteFace  font.Face
	titleFace  font.Face
	detailFace font.Face
}

// NewRenderer 创建渲染器。字体路径留空时退回内置位图字体，
// 便于无字体文件的环境（如测试）直接运行。
func NewRenderer(cfg *config.RenderConfig) (*Renderer, error) {
	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = 900
	}
	if height <= 0 {
		height = 1200
	}

	quoteFace, err := loadFace(cfg.SerifFont, float64(width)/18)
	if err != nil {
		return nil, fmt.Errorf("failed to load serif font: %w", err)
	}
	titleFace, err := loadFace(cfg.SansFont, float64(width)/28)
	if err != nil {
		return nil, fmt.Errorf("failed to load sans font: %w", err)
	}
	detailFace, err := loadFace(cfg.SansFont, float64(width)/40)
	if err != nil {
		return nil, fmt.Errorf("failed to load sans font: %w", err)
	}

	return &Renderer{
		width:      width,
		height:     height,
		quoteFace:  quoteFace,
		titleFace:  titleFace,
		detailFace: detailFace,
	}, nil
}

// loadFace 从 TTF 文件加载字体
func loadFace(path string, points float64) (font.Face, error) {
	if strings.TrimSpace(path) == "" {
		return basicfont.Face7x13, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(raw)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: points}), nil
}

// Render 按指定版式渲染卡片，输出 PNG 字节
func (r *Renderer) Render(card *entity.QuoteCard, layout entity.CardLayout) ([]byte, error) {
	img, err := decodeDataURI(card.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to decode card image: %w", err)
	}

	dc := gg.NewContext(r.width, r.height)

	switch layout {
	case entity.LayoutPolaroid:
		r.drawPolaroid(dc, card, img)
	case entity.LayoutCinematic:
		r.drawCinematic(dc, card, img)
	case entity.LayoutMagazine:
		r.drawMagazine(dc, card, img)
	default:
		r.drawClassic(dc, card, img)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeDataURI 解析 data:image/...;base64,... 形式的图像
func decodeDataURI(uri string) (image.Image, error) {
	idx := strings.Index(uri, ";base64,")
	if !strings.HasPrefix(uri, "data:image/") || idx < 0 {
		return nil, fmt.Errorf("not a base64 image data URI")
	}
	raw, err := base64.StdEncoding.DecodeString(uri[idx+len(";base64,"):])
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	return img, err
}

// coverScale 将图像等比缩放并居中裁剪到目标尺寸
func coverScale(src image.Image, w, h int) image.Image {
	sb := src.Bounds()
	scale := max(float64(w)/float64(sb.Dx()), float64(h)/float64(sb.Dy()))
	sw := int(float64(sb.Dx()) * scale)
	sh := int(float64(sb.Dy()) * scale)

	scaled := image.NewRGBA(image.Rect(0, 0, sw, sh))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), src, sb, draw.Over, nil)

	offX := (sw - w) / 2
	offY := (sh - h) / 2
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Copy(out, image.Point{}, scaled, image.Rect(offX, offY, offX+w, offY+h), draw.Over, nil)
	return out
}

func (r *Renderer) attribution(card *entity.QuoteCard) string {
	if card.Source != "" {
		return fmt.Sprintf("— %s · %s", card.Author, card.Source)
	}
	return "— " + card.Author
}

// drawClassic 经典版式：上图下文，白底
func (r *Renderer) drawClassic(dc *gg.Context, card *entity.QuoteCard, img image.Image) {
	w, h := float64(r.width), float64(r.height)
	margin := w / 15

	dc.SetColor(color.White)
	dc.Clear()

	imgH := int(h * 0.58)
	dc.DrawImage(coverScale(img, r.width-int(2*margin), imgH), int(margin), int(margin))

	dc.SetColor(color.RGBA{41, 37, 36, 255})
	dc.SetFontFace(r.quoteFace)
	dc.DrawStringWrapped(card.Quote, w/2, margin+float64(imgH)+(h-margin*2-float64(imgH))/2.2,
		0.5, 0.5, w-3*margin, 1.6, gg.AlignCenter)

	dc.SetFontFace(r.detailFace)
	dc.SetColor(color.RGBA{120, 113, 108, 255})
	dc.DrawStringAnchored(r.attribution(card), w/2, h-margin*1.2, 0.5, 0.5)
}

// drawPolaroid 拍立得版式：厚白边，底部留白写字
func (r *Renderer) drawPolaroid(dc *gg.Context, card *entity.QuoteCard, img image.Image) {
	w, h := float64(r.width), float64(r.height)
	frame := w / 12

	dc.SetColor(color.RGBA{250, 250, 249, 255})
	dc.Clear()

	imgH := int(h * 0.62)
	dc.DrawImage(coverScale(img, r.width-int(2*frame), imgH), int(frame), int(frame))

	// 内框阴影线
	dc.SetColor(color.RGBA{231, 229, 228, 255})
	dc.SetLineWidth(2)
	dc.DrawRectangle(frame, frame, w-2*frame, float64(imgH))
	dc.Stroke()

	dc.SetColor(color.RGBA{68, 64, 60, 255})
	dc.SetFontFace(r.quoteFace)
	dc.DrawStringWrapped(card.Quote, w/2, frame+float64(imgH)+(h-2*frame-float64(imgH))/2,
		0.5, 0.5, w-4*frame, 1.5, gg.AlignCenter)

	dc.SetFontFace(r.detailFace)
	dc.SetColor(color.RGBA{168, 162, 158, 255})
	dc.DrawStringAnchored(r.attribution(card), w/2, h-frame/1.5, 0.5, 0.5)
}

// drawCinematic 电影版式：全幅图像加黑色遮幅，字幕式排版
func (r *Renderer) drawCinematic(dc *gg.Context, card *entity.QuoteCard, img image.Image) {
	w, h := float64(r.width), float64(r.height)

	dc.SetColor(color.Black)
	dc.Clear()

	barH := int(h * 0.12)
	imgH := r.height - 2*barH
	dc.DrawImage(coverScale(img, r.width, imgH), 0, barH)

	// 底部渐暗压字区
	grad := gg.NewLinearGradient(0, h-float64(barH)*3, 0, h-float64(barH))
	grad.AddColorStop(0, color.RGBA{0, 0, 0, 0})
	grad.AddColorStop(1, color.RGBA{0, 0, 0, 200})
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, h-float64(barH)*3, w, float64(barH)*2)
	dc.Fill()

	dc.SetColor(color.White)
	dc.SetFontFace(r.quoteFace)
	dc.DrawStringWrapped(card.Quote, w/2, h-float64(barH)*1.8, 0.5, 1, w*0.8, 1.5, gg.AlignCenter)

	dc.SetFontFace(r.detailFace)
	dc.SetColor(color.RGBA{214, 211, 209, 255})
	dc.DrawStringAnchored(r.attribution(card), w/2, h-float64(barH)/2, 0.5, 0.5)
}

// drawMagazine 杂志版式：大标题排版，图占下半
func (r *Renderer) drawMagazine(dc *gg.Context, card *entity.QuoteCard, img image.Image) {
	w, h := float64(r.width), float64(r.height)
	margin := w / 12

	dc.SetColor(color.White)
	dc.Clear()

	dc.SetColor(color.RGBA{28, 25, 23, 255})
	dc.SetLineWidth(6)
	dc.DrawLine(margin, margin, margin+w/8, margin)
	dc.Stroke()

	dc.SetFontFace(r.quoteFace)
	dc.DrawStringWrapped(card.Quote, margin, margin*1.8, 0, 0, w-2*margin, 1.7, gg.AlignLeft)

	dc.SetFontFace(r.titleFace)
	dc.SetColor(color.RGBA{87, 83, 78, 255})
	dc.DrawString(r.attribution(card), margin, h*0.42)

	imgTop := int(h * 0.48)
	dc.DrawImage(coverScale(img, r.width, r.height-imgTop), 0, imgTop)

	dc.SetFontFace(r.detailFace)
	dc.SetColor(color.RGBA{168, 162, 158, 255})
	dc.DrawStringAnchored(card.Date, w-margin, h*0.46, 1, 0.5)
}

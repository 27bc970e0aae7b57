// Package entity 定义核心领域对象
package entity

import "fmt"

// Language 卡片语言
type Language string

const (
	LanguageZH Language = "zh"
	LanguageEN Language = "en"
)

// Valid 检查语言是否在支持范围内
func (l Language) Valid() bool {
	return l == LanguageZH || l == LanguageEN
}

// CardLayout 卡片版式，仅影响展示与导出渲染
type CardLayout string

const (
	LayoutClassic   CardLayout = "classic"
	LayoutPolaroid  CardLayout = "polaroid"
	LayoutCinematic CardLayout = "cinematic"
	LayoutMagazine  CardLayout = "magazine"
)

// Valid 检查版式是否在支持范围内
func (l CardLayout) Valid() bool {
	switch l {
	case LayoutClassic, LayoutPolaroid, LayoutCinematic, LayoutMagazine:
		return true
	}
	return false
}

// ArtStyle 配图艺术风格，约束图像生成提示词
type ArtStyle string

const (
	StyleRealistic    ArtStyle = "realistic"
	StyleAnime        ArtStyle = "anime"
	StylePainting     ArtStyle = "painting"
	StyleIllustration ArtStyle = "illustration"
)

// Valid 检查艺术风格是否在支持范围内
func (s ArtStyle) Valid() bool {
	switch s {
	case StyleRealistic, StyleAnime, StylePainting, StyleIllustration:
		return true
	}
	return false
}

// 心情/天气/运气拨盘的取值范围
const (
	DialMin = 1
	DialMax = 4
)

// Preferences 用户可调的生成参数
type Preferences struct {
	Mood     int        `json:"mood"`
	Weather  int        `json:"weather"`
	Luck     int        `json:"luck"`
	Language Language   `json:"language"`
	Layout   CardLayout `json:"layout"`
	ArtStyle ArtStyle   `json:"artStyle"`
}

// DefaultPreferences 首次加载使用的默认参数
func DefaultPreferences() Preferences {
	return Preferences{
		Mood:     3,
		Weather:  3,
		Luck:     3,
		Language: LanguageEN,
		Layout:   LayoutClassic,
		ArtStyle: StyleRealistic,
	}
}

// Validate 校验所有字段均在定义域内
func (p Preferences) Validate() error {
	for name, dial := range map[string]int{"mood": p.Mood, "weather": p.Weather, "luck": p.Luck} {
		if dial < DialMin || dial > DialMax {
			return fmt.Errorf("%s out of range [%d,%d]: %d", name, DialMin, DialMax, dial)
		}
	}
	if !p.Language.Valid() {
		return fmt.Errorf("unsupported language: %q", p.Language)
	}
	if !p.Layout.Valid() {
		return fmt.Errorf("unsupported layout: %q", p.Layout)
	}
	if !p.ArtStyle.Valid() {
		return fmt.Errorf("unsupported art style: %q", p.ArtStyle)
	}
	return nil
}

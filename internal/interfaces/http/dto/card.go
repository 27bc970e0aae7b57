package dto

import (
	"strings"

	"daily-muse-api/internal/application/card"
)

// CardResponse 卡片响应体，字段名与持久化格式保持一致
type CardResponse struct {
	Quote       string `json:"quote"`
	Author      string `json:"author"`
	Source      string `json:"source"`
	ImagePrompt string `json:"imagePrompt"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Date        string `json:"date"`
	Language    string `json:"language"`
}

// PreferencesResponse 当前生成参数
type PreferencesResponse struct {
	Mood     int    `json:"mood"`
	Weather  int    `json:"weather"`
	Luck     int    `json:"luck"`
	Language string `json:"language"`
	Layout   string `json:"layout"`
	ArtStyle string `json:"artStyle"`
}

// SnapshotResponse 编排器状态快照
type SnapshotResponse struct {
	Status       string              `json:"status"`
	Card         *CardResponse       `json:"card,omitempty"`
	ErrorMessage string              `json:"error_message,omitempty"`
	Preferences  PreferencesResponse `json:"preferences"`
}

// ToSnapshotResponse 转换编排器快照
func ToSnapshotResponse(snap card.Snapshot) SnapshotResponse {
	resp := SnapshotResponse{
		Status:       snap.Status.String(),
		ErrorMessage: snap.ErrorMessage,
		Preferences: PreferencesResponse{
			Mood:     snap.Preferences.Mood,
			Weather:  snap.Preferences.Weather,
			Luck:     snap.Preferences.Luck,
			Language: string(snap.Preferences.Language),
			Layout:   string(snap.Preferences.Layout),
			ArtStyle: string(snap.Preferences.ArtStyle),
		},
	}
	if snap.Card != nil {
		resp.Card = &CardResponse{
			Quote:       snap.Card.Quote,
			Author:      snap.Card.Author,
			Source:      snap.Card.Source,
			ImagePrompt: snap.Card.ImagePrompt,
			ImageURL:    snap.Card.ImageURL,
			Date:        snap.Card.Date,
			Language:    string(snap.Card.Language),
		}
	}
	return resp
}

// UpdatePreferencesRequest 更新拨盘与展示参数
type UpdatePreferencesRequest struct {
	Mood     int    `json:"mood" binding:"required,min=1,max=4"`
	Weather  int    `json:"weather" binding:"required,min=1,max=4"`
	Luck     int    `json:"luck" binding:"required,min=1,max=4"`
	ArtStyle string `json:"artStyle" binding:"required"`
	Layout   string `json:"layout" binding:"required"`
}

// SetLanguageRequest 切换语言
type SetLanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

// UpdateCredentialRequest 更新提供方凭证
type UpdateCredentialRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

// CredentialResponse 凭证的脱敏视图
type CredentialResponse struct {
	Set       bool   `json:"set"`
	MaskedKey string `json:"masked_key,omitempty"`
}

// MaskCredential 凭证脱敏：只露出首尾各 4 位
func MaskCredential(key string) CredentialResponse {
	if key == "" {
		return CredentialResponse{Set: false}
	}
	masked := "****"
	if len(key) >= 12 {
		masked = key[:4] + strings.Repeat("*", 4) + key[len(key)-4:]
	}
	return CredentialResponse{Set: true, MaskedKey: masked}
}

package entity

import "time"

// DateLayout 卡片日期的存储格式
const DateLayout = "2006-01-02"

// DateString 返回 t 所在本地日的 YYYY-MM-DD 形式
func DateString(t time.Time) string {
	return t.Format(DateLayout)
}

// CardIdentity 缓存身份：每个 (日期, 语言) 对至多一张卡片
type CardIdentity struct {
	Date     string   `json:"date"`
	Language Language `json:"language"`
}

// QuoteContent 文本生成步骤的产物，四个字段缺一不可
type QuoteContent struct {
	Quote       string `json:"quote"`
	Author      string `json:"author"`
	Source      string `json:"source"`
	ImagePrompt string `json:"imagePrompt"`
}

// QuoteCard 一张完整的每日灵感卡片，持久化后不可变；
// 重新生成会整体覆盖同一身份下的记录，而不是原地修改。
type QuoteCard struct {
	Quote       string   `json:"quote"`
	Author      string   `json:"author"`
	Source      string   `json:"source"`
	ImagePrompt string   `json:"imagePrompt"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Date        string   `json:"date"`
	Language    Language `json:"language"`
}

// Identity 返回卡片的缓存身份
func (c *QuoteCard) Identity() CardIdentity {
	return CardIdentity{Date: c.Date, Language: c.Language}
}

// NewQuoteCard 组装一张完整卡片
func NewQuoteCard(content QuoteContent, imageURL string, identity CardIdentity) *QuoteCard {
	return &QuoteCard{
		Quote:       content.Quote,
		Author:      content.Author,
		Source:      content.Source,
		ImagePrompt: content.ImagePrompt,
		ImageURL:    imageURL,
		Date:        identity.Date,
		Language:    identity.Language,
	}
}

package gemini

import (
	"fmt"
	"strings"

	"daily-muse-api/internal/domain/entity"
)

// styleKeywords 艺术风格到提示词关键短语的固定映射
var styleKeywords = map[entity.ArtStyle]string{
	entity.StyleRealistic:    "Photorealistic, cinematic lighting, 8k resolution, raw photography style",
	entity.StyleAnime:        "Anime style, Makoto Shinkai inspired, vibrant colors, detailed clouds, 2D animation style",
	entity.StylePainting:     "Oil painting style, textured brushstrokes, impressionist, artistic composition",
	entity.StyleIllustration: "Digital illustration, clean lines, flat design, vector art style, artistic",
}

// styleKeywordsFor 查询风格关键短语。
// 未识别的风格按约定回退到 realistic，而不是报错。
func styleKeywordsFor(style entity.ArtStyle) string {
	if kw, ok := styleKeywords[style]; ok {
		return kw
	}
	return styleKeywords[entity.StyleRealistic]
}

// languageName 目标语言的自然语言描述
func languageName(lang entity.Language) string {
	if lang == entity.LanguageZH {
		return "Chinese (Simplified)"
	}
	return "English"
}

// systemInstruction 构造文本生成的系统指令：
// 选句标准、1-4 拨盘到语气梯度的映射、风格约束与禁文字要求
func systemInstruction(prefs entity.Preferences) string {
	var b strings.Builder

	b.WriteString("You are an artistic curator of daily inspiration, dedicated to the belief that beautiful words have the strength to heal and uplift.\n")
	b.WriteString("Your task is to select a profound quote based on the user's daily parameters (Mood, Weather, Luck) and Language.\n\n")

	b.WriteString("SOURCE GUIDELINES:\n")
	b.WriteString("- Prioritize quotes with high literary value, poetic beauty, or deep philosophical insight.\n")
	b.WriteString("- Select from: classic literature, modern philosophy, iconic movie dialogues, meaningful song lyrics, or poetry.\n")
	b.WriteString("- Avoid generic motivational slogans; seek words that resonate with the human condition.\n")
	b.WriteString("- You may occasionally generate an original, profound aphorism if it fits the mood perfectly.\n")
	b.WriteString("- Ensure the 'author' is correctly attributed. If unknown, use 'Unknown'.\n")
	b.WriteString("- Use the 'source' field to indicate the book, movie, song, or 'Original' if applicable.\n\n")

	b.WriteString("Parameters Scale (1-4):\n")
	b.WriteString("1: Negative/Low (Sad, Stormy, Bad Luck) -> Comforting, resilient, soothing, or reflective quotes.\n")
	b.WriteString("4: Positive/High (Happy, Sunny, Good Luck) -> Uplifting, energetic, romantic, or celebratory quotes.\n\n")

	b.WriteString("CRITICAL IMAGE PROMPT INSTRUCTIONS:\n")
	fmt.Fprintf(&b, "- The user has explicitly selected the visual style: %q.\n", string(prefs.ArtStyle))
	fmt.Fprintf(&b, "- The \"imagePrompt\" you generate MUST STRICTLY describe an image in this specific style: %s.\n", styleKeywordsFor(prefs.ArtStyle))
	b.WriteString("- Do not mix styles. If \"Anime\" is selected, the prompt must start with \"Anime style illustration of...\".\n")
	b.WriteString("- The image content should metaphorically or literally match the quote.\n")
	b.WriteString("- DO NOT include any text, words, or letters in the image prompt description. The image must be purely visual.\n\n")

	b.WriteString("Return valid JSON.")

	return b.String()
}

// userPrompt 构造文本生成的参数摘要
func userPrompt(prefs entity.Preferences) string {
	var b strings.Builder
	b.WriteString("Generate a daily quote card content.\n")
	fmt.Fprintf(&b, "Language: %s\n", languageName(prefs.Language))
	fmt.Fprintf(&b, "Mood: %d/4\n", prefs.Mood)
	fmt.Fprintf(&b, "Weather: %d/4\n", prefs.Weather)
	fmt.Fprintf(&b, "Luck: %d/4\n", prefs.Luck)
	fmt.Fprintf(&b, "Art Style: %s\n", string(prefs.ArtStyle))
	return b.String()
}

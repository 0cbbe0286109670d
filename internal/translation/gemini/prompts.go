package gemini

import (
	"fmt"
	"strings"

	"github.com/thisisbailin/spur/internal/catalog"
)

// textSystemInstruction frames every text translation request.
const textSystemInstruction = "你是一位专业的翻译助手，负责准确、流畅地将文本从一种语言翻译到另一种语言。只返回翻译后的文本，不要添加任何额外的解释、评论或格式。"

// ocrSystemInstruction defines the OCR+translate task. OCR requests always
// translate into Chinese, independent of the selected target language.
const ocrSystemInstruction = `You are a highly specialized image OCR and text translation agent. Your task is to:
1. Accurately extract all text from the provided image
2. Preserve the original formatting including paragraphs and line breaks
3. Translate the extracted text into Chinese
4. Return only the translated text without any explanations or metadata

Focus on accuracy and fluency of the translation. If the image contains text in multiple languages, translate all of it to Chinese.`

// ocrUserInstruction accompanies the inline image data.
const ocrUserInstruction = "识别这张图片中的所有文本并翻译成中文。请直接返回翻译结果，不要添加任何解释或元数据。"

// translationLabel is the literal label a model response may echo back from
// the prompt; anything before it is dropped.
const translationLabel = "翻译:"

// themeMarkers are the instruction fragments that identify an already
// composed prompt. Text containing any of them is forwarded unchanged so
// theme injection stays idempotent.
var themeMarkers = []string{
	"以学术和专业的语言风格",
	"解释词语来源并提供相关上下文",
	"将以下文本",
}

// ThemeInstruction returns the prompt fragment for a style theme. The
// default theme contributes nothing.
func ThemeInstruction(theme catalog.ThemeID) string {
	switch theme {
	case catalog.ThemeAcademic:
		return "以学术和专业的语言风格"
	case catalog.ThemeEtymology:
		return "解释词语来源并提供相关上下文"
	default:
		return ""
	}
}

// ContainsThemeInstruction reports whether text was already composed by a
// caller and must not be wrapped again.
func ContainsThemeInstruction(text string) bool {
	for _, marker := range themeMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// BuildTextPrompt composes the prompt sent for a plain text translation.
// Pre-composed text passes through unchanged; otherwise the prompt embeds
// the resolved language display names, the theme fragment and the input.
func BuildTextPrompt(text, from, to string, theme catalog.ThemeID) string {
	if ContainsThemeInstruction(text) {
		return text
	}

	source := "自动检测"
	if from != catalog.AutoDetect {
		source = catalog.LanguageFor(from).Name
	}
	target := catalog.LanguageFor(to).Name

	return fmt.Sprintf("将以下文本从%s%s翻译成%s。只返回翻译后的文本，不要添加额外解释或上下文。\n\n原文: %s\n\n翻译:",
		source, ThemeInstruction(theme), target, text)
}

// extractTranslatedText strips the echoed translation label, if any, and
// trims surrounding whitespace.
func extractTranslatedText(text string) string {
	if idx := strings.Index(text, translationLabel); idx >= 0 {
		text = text[idx+len(translationLabel):]
	}
	return strings.TrimSpace(text)
}

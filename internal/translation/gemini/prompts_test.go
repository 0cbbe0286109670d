package gemini

import (
	"strings"
	"testing"

	"github.com/thisisbailin/spur/internal/catalog"
)

func TestBuildTextPrompt_Academic(t *testing.T) {
	prompt := BuildTextPrompt("hello", "en", "zh_CN", catalog.ThemeAcademic)

	if !strings.Contains(prompt, "以学术和专业的语言风格") {
		t.Error("Expected academic instruction fragment in prompt")
	}
	if !strings.Contains(prompt, "hello") {
		t.Error("Expected literal input text in prompt")
	}
	if !strings.Contains(prompt, "英语") {
		t.Error("Expected resolved source language display name")
	}
	if !strings.Contains(prompt, "简体中文") {
		t.Error("Expected resolved target language display name")
	}
}

func TestBuildTextPrompt_DailyHasNoFragment(t *testing.T) {
	prompt := BuildTextPrompt("hello", "en", "ja", catalog.ThemeDaily)
	if strings.Contains(prompt, "以学术和专业的语言风格") || strings.Contains(prompt, "解释词语来源并提供相关上下文") {
		t.Error("Default theme must not inject a style fragment")
	}
	if !strings.Contains(prompt, "日语") {
		t.Error("Expected Japanese target display name")
	}
}

func TestBuildTextPrompt_AutoDetectSource(t *testing.T) {
	prompt := BuildTextPrompt("bonjour", "auto", "zh_CN", catalog.ThemeDaily)
	if !strings.Contains(prompt, "自动检测") {
		t.Error("Expected auto-detect wording for source language")
	}
}

func TestBuildTextPrompt_Idempotent(t *testing.T) {
	first := BuildTextPrompt("hello", "en", "zh_CN", catalog.ThemeAcademic)
	second := BuildTextPrompt(first, "en", "zh_CN", catalog.ThemeAcademic)
	if first != second {
		t.Error("Already composed prompt must pass through unchanged")
	}
}

func TestBuildTextPrompt_PrecomposedPassthrough(t *testing.T) {
	precomposed := "将以下文本以学术和专业的语言风格翻译成中文：\n\nhello"
	got := BuildTextPrompt(precomposed, "ja", "ko", catalog.ThemeEtymology)
	if got != precomposed {
		t.Errorf("Pre-composed text was rewritten:\n%s", got)
	}
}

func TestContainsThemeInstruction(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"hello", false},
		{"以学术和专业的语言风格 etc", true},
		{"解释词语来源并提供相关上下文", true},
		{"将以下文本翻译成中文", true},
		{"翻译 this, please", false},
	}
	for _, tt := range tests {
		if got := ContainsThemeInstruction(tt.text); got != tt.want {
			t.Errorf("ContainsThemeInstruction(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestThemeInstruction(t *testing.T) {
	if ThemeInstruction(catalog.ThemeDaily) != "" {
		t.Error("Daily theme must map to an empty fragment")
	}
	if ThemeInstruction(catalog.ThemeAcademic) != "以学术和专业的语言风格" {
		t.Error("Wrong academic fragment")
	}
	if ThemeInstruction(catalog.ThemeEtymology) != "解释词语来源并提供相关上下文" {
		t.Error("Wrong etymology fragment")
	}
}

func TestExtractTranslatedText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"你好", "你好"},
		{"  你好\n", "你好"},
		{"翻译: 你好", "你好"},
		{"一些前缀 翻译:\n你好", "你好"},
	}
	for _, tt := range tests {
		if got := extractTranslatedText(tt.in); got != tt.want {
			t.Errorf("extractTranslatedText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

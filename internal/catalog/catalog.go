// Package catalog holds the static reference data the translation layer is
// built on: supported languages, translation engines and style themes.
package catalog

// AutoDetect is the sentinel language code for source-language auto-detection.
// It is never valid as a target language.
const AutoDetect = "auto"

// Language describes one supported language.
type Language struct {
	Code       string
	Name       string
	NativeName string
}

// EngineID identifies a translation engine variant. Registry lookups are
// keyed by these stable identifiers, not by display names.
type EngineID string

const (
	EngineOnDevice EngineID = "ondevice"
	EngineGemini   EngineID = "gemini"
	EngineOpenAI   EngineID = "openai"
)

// Engine describes a translation engine for selection surfaces.
type Engine struct {
	ID   EngineID
	Name string
	Icon string
}

// ThemeID identifies a translation style preset.
type ThemeID string

const (
	ThemeDaily     ThemeID = "daily"
	ThemeAcademic  ThemeID = "academic"
	ThemeEtymology ThemeID = "etymology"
)

// Theme describes a style preset consumed by the Gemini engine's prompt
// construction. The on-device engine ignores themes.
type Theme struct {
	ID          ThemeID
	Name        string
	Description string
}

// Languages is the list of commonly used languages, auto-detection first.
var Languages = []Language{
	{Code: AutoDetect, Name: "自动检测", NativeName: "自动检测"},
	{Code: "zh_CN", Name: "简体中文", NativeName: "简体中文"},
	{Code: "zh_TW", Name: "繁体中文", NativeName: "繁體中文"},
	{Code: "en", Name: "英语", NativeName: "English"},
	{Code: "ja", Name: "日语", NativeName: "日本語"},
	{Code: "ko", Name: "韩语", NativeName: "한국어"},
	{Code: "fr", Name: "法语", NativeName: "Français"},
	{Code: "de", Name: "德语", NativeName: "Deutsch"},
	{Code: "es", Name: "西班牙语", NativeName: "Español"},
	{Code: "it", Name: "意大利语", NativeName: "Italiano"},
	{Code: "ru", Name: "俄语", NativeName: "Русский"},
}

// Engines lists all known translation engines.
var Engines = []Engine{
	{ID: EngineOnDevice, Name: "On-Device Translation", Icon: "cpu"},
	{ID: EngineGemini, Name: "Gemini API", Icon: "sparkle"},
	{ID: EngineOpenAI, Name: "OpenAI API", Icon: "bolt"},
}

// Themes lists all translation style presets, the default first.
var Themes = []Theme{
	{ID: ThemeDaily, Name: "日常", Description: "适用于日常对话和一般文本翻译"},
	{ID: ThemeAcademic, Name: "学术", Description: "适用于学术论文和专业文献翻译"},
	{ID: ThemeEtymology, Name: "词源", Description: "包含词语的来源解释和相关上下文"},
}

// LanguageFor returns the catalog entry for code. Unknown codes get a
// synthetic entry whose display name is the code itself, so callers never
// have to handle a missing language.
func LanguageFor(code string) Language {
	for _, l := range Languages {
		if l.Code == code {
			return l
		}
	}
	return Language{Code: code, Name: code, NativeName: code}
}

// EngineFor returns the engine with the given id, falling back to the first
// catalog entry for unknown ids.
func EngineFor(id EngineID) Engine {
	for _, e := range Engines {
		if e.ID == id {
			return e
		}
	}
	return Engines[0]
}

// ThemeFor returns the theme with the given id, falling back to the default
// theme for unknown ids.
func ThemeFor(id ThemeID) Theme {
	for _, t := range Themes {
		if t.ID == id {
			return t
		}
	}
	return Themes[0]
}

package cli

import "testing"

func TestNewFlags_Defaults(t *testing.T) {
	flags := NewFlags()

	if flags.Engine != "gemini" {
		t.Errorf("Expected default engine gemini, got %s", flags.Engine)
	}
	if flags.From != "auto" {
		t.Errorf("Expected default source auto, got %s", flags.From)
	}
	if flags.To != "zh_CN" {
		t.Errorf("Expected default target zh_CN, got %s", flags.To)
	}
	if flags.Theme != "daily" {
		t.Errorf("Expected default theme daily, got %s", flags.Theme)
	}
	if flags.HistoryLimit != 20 {
		t.Errorf("Expected default history limit 20, got %d", flags.HistoryLimit)
	}
}

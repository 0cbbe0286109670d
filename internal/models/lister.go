package models

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/genai"
)

// Lister handles listing available Gemini models
type Lister struct {
	apiKey string
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return &Lister{apiKey: apiKey}
}

// ListAvailableModels prints all available Gemini models categorized by family
func (l *Lister) ListAvailableModels(ctx context.Context) error {
	if l.apiKey == "" {
		return fmt.Errorf("Gemini API key not found. Set GEMINI_API_KEY environment variable or configure in .spur.yaml")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  l.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}

	flashModels := []string{}
	proModels := []string{}
	otherModels := []string{}

	for model, err := range client.Models.All(ctx) {
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}
		name := strings.TrimPrefix(model.Name, "models/")
		switch {
		case strings.Contains(name, "flash"):
			flashModels = append(flashModels, name)
		case strings.Contains(name, "pro"):
			proModels = append(proModels, name)
		default:
			otherModels = append(otherModels, name)
		}
	}

	sort.Strings(flashModels)
	sort.Strings(proModels)
	sort.Strings(otherModels)

	fmt.Println("Available Gemini Models:")
	printCategory("Flash Models (fast, the relay default)", flashModels)
	printCategory("Pro Models", proModels)
	printCategory("Other Models", otherModels)

	return nil
}

func printCategory(title string, models []string) {
	fmt.Printf("\n%s:\n", title)
	if len(models) == 0 {
		fmt.Println("  No models found")
		return
	}
	for _, model := range models {
		fmt.Printf("  %s\n", model)
	}
}

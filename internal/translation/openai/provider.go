// Package openai implements a translation provider backed by the OpenAI
// chat completion API.
package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/thisisbailin/spur/internal/catalog"
	"github.com/thisisbailin/spur/internal/translation"
)

// Provider translates text through an OpenAI chat model.
type Provider struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewProvider creates an OpenAI translation provider.
func NewProvider(apiKey string) *Provider {
	return &Provider{
		apiKey: apiKey,
		model:  openai.GPT4oMini,
		client: openai.NewClient(apiKey),
	}
}

// ID returns the stable engine identifier.
func (p *Provider) ID() catalog.EngineID { return catalog.EngineOpenAI }

// Translate translates text using a chat completion request.
func (p *Provider) Translate(ctx context.Context, text, from, to string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", translation.ErrInvalidInput
	}
	if p.apiKey == "" {
		return "", translation.Failed("OpenAI API key not found")
	}

	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a professional translation assistant. Translate accurately and fluently. Respond with only the translated text, no explanations, comments or formatting.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildUserPrompt(text, from, to),
			},
		},
		MaxTokens:   1024,
		Temperature: 0.3,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", translation.Failedf("OpenAI API error: %v", err)
	}
	if len(resp.Choices) == 0 {
		return "", translation.Failed("no translation returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// CheckAvailability reports whether the provider can serve calls. The API
// covers all catalog languages, so only the credential matters.
func (p *Provider) CheckAvailability(ctx context.Context, source, target string) bool {
	return p.apiKey != ""
}

func buildUserPrompt(text, from, to string) string {
	target := catalog.LanguageFor(to).NativeName
	if from == catalog.AutoDetect {
		return fmt.Sprintf("Translate the following text to %s. Respond with only the translation, nothing else.\n\n%s", target, text)
	}
	source := catalog.LanguageFor(from).NativeName
	return fmt.Sprintf("Translate the following text from %s to %s. Respond with only the translation, nothing else.\n\n%s", source, target, text)
}

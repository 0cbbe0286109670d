// Package gemini implements the translation provider that speaks to the
// Gemini API through the spur relay service.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/thisisbailin/spur/internal/catalog"
	"github.com/thisisbailin/spur/internal/translation"
)

const (
	// DefaultBaseURL is the deployed relay endpoint.
	DefaultBaseURL = "https://lexis.thisisbailin.workers.dev"

	textTimeout = 30 * time.Second
	ocrTimeout  = 60 * time.Second

	// jpegQuality matches the compression the original client applies
	// before base64-encoding OCR payloads.
	jpegQuality = 70
)

// Config holds the provider settings.
type Config struct {
	// BaseURL is the relay service base URL; DefaultBaseURL when empty.
	BaseURL string

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Provider translates text (or a staged image) via the relay service. A
// circuit breaker sits in front of the relay so a flapping backend reads as
// a connection problem instead of hammering the upstream.
type Provider struct {
	defineURL string
	ocrURL    string
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker

	textTimeout time.Duration
	ocrTimeout  time.Duration

	mu           sync.Mutex
	theme        catalog.ThemeID
	pendingImage image.Image
}

// NewProvider creates a Gemini relay provider. A nil config selects the
// deployed relay endpoint.
func NewProvider(cfg *Config) *Provider {
	if cfg == nil {
		cfg = &Config{}
	}
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	return &Provider{
		defineURL:   base + "/define",
		ocrURL:      base + "/ocr",
		client:      client,
		theme:       catalog.ThemeDaily,
		textTimeout: textTimeout,
		ocrTimeout:  ocrTimeout,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "gemini-relay",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// ID returns the stable engine identifier.
func (p *Provider) ID() catalog.EngineID { return catalog.EngineGemini }

// SetTheme selects the style theme applied to subsequent text prompts.
func (p *Provider) SetTheme(theme catalog.ThemeID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.theme = theme
}

// SetImage stages an image for OCR translation. A staged image takes
// precedence over the text argument on the next Translate call.
func (p *Provider) SetImage(img image.Image) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pendingImage = img
}

// HasPendingImage reports whether an image is staged for OCR.
func (p *Provider) HasPendingImage() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pendingImage != nil
}

// ClearImage drops any staged image.
func (p *Provider) ClearImage() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pendingImage = nil
}

// Translate translates text, or the staged image if one is pending. The
// staged image is consumed by the call whatever the outcome.
func (p *Provider) Translate(ctx context.Context, text, from, to string) (string, error) {
	if strings.TrimSpace(text) == "" && !p.HasPendingImage() {
		return "", translation.ErrInvalidInput
	}

	p.mu.Lock()
	img := p.pendingImage
	p.pendingImage = nil
	theme := p.theme
	p.mu.Unlock()

	if img != nil {
		return p.translateImage(ctx, img)
	}
	return p.translateText(ctx, text, from, to, theme)
}

// CheckAvailability reports language-pair support. The Gemini API covers
// all catalog languages, so the check never consumes a network call.
func (p *Provider) CheckAvailability(ctx context.Context, source, target string) bool {
	return true
}

// Request/response wire shapes shared with the relay service.

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type contentPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Parts []contentPart `json:"parts"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"topP"`
	TopK        int     `json:"topK"`
}

type relayRequest struct {
	SystemInstruction string            `json:"systemInstruction,omitempty"`
	UserContent       []content         `json:"userContent"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type relayError struct {
	Error string `json:"error"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func defaultGenerationConfig() *generationConfig {
	return &generationConfig{Temperature: 0.2, TopP: 0.8, TopK: 40}
}

func (p *Provider) translateText(ctx context.Context, text, from, to string, theme catalog.ThemeID) (string, error) {
	req := &relayRequest{
		SystemInstruction: textSystemInstruction,
		UserContent: []content{
			{Parts: []contentPart{{Text: BuildTextPrompt(text, from, to, theme)}}},
		},
		GenerationConfig: defaultGenerationConfig(),
	}

	raw, err := p.post(ctx, p.defineURL, req, p.textTimeout)
	if err != nil {
		return "", err
	}
	extracted, err := parseCandidateText(raw)
	if err != nil {
		return "", err
	}
	return extractTranslatedText(extracted), nil
}

func (p *Provider) translateImage(ctx context.Context, img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", translation.ErrInvalidInput
	}

	req := &relayRequest{
		SystemInstruction: ocrSystemInstruction,
		UserContent: []content{
			{Parts: []contentPart{
				{InlineData: &inlineData{
					MimeType: "image/jpeg",
					Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
				}},
				{Text: ocrUserInstruction},
			}},
		},
		GenerationConfig: defaultGenerationConfig(),
	}

	raw, err := p.post(ctx, p.ocrURL, req, p.ocrTimeout)
	if err != nil {
		return "", err
	}
	extracted, err := parseCandidateText(raw)
	if err != nil {
		return "", translation.Failed("failed to parse OCR response")
	}
	return strings.TrimSpace(extracted), nil
}

// post sends one relay request with the given timeout and returns the
// response body of a successful call. Errors come back already mapped onto
// the translation taxonomy.
func (p *Provider) post(ctx context.Context, url string, body *relayRequest, timeout time.Duration) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, translation.ErrUnknown
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := p.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, translation.ErrUnknown
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := p.client.Do(req)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return nil, translation.Failed("request timed out")
			}
			return nil, translation.ErrNetwork
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, translation.ErrNetwork
		}

		if resp.StatusCode != http.StatusOK {
			var relErr relayError
			if json.Unmarshal(data, &relErr) == nil && relErr.Error != "" {
				return nil, translation.Failed(relErr.Error)
			}
			return nil, translation.Failedf("HTTP error: %d", resp.StatusCode)
		}
		return data, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: relay circuit open", translation.ErrNetwork)
		}
		return nil, err
	}
	return raw.([]byte), nil
}

// parseCandidateText pulls the generated text out of a Gemini response.
func parseCandidateText(data []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", translation.Failed("failed to parse response")
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", translation.Failed("failed to parse response")
	}
	text := resp.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", translation.Failed("failed to parse response")
	}
	return text, nil
}

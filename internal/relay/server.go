// Package relay implements the independently deployable service that
// validates translate/OCR requests, reshapes them into the Gemini
// generateContent envelope and forwards them with a server-held credential.
package relay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// incoming payload shapes. userContent entries are kept raw so they are
// forwarded to the upstream verbatim; only the first entry is inspected
// during validation.
type incomingPayload struct {
	UserContent       []json.RawMessage `json:"userContent"`
	SystemInstruction string            `json:"systemInstruction"`
}

type contentEntry struct {
	Parts []contentPart `json:"parts"`
}

type contentPart struct {
	Text       string      `json:"text"`
	InlineData *inlineData `json:"inlineData"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// upstream envelope.
type upstreamPayload struct {
	Contents          []json.RawMessage  `json:"contents"`
	SystemInstruction *systemInstruction `json:"systemInstruction,omitempty"`
}

type systemInstruction struct {
	Parts []instructionPart `json:"parts"`
}

type instructionPart struct {
	Text string `json:"text"`
}

// Server is the relay HTTP service.
type Server struct {
	cfg    *Config
	log    *slog.Logger
	client *http.Client
}

// NewServer creates a relay server. A nil client gets a default with a
// timeout generous enough for OCR calls.
func NewServer(cfg *Config, log *slog.Logger, client *http.Client) *Server {
	if client == nil {
		client = &http.Client{Timeout: 90 * time.Second}
	}
	return &Server{cfg: cfg, log: log, client: client}
}

// Handler returns the service's HTTP handler.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.serve)
}

// ListenAndServe runs the service on the configured address.
func (s *Server) ListenAndServe() error {
	s.log.Info("relay listening", "addr", s.cfg.Addr(), "model", s.cfg.Model)
	return http.ListenAndServe(s.cfg.Addr(), s.Handler())
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := s.route(w, r)
	s.log.Info("request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"duration", time.Since(start).String())
}

// route dispatches one request and returns the response status for logging.
// Any panic below this point becomes a 503 JSON envelope; the service never
// answers with a bare error page.
func (s *Server) route(w http.ResponseWriter, r *http.Request) (status int) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error("unhandled relay error", "error", fmt.Sprint(rec))
			status = s.errorResponse(w, fmt.Sprintf("Worker relay error: %v", rec), http.StatusServiceUnavailable)
		}
	}()

	// The credential check comes before any parsing.
	if s.cfg.GeminiAPIKey == "" {
		return s.errorResponse(w, "API Key not configured", http.StatusInternalServerError)
	}

	if r.Method != http.MethodPost {
		return s.errorResponse(w, "Method Not Allowed, expecting POST", http.StatusMethodNotAllowed)
	}

	switch r.URL.Path {
	case "/define":
		return s.handleDefine(w, r)
	case "/ocr":
		return s.handleOCR(w, r)
	default:
		return s.errorResponse(w, "Not Found - Endpoint active, but path unknown.", http.StatusNotFound)
	}
}

// handleDefine validates a text translation request and forwards it.
func (s *Server) handleDefine(w http.ResponseWriter, r *http.Request) int {
	payload, first, errStatus := s.parsePayload(w, r)
	if errStatus != 0 {
		return errStatus
	}

	if len(first.Parts) == 0 || first.Parts[0].Text == "" {
		return s.errorResponse(w, "Missing or invalid word text in request body", http.StatusBadRequest)
	}
	if payload.SystemInstruction == "" {
		return s.errorResponse(w, "Missing systemInstruction in request body", http.StatusBadRequest)
	}

	return s.forward(w, payload)
}

// handleOCR validates an image OCR request and forwards it.
func (s *Server) handleOCR(w http.ResponseWriter, r *http.Request) int {
	payload, first, errStatus := s.parsePayload(w, r)
	if errStatus != 0 {
		return errStatus
	}

	hasImage := false
	for _, part := range first.Parts {
		if part.InlineData != nil && part.InlineData.Data != "" {
			hasImage = true
			break
		}
	}
	if !hasImage {
		return s.errorResponse(w, "Missing image data (inlineData) in request", http.StatusBadRequest)
	}

	return s.forward(w, payload)
}

// parsePayload decodes the request body and validates the userContent
// shape common to both routes. A non-zero returned status means an error
// response has already been written.
func (s *Server) parsePayload(w http.ResponseWriter, r *http.Request) (*incomingPayload, *contentEntry, int) {
	var payload incomingPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, nil, s.errorResponse(w, "Invalid JSON body", http.StatusBadRequest)
	}
	if len(payload.UserContent) == 0 {
		return nil, nil, s.errorResponse(w, "Missing or invalid userContent in request body", http.StatusBadRequest)
	}

	var first contentEntry
	if err := json.Unmarshal(payload.UserContent[0], &first); err != nil {
		return nil, nil, s.errorResponse(w, "Missing or invalid userContent in request body", http.StatusBadRequest)
	}
	return &payload, &first, 0
}

// forward reshapes the payload into the upstream envelope, performs the
// upstream call and relays status and body verbatim.
func (s *Server) forward(w http.ResponseWriter, payload *incomingPayload) int {
	upstream := upstreamPayload{Contents: payload.UserContent}
	if payload.SystemInstruction != "" {
		upstream.SystemInstruction = &systemInstruction{
			Parts: []instructionPart{{Text: payload.SystemInstruction}},
		}
	}

	body, err := json.Marshal(upstream)
	if err != nil {
		return s.errorResponse(w, fmt.Sprintf("Worker relay error: %v", err), http.StatusServiceUnavailable)
	}

	req, err := http.NewRequest(http.MethodPost, s.cfg.UpstreamURL(), bytes.NewReader(body))
	if err != nil {
		return s.errorResponse(w, fmt.Sprintf("Worker relay error: %v", err), http.StatusServiceUnavailable)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return s.errorResponse(w, fmt.Sprintf("Worker relay error: %v", err), http.StatusServiceUnavailable)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		s.log.Error("failed to relay upstream body", "error", err)
	}
	return resp.StatusCode
}

// errorResponse writes the JSON error envelope and returns the status.
func (s *Server) errorResponse(w http.ResponseWriter, message string, status int) int {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
	return status
}

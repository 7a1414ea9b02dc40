package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Header names carrying the caller-supplied credentials on every request.
const (
	HeaderAPIKey   = "X-API-KEY"
	HeaderAPIModel = "X-API-MODEL"
)

// Generator is the boundary to the generation service. Implementations are
// stateless: every call carries the full prompt, history, and credentials.
type Generator interface {
	Generate(ctx context.Context, prompt string, history []Message, imageData string) (string, error)
	Improve(ctx context.Context, prompt string, history []Message) (string, error)
}

// Credentials carries the caller-supplied key and model identifier passed
// through to the generation service on every request.
type Credentials struct {
	APIKey string
	Model  string
}

// GenerationClient talks JSON-over-HTTP to a generation service exposing the
// /api/generate and /api/improve-prompt routes.
type GenerationClient struct {
	BaseURL     string
	Credentials Credentials
	HTTP        *http.Client
}

// NewGenerationClient creates a client for the service at baseURL.
func NewGenerationClient(baseURL string, creds Credentials) *GenerationClient {
	return &GenerationClient{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Credentials: creds,
		HTTP:        &http.Client{Timeout: 120 * time.Second},
	}
}

type historyEntry struct {
	IsUser  bool   `json:"isUser"`
	Content string `json:"content"`
}

type generateRequest struct {
	Prompt      string         `json:"prompt"`
	ChatHistory []historyEntry `json:"chatHistory,omitempty"`
	ImageData   string         `json:"imageData,omitempty"`
}

type improveRequest struct {
	Prompt      string `json:"prompt"`
	ChatHistory string `json:"chatHistory,omitempty"`
}

type serviceResponse struct {
	Text           string `json:"text,omitempty"`
	ImprovedPrompt string `json:"improvedPrompt,omitempty"`
	Error          string `json:"error,omitempty"`
}

// Generate sends the prompt plus structured history (and optional image) and
// returns the assistant text.
func (c *GenerationClient) Generate(ctx context.Context, prompt string, history []Message, imageData string) (string, error) {
	if err := c.checkCredentials(); err != nil {
		return "", err
	}

	entries := make([]historyEntry, 0, len(history))
	for _, m := range history {
		entries = append(entries, historyEntry{IsUser: m.IsUser, Content: m.Content})
	}

	body := generateRequest{
		Prompt:      prompt,
		ChatHistory: entries,
		ImageData:   StripDataURIPrefix(imageData),
	}

	resp, err := c.post(ctx, "generate", "/api/generate", body)
	if err != nil {
		return "", err
	}
	if resp.Text == "" {
		return "", &RequestError{Op: "generate", Message: "response contained no text"}
	}
	return resp.Text, nil
}

// Improve sends the draft prompt plus a flattened transcript and returns the
// refined prompt string.
func (c *GenerationClient) Improve(ctx context.Context, prompt string, history []Message) (string, error) {
	if err := c.checkCredentials(); err != nil {
		return "", err
	}

	body := improveRequest{
		Prompt:      prompt,
		ChatHistory: FlattenHistory(history),
	}

	resp, err := c.post(ctx, "improve", "/api/improve-prompt", body)
	if err != nil {
		return "", err
	}
	if resp.ImprovedPrompt == "" {
		return "", &RequestError{Op: "improve", Message: "response contained no improved prompt"}
	}
	return resp.ImprovedPrompt, nil
}

func (c *GenerationClient) checkCredentials() error {
	if c.Credentials.APIKey == "" {
		return &CredentialError{Missing: "api key"}
	}
	if c.Credentials.Model == "" {
		return &CredentialError{Missing: "model"}
	}
	return nil
}

func (c *GenerationClient) post(ctx context.Context, op, path string, body interface{}) (*serviceResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &RequestError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, &RequestError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderAPIKey, c.Credentials.APIKey)
	req.Header.Set(HeaderAPIModel, c.Credentials.Model)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	var decoded serviceResponse
	if err := json.Unmarshal(raw, &decoded); err != nil && resp.StatusCode < 300 {
		return nil, &RequestError{Op: op, StatusCode: resp.StatusCode, Message: "malformed response body", Err: err}
	}

	if resp.StatusCode >= 300 {
		message := decoded.Error
		if message == "" {
			message = strings.TrimSpace(string(raw))
		}
		return nil, &RequestError{Op: op, StatusCode: resp.StatusCode, Message: message}
	}

	return &decoded, nil
}

// StripDataURIPrefix removes the "data:image/...;base64," prefix so only the
// raw base64 payload crosses the wire. Input without a prefix passes through.
func StripDataURIPrefix(imageData string) string {
	if imageData == "" {
		return ""
	}
	if idx := strings.Index(imageData, ";base64,"); idx >= 0 && strings.HasPrefix(imageData, "data:") {
		return imageData[idx+len(";base64,"):]
	}
	return imageData
}

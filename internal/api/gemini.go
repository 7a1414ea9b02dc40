package api

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

// Upstream produces completion text for a fully assembled prompt. The live
// implementation talks to the Google Generative Language REST API; tests
// substitute their own.
type Upstream interface {
	Complete(ctx context.Context, apiKey, model, prompt, imageData string) (string, error)
}

const defaultGeminiBase = "https://generativelanguage.googleapis.com/v1beta"

// GeminiUpstream calls the generateContent REST endpoint.
type GeminiUpstream struct {
	BaseURL string
	HTTP    *http.Client
}

// NewGeminiUpstream creates an upstream with the production base URL.
func NewGeminiUpstream() *GeminiUpstream {
	return &GeminiUpstream{
		BaseURL: defaultGeminiBase,
		HTTP:    &http.Client{Timeout: 120 * time.Second},
	}
}

// detectImageMime infers the payload type from the base64 header. The data-URI
// prefix is stripped before the payload reaches the service, so the magic
// bytes are all that is left: JPEG (0xFFD8FF) encodes to "/9j/", and the only
// other format callers may stage is PNG.
func detectImageMime(data string) string {
	if strings.HasPrefix(data, "/9j/") {
		return "image/jpeg"
	}
	return "image/png"
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends the prompt (and optional base64 image payload) and returns
// the first candidate's text.
func (u *GeminiUpstream) Complete(ctx context.Context, apiKey, model, prompt, imageData string) (string, error) {
	parts := []geminiPart{{Text: prompt}}
	if imageData != "" {
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			MimeType: detectImageMime(imageData),
			Data:     imageData,
		}})
	}

	payload, err := json.Marshal(geminiRequest{Contents: []geminiContent{{Parts: parts}}})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", u.BaseURL, model, apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upstream response: %w", err)
	}

	var decoded geminiResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("malformed upstream response: %w", err)
	}

	if resp.StatusCode >= 300 {
		if decoded.Error != nil && decoded.Error.Message != "" {
			return "", fmt.Errorf("upstream status %d: %s", resp.StatusCode, decoded.Error.Message)
		}
		return "", fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("upstream returned no candidates")
	}
	return decoded.Candidates[0].Content.Parts[0].Text, nil
}

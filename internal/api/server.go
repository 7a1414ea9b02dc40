// Package api implements the generation service the chat client talks to:
// the /api/generate and /api/improve-prompt routes, validating caller
// credentials from headers and forwarding assembled prompts upstream.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pageforge/pageforge/internal"
)

// Server hosts the generation routes over one Upstream.
type Server struct {
	upstream Upstream
}

// NewServer creates a Server forwarding to the given upstream.
func NewServer(upstream Upstream) *Server {
	return &Server{upstream: upstream}
}

// Handler returns the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate", s.handleGenerate)
	mux.HandleFunc("/api/improve-prompt", s.handleImprove)
	return mux
}

type generateBody struct {
	Prompt      string `json:"prompt"`
	ChatHistory []struct {
		IsUser  bool   `json:"isUser"`
		Content string `json:"content"`
	} `json:"chatHistory"`
	ImageData string `json:"imageData,omitempty"`
}

type improveBody struct {
	Prompt      string `json:"prompt"`
	ChatHistory string `json:"chatHistory"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	apiKey, model, ok := s.requireCredentials(w, r)
	if !ok {
		return
	}

	var body generateBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "Prompt is required")
		return
	}

	var history strings.Builder
	for _, m := range body.ChatHistory {
		actor := "AI"
		if m.IsUser {
			actor = "User"
		}
		fmt.Fprintf(&history, "%s: %s\n", actor, m.Content)
	}

	fullPrompt := fmt.Sprintf("%s\n\nChat History:\n%s\nUser request: %s",
		internal.SystemPrompt, history.String(), body.Prompt)

	text, err := s.upstream.Complete(r.Context(), apiKey, model, fullPrompt, body.ImageData)
	if err != nil {
		internal.LogError("Error in generate route: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate response")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (s *Server) handleImprove(w http.ResponseWriter, r *http.Request) {
	apiKey, model, ok := s.requireCredentials(w, r)
	if !ok {
		return
	}

	var body improveBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "Prompt is required")
		return
	}

	fullPrompt := fmt.Sprintf("%s\n\nChat History:\n%s\n\nCurrent Prompt:\n%s\n\nImproved Prompt:",
		internal.ImprovePrompt, body.ChatHistory, body.Prompt)

	improved, err := s.upstream.Complete(r.Context(), apiKey, model, fullPrompt, "")
	if err != nil {
		internal.LogError("Error in improve-prompt route: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to improve prompt")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"improvedPrompt": improved})
}

// requireCredentials enforces the header contract: 401 on a missing key,
// 400 on a missing model.
func (s *Server) requireCredentials(w http.ResponseWriter, r *http.Request) (apiKey, model string, ok bool) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return "", "", false
	}
	apiKey = r.Header.Get(internal.HeaderAPIKey)
	if apiKey == "" {
		writeError(w, http.StatusUnauthorized, "API key is required")
		return "", "", false
	}
	model = r.Header.Get(internal.HeaderAPIModel)
	if model == "" {
		writeError(w, http.StatusBadRequest, "API model is required")
		return "", "", false
	}
	return apiKey, model, true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

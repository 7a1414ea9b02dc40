package internal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerationClient_Generate(t *testing.T) {
	var gotPath, gotKey, gotModel string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get(HeaderAPIKey)
		gotModel = r.Header.Get(HeaderAPIModel)
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "<html></html>"})
	}))
	defer server.Close()

	client := NewGenerationClient(server.URL, Credentials{APIKey: "k", Model: "m"})
	history := []Message{
		{ID: "1", Content: "hi", IsUser: true},
		{ID: "2", Content: "hello", IsUser: false},
	}

	text, err := client.Generate(context.Background(), "build it", history, "data:image/png;base64,AAAA")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != "<html></html>" {
		t.Errorf("Generate() = %q, want %q", text, "<html></html>")
	}

	if gotPath != "/api/generate" {
		t.Errorf("path = %q, want /api/generate", gotPath)
	}
	if gotKey != "k" || gotModel != "m" {
		t.Errorf("credentials = %q/%q, want k/m", gotKey, gotModel)
	}
	if gotBody["prompt"] != "build it" {
		t.Errorf("body prompt = %v", gotBody["prompt"])
	}
	if gotBody["imageData"] != "AAAA" {
		t.Errorf("body imageData = %v, want data-URI prefix stripped", gotBody["imageData"])
	}
	entries, ok := gotBody["chatHistory"].([]interface{})
	if !ok || len(entries) != 2 {
		t.Fatalf("body chatHistory = %v, want 2 entries", gotBody["chatHistory"])
	}
	first := entries[0].(map[string]interface{})
	if first["isUser"] != true || first["content"] != "hi" {
		t.Errorf("chatHistory[0] = %v", first)
	}
}

func TestGenerationClient_Improve(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]string{"improvedPrompt": "better prompt"})
	}))
	defer server.Close()

	client := NewGenerationClient(server.URL, Credentials{APIKey: "k", Model: "m"})
	history := []Message{
		{Content: "make a page", IsUser: true},
		{Content: "here you go", IsUser: false},
	}

	improved, err := client.Improve(context.Background(), "make it nicer", history)
	if err != nil {
		t.Fatalf("Improve() error = %v", err)
	}
	if improved != "better prompt" {
		t.Errorf("Improve() = %q, want %q", improved, "better prompt")
	}
	if gotPath != "/api/improve-prompt" {
		t.Errorf("path = %q, want /api/improve-prompt", gotPath)
	}

	// Improve flattens history to the User:/AI: transcript.
	want := "User: make a page\nAI: here you go"
	if gotBody["chatHistory"] != want {
		t.Errorf("body chatHistory = %q, want %q", gotBody["chatHistory"], want)
	}
}

func TestGenerationClient_MissingCredentials(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	tests := []struct {
		name  string
		creds Credentials
	}{
		{name: "missing key", creds: Credentials{Model: "m"}},
		{name: "missing model", creds: Credentials{APIKey: "k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewGenerationClient(server.URL, tt.creds)

			_, err := client.Generate(context.Background(), "p", nil, "")
			var credErr *CredentialError
			if !errors.As(err, &credErr) {
				t.Errorf("Generate() error = %v, want CredentialError", err)
			}
			if called {
				t.Error("request was sent despite missing credential")
			}
		})
	}
}

func TestGenerationClient_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "service error payload",
			status:     http.StatusInternalServerError,
			body:       `{"error":"Failed to generate response"}`,
			wantStatus: 500,
			wantMsg:    "Failed to generate response",
		},
		{
			name:       "unauthorized",
			status:     http.StatusUnauthorized,
			body:       `{"error":"API key is required"}`,
			wantStatus: 401,
			wantMsg:    "API key is required",
		},
		{
			name:       "empty success body",
			status:     http.StatusOK,
			body:       `{}`,
			wantStatus: 0,
			wantMsg:    "response contained no text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewGenerationClient(server.URL, Credentials{APIKey: "k", Model: "m"})
			_, err := client.Generate(context.Background(), "p", nil, "")

			var reqErr *RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("Generate() error = %v, want RequestError", err)
			}
			if reqErr.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", reqErr.StatusCode, tt.wantStatus)
			}
			if reqErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", reqErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestGenerationClient_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewGenerationClient(server.URL, Credentials{APIKey: "k", Model: "m"})
	_, err := client.Generate(context.Background(), "p", nil, "")

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("Generate() error = %v, want RequestError", err)
	}
	if reqErr.StatusCode != 0 {
		t.Errorf("status = %d, want 0 for transport failure", reqErr.StatusCode)
	}
}

func TestStripDataURIPrefix(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "png data uri", input: "data:image/png;base64,AAAA", want: "AAAA"},
		{name: "jpeg data uri", input: "data:image/jpeg;base64,BBBB", want: "BBBB"},
		{name: "bare payload passes through", input: "CCCC", want: "CCCC"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripDataURIPrefix(tt.input); got != tt.want {
				t.Errorf("StripDataURIPrefix(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

package internal

import (
	"context"
	"errors"
	"sync"
	"time"
)

// CreateTestChat creates a test chat record with sample data
func CreateTestChat(id string) *ChatRecord {
	return &ChatRecord{
		ID:        id,
		Title:     "build a landing page...",
		CreatedAt: time.Now().UnixMilli(),
		Messages: []Message{
			{
				ID:      "msg-" + id + "-1",
				Content: "build a landing page",
				IsUser:  true,
			},
			{
				ID:      "msg-" + id + "-2",
				Content: "```html\n<!DOCTYPE html>\n<html><head></head><body>ok</body></html>\n```",
				IsUser:  false,
			},
		},
	}
}

// ScriptedGenerator is a Generator returning canned responses, for driving
// SessionController tests without a network.
type ScriptedGenerator struct {
	mu sync.Mutex

	// Next responses. When Fail is set, calls return Err instead.
	Text     string
	Improved string
	Fail     bool
	Err      error

	// Recorded calls.
	GenerateCalls []ScriptedCall
	ImproveCalls  []ScriptedCall

	// Block, when non-nil, holds Generate until the test closes it; used to
	// exercise the busy gate and the save-before-network guarantee.
	Block chan struct{}
}

// ScriptedCall records one Generate or Improve invocation.
type ScriptedCall struct {
	Prompt    string
	History   []Message
	ImageData string
}

// Generate returns the scripted text or error.
func (g *ScriptedGenerator) Generate(ctx context.Context, prompt string, history []Message, imageData string) (string, error) {
	g.mu.Lock()
	g.GenerateCalls = append(g.GenerateCalls, ScriptedCall{Prompt: prompt, History: history, ImageData: imageData})
	block := g.Block
	fail, err, text := g.Fail, g.Err, g.Text
	g.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if fail {
		if err == nil {
			err = errors.New("scripted failure")
		}
		return "", err
	}
	return text, nil
}

// Improve returns the scripted improved prompt or error.
func (g *ScriptedGenerator) Improve(ctx context.Context, prompt string, history []Message) (string, error) {
	g.mu.Lock()
	g.ImproveCalls = append(g.ImproveCalls, ScriptedCall{Prompt: prompt, History: history})
	fail, err, improved := g.Fail, g.Err, g.Improved
	g.mu.Unlock()

	if fail {
		if err == nil {
			err = errors.New("scripted failure")
		}
		return "", err
	}
	return improved, nil
}

// CreateTestChatWithMessages creates a test chat record with custom messages
func CreateTestChatWithMessages(id string, messages []Message) *ChatRecord {
	title := ""
	if len(messages) > 0 {
		title = DeriveTitle(messages[0].Content)
	}
	return &ChatRecord{
		ID:        id,
		Title:     title,
		CreatedAt: time.Now().UnixMilli(),
		Messages:  messages,
	}
}

package internal

import (
	"context"
	"strings"
	"sync"
	"time"
)

// GenericErrorMessage is the fixed text appended as a synthetic assistant
// message when a generation request fails. The underlying cause is logged,
// never shown verbatim.
const GenericErrorMessage = "An unknown error occurred. Please check your API key and try again."

// SessionController drives one open conversation through the
// generate/improve/continue lifecycle. It owns the in-memory copy of exactly
// one chat record and is the sole writer of that record's messages while it
// lives.
//
// At most one operation may be in flight at a time; a second call while one
// is outstanding is rejected with ErrBusy rather than queued. Guard failures
// never mutate state.
type SessionController struct {
	store  Store
	client Generator

	mu           sync.Mutex
	chatID       string
	title        string
	createdAt    int64
	messages     []Message
	draft        string
	pendingImage string
	inFlight     bool
	closed       bool
	cancelWatch  func()
}

// NewSessionController creates a controller for a brand-new conversation.
// The chat id is assigned eagerly so the record exists even if the first
// generation fails.
func NewSessionController(store Store, client Generator) *SessionController {
	return &SessionController{
		store:  store,
		client: client,
		chatID: NewID(),
	}
}

// ResumeSessionController creates a controller bound to an existing record.
func ResumeSessionController(store Store, client Generator, record ChatRecord) *SessionController {
	c := &SessionController{
		store:     store,
		client:    client,
		chatID:    record.ID,
		title:     record.Title,
		createdAt: record.CreatedAt,
	}
	c.messages = make([]Message, len(record.Messages))
	copy(c.messages, record.Messages)
	c.cancelWatch = store.Subscribe(c.watchDeletion)
	return c
}

// watchDeletion closes the controller once its record disappears from the
// store, so deleting a chat leaves any controller bound to it inert. It runs
// on the deleting writer's goroutine; it must not take c.mu before confirming
// the record is gone, because the controller's own persists trigger it while
// c.mu is held.
func (c *SessionController) watchDeletion() {
	records, err := c.store.GetAll()
	if err != nil {
		return
	}
	for _, r := range records {
		if r.ID == c.chatID {
			return
		}
	}
	c.Close()
}

// ChatID returns the id of the conversation this controller owns.
func (c *SessionController) ChatID() string {
	return c.chatID
}

// Messages returns a snapshot of the conversation so far.
func (c *SessionController) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Draft returns the controller's pending draft prompt, maintained by Improve.
func (c *SessionController) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SetDraft replaces the pending draft prompt.
func (c *SessionController) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
}

// AttachImage stages an image payload (data-URI text) for the next Generate
// call. The image is transient controller state, not durable storage.
func (c *SessionController) AttachImage(imageData string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingImage = imageData
}

// InFlight reports whether a request is currently outstanding.
func (c *SessionController) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Close disposes the controller. Subsequent operations are no-ops returning
// ErrSessionClosed. Called when the conversation view closes, and by
// watchDeletion when the bound record is deleted.
func (c *SessionController) Close() {
	c.mu.Lock()
	c.closed = true
	cancel := c.cancelWatch
	c.cancelWatch = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Generate appends the user's prompt, calls the generation service, and
// appends the assistant's reply. The record is persisted after the user
// message is appended — before the network call — so a brand-new chat
// survives a failed generation. On failure a synthetic assistant message
// with a fixed generic text is appended instead.
func (c *SessionController) Generate(ctx context.Context, promptText string) error {
	promptText = strings.TrimSpace(promptText)

	c.mu.Lock()
	if err := c.beginLocked(promptText); err != nil {
		c.mu.Unlock()
		return err
	}

	image := c.pendingImage
	c.pendingImage = ""
	userMsg := NewUserMessage(promptText, image)

	// History excludes the message being sent; the prompt rides separately.
	history := make([]Message, len(c.messages))
	copy(history, c.messages)

	c.messages = append(c.messages, userMsg)
	c.persistLocked()
	c.mu.Unlock()

	text, err := c.client.Generate(ctx, promptText, history, image)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	if err != nil {
		// Upstream failures are absorbed into the transcript, not returned:
		// only guard errors escape the controller.
		LogError("Generation failed for chat %s: %v", c.chatID, err)
		c.messages = append(c.messages, NewAssistantMessage(GenericErrorMessage))
	} else {
		c.messages = append(c.messages, NewAssistantMessage(text))
	}
	c.persistLocked()

	return nil
}

// Improve asks the generation service for a refined version of promptText
// and, on success, replaces the controller's draft prompt with it. It never
// appends a message and never writes to the store; on failure the draft is
// left unchanged.
func (c *SessionController) Improve(ctx context.Context, promptText string) error {
	promptText = strings.TrimSpace(promptText)

	c.mu.Lock()
	if err := c.beginLocked(promptText); err != nil {
		c.mu.Unlock()
		return err
	}
	history := make([]Message, len(c.messages))
	copy(history, c.messages)
	c.mu.Unlock()

	improved, err := c.client.Improve(ctx, promptText, history)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	if err != nil {
		LogError("Prompt improvement failed for chat %s: %v", c.chatID, err)
		return err
	}
	c.draft = improved
	return nil
}

// Continue asks the generation service to extend the most recent assistant
// message from where it stopped. On success the returned text is appended to
// that message in place with a blank-line separator, leaving the message
// count unchanged. On failure a new synthetic error message is appended
// instead. The record is re-persisted either way.
func (c *SessionController) Continue(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrSessionClosed
	}
	if c.inFlight {
		c.mu.Unlock()
		return ErrBusy
	}
	last := (&ChatRecord{Messages: c.messages}).LastAssistant()
	if last < 0 {
		c.mu.Unlock()
		return ErrNoAssistant
	}
	c.inFlight = true
	targetID := c.messages[last].ID
	prompt := ContinuationPrompt(c.messages[last].Content)
	c.mu.Unlock()

	// The continuation prompt carries the tail itself; no history rides along.
	text, err := c.client.Generate(ctx, prompt, nil, "")

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	if err != nil {
		LogError("Continuation failed for chat %s: %v", c.chatID, err)
		c.messages = append(c.messages, NewAssistantMessage(GenericErrorMessage))
	} else {
		for i := range c.messages {
			if c.messages[i].ID == targetID {
				c.messages[i].Content += "\n\n" + strings.TrimSpace(text)
				break
			}
		}
	}
	c.persistLocked()

	return nil
}

// beginLocked runs the shared preconditions for prompt-bearing operations
// and transitions to Generating. Callers hold c.mu.
func (c *SessionController) beginLocked(promptText string) error {
	if c.closed {
		return ErrSessionClosed
	}
	if promptText == "" {
		return ErrEmptyPrompt
	}
	if c.inFlight {
		return ErrBusy
	}
	c.inFlight = true
	return nil
}

// persistLocked upserts the full record. The title and creation time are
// fixed at first save and carried unchanged afterwards. A closed controller
// never writes: an upsert after deletion would resurrect the record.
// Callers hold c.mu.
func (c *SessionController) persistLocked() {
	if c.closed || len(c.messages) == 0 {
		return
	}
	if c.createdAt == 0 {
		c.createdAt = time.Now().UnixMilli()
	}
	if c.title == "" {
		c.title = DeriveTitle(c.messages[0].Content)
	}

	record := ChatRecord{
		ID:        c.chatID,
		Title:     c.title,
		CreatedAt: c.createdAt,
	}
	record.Messages = make([]Message, len(c.messages))
	copy(record.Messages, c.messages)

	if err := c.store.Upsert(record); err != nil {
		LogError("Failed to persist chat %s: %v", c.chatID, err)
		return
	}
	if c.cancelWatch == nil {
		c.cancelWatch = c.store.Subscribe(c.watchDeletion)
	}
}

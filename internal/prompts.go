package internal

import (
	"fmt"
	"strings"
)

// SystemPrompt steers the model toward emitting one complete, self-contained
// HTML document per response.
const SystemPrompt = `You are an elite web development and UI/UX expert specializing in creating stunning, feature-rich websites.

When receiving a request to modify or improve a previous response:
- DO NOT create a new website from scratch
- DO modify and enhance the existing code
- Keep the same basic structure and theme
- Add new features to the existing implementation
- Maintain consistency with previous design choices

Generate a COMPLETE HTML file with all code inline. Requirements:
- All CSS must be in <style> tags in the head
- All JavaScript must be in <script> tags in the head
- Use TailwindCSS for styling and Alpine.js for interactivity
- Implement scroll-triggered animations and responsive content
- All DOM manipulations must be properly handled after the DOM is loaded

IMPORTANT:
- You MUST wrap your response with ` + "```html and ```" + `
- You MUST include COMPLETE working code
- No external images or assets
- All JavaScript code must run in the browser only`

// ImprovePrompt steers the model toward rewriting a draft prompt rather than
// answering it.
const ImprovePrompt = `You are an expert at improving user prompts for web development.
Given the chat history and current prompt, improve it to be more specific, detailed, and clear.
Focus on technical requirements, visual design preferences, interaction patterns, performance, accessibility, and responsive design.
Return only the improved prompt, no explanations or additional text.`

// ContinuationPrompt wraps the tail of a truncated assistant message with a
// directive to resume without repeating earlier output.
func ContinuationPrompt(lastAssistant string) string {
	return "IMPORTANT: Do NOT repeat any previous code. Start EXACTLY where you left off and ONLY provide the new additions/changes to continue from this point: " + lastAssistant
}

// FlattenHistory serializes messages to the alternating User:/AI: transcript
// the generation service expects. The model bears all continuity burden; no
// structured memory survives this flattening.
func FlattenHistory(messages []Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		actor := "AI"
		if m.IsUser {
			actor = "User"
		}
		fmt.Fprintf(&b, "%s: %s", actor, m.Content)
	}
	return b.String()
}

package internal

import "strings"

// ExtractHTMLArtifact returns the contents of the last ```html fenced block
// in the assistant text. The model is instructed to wrap its document in an
// html fence; responses that skip the fence but still look like a document
// are accepted whole. Returns "" when no artifact is present.
func ExtractHTMLArtifact(content string) string {
	blocks := ExtractFencedBlocks(content)
	var artifact string
	for _, b := range blocks {
		if strings.EqualFold(b.Language, "html") {
			artifact = b.Content
		}
	}
	if artifact != "" {
		return artifact
	}

	trimmed := strings.TrimSpace(content)
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "<!doctype html") || strings.HasPrefix(lower, "<html") {
		return trimmed
	}
	return ""
}

// FencedBlock is one ``` fenced code block from a message.
type FencedBlock struct {
	Language string
	Content  string
}

// ExtractFencedBlocks scans message text for triple-backtick code fences.
// An unterminated fence runs to the end of the text, which happens whenever
// the model is cut off mid-document.
func ExtractFencedBlocks(content string) []FencedBlock {
	var blocks []FencedBlock
	lines := strings.Split(content, "\n")

	inBlock := false
	var language string
	var body []string

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if inBlock {
				blocks = append(blocks, FencedBlock{
					Language: language,
					Content:  strings.Join(body, "\n"),
				})
				inBlock = false
				body = nil
				continue
			}
			inBlock = true
			language = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "```"))
			continue
		}
		if inBlock {
			body = append(body, line)
		}
	}

	if inBlock {
		blocks = append(blocks, FencedBlock{
			Language: language,
			Content:  strings.Join(body, "\n"),
		})
	}

	return blocks
}

package refine

import (
	"fmt"
	"strings"
)

// RefinementSystemPrompt constrains the backend to text-only rewriting.
// Refinement may never merge, drop, or reorder chunks: the engine's
// positional metadata stays valid only if outputs map 1:1 onto inputs.
const RefinementSystemPrompt = `You refine text chunks produced by a document chunker. For each input chunk, return a lightly cleaned version:

- Fix broken whitespace, hyphenation artifacts, and truncated words
- Complete nothing: do not add, summarize, or reorder content
- Preserve headings, list markers, and code blocks exactly
- Keep each chunk self-contained; never merge or split chunks

Respond with ONLY a JSON array of strings, one per input chunk, in the same order.`

// BuildBatchPrompt renders a numbered batch of chunk texts for the
// refinement backend.
func BuildBatchPrompt(texts []string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Refine the following %d chunks.\n", len(texts)))
	for i, t := range texts {
		sb.WriteString(fmt.Sprintf("\n--- chunk %d ---\n", i+1))
		sb.WriteString(t)
		sb.WriteString("\n")
	}
	return sb.String()
}

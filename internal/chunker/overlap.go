package chunker

import (
	"strings"

	"chunkd/internal/sentence"
)

// overlapSimilarity is the threshold above which candidate overlap text is
// considered already present at the start of the next chunk.
const overlapSimilarity = 0.8

// leadingSentenceWindow is how many leading sentences of the next chunk
// are compared against the overlap candidate.
const leadingSentenceWindow = 3

// ApplyOverlap prepends trailing context from each chunk into the next
// one. Positions are never touched: overlap exists only to give a
// downstream consumer context across a boundary. Chunks whose positions
// already touch are skipped, as are chunks that already begin with a
// near-duplicate of the candidate text.
func ApplyOverlap(chunks []Chunk, cfg Config, sp *sentence.Splitter) []Chunk {
	if cfg.OverlapRatio <= 0 {
		return chunks
	}
	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], &chunks[i]
		if prev.EndIndex >= cur.StartIndex {
			continue
		}
		candidate := trailingSentences(sp, prev.Text, overlapSentenceCount(cfg.OverlapRatio))
		if candidate == "" {
			continue
		}
		if alreadyPresent(sp, candidate, cur.Text) {
			continue
		}
		cur.Text = candidate + sectionSep + cur.Text
	}
	return chunks
}

// overlapSentenceCount scales the number of carried sentences by the
// overlap ratio: one sentence for small ratios, two for ratios >= 0.5.
func overlapSentenceCount(ratio float64) int {
	if ratio >= 0.5 {
		return 2
	}
	return 1
}

func trailingSentences(sp *sentence.Splitter, text string, n int) string {
	sents := sp.Split(text)
	if len(sents) == 0 {
		return ""
	}
	if n > len(sents) {
		n = len(sents)
	}
	return strings.Join(sents[len(sents)-n:], " ")
}

// alreadyPresent reports whether the candidate overlap (or a near
// duplicate of it) already opens the next chunk. Both the chunk's first
// few sentences and its leading raw-text window are checked.
func alreadyPresent(sp *sentence.Splitter, candidate, next string) bool {
	lead := sp.Split(next)
	if len(lead) > leadingSentenceWindow {
		lead = lead[:leadingSentenceWindow]
	}
	for _, sent := range lead {
		if similarity(candidate, sent) >= overlapSimilarity {
			return true
		}
	}

	window := next
	if len(window) > len(candidate)*2 {
		window = window[:len(candidate)*2]
	}
	return strings.Contains(window, strings.TrimSpace(candidate))
}

// similarity is the word-level overlap ratio between two strings,
// relative to the shorter one.
func similarity(a, b string) float64 {
	aw := strings.Fields(strings.ToLower(a))
	bw := strings.Fields(strings.ToLower(b))
	if len(aw) == 0 || len(bw) == 0 {
		return 0
	}
	counts := make(map[string]int, len(aw))
	for _, w := range aw {
		counts[w]++
	}
	shared := 0
	for _, w := range bw {
		if counts[w] > 0 {
			counts[w]--
			shared++
		}
	}
	short := len(aw)
	if len(bw) < short {
		short = len(bw)
	}
	return float64(shared) / float64(short)
}

package chunker

// Reconcile repairs residual positional overlap between adjacent chunks.
// A chunk that starts before the previous one ended is shifted forward to
// last_end and resized to its text. Gaps are left alone. Reconcile always
// terminates with a monotonic, non-overlapping sequence.
func Reconcile(chunks []Chunk) []Chunk {
	lastEnd := 0
	for i := range chunks {
		if chunks[i].StartIndex < lastEnd {
			chunks[i].StartIndex = lastEnd
			chunks[i].EndIndex = lastEnd + len(chunks[i].Text)
		}
		lastEnd = chunks[i].EndIndex
	}
	return chunks
}

package chunker

// Chunk is a bounded span of output-ready text plus metadata. Positions
// are logical chunk-stream offsets: the first chunk starts at 0 and each
// subsequent chunk starts where the previous one ended. OverlapEngine may
// enrich Text without ever moving positions.
type Chunk struct {
	Text          string   `json:"text"`
	StartIndex    int      `json:"start_index"`
	EndIndex      int      `json:"end_index"`
	SentenceCount int      `json:"sentence_count"`
	WordCount     int      `json:"word_count"`
	HasHeader     bool     `json:"has_header"`
	QualityScore  float64  `json:"quality_score"`
	Issues        []string `json:"issues,omitempty"`
	Valid         bool     `json:"valid"`
}

// Size is the byte length of the chunk text.
func (c Chunk) Size() int {
	return len(c.Text)
}

package chunker

import (
	"strings"

	"chunkd/internal/sentence"
	"chunkd/internal/structure"
)

// Strategy produces chunks from raw text. Engine is the single production
// implementation; alternative strategies plug in here for tests.
type Strategy interface {
	CreateChunks(text string) ([]Chunk, error)
}

// sentenceCacheSize bounds the engine's per-instance sentence-split
// memoization cache.
const sentenceCacheSize = 256

// Engine runs the full chunking pipeline: structure parse, build,
// overlap, reconcile, validate. An Engine is self-contained (its caches
// are instance-scoped) and meant to be used from one goroutine at a time;
// parallel callers use one Engine per document worker.
type Engine struct {
	cfg      Config
	splitter *sentence.Splitter
	parser   *structure.Parser
}

// NewEngine validates cfg eagerly and returns a ready engine.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sp := sentence.NewSplitter(cfg.Language, sentenceCacheSize)
	return &Engine{
		cfg:      cfg,
		splitter: sp,
		parser:   structure.NewParser(sp),
	}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// CreateChunks transforms a document into an ordered, validated chunk
// list. Empty input yields no chunks and no error; malformed structure
// degrades to plain text rather than failing.
func (e *Engine) CreateChunks(text string) ([]Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	sections := e.parser.Parse(text)
	chunks := Build(sections, e.cfg, e.splitter)
	chunks = ApplyOverlap(chunks, e.cfg, e.splitter)
	chunks = Reconcile(chunks)
	for i := range chunks {
		Score(&chunks[i], e.cfg, e.splitter)
	}
	return chunks, nil
}

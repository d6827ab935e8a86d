package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"chunkd/internal/chunker"
	"chunkd/internal/parser"
	"chunkd/internal/refine"
	"chunkd/internal/sink"
)

// Worker processes a single document job: parse, chunk, refine, store.
// The refinement and sink clients are optional; a nil client skips its
// phase.
type Worker struct {
	refiner *refine.Client
	sink    *sink.Client
	log     *slog.Logger

	batchSize         int
	maxConcurrent     int
	fallbackPdftotext bool
}

func NewWorker(refiner *refine.Client, sk *sink.Client, log *slog.Logger, batchSize, maxConcurrent int, fallbackPdftotext bool) *Worker {
	if batchSize <= 0 {
		batchSize = 8
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Worker{
		refiner:           refiner,
		sink:              sk,
		log:               log,
		batchSize:         batchSize,
		maxConcurrent:     maxConcurrent,
		fallbackPdftotext: fallbackPdftotext,
	}
}

// Process runs the full pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Parse into normalized text.
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if pdfParser, ok := p.(*parser.PDFParser); ok {
		pdfParser.FallbackPdftotext = w.fallbackPdftotext
	}

	text, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	job.SetContentHash(ContentHashHex([]byte(text)))

	// Phase 1.5: Dedup against the sink.
	if w.sink != nil {
		existing, err := w.sink.FindByHash(ctx, job.Snapshot().ContentHash)
		if err != nil {
			log.Warn("dedup check failed, proceeding", "error", err)
		} else if existing != nil && existing.DocID != job.DocID {
			log.Info("duplicate document, skipping", "existing_doc_id", existing.DocID)
			job.SetStatus(StatusDupSkipped, "dedup")
			return
		}
	}

	// Phase 2: Chunk.
	job.SetStatus(StatusChunking, "chunking")
	engine, err := chunker.NewEngine(job.ChunkConfig)
	if err != nil {
		log.Error("invalid chunk config", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "chunking")
		return
	}
	chunks, err := engine.CreateChunks(text)
	if err != nil {
		log.Error("chunking failed", "error", err)
		job.AddError(fmt.Sprintf("chunk: %s", err))
		job.SetStatus(StatusFailed, "chunking")
		return
	}
	job.SetTotalChunks(len(chunks))
	log.Info("chunked document", "chunks", len(chunks))

	if len(chunks) == 0 {
		job.AddError("no extractable content")
		job.SetStatus(StatusFailed, "chunking")
		return
	}

	// Phase 3: Refine chunk text (best-effort, never fails the job).
	if w.refiner != nil {
		job.SetStatus(StatusRefining, "refining")
		w.refineChunks(ctx, job, chunks, log)
	}

	// Phase 4: Store in the sink.
	hadErrors := false
	if w.sink != nil {
		job.SetStatus(StatusStoring, "storing")
		snap := job.Snapshot()
		err := w.sink.PutDocument(ctx, job.DocID, sink.DocumentRequest{
			Filename:    job.Filename,
			Title:       job.Title,
			ContentHash: snap.ContentHash,
			Chunks:      chunks,
		})
		if err != nil {
			log.Error("sink store failed", "error", err)
			job.AddError(fmt.Sprintf("store: %s", err))
			hadErrors = true
		} else {
			job.SetStored(len(chunks))
		}
	}

	job.SetChunks(chunks)
	if hadErrors {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}

// refineChunks rewrites chunk text in bounded-concurrency batches. Each
// batch owns a disjoint index range, so writes into chunks never race.
// Positions are never touched: refinement only replaces Text.
func (w *Worker) refineChunks(ctx context.Context, job *Job, chunks []chunker.Chunk, log *slog.Logger) {
	var g errgroup.Group
	g.SetLimit(w.maxConcurrent)

	for start := 0; start < len(chunks); start += w.batchSize {
		end := min(start+w.batchSize, len(chunks))
		batch := chunks[start:end]

		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, c := range batch {
				texts[i] = c.Text
			}

			var refined []string
			var lastErr error
			for attempt := 0; attempt < MaxRetries; attempt++ {
				refined, lastErr = w.refiner.RefineBatch(ctx, texts)
				if lastErr == nil || !IsRetryable(lastErr) {
					break
				}
				log.Warn("retryable refine error", "attempt", attempt, "error", lastErr)
				select {
				case <-time.After(Backoff(attempt)):
				case <-ctx.Done():
					lastErr = ctx.Err()
				}
				if ctx.Err() != nil {
					break
				}
			}

			if lastErr != nil {
				// Fall back to the unrefined text; count, don't fail.
				log.Warn("refine batch abandoned", "chunks", len(batch), "error", lastErr)
				w.refiner.Stats.RecordFailure()
				job.AddRefineFailures(len(batch))
				return nil
			}

			for i := range batch {
				batch[i].Text = refined[i]
			}
			job.AddRefined(len(batch))
			return nil
		})
	}

	_ = g.Wait()
}

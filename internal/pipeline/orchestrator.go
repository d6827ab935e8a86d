package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"chunkd/internal/config"
	"chunkd/internal/refine"
	"chunkd/internal/sink"
)

const cleanupInterval = 5 * time.Minute

// Orchestrator owns the job store, the work queue and the worker pool.
type Orchestrator struct {
	cfg     config.Config
	store   *JobStore
	queue   chan *Job
	worker  *Worker
	refiner *refine.Client
	sink    *sink.Client
	log     *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewOrchestrator(cfg config.Config, refiner *refine.Client, sk *sink.Client, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:     cfg,
		store:   NewJobStore(cfg.JobTTL),
		queue:   make(chan *Job, cfg.MaxQueueSize),
		refiner: refiner,
		sink:    sk,
		log:     log,
		worker:  NewWorker(refiner, sk, log, cfg.RefineBatchSize, cfg.MaxConcurrentRefine, cfg.PDFFallbackPdftotext),
	}
}

// Start launches the worker pool and the cleanup loop.
func (o *Orchestrator) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go o.runWorker(ctx, i)
	}

	o.wg.Add(1)
	go o.runCleanup(ctx)

	o.log.Info("pipeline started", "workers", o.cfg.WorkerCount, "queue_size", o.cfg.MaxQueueSize)
}

// Stop signals workers to finish and waits for them.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
	o.log.Info("pipeline stopped")
}

func (o *Orchestrator) runWorker(ctx context.Context, id int) {
	defer o.wg.Done()
	log := o.log.With("worker", id)
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-o.queue:
			log.Info("processing job", "job_id", job.ID, "filename", job.Filename)
			o.worker.Process(ctx, job)
		}
	}
}

func (o *Orchestrator) runCleanup(ctx context.Context) {
	defer o.wg.Done()
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.store.Cleanup()
		}
	}
}

// Submit registers a job and enqueues it. Returns an error when the
// queue is full.
func (o *Orchestrator) Submit(job *Job) error {
	o.store.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.AddError("queue full")
		job.SetStatus(StatusFailed, "queued")
		return fmt.Errorf("ingest queue full (%d jobs)", cap(o.queue))
	}
}

// GetJob looks up a job by ID, or nil when unknown or expired.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.store.Get(id)
}

// QueueDepth reports how many jobs are waiting.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// RefineClient exposes the refinement client for stats reporting.
func (o *Orchestrator) RefineClient() *refine.Client {
	return o.refiner
}

// SinkClient exposes the document sink client.
func (o *Orchestrator) SinkClient() *sink.Client {
	return o.sink
}

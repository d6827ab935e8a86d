package pipeline

import (
	"testing"
	"time"

	"chunkd/internal/chunker"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	h1 := ContentHashHex([]byte("aaa"))
	h2 := ContentHashHex([]byte("bbb"))
	if h1 == h2 {
		t.Error("expected different hashes for different inputs")
	}
}

func TestNewJob(t *testing.T) {
	cfg := chunker.DefaultConfig()
	job := NewJob("doc-1", "report.md", "Quarterly Report", cfg)

	if job.ID == "" {
		t.Error("expected generated job ID")
	}
	if job.DocID != "doc-1" {
		t.Errorf("expected doc ID %q, got %q", "doc-1", job.DocID)
	}
	if job.Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, job.Status)
	}
	if job.ChunkConfig != cfg {
		t.Errorf("expected chunk config fixed at submission")
	}

	other := NewJob("doc-1", "report.md", "Quarterly Report", cfg)
	if other.ID == job.ID {
		t.Error("expected unique IDs for separate jobs")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob("doc-1", "a.txt", "", chunker.DefaultConfig())

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusParsing, "parsing"},
		{StatusChunking, "chunking"},
		{StatusRefining, "refining"},
		{StatusStoring, "storing"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := NewJob("doc-1", "a.txt", "", chunker.DefaultConfig())
	job.AddError("chunk 3 failed")
	job.AddError("chunk 7 failed")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "chunk 3 failed" {
		t.Errorf("expected first error %q, got %q", "chunk 3 failed", snap.Progress.Errors[0])
	}
}

func TestJob_ProgressCounters(t *testing.T) {
	job := NewJob("doc-1", "a.txt", "", chunker.DefaultConfig())
	job.SetTotalChunks(10)
	job.AddRefined(4)
	job.AddRefined(3)
	job.AddRefineFailures(3)
	job.SetStored(10)

	snap := job.Snapshot()
	if snap.Progress.TotalChunks != 10 {
		t.Errorf("expected 10 total chunks, got %d", snap.Progress.TotalChunks)
	}
	if snap.Progress.ChunksRefined != 7 {
		t.Errorf("expected 7 refined chunks, got %d", snap.Progress.ChunksRefined)
	}
	if snap.Progress.RefineFailures != 3 {
		t.Errorf("expected 3 refine failures, got %d", snap.Progress.RefineFailures)
	}
	if snap.Progress.ChunksStored != 10 {
		t.Errorf("expected 10 stored chunks, got %d", snap.Progress.ChunksStored)
	}
}

func TestJob_FileDataReleasedOnSetChunks(t *testing.T) {
	job := NewJob("doc-1", "a.txt", "", chunker.DefaultConfig())
	job.SetFileData([]byte("file content here"))
	if string(job.FileData()) != "file content here" {
		t.Fatalf("unexpected file data %q", job.FileData())
	}

	chunks := []chunker.Chunk{{Text: "chunk one"}}
	job.SetChunks(chunks)

	if job.FileData() != nil {
		t.Error("expected file data released after SetChunks")
	}
	got := job.Chunks()
	if len(got) != 1 || got[0].Text != "chunk one" {
		t.Errorf("unexpected chunks %v", got)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := NewJob("doc-1", "a.txt", "", chunker.DefaultConfig())
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := NewJob("doc-1", "a.txt", "", chunker.DefaultConfig())
	store.Put(job)

	got := store.Get(job.ID)
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != job.ID {
		t.Errorf("expected ID %q, got %q", job.ID, got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := NewJob("doc-old", "old.txt", "", chunker.DefaultConfig())
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	fresh := NewJob("doc-new", "new.txt", "", chunker.DefaultConfig())
	store.Put(fresh)

	store.Cleanup()

	if store.Get(expired.ID) != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}

// Package loader bulk-loads a corpus artifact into the search backend in
// bounded batches, tolerating partial failure without aborting the run.
package loader

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/debatelab/debatesearch/internal/corpus"
	"github.com/debatelab/debatesearch/model"
	"github.com/debatelab/debatesearch/services"
)

const progressEvery = 10000

// Options tune the loader. Zero values fall back to the defaults used by
// the CLI (batches of 1000, 3 attempts, 1s base backoff).
type Options struct {
	BatchSize   int
	MaxAttempts int
	BaseDelay   time.Duration
}

func (o *Options) applyDefaults() {
	if o.BatchSize <= 0 {
		o.BatchSize = 1000
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = time.Second
	}
}

// Report aggregates a load run. Attempted counts every document submitted;
// Attempted == Succeeded + Failed always holds, even on partial failure.
type Report struct {
	Attempted     int
	Succeeded     int
	Failed        int
	SkippedLines  int
	Batches       int
	FailedBatches int
	Elapsed       time.Duration
}

// Loader writes canonical documents to a search backend. The backend handle
// is injected so tests can substitute a stub.
type Loader struct {
	backend services.Backend
	opts    Options
}

// New creates a Loader over the given backend.
func New(backend services.Backend, opts Options) *Loader {
	opts.applyDefaults()
	return &Loader{backend: backend, opts: opts}
}

// Load ensures the target index exists, then streams the artifact from r in
// batches. A batch that exhausts its retries is reported and skipped;
// subsequent batches still load. Backend unreachability during EnsureIndex
// is fatal for the run.
func (l *Loader) Load(ctx context.Context, r io.Reader) (Report, error) {
	start := time.Now()
	report := Report{}

	created, err := l.backend.EnsureIndex(ctx)
	if err != nil {
		return report, fmt.Errorf("ensure index: %w", err)
	}
	if created {
		log.Printf("Created index")
	} else {
		log.Printf("Index already exists")
	}

	batch := make([]model.Document, 0, l.opts.BatchSize)
	_, malformed, readErr := corpus.ReadArtifact(r, func(doc model.Document) {
		batch = append(batch, doc)
		if len(batch) == l.opts.BatchSize {
			l.submitBatch(ctx, batch, &report)
			batch = batch[:0]
		}
	})
	report.SkippedLines = malformed

	if len(batch) > 0 {
		l.submitBatch(ctx, batch, &report)
	}

	report.Elapsed = time.Since(start)
	if readErr != nil {
		return report, fmt.Errorf("read corpus: %w", readErr)
	}

	log.Printf("Done. Indexed %d/%d docs (%d failed, %d malformed lines skipped) in %.1fs",
		report.Succeeded, report.Attempted, report.Failed, report.SkippedLines,
		report.Elapsed.Seconds())
	return report, nil
}

// submitBatch sends one batch with bounded retry. The batch is re-submitted
// verbatim on transport errors; the upsert is keyed by id, so a retried
// document overwrites rather than duplicates.
func (l *Loader) submitBatch(ctx context.Context, batch []model.Document, report *Report) {
	report.Batches++
	report.Attempted += len(batch)

	var result services.BulkResult
	err := retryWithBackoff(ctx, func() error {
		var submitErr error
		result, submitErr = l.backend.BulkUpsert(ctx, batch)
		return submitErr
	}, l.opts.MaxAttempts, l.opts.BaseDelay)

	if err != nil {
		report.FailedBatches++
		report.Failed += len(batch)
		log.Printf("Warning: batch %d (%d docs, first id %s) failed after %d attempts: %v",
			report.Batches, len(batch), batch[0].ID, l.opts.MaxAttempts, err)
		return
	}

	report.Succeeded += result.Indexed
	report.Failed += len(result.Failed)
	for _, failed := range result.Failed {
		log.Printf("Warning: document %s rejected: %s", failed.ID, failed.Error)
	}

	if report.Attempted/progressEvery > (report.Attempted-len(batch))/progressEvery {
		log.Printf("... indexed %d docs", report.Succeeded)
	}
}

package task

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// CodeFunc generates a hex-encoded compact code for a media file. It is the
// code-generation collaborator resolved from the plugin registry.
type CodeFunc func(ctx context.Context, path string) (string, error)

// ProgressReporter receives progress updates during task execution.
type ProgressReporter interface {
	// OnProgress is called with the current progress.
	OnProgress(done, total int)
}

// ProgressFunc is a function adapter for ProgressReporter.
type ProgressFunc func(done, total int)

// OnProgress implements ProgressReporter.
func (f ProgressFunc) OnProgress(done, total int) {
	f(done, total)
}

// progressRate caps progress callbacks per second so reporters never flood a
// terminal or log sink on fast cache replays.
const progressRate = 10

// Runner executes code-generation tasks across a bounded worker pool.
// Workers share the cache: whoever completes a fingerprint first writes it,
// and duplicate writes are idempotent, so no cross-worker locking is needed
// beyond the database's own serialization.
type Runner struct {
	workers  int
	cache    *Cache
	progress ProgressReporter
	limiter  *rate.Limiter
}

// NewRunner creates a runner with the given concurrency. A nil cache
// disables result reuse.
func NewRunner(workers int, cache *Cache) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		workers: workers,
		cache:   cache,
		limiter: rate.NewLimiter(rate.Limit(progressRate), 1),
	}
}

// SetProgressReporter sets the progress reporter for the runner.
func (r *Runner) SetProgressReporter(reporter ProgressReporter) {
	r.progress = reporter
}

// Run processes all specs with fn under the given algorithm label and
// returns one task per spec, ordered by spec ID. Per-file failures are
// recorded on the task, never returned as an error.
//
// Cancellation stops dispatching new work while in-flight tasks drain;
// completed results are already cached and stay valid for a restart. The
// partial result slice is returned together with ctx.Err().
func (r *Runner) Run(ctx context.Context, algorithmLabel string, fn CodeFunc, specs []Spec) ([]Task, error) {
	results := make([]Task, len(specs))

	var wg sync.WaitGroup
	sem := make(chan struct{}, r.workers)
	var completed atomic.Int64

	// The semaphore is acquired before dispatch so cancellation stops new
	// work while in-flight tasks drain.
	dispatched := 0
dispatch:
	for i, spec := range specs {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			break dispatch
		}
		dispatched++

		wg.Add(1)
		go func(idx int, sp Spec) {
			defer wg.Done()
			defer func() { <-sem }()

			results[idx] = r.runOne(ctx, algorithmLabel, fn, sp)
			r.report(int(completed.Add(1)), len(specs))
		}(i, spec)
	}

	wg.Wait()

	if r.progress != nil {
		r.progress.OnProgress(dispatched, len(specs))
	}

	if err := ctx.Err(); err != nil {
		return results[:dispatched], err
	}
	return results, nil
}

// runOne executes a single task, consulting the cache first. At most one
// execution per (algorithm, file, content) triple is guaranteed across runs
// by the fingerprint lookup.
func (r *Runner) runOne(ctx context.Context, algorithmLabel string, fn CodeFunc, spec Spec) Task {
	fingerprint := Fingerprint(algorithmLabel, spec.RelPath, spec.ContentHash)

	if r.cache != nil {
		if cached, ok, err := r.cache.GetTask(fingerprint); err == nil && ok {
			cached.ID = spec.ID
			cached.File = spec.RelPath
			return *cached
		}
	}

	t := Task{ID: spec.ID, File: spec.RelPath, Size: spec.Size}

	start := time.Now()
	code, err := fn(ctx, spec.Path)
	t.TimeMS = time.Since(start).Milliseconds()

	if err != nil {
		t.Error = err.Error()
		return t
	}
	t.Code = code

	// Failed tasks are never cached: transient failures must not become
	// sticky across runs. Write failures are tolerated, they only cost a
	// recompute on the next run.
	if r.cache != nil {
		_ = r.cache.PutTask(fingerprint, algorithmLabel, &t)
	}
	return t
}

// report forwards progress under the rate limit.
func (r *Runner) report(done, total int) {
	if r.progress == nil {
		return
	}
	if r.limiter.Allow() {
		r.progress.OnProgress(done, total)
	}
}

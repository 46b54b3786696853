package task

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
)

func testSpecs(n int) []Spec {
	specs := make([]Spec, n)
	for i := range specs {
		specs[i] = Spec{
			ID:          i,
			RelPath:     fmt.Sprintf("0000001/f%03d.mp3", i),
			Path:        fmt.Sprintf("/data/0000001/f%03d.mp3", i),
			Size:        100,
			ContentHash: fmt.Sprintf("hash%03d", i),
		}
	}
	return specs
}

func TestRunnerProcessesAllSpecs(t *testing.T) {
	runner := NewRunner(4, nil)

	fn := func(ctx context.Context, path string) (string, error) {
		return "fd79f57fbd7de57f", nil
	}

	tasks, err := runner.Run(context.Background(), "ac64", fn, testSpecs(20))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(tasks) != 20 {
		t.Fatalf("expected 20 tasks, got %d", len(tasks))
	}
	for i, task := range tasks {
		if task.ID != i {
			t.Errorf("tasks[%d].ID = %d, results must keep spec order", i, task.ID)
		}
		if task.Code != "fd79f57fbd7de57f" {
			t.Errorf("tasks[%d] missing code", i)
		}
	}
}

func TestRunnerRecordsFailuresWithoutAborting(t *testing.T) {
	runner := NewRunner(2, nil)

	fn := func(ctx context.Context, path string) (string, error) {
		if path == "/data/0000001/f007.mp3" {
			return "", errors.New("unreadable file")
		}
		return "00", nil
	}

	tasks, err := runner.Run(context.Background(), "ac64", fn, testSpecs(100))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	failures := 0
	for _, task := range tasks {
		if task.Failed() {
			failures++
		}
	}
	if failures != 1 {
		t.Errorf("expected exactly 1 failure, got %d", failures)
	}
	if len(tasks) != 100 {
		t.Errorf("expected all 100 tasks returned, got %d", len(tasks))
	}
}

func TestRunnerReusesCache(t *testing.T) {
	cache := openTestCache(t)
	runner := NewRunner(4, cache)

	var calls atomic.Int64
	fn := func(ctx context.Context, path string) (string, error) {
		calls.Add(1)
		return "00ff", nil
	}

	specs := testSpecs(10)
	if _, err := runner.Run(context.Background(), "ac64", fn, specs); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if calls.Load() != 10 {
		t.Fatalf("expected 10 executions on cold cache, got %d", calls.Load())
	}

	// Second run over unchanged inputs executes nothing.
	tasks, err := runner.Run(context.Background(), "ac64", fn, specs)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if calls.Load() != 10 {
		t.Errorf("expected cached replay, got %d extra executions", calls.Load()-10)
	}
	for i, task := range tasks {
		if task.Code != "00ff" {
			t.Errorf("tasks[%d] lost code on cache replay", i)
		}
		if task.ID != i {
			t.Errorf("tasks[%d].ID = %d after cache replay", i, task.ID)
		}
	}

	// A different algorithm label misses the cache.
	if _, err := runner.Run(context.Background(), "vc256", fn, specs); err != nil {
		t.Fatalf("third run failed: %v", err)
	}
	if calls.Load() != 20 {
		t.Errorf("expected fresh executions for new algorithm, got %d total", calls.Load())
	}
}

func TestRunnerDoesNotCacheFailures(t *testing.T) {
	cache := openTestCache(t)
	runner := NewRunner(1, cache)

	broken := true
	fn := func(ctx context.Context, path string) (string, error) {
		if broken {
			return "", errors.New("transient failure")
		}
		return "aa", nil
	}

	specs := testSpecs(1)
	tasks, err := runner.Run(context.Background(), "ac64", fn, specs)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !tasks[0].Failed() {
		t.Fatal("expected recorded failure")
	}

	// After the transient condition clears, the task runs again.
	broken = false
	tasks, err = runner.Run(context.Background(), "ac64", fn, specs)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if tasks[0].Failed() {
		t.Error("failure became sticky through the cache")
	}
}

func TestRunnerToleratesBrokenCache(t *testing.T) {
	cache := openTestCache(t)
	cache.Close()
	runner := NewRunner(2, cache)

	fn := func(ctx context.Context, path string) (string, error) {
		return "dd", nil
	}

	// Cache reads and writes fail on the closed database; tasks still
	// complete, the results just stop being reusable.
	tasks, err := runner.Run(context.Background(), "ac64", fn, testSpecs(5))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for i, task := range tasks {
		if task.Failed() || task.Code != "dd" {
			t.Errorf("tasks[%d] = %+v, want successful task despite broken cache", i, task)
		}
	}
}

func TestRunnerCancellation(t *testing.T) {
	cache := openTestCache(t)
	runner := NewRunner(1, cache)

	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int64
	fn := func(c context.Context, path string) (string, error) {
		if calls.Add(1) == 3 {
			cancel()
		}
		return "bb", nil
	}

	tasks, err := runner.Run(ctx, "ac64", fn, testSpecs(50))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(tasks) >= 50 {
		t.Errorf("expected dispatching to stop early, got %d tasks", len(tasks))
	}

	// Completed partial results stay reusable after a restart.
	var replayed atomic.Int64
	fnCount := func(c context.Context, path string) (string, error) {
		replayed.Add(1)
		return "bb", nil
	}
	all, err := NewRunner(1, cache).Run(context.Background(), "ac64", fnCount, testSpecs(50))
	if err != nil {
		t.Fatalf("restart run failed: %v", err)
	}
	if len(all) != 50 {
		t.Fatalf("expected 50 tasks after restart, got %d", len(all))
	}
	if int(replayed.Load())+int(calls.Load()) < 50 {
		t.Errorf("restart did not cover remaining work: %d executed before, %d after",
			calls.Load(), replayed.Load())
	}
}

func TestRunnerProgressReporting(t *testing.T) {
	runner := NewRunner(2, nil)

	var last atomic.Int64
	runner.SetProgressReporter(ProgressFunc(func(done, total int) {
		last.Store(int64(done))
		if total != 5 {
			t.Errorf("total = %d, want 5", total)
		}
	}))

	fn := func(ctx context.Context, path string) (string, error) { return "cc", nil }
	if _, err := runner.Run(context.Background(), "ac64", fn, testSpecs(5)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// The final report always fires, regardless of rate limiting.
	if last.Load() != 5 {
		t.Errorf("final progress = %d, want 5", last.Load())
	}
}

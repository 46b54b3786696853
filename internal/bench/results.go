// Package bench expands the active benchmarks of a configuration into
// concrete evaluation work, executes it through the task runner and
// aggregates the outcomes into a run report for rendering.
package bench

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/iscc/twinspect/internal/dataset"
	"github.com/iscc/twinspect/internal/metrics"
	"github.com/iscc/twinspect/internal/task"
)

// Benchmark completion states.
const (
	StatusComplete   = "complete"
	StatusIncomplete = "incomplete"
	StatusSkipped    = "skipped"
)

// MetricValue is the normalized result of one metric calculation. Exactly
// the fields produced by the metric kind are set.
type MetricValue struct {
	Effectiveness []metrics.Effectiveness `json:"effectiveness,omitempty"`
	Best          *metrics.Effectiveness  `json:"best,omitempty"`
	Speed         *metrics.Speed          `json:"speed,omitempty"`
	Robustness    metrics.Robustness      `json:"robustness,omitempty"`
}

// BenchmarkResult aggregates one (algorithm, dataset) evaluation.
type BenchmarkResult struct {
	Algorithm string `json:"algorithm"`
	Dataset   string `json:"dataset"`
	Checksum  string `json:"checksum,omitempty"`

	Info *dataset.DatasetInfo `json:"dataset_info,omitempty"`

	TotalTasks  int `json:"total_tasks"`
	FailedTasks int `json:"failed_tasks"`

	// Metrics maps metric labels to their computed values.
	Metrics map[string]*MetricValue `json:"metrics,omitempty"`

	// Status is complete, incomplete (some metric could not be computed)
	// or skipped (the benchmark never ran).
	Status string `json:"status"`
	// Warnings collects non-fatal problems, one message per incident.
	Warnings []string `json:"warnings,omitempty"`
	// Error is set when the whole benchmark was skipped.
	Error string `json:"error,omitempty"`
}

// RunReport is the top-level result artifact of a full benchmark run.
type RunReport struct {
	RunID      string            `json:"run_id"`
	TwinSpect  string            `json:"twinspect"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Benchmarks []BenchmarkResult `json:"benchmarks"`
}

// TotalFailures sums per-task failures across all benchmarks.
func (r *RunReport) TotalFailures() int {
	total := 0
	for i := range r.Benchmarks {
		total += r.Benchmarks[i].FailedTasks
	}
	return total
}

// SkippedBenchmarks counts benchmarks that never ran.
func (r *RunReport) SkippedBenchmarks() int {
	skipped := 0
	for i := range r.Benchmarks {
		if r.Benchmarks[i].Status == StatusSkipped {
			skipped++
		}
	}
	return skipped
}

// Validate checks shape conformance of all aggregated records: thresholds
// are non-negative and every score is within [0, 1].
func (r *RunReport) Validate() error {
	for i := range r.Benchmarks {
		if err := r.Benchmarks[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks shape conformance of one benchmark result.
func (b *BenchmarkResult) Validate() error {
	for label, value := range b.Metrics {
		if value == nil {
			return fmt.Errorf("benchmark %s/%s: metric %s has no value", b.Algorithm, b.Dataset, label)
		}
		for _, rec := range value.Effectiveness {
			if err := validateEffectiveness(rec); err != nil {
				return fmt.Errorf("benchmark %s/%s: metric %s: %w", b.Algorithm, b.Dataset, label, err)
			}
		}
		if value.Best != nil {
			if err := validateEffectiveness(*value.Best); err != nil {
				return fmt.Errorf("benchmark %s/%s: metric %s: %w", b.Algorithm, b.Dataset, label, err)
			}
		}
	}
	return nil
}

func validateEffectiveness(rec metrics.Effectiveness) error {
	if rec.Threshold < 0 {
		return fmt.Errorf("negative threshold %d", rec.Threshold)
	}
	for name, score := range map[string]float64{
		"recall": rec.Recall, "precision": rec.Precision, "f1_score": rec.F1Score,
	} {
		if score < 0 || score > 1 {
			return fmt.Errorf("%s %v out of range at threshold %d", name, score, rec.Threshold)
		}
	}
	return nil
}

// ResultPath builds the dataset-anchored result file path for an
// (algorithm, dataset, checksum) triple.
func ResultPath(rootFolder, algorithmLabel, datasetLabel, checksum, extension string) string {
	name := fmt.Sprintf("%s-%s-%s.%s", algorithmLabel, datasetLabel, checksum, extension)
	return filepath.Join(rootFolder, name)
}

// WriteSimprints stores task results as a semicolon-separated simprint file
// with the columns id;code;file;size;time. Failed tasks are excluded.
func WriteSimprints(path string, tasks []task.Task) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating simprint file: %w", err)
	}

	w := csv.NewWriter(f)
	w.Comma = ';'

	if err := w.Write([]string{"id", "code", "file", "size", "time"}); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing simprint header: %w", err)
	}
	for i := range tasks {
		t := &tasks[i]
		if t.Failed() {
			continue
		}
		rec := []string{
			strconv.Itoa(t.ID), t.Code, t.File,
			strconv.FormatInt(t.Size, 10), strconv.FormatInt(t.TimeMS, 10),
		}
		if err := w.Write(rec); err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("writing simprint row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("flushing simprint file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing simprint file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming simprint file: %w", err)
	}
	return nil
}

// WriteResult merges a benchmark result into a JSON artifact at path. An
// existing file is updated recursively so repeated runs accumulate metric
// sections instead of clobbering them.
func WriteResult(path string, res *BenchmarkResult) error {
	var current map[string]any
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &current); err != nil {
			return fmt.Errorf("parsing existing result file: %w", err)
		}
	}

	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	var update map[string]any
	if err := json.Unmarshal(raw, &update); err != nil {
		return fmt.Errorf("round-tripping result: %w", err)
	}

	merged := mergeMaps(current, update)
	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding merged result: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing result file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming result file: %w", err)
	}
	return nil
}

// mergeMaps recursively overlays update onto current.
func mergeMaps(current, update map[string]any) map[string]any {
	if current == nil {
		return update
	}
	for key, val := range update {
		if sub, ok := val.(map[string]any); ok {
			if cur, ok := current[key].(map[string]any); ok {
				current[key] = mergeMaps(cur, sub)
				continue
			}
		}
		current[key] = val
	}
	return current
}

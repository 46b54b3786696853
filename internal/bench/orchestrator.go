package bench

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/iscc/twinspect/internal/config"
	"github.com/iscc/twinspect/internal/dataset"
	"github.com/iscc/twinspect/internal/metrics"
	"github.com/iscc/twinspect/internal/registry"
	"github.com/iscc/twinspect/internal/task"
)

// Orchestrator expands the active benchmarks of a configuration into
// (algorithm × dataset × metric) evaluation units and runs them.
//
// Fault isolation follows three tiers: configuration problems abort before
// any work starts, a dataset or algorithm failure skips only its benchmark,
// and a single file failure is recorded on its task and excluded from
// metrics.
type Orchestrator struct {
	cfg         *config.Configuration
	opts        *config.Options
	reg         *registry.Registry
	cache       *task.Cache
	metricFuncs map[string]MetricFunc
	progress    task.ProgressReporter
}

// New creates an orchestrator with the built-in metric functions
// registered. The cache may be nil, which disables result reuse.
func New(cfg *config.Configuration, opts *config.Options, reg *registry.Registry, cache *task.Cache) *Orchestrator {
	return &Orchestrator{
		cfg:         cfg,
		opts:        opts,
		reg:         reg,
		cache:       cache,
		metricFuncs: BuiltinMetricFuncs(),
	}
}

// RegisterMetricFunc adds or replaces a metric implementation.
func (o *Orchestrator) RegisterMetricFunc(ident string, fn MetricFunc) {
	o.metricFuncs[ident] = fn
}

// SetProgressReporter forwards task progress to reporter.
func (o *Orchestrator) SetProgressReporter(reporter task.ProgressReporter) {
	o.progress = reporter
}

// ValidateFunctions resolves every function identifier referenced by the
// active benchmarks. Unresolvable identifiers are configuration errors and
// abort the run before any work starts.
func (o *Orchestrator) ValidateFunctions() error {
	for _, bm := range o.cfg.ActiveBenchmarks() {
		algo, _ := o.cfg.Algorithm(bm.AlgorithmLabel)
		if _, err := o.reg.Algorithm(algo.Function); err != nil {
			return &config.Error{Msg: err.Error()}
		}
		for _, label := range bm.MetricLabels {
			metric, _ := o.cfg.Metric(label)
			if _, ok := o.metricFuncs[metric.Function]; !ok {
				return &config.Error{Msg: fmt.Sprintf("metric function %q not registered", metric.Function)}
			}
		}
	}
	return nil
}

// Run executes all active benchmarks and aggregates their results. A
// benchmark-level failure marks that benchmark skipped and the run
// continues; only cancellation and configuration errors end the run early.
func (o *Orchestrator) Run(ctx context.Context) (*RunReport, error) {
	if err := o.ValidateFunctions(); err != nil {
		return nil, err
	}

	report := &RunReport{
		RunID:     uuid.NewString(),
		TwinSpect: o.cfg.TwinSpect,
		StartedAt: time.Now(),
	}

	for _, bm := range o.cfg.ActiveBenchmarks() {
		res, err := o.runBenchmark(ctx, bm)
		if err != nil {
			// Only cancellation propagates; everything else was
			// captured in the result.
			report.Benchmarks = append(report.Benchmarks, *res)
			report.FinishedAt = time.Now()
			return report, err
		}
		report.Benchmarks = append(report.Benchmarks, *res)
	}

	report.FinishedAt = time.Now()
	if err := report.Validate(); err != nil {
		return report, fmt.Errorf("aggregated results failed validation: %w", err)
	}
	return report, nil
}

// runBenchmark evaluates one active benchmark. The returned error is
// non-nil only for cancellation; benchmark-level failures are recorded on
// the result with StatusSkipped.
func (o *Orchestrator) runBenchmark(ctx context.Context, bm *config.Benchmark) (*BenchmarkResult, error) {
	res := &BenchmarkResult{
		Algorithm: bm.AlgorithmLabel,
		Dataset:   bm.DatasetLabel,
		Status:    StatusSkipped,
	}

	algo, _ := o.cfg.Algorithm(bm.AlgorithmLabel)
	ds, _ := o.cfg.Dataset(bm.DatasetLabel)
	codeFn, err := o.reg.Algorithm(algo.Function)
	if err != nil {
		res.Error = err.Error()
		return res, nil
	}

	dataFolder := o.opts.DataFolder(ds.Label)
	info, err := o.analyzeDataset(ds, dataFolder)
	if err != nil {
		res.Error = err.Error()
		return res, nil
	}
	res.Info = info
	res.Checksum = info.Checksum

	specs, err := o.buildSpecs(dataFolder)
	if err != nil {
		res.Error = err.Error()
		return res, nil
	}

	runner := task.NewRunner(o.opts.Workers, o.cache)
	if o.progress != nil {
		runner.SetProgressReporter(o.progress)
	}
	tasks, err := runner.Run(ctx, algo.Label, task.CodeFunc(codeFn), specs)
	if err != nil {
		res.Error = err.Error()
		return res, err
	}

	res.TotalTasks = len(tasks)
	simprints := o.collectSimprints(tasks, &res.FailedTasks)

	simprintPath := ResultPath(o.opts.RootFolder, algo.Label, ds.Label, info.Checksum, "csv")
	if err := WriteSimprints(simprintPath, tasks); err != nil {
		res.Warnings = append(res.Warnings, err.Error())
	}

	maxThreshold := bm.MaxThreshold
	if maxThreshold == 0 && len(simprints) > 0 {
		maxThreshold = metrics.DefaultMaxThreshold(simprints[0].Code)
	}

	input := &MetricInput{Simprints: simprints, MaxThreshold: maxThreshold, Info: info}
	res.Metrics = make(map[string]*MetricValue, len(bm.MetricLabels))
	res.Status = StatusComplete

	for _, label := range bm.MetricLabels {
		metric, _ := o.cfg.Metric(label)
		fn := o.metricFuncs[metric.Function]
		value, err := fn(ctx, input)
		if err != nil {
			// Insufficient data for one metric degrades the benchmark
			// to incomplete instead of failing the run.
			res.Warnings = append(res.Warnings, fmt.Sprintf("metric %s: %v", label, err))
			res.Status = StatusIncomplete
			continue
		}
		res.Metrics[label] = value
	}

	resultPath := ResultPath(o.opts.RootFolder, algo.Label, ds.Label, info.Checksum, "json")
	if err := WriteResult(resultPath, res); err != nil {
		res.Warnings = append(res.Warnings, err.Error())
	}

	return res, nil
}

// analyzeDataset produces the DatasetInfo for an installed dataset,
// serving it from the cache when the folder checksum is unchanged. The
// configured dataset checksum is verified when present.
func (o *Orchestrator) analyzeDataset(ds *config.Dataset, dataFolder string) (*dataset.DatasetInfo, error) {
	var hashCache dataset.HashCache
	if o.cache != nil {
		hashCache = o.cache
	}

	checksum, err := dataset.Checksum(dataFolder, hashCache)
	if err != nil {
		return nil, err
	}

	if ds.Checksum != "" && ds.Checksum != checksum {
		return nil, &dataset.IntegrityError{Path: dataFolder, Expected: ds.Checksum, Actual: checksum}
	}

	if o.cache != nil {
		if info, ok, err := o.cache.GetDatasetInfo(checksum); err == nil && ok {
			return info, nil
		}
	}

	info, err := dataset.Analyze(dataFolder, dataset.AnalyzeOptions{
		Mode:                 string(ds.Mode),
		KnownTransformations: o.cfg.TransformationLabels(),
		HashCache:            hashCache,
	})
	if err != nil {
		return nil, err
	}

	if o.cache != nil {
		o.cache.PutDatasetInfo(info)
	}
	return info, nil
}

// buildSpecs enumerates the dataset files and pairs each with its content
// hash for fingerprinting. Hashes are usually served from the cache that
// the preceding checksum computation populated.
func (o *Orchestrator) buildSpecs(dataFolder string) ([]task.Spec, error) {
	metas, err := dataset.Walk(dataFolder)
	if err != nil {
		return nil, err
	}

	specs := make([]task.Spec, len(metas))
	for i, meta := range metas {
		hash := ""
		if o.cache != nil {
			hash, _ = o.cache.GetFileHash(meta.RelPath, meta.Size, meta.ModTime.UnixNano())
		}
		if hash == "" {
			hash, err = dataset.HashFile(filepath.Join(dataFolder, filepath.FromSlash(meta.RelPath)))
			if err != nil {
				return nil, err
			}
		}
		specs[i] = task.Spec{
			ID:          i,
			RelPath:     meta.RelPath,
			Path:        filepath.Join(dataFolder, filepath.FromSlash(meta.RelPath)),
			Size:        meta.Size,
			ContentHash: hash,
		}
	}
	return specs, nil
}

// collectSimprints converts successful tasks into simprints with ground
// truth parsed from filenames, counting failures along the way.
func (o *Orchestrator) collectSimprints(tasks []task.Task, failed *int) []metrics.Simprint {
	simprints := make([]metrics.Simprint, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		if t.Failed() {
			*failed++
			continue
		}
		name, err := dataset.ParseName(t.File)
		if err != nil {
			// The analyzer validated the convention already; treat a
			// late mismatch as a task-level failure.
			*failed++
			continue
		}
		simprints = append(simprints, metrics.Simprint{
			ID:        t.ID,
			Code:      t.Code,
			File:      t.File,
			Size:      t.Size,
			TimeMS:    t.TimeMS,
			Cluster:   name.Cluster,
			Transform: name.Transform,
		})
	}
	return simprints
}

package bench

import (
	"context"
	"fmt"

	"github.com/iscc/twinspect/internal/dataset"
	"github.com/iscc/twinspect/internal/metrics"
)

// MetricInput is the data handed to a metric calculation: the successful
// simprints of one (algorithm, dataset) pair plus the dataset summary.
type MetricInput struct {
	Simprints    []metrics.Simprint
	MaxThreshold int
	Info         *dataset.DatasetInfo
}

// MetricFunc is the metric-calculation collaborator. Implementations are
// registered under the function identifier used by configuration documents.
type MetricFunc func(ctx context.Context, input *MetricInput) (*MetricValue, error)

// Built-in metric function identifiers.
const (
	FuncEffectiveness = "twinspect:effectiveness"
	FuncSpeed         = "twinspect:speed"
	FuncRobustness    = "twinspect:robustness"
)

// BuiltinMetricFuncs returns the metric implementations shipped with the
// framework, keyed by identifier.
func BuiltinMetricFuncs() map[string]MetricFunc {
	return map[string]MetricFunc{
		FuncEffectiveness: effectivenessMetric,
		FuncSpeed:         speedMetric,
		FuncRobustness:    robustnessMetric,
	}
}

// effectivenessMetric sweeps Hamming thresholds from 0 to MaxThreshold and
// records precision, recall and F1 per threshold plus the best record.
func effectivenessMetric(ctx context.Context, input *MetricInput) (*MetricValue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	curve, err := metrics.EffectivenessCurve(input.Simprints, input.MaxThreshold)
	if err != nil {
		return nil, fmt.Errorf("computing effectiveness: %w", err)
	}
	return &MetricValue{
		Effectiveness: curve,
		Best:          metrics.BestThreshold(curve),
	}, nil
}

// speedMetric summarizes code-generation throughput.
func speedMetric(ctx context.Context, input *MetricInput) (*MetricValue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	speed, err := metrics.NewSpeed(input.Simprints)
	if err != nil {
		return nil, fmt.Errorf("computing speed: %w", err)
	}
	return &MetricValue{Speed: &speed}, nil
}

// robustnessMetric measures per-transformation code survival: the Hamming
// distance between each cluster's original and its transformed members.
func robustnessMetric(ctx context.Context, input *MetricInput) (*MetricValue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rob, err := metrics.NewRobustness(input.Simprints)
	if err != nil {
		return nil, fmt.Errorf("computing robustness: %w", err)
	}
	return &MetricValue{Robustness: rob}, nil
}

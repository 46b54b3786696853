package metrics

import (
	"errors"
	"fmt"
)

// ErrNoTimings is returned when no simprint carries a usable processing time.
var ErrNoTimings = errors.New("no timing samples in result set")

// Speed summarizes code-generation throughput in bytes per millisecond, with
// human-readable MB/s renderings for reports.
type Speed struct {
	Distribution
	MinHuman    string `json:"min_human"`
	MaxHuman    string `json:"max_human"`
	MeanHuman   string `json:"mean_human"`
	MedianHuman string `json:"median_human"`
}

// NewSpeed computes the throughput distribution over simprints. Entries with
// a zero processing time are skipped (sub-millisecond timings round to zero
// for tiny files and would produce infinite throughput).
func NewSpeed(simprints []Simprint) (Speed, error) {
	var samples []float64
	for i := range simprints {
		if simprints[i].TimeMS <= 0 {
			continue
		}
		samples = append(samples, float64(simprints[i].Size)/float64(simprints[i].TimeMS))
	}
	if len(samples) == 0 {
		return Speed{}, ErrNoTimings
	}

	dist := NewDistribution(samples)
	return Speed{
		Distribution: dist,
		MinHuman:     humanThroughput(dist.Min),
		MaxHuman:     humanThroughput(dist.Max),
		MeanHuman:    humanThroughput(dist.Mean),
		MedianHuman:  humanThroughput(dist.Median),
	}, nil
}

// humanThroughput renders bytes/ms as MB/s.
func humanThroughput(bytesPerMS float64) string {
	return fmt.Sprintf("%.2f MB/s", bytesPerMS*1000/1e6)
}

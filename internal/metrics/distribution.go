// Package metrics computes benchmark metrics from compact-code results:
// statistical distributions, Hamming distances and retrieval effectiveness.
package metrics

import "sort"

// Distribution is a min/max/mean/median summary over a sample set. It is
// reused for cluster sizes, processing times and throughput figures.
type Distribution struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// NewDistribution summarizes a float sample set. Returns the zero
// distribution for an empty input.
func NewDistribution(samples []float64) Distribution {
	if len(samples) == 0 {
		return Distribution{}
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	return Distribution{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   sum / float64(len(sorted)),
		Median: median(sorted),
	}
}

// NewDistributionInts summarizes an integer sample set.
func NewDistributionInts(samples []int) Distribution {
	floats := make([]float64, len(samples))
	for i, v := range samples {
		floats[i] = float64(v)
	}
	return NewDistribution(floats)
}

// median expects a sorted, non-empty slice.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

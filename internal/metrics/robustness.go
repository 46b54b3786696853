package metrics

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNoTransformedPairs is returned when a result set contains no cluster
// member carrying a transformation label, so no robustness figures can be
// computed.
var ErrNoTransformedPairs = errors.New("no transformed cluster members in result set")

// Robustness maps transformation labels to the distribution of Hamming
// distances between each cluster's original file and its members carrying
// that transformation. Small distances mean the code survives the
// distortion.
type Robustness map[string]Distribution

// NewRobustness computes per-transformation distance distributions over
// simprints. The original of a cluster is its lexicographically first member
// by file path; distractors carry no ground truth and are skipped.
func NewRobustness(simprints []Simprint) (Robustness, error) {
	clusters := make(map[string][]*Simprint)
	for i := range simprints {
		s := &simprints[i]
		if s.Cluster == "" {
			continue
		}
		clusters[s.Cluster] = append(clusters[s.Cluster], s)
	}

	samples := make(map[string][]float64)
	for _, members := range clusters {
		sort.Slice(members, func(i, j int) bool { return members[i].File < members[j].File })
		original := members[0]
		for _, member := range members[1:] {
			if member.Transform == "" {
				continue
			}
			dist, err := HammingDistance(original.Code, member.Code)
			if err != nil {
				return nil, fmt.Errorf("comparing %s and %s: %w", original.File, member.File, err)
			}
			samples[member.Transform] = append(samples[member.Transform], float64(dist))
		}
	}

	if len(samples) == 0 {
		return nil, ErrNoTransformedPairs
	}

	rob := make(Robustness, len(samples))
	for label, dists := range samples {
		rob[label] = NewDistribution(dists)
	}
	return rob, nil
}

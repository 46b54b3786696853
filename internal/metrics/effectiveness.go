package metrics

import (
	"errors"
	"fmt"
)

// ErrNoGroundTruth is returned when a result set contains no same-cluster
// pairs, so no meaningful effectiveness curve can be computed.
var ErrNoGroundTruth = errors.New("no ground-truth cluster pairs in result set")

// Simprint is one compact-code result with the ground truth parsed from its
// filename. Cluster is empty for distractor files.
type Simprint struct {
	ID        int    `json:"id"`
	Code      string `json:"code"`
	File      string `json:"file"`
	Size      int64  `json:"size"`
	TimeMS    int64  `json:"time"`
	Cluster   string `json:"cluster,omitempty"`
	Transform string `json:"transform,omitempty"`
}

// Effectiveness is the retrieval quality at one Hamming distance threshold.
// A set of records over a threshold sweep forms a curve.
type Effectiveness struct {
	Threshold int     `json:"threshold"`
	Recall    float64 `json:"recall"`
	Precision float64 `json:"precision"`
	F1Score   float64 `json:"f1_score"`
}

// EffectivenessCurve evaluates recall, precision and F1 at every Hamming
// threshold from 0 to maxThreshold.
//
// Every simprint is queried against all others. At threshold t a pair is
// retrieved when its distance is at most t, and it is a true positive when
// the pair additionally shares a cluster. Recall divides true positives by
// all same-cluster pairs regardless of distance, precision divides by all
// retrieved pairs. Both default to 0 instead of dividing by zero, and F1 is
// 0 when precision and recall are both 0.
func EffectivenessCurve(simprints []Simprint, maxThreshold int) ([]Effectiveness, error) {
	if maxThreshold < 0 {
		return nil, fmt.Errorf("negative max threshold %d", maxThreshold)
	}

	// Pairwise distances and relevance are computed once, then swept.
	type pair struct {
		dist     int
		relevant bool
	}
	var pairs []pair
	totalRelevant := 0

	for i := 0; i < len(simprints); i++ {
		for j := i + 1; j < len(simprints); j++ {
			a, b := &simprints[i], &simprints[j]
			dist, err := HammingDistance(a.Code, b.Code)
			if err != nil {
				return nil, fmt.Errorf("comparing %s and %s: %w", a.File, b.File, err)
			}
			relevant := a.Cluster != "" && a.Cluster == b.Cluster
			if relevant {
				totalRelevant++
			}
			pairs = append(pairs, pair{dist: dist, relevant: relevant})
		}
	}

	if totalRelevant == 0 {
		return nil, ErrNoGroundTruth
	}

	curve := make([]Effectiveness, 0, maxThreshold+1)
	for t := 0; t <= maxThreshold; t++ {
		truePositives := 0
		retrieved := 0
		for _, p := range pairs {
			if p.dist > t {
				continue
			}
			retrieved++
			if p.relevant {
				truePositives++
			}
		}

		rec := Effectiveness{Threshold: t}
		if retrieved > 0 {
			rec.Precision = float64(truePositives) / float64(retrieved)
		}
		rec.Recall = float64(truePositives) / float64(totalRelevant)
		if rec.Precision+rec.Recall > 0 {
			rec.F1Score = 2 * rec.Precision * rec.Recall / (rec.Precision + rec.Recall)
		}
		curve = append(curve, rec)
	}

	return curve, nil
}

// BestThreshold returns the curve record with the highest F1 score, or nil
// for an empty curve. Earlier (stricter) thresholds win ties.
func BestThreshold(curve []Effectiveness) *Effectiveness {
	var best *Effectiveness
	for i := range curve {
		if best == nil || curve[i].F1Score > best.F1Score {
			best = &curve[i]
		}
	}
	return best
}

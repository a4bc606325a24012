package linkage

import (
	"math"

	"github.com/Ramsey-B/sage/pkg/models"
)

// CompositeScorer combines per-field similarities into one weighted score
// per query/candidate pair. It is a pure, deterministic function of its two
// input records and the weight vector.
type CompositeScorer struct {
	scorer  *Scorer
	weights map[string]float64
}

// NewCompositeScorer creates a composite scorer for a validated weight
// vector. Weight validation happens at config load; this constructor assumes
// Config.Validate has already passed.
func NewCompositeScorer(weights map[string]float64) *CompositeScorer {
	return &CompositeScorer{
		scorer:  NewScorer(),
		weights: weights,
	}
}

// Score runs every weighted field matcher and sums the weighted
// similarities. Fields without a configured weight are neither scored nor
// penalized. The weight vector in effect is copied into the result so the
// score stays reproducible if defaults later change.
func (cs *CompositeScorer) Score(query, candidate models.Record) models.CompositeScore {
	fieldScores := make([]models.FieldScore, 0, len(cs.weights))
	var sum float64

	// Canonical field order keeps output byte-for-byte stable
	for _, field := range models.RecordFields {
		weight, ok := cs.weights[field]
		if !ok {
			continue
		}
		fs := cs.scorer.MatchField(field, query, candidate)
		fieldScores = append(fieldScores, fs)
		sum += clamp01(fs.Similarity) * weight
	}

	// The weight vector sums to 1.0 only within weightTolerance, so a
	// perfect match can accumulate to 0.999... in float64. Snap it so
	// identity scores exactly 1.0.
	if math.Abs(sum-1.0) <= weightTolerance {
		sum = 1.0
	}

	weights := make(map[string]float64, len(cs.weights))
	for field, w := range cs.weights {
		weights[field] = w
	}

	return models.CompositeScore{
		FieldScores: fieldScores,
		Score:       clamp01(sum),
		Weights:     weights,
	}
}

// clamp01 bounds a score to [0, 1]. The weight-sum invariant already
// guarantees this; the clamp is a backstop, not a correction path.
func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}

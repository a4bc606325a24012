package models

// LinkageOutcome classifies how confidently a query record was identified
// against the reference collection.
type LinkageOutcome string

const (
	LinkageOutcomeAutoMatch    LinkageOutcome = "AUTO_MATCH"
	LinkageOutcomeManualReview LinkageOutcome = "MANUAL_REVIEW"
	LinkageOutcomeNoMatch      LinkageOutcome = "NO_MATCH"
)

// FieldScore is the similarity of one field between the query and a
// candidate. Missing distinguishes "field absent on either side" from a
// present-but-dissimilar value; both score 0.0 but audit trails must be able
// to tell them apart.
type FieldScore struct {
	Field      string  `json:"field"`
	Similarity float64 `json:"similarity"`
	Missing    bool    `json:"missing"`
}

// CompositeScore is the weighted combination of per-field scores for one
// query/candidate pair. The weight vector in effect is captured alongside the
// scores so the result stays reproducible if defaults later change.
type CompositeScore struct {
	FieldScores []FieldScore       `json:"field_scores"`
	Score       float64            `json:"score"`
	Weights     map[string]float64 `json:"weights"`
}

// FieldScore returns the entry for a named field, if scored.
func (c CompositeScore) FieldScore(field string) (FieldScore, bool) {
	for _, fs := range c.FieldScores {
		if fs.Field == field {
			return fs, true
		}
	}
	return FieldScore{}, false
}

// CandidateMatch is one reference record's score against a query, with its
// rank among all candidates (1 = best).
type CandidateMatch struct {
	ReferenceID string         `json:"reference_id"`
	Composite   CompositeScore `json:"composite"`
	Rank        int            `json:"rank"`
}

// LinkageResult is the classified outcome of ranking a query against the
// reference collection. Assumptions is part of the contract: it enumerates
// the weights, thresholds, missing fields, and ambiguity handling behind the
// outcome so any decision can be reproduced for audit.
type LinkageResult struct {
	BestMatch        *CandidateMatch `json:"best_match,omitempty"`
	Outcome          LinkageOutcome  `json:"outcome"`
	Ambiguous        bool            `json:"ambiguous"`
	Assumptions      []string        `json:"assumptions"`
	CandidatesScored int             `json:"candidates_scored"`
}

// BestScore returns the best candidate's composite score, or 0.0 when the
// reference collection produced no candidates.
func (r LinkageResult) BestScore() float64 {
	if r.BestMatch == nil {
		return 0.0
	}
	return r.BestMatch.Composite.Score
}

package linkage

import (
	"fmt"
	"strings"

	"github.com/Ramsey-B/sage/pkg/models"
)

// Classifier maps the best composite score and the ambiguity signal into a
// tri-state linkage outcome. It is re-evaluated fresh per request; nothing
// is persisted between calls.
type Classifier struct {
	cfg Config
}

// NewClassifier creates a classifier for a validated configuration.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify produces the LinkageResult for a ranked candidate list.
//
//	score >= auto_match_threshold and not ambiguous -> AUTO_MATCH
//	review_threshold <= score                        -> MANUAL_REVIEW
//	otherwise                                        -> NO_MATCH
//
// Ambiguity only ever downgrades: an AUTO_MATCH-level score with multiple
// strong candidates becomes MANUAL_REVIEW, and a score below the review
// threshold stays NO_MATCH no matter how many candidates crowd it.
func (c *Classifier) Classify(query models.Record, matches []models.CandidateMatch, ambiguous bool) models.LinkageResult {
	var best *models.CandidateMatch
	score := 0.0
	if len(matches) > 0 {
		m := matches[0]
		best = &m
		score = m.Composite.Score
	}

	var outcome models.LinkageOutcome
	ambiguityDowngrade := false
	switch {
	case score >= c.cfg.AutoMatchThreshold && !ambiguous:
		outcome = models.LinkageOutcomeAutoMatch
	case score >= c.cfg.ReviewThreshold:
		outcome = models.LinkageOutcomeManualReview
		ambiguityDowngrade = ambiguous && score >= c.cfg.AutoMatchThreshold
	default:
		outcome = models.LinkageOutcomeNoMatch
	}

	return models.LinkageResult{
		BestMatch:        best,
		Outcome:          outcome,
		Ambiguous:        ambiguous,
		Assumptions:      c.assumptions(query, best, ambiguous, ambiguityDowngrade),
		CandidatesScored: len(matches),
	}
}

// assumptions documents every input that shaped the outcome: the weight
// vector, the thresholds, which fields were missing on which side, and
// whether ambiguity changed the classification. Required for audit
// reproduction; this is contract, not logging.
func (c *Classifier) assumptions(query models.Record, best *models.CandidateMatch, ambiguous, downgraded bool) []string {
	assumptions := []string{
		"Name and address use token-set matching; word order does not affect the score",
		"DOB and state require exact match; safety-critical fields are never fuzzy-matched",
		fmt.Sprintf("Weights applied: %s", formatWeights(c.cfg.Weights)),
		fmt.Sprintf("Thresholds applied: auto_match=%.2f review=%.2f ambiguity=%.2f (limit %d)",
			c.cfg.AutoMatchThreshold, c.cfg.ReviewThreshold, c.cfg.AmbiguityThreshold, c.cfg.AmbiguityLimit),
	}

	var missing []string
	queryMissing := make(map[string]bool)
	for _, f := range query.MissingFields() {
		queryMissing[f] = true
		missing = append(missing, f+" (applicant)")
	}
	if best != nil {
		for _, fs := range best.Composite.FieldScores {
			if fs.Missing && !queryMissing[fs.Field] {
				missing = append(missing, fs.Field+" (reference "+best.ReferenceID+")")
			}
		}
	}
	if len(missing) > 0 {
		assumptions = append(assumptions, "Fields scored 0.0 as missing: "+strings.Join(missing, ", "))
	}

	if ambiguous {
		msg := fmt.Sprintf("Multiple candidates scored above %.2f; confidence in the top match is reduced", c.cfg.AmbiguityThreshold)
		if downgraded {
			msg = fmt.Sprintf("Multiple candidates scored above %.2f; AUTO_MATCH downgraded to MANUAL_REVIEW", c.cfg.AmbiguityThreshold)
		}
		assumptions = append(assumptions, msg)
	}

	return assumptions
}

// formatWeights renders the weight vector in canonical field order.
func formatWeights(weights map[string]float64) string {
	parts := make([]string, 0, len(weights))
	for _, field := range models.RecordFields {
		if w, ok := weights[field]; ok {
			parts = append(parts, fmt.Sprintf("%s=%.2f", field, w))
		}
	}
	return strings.Join(parts, " ")
}

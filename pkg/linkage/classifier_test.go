package linkage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/sage/pkg/models"
)

func candidateWithScore(id string, score float64) []models.CandidateMatch {
	return []models.CandidateMatch{{
		ReferenceID: id,
		Composite:   models.CompositeScore{Score: score},
		Rank:        1,
	}}
}

func TestClassifier_Classify(t *testing.T) {
	classifier := NewClassifier(DefaultConfig())
	query := fullRecord()

	t.Run("AutoMatch", func(t *testing.T) {
		result := classifier.Classify(query, candidateWithScore("ref-1", 0.95), false)
		assert.Equal(t, models.LinkageOutcomeAutoMatch, result.Outcome)
		assert.False(t, result.Ambiguous)
		require.NotNil(t, result.BestMatch)
		assert.Equal(t, "ref-1", result.BestMatch.ReferenceID)
	})

	t.Run("ExactlyAtAutoThreshold", func(t *testing.T) {
		result := classifier.Classify(query, candidateWithScore("ref-1", 0.9), false)
		assert.Equal(t, models.LinkageOutcomeAutoMatch, result.Outcome)
	})

	t.Run("ReviewBand", func(t *testing.T) {
		result := classifier.Classify(query, candidateWithScore("ref-1", 0.7), false)
		assert.Equal(t, models.LinkageOutcomeManualReview, result.Outcome)
	})

	t.Run("BelowReview", func(t *testing.T) {
		result := classifier.Classify(query, candidateWithScore("ref-1", 0.69), false)
		assert.Equal(t, models.LinkageOutcomeNoMatch, result.Outcome)
	})

	t.Run("NoCandidates", func(t *testing.T) {
		result := classifier.Classify(query, nil, false)
		assert.Equal(t, models.LinkageOutcomeNoMatch, result.Outcome)
		assert.Nil(t, result.BestMatch)
		assert.Equal(t, 0.0, result.BestScore())
	})

	t.Run("AmbiguityDowngradesAutoMatch", func(t *testing.T) {
		result := classifier.Classify(query, candidateWithScore("ref-1", 0.95), true)
		assert.Equal(t, models.LinkageOutcomeManualReview, result.Outcome)
		assert.True(t, result.Ambiguous)
	})

	t.Run("AmbiguityNeverUpgrades", func(t *testing.T) {
		result := classifier.Classify(query, candidateWithScore("ref-1", 0.5), true)
		assert.Equal(t, models.LinkageOutcomeNoMatch, result.Outcome)
	})
}

func TestClassifier_Assumptions(t *testing.T) {
	classifier := NewClassifier(DefaultConfig())

	t.Run("AlwaysListsWeightsAndThresholds", func(t *testing.T) {
		result := classifier.Classify(fullRecord(), candidateWithScore("ref-1", 0.95), false)

		joined := strings.Join(result.Assumptions, "\n")
		assert.Contains(t, joined, "name=0.40")
		assert.Contains(t, joined, "dob=0.30")
		assert.Contains(t, joined, "auto_match=0.90")
		assert.Contains(t, joined, "review=0.70")
	})

	t.Run("ListsMissingApplicantFields", func(t *testing.T) {
		query := models.Record{Name: strPtr("John Doe")}
		result := classifier.Classify(query, candidateWithScore("ref-1", 0.4), false)

		joined := strings.Join(result.Assumptions, "\n")
		assert.Contains(t, joined, "dob (applicant)")
		assert.Contains(t, joined, "address (applicant)")
	})

	t.Run("ListsMissingReferenceFields", func(t *testing.T) {
		matches := []models.CandidateMatch{{
			ReferenceID: "ref-9",
			Composite: models.CompositeScore{
				Score: 0.6,
				FieldScores: []models.FieldScore{
					{Field: models.FieldName, Similarity: 1.0},
					{Field: models.FieldDOB, Similarity: 0.0, Missing: true},
				},
			},
			Rank: 1,
		}}
		result := classifier.Classify(fullRecord(), matches, false)

		joined := strings.Join(result.Assumptions, "\n")
		assert.Contains(t, joined, "dob (reference ref-9)")
	})

	t.Run("RecordsAmbiguityDowngrade", func(t *testing.T) {
		result := classifier.Classify(fullRecord(), candidateWithScore("ref-1", 0.95), true)

		joined := strings.Join(result.Assumptions, "\n")
		assert.Contains(t, joined, "downgraded to MANUAL_REVIEW")
	})
}

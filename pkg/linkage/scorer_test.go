package linkage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/sage/pkg/models"
)

func strPtr(s string) *string {
	return &s
}

func TestScorer_Levenshtein(t *testing.T) {
	scorer := NewScorer()

	t.Run("IdenticalStrings", func(t *testing.T) {
		assert.Equal(t, 1.0, scorer.Levenshtein("john doe", "john doe"))
	})

	t.Run("EmptyStrings", func(t *testing.T) {
		assert.Equal(t, 1.0, scorer.Levenshtein("", ""))
		assert.Equal(t, 0.0, scorer.Levenshtein("abc", ""))
	})

	t.Run("SingleEdit", func(t *testing.T) {
		// one insertion over 8 characters
		assert.InDelta(t, 0.875, scorer.Levenshtein("jon doe", "john doe"), 0.0001)
	})

	t.Run("MonotonicDegradation", func(t *testing.T) {
		oneEdit := scorer.Levenshtein("john doe", "jon doe")
		twoEdits := scorer.Levenshtein("john doe", "jan doe")
		threeEdits := scorer.Levenshtein("john doe", "jane do")
		assert.Greater(t, oneEdit, twoEdits)
		assert.GreaterOrEqual(t, twoEdits, threeEdits)
	})

	t.Run("Distance", func(t *testing.T) {
		assert.Equal(t, 0, scorer.LevenshteinDistance("abc", "abc"))
		assert.Equal(t, 1, scorer.LevenshteinDistance("jon", "john"))
		assert.Equal(t, 3, scorer.LevenshteinDistance("abc", "xyz"))
	})
}

func TestScorer_TokenSetRatio(t *testing.T) {
	scorer := NewScorer()

	t.Run("WordOrderInvariant", func(t *testing.T) {
		assert.Equal(t, 1.0, scorer.TokenSetRatio("john doe", "doe john"))
	})

	t.Run("DisjointTokens", func(t *testing.T) {
		score := scorer.TokenSetRatio("alice walker", "bob jones")
		assert.Less(t, score, 0.5)
	})

	t.Run("EmptyInput", func(t *testing.T) {
		assert.Equal(t, 0.0, scorer.TokenSetRatio("", "john"))
	})

	t.Run("SymmetricScore", func(t *testing.T) {
		a := scorer.TokenSetRatio("john q doe", "john doe")
		b := scorer.TokenSetRatio("john doe", "john q doe")
		assert.Equal(t, a, b)
	})
}

func TestScorer_FuzzyScore(t *testing.T) {
	scorer := NewScorer()

	t.Run("IdenticalScoresOne", func(t *testing.T) {
		assert.Equal(t, 1.0, scorer.FuzzyScore("john doe", "john doe"))
	})

	t.Run("ReorderedScoresOne", func(t *testing.T) {
		assert.Equal(t, 1.0, scorer.FuzzyScore("doe john", "john doe"))
	})

	t.Run("OneEditExceedsPointEight", func(t *testing.T) {
		// a single edit on a short name must stay well above the
		// ambiguity band
		assert.Greater(t, scorer.FuzzyScore("jon doe", "john doe"), 0.8)
	})

	t.Run("DisjointNearZero", func(t *testing.T) {
		assert.Less(t, scorer.FuzzyScore("aaa bbb", "xyz qrs"), 0.5)
	})
}

func TestScorer_MatchField(t *testing.T) {
	scorer := NewScorer()

	t.Run("AbsentFieldIsMissing", func(t *testing.T) {
		query := models.Record{Name: strPtr("John Doe")}
		candidate := models.Record{}

		fs := scorer.MatchField(models.FieldName, query, candidate)
		assert.Equal(t, 0.0, fs.Similarity)
		assert.True(t, fs.Missing)
	})

	t.Run("DissimilarFieldIsNotMissing", func(t *testing.T) {
		query := models.Record{DOB: strPtr("1985-03-15")}
		candidate := models.Record{DOB: strPtr("1990-01-01")}

		fs := scorer.MatchField(models.FieldDOB, query, candidate)
		assert.Equal(t, 0.0, fs.Similarity)
		assert.False(t, fs.Missing)
	})

	t.Run("DOBExactOnly", func(t *testing.T) {
		query := models.Record{DOB: strPtr("1985-03-15")}
		same := models.Record{DOB: strPtr("1985-03-15")}
		// one character off must not get partial credit
		offByOne := models.Record{DOB: strPtr("1985-03-16")}

		assert.Equal(t, 1.0, scorer.MatchField(models.FieldDOB, query, same).Similarity)
		assert.Equal(t, 0.0, scorer.MatchField(models.FieldDOB, query, offByOne).Similarity)
	})

	t.Run("MalformedDOBTreatedAsMissing", func(t *testing.T) {
		query := models.Record{DOB: strPtr("not-a-date")}
		candidate := models.Record{DOB: strPtr("1985-03-15")}

		fs := scorer.MatchField(models.FieldDOB, query, candidate)
		assert.Equal(t, 0.0, fs.Similarity)
		assert.True(t, fs.Missing)
	})

	t.Run("StateCaseInsensitive", func(t *testing.T) {
		query := models.Record{State: strPtr("fl")}
		candidate := models.Record{State: strPtr("FL")}

		fs := scorer.MatchField(models.FieldState, query, candidate)
		assert.Equal(t, 1.0, fs.Similarity)
	})

	t.Run("StateNeverFuzzy", func(t *testing.T) {
		query := models.Record{State: strPtr("FL")}
		candidate := models.Record{State: strPtr("GA")}

		fs := scorer.MatchField(models.FieldState, query, candidate)
		assert.Equal(t, 0.0, fs.Similarity)
		assert.False(t, fs.Missing)
	})

	t.Run("NameFuzzyAndNormalized", func(t *testing.T) {
		query := models.Record{Name: strPtr("Doe, John Jr.")}
		candidate := models.Record{Name: strPtr("john doe")}

		fs := scorer.MatchField(models.FieldName, query, candidate)
		assert.Equal(t, 1.0, fs.Similarity)
	})

	t.Run("AddressAbbreviations", func(t *testing.T) {
		query := models.Record{Address: strPtr("123 Main Street")}
		candidate := models.Record{Address: strPtr("123 Main St")}

		fs := scorer.MatchField(models.FieldAddress, query, candidate)
		assert.Equal(t, 1.0, fs.Similarity)
	})
}

package linkage

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/sage/pkg/models"
)

func newTestRanker(workers int) *Ranker {
	return NewRanker(NewCompositeScorer(DefaultConfig().Weights), workers)
}

func refRecord(id, name string) models.ReferenceRecord {
	return models.ReferenceRecord{
		ID: id,
		Record: models.Record{
			Name:    strPtr(name),
			DOB:     strPtr("1985-03-15"),
			State:   strPtr("FL"),
			Address: strPtr("123 Main St"),
		},
	}
}

func TestRanker_Rank(t *testing.T) {
	ranker := newTestRanker(4)
	query := fullRecord()

	t.Run("EmptyCollection", func(t *testing.T) {
		matches := ranker.Rank(context.Background(), query, nil)
		assert.Empty(t, matches)
	})

	t.Run("OrderedByScoreDescending", func(t *testing.T) {
		refs := []models.ReferenceRecord{
			refRecord("ref-1", "Completely Different"),
			refRecord("ref-2", "John Doe"),
			refRecord("ref-3", "Jon Doe"),
		}

		matches := ranker.Rank(context.Background(), query, refs)
		require.Len(t, matches, 3)
		assert.Equal(t, "ref-2", matches[0].ReferenceID)
		assert.Equal(t, "ref-3", matches[1].ReferenceID)
		assert.Equal(t, "ref-1", matches[2].ReferenceID)
		for i, m := range matches {
			assert.Equal(t, i+1, m.Rank)
		}
	})

	t.Run("TieBrokenByIdentifier", func(t *testing.T) {
		refs := []models.ReferenceRecord{
			refRecord("ref-b", "John Doe"),
			refRecord("ref-a", "John Doe"),
		}

		matches := ranker.Rank(context.Background(), query, refs)
		require.Len(t, matches, 2)
		assert.Equal(t, "ref-a", matches[0].ReferenceID)
		assert.Equal(t, "ref-b", matches[1].ReferenceID)
	})

	t.Run("AllZeroStillReportsBest", func(t *testing.T) {
		empty := models.Record{}
		refs := []models.ReferenceRecord{refRecord("ref-1", "John Doe")}

		matches := ranker.Rank(context.Background(), empty, refs)
		require.Len(t, matches, 1)
		assert.Equal(t, 0.0, matches[0].Composite.Score)
	})

	t.Run("DeterministicAcrossRuns", func(t *testing.T) {
		refs := make([]models.ReferenceRecord, 0, 50)
		for i := 0; i < 50; i++ {
			refs = append(refs, refRecord(fmt.Sprintf("ref-%02d", i), fmt.Sprintf("John Doe %d", i%5)))
		}

		first := ranker.Rank(context.Background(), query, refs)
		for run := 0; run < 5; run++ {
			assert.Equal(t, first, ranker.Rank(context.Background(), query, refs))
		}
	})

	t.Run("SingleWorkerMatchesParallel", func(t *testing.T) {
		serial := newTestRanker(1)
		refs := []models.ReferenceRecord{
			refRecord("ref-1", "John Doe"),
			refRecord("ref-2", "Jon Doe"),
			refRecord("ref-3", "Jane Roe"),
		}

		assert.Equal(t,
			serial.Rank(context.Background(), query, refs),
			ranker.Rank(context.Background(), query, refs))
	})
}

func TestAmbiguous(t *testing.T) {
	match := func(id string, score float64) models.CandidateMatch {
		return models.CandidateMatch{ReferenceID: id, Composite: models.CompositeScore{Score: score}}
	}

	t.Run("SingleStrongCandidate", func(t *testing.T) {
		matches := []models.CandidateMatch{match("a", 0.95), match("b", 0.5)}
		assert.False(t, Ambiguous(matches, 0.8, 1))
	})

	t.Run("TwoStrongCandidates", func(t *testing.T) {
		matches := []models.CandidateMatch{match("a", 0.95), match("b", 0.95)}
		assert.True(t, Ambiguous(matches, 0.8, 1))
	})

	t.Run("ThresholdIsStrict", func(t *testing.T) {
		// candidates at exactly the threshold do not count as strong
		matches := []models.CandidateMatch{match("a", 0.8), match("b", 0.8)}
		assert.False(t, Ambiguous(matches, 0.8, 1))
	})

	t.Run("HigherLimit", func(t *testing.T) {
		matches := []models.CandidateMatch{match("a", 0.9), match("b", 0.9)}
		assert.False(t, Ambiguous(matches, 0.8, 2))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.False(t, Ambiguous(nil, 0.8, 1))
	})
}

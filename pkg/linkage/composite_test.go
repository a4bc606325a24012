package linkage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/sage/pkg/models"
)

func fullRecord() models.Record {
	return models.Record{
		Name:    strPtr("John Doe"),
		DOB:     strPtr("1985-03-15"),
		State:   strPtr("FL"),
		Address: strPtr("123 Main St"),
	}
}

func TestCompositeScorer_Identity(t *testing.T) {
	scorer := NewCompositeScorer(DefaultConfig().Weights)

	record := fullRecord()
	composite := scorer.Score(record, record)

	assert.Equal(t, 1.0, composite.Score)
	for _, fs := range composite.FieldScores {
		assert.Equal(t, 1.0, fs.Similarity)
		assert.False(t, fs.Missing)
	}
}

func TestCompositeScorer_Determinism(t *testing.T) {
	scorer := NewCompositeScorer(DefaultConfig().Weights)

	query := fullRecord()
	candidate := models.Record{
		Name:    strPtr("Jon Doe"),
		DOB:     strPtr("1985-03-15"),
		State:   strPtr("FL"),
		Address: strPtr("125 Main St"),
	}

	first := scorer.Score(query, candidate)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, scorer.Score(query, candidate))
	}
}

func TestCompositeScorer_Monotonicity(t *testing.T) {
	scorer := NewCompositeScorer(DefaultConfig().Weights)
	query := fullRecord()

	// improving one field while holding the rest fixed never lowers the score
	worse := models.Record{
		Name:    strPtr("Jane Roe"),
		DOB:     strPtr("1985-03-15"),
		State:   strPtr("FL"),
		Address: strPtr("123 Main St"),
	}
	better := models.Record{
		Name:    strPtr("Jon Doe"),
		DOB:     strPtr("1985-03-15"),
		State:   strPtr("FL"),
		Address: strPtr("123 Main St"),
	}

	assert.GreaterOrEqual(t, scorer.Score(query, better).Score, scorer.Score(query, worse).Score)
}

func TestCompositeScorer_UnweightedFieldsIgnored(t *testing.T) {
	// only name is weighted; a wildly different address must not matter
	scorer := NewCompositeScorer(map[string]float64{models.FieldName: 1.0})

	query := fullRecord()
	candidate := models.Record{
		Name:    strPtr("John Doe"),
		Address: strPtr("999 Elsewhere Blvd"),
	}

	composite := scorer.Score(query, candidate)
	assert.Equal(t, 1.0, composite.Score)
	require.Len(t, composite.FieldScores, 1)
	assert.Equal(t, models.FieldName, composite.FieldScores[0].Field)
}

func TestCompositeScorer_MissingFieldContributesZero(t *testing.T) {
	scorer := NewCompositeScorer(DefaultConfig().Weights)

	query := fullRecord()
	candidate := models.Record{
		Name:  strPtr("John Doe"),
		State: strPtr("FL"),
		// dob and address absent
	}

	composite := scorer.Score(query, candidate)
	assert.InDelta(t, 0.6, composite.Score, 1e-9)

	dob, ok := composite.FieldScore(models.FieldDOB)
	require.True(t, ok)
	assert.True(t, dob.Missing)
	assert.Equal(t, 0.0, dob.Similarity)
}

func TestCompositeScorer_WeightsCaptured(t *testing.T) {
	weights := map[string]float64{models.FieldName: 0.5, models.FieldDOB: 0.5}
	scorer := NewCompositeScorer(weights)

	composite := scorer.Score(fullRecord(), fullRecord())

	// the result carries its own copy of the weight vector
	assert.Equal(t, weights, composite.Weights)
	weights[models.FieldName] = 0.9
	assert.Equal(t, 0.5, composite.Weights[models.FieldName])
}

func TestConfig_Validate(t *testing.T) {
	t.Run("DefaultIsValid", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate())
	})

	t.Run("WeightsMustSumToOne", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Weights = map[string]float64{models.FieldName: 0.5, models.FieldDOB: 0.4}

		err := cfg.Validate()
		require.Error(t, err)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "weights", cfgErr.Param)
	})

	t.Run("WeightSumTolerance", func(t *testing.T) {
		cfg := DefaultConfig()
		// floating error inside 1e-9 of 1.0 is accepted
		cfg.Weights = map[string]float64{
			models.FieldName: 0.1, models.FieldDOB: 0.2,
			models.FieldState: 0.3, models.FieldAddress: 0.4,
		}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("EmptyWeights", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Weights = nil
		assert.Error(t, cfg.Validate())
	})

	t.Run("NegativeWeight", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Weights = map[string]float64{models.FieldName: 1.5, models.FieldDOB: -0.5}
		assert.Error(t, cfg.Validate())
	})

	t.Run("ThresholdRange", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.AutoMatchThreshold = 1.2
		assert.Error(t, cfg.Validate())
	})

	t.Run("ThresholdOrdering", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ReviewThreshold = 0.95
		cfg.AutoMatchThreshold = 0.9
		assert.Error(t, cfg.Validate())
	})

	t.Run("AmbiguityLimit", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.AmbiguityLimit = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("WorkerCount", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.WorkerCount = 0
		assert.Error(t, cfg.Validate())
	})
}

package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/sage/pkg/models"
)

func strPtr(s string) *string {
	return &s
}

func TestMinimumAgeRule(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("MeetsMinimum", func(t *testing.T) {
		record := models.Record{DOB: strPtr("1985-03-15")}

		result := MinimumAgeRule(record, 21, now)
		assert.Equal(t, RuleStatusPassed, result.Status)
		assert.Contains(t, result.Detail, "age 39")
	})

	t.Run("BelowMinimum", func(t *testing.T) {
		record := models.Record{DOB: strPtr("2005-08-20")}

		result := MinimumAgeRule(record, 21, now)
		assert.Equal(t, RuleStatusFailed, result.Status)
		assert.Contains(t, result.Detail, "age 18")
	})

	t.Run("BirthdayNotYetReached", func(t *testing.T) {
		record := models.Record{DOB: strPtr("2003-06-02")}

		result := MinimumAgeRule(record, 21, now)
		assert.Equal(t, RuleStatusFailed, result.Status)
		assert.Contains(t, result.Detail, "age 20")
	})

	t.Run("BirthdayToday", func(t *testing.T) {
		record := models.Record{DOB: strPtr("2003-06-01")}

		result := MinimumAgeRule(record, 21, now)
		assert.Equal(t, RuleStatusPassed, result.Status)
		assert.Contains(t, result.Detail, "age 21")
	})

	t.Run("PaddedDOBStillParses", func(t *testing.T) {
		record := models.Record{DOB: strPtr(" 1985-03-15 ")}

		result := MinimumAgeRule(record, 21, now)
		assert.Equal(t, RuleStatusPassed, result.Status)
	})

	t.Run("MissingDOB", func(t *testing.T) {
		result := MinimumAgeRule(models.Record{}, 21, now)
		assert.Equal(t, RuleStatusUnknown, result.Status)
		assert.Contains(t, result.Detail, "missing")
	})

	t.Run("MalformedDOB", func(t *testing.T) {
		record := models.Record{DOB: strPtr("03/15/1985")}

		result := MinimumAgeRule(record, 21, now)
		assert.Equal(t, RuleStatusUnknown, result.Status)
		assert.Contains(t, result.Detail, "not a valid date")
	})

	t.Run("FutureDOBFloorsAtZero", func(t *testing.T) {
		record := models.Record{DOB: strPtr("2030-01-01")}

		result := MinimumAgeRule(record, 21, now)
		assert.Equal(t, RuleStatusFailed, result.Status)
		assert.Contains(t, result.Detail, "age 0")
	})
}

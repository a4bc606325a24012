package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/sage/pkg/models"
)

func strPtr(s string) *string {
	return &s
}

func TestRecord(t *testing.T) {
	base := models.Record{
		Name:    strPtr("John Doe"),
		DOB:     strPtr("1985-03-15"),
		State:   strPtr("FL"),
		Address: strPtr("123 Main St"),
	}

	t.Run("Deterministic", func(t *testing.T) {
		assert.Equal(t, Record(base), Record(base))
	})

	t.Run("ChangesWithValue", func(t *testing.T) {
		changed := base
		changed.Name = strPtr("Jane Doe")
		assert.NotEqual(t, Record(base), Record(changed))
	})

	t.Run("AbsentDiffersFromEmpty", func(t *testing.T) {
		absent := models.Record{Name: strPtr("John Doe")}
		empty := models.Record{Name: strPtr("John Doe"), DOB: strPtr("")}
		assert.NotEqual(t, Record(absent), Record(empty))
	})

	t.Run("AbsentDiffersFromWhitespace", func(t *testing.T) {
		absent := models.Record{Name: strPtr("John Doe")}
		blank := models.Record{Name: strPtr("John Doe"), DOB: strPtr(" ")}
		assert.NotEqual(t, Record(absent), Record(blank))
	})

	t.Run("FieldValuesDoNotBleedAcrossFields", func(t *testing.T) {
		a := models.Record{Name: strPtr("x"), DOB: strPtr("")}
		b := models.Record{Name: strPtr("x"), State: strPtr("")}
		assert.NotEqual(t, Record(a), Record(b))
	})
}

func TestHasChanged(t *testing.T) {
	record := models.Record{Name: strPtr("John Doe")}
	fp := Record(record)

	assert.False(t, HasChanged(fp, Record(record)))

	record.Name = strPtr("Jane Doe")
	assert.True(t, HasChanged(fp, Record(record)))
}

package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("GetBuiltin", func(t *testing.T) {
		fn, ok := Get("lowercase")
		require.True(t, ok)
		assert.Equal(t, "abc", fn("ABC"))
	})

	t.Run("GetUnknown", func(t *testing.T) {
		_, ok := Get("nope")
		assert.False(t, ok)
	})

	t.Run("ApplyUnknownReturnsValueUnchanged", func(t *testing.T) {
		assert.Equal(t, "AbC", Apply("AbC", "nope"))
	})

	t.Run("RegisterCustom", func(t *testing.T) {
		Register("reverse_case_test", func(s string) string { return s + "!" })
		assert.Equal(t, "x!", Apply("x", "reverse_case_test"))
	})
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Lowercases", "John Doe", "john doe"},
		{"StripsSuffix", "John Doe Jr.", "john doe"},
		{"StripsRomanSuffix", "John Doe III", "john doe"},
		{"CommaFormTokenizes", "Doe, John", "doe john"},
		{"CollapsesWhitespace", "  John   Doe  ", "john doe"},
		{"SuffixAndPunctuation", "Doe, John Jr.", "doe john"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"AbbreviatesStreet", "123 Main Street", "123 main st"},
		{"AbbreviatesAvenueAndDirection", "55 North Park Avenue", "55 n park ave"},
		{"AlreadyAbbreviated", "123 Main St", "123 main st"},
		{"StripsPunctuation", "123 Main St., Apt. 4", "123 main st apt 4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeAddress(tt.input))
		})
	}
}

func TestNormalizeState(t *testing.T) {
	assert.Equal(t, "FL", NormalizeState(" fl "))
	assert.Equal(t, "NY", NormalizeState("NY"))
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "1985-03-15", NormalizeDate(" 1985-03-15 "))
}

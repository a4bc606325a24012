package linkage

import (
	"sort"
	"strings"
	"time"

	"github.com/Ramsey-B/sage/pkg/models"
	"github.com/Ramsey-B/sage/pkg/normalizers"
)

// Scorer provides the string and value comparison algorithms used for
// per-field similarity
type Scorer struct{}

// NewScorer creates a new Scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// ExactMatch returns 1.0 for exact match, 0.0 otherwise
func (s *Scorer) ExactMatch(a, b string) float64 {
	if a == b {
		return 1.0
	}
	return 0.0
}

// Levenshtein calculates an edit-distance similarity between two strings
// Returns a score between 0.0 and 1.0
func (s *Scorer) Levenshtein(a, b string) float64 {
	distance := s.LevenshteinDistance(a, b)
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

// LevenshteinDistance calculates the edit distance between two strings
func (s *Scorer) LevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Two rows for dynamic programming
	row := make([]int, len(b)+1)
	prevRow := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prevRow[j] = j
	}

	for i := 1; i <= len(a); i++ {
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			row[j] = min(min(row[j-1]+1, prevRow[j]+1), prevRow[j-1]+cost)
		}
		row, prevRow = prevRow, row
	}

	return prevRow[len(b)]
}

// TokenSetRatio compares two strings as sets of whitespace-separated tokens,
// so the score is invariant to word order ("John Doe" vs "Doe John" is 1.0).
// Each token is matched to its closest counterpart by edit-distance
// similarity; the result is the symmetric average of those best matches.
func (s *Scorer) TokenSetRatio(a, b string) float64 {
	ta := tokenize(a)
	tb := tokenize(b)

	if len(ta) == 0 || len(tb) == 0 {
		return 0.0
	}
	if equalTokenSets(ta, tb) {
		return 1.0
	}

	return (s.bestTokenAverage(ta, tb) + s.bestTokenAverage(tb, ta)) / 2
}

// bestTokenAverage scores each token in from against its best match in to
// and averages the results.
func (s *Scorer) bestTokenAverage(from, to []string) float64 {
	var total float64
	for _, t := range from {
		best := 0.0
		for _, u := range to {
			if sim := s.Levenshtein(t, u); sim > best {
				best = sim
			}
		}
		total += best
	}
	return total / float64(len(from))
}

// FuzzyScore is the similarity used for free-text fields (names, addresses).
// The token-set comparison handles reordering; the whole-string edit distance
// handles spacing differences the tokenizer splits apart. Identical
// normalized strings score 1.0 and the score degrades monotonically with
// edit distance.
func (s *Scorer) FuzzyScore(a, b string) float64 {
	tokenScore := s.TokenSetRatio(a, b)
	editScore := s.Levenshtein(a, b)
	if editScore > tokenScore {
		return editScore
	}
	return tokenScore
}

// dobLayout is the ISO 8601 date format expected from extraction
const dobLayout = "2006-01-02"

// MatchField scores the similarity of one named field between a query record
// and a candidate record. Absent fields score 0.0 with Missing set; a
// malformed value in an exact-match field is treated the same way rather
// than failing the whole ranking.
func (s *Scorer) MatchField(field string, query, candidate models.Record) models.FieldScore {
	qv, qok := query.Field(field)
	cv, cok := candidate.Field(field)
	if !qok || !cok {
		return models.FieldScore{Field: field, Similarity: 0.0, Missing: true}
	}

	switch field {
	case models.FieldDOB:
		// Dates are safety-critical: exact match only, never fuzzy
		qd := normalizers.NormalizeDate(qv)
		cd := normalizers.NormalizeDate(cv)
		if !validDate(qd) || !validDate(cd) {
			return models.FieldScore{Field: field, Similarity: 0.0, Missing: true}
		}
		return models.FieldScore{Field: field, Similarity: s.ExactMatch(qd, cd)}

	case models.FieldState:
		// Jurisdictions are safety-critical: exact match only
		qs := normalizers.NormalizeState(qv)
		cs := normalizers.NormalizeState(cv)
		if qs == "" || cs == "" {
			return models.FieldScore{Field: field, Similarity: 0.0, Missing: true}
		}
		return models.FieldScore{Field: field, Similarity: s.ExactMatch(qs, cs)}

	case models.FieldName:
		return models.FieldScore{Field: field, Similarity: s.FuzzyScore(normalizers.NormalizeName(qv), normalizers.NormalizeName(cv))}

	case models.FieldAddress:
		return models.FieldScore{Field: field, Similarity: s.FuzzyScore(normalizers.NormalizeAddress(qv), normalizers.NormalizeAddress(cv))}

	default:
		// Unknown fields fall back to normalized exact comparison
		return models.FieldScore{Field: field, Similarity: s.ExactMatch(strings.ToLower(strings.TrimSpace(qv)), strings.ToLower(strings.TrimSpace(cv)))}
	}
}

func validDate(s string) bool {
	_, err := time.Parse(dobLayout, s)
	return err == nil
}

// tokenize splits a normalized string into sorted, deduplicated tokens
func tokenize(s string) []string {
	fields := strings.Fields(s)
	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	sort.Strings(tokens)
	return tokens
}

func equalTokenSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

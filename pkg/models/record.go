package models

import "strings"

// Field names recognized by the linkage core. These match the contract with
// the upstream extraction service, which may omit any of them.
const (
	FieldName    = "name"
	FieldDOB     = "dob"
	FieldState   = "state"
	FieldAddress = "address"
)

// RecordFields is the canonical field ordering. Scoring and reporting iterate
// in this order so output is stable across runs.
var RecordFields = []string{FieldName, FieldDOB, FieldState, FieldAddress}

// Record is an immutable set of named optional fields describing a person.
// A nil pointer means the field was never extracted, which is distinct from
// an empty string.
type Record struct {
	Name    *string `json:"name,omitempty"`
	DOB     *string `json:"dob,omitempty"` // ISO 8601 date (YYYY-MM-DD)
	State   *string `json:"state,omitempty"`
	Address *string `json:"address,omitempty"`
}

// Raw returns the stored pointer for a named field. Nil means the field
// was never extracted, which callers needing the absent-versus-empty
// distinction must not conflate with an empty value.
func (r Record) Raw(name string) *string {
	switch name {
	case FieldName:
		return r.Name
	case FieldDOB:
		return r.DOB
	case FieldState:
		return r.State
	case FieldAddress:
		return r.Address
	}
	return nil
}

// Field returns the value of a named field and whether it is present.
// Whitespace-only values count as absent.
func (r Record) Field(name string) (string, bool) {
	v := r.Raw(name)
	if v == nil || strings.TrimSpace(*v) == "" {
		return "", false
	}
	return *v, true
}

// MissingFields returns the names of fields absent from the record, in
// canonical order.
func (r Record) MissingFields() []string {
	var missing []string
	for _, f := range RecordFields {
		if _, ok := r.Field(f); !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// ReferenceRecord is a background-check record loaded from the reference
// collection. The ID is an opaque external identifier used only for
// reporting and deterministic tie-breaking.
type ReferenceRecord struct {
	ID     string `json:"id"`
	Record Record `json:"record"`
}

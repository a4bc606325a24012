package models

import "time"

// DecisionOutcome is the final eligibility outcome for one request.
type DecisionOutcome string

const (
	DecisionOutcomeApproved     DecisionOutcome = "APPROVED"
	DecisionOutcomeDenied       DecisionOutcome = "DENIED"
	DecisionOutcomeManualReview DecisionOutcome = "MANUAL_REVIEW"
)

// RiskAssessment is produced by the external risk service and consumed as an
// opaque value; the core never calls out to it.
type RiskAssessment struct {
	Score      float64  `json:"score" validate:"gte=0,lte=1"`
	Confidence float64  `json:"confidence" validate:"gte=0,lte=1"`
	Factors    []string `json:"factors,omitempty"`
}

// EligibilityDecision is the final decision for one request. It is created
// once, never mutated, and never retried inside the core. Rationale lists
// every rule evaluated in precedence order, not only the triggering one.
type EligibilityDecision struct {
	Outcome    DecisionOutcome `json:"outcome"`
	Confidence float64         `json:"confidence"`
	Rationale  []string        `json:"rationale"`
	DecidedAt  time.Time       `json:"decided_at"`
}

// AssessRequest is the API request to assess an applicant. The risk
// assessment is computed upstream and passed through.
type AssessRequest struct {
	ApplicantID string            `json:"applicant_id" validate:"required"`
	Applicant   Record            `json:"applicant" validate:"required"`
	Risk        RiskAssessment    `json:"risk" validate:"required"`
	Overrides   *LinkageOverrides `json:"overrides,omitempty"`
}

// LinkageOverrides optionally replaces linkage parameters for a single
// request, e.g. for threshold experiments. Absent fields keep the
// configured values; a full weight vector must be supplied to change any
// weight.
type LinkageOverrides struct {
	Weights            map[string]float64 `json:"weights,omitempty"`
	AutoMatchThreshold *float64           `json:"auto_match_threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
	ReviewThreshold    *float64           `json:"review_threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
	AmbiguityThreshold *float64           `json:"ambiguity_threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
	AmbiguityLimit     *int               `json:"ambiguity_limit,omitempty" validate:"omitempty,gte=1"`
}

// AssessResponse carries the decision and the linkage result it was derived
// from, shaped for direct inclusion in an audit log.
type AssessResponse struct {
	ApplicantID string              `json:"applicant_id"`
	Decision    EligibilityDecision `json:"decision"`
	Linkage     LinkageResult       `json:"linkage"`
}

// CreateReferenceRecordRequest is the request to create or replace a
// reference record.
type CreateReferenceRecordRequest struct {
	ID     string `json:"id" validate:"required"`
	Record Record `json:"record" validate:"required"`
}

// ReferenceRecordListResponse pages through stored reference records.
type ReferenceRecordListResponse struct {
	Items      []StoredReferenceRecord `json:"items"`
	TotalCount int                     `json:"total_count"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"page_size"`
}

// StoredReferenceRecord is a reference record row with persistence metadata.
type StoredReferenceRecord struct {
	ID          string     `json:"id" db:"id"`
	TenantID    string     `json:"tenant_id" db:"tenant_id"`
	Name        *string    `json:"name,omitempty" db:"name"`
	DOB         *string    `json:"dob,omitempty" db:"dob"`
	State       *string    `json:"state,omitempty" db:"state"`
	Address     *string    `json:"address,omitempty" db:"address"`
	Fingerprint string     `json:"fingerprint" db:"fingerprint"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// ToReferenceRecord converts a stored row to the shape the linkage core
// consumes.
func (s StoredReferenceRecord) ToReferenceRecord() ReferenceRecord {
	return ReferenceRecord{
		ID: s.ID,
		Record: Record{
			Name:    s.Name,
			DOB:     s.DOB,
			State:   s.State,
			Address: s.Address,
		},
	}
}

package eligibility

import (
	"fmt"
	"time"

	"github.com/Ramsey-B/sage/pkg/models"
	"github.com/Ramsey-B/sage/pkg/normalizers"
)

// RuleStatus is the tri-state outcome of one business rule.
type RuleStatus string

const (
	RuleStatusPassed  RuleStatus = "PASSED"
	RuleStatusFailed  RuleStatus = "FAILED"
	RuleStatusUnknown RuleStatus = "UNKNOWN" // rule could not be evaluated from the record
)

// RuleResult is the evaluation of one business rule against the
// applicant record.
type RuleResult struct {
	Name   string
	Status RuleStatus
	Detail string
}

const dobLayout = "2006-01-02"

// MinimumAgeRule checks that the applicant's date of birth places them
// at or above the configured minimum age. A missing or unparseable
// date of birth yields UNKNOWN, never an error.
func MinimumAgeRule(record models.Record, minimumAge int, now time.Time) RuleResult {
	result := RuleResult{Name: "minimum_age"}

	value, ok := record.Field(models.FieldDOB)
	if !ok {
		result.Status = RuleStatusUnknown
		result.Detail = "date of birth is missing, age could not be established"
		return result
	}

	dob, err := time.Parse(dobLayout, normalizers.NormalizeDate(value))
	if err != nil {
		result.Status = RuleStatusUnknown
		result.Detail = fmt.Sprintf("date of birth %q is not a valid date, age could not be established", value)
		return result
	}

	age := ageAt(dob, now)
	if age < minimumAge {
		result.Status = RuleStatusFailed
		result.Detail = fmt.Sprintf("applicant age %d is below the minimum eligible age %d", age, minimumAge)
		return result
	}

	result.Status = RuleStatusPassed
	result.Detail = fmt.Sprintf("applicant age %d meets the minimum eligible age %d", age, minimumAge)
	return result
}

// ageAt returns whole years elapsed between dob and now.
func ageAt(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}

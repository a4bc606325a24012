package eligibility

import (
	"fmt"
	"strings"
	"time"

	"github.com/Ramsey-B/sage/pkg/linkage"
	"github.com/Ramsey-B/sage/pkg/models"
)

// Config holds the eligibility policy parameters.
type Config struct {
	// RiskDenialThreshold denies any applicant whose external risk score
	// exceeds it.
	RiskDenialThreshold float64
	// MinimumAge is the minimum eligible age in whole years.
	MinimumAge int
}

func DefaultConfig() Config {
	return Config{
		RiskDenialThreshold: 0.7,
		MinimumAge:          21,
	}
}

func (c Config) Validate() error {
	if c.RiskDenialThreshold < 0 || c.RiskDenialThreshold > 1 {
		return &linkage.ConfigError{Param: "risk_denial_threshold", Reason: fmt.Sprintf("must be in [0.0, 1.0], got %v", c.RiskDenialThreshold)}
	}
	if c.MinimumAge < 0 {
		return &linkage.ConfigError{Param: "minimum_age", Reason: fmt.Sprintf("must not be negative, got %d", c.MinimumAge)}
	}
	return nil
}

// Combiner merges a linkage result, an externally supplied risk
// assessment, and the business rules into one decision.
type Combiner struct {
	cfg Config
	now func() time.Time
}

func NewCombiner(cfg Config) (*Combiner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Combiner{cfg: cfg, now: time.Now}, nil
}

func (c *Combiner) Config() Config {
	return c.cfg
}

// Decide produces exactly one decision for the applicant. The policy
// is evaluated in precedence order and every rule contributes one
// rationale entry whether or not it triggered.
func (c *Combiner) Decide(applicant models.Record, link models.LinkageResult, risk models.RiskAssessment) models.EligibilityDecision {
	ageRule := MinimumAgeRule(applicant, c.cfg.MinimumAge, c.now().UTC())
	established := ageRule.Status != RuleStatusUnknown

	outcome := models.DecisionOutcomeApproved
	rationale := make([]string, 0, 5)

	// 1. Unconfirmed identity with no independent eligibility basis.
	identityGap := link.Outcome == models.LinkageOutcomeNoMatch && !established
	if identityGap {
		outcome = models.DecisionOutcomeManualReview
		rationale = append(rationale, "identity check: no reference match and eligibility could not be established from the application alone")
	} else {
		rationale = append(rationale, fmt.Sprintf("identity check: linkage outcome %s with best score %.3f", link.Outcome, link.BestScore()))
	}

	// 2. Hard business rule failure denies regardless of risk.
	rationale = append(rationale, fmt.Sprintf("minimum age: %s", ageRule.Detail))
	if !identityGap && ageRule.Status == RuleStatusFailed {
		outcome = models.DecisionOutcomeDenied
	}

	// 3. Identity uncertainty dominates the risk score.
	if link.Outcome == models.LinkageOutcomeManualReview {
		rationale = append(rationale, "identity confidence: linkage requires manual review")
		if outcome == models.DecisionOutcomeApproved {
			outcome = models.DecisionOutcomeManualReview
		}
	} else {
		rationale = append(rationale, "identity confidence: linkage outcome did not require manual review")
	}

	// 4. External risk score.
	if risk.Score > c.cfg.RiskDenialThreshold {
		rationale = append(rationale, fmt.Sprintf("risk: score %.3f exceeds denial threshold %.3f%s", risk.Score, c.cfg.RiskDenialThreshold, riskFactors(risk)))
		if outcome == models.DecisionOutcomeApproved {
			outcome = models.DecisionOutcomeDenied
		}
	} else {
		rationale = append(rationale, fmt.Sprintf("risk: score %.3f within denial threshold %.3f%s", risk.Score, c.cfg.RiskDenialThreshold, riskFactors(risk)))
	}

	// 5. Nothing above triggered.
	if outcome == models.DecisionOutcomeApproved {
		rationale = append(rationale, "approved: all checks passed")
	} else {
		rationale = append(rationale, fmt.Sprintf("outcome: %s", outcome))
	}

	confidence := link.BestScore()
	if risk.Confidence < confidence {
		confidence = risk.Confidence
	}

	return models.EligibilityDecision{
		Outcome:    outcome,
		Confidence: confidence,
		Rationale:  rationale,
		DecidedAt:  c.now().UTC(),
	}
}

func riskFactors(risk models.RiskAssessment) string {
	if len(risk.Factors) == 0 {
		return ""
	}
	return fmt.Sprintf(" (factors: %s)", strings.Join(risk.Factors, ", "))
}

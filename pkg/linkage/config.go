package linkage

import (
	"fmt"
	"math"

	"github.com/Ramsey-B/sage/pkg/models"
)

// weightTolerance is the floating tolerance for the weight-sum invariant
const weightTolerance = 1e-9

// Config contains the scoring and classification parameters for the linkage
// engine. All values are injected per engine instance; concurrent requests
// with different configurations never interfere.
type Config struct {
	Weights            map[string]float64 // Per-field weight vector; must sum to 1.0
	AutoMatchThreshold float64            // Score at or above which an unambiguous best match is AUTO_MATCH (default: 0.9)
	ReviewThreshold    float64            // Score at or above which a match is at least MANUAL_REVIEW (default: 0.7)
	AmbiguityThreshold float64            // Composite score above which a candidate counts as "strong" (default: 0.8)
	AmbiguityLimit     int                // More than this many strong candidates flags ambiguity (default: 1)
	WorkerCount        int                // Parallelism for candidate scoring (default: 4)
}

// DefaultConfig returns the default linkage configuration. Weights follow
// field reliability: names dominate, addresses are least reliable.
func DefaultConfig() Config {
	return Config{
		Weights: map[string]float64{
			models.FieldName:    0.4,
			models.FieldDOB:     0.3,
			models.FieldState:   0.2,
			models.FieldAddress: 0.1,
		},
		AutoMatchThreshold: 0.9,
		ReviewThreshold:    0.7,
		AmbiguityThreshold: 0.8,
		AmbiguityLimit:     1,
		WorkerCount:        4,
	}
}

// ConfigError reports an invalid linkage configuration. It is fatal: the
// engine refuses to start rather than silently clamping.
type ConfigError struct {
	Param  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid linkage config: %s: %s", e.Param, e.Reason)
}

// Validate checks the configuration invariants. Any violation is a
// ConfigError and must abort startup.
func (c Config) Validate() error {
	if len(c.Weights) == 0 {
		return &ConfigError{Param: "weights", Reason: "no field weights configured"}
	}

	var sum float64
	for field, w := range c.Weights {
		if w < 0.0 || w > 1.0 {
			return &ConfigError{Param: "weights." + field, Reason: fmt.Sprintf("weight %v outside [0,1]", w)}
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return &ConfigError{Param: "weights", Reason: fmt.Sprintf("weights sum to %v, expected 1.0", sum)}
	}

	for _, t := range []struct {
		name  string
		value float64
	}{
		{"auto_match_threshold", c.AutoMatchThreshold},
		{"review_threshold", c.ReviewThreshold},
		{"ambiguity_threshold", c.AmbiguityThreshold},
	} {
		if t.value < 0.0 || t.value > 1.0 {
			return &ConfigError{Param: t.name, Reason: fmt.Sprintf("threshold %v outside [0,1]", t.value)}
		}
	}

	if c.ReviewThreshold > c.AutoMatchThreshold {
		return &ConfigError{Param: "review_threshold", Reason: fmt.Sprintf("review threshold %v exceeds auto-match threshold %v", c.ReviewThreshold, c.AutoMatchThreshold)}
	}

	if c.AmbiguityLimit < 1 {
		return &ConfigError{Param: "ambiguity_limit", Reason: "must be at least 1"}
	}
	if c.WorkerCount < 1 {
		return &ConfigError{Param: "worker_count", Reason: "must be at least 1"}
	}

	return nil
}

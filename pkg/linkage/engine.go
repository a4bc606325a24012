// Package linkage implements probabilistic record linkage: per-field
// similarity scoring, weighted composite confidence, candidate ranking with
// ambiguity detection, and tri-state classification. The package does no
// I/O and holds no shared mutable state, so every outcome is reproducible
// from its inputs.
package linkage

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/sage/pkg/models"
	"github.com/Ramsey-B/sage/pkg/tracing"
)

// Engine runs the full linkage pipeline for one query record against a
// reference collection snapshot. Safe for concurrent use; configuration is
// fixed at construction.
type Engine struct {
	logger     ectologger.Logger
	ranker     *Ranker
	classifier *Classifier
	cfg        Config
}

// NewEngine creates a linkage engine. Configuration is validated here and a
// ConfigError aborts startup; the engine never runs with a weight vector
// that does not sum to 1.0 or with inconsistent thresholds.
func NewEngine(logger ectologger.Logger, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	scorer := NewCompositeScorer(cfg.Weights)
	return &Engine{
		logger:     logger,
		ranker:     NewRanker(scorer, cfg.WorkerCount),
		classifier: NewClassifier(cfg),
		cfg:        cfg,
	}, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// WithConfig returns a new engine sharing this engine's logger but running
// with a different configuration. Used for per-request threshold or weight
// overrides; the override config is validated the same way as at startup.
func (e *Engine) WithConfig(cfg Config) (*Engine, error) {
	return NewEngine(e.logger, cfg)
}

// Link ranks the query against the reference snapshot and classifies the
// outcome. The snapshot must not be mutated while the call is in progress;
// callers own that guarantee.
func (e *Engine) Link(ctx context.Context, query models.Record, refs []models.ReferenceRecord) models.LinkageResult {
	ctx, span := tracing.StartSpan(ctx, "linkage.Engine.Link")
	defer span.End()

	matches := e.ranker.Rank(ctx, query, refs)
	ambiguous := Ambiguous(matches, e.cfg.AmbiguityThreshold, e.cfg.AmbiguityLimit)
	result := e.classifier.Classify(query, matches, ambiguous)

	e.logger.WithContext(ctx).WithFields(map[string]any{
		"outcome":           result.Outcome,
		"best_score":        result.BestScore(),
		"ambiguous":         result.Ambiguous,
		"candidates_scored": result.CandidatesScored,
	}).Debug("Linkage complete")

	return result
}

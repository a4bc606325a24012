// Package decision orchestrates one assessment: reference snapshot,
// linkage, eligibility policy, and event emission.
package decision

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/sage/pkg/eligibility"
	"github.com/Ramsey-B/sage/pkg/events"
	"github.com/Ramsey-B/sage/pkg/linkage"
	"github.com/Ramsey-B/sage/pkg/models"
	"github.com/Ramsey-B/sage/pkg/refdata"
	"github.com/Ramsey-B/sage/pkg/tracing"
)

type Service struct {
	logger   ectologger.Logger
	engine   *linkage.Engine
	combiner *eligibility.Combiner
	store    *refdata.Store
	emitter  *events.Emitter
}

func NewService(logger ectologger.Logger, engine *linkage.Engine, combiner *eligibility.Combiner, store *refdata.Store, emitter *events.Emitter) *Service {
	return &Service{
		logger:   logger,
		engine:   engine,
		combiner: combiner,
		store:    store,
		emitter:  emitter,
	}
}

// Assess runs the full pipeline for one applicant and returns the
// decision together with the linkage result it was derived from.
func (s *Service) Assess(ctx context.Context, tenantID string, req models.AssessRequest) (*models.AssessResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "decision.Service.Assess")
	defer span.End()

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"tenant_id":    tenantID,
		"applicant_id": req.ApplicantID,
	})

	engine := s.engine
	if req.Overrides != nil {
		cfg := overrideConfig(s.engine.Config(), *req.Overrides)
		var err error
		engine, err = s.engine.WithConfig(cfg)
		if err != nil {
			return nil, httperror.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	snapshot, err := s.store.Snapshot(ctx, tenantID)
	if err != nil {
		log.WithError(err).Error("Failed to load reference snapshot")
		return nil, err
	}

	link := engine.Link(ctx, req.Applicant, snapshot)
	decided := s.combiner.Decide(req.Applicant, link, req.Risk)

	log.WithFields(map[string]any{
		"linkage_outcome": link.Outcome,
		"outcome":         decided.Outcome,
		"confidence":      decided.Confidence,
	}).Info("Assessed applicant")

	if s.emitter != nil {
		// Emission is best effort; the decision already stands.
		if err := s.emitter.EmitDecisionAssessed(ctx, tenantID, req.ApplicantID, decided, link); err != nil {
			log.WithError(err).Warn("Failed to emit decision event")
		}
	}

	return &models.AssessResponse{
		ApplicantID: req.ApplicantID,
		Decision:    decided,
		Linkage:     link,
	}, nil
}

// overrideConfig merges request overrides onto the base configuration.
func overrideConfig(base linkage.Config, overrides models.LinkageOverrides) linkage.Config {
	cfg := base
	if overrides.Weights != nil {
		cfg.Weights = overrides.Weights
	}
	if overrides.AutoMatchThreshold != nil {
		cfg.AutoMatchThreshold = *overrides.AutoMatchThreshold
	}
	if overrides.ReviewThreshold != nil {
		cfg.ReviewThreshold = *overrides.ReviewThreshold
	}
	if overrides.AmbiguityThreshold != nil {
		cfg.AmbiguityThreshold = *overrides.AmbiguityThreshold
	}
	if overrides.AmbiguityLimit != nil {
		cfg.AmbiguityLimit = *overrides.AmbiguityLimit
	}
	return cfg
}

// Package events handles event emission for decision and reference
// record lifecycle changes
package events

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/sage/pkg/kafka"
	"github.com/Ramsey-B/sage/pkg/models"
	"github.com/Ramsey-B/sage/pkg/tracing"
)

// EventType defines the type of event
type EventType string

const (
	EventTypeDecisionAssessed       EventType = "decision.assessed"
	EventTypeReferenceRecordUpdated EventType = "reference_record.updated"
	EventTypeReferenceRecordDeleted EventType = "reference_record.deleted"
)

// Emitter handles event emission for Sage
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitDecisionAssessed emits a decision event for an assessed application
func (e *Emitter) EmitDecisionAssessed(ctx context.Context, tenantID, applicantID string, decision models.EligibilityDecision, linkage models.LinkageResult) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitDecisionAssessed")
	defer span.End()

	event := &kafka.DecisionEvent{
		EventType:   string(EventTypeDecisionAssessed),
		TenantID:    tenantID,
		ApplicantID: applicantID,
		Decision:    decision,
		Linkage:     linkage,
	}

	if err := e.producer.PublishDecisionEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit decision.assessed event")
		return err
	}

	return nil
}

// EmitReferenceRecordUpdated emits an event for a changed reference record
func (e *Emitter) EmitReferenceRecordUpdated(ctx context.Context, tenantID, recordID string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitReferenceRecordUpdated")
	defer span.End()

	event := &kafka.ReferenceRecordEvent{
		EventType: string(EventTypeReferenceRecordUpdated),
		TenantID:  tenantID,
		RecordID:  recordID,
	}

	if err := e.producer.PublishReferenceRecordEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit reference_record.updated event")
		return err
	}

	return nil
}

// EmitReferenceRecordDeleted emits an event for a removed reference record
func (e *Emitter) EmitReferenceRecordDeleted(ctx context.Context, tenantID, recordID string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitReferenceRecordDeleted")
	defer span.End()

	event := &kafka.ReferenceRecordEvent{
		EventType: string(EventTypeReferenceRecordDeleted),
		TenantID:  tenantID,
		RecordID:  recordID,
	}

	if err := e.producer.PublishReferenceRecordEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit reference_record.deleted event")
		return err
	}

	return nil
}

package refdata

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/sage/internal/repositories/referencerecord"
	"github.com/Ramsey-B/sage/pkg/events"
	"github.com/Ramsey-B/sage/pkg/kafka"
	"github.com/Ramsey-B/sage/pkg/models"
	"github.com/Ramsey-B/sage/pkg/tracing"
)

// Ingestor applies reference record changes from the upstream registry
// sync topic and from the management API, keeping the repository, the
// in-memory snapshot, and the event stream consistent.
type Ingestor struct {
	repo    *referencerecord.Repository
	store   *Store
	emitter *events.Emitter
	logger  ectologger.Logger
}

func NewIngestor(repo *referencerecord.Repository, store *Store, emitter *events.Emitter, logger ectologger.Logger) *Ingestor {
	return &Ingestor{
		repo:    repo,
		store:   store,
		emitter: emitter,
		logger:  logger,
	}
}

// Upsert creates or replaces one reference record. Returns the stored
// row and whether anything changed.
func (i *Ingestor) Upsert(ctx context.Context, tenantID, id string, record models.Record) (*models.StoredReferenceRecord, bool, error) {
	ctx, span := tracing.StartSpan(ctx, "refdata.Ingestor.Upsert")
	defer span.End()

	stored, changed, err := i.repo.Upsert(ctx, tenantID, id, record)
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return stored, false, nil
	}

	i.store.Apply(tenantID, stored.ToReferenceRecord())

	if i.emitter != nil {
		// Emission is best effort; the write already happened.
		if err := i.emitter.EmitReferenceRecordUpdated(ctx, tenantID, id); err != nil {
			i.logger.WithContext(ctx).WithError(err).Warn("Failed to emit reference record event")
		}
	}
	return stored, true, nil
}

// Remove soft deletes one reference record. A missing record surfaces
// as a not-found error.
func (i *Ingestor) Remove(ctx context.Context, tenantID, id string) error {
	ctx, span := tracing.StartSpan(ctx, "refdata.Ingestor.Remove")
	defer span.End()

	if err := i.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	i.store.Remove(tenantID, id)

	if i.emitter != nil {
		if err := i.emitter.EmitReferenceRecordDeleted(ctx, tenantID, id); err != nil {
			i.logger.WithContext(ctx).WithError(err).Warn("Failed to emit reference record event")
		}
	}
	return nil
}

// Handle processes one consumed message. A returned error leaves the
// message uncommitted so it is retried.
func (i *Ingestor) Handle(ctx context.Context, msg *kafka.IncomingMessage) error {
	ctx, span := tracing.StartSpan(ctx, "refdata.Ingestor.Handle")
	defer span.End()

	change := msg.RecordMessage
	tenantID := msg.GetTenantID()

	log := i.logger.WithContext(ctx).WithFields(map[string]any{
		"tenant_id": tenantID,
		"record_id": change.ID,
		"op":        change.Op,
	})

	switch change.Op {
	case kafka.OpUpsert:
		_, changed, err := i.Upsert(ctx, tenantID, change.ID, change.Record)
		if err != nil {
			return err
		}
		if !changed {
			log.Debug("Reference record unchanged, skipping")
			return nil
		}
		log.Info("Ingested reference record")
		return nil

	case kafka.OpDelete:
		if err := i.Remove(ctx, tenantID, change.ID); err != nil {
			// Tolerate replayed deletes of records already gone.
			if httperror.GetStatusCode(err) == http.StatusNotFound {
				log.Debug("Reference record already deleted")
				return nil
			}
			return err
		}
		log.Info("Deleted reference record")
		return nil
	}

	// ParseRecordMessage rejects unknown ops before we get here.
	return nil
}

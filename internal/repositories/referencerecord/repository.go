package referencerecord

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/sage/pkg/database"
	"github.com/Ramsey-B/sage/pkg/fingerprint"
	"github.com/Ramsey-B/sage/pkg/models"
	"github.com/Ramsey-B/sage/pkg/tracing"
)

var columns = []string{"id", "tenant_id", "name", "dob", "state", "address", "fingerprint", "created_at", "updated_at", "deleted_at"}

// Repository handles reference record persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new reference record repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Upsert creates or replaces a reference record. An unchanged record is
// detected by fingerprint and left alone so ingest replays are cheap.
// Returns the stored row and whether a write happened.
func (r *Repository) Upsert(ctx context.Context, tenantID string, id string, record models.Record) (*models.StoredReferenceRecord, bool, error) {
	ctx, span := tracing.StartSpan(ctx, "referencerecord.Repository.Upsert")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":    "Upsert",
		"tenant_id": tenantID,
		"id":        id,
	})

	fp := fingerprint.Record(record)

	// The fingerprint read and the conditional write run in one
	// transaction so a concurrent upsert cannot slip between them.
	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		log.WithError(err).Error("Failed to start transaction")
		return nil, false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	existing, err := r.get(ctx, tx, tenantID, id)
	if err != nil && httperror.GetStatusCode(err) != http.StatusNotFound {
		return nil, false, err
	}
	if existing != nil && !fingerprint.HasChanged(existing.Fingerprint, fp) {
		if err := tx.Commit(ctx); err != nil {
			log.WithError(err).Error("Failed to commit transaction")
			return nil, false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit transaction")
		}
		return existing, false, nil
	}

	now := time.Now().UTC()
	stored := &models.StoredReferenceRecord{
		ID:          id,
		TenantID:    tenantID,
		Name:        record.Name,
		DOB:         record.DOB,
		State:       record.State,
		Address:     record.Address,
		Fingerprint: fp,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if existing != nil {
		stored.CreatedAt = existing.CreatedAt
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("reference_records")
	sb.Cols("id", "tenant_id", "name", "dob", "state", "address", "fingerprint", "created_at", "updated_at")
	sb.Values(stored.ID, stored.TenantID, stored.Name, stored.DOB, stored.State, stored.Address, stored.Fingerprint, stored.CreatedAt, stored.UpdatedAt)
	sb.SQL(`ON CONFLICT (tenant_id, id) DO UPDATE SET
		name = EXCLUDED.name,
		dob = EXCLUDED.dob,
		state = EXCLUDED.state,
		address = EXCLUDED.address,
		fingerprint = EXCLUDED.fingerprint,
		updated_at = EXCLUDED.updated_at,
		deleted_at = NULL`)

	query, args := sb.Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		log.WithError(err).Error("Failed to upsert reference record")
		return nil, false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert reference record")
	}

	if err := tx.Commit(ctx); err != nil {
		log.WithError(err).Error("Failed to commit transaction")
		return nil, false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit transaction")
	}

	log.Info("Upserted reference record")
	return stored, true, nil
}

// querier is the read surface shared by database.DB and database.Tx.
type querier interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

// Get retrieves a reference record by ID
func (r *Repository) Get(ctx context.Context, tenantID string, id string) (*models.StoredReferenceRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "referencerecord.Repository.Get")
	defer span.End()

	return r.get(ctx, r.db, tenantID, id)
}

func (r *Repository) get(ctx context.Context, q querier, tenantID string, id string) (*models.StoredReferenceRecord, error) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("reference_records")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	var record models.StoredReferenceRecord
	if err := q.GetContext(ctx, &record, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("reference record %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get reference record")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get reference record")
	}

	return &record, nil
}

// List retrieves a page of reference records for a tenant
func (r *Repository) List(ctx context.Context, tenantID string, page, pageSize int) ([]models.StoredReferenceRecord, int, error) {
	ctx, span := tracing.StartSpan(ctx, "referencerecord.Repository.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	// Count total
	countSb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	countSb.Select("COUNT(*)")
	countSb.From("reference_records")
	countSb.Where(
		countSb.Equal("tenant_id", tenantID),
		countSb.IsNull("deleted_at"),
	)

	countQuery, countArgs := countSb.Build()
	var totalCount int
	if err := r.db.GetContext(ctx, &totalCount, countQuery, countArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count reference records")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count reference records")
	}

	// Fetch page
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("reference_records")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)
	sb.OrderBy("id ASC")
	sb.Limit(pageSize).Offset(offset)

	query, args := sb.Build()
	var records []models.StoredReferenceRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list reference records")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list reference records")
	}

	return records, totalCount, nil
}

// ListAll retrieves every active reference record for a tenant, ordered
// by ID. Used to build the in-memory linkage snapshot.
func (r *Repository) ListAll(ctx context.Context, tenantID string) ([]models.StoredReferenceRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "referencerecord.Repository.ListAll")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("reference_records")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)
	sb.OrderBy("id ASC")

	query, args := sb.Build()
	var records []models.StoredReferenceRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list reference records")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list reference records")
	}

	return records, nil
}

// Delete soft deletes a reference record
func (r *Repository) Delete(ctx context.Context, tenantID string, id string) error {
	ctx, span := tracing.StartSpan(ctx, "referencerecord.Repository.Delete")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("reference_records")
	sb.Set(sb.Assign("deleted_at", now))
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete reference record")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete reference record")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("reference record %s not found", id))
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"id": id}).Info("Deleted reference record")
	return nil
}

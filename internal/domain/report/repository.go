package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines report data access
type Repository interface {
	Create(ctx context.Context, report *Report) error
	ListByReporter(ctx context.Context, reporterID uuid.UUID, targetType string) ([]*Report, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new report repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, report *Report) error {
	query := `
		INSERT INTO reports (id, reporter_id, target_id, target_type, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		report.ID,
		report.ReporterID,
		report.TargetID,
		report.TargetType,
		report.Reason,
		report.Status,
	).Scan(&report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAlreadyReported
		}
		return fmt.Errorf("report repository create: %w", err)
	}
	return nil
}

func (r *repository) ListByReporter(ctx context.Context, reporterID uuid.UUID, targetType string) ([]*Report, error) {
	reports := []*Report{}
	err := r.db.SelectContext(ctx, &reports, `
		SELECT * FROM reports
		WHERE reporter_id = $1 AND target_type = $2
		ORDER BY created_at DESC
	`, reporterID, targetType)
	return reports, err
}

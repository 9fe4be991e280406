package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/club-tournaments/models"
)

type postgresApplicationRepository struct {
	exec SQLExecutor
}

const applicationColumns = `id, event_id, applicant_id, partner_id, status, created_at, updated_at, approved_at`

func scanApplication(row rowScanner, a *models.Application) error {
	return row.Scan(&a.ID, &a.EventID, &a.ApplicantID, &a.PartnerID, &a.Status, &a.CreatedAt, &a.UpdatedAt, &a.ApprovedAt)
}

func (r *postgresApplicationRepository) Create(ctx context.Context, a *models.Application) error {
	query := `
		INSERT INTO applications (id, event_id, applicant_id, partner_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.exec.ExecContext(ctx, query, a.ID, a.EventID, a.ApplicantID, a.PartnerID, a.Status, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (r *postgresApplicationRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Application, error) {
	a := &models.Application{}
	if err := scanApplication(r.exec.QueryRowContext(ctx, query, args...), a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return a, nil
}

func (r *postgresApplicationRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	return r.findOne(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
}

func (r *postgresApplicationRepository) FindActiveByApplicant(ctx context.Context, eventID, applicantID string) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + `
		FROM applications
		WHERE event_id = $1 AND applicant_id = $2 AND status IN ($3, $4)
		ORDER BY created_at DESC
		LIMIT 1`
	return r.findOne(ctx, query, eventID, applicantID, models.ApplicationPending, models.ApplicationApproved)
}

func (r *postgresApplicationRepository) ListByEvent(ctx context.Context, eventID string) ([]models.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE event_id = $1 ORDER BY created_at ASC`, eventID)
}

func (r *postgresApplicationRepository) ListByEventForUpdate(ctx context.Context, eventID string) ([]models.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE event_id = $1 ORDER BY created_at ASC FOR UPDATE`, eventID)
}

func (r *postgresApplicationRepository) list(ctx context.Context, query, eventID string) ([]models.Application, error) {
	rows, err := r.exec.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications for event %s: %w", eventID, err)
	}
	defer rows.Close()

	applications := make([]models.Application, 0)
	for rows.Next() {
		var a models.Application
		if err := scanApplication(rows, &a); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		applications = append(applications, a)
	}
	return applications, rows.Err()
}

func (r *postgresApplicationRepository) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus, at time.Time) error {
	var approvedAt *time.Time
	if status == models.ApplicationApproved {
		approvedAt = &at
	}
	query := `
		UPDATE applications SET
			status = $1,
			updated_at = $2,
			approved_at = COALESCE($3, approved_at)
		WHERE id = $4`
	result, err := r.exec.ExecContext(ctx, query, status, at, approvedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	return checkAffectedRows(result, ErrApplicationNotFound)
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/club-tournaments/models"
)

type postgresTournamentRepository struct {
	exec SQLExecutor
}

const tournamentColumns = `
	id, club_id, created_by, title, slug, status,
	min_participants, max_participants, event_type, format,
	participant_count, total_rounds, total_matches,
	start_date, end_date, registration_deadline, logo_key,
	created_at, updated_at, completed_at, cancelled_at, cancellation_reason, cancelled_by`

func scanTournament(row rowScanner, t *models.Tournament) error {
	return row.Scan(
		&t.ID, &t.ClubID, &t.CreatedBy, &t.Title, &t.Slug, &t.Status,
		&t.Settings.MinParticipants, &t.Settings.MaxParticipants, &t.Settings.EventType, &t.Settings.Format,
		&t.ParticipantCount, &t.TotalRounds, &t.TotalMatches,
		&t.StartDate, &t.EndDate, &t.RegistrationDeadline, &t.LogoKey,
		&t.CreatedAt, &t.UpdatedAt, &t.CompletedAt, &t.CancelledAt, &t.CancellationReason, &t.CancelledBy,
	)
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (
			id, club_id, created_by, title, slug, status,
			min_participants, max_participants, event_type, format,
			participant_count, total_rounds, total_matches,
			start_date, end_date, registration_deadline, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := r.exec.ExecContext(ctx, query,
		t.ID, t.ClubID, t.CreatedBy, t.Title, t.Slug, t.Status,
		t.Settings.MinParticipants, t.Settings.MaxParticipants, t.Settings.EventType, t.Settings.Format,
		t.ParticipantCount, t.TotalRounds, t.TotalMatches,
		t.StartDate, t.EndDate, t.RegistrationDeadline, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if _, ok := isPQError(err, pqForeignKeyViolation); ok {
			return ErrClubNotFound
		}
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.Tournament, error) {
	t := &models.Tournament{}
	if err := scanTournament(r.exec.QueryRowContext(ctx, query, args...), t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	return r.getOne(ctx, `SELECT `+tournamentColumns+` FROM tournaments WHERE id = $1`, id)
}

func (r *postgresTournamentRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Tournament, error) {
	return r.getOne(ctx, `SELECT `+tournamentColumns+` FROM tournaments WHERE id = $1 FOR UPDATE`, id)
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if filter.ClubID != nil {
		query += fmt.Sprintf(" AND club_id = $%d", argID)
		args = append(args, *filter.ClubID)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}

	query += " ORDER BY start_date DESC, created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d", argID)
	args = append(args, normalizeLimit(filter.Limit, 20, 100))
	argID++
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	return r.list(ctx, query, args...)
}

func (r *postgresTournamentRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Tournament, error) {
	rows, err := r.exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if err := scanTournament(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments SET
			status = $1,
			completed_at = $2,
			cancelled_at = $3,
			cancellation_reason = $4,
			cancelled_by = $5,
			updated_at = $6
		WHERE id = $7`
	result, err := r.exec.ExecContext(ctx, query,
		t.Status, t.CompletedAt, t.CancelledAt, t.CancellationReason, t.CancelledBy, t.UpdatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update tournament status: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) IncrementParticipantCount(ctx context.Context, id string, delta int) error {
	query := `UPDATE tournaments SET participant_count = participant_count + $1, updated_at = NOW() WHERE id = $2`
	result, err := r.exec.ExecContext(ctx, query, delta, id)
	if err != nil {
		return fmt.Errorf("failed to increment participant count: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateLogoKey(ctx context.Context, id string, logoKey *string) error {
	query := `UPDATE tournaments SET logo_key = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.exec.ExecContext(ctx, query, logoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament logo key: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) ListRegistrationPastDeadline(ctx context.Context, now time.Time) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + `
		FROM tournaments
		WHERE status = $1 AND registration_deadline <= $2
		ORDER BY registration_deadline ASC`
	return r.list(ctx, query, models.StatusRegistration, now)
}

package repositories

import (
	"context"
	"fmt"

	"github.com/Dosada05/club-tournaments/models"
)

type postgresActivityRepository struct {
	exec SQLExecutor
}

func (r *postgresActivityRepository) Create(ctx context.Context, a *models.Activity) error {
	query := `
		INSERT INTO activities (
			id, type, tournament_id, event_id, club_id, user_id, previous_status, new_status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.exec.ExecContext(ctx, query,
		a.ID, a.Type, a.TournamentID, a.EventID, a.ClubID, a.UserID, a.PreviousStatus, a.NewStatus, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append activity %s: %w", a.Type, err)
	}
	return nil
}

func (r *postgresActivityRepository) ListByTournament(ctx context.Context, tournamentID string, limit int) ([]models.Activity, error) {
	query := `
		SELECT id, type, tournament_id, event_id, club_id, user_id, previous_status, new_status, created_at
		FROM activities
		WHERE tournament_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.exec.QueryContext(ctx, query, tournamentID, normalizeLimit(limit, 50, 200))
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	activities := make([]models.Activity, 0)
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(
			&a.ID, &a.Type, &a.TournamentID, &a.EventID, &a.ClubID, &a.UserID, &a.PreviousStatus, &a.NewStatus, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

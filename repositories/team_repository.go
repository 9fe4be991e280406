package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/club-tournaments/models"
)

type postgresTeamRepository struct {
	exec SQLExecutor
}

func (r *postgresTeamRepository) Create(ctx context.Context, t *models.Team) error {
	query := `
		INSERT INTO teams (id, player1_id, player2_id, team_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.exec.ExecContext(ctx, query, t.ID, t.Player1ID, t.Player2ID, t.TeamName, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if _, ok := isPQError(err, pqForeignKeyViolation); ok {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	t := &models.Team{}
	err := r.exec.QueryRowContext(ctx,
		`SELECT id, player1_id, player2_id, team_name, created_at, updated_at FROM teams WHERE id = $1`, id,
	).Scan(&t.ID, &t.Player1ID, &t.Player2ID, &t.TeamName, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return t, nil
}

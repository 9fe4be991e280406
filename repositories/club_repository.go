package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/club-tournaments/models"
)

type postgresClubRepository struct {
	exec SQLExecutor
}

func (r *postgresClubRepository) Create(ctx context.Context, c *models.Club) error {
	query := `INSERT INTO clubs (id, name, created_by, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.exec.ExecContext(ctx, query, c.ID, c.Name, c.CreatedBy, c.CreatedAt); err != nil {
		return fmt.Errorf("failed to create club: %w", err)
	}
	return nil
}

func (r *postgresClubRepository) GetByID(ctx context.Context, id string) (*models.Club, error) {
	c := &models.Club{}
	err := r.exec.QueryRowContext(ctx,
		`SELECT id, name, created_by, created_at FROM clubs WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.CreatedBy, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to get club: %w", err)
	}
	return c, nil
}

func (r *postgresClubRepository) UpsertMembership(ctx context.Context, m *models.Membership) error {
	query := `
		INSERT INTO club_memberships (club_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (club_id, user_id) DO UPDATE SET role = EXCLUDED.role`
	if _, err := r.exec.ExecContext(ctx, query, m.ClubID, m.UserID, m.Role, m.CreatedAt); err != nil {
		if _, ok := isPQError(err, pqForeignKeyViolation); ok {
			return ErrClubNotFound
		}
		return fmt.Errorf("failed to upsert club membership: %w", err)
	}
	return nil
}

func (r *postgresClubRepository) GetMembership(ctx context.Context, clubID, userID string) (*models.Membership, error) {
	m := &models.Membership{}
	err := r.exec.QueryRowContext(ctx,
		`SELECT club_id, user_id, role, created_at FROM club_memberships WHERE club_id = $1 AND user_id = $2`,
		clubID, userID,
	).Scan(&m.ClubID, &m.UserID, &m.Role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to get club membership: %w", err)
	}
	return m, nil
}

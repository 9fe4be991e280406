package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/club-tournaments/models"
)

type postgresUserRepository struct {
	exec SQLExecutor
}

const userColumns = `id, display_name, email, password_hash, skill_level, created_at`

func (r *postgresUserRepository) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (id, display_name, email, password_hash, skill_level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.exec.ExecContext(ctx, query, u.ID, u.DisplayName, u.Email, u.PasswordHash, u.SkillLevel, u.CreatedAt)
	if err != nil {
		if pqErr, ok := isPQError(err, pqUniqueViolation); ok && pqErr.Constraint == "users_email_key" {
			return ErrUserEmailConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	u := &models.User{}
	err := r.exec.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.DisplayName, &u.Email, &u.PasswordHash, &u.SkillLevel, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/club-tournaments/models"
)

type postgresParticipantRepository struct {
	exec SQLExecutor
}

const participantColumns = `
	id, tournament_id, player_id, player_name, skill_level,
	partner_id, partner_name, partner_confirmed, team_id, registered_by, created_at`

func scanParticipant(row rowScanner, p *models.Participant) error {
	return row.Scan(
		&p.ID, &p.TournamentID, &p.PlayerID, &p.PlayerName, &p.SkillLevel,
		&p.PartnerID, &p.PartnerName, &p.PartnerConfirmed, &p.TeamID, &p.RegisteredBy, &p.CreatedAt,
	)
}

func (r *postgresParticipantRepository) Create(ctx context.Context, p *models.Participant) error {
	query := `
		INSERT INTO participants (
			id, tournament_id, player_id, player_name, skill_level,
			partner_id, partner_name, partner_confirmed, team_id, registered_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.exec.ExecContext(ctx, query,
		p.ID, p.TournamentID, p.PlayerID, p.PlayerName, p.SkillLevel,
		p.PartnerID, p.PartnerName, p.PartnerConfirmed, p.TeamID, p.RegisteredBy, p.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := isPQError(err, pqUniqueViolation); ok && pqErr.Constraint == "participants_tournament_id_player_id_key" {
			return ErrParticipantConflict
		}
		if _, ok := isPQError(err, pqForeignKeyViolation); ok {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Participant, error) {
	p := &models.Participant{}
	if err := scanParticipant(r.exec.QueryRowContext(ctx, query, args...), p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to find participant: %w", err)
	}
	return p, nil
}

func (r *postgresParticipantRepository) FindByMember(ctx context.Context, tournamentID, userID string) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + `
		FROM participants
		WHERE tournament_id = $1
		  AND (player_id = $2 OR partner_id = $2 OR split_part(player_id, '_', 1) = $2)
		LIMIT 1`
	return r.findOne(ctx, query, tournamentID, userID)
}

func (r *postgresParticipantRepository) FindByPlayerID(ctx context.Context, tournamentID, playerID string) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE tournament_id = $1 AND player_id = $2`
	return r.findOne(ctx, query, tournamentID, playerID)
}

func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE tournament_id = $1 ORDER BY created_at ASC`
	rows, err := r.exec.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	participants := make([]models.Participant, 0)
	for rows.Next() {
		var p models.Participant
		if err := scanParticipant(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during participant rows iteration: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) CountByTournament(ctx context.Context, tournamentID string) (int, error) {
	var count int
	err := r.exec.QueryRowContext(ctx, `SELECT COUNT(*) FROM participants WHERE tournament_id = $1`, tournamentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}

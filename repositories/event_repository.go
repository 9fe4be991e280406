package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/club-tournaments/models"
)

// eventQueries maps each event kind to the query that reads it as an Event.
var eventQueries = map[models.EventKind]string{
	models.EventKindLeague:     `SELECT id, host_id, title, max_participants FROM leagues WHERE id = $1`,
	models.EventKindTournament: `SELECT id, created_by, title, max_participants FROM tournaments WHERE id = $1`,
	models.EventKindLightning:  `SELECT id, host_id, title, max_participants FROM lightning_events WHERE id = $1`,
	models.EventKindEvent:      `SELECT id, host_id, title, max_participants FROM events WHERE id = $1`,
}

var eventTables = map[models.EventKind]string{
	models.EventKindLeague:    "leagues",
	models.EventKindLightning: "lightning_events",
	models.EventKindEvent:     "events",
}

var ErrEventKindNotWritable = errors.New("event kind cannot be created through the event repository")

type postgresEventRepository struct {
	exec SQLExecutor
}

func (r *postgresEventRepository) Create(ctx context.Context, e *models.Event) error {
	table, ok := eventTables[e.Kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEventKindNotWritable, e.Kind)
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, host_id, title, max_participants, created_at) VALUES ($1, $2, $3, $4, $5)`, table)
	if _, err := r.exec.ExecContext(ctx, query, e.ID, e.HostID, e.Title, e.MaxParticipants, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to create %s event: %w", e.Kind, err)
	}
	return nil
}

func (r *postgresEventRepository) FindByID(ctx context.Context, kind models.EventKind, id string) (*models.Event, error) {
	query, ok := eventQueries[kind]
	if !ok {
		return nil, ErrEventNotFound
	}
	e := &models.Event{Kind: kind}
	err := r.exec.QueryRowContext(ctx, query, id).Scan(&e.ID, &e.HostID, &e.Title, &e.MaxParticipants)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find %s %s: %w", kind, id, err)
	}
	return e, nil
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

type postgresStore struct {
	db     *sql.DB
	exec   SQLExecutor
	logger *slog.Logger
}

// NewPostgresStore returns a Store backed by PostgreSQL.
func NewPostgresStore(db *sql.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &postgresStore{db: db, exec: db, logger: logger}
}

func (s *postgresStore) Users() UserRepository { return &postgresUserRepository{exec: s.exec} }
func (s *postgresStore) Clubs() ClubRepository { return &postgresClubRepository{exec: s.exec} }
func (s *postgresStore) Teams() TeamRepository { return &postgresTeamRepository{exec: s.exec} }
func (s *postgresStore) Tournaments() TournamentRepository {
	return &postgresTournamentRepository{exec: s.exec}
}
func (s *postgresStore) Participants() ParticipantRepository {
	return &postgresParticipantRepository{exec: s.exec}
}
func (s *postgresStore) Activities() ActivityRepository {
	return &postgresActivityRepository{exec: s.exec}
}
func (s *postgresStore) Applications() ApplicationRepository {
	return &postgresApplicationRepository{exec: s.exec}
}
func (s *postgresStore) Events() EventRepository { return &postgresEventRepository{exec: s.exec} }
func (s *postgresStore) ChatRooms() ChatRoomRepository {
	return &postgresChatRoomRepository{exec: s.exec}
}

// RunInTx begins a transaction, or joins the current one when the store is
// already bound to a transaction. A failed commit is returned unchanged.
func (s *postgresStore) RunInTx(ctx context.Context, fn func(tx Store) error) (err error) {
	if _, inTx := s.exec.(*sql.Tx); inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.logger.ErrorContext(ctx, "transaction rollback failed",
					slog.Any("error", rbErr), slog.Any("cause", err))
			}
		} else {
			err = tx.Commit()
		}
	}()

	return fn(&postgresStore{db: s.db, exec: tx, logger: s.logger})
}

func isPQError(err error, code string) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == code {
		return pqErr, true
	}
	return nil, false
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

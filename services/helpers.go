package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/club-tournaments/models"
	"github.com/Dosada05/club-tournaments/repositories"
)

// loadTournament reads a tournament, locking its row when forUpdate is set
// and store is transaction-bound.
func loadTournament(ctx context.Context, store repositories.Store, id string, forUpdate bool) (*models.Tournament, error) {
	var (
		t   *models.Tournament
		err error
	)
	if forUpdate {
		t, err = store.Tournaments().GetByIDForUpdate(ctx, id)
	} else {
		t, err = store.Tournaments().GetByID(ctx, id)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, newError(CodeNotFound, ErrTournamentNotFound, "Tournament not found")
		}
		return nil, fmt.Errorf("failed to load tournament %s: %w", id, err)
	}
	return t, nil
}

func loadUser(ctx context.Context, store repositories.Store, id string, sentinel error, message string) (*models.User, error) {
	u, err := store.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, newError(CodeNotFound, sentinel, "%s", message)
		}
		return nil, fmt.Errorf("failed to load user %s: %w", id, err)
	}
	return u, nil
}

func isClubAdmin(ctx context.Context, store repositories.Store, clubID, userID string) (bool, error) {
	if clubID == "" || userID == "" {
		return false, nil
	}
	m, err := store.Clubs().GetMembership(ctx, clubID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load club membership: %w", err)
	}
	return m.IsAdmin(), nil
}

func authorizeHostOrAdmin(ctx context.Context, store repositories.Store, t *models.Tournament, callerID, message string) error {
	if t.CreatedBy == callerID {
		return nil
	}
	isAdmin, err := isClubAdmin(ctx, store, t.ClubID, callerID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return newError(CodePermissionDenied, ErrNotHostOrAdmin, "%s", message)
	}
	return nil
}

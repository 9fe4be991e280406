package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Dosada05/club-tournaments/models"
	"github.com/Dosada05/club-tournaments/repositories"
	"github.com/google/uuid"
)

// SystemUserID attributes activities written by background jobs.
const SystemUserID = "system"

// ActivityNotifier receives activities after their transaction has committed.
// Implementations must not block.
type ActivityNotifier interface {
	PublishActivity(activity models.Activity)
}

type noopNotifier struct{}

func (noopNotifier) PublishActivity(models.Activity) {}

func notifierOrNoop(n ActivityNotifier) ActivityNotifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

func strPtr(s string) *string { return &s }

func statusPtr(s models.TournamentStatus) *models.TournamentStatus { return &s }

func newTournamentActivity(typ models.ActivityType, t *models.Tournament, userID string, at time.Time) models.Activity {
	return models.Activity{
		ID:           uuid.NewString(),
		Type:         typ,
		TournamentID: strPtr(t.ID),
		ClubID:       strPtr(t.ClubID),
		UserID:       userID,
		CreatedAt:    at,
	}
}

func appendActivity(ctx context.Context, tx repositories.Store, activity *models.Activity) error {
	if err := tx.Activities().Create(ctx, activity); err != nil {
		return fmt.Errorf("failed to append %s activity: %w", activity.Type, err)
	}
	return nil
}

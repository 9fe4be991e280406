package services

import "github.com/Dosada05/club-tournaments/models"

// allowedTransitions is the tournament state machine. Terminal states have no
// entry.
var allowedTransitions = map[models.TournamentStatus][]models.TournamentStatus{
	models.StatusDraft:             {models.StatusRegistration, models.StatusCancelled},
	models.StatusRegistration:      {models.StatusBracketGeneration, models.StatusCancelled},
	models.StatusBracketGeneration: {models.StatusInProgress, models.StatusCancelled},
	models.StatusInProgress:        {models.StatusCompleted, models.StatusCancelled},
}

// AllowedTransitions returns the states reachable from current in one step.
func AllowedTransitions(current models.TournamentStatus) []models.TournamentStatus {
	next := allowedTransitions[current]
	out := make([]models.TournamentStatus, len(next))
	copy(out, next)
	return out
}

func IsTerminal(status models.TournamentStatus) bool {
	return status.Valid() && len(allowedTransitions[status]) == 0
}

// ValidateTransition reports whether current may move to next. It does not
// consult participant counts or caller identity.
func ValidateTransition(current, next models.TournamentStatus) error {
	for _, allowed := range allowedTransitions[current] {
		if allowed == next {
			return nil
		}
	}
	return newError(CodeFailedPrecondition, ErrInvalidStatusTransition,
		"Cannot transition from %s to %s", current, next)
}

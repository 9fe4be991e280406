package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/club-tournaments/models"
	"github.com/Dosada05/club-tournaments/repositories"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type PartnerInfo struct {
	PartnerID   string `json:"partnerId"`
	PartnerName string `json:"partnerName,omitempty"`
}

type RegistrationInput struct {
	TournamentID string       `json:"tournamentId"`
	UserID       string       `json:"userId"`
	PartnerInfo  *PartnerInfo `json:"partnerInfo,omitempty"`
}

type TeamRegistrationInput struct {
	TournamentID string `json:"tournamentId"`
	TeamID       string `json:"teamId"`
	RegisteredBy string `json:"registeredBy,omitempty"`
}

type RegistrationService interface {
	RegisterForTournament(ctx context.Context, callerID string, input RegistrationInput) (*models.Participant, error)
	RegisterTeamForTournament(ctx context.Context, callerID string, input TeamRegistrationInput) (*models.Participant, error)
}

type registrationService struct {
	store    repositories.Store
	notifier ActivityNotifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewRegistrationService(store repositories.Store, notifier ActivityNotifier, logger *slog.Logger) RegistrationService {
	return &registrationService{
		store:    store,
		notifier: notifierOrNoop(notifier),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// checkOpen asserts the tournament accepts one more registration.
func checkOpen(t *models.Tournament) error {
	if t.Status != models.StatusRegistration {
		return newError(CodeFailedPrecondition, ErrRegistrationNotOpen, "Tournament is not accepting registrations")
	}
	if t.IsFull() {
		return newError(CodeFailedPrecondition, ErrTournamentFull, "Tournament is full")
	}
	return nil
}

func alreadyRegistered(message string) error {
	return newError(CodeFailedPrecondition, ErrAlreadyRegistered, "%s", message)
}

// ensureNotRegistered fails when userID already plays in the tournament.
func ensureNotRegistered(ctx context.Context, tx repositories.Store, tournamentID, userID, message string) error {
	_, err := tx.Participants().FindByMember(ctx, tournamentID, userID)
	if err == nil {
		return alreadyRegistered(message)
	}
	if errors.Is(err, repositories.ErrParticipantNotFound) {
		return nil
	}
	return fmt.Errorf("failed to check existing registration: %w", err)
}

// insertParticipant writes the participant, bumps the tournament counter and
// appends the registration activity.
func (s *registrationService) insertParticipant(ctx context.Context, tx repositories.Store, t *models.Tournament, p *models.Participant) (*models.Activity, error) {
	if err := tx.Participants().Create(ctx, p); err != nil {
		if errors.Is(err, repositories.ErrParticipantConflict) {
			return nil, alreadyRegistered("You are already registered for this tournament")
		}
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}
	if err := tx.Tournaments().IncrementParticipantCount(ctx, t.ID, 1); err != nil {
		return nil, fmt.Errorf("failed to increment participant count: %w", err)
	}

	activity := newTournamentActivity(models.ActivityTournamentRegistration, t, p.RegisteredBy, p.CreatedAt)
	if err := appendActivity(ctx, tx, &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

func (s *registrationService) RegisterForTournament(ctx context.Context, callerID string, input RegistrationInput) (*models.Participant, error) {
	if input.UserID == "" || input.UserID != callerID {
		return nil, newError(CodePermissionDenied, ErrSelfRegistrationOnly, "You can only register yourself")
	}
	var partner *PartnerInfo
	if input.PartnerInfo != nil && strings.TrimSpace(input.PartnerInfo.PartnerID) != "" {
		partner = input.PartnerInfo
	}

	var (
		participant *models.Participant
		activity    *models.Activity
	)
	err := s.store.RunInTx(ctx, func(tx repositories.Store) error {
		tournament, err := loadTournament(ctx, tx, input.TournamentID, true)
		if err != nil {
			return err
		}
		if err := checkOpen(tournament); err != nil {
			return err
		}
		if err := ensureNotRegistered(ctx, tx, tournament.ID, input.UserID,
			"You are already registered for this tournament"); err != nil {
			return err
		}

		user, err := loadUser(ctx, tx, input.UserID, ErrUserNotFound, "User profile not found")
		if err != nil {
			return err
		}

		p := &models.Participant{
			ID:           uuid.NewString(),
			TournamentID: tournament.ID,
			PlayerID:     user.ID,
			PlayerName:   user.DisplayName,
			SkillLevel:   user.SkillLevel,
			RegisteredBy: callerID,
			CreatedAt:    s.now(),
		}

		if partner != nil {
			if tournament.Settings.EventType.IsSingles() {
				return newError(CodeInvalidArgument, ErrPartnerOnSingles, "Cannot register with a partner for singles tournaments")
			}
			if partner.PartnerID == user.ID {
				return newError(CodeInvalidArgument, ErrValidationFailed, "You cannot be your own partner")
			}
			partnerUser, err := loadUser(ctx, tx, partner.PartnerID, ErrPartnerNotFound, "Partner profile not found")
			if err != nil {
				return err
			}
			if err := ensureNotRegistered(ctx, tx, tournament.ID, partnerUser.ID,
				"Your partner is already registered for this tournament"); err != nil {
				return err
			}
			name := strings.TrimSpace(partner.PartnerName)
			if name == "" {
				name = partnerUser.DisplayName
			}
			p.PartnerID = strPtr(partnerUser.ID)
			p.PartnerName = strPtr(name)
		}

		a, err := s.insertParticipant(ctx, tx, tournament, p)
		if err != nil {
			return err
		}
		participant, activity = p, a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("player registered",
		slog.String("tournament_id", participant.TournamentID),
		slog.String("player_id", participant.PlayerID))
	s.notifier.PublishActivity(*activity)
	return participant, nil
}

func (s *registrationService) RegisterTeamForTournament(ctx context.Context, callerID string, input TeamRegistrationInput) (*models.Participant, error) {
	team, err := s.store.Teams().GetByID(ctx, input.TeamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, newError(CodeNotFound, ErrTeamNotFound, "Team not found")
		}
		return nil, fmt.Errorf("failed to load team %s: %w", input.TeamID, err)
	}
	if !team.HasPlayer(callerID) {
		return nil, newError(CodePermissionDenied, ErrNotTeamMember, "You must be a member of the team to register it")
	}
	if input.RegisteredBy != "" && input.RegisteredBy != callerID {
		return nil, newError(CodePermissionDenied, ErrNotTeamMember, "registeredBy must match the authenticated user")
	}

	// Profiles are loaded up front and concurrently; a missing profile is
	// reported only after the tournament checks below have passed.
	var player1, player2 *models.User
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := loadUser(gctx, s.store, team.Player1ID, ErrUserNotFound, "Team member profile not found")
		player1 = u
		return err
	})
	g.Go(func() error {
		u, err := loadUser(gctx, s.store, team.Player2ID, ErrUserNotFound, "Team member profile not found")
		player2 = u
		return err
	})
	profileErr := g.Wait()

	compositeID := models.TeamPlayerID(team.Player1ID, team.Player2ID)

	var (
		participant *models.Participant
		activity    *models.Activity
	)
	err = s.store.RunInTx(ctx, func(tx repositories.Store) error {
		tournament, err := loadTournament(ctx, tx, input.TournamentID, true)
		if err != nil {
			return err
		}
		if !tournament.Settings.EventType.IsDoubles() {
			return newError(CodeInvalidArgument, ErrTeamRequiresDoubles, "Team registration is only available for doubles tournaments")
		}
		if err := checkOpen(tournament); err != nil {
			return err
		}

		for _, memberID := range []string{team.Player1ID, team.Player2ID} {
			if err := ensureNotRegistered(ctx, tx, tournament.ID, memberID,
				"A team member is already registered for this tournament"); err != nil {
				return err
			}
		}
		if _, err := tx.Participants().FindByPlayerID(ctx, tournament.ID, compositeID); err == nil {
			return alreadyRegistered("This team is already registered for this tournament")
		} else if !errors.Is(err, repositories.ErrParticipantNotFound) {
			return fmt.Errorf("failed to check team registration: %w", err)
		}

		if profileErr != nil {
			return profileErr
		}

		p := &models.Participant{
			ID:               uuid.NewString(),
			TournamentID:     tournament.ID,
			PlayerID:         compositeID,
			PlayerName:       team.TeamName,
			SkillLevel:       player1.SkillLevel,
			PartnerID:        strPtr(player2.ID),
			PartnerName:      strPtr(player2.DisplayName),
			PartnerConfirmed: true,
			TeamID:           strPtr(team.ID),
			RegisteredBy:     callerID,
			CreatedAt:        s.now(),
		}
		a, err := s.insertParticipant(ctx, tx, tournament, p)
		if err != nil {
			return err
		}
		participant, activity = p, a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("team registered",
		slog.String("tournament_id", participant.TournamentID),
		slog.String("team_id", team.ID))
	s.notifier.PublishActivity(*activity)
	return participant, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/bits"
	"path"
	"strings"
	"time"

	"github.com/Dosada05/club-tournaments/models"
	"github.com/Dosada05/club-tournaments/repositories"
	"github.com/Dosada05/club-tournaments/storage"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/sync/errgroup"
)

type ParticipantLimits struct {
	MinParticipants int `json:"minParticipants"`
	MaxParticipants int `json:"maxParticipants"`
}

type CreateTournamentInput struct {
	ClubID               string                  `json:"clubId"`
	Title                string                  `json:"title,omitempty"`
	EventType            models.EventType        `json:"eventType"`
	Format               models.TournamentFormat `json:"format"`
	Settings             ParticipantLimits       `json:"settings"`
	StartDate            time.Time               `json:"startDate"`
	EndDate              time.Time               `json:"endDate"`
	RegistrationDeadline time.Time               `json:"registrationDeadline"`
}

type UpdateStatusInput struct {
	TournamentID string                  `json:"tournamentId"`
	Status       models.TournamentStatus `json:"status"`
	Reason       string                  `json:"reason,omitempty"`
}

type ListTournamentsInput struct {
	ClubID *string
	Status *models.TournamentStatus
	Limit  int
	Offset int
}

// TournamentDetails is a tournament with its roster and recent activity.
type TournamentDetails struct {
	Tournament   *models.Tournament   `json:"tournament"`
	Participants []models.Participant `json:"participants"`
	Activities   []models.Activity    `json:"activities"`
}

type TournamentService interface {
	CreateTournament(ctx context.Context, callerID string, input CreateTournamentInput) (*models.Tournament, error)
	GetTournament(ctx context.Context, id string) (*models.Tournament, error)
	GetTournamentDetails(ctx context.Context, id string) (*TournamentDetails, error)
	ListTournaments(ctx context.Context, input ListTournamentsInput) ([]models.Tournament, error)
	ListParticipants(ctx context.Context, tournamentID string) ([]models.Participant, error)
	ListActivities(ctx context.Context, tournamentID string, limit int) ([]models.Activity, error)
	UpdateTournamentStatus(ctx context.Context, callerID string, input UpdateStatusInput) (*models.Tournament, error)
	UploadTournamentLogo(ctx context.Context, callerID, tournamentID, contentType string, file io.Reader) (*models.Tournament, error)
	CloseExpiredRegistrations(ctx context.Context) (int, error)
}

type tournamentService struct {
	store    repositories.Store
	uploader storage.FileUploader
	notifier ActivityNotifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewTournamentService builds the tournament registry. uploader may be nil,
// in which case logo uploads fail with ErrStorageUnavailable.
func NewTournamentService(
	store repositories.Store,
	uploader storage.FileUploader,
	notifier ActivityNotifier,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		store:    store,
		uploader: uploader,
		notifier: notifierOrNoop(notifier),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// BracketSize returns the round and match counts of a single-elimination
// bracket for maxParticipants entrants: ceil(log2(n)) rounds, n-1 matches.
func BracketSize(maxParticipants int) (totalRounds, totalMatches int) {
	if maxParticipants < 2 {
		return 0, 0
	}
	return bits.Len(uint(maxParticipants - 1)), maxParticipants - 1
}

func (s *tournamentService) CreateTournament(ctx context.Context, callerID string, input CreateTournamentInput) (*models.Tournament, error) {
	isAdmin, err := isClubAdmin(ctx, s.store, input.ClubID, callerID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, newError(CodePermissionDenied, ErrNotClubAdmin, "Only club admins can create tournaments")
	}

	if err := s.validateCreateInput(input); err != nil {
		return nil, err
	}

	now := s.now()
	id := uuid.NewString()
	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = fmt.Sprintf("%s %s", input.EventType, input.Format)
	}
	totalRounds, totalMatches := BracketSize(input.Settings.MaxParticipants)

	tournament := &models.Tournament{
		ID:        id,
		ClubID:    input.ClubID,
		CreatedBy: callerID,
		Title:     title,
		Slug:      slug.Make(title) + "-" + id[:8],
		Status:    models.StatusDraft,
		Settings: models.TournamentSettings{
			MinParticipants: input.Settings.MinParticipants,
			MaxParticipants: input.Settings.MaxParticipants,
			EventType:       input.EventType,
			Format:          input.Format,
		},
		TotalRounds:          totalRounds,
		TotalMatches:         totalMatches,
		StartDate:            input.StartDate.UTC(),
		EndDate:              input.EndDate.UTC(),
		RegistrationDeadline: input.RegistrationDeadline.UTC(),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	activity := newTournamentActivity(models.ActivityTournamentCreated, tournament, callerID, now)

	err = s.store.RunInTx(ctx, func(tx repositories.Store) error {
		if err := tx.Tournaments().Create(ctx, tournament); err != nil {
			if errors.Is(err, repositories.ErrClubNotFound) {
				return newError(CodeNotFound, ErrClubNotFound, "Club not found")
			}
			return fmt.Errorf("failed to create tournament: %w", err)
		}
		return appendActivity(ctx, tx, &activity)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tournament created",
		slog.String("tournament_id", tournament.ID),
		slog.String("club_id", tournament.ClubID),
		slog.String("created_by", callerID))
	s.notifier.PublishActivity(activity)
	return tournament, nil
}

func (s *tournamentService) validateCreateInput(input CreateTournamentInput) error {
	if !input.EventType.Valid() {
		return newError(CodeInvalidArgument, ErrInvalidEventType, "Invalid event type: %q", input.EventType)
	}
	if !input.Format.Valid() {
		return newError(CodeInvalidArgument, ErrInvalidFormat, "Invalid tournament format: %q", input.Format)
	}

	limits := input.Settings
	if limits.MinParticipants < 2 {
		return newError(CodeInvalidArgument, ErrInvalidParticipantRange, "Minimum participants must be at least 2")
	}
	if limits.MinParticipants > limits.MaxParticipants {
		return newError(CodeInvalidArgument, ErrInvalidParticipantRange,
			"Minimum participants (%d) cannot exceed maximum participants (%d)", limits.MinParticipants, limits.MaxParticipants)
	}

	if input.StartDate.IsZero() || input.EndDate.IsZero() || input.RegistrationDeadline.IsZero() {
		return newError(CodeInvalidArgument, ErrInvalidTournamentDates, "Start date, end date and registration deadline are required")
	}
	if !input.StartDate.After(s.now()) {
		return newError(CodeInvalidArgument, ErrInvalidTournamentDates, "Start date must be in the future")
	}
	if input.RegistrationDeadline.After(input.StartDate) {
		return newError(CodeInvalidArgument, ErrInvalidTournamentDates, "Registration deadline must be before start date")
	}
	if input.EndDate.Before(input.StartDate) {
		return newError(CodeInvalidArgument, ErrInvalidTournamentDates, "End date cannot be before start date")
	}
	return nil
}

func (s *tournamentService) GetTournament(ctx context.Context, id string) (*models.Tournament, error) {
	tournament, err := loadTournament(ctx, s.store, id, false)
	if err != nil {
		return nil, err
	}
	s.populateLogoURL(tournament)
	return tournament, nil
}

func (s *tournamentService) GetTournamentDetails(ctx context.Context, id string) (*TournamentDetails, error) {
	details := &TournamentDetails{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.GetTournament(gctx, id)
		details.Tournament = t
		return err
	})
	g.Go(func() error {
		participants, err := s.store.Participants().ListByTournament(gctx, id)
		if err != nil {
			return fmt.Errorf("failed to list participants: %w", err)
		}
		details.Participants = participants
		return nil
	})
	g.Go(func() error {
		activities, err := s.store.Activities().ListByTournament(gctx, id, 20)
		if err != nil {
			return fmt.Errorf("failed to list activities: %w", err)
		}
		details.Activities = activities
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return details, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, input ListTournamentsInput) ([]models.Tournament, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, newError(CodeInvalidArgument, ErrInvalidStatus, "Invalid status: %s", *input.Status)
	}
	if input.Limit < 0 || input.Offset < 0 {
		return nil, newError(CodeInvalidArgument, ErrValidationFailed, "limit and offset must not be negative")
	}

	tournaments, err := s.store.Tournaments().List(ctx, repositories.ListTournamentsFilter{
		ClubID: input.ClubID,
		Status: input.Status,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	for i := range tournaments {
		s.populateLogoURL(&tournaments[i])
	}
	return tournaments, nil
}

func (s *tournamentService) ListParticipants(ctx context.Context, tournamentID string) ([]models.Participant, error) {
	if _, err := loadTournament(ctx, s.store, tournamentID, false); err != nil {
		return nil, err
	}
	participants, err := s.store.Participants().ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return participants, nil
}

func (s *tournamentService) ListActivities(ctx context.Context, tournamentID string, limit int) ([]models.Activity, error) {
	if _, err := loadTournament(ctx, s.store, tournamentID, false); err != nil {
		return nil, err
	}
	activities, err := s.store.Activities().ListByTournament(ctx, tournamentID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

func (s *tournamentService) UpdateTournamentStatus(ctx context.Context, callerID string, input UpdateStatusInput) (*models.Tournament, error) {
	if !input.Status.Valid() {
		return nil, newError(CodeInvalidArgument, ErrInvalidStatus, "Invalid status: %q", input.Status)
	}
	tournament, activity, err := s.transition(ctx, input.TournamentID, callerID, input.Status, input.Reason, true)
	if err != nil {
		return nil, err
	}

	s.logger.Info("tournament status changed",
		slog.String("tournament_id", tournament.ID),
		slog.String("from", string(*activity.PreviousStatus)),
		slog.String("to", string(tournament.Status)),
		slog.String("user_id", callerID))
	s.notifier.PublishActivity(*activity)
	s.populateLogoURL(tournament)
	return tournament, nil
}

// transition moves a tournament to next inside one transaction, writing the
// status change and its activity together.
func (s *tournamentService) transition(
	ctx context.Context,
	tournamentID, callerID string,
	next models.TournamentStatus,
	reason string,
	authorize bool,
) (*models.Tournament, *models.Activity, error) {
	var (
		updated  *models.Tournament
		activity models.Activity
	)

	err := s.store.RunInTx(ctx, func(tx repositories.Store) error {
		tournament, err := loadTournament(ctx, tx, tournamentID, true)
		if err != nil {
			return err
		}

		if authorize {
			if err := authorizeHostOrAdmin(ctx, tx, tournament, callerID,
				"Only tournament host or club admins can update tournament status"); err != nil {
				return err
			}
		}

		current := tournament.Status
		if err := ValidateTransition(current, next); err != nil {
			return err
		}
		if next == models.StatusInProgress && tournament.ParticipantCount < tournament.Settings.MinParticipants {
			return newError(CodeFailedPrecondition, ErrInsufficientParticipants,
				"Cannot start tournament with %d participants (minimum %d required)",
				tournament.ParticipantCount, tournament.Settings.MinParticipants)
		}

		now := s.now()
		tournament.Status = next
		tournament.UpdatedAt = now
		switch next {
		case models.StatusCompleted:
			tournament.CompletedAt = &now
		case models.StatusCancelled:
			tournament.CancelledAt = &now
			tournament.CancelledBy = strPtr(callerID)
			if reason = strings.TrimSpace(reason); reason != "" {
				tournament.CancellationReason = strPtr(reason)
			}
		}

		if err := tx.Tournaments().UpdateStatus(ctx, tournament); err != nil {
			return fmt.Errorf("failed to update tournament status: %w", err)
		}

		activity = newTournamentActivity(models.ActivityTournamentStatusChanged, tournament, callerID, now)
		activity.PreviousStatus = statusPtr(current)
		activity.NewStatus = statusPtr(next)
		if err := appendActivity(ctx, tx, &activity); err != nil {
			return err
		}
		updated = tournament
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, &activity, nil
}

// CloseExpiredRegistrations moves every tournament whose registration
// deadline has passed into bracket generation. Failures are logged per
// tournament and do not stop the sweep; the count of closed tournaments is
// returned.
func (s *tournamentService) CloseExpiredRegistrations(ctx context.Context) (int, error) {
	expired, err := s.store.Tournaments().ListRegistrationPastDeadline(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to list tournaments past registration deadline: %w", err)
	}

	closed := 0
	for _, t := range expired {
		if err := ctx.Err(); err != nil {
			return closed, err
		}
		_, activity, err := s.transition(ctx, t.ID, SystemUserID, models.StatusBracketGeneration, "", false)
		if err != nil {
			s.logger.Warn("failed to close registration",
				slog.String("tournament_id", t.ID), slog.Any("error", err))
			continue
		}
		closed++
		s.notifier.PublishActivity(*activity)
	}
	if closed > 0 {
		s.logger.Info("registrations closed by deadline", slog.Int("count", closed))
	}
	return closed, nil
}

var allowedLogoTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

func (s *tournamentService) UploadTournamentLogo(ctx context.Context, callerID, tournamentID, contentType string, file io.Reader) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, newError(CodeFailedPrecondition, ErrStorageUnavailable, "File storage is not configured")
	}
	ext, ok := allowedLogoTypes[contentType]
	if !ok {
		return nil, newError(CodeInvalidArgument, ErrInvalidFile, "Unsupported logo content type: %q", contentType)
	}

	tournament, err := loadTournament(ctx, s.store, tournamentID, false)
	if err != nil {
		return nil, err
	}
	if err := authorizeHostOrAdmin(ctx, s.store, tournament, callerID,
		"Only tournament host or club admins can change the tournament logo"); err != nil {
		return nil, err
	}

	key := path.Join("tournaments", tournament.ID, "logo-"+uuid.NewString()+ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload tournament logo: %w", err)
	}

	if err := s.store.Tournaments().UpdateLogoKey(ctx, tournament.ID, &key); err != nil {
		if delErr := s.uploader.Delete(ctx, key); delErr != nil {
			s.logger.Error("failed to delete orphaned logo", slog.String("key", key), slog.Any("error", delErr))
		}
		return nil, fmt.Errorf("failed to save tournament logo key: %w", err)
	}

	if old := tournament.LogoKey; old != nil && *old != "" {
		if err := s.uploader.Delete(ctx, *old); err != nil {
			s.logger.Warn("failed to delete previous logo", slog.String("key", *old), slog.Any("error", err))
		}
	}

	tournament.LogoKey = &key
	s.populateLogoURL(tournament)
	return tournament, nil
}

func (s *tournamentService) populateLogoURL(t *models.Tournament) {
	if t == nil || t.LogoKey == nil || *t.LogoKey == "" || s.uploader == nil {
		return
	}
	if url := s.uploader.GetPublicURL(*t.LogoKey); url != "" {
		t.LogoURL = &url
	}
}

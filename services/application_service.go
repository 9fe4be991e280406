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
)

type CreateEventInput struct {
	Kind            models.EventKind `json:"kind"`
	Title           string           `json:"title"`
	MaxParticipants int              `json:"maxParticipants"`
}

type CreateApplicationInput struct {
	EventID   string `json:"eventId"`
	PartnerID string `json:"partnerId,omitempty"`
}

type ApproveApplicationInput struct {
	ApplicationID string `json:"applicationId"`
	HostID        string `json:"hostId,omitempty"`
	EventID       string `json:"eventId,omitempty"`
	ApplicantID   string `json:"applicantId,omitempty"`
}

type ApprovalResult struct {
	ApplicationID          string   `json:"applicationId"`
	EventID                string   `json:"eventId"`
	EventKind              string   `json:"eventKind"`
	ChatRoomID             string   `json:"chatRoomId"`
	PartnerApplicationID   *string  `json:"partnerApplicationId,omitempty"`
	RejectedApplicationIDs []string `json:"rejectedApplicationIds"`
}

type ApplicationService interface {
	CreateEvent(ctx context.Context, callerID string, input CreateEventInput) (*models.Event, error)
	CreateApplication(ctx context.Context, callerID string, input CreateApplicationInput) (*models.Application, error)
	ListEventApplications(ctx context.Context, callerID, eventID string) ([]models.Application, error)
	ApproveApplication(ctx context.Context, callerID string, input ApproveApplicationInput) (*ApprovalResult, error)
}

// eventLookup finds an event of one kind; it returns
// repositories.ErrEventNotFound when the id is not of that kind.
type eventLookup func(ctx context.Context, store repositories.Store, id string) (*models.Event, error)

func lookupKind(kind models.EventKind) eventLookup {
	return func(ctx context.Context, store repositories.Store, id string) (*models.Event, error) {
		return store.Events().FindByID(ctx, kind, id)
	}
}

// eventLookups are tried in order; the first hit wins.
var eventLookups = []eventLookup{
	lookupKind(models.EventKindLeague),
	lookupKind(models.EventKindTournament),
	lookupKind(models.EventKindLightning),
	lookupKind(models.EventKindEvent),
}

func resolveEvent(ctx context.Context, store repositories.Store, eventID string) (*models.Event, error) {
	for _, lookup := range eventLookups {
		event, err := lookup(ctx, store, eventID)
		if err == nil {
			return event, nil
		}
		if !errors.Is(err, repositories.ErrEventNotFound) {
			return nil, fmt.Errorf("failed to resolve event %s: %w", eventID, err)
		}
	}
	return nil, newError(CodeNotFound, ErrEventNotFound, "Event not found in any collection")
}

type applicationService struct {
	store    repositories.Store
	notifier ActivityNotifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewApplicationService(store repositories.Store, notifier ActivityNotifier, logger *slog.Logger) ApplicationService {
	return &applicationService{
		store:    store,
		notifier: notifierOrNoop(notifier),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *applicationService) CreateEvent(ctx context.Context, callerID string, input CreateEventInput) (*models.Event, error) {
	switch input.Kind {
	case models.EventKindLeague, models.EventKindLightning, models.EventKindEvent:
	case models.EventKindTournament:
		return nil, newError(CodeInvalidArgument, ErrValidationFailed, "Tournaments are created through the tournament registry")
	default:
		return nil, newError(CodeInvalidArgument, ErrValidationFailed, "Invalid event kind: %q", input.Kind)
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, newError(CodeInvalidArgument, ErrValidationFailed, "Event title is required")
	}
	if input.MaxParticipants < 0 {
		return nil, newError(CodeInvalidArgument, ErrValidationFailed, "maxParticipants must not be negative")
	}

	event := &models.Event{
		ID:              uuid.NewString(),
		Kind:            input.Kind,
		HostID:          callerID,
		Title:           title,
		MaxParticipants: input.MaxParticipants,
	}
	if err := s.store.Events().Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (s *applicationService) CreateApplication(ctx context.Context, callerID string, input CreateApplicationInput) (*models.Application, error) {
	event, err := resolveEvent(ctx, s.store, input.EventID)
	if err != nil {
		return nil, err
	}
	if event.HostID == callerID {
		return nil, newError(CodeInvalidArgument, ErrValidationFailed, "Hosts cannot apply to their own event")
	}

	app := &models.Application{
		ID:          uuid.NewString(),
		EventID:     event.ID,
		ApplicantID: callerID,
		Status:      models.ApplicationPending,
	}
	if partnerID := strings.TrimSpace(input.PartnerID); partnerID != "" {
		if partnerID == callerID {
			return nil, newError(CodeInvalidArgument, ErrValidationFailed, "You cannot be your own partner")
		}
		if _, err := loadUser(ctx, s.store, partnerID, ErrPartnerNotFound, "Partner profile not found"); err != nil {
			return nil, err
		}
		app.PartnerID = &partnerID
	}

	err = s.store.RunInTx(ctx, func(tx repositories.Store) error {
		if _, err := tx.Applications().FindActiveByApplicant(ctx, event.ID, callerID); err == nil {
			return newError(CodeFailedPrecondition, ErrApplicationExists, "You have already applied to this event")
		} else if !errors.Is(err, repositories.ErrApplicationNotFound) {
			return fmt.Errorf("failed to check existing application: %w", err)
		}
		if event.HasCapacityLimit() {
			approved, err := countApproved(ctx, tx, event.ID)
			if err != nil {
				return err
			}
			if approved >= event.MaxParticipants {
				return newError(CodeFailedPrecondition, ErrEventFull, "Event is full")
			}
		}
		now := s.now()
		app.CreatedAt, app.UpdatedAt = now, now
		if err := tx.Applications().Create(ctx, app); err != nil {
			return fmt.Errorf("failed to create application: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (s *applicationService) ListEventApplications(ctx context.Context, callerID, eventID string) ([]models.Application, error) {
	event, err := resolveEvent(ctx, s.store, eventID)
	if err != nil {
		return nil, err
	}
	if event.HostID != callerID {
		return nil, newError(CodePermissionDenied, ErrNotEventHost, "Only the event host can view applications")
	}
	apps, err := s.store.Applications().ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func (s *applicationService) loadApplication(ctx context.Context, store repositories.Store, input ApproveApplicationInput) (*models.Application, error) {
	app, err := store.Applications().GetByID(ctx, input.ApplicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, newError(CodeNotFound, ErrApplicationNotFound, "Application not found")
		}
		return nil, fmt.Errorf("failed to load application %s: %w", input.ApplicationID, err)
	}
	malformed := app.EventID == "" || app.ApplicantID == "" ||
		(input.EventID != "" && input.EventID != app.EventID) ||
		(input.ApplicantID != "" && input.ApplicantID != app.ApplicantID)
	if malformed {
		return nil, newError(CodeInternal, ErrApplicationMalformed, "Application data is invalid")
	}
	return app, nil
}

// ApproveApplication approves a join request for an event hosted by the
// caller. In one transaction it opens or reuses the host/applicant chat room,
// approves a pending partner application, and rejects the remaining pending
// applications once the event is at capacity. Approvals that would take the
// event past its capacity are refused.
func (s *applicationService) ApproveApplication(ctx context.Context, callerID string, input ApproveApplicationInput) (*ApprovalResult, error) {
	app, err := s.loadApplication(ctx, s.store, input)
	if err != nil {
		return nil, err
	}
	event, err := resolveEvent(ctx, s.store, app.EventID)
	if err != nil {
		return nil, err
	}
	if callerID != event.HostID || (input.HostID != "" && input.HostID != event.HostID) {
		return nil, newError(CodePermissionDenied, ErrNotEventHost, "Only the event host can approve applications")
	}

	result := &ApprovalResult{
		ApplicationID:          app.ID,
		EventID:                event.ID,
		EventKind:              string(event.Kind),
		RejectedApplicationIDs: []string{},
	}
	var activity models.Activity

	err = s.store.RunInTx(ctx, func(tx repositories.Store) error {
		current, err := s.loadApplication(ctx, tx, input)
		if err != nil {
			return err
		}
		if current.Status != models.ApplicationPending {
			return newError(CodeFailedPrecondition, ErrApplicationNotPending, "Application is already %s", current.Status)
		}

		var partnerApp *models.Application
		if current.PartnerID != nil {
			found, err := tx.Applications().FindActiveByApplicant(ctx, event.ID, *current.PartnerID)
			switch {
			case err == nil && found.Status == models.ApplicationPending:
				partnerApp = found
			case err != nil && !errors.Is(err, repositories.ErrApplicationNotFound):
				return fmt.Errorf("failed to load partner application: %w", err)
			}
		}

		if event.HasCapacityLimit() {
			approved, err := countApproved(ctx, tx, event.ID)
			if err != nil {
				return err
			}
			seats := 1
			if partnerApp != nil {
				seats = 2
			}
			if approved+seats > event.MaxParticipants {
				return newError(CodeFailedPrecondition, ErrEventFull,
					"Approving would exceed the event capacity (%d of %d places taken)", approved, event.MaxParticipants)
			}
		}

		now := s.now()
		if err := tx.Applications().UpdateStatus(ctx, current.ID, models.ApplicationApproved, now); err != nil {
			return fmt.Errorf("failed to approve application: %w", err)
		}

		room, err := s.ensureDirectRoom(ctx, tx, event, current.ApplicantID, now)
		if err != nil {
			return err
		}
		result.ChatRoomID = room.ID

		if partnerApp != nil {
			if err := tx.Applications().UpdateStatus(ctx, partnerApp.ID, models.ApplicationApproved, now); err != nil {
				return fmt.Errorf("failed to approve partner application: %w", err)
			}
			if err := tx.ChatRooms().AddMember(ctx, room.ID, partnerApp.ApplicantID); err != nil {
				return fmt.Errorf("failed to add partner to chat room: %w", err)
			}
			result.PartnerApplicationID = strPtr(partnerApp.ID)
		}

		rejected, err := s.rejectOverflow(ctx, tx, event, now)
		if err != nil {
			return err
		}
		result.RejectedApplicationIDs = rejected

		activity = models.Activity{
			ID:        uuid.NewString(),
			Type:      models.ActivityApplicationApproved,
			EventID:   strPtr(event.ID),
			UserID:    callerID,
			CreatedAt: now,
		}
		if event.Kind == models.EventKindTournament {
			activity.TournamentID = strPtr(event.ID)
		}
		return appendActivity(ctx, tx, &activity)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("application approved",
		slog.String("application_id", result.ApplicationID),
		slog.String("event_id", event.ID),
		slog.String("event_kind", string(event.Kind)),
		slog.Int("rejected", len(result.RejectedApplicationIDs)))
	s.notifier.PublishActivity(activity)
	return result, nil
}

func (s *applicationService) ensureDirectRoom(ctx context.Context, tx repositories.Store, event *models.Event, applicantID string, now time.Time) (*models.ChatRoom, error) {
	room, err := tx.ChatRooms().FindDirectRoom(ctx, event.HostID, applicantID)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, repositories.ErrChatRoomNotFound) {
		return nil, fmt.Errorf("failed to look up chat room: %w", err)
	}

	room = &models.ChatRoom{
		ID:        uuid.NewString(),
		Type:      models.ChatRoomDirect,
		EventID:   strPtr(event.ID),
		MemberIDs: []string{event.HostID, applicantID},
		CreatedAt: now,
	}
	if err := tx.ChatRooms().Create(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create chat room: %w", err)
	}
	return room, nil
}

// rejectOverflow rejects every pending application once the number of
// approved ones reaches the event capacity.
func (s *applicationService) rejectOverflow(ctx context.Context, tx repositories.Store, event *models.Event, now time.Time) ([]string, error) {
	rejected := []string{}
	if !event.HasCapacityLimit() {
		return rejected, nil
	}

	apps, err := tx.Applications().ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list event applications: %w", err)
	}
	if approvedIn(apps) < event.MaxParticipants {
		return rejected, nil
	}

	for _, a := range apps {
		if a.Status != models.ApplicationPending {
			continue
		}
		if err := tx.Applications().UpdateStatus(ctx, a.ID, models.ApplicationRejected, now); err != nil {
			return nil, fmt.Errorf("failed to reject application %s: %w", a.ID, err)
		}
		rejected = append(rejected, a.ID)
	}
	return rejected, nil
}

func approvedIn(apps []models.Application) int {
	n := 0
	for _, a := range apps {
		if a.Status == models.ApplicationApproved {
			n++
		}
	}
	return n
}

// countApproved locks the event's applications and counts the approved ones.
func countApproved(ctx context.Context, store repositories.Store, eventID string) (int, error) {
	apps, err := store.Applications().ListByEventForUpdate(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to lock event applications: %w", err)
	}
	return approvedIn(apps), nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/club-tournaments/models"
	"github.com/Dosada05/club-tournaments/repositories"
	"github.com/google/uuid"
)

type CreateClubInput struct {
	Name string `json:"name"`
}

type SetMembershipInput struct {
	ClubID string                `json:"clubId"`
	UserID string                `json:"userId"`
	Role   models.MembershipRole `json:"role"`
}

type ClubService interface {
	CreateClub(ctx context.Context, callerID string, input CreateClubInput) (*models.Club, error)
	SetMembership(ctx context.Context, callerID string, input SetMembershipInput) (*models.Membership, error)
}

type clubService struct {
	store repositories.Store
}

func NewClubService(store repositories.Store) ClubService {
	return &clubService{store: store}
}

// CreateClub creates a club and makes the caller its first admin.
func (s *clubService) CreateClub(ctx context.Context, callerID string, input CreateClubInput) (*models.Club, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, newError(CodeInvalidArgument, ErrValidationFailed, "Club name is required")
	}

	now := time.Now().UTC()
	club := &models.Club{ID: uuid.NewString(), Name: name, CreatedBy: callerID, CreatedAt: now}
	err := s.store.RunInTx(ctx, func(tx repositories.Store) error {
		if err := tx.Clubs().Create(ctx, club); err != nil {
			return fmt.Errorf("failed to create club: %w", err)
		}
		admin := &models.Membership{ClubID: club.ID, UserID: callerID, Role: models.RoleAdmin, CreatedAt: now}
		if err := tx.Clubs().UpsertMembership(ctx, admin); err != nil {
			return fmt.Errorf("failed to add club creator as admin: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return club, nil
}

func (s *clubService) SetMembership(ctx context.Context, callerID string, input SetMembershipInput) (*models.Membership, error) {
	if !input.Role.Valid() {
		return nil, newError(CodeInvalidArgument, ErrInvalidRole, "Invalid role: %q", input.Role)
	}
	if _, err := s.store.Clubs().GetByID(ctx, input.ClubID); err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, newError(CodeNotFound, ErrClubNotFound, "Club not found")
		}
		return nil, fmt.Errorf("failed to load club %s: %w", input.ClubID, err)
	}
	isAdmin, err := isClubAdmin(ctx, s.store, input.ClubID, callerID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, newError(CodePermissionDenied, ErrNotClubAdmin, "Only club admins can manage memberships")
	}
	if _, err := loadUser(ctx, s.store, input.UserID, ErrUserNotFound, "User not found"); err != nil {
		return nil, err
	}

	m := &models.Membership{ClubID: input.ClubID, UserID: input.UserID, Role: input.Role, CreatedAt: time.Now().UTC()}
	if err := s.store.Clubs().UpsertMembership(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to save membership: %w", err)
	}
	return m, nil
}

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
	"golang.org/x/sync/errgroup"
)

type CreateTeamInput struct {
	Player1ID string `json:"player1Id"`
	Player2ID string `json:"player2Id"`
	TeamName  string `json:"teamName,omitempty"`
}

type TeamService interface {
	CreateTeam(ctx context.Context, callerID string, input CreateTeamInput) (*models.Team, error)
	GetTeam(ctx context.Context, id string) (*models.Team, error)
}

type teamService struct {
	store repositories.Store
}

func NewTeamService(store repositories.Store) TeamService {
	return &teamService{store: store}
}

func (s *teamService) CreateTeam(ctx context.Context, callerID string, input CreateTeamInput) (*models.Team, error) {
	if input.Player1ID == "" || input.Player2ID == "" {
		return nil, newError(CodeInvalidArgument, ErrValidationFailed, "player1Id and player2Id are required")
	}
	if input.Player1ID == input.Player2ID {
		return nil, newError(CodeInvalidArgument, ErrValidationFailed, "A team needs two different players")
	}
	if callerID != input.Player1ID && callerID != input.Player2ID {
		return nil, newError(CodePermissionDenied, ErrNotTeamMember, "You can only create a team you play in")
	}

	var player1, player2 *models.User
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := loadUser(gctx, s.store, input.Player1ID, ErrUserNotFound, "Player profile not found")
		player1 = u
		return err
	})
	g.Go(func() error {
		u, err := loadUser(gctx, s.store, input.Player2ID, ErrUserNotFound, "Player profile not found")
		player2 = u
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.TeamName)
	if name == "" {
		name = player1.DisplayName + " / " + player2.DisplayName
	}
	now := time.Now().UTC()
	team := &models.Team{
		ID:        uuid.NewString(),
		Player1ID: player1.ID,
		Player2ID: player2.ID,
		TeamName:  name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Teams().Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *teamService) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	team, err := s.store.Teams().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, newError(CodeNotFound, ErrTeamNotFound, "Team not found")
		}
		return nil, fmt.Errorf("failed to load team %s: %w", id, err)
	}
	return team, nil
}

package services

import (
	"context"
	"testing"

	"github.com/Dosada05/club-tournaments/models"
)

func TestClubService(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "alice", "Alice")
	env.addUser(t, "bob", "Bob")
	svc := NewClubService(env.store)
	ctx := context.Background()

	club, err := svc.CreateClub(ctx, "alice", CreateClubInput{Name: "  Riverside  "})
	if err != nil {
		t.Fatalf("CreateClub: %v", err)
	}
	if club.Name != "Riverside" || club.CreatedBy != "alice" {
		t.Errorf("unexpected club %+v", club)
	}
	m, err := env.store.Clubs().GetMembership(ctx, club.ID, "alice")
	if err != nil || !m.IsAdmin() {
		t.Fatalf("creator should be admin, got %+v, %v", m, err)
	}

	_, err = svc.CreateClub(ctx, "alice", CreateClubInput{Name: " "})
	assertCode(t, err, CodeInvalidArgument)

	t.Run("admin grants membership", func(t *testing.T) {
		got, err := svc.SetMembership(ctx, "alice", SetMembershipInput{ClubID: club.ID, UserID: "bob", Role: models.RoleMember})
		if err != nil {
			t.Fatalf("SetMembership: %v", err)
		}
		if got.Role != models.RoleMember {
			t.Errorf("role = %s", got.Role)
		}
	})

	t.Run("member cannot promote", func(t *testing.T) {
		_, err := svc.SetMembership(ctx, "bob", SetMembershipInput{ClubID: club.ID, UserID: "bob", Role: models.RoleAdmin})
		assertCode(t, err, CodePermissionDenied)
		assertIs(t, err, ErrNotClubAdmin)
	})

	t.Run("promotion lets member create tournaments", func(t *testing.T) {
		if _, err := svc.SetMembership(ctx, "alice", SetMembershipInput{ClubID: club.ID, UserID: "bob", Role: models.RoleAdmin}); err != nil {
			t.Fatalf("promote: %v", err)
		}
		in := validCreateInput(models.EventMensSingles, 2, 8)
		in.ClubID = club.ID
		if _, err := env.tournaments.CreateTournament(ctx, "bob", in); err != nil {
			t.Errorf("promoted admin should create tournaments: %v", err)
		}
	})

	tests := []struct {
		name  string
		input SetMembershipInput
		code  ErrorCode
	}{
		{"invalid role", SetMembershipInput{ClubID: club.ID, UserID: "bob", Role: "owner"}, CodeInvalidArgument},
		{"unknown club", SetMembershipInput{ClubID: "nope", UserID: "bob", Role: models.RoleMember}, CodeNotFound},
		{"unknown user", SetMembershipInput{ClubID: club.ID, UserID: "ghost", Role: models.RoleMember}, CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SetMembership(ctx, "alice", tt.input)
			assertCode(t, err, tt.code)
		})
	}
}

package services

import (
	"context"
	"testing"

	"github.com/Dosada05/club-tournaments/repositories"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	store := repositories.NewMemoryStore()
	svc := NewAuthService(store.Users())
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{DisplayName: " Alice ", Email: "Alice@Club.org", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.DisplayName != "Alice" || user.Email != "alice@club.org" {
		t.Errorf("unexpected user %+v", user)
	}
	if user.PasswordHash != "" {
		t.Error("returned user must not carry the password hash")
	}

	stored, err := store.Users().GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("stored user: %v", err)
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "correct-horse" {
		t.Error("stored password should be a bcrypt hash")
	}

	logged, err := svc.Login(ctx, LoginInput{Email: "ALICE@club.org ", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.ID != user.ID {
		t.Errorf("logged in as %s, want %s", logged.ID, user.ID)
	}

	_, err = svc.Login(ctx, LoginInput{Email: "alice@club.org", Password: "wrong-password"})
	assertCode(t, err, CodeUnauthenticated)
	assertIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@club.org", Password: "correct-horse"})
	assertCode(t, err, CodeUnauthenticated)

	_, err = svc.Register(ctx, RegisterInput{DisplayName: "Other", Email: "alice@club.org", Password: "another-pass"})
	assertCode(t, err, CodeFailedPrecondition)
	assertIs(t, err, ErrEmailTaken)

	profile, err := svc.GetProfile(ctx, user.ID)
	if err != nil || profile.Email != "alice@club.org" || profile.PasswordHash != "" {
		t.Errorf("unexpected profile %+v, %v", profile, err)
	}
	_, err = svc.GetProfile(ctx, "missing")
	assertCode(t, err, CodeNotFound)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc := NewAuthService(repositories.NewMemoryStore().Users())

	tests := []struct {
		name   string
		input  RegisterInput
		target error
	}{
		{"missing name", RegisterInput{Email: "a@b.co", Password: "longenough"}, ErrValidationFailed},
		{"bad email", RegisterInput{DisplayName: "A", Email: "not-an-email", Password: "longenough"}, ErrValidationFailed},
		{"short password", RegisterInput{DisplayName: "A", Email: "a@b.co", Password: "short"}, ErrPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.input)
			assertCode(t, err, CodeInvalidArgument)
			assertIs(t, err, tt.target)
		})
	}
}

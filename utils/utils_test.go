package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	BcryptCost = bcrypt.MinCost

	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPasswordHash("correct horse", hash) {
		t.Error("expected password to match its hash")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("expected wrong password to be rejected")
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"player@club.org", true},
		{"first.last+tag@example.co.uk", true},
		{"no-at-sign.org", false},
		{"missing@tld", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Player@Club.ORG "); got != "player@club.org" {
		t.Errorf("unexpected normalized email %q", got)
	}
}

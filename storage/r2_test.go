package storage

import (
	"context"
	"testing"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		key  string
		want string
	}{
		{"host only", "https://cdn.example.com", "tournaments/t1/logo.png", "https://cdn.example.com/tournaments/t1/logo.png"},
		{"base with path", "https://cdn.example.com/assets", "logo.png", "https://cdn.example.com/assets/logo.png"},
		{"base with slash", "https://cdn.example.com/assets/", "/logo.png", "https://cdn.example.com/assets/logo.png"},
		{"empty key", "https://cdn.example.com", "", ""},
		{"empty base", "", "logo.png", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PublicURL(tt.base, tt.key); got != tt.want {
				t.Errorf("PublicURL(%q, %q) = %q, want %q", tt.base, tt.key, got, tt.want)
			}
		})
	}
}

func TestNewR2UploaderRequiresAllFields(t *testing.T) {
	_, err := NewR2Uploader(context.Background(), R2Config{AccountID: "acc", BucketName: "logos"})
	if err == nil {
		t.Fatal("expected error for incomplete configuration")
	}
}

func TestR2ConfigEnabled(t *testing.T) {
	if (R2Config{}).Enabled() {
		t.Error("empty config must be disabled")
	}
	if !(R2Config{BucketName: "logos"}).Enabled() {
		t.Error("partially filled config must count as enabled")
	}
}

package statictoken

import (
	"errors"
	"strings"
	"testing"

	"github.com/matchdayhq/squad-engine/internal/domain/user"
	"github.com/matchdayhq/squad-engine/internal/usecase"
)

func TestVerifier_RoundTrip(t *testing.T) {
	verifier, err := NewVerifier("test-secret")
	if err != nil {
		t.Fatalf("create verifier failed: %v", err)
	}

	token := verifier.Issue(user.Principal{UserID: "user-1", Email: "one@example.com"})
	principal, err := verifier.VerifyAccessToken(t.Context(), token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if principal.UserID != "user-1" || principal.Email != "one@example.com" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestVerifier_Rejections(t *testing.T) {
	verifier, err := NewVerifier("test-secret")
	if err != nil {
		t.Fatalf("create verifier failed: %v", err)
	}
	valid := verifier.Issue(user.Principal{UserID: "user-1"})

	other, err := NewVerifier("other-secret")
	if err != nil {
		t.Fatalf("create verifier failed: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "no separator", token: strings.ReplaceAll(valid, ".", "")},
		{name: "tampered payload", token: "x" + valid},
		{name: "tampered signature", token: valid + "00"},
		{name: "wrong secret", token: other.Issue(user.Principal{UserID: "user-1"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := verifier.VerifyAccessToken(t.Context(), tt.token); !errors.Is(err, usecase.ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

func TestNewVerifier_RequiresSecret(t *testing.T) {
	if _, err := NewVerifier("  "); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/sujals170/Bright-Byte-sub000/internal/domain"
)

const testSecret = "test-secret"

func TestVerify_RoundTrip(t *testing.T) {
	v := NewVerifier(testSecret)

	token := Mint(testSecret, "user-42", domain.RoleInstructor, time.Hour)
	id, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.Subject != "user-42" {
		t.Fatalf("Subject=%q, want user-42", id.Subject)
	}
	if id.Role != domain.RoleInstructor {
		t.Fatalf("Role=%q, want instructor", id.Role)
	}
}

func TestVerify_RejectsWrongSecret(t *testing.T) {
	v := NewVerifier(testSecret)
	token := Mint("other-secret", "user-42", domain.RoleStudent, time.Hour)
	if _, err := v.Verify(token); err != ErrInvalidToken {
		t.Fatalf("Verify err=%v, want %v", err, ErrInvalidToken)
	}
}

func TestVerify_RejectsExpired(t *testing.T) {
	v := NewVerifier(testSecret)
	v.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	token := Mint(testSecret, "user-42", domain.RoleStudent, time.Hour)
	if _, err := v.Verify(token); err != ErrExpiredToken {
		t.Fatalf("Verify err=%v, want %v", err, ErrExpiredToken)
	}
}

func TestVerify_NoExpiryClaimIsValid(t *testing.T) {
	v := NewVerifier(testSecret)
	token := Mint(testSecret, "user-42", domain.RoleStudent, 0)
	if _, err := v.Verify(token); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerify_RejectsMalformed(t *testing.T) {
	v := NewVerifier(testSecret)
	cases := []string{
		"",
		"not-a-token",
		"a.b",
		"..",
		strings.Repeat("x", maxTokenLen+1),
		Mint(testSecret, "", domain.RoleStudent, time.Hour),
	}
	for _, tc := range cases {
		if _, err := v.Verify(tc); err == nil {
			t.Fatalf("Verify(%.20q) succeeded, want error", tc)
		}
	}
}

func TestVerify_RejectsUnknownRole(t *testing.T) {
	v := NewVerifier(testSecret)
	token := Mint(testSecret, "user-42", domain.Role("admin"), time.Hour)
	if _, err := v.Verify(token); err != ErrInvalidToken {
		t.Fatalf("Verify err=%v, want %v", err, ErrInvalidToken)
	}
}

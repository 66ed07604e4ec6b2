package auth

import (
	"testing"
	"time"

	"github.com/renalhub/go-portal-backend/internal/domain"
)

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	ti := NewTokenIssuer("test-secret", time.Hour)

	u := &domain.User{ID: "u-1", Name: "Alex", Role: domain.RolePatient, PatientID: "patient-789"}
	tok, err := ti.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	ident, err := ti.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ident.ID != "u-1" || ident.Role != domain.RolePatient || ident.PatientID != "patient-789" {
		t.Fatalf("unexpected identity: %+v", ident)
	}
	if !ident.IsPatient() || ident.IsStaff() {
		t.Fatalf("role helpers wrong for %+v", ident)
	}
}

func TestVerify_RejectsBadTokens(t *testing.T) {
	ti := NewTokenIssuer("test-secret", time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ti.Verify(tc.token); err != ErrInvalidToken {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestVerify_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour)
	verifier := NewTokenIssuer("secret-b", time.Hour)

	tok, err := issuer.Issue(&domain.User{ID: "u-2", Role: domain.RoleStaff})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Verify(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_RejectsExpired(t *testing.T) {
	ti := NewTokenIssuer("test-secret", -time.Minute)
	tok, err := ti.Issue(&domain.User{ID: "u-3", Role: domain.RoleDoctor})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := ti.Verify(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestIdentityRoleHelpers(t *testing.T) {
	if !(Identity{Role: domain.RoleDoctor}).IsStaff() {
		t.Fatal("doctor should count as staff-side")
	}
	if !(Identity{Role: domain.RoleStaff}).IsStaff() {
		t.Fatal("staff should count as staff-side")
	}
	if (Identity{Role: domain.RolePatient}).IsStaff() {
		t.Fatal("patient must not count as staff-side")
	}
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/renalhub/go-portal-backend/internal/auth"
	"github.com/renalhub/go-portal-backend/internal/domain"
	"github.com/renalhub/go-portal-backend/internal/repo"
)

func newAccountService(t *testing.T) *AccountService {
	t.Helper()
	db := newServiceDB(t, &domain.User{}, &domain.Patient{})
	return &AccountService{
		DB:     db,
		Tokens: auth.NewTokenIssuer("test-secret", time.Hour),
	}
}

func TestRegister_PatientGetsLinkedProfile(t *testing.T) {
	svc := newAccountService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "hunter22",
		Role:     domain.RolePatient,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.PatientID == "" {
		t.Fatalf("patient registration missing profile link")
	}
	if u.PasswordHash == "hunter22" || u.PasswordHash == "" {
		t.Fatalf("password stored unhashed")
	}

	p, err := repo.GetPatient(ctx, svc.DB, u.PatientID)
	if err != nil {
		t.Fatalf("linked patient profile missing: %v", err)
	}
	if p.UserID != u.ID || p.Name != "Alice" {
		t.Fatalf("profile not linked back: %+v", p)
	}
}

func TestRegister_StaffHasNoProfile(t *testing.T) {
	svc := newAccountService(t)
	u, err := svc.Register(context.Background(), RegisterInput{
		Name: "Nurse Carol", Email: "carol@example.com", Password: "pw123456", Role: domain.RoleStaff,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.PatientID != "" {
		t.Fatalf("staff user should carry no patient link: %+v", u)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newAccountService(t)
	ctx := context.Background()
	in := RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "pw123456", Role: domain.RolePatient}
	if _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, in); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegister_UnknownRole(t *testing.T) {
	svc := newAccountService(t)
	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Eve", Email: "eve@example.com", Password: "pw123456", Role: "admin",
	})
	if !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestLogin_RoundTrip(t *testing.T) {
	svc := newAccountService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{
		Name: "Alice", Email: "alice@example.com", Password: "hunter22", Role: domain.RolePatient,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	u, tok, err := svc.Login(ctx, "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok == "" {
		t.Fatalf("no token issued")
	}
	ident, err := svc.Tokens.Verify(tok)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if ident.ID != u.ID || ident.Role != domain.RolePatient || ident.PatientID != u.PatientID {
		t.Fatalf("identity mismatch: %+v vs %+v", ident, u)
	}
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc := newAccountService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{
		Name: "Alice", Email: "alice@example.com", Password: "hunter22", Role: domain.RolePatient,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, errWrong := svc.Login(ctx, "alice@example.com", "nope")
	_, _, errGhost := svc.Login(ctx, "ghost@example.com", "nope")
	if !errors.Is(errWrong, ErrInvalidCredentials) || !errors.Is(errGhost, ErrInvalidCredentials) {
		t.Fatalf("both failures must be ErrInvalidCredentials: %v / %v", errWrong, errGhost)
	}
}

func TestUpdateProfile_PartialFields(t *testing.T) {
	svc := newAccountService(t)
	ctx := context.Background()
	u, err := svc.Register(ctx, RegisterInput{
		Name: "Alice", Email: "alice@example.com", Password: "hunter22", Role: domain.RolePatient,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := svc.UpdateProfile(ctx, auth.Identity{ID: u.ID}, "Alice B.", "")
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.Name != "Alice B." || got.Email != "alice@example.com" {
		t.Fatalf("partial update wrong: %+v", got)
	}
}

func TestListStaff_ExcludesPatients(t *testing.T) {
	svc := newAccountService(t)
	ctx := context.Background()
	for _, in := range []RegisterInput{
		{Name: "Alice", Email: "alice@example.com", Password: "pw123456", Role: domain.RolePatient},
		{Name: "Dr. Bob", Email: "bob@example.com", Password: "pw123456", Role: domain.RoleDoctor},
		{Name: "Nurse Carol", Email: "carol@example.com", Password: "pw123456", Role: domain.RoleStaff},
	} {
		if _, err := svc.Register(ctx, in); err != nil {
			t.Fatalf("register %s: %v", in.Email, err)
		}
	}

	staff, err := svc.ListStaff(ctx)
	if err != nil {
		t.Fatalf("ListStaff: %v", err)
	}
	if len(staff) != 2 {
		t.Fatalf("expected 2 care-side users, got %d", len(staff))
	}
	for _, u := range staff {
		if u.Role == domain.RolePatient {
			t.Fatalf("patient leaked into staff directory: %+v", u)
		}
	}
}

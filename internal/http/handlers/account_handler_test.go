package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/renalhub/go-portal-backend/internal/auth"
	"github.com/renalhub/go-portal-backend/internal/domain"
	"github.com/renalhub/go-portal-backend/internal/services"
)

func TestRegister_CreatesAccount(t *testing.T) {
	f := newFixture()
	var got services.RegisterInput
	f.accounts.register = func(_ context.Context, in services.RegisterInput) (*domain.User, error) {
		got = in
		return &domain.User{ID: "u-new", Name: in.Name, Email: in.Email, Role: in.Role}, nil
	}

	w := do(t, f.router(patientIdent), http.MethodPost, "/register", map[string]string{
		"name": "Maria Santos", "email": "maria@example.com", "password": "correct-horse", "role": "patient",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if got.Email != "maria@example.com" || got.Role != domain.RolePatient {
		t.Fatalf("input = %+v", got)
	}
	body := decodeBody(t, w)
	if body["id"] != "u-new" {
		t.Fatalf("body = %s", w.Body.String())
	}
	if _, leaked := body["passwordHash"]; leaked {
		t.Fatal("password hash leaked in response")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture()
	f.accounts.register = func(context.Context, services.RegisterInput) (*domain.User, error) {
		return nil, services.ErrEmailTaken
	}
	w := do(t, f.router(patientIdent), http.MethodPost, "/register", map[string]string{
		"name": "Maria", "email": "maria@example.com", "password": "correct-horse", "role": "patient",
	}, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if decodeBody(t, w)["code"] != ErrCodeConflict {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestRegister_BadPayload(t *testing.T) {
	f := newFixture()
	called := false
	f.accounts.register = func(context.Context, services.RegisterInput) (*domain.User, error) {
		called = true
		return nil, nil
	}
	// Password below the minimum length fails binding before the service.
	w := do(t, f.router(patientIdent), http.MethodPost, "/register", map[string]string{
		"name": "Maria", "email": "maria@example.com", "password": "short", "role": "patient",
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if called {
		t.Fatal("service called on invalid payload")
	}
}

func TestLogin_IssuesToken(t *testing.T) {
	f := newFixture()
	f.accounts.login = func(_ context.Context, email, password string) (*domain.User, string, error) {
		if email != "maria@example.com" || password != "correct-horse" {
			t.Fatalf("credentials = %q / %q", email, password)
		}
		return &domain.User{ID: "u-pat", Role: domain.RolePatient}, "tok-123", nil
	}
	w := do(t, f.router(patientIdent), http.MethodPost, "/login", map[string]string{
		"email": "maria@example.com", "password": "correct-horse",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["token"] != "tok-123" {
		t.Fatalf("token = %v", body["token"])
	}
	if user, okUser := body["user"].(map[string]any); !okUser || user["id"] != "u-pat" {
		t.Fatalf("user = %v", body["user"])
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	f := newFixture()
	f.accounts.login = func(context.Context, string, string) (*domain.User, string, error) {
		return nil, "", services.ErrInvalidCredentials
	}
	w := do(t, f.router(patientIdent), http.MethodPost, "/login", map[string]string{
		"email": "maria@example.com", "password": "wrong",
	}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if decodeBody(t, w)["error"] != "Invalid email or password" {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestGetUser_ReturnsProfile(t *testing.T) {
	f := newFixture()
	f.accounts.profile = func(_ context.Context, ident auth.Identity) (*domain.User, error) {
		return &domain.User{ID: ident.ID, Name: ident.Name, Role: ident.Role}, nil
	}
	w := do(t, f.router(patientIdent), http.MethodGet, "/user", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["id"] != "u-pat" {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestUpdateUser_Conflict(t *testing.T) {
	f := newFixture()
	f.accounts.updateProfile = func(context.Context, auth.Identity, string, string) (*domain.User, error) {
		return nil, services.ErrEmailTaken
	}
	w := do(t, f.router(patientIdent), http.MethodPut, "/user", map[string]string{"email": "taken@example.com"}, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

func TestListStaff_ReturnsDirectory(t *testing.T) {
	f := newFixture()
	f.accounts.listStaff = func(context.Context) ([]domain.User, error) {
		return []domain.User{
			{ID: "u-doc", Role: domain.RoleDoctor},
			{ID: "u-staff", Role: domain.RoleStaff},
		}, nil
	}
	w := do(t, f.router(patientIdent), http.MethodGet, "/staff", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
}

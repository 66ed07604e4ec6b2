// Package services: AccountService
//
// Registration, login and profile management. Registering a patient-role user
// also creates the clinical Patient profile and links it back onto the user in
// one transaction, so a patient account never exists half-created.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/renalhub/go-portal-backend/internal/auth"
	"github.com/renalhub/go-portal-backend/internal/domain"
	"github.com/renalhub/go-portal-backend/internal/repo"
)

// RegisterInput is the validated payload for account creation.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// AccountService creates accounts, checks credentials and serves profiles.
type AccountService struct {
	DB     *gorm.DB
	Tokens *auth.TokenIssuer
}

func validRole(r string) bool {
	switch r {
	case domain.RolePatient, domain.RoleDoctor, domain.RoleStaff:
		return true
	}
	return false
}

// Register creates a user account. Patient-role registrations also create the
// Patient profile row and link it via User.PatientID. Duplicate email is
// ErrEmailTaken; an unknown role is ErrInvalidRole.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	tr := otel.Tracer("services/AccountService")
	ctx, span := tr.Start(ctx, "Register",
		trace.WithAttributes(attribute.String("account.role", in.Role)),
	)
	defer span.End()

	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" || in.Password == "" {
		return nil, ErrInvalidRegistration
	}
	if !validRole(in.Role) {
		return nil, ErrInvalidRole
	}
	if _, err := repo.GetUserByEmail(ctx, s.DB, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         in.Role,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if u.Role == domain.RolePatient {
			p := &domain.Patient{ID: uuid.NewString(), UserID: u.ID, Name: name}
			if err := repo.CreatePatient(ctx, tx, p); err != nil {
				return err
			}
			u.PatientID = p.ID
		}
		return repo.CreateUser(ctx, tx, u)
	})
	if err != nil {
		// The email uniqueness race loses here rather than at the pre-check.
		if strings.Contains(strings.ToLower(err.Error()), "unique") ||
			strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Login checks the credentials and returns the user plus a signed token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	tr := otel.Tracer("services/AccountService")
	ctx, span := tr.Start(ctx, "Login")
	defer span.End()

	u, err := repo.GetUserByEmail(ctx, s.DB, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	tok, err := s.Tokens.Issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// Profile returns the caller's own user row.
func (s *AccountService) Profile(ctx context.Context, ident auth.Identity) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, ident.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateProfile changes the caller's name and/or email. Empty fields are left
// untouched.
func (s *AccountService) UpdateProfile(ctx context.Context, ident auth.Identity, name, email string) (*domain.User, error) {
	fields := map[string]any{}
	if v := strings.TrimSpace(name); v != "" {
		fields["name"] = v
	}
	if v := strings.ToLower(strings.TrimSpace(email)); v != "" {
		fields["email"] = v
	}
	if len(fields) > 0 {
		if err := repo.UpdateUser(ctx, s.DB, ident.ID, fields); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			if strings.Contains(strings.ToLower(err.Error()), "unique") ||
				strings.Contains(strings.ToLower(err.Error()), "duplicate") {
				return nil, ErrEmailTaken
			}
			return nil, err
		}
	}
	return s.Profile(ctx, ident)
}

// ListStaff returns the care-side directory: every doctor and staff user.
func (s *AccountService) ListStaff(ctx context.Context) ([]domain.User, error) {
	return repo.ListUsersByRoles(ctx, s.DB, []string{domain.RoleDoctor, domain.RoleStaff})
}

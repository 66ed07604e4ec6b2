package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renalhub/go-portal-backend/internal/auth"
	"github.com/renalhub/go-portal-backend/internal/domain"
	"github.com/renalhub/go-portal-backend/internal/repo"
)

// DonorInput is the validated payload for a donor-program registration.
type DonorInput struct {
	Name      string
	BloodType string
	OrganType string
	Notes     string
}

// DonorService manages donor-program registrations.
type DonorService struct {
	DB *gorm.DB
}

// List returns all registrations. Care-side callers only.
func (s *DonorService) List(ctx context.Context, ident auth.Identity) ([]domain.Donor, error) {
	if !ident.IsStaff() {
		return nil, ErrForbidden
	}
	return repo.ListDonors(ctx, s.DB)
}

// Register enrolls the caller (or a named person, for staff) in the donor
// program.
func (s *DonorService) Register(ctx context.Context, ident auth.Identity, in DonorInput) (*domain.Donor, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = ident.Name
	}
	d := &domain.Donor{
		ID:        uuid.NewString(),
		UserID:    ident.ID,
		Name:      name,
		BloodType: in.BloodType,
		OrganType: in.OrganType,
		Notes:     in.Notes,
	}
	if d.OrganType == "" {
		d.OrganType = "kidney"
	}
	if err := repo.CreateDonor(ctx, s.DB, d); err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateStatus moves a registration through the program workflow. Care-side
// callers only.
func (s *DonorService) UpdateStatus(ctx context.Context, ident auth.Identity, id, status, notes string) (*domain.Donor, error) {
	if !ident.IsStaff() {
		return nil, ErrForbidden
	}
	switch status {
	case domain.DonorRegistered, domain.DonorScreening, domain.DonorMatched, domain.DonorWithdrawn:
	default:
		return nil, ErrInvalidDonorStatus
	}

	fields := map[string]any{"status": status}
	if notes != "" {
		fields["notes"] = notes
	}
	if err := repo.UpdateDonor(ctx, s.DB, id, fields); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrDonorNotFound
		}
		return nil, err
	}
	d, err := repo.GetDonor(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrDonorNotFound
		}
		return nil, err
	}
	return d, nil
}

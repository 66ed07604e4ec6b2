package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/renalhub/go-portal-backend/internal/auth"
	"github.com/renalhub/go-portal-backend/internal/domain"
	"github.com/renalhub/go-portal-backend/internal/repo"
)

// PatientInput is the validated payload for updating a clinical profile.
type PatientInput struct {
	Name        string
	DateOfBirth string
	BloodType   string
	CKDStage    int
	Phone       string
	Address     string
}

// PatientService serves and updates clinical profiles.
type PatientService struct {
	DB *gorm.DB
}

// List returns every patient profile. Care-side callers only; patients get
// ErrForbidden.
func (s *PatientService) List(ctx context.Context, ident auth.Identity) ([]domain.Patient, error) {
	if !ident.IsStaff() {
		return nil, ErrForbidden
	}
	return repo.ListPatients(ctx, s.DB)
}

// Get returns one patient profile by resolved scope.
func (s *PatientService) Get(ctx context.Context, explicit string, ident auth.Identity) (*domain.Patient, error) {
	patientID, err := ResolveWriteScope(explicit, ident)
	if err != nil {
		return nil, err
	}
	p, err := repo.GetPatient(ctx, s.DB, patientID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return p, nil
}

// Update changes the mutable profile fields of the resolved patient. Empty
// fields are left untouched; CKDStage zero means unchanged.
func (s *PatientService) Update(ctx context.Context, explicit string, ident auth.Identity, in PatientInput) (*domain.Patient, error) {
	patientID, err := ResolveWriteScope(explicit, ident)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if v := strings.TrimSpace(in.Name); v != "" {
		fields["name"] = v
	}
	if in.DateOfBirth != "" {
		dob, err := time.Parse(dateLayout, in.DateOfBirth)
		if err != nil {
			return nil, ErrInvalidDate
		}
		fields["date_of_birth"] = dob
	}
	if in.BloodType != "" {
		fields["blood_type"] = in.BloodType
	}
	if in.CKDStage != 0 {
		fields["ckd_stage"] = in.CKDStage
	}
	if in.Phone != "" {
		fields["phone"] = in.Phone
	}
	if in.Address != "" {
		fields["address"] = in.Address
	}
	if len(fields) > 0 {
		if err := repo.UpdatePatient(ctx, s.DB, patientID, fields); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrPatientNotFound
			}
			return nil, err
		}
	}
	p, err := repo.GetPatient(ctx, s.DB, patientID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return p, nil
}

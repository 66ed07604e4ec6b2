package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renalhub/go-portal-backend/internal/auth"
	"github.com/renalhub/go-portal-backend/internal/domain"
	"github.com/renalhub/go-portal-backend/internal/repo"
)

// MedicationInput is the validated payload for creating or updating a
// medication. Times carries the dosing times produced by the request DTO.
type MedicationInput struct {
	PatientID    string
	Name         string
	Dosage       string
	Times        []string
	Instructions string
}

// MedicationService manages medications and the prescriptions that create
// them.
type MedicationService struct {
	DB *gorm.DB
}

// validateTimes checks every declared dosing time is HH:MM.
func validateTimes(times []string) error {
	for _, tod := range times {
		if _, err := time.Parse(timeLayout, tod); err != nil {
			return ErrInvalidTime
		}
	}
	return nil
}

// List returns the medications in scope.
func (s *MedicationService) List(ctx context.Context, scope PatientScope) ([]domain.Medication, error) {
	if scope.All {
		return repo.ListAllMedications(ctx, s.DB)
	}
	return repo.ListMedications(ctx, s.DB, scope.PatientID)
}

// Create stores a medication for the resolved patient.
func (s *MedicationService) Create(ctx context.Context, ident auth.Identity, in MedicationInput) (*domain.Medication, error) {
	patientID, err := ResolveWriteScope(in.PatientID, ident)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrMedicationNameRequired
	}
	if err := validateTimes(in.Times); err != nil {
		return nil, err
	}

	m := &domain.Medication{
		ID:           uuid.NewString(),
		PatientID:    patientID,
		Name:         name,
		Dosage:       in.Dosage,
		Times:        domain.JoinDoseTimes(in.Times),
		Instructions: in.Instructions,
		PrescribedBy: ident.ID,
	}
	if err := repo.CreateMedication(ctx, s.DB, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Update changes the mutable fields of a medication. A nil Times slice leaves
// the dosing times untouched; an empty non-nil slice clears them.
func (s *MedicationService) Update(ctx context.Context, id string, in MedicationInput) (*domain.Medication, error) {
	fields := map[string]any{}
	if v := strings.TrimSpace(in.Name); v != "" {
		fields["name"] = v
	}
	if in.Dosage != "" {
		fields["dosage"] = in.Dosage
	}
	if in.Times != nil {
		if err := validateTimes(in.Times); err != nil {
			return nil, err
		}
		fields["times"] = domain.JoinDoseTimes(in.Times)
	}
	if in.Instructions != "" {
		fields["instructions"] = in.Instructions
	}
	if len(fields) > 0 {
		if err := repo.UpdateMedication(ctx, s.DB, id, fields); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrMedicationNotFound
			}
			return nil, err
		}
	}
	m, err := repo.GetMedication(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMedicationNotFound
		}
		return nil, err
	}
	return m, nil
}

// Delete removes a medication together with its schedule rows.
func (s *MedicationService) Delete(ctx context.Context, id string) error {
	if err := repo.DeleteMedication(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrMedicationNotFound
		}
		return err
	}
	return nil
}

// PrescriptionInput is the validated payload for the prescribing act.
type PrescriptionInput struct {
	PatientID      string
	MedicationName string
	Dosage         string
	Times          []string
	Instructions   string
}

// ListPrescriptions returns the prescriptions in scope.
func (s *MedicationService) ListPrescriptions(ctx context.Context, scope PatientScope) ([]domain.Prescription, error) {
	if scope.All {
		return repo.ListAllPrescriptions(ctx, s.DB)
	}
	return repo.ListPrescriptions(ctx, s.DB, scope.PatientID)
}

// Prescribe records the prescribing act and creates the matching medication
// row in one transaction. Patients may not prescribe.
func (s *MedicationService) Prescribe(ctx context.Context, ident auth.Identity, in PrescriptionInput) (*domain.Prescription, error) {
	if !ident.IsStaff() {
		return nil, ErrForbidden
	}
	patientID, err := ResolveWriteScope(in.PatientID, ident)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.MedicationName)
	if name == "" {
		return nil, ErrMedicationNameRequired
	}
	if err := validateTimes(in.Times); err != nil {
		return nil, err
	}

	times := domain.JoinDoseTimes(in.Times)
	p := &domain.Prescription{
		ID:             uuid.NewString(),
		PatientID:      patientID,
		DoctorID:       ident.ID,
		MedicationName: name,
		Dosage:         in.Dosage,
		Times:          times,
		Instructions:   in.Instructions,
		IssuedAt:       time.Now().UTC(),
	}
	m := &domain.Medication{
		ID:           uuid.NewString(),
		PatientID:    patientID,
		Name:         name,
		Dosage:       in.Dosage,
		Times:        times,
		Instructions: in.Instructions,
		PrescribedBy: ident.ID,
	}
	if err := repo.CreatePrescription(ctx, s.DB, p, m); err != nil {
		return nil, err
	}
	return p, nil
}

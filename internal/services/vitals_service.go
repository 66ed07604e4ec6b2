package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renalhub/go-portal-backend/internal/auth"
	"github.com/renalhub/go-portal-backend/internal/domain"
	"github.com/renalhub/go-portal-backend/internal/repo"
)

// VitalInput is the validated payload for recording one measurement.
// Systolic/Diastolic apply to blood pressure; Value/Unit to the scalar types.
type VitalInput struct {
	PatientID string
	Type      string
	Systolic  int
	Diastolic int
	Value     float64
	Unit      string
}

// VitalsService records and lists patient measurements.
type VitalsService struct {
	DB *gorm.DB
}

// List returns the vitals in scope, newest first, optionally narrowed to one
// measurement type. A non-empty unknown type is rejected before any query.
func (s *VitalsService) List(ctx context.Context, scope PatientScope, vitalType string) ([]domain.Vital, error) {
	if vitalType != "" && !knownVitalType(vitalType) {
		return nil, ErrInvalidVital
	}
	if scope.All {
		return repo.ListAllVitals(ctx, s.DB, vitalType)
	}
	return repo.ListVitals(ctx, s.DB, scope.PatientID, vitalType)
}

func knownVitalType(t string) bool {
	switch t {
	case domain.VitalBloodPressure, domain.VitalWeight, domain.VitalGlucose, domain.VitalTemperature:
		return true
	}
	return false
}

// Record validates and stores one measurement for the resolved patient.
// Blood pressure needs both systolic and diastolic readings; scalar types
// need a positive value.
func (s *VitalsService) Record(ctx context.Context, ident auth.Identity, in VitalInput) (*domain.Vital, error) {
	patientID, err := ResolveWriteScope(in.PatientID, ident)
	if err != nil {
		return nil, err
	}
	if !knownVitalType(in.Type) {
		return nil, ErrInvalidVital
	}
	if in.Type == domain.VitalBloodPressure {
		if in.Systolic <= 0 || in.Diastolic <= 0 {
			return nil, ErrInvalidVital
		}
	} else if in.Value <= 0 {
		return nil, ErrInvalidVital
	}

	v := &domain.Vital{
		ID:         uuid.NewString(),
		PatientID:  patientID,
		Type:       in.Type,
		Systolic:   in.Systolic,
		Diastolic:  in.Diastolic,
		Value:      in.Value,
		Unit:       in.Unit,
		RecordedBy: ident.ID,
	}
	if err := repo.CreateVital(ctx, s.DB, v); err != nil {
		return nil, err
	}
	return v, nil
}

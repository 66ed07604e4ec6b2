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

// RecordInput is the validated payload for creating a medical record. Date is
// YYYY-MM-DD; empty means the current day.
type RecordInput struct {
	PatientID string
	Date      string
	Type      string
	Summary   string
	Details   string
}

// RecordService manages dated clinical notes.
type RecordService struct {
	DB       *gorm.DB
	Now      func() time.Time
	Location *time.Location
}

func (s *RecordService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *RecordService) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.Local
}

// List returns the records in scope, most recent first.
func (s *RecordService) List(ctx context.Context, scope PatientScope) ([]domain.MedicalRecord, error) {
	if scope.All {
		return repo.ListAllRecords(ctx, s.DB)
	}
	return repo.ListRecords(ctx, s.DB, scope.PatientID)
}

// Get returns one record by id.
func (s *RecordService) Get(ctx context.Context, id string) (*domain.MedicalRecord, error) {
	r, err := repo.GetRecord(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return r, nil
}

// Create stores a new record for the resolved patient, stamped with the
// caller as author. The date string is parsed before any persistence call.
func (s *RecordService) Create(ctx context.Context, ident auth.Identity, in RecordInput) (*domain.MedicalRecord, error) {
	patientID, err := ResolveWriteScope(in.PatientID, ident)
	if err != nil {
		return nil, err
	}
	loc := s.location()
	var d time.Time
	if in.Date == "" {
		n := s.now().In(loc)
		d = time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
	} else if d, err = time.ParseInLocation(dateLayout, in.Date, loc); err != nil {
		return nil, ErrInvalidDate
	}

	r := &domain.MedicalRecord{
		ID:        uuid.NewString(),
		PatientID: patientID,
		Date:      d,
		Type:      strings.TrimSpace(in.Type),
		Summary:   in.Summary,
		Details:   in.Details,
		CreatedBy: ident.ID,
	}
	if err := repo.CreateRecord(ctx, s.DB, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Update changes the mutable fields of a record. Empty fields are left as is.
func (s *RecordService) Update(ctx context.Context, id string, in RecordInput) (*domain.MedicalRecord, error) {
	fields := map[string]any{}
	if in.Date != "" {
		d, err := time.ParseInLocation(dateLayout, in.Date, s.location())
		if err != nil {
			return nil, ErrInvalidDate
		}
		fields["date"] = d
	}
	if v := strings.TrimSpace(in.Type); v != "" {
		fields["type"] = v
	}
	if in.Summary != "" {
		fields["summary"] = in.Summary
	}
	if in.Details != "" {
		fields["details"] = in.Details
	}
	if len(fields) > 0 {
		if err := repo.UpdateRecord(ctx, s.DB, id, fields); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrRecordNotFound
			}
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

// Delete removes a record.
func (s *RecordService) Delete(ctx context.Context, id string) error {
	if err := repo.DeleteRecord(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrRecordNotFound
		}
		return err
	}
	return nil
}

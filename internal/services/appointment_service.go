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

// AppointmentInput is the validated payload for scheduling a visit.
type AppointmentInput struct {
	PatientID string
	DoctorID  string
	Date      string
	Time      string
	Type      string
	Notes     string
}

// AppointmentService schedules, lists and updates visits.
type AppointmentService struct {
	DB       *gorm.DB
	Location *time.Location
}

func (s *AppointmentService) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.Local
}

// List returns the appointments in scope. A non-empty dateStr restricts the
// list to that calendar day, using the same half-open window as the adherence
// view; empty means no date filter.
func (s *AppointmentService) List(ctx context.Context, scope PatientScope, dateStr string) ([]domain.Appointment, error) {
	var start, end time.Time
	if dateStr != "" {
		d, err := time.ParseInLocation(dateLayout, dateStr, s.location())
		if err != nil {
			return nil, ErrInvalidDate
		}
		start, end = d, d.AddDate(0, 0, 1)
	}
	if scope.All {
		return repo.ListAllAppointments(ctx, s.DB, start, end)
	}
	return repo.ListAppointments(ctx, s.DB, scope.PatientID, start, end)
}

// Create schedules a new appointment for the resolved patient.
func (s *AppointmentService) Create(ctx context.Context, ident auth.Identity, in AppointmentInput) (*domain.Appointment, error) {
	patientID, err := ResolveWriteScope(in.PatientID, ident)
	if err != nil {
		return nil, err
	}
	d, err := time.ParseInLocation(dateLayout, in.Date, s.location())
	if err != nil {
		return nil, ErrInvalidDate
	}
	if _, err := time.Parse(timeLayout, in.Time); err != nil {
		return nil, ErrInvalidTime
	}

	a := &domain.Appointment{
		ID:        uuid.NewString(),
		PatientID: patientID,
		DoctorID:  in.DoctorID,
		Date:      d,
		TimeOfDay: in.Time,
		Type:      in.Type,
		Status:    domain.AppointmentScheduled,
		Notes:     in.Notes,
	}
	if err := repo.CreateAppointment(ctx, s.DB, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Update changes the status and/or notes of an appointment.
func (s *AppointmentService) Update(ctx context.Context, id, status, notes string) (*domain.Appointment, error) {
	fields := map[string]any{}
	if v := strings.TrimSpace(status); v != "" {
		switch v {
		case domain.AppointmentScheduled, domain.AppointmentCompleted, domain.AppointmentCancelled:
		default:
			return nil, ErrInvalidAppointmentStatus
		}
		fields["status"] = v
	}
	if notes != "" {
		fields["notes"] = notes
	}
	if len(fields) > 0 {
		if err := repo.UpdateAppointment(ctx, s.DB, id, fields); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrAppointmentNotFound
			}
			return nil, err
		}
	}
	a, err := repo.GetAppointment(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return a, nil
}

// Cancel removes an appointment (soft delete).
func (s *AppointmentService) Cancel(ctx context.Context, id string) error {
	if err := repo.DeleteAppointment(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrAppointmentNotFound
		}
		return err
	}
	return nil
}

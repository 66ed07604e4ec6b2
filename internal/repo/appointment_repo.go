// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Appointment model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renalhub/go-portal-backend/internal/domain"
)

// CreateAppointment inserts a new Appointment row.
func CreateAppointment(ctx context.Context, db *gorm.DB, a *domain.Appointment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = domain.AppointmentScheduled
	}
	a.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(a).Error
}

// GetAppointment fetches an appointment by ID, or ErrNotFound if missing.
func GetAppointment(ctx context.Context, db *gorm.DB, id string) (*domain.Appointment, error) {
	var a domain.Appointment
	if err := db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAppointments returns one patient's appointments ordered by date and
// clock time. When the optional [start, end) window is non-zero it bounds the
// date column with the same half-open convention used everywhere else.
func ListAppointments(ctx context.Context, db *gorm.DB, patientID string, start, end time.Time) ([]domain.Appointment, error) {
	q := db.WithContext(ctx).Where("patient_id = ?", patientID)
	if !start.IsZero() && !end.IsZero() {
		q = q.Where("date >= ? AND date < ?", start, end)
	}
	var out []domain.Appointment
	err := q.Order("date asc, time_of_day asc").Find(&out).Error
	return out, err
}

// ListAllAppointments returns every patient's appointments. Staff scope only.
func ListAllAppointments(ctx context.Context, db *gorm.DB, start, end time.Time) ([]domain.Appointment, error) {
	q := db.WithContext(ctx)
	if !start.IsZero() && !end.IsZero() {
		q = q.Where("date >= ? AND date < ?", start, end)
	}
	var out []domain.Appointment
	err := q.Order("date asc, time_of_day asc").Find(&out).Error
	return out, err
}

// UpdateAppointment updates the mutable fields of an appointment. Returns
// ErrNotFound when no row was affected.
func UpdateAppointment(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.Appointment{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAppointment removes an appointment. Returns ErrNotFound when the row
// does not exist.
func DeleteAppointment(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Appointment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Vital model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renalhub/go-portal-backend/internal/domain"
)

// CreateVital inserts a new Vital row.
func CreateVital(ctx context.Context, db *gorm.DB, v *domain.Vital) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.RecordedAt.IsZero() {
		v.RecordedAt = time.Now().UTC()
	}
	v.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(v).Error
}

// ListVitals returns one patient's vitals, newest first. A non-empty
// vitalType narrows the result to a single measurement type.
func ListVitals(ctx context.Context, db *gorm.DB, patientID, vitalType string) ([]domain.Vital, error) {
	q := db.WithContext(ctx).Where("patient_id = ?", patientID)
	if vitalType != "" {
		q = q.Where("type = ?", vitalType)
	}
	var out []domain.Vital
	err := q.Order("recorded_at desc").Find(&out).Error
	return out, err
}

// ListAllVitals returns every patient's vitals, newest first, optionally
// narrowed to one measurement type. Staff scope only.
func ListAllVitals(ctx context.Context, db *gorm.DB, vitalType string) ([]domain.Vital, error) {
	q := db.WithContext(ctx)
	if vitalType != "" {
		q = q.Where("type = ?", vitalType)
	}
	var out []domain.Vital
	err := q.Order("recorded_at desc").Find(&out).Error
	return out, err
}

// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Medication
// model and its cascading relation to schedule entries.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renalhub/go-portal-backend/internal/domain"
)

// CreateMedication inserts a new Medication row.
func CreateMedication(ctx context.Context, db *gorm.DB, m *domain.Medication) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(m).Error
}

// GetMedication fetches a medication by ID, or ErrNotFound if missing.
func GetMedication(ctx context.Context, db *gorm.DB, id string) (*domain.Medication, error) {
	var m domain.Medication
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMedications returns all medications for one patient, ordered by name.
func ListMedications(ctx context.Context, db *gorm.DB, patientID string) ([]domain.Medication, error) {
	var out []domain.Medication
	err := db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("name asc").
		Find(&out).Error
	return out, err
}

// ListAllMedications returns medications for every patient. Callers must hold
// staff scope; this function is intentionally separate from ListMedications so
// an unscoped read is always an explicit choice at the call site.
func ListAllMedications(ctx context.Context, db *gorm.DB) ([]domain.Medication, error) {
	var out []domain.Medication
	err := db.WithContext(ctx).
		Order("patient_id asc, name asc").
		Find(&out).Error
	return out, err
}

// UpdateMedication updates the mutable fields of a medication. Returns
// ErrNotFound when no row was affected.
func UpdateMedication(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.Medication{}).
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

// DeleteMedication removes a medication and its schedule entries in one
// transaction. Returns ErrNotFound when the medication does not exist.
func DeleteMedication(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("medication_id = ?", id).
			Delete(&domain.MedicationSchedule{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Medication{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

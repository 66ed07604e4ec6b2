// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// MedicalRecord model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renalhub/go-portal-backend/internal/domain"
)

// CreateRecord inserts a new MedicalRecord row.
func CreateRecord(ctx context.Context, db *gorm.DB, r *domain.MedicalRecord) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(r).Error
}

// GetRecord fetches a medical record by ID, or ErrNotFound if missing.
func GetRecord(ctx context.Context, db *gorm.DB, id string) (*domain.MedicalRecord, error) {
	var r domain.MedicalRecord
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRecords returns one patient's records ordered by date descending
// (most recent first).
func ListRecords(ctx context.Context, db *gorm.DB, patientID string) ([]domain.MedicalRecord, error) {
	var out []domain.MedicalRecord
	err := db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("date desc").
		Find(&out).Error
	return out, err
}

// ListAllRecords returns every patient's records, most recent first. Staff
// scope only.
func ListAllRecords(ctx context.Context, db *gorm.DB) ([]domain.MedicalRecord, error) {
	var out []domain.MedicalRecord
	err := db.WithContext(ctx).Order("date desc").Find(&out).Error
	return out, err
}

// UpdateRecord updates the mutable fields of a record. Returns ErrNotFound
// when no row was affected.
func UpdateRecord(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.MedicalRecord{}).
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

// DeleteRecord removes a record. Returns ErrNotFound when the row does not exist.
func DeleteRecord(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.MedicalRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

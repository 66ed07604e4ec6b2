// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Patient model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renalhub/go-portal-backend/internal/domain"
)

// CreatePatient inserts a new Patient row.
func CreatePatient(ctx context.Context, db *gorm.DB, p *domain.Patient) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(p).Error
}

// GetPatient fetches a patient by ID, or ErrNotFound if missing.
func GetPatient(ctx context.Context, db *gorm.DB, id string) (*domain.Patient, error) {
	var p domain.Patient
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPatients returns all patients ordered by name.
func ListPatients(ctx context.Context, db *gorm.DB) ([]domain.Patient, error) {
	var out []domain.Patient
	err := db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, err
}

// UpdatePatient updates the mutable fields of a patient. Returns ErrNotFound
// when no row was affected.
func UpdatePatient(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.Patient{}).
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

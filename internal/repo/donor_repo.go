// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Donor model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renalhub/go-portal-backend/internal/domain"
)

// CreateDonor inserts a new donor-program registration.
func CreateDonor(ctx context.Context, db *gorm.DB, d *domain.Donor) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Status == "" {
		d.Status = domain.DonorRegistered
	}
	if d.RegisteredAt.IsZero() {
		d.RegisteredAt = time.Now().UTC()
	}
	d.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(d).Error
}

// GetDonor fetches a donor registration by ID, or ErrNotFound if missing.
func GetDonor(ctx context.Context, db *gorm.DB, id string) (*domain.Donor, error) {
	var d domain.Donor
	if err := db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDonors returns all donor registrations, newest first.
func ListDonors(ctx context.Context, db *gorm.DB) ([]domain.Donor, error) {
	var out []domain.Donor
	err := db.WithContext(ctx).Order("registered_at desc").Find(&out).Error
	return out, err
}

// UpdateDonor updates the mutable fields of a donor registration. Returns
// ErrNotFound when no row was affected.
func UpdateDonor(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.Donor{}).
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

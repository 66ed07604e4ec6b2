// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Prescription model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renalhub/go-portal-backend/internal/domain"
)

// CreatePrescription inserts the prescription and the medication it declares
// in one transaction, so the patient's tracking view can never observe a
// prescription without its medication.
func CreatePrescription(ctx context.Context, db *gorm.DB, p *domain.Prescription, m *domain.Medication) error {
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.IssuedAt.IsZero() {
		p.IssuedAt = now
	}
	p.CreatedAt = now
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = now

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return tx.Create(m).Error
	})
}

// ListPrescriptions returns one patient's prescriptions, newest first.
func ListPrescriptions(ctx context.Context, db *gorm.DB, patientID string) ([]domain.Prescription, error) {
	var out []domain.Prescription
	err := db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("issued_at desc").
		Find(&out).Error
	return out, err
}

// ListAllPrescriptions returns every patient's prescriptions. Staff scope only.
func ListAllPrescriptions(ctx context.Context, db *gorm.DB) ([]domain.Prescription, error) {
	var out []domain.Prescription
	err := db.WithContext(ctx).
		Order("issued_at desc").
		Find(&out).Error
	return out, err
}

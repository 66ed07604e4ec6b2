// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// MedicationSchedule model.
//
// Schedule rows are only ever written through UpsertScheduleEntry, which maps
// onto the database's ON CONFLICT clause over the composite dose key. That
// keeps the "at most one row per (patient, medication, date, time)" invariant
// in the store itself; concurrent marks serialize there with last-write-wins
// on the taken/taken_at/administered_by fields.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/renalhub/go-portal-backend/internal/domain"
)

// UpsertScheduleEntry records that the dose identified by
// (patientID, medicationID, date, timeOfDay) was taken at takenAt. On first
// call it inserts the row; on repeat calls it refreshes taken_at and
// administered_by, so re-marking is never a no-op and never an error.
func UpsertScheduleEntry(ctx context.Context, db *gorm.DB, patientID, medicationID string, date time.Time, timeOfDay, administeredBy string, takenAt time.Time) (*domain.MedicationSchedule, error) {
	entry := &domain.MedicationSchedule{
		ID:             uuid.NewString(),
		PatientID:      patientID,
		MedicationID:   medicationID,
		Date:           date,
		Time:           timeOfDay,
		Taken:          true,
		TakenAt:        &takenAt,
		AdministeredBy: administeredBy,
		CreatedAt:      takenAt,
		UpdatedAt:      takenAt,
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "patient_id"},
				{Name: "medication_id"},
				{Name: "date"},
				{Name: "time"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"taken":           true,
				"taken_at":        takenAt,
				"administered_by": administeredBy,
				"updated_at":      takenAt,
			}),
		}).
		Create(entry).Error
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListScheduleEntries returns one patient's schedule rows whose date falls in
// [start, end). The half-open window matches the adherence day convention.
func ListScheduleEntries(ctx context.Context, db *gorm.DB, patientID string, start, end time.Time) ([]domain.MedicationSchedule, error) {
	var out []domain.MedicationSchedule
	err := db.WithContext(ctx).
		Where("patient_id = ? AND date >= ? AND date < ?", patientID, start, end).
		Order("time asc").
		Find(&out).Error
	return out, err
}

// ListScheduleEntriesAll returns every patient's schedule rows in [start, end).
// Staff-scope only; see ListAllMedications for the same call-site rule.
func ListScheduleEntriesAll(ctx context.Context, db *gorm.DB, start, end time.Time) ([]domain.MedicationSchedule, error) {
	var out []domain.MedicationSchedule
	err := db.WithContext(ctx).
		Where("date >= ? AND date < ?", start, end).
		Order("patient_id asc, time asc").
		Find(&out).Error
	return out, err
}

// CountScheduleEntries returns the number of rows for one dose key. Test and
// diagnostics helper for verifying the upsert never duplicates.
func CountScheduleEntries(ctx context.Context, db *gorm.DB, patientID, medicationID string, date time.Time, timeOfDay string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.MedicationSchedule{}).
		Where("patient_id = ? AND medication_id = ? AND date = ? AND time = ?",
			patientID, medicationID, date, timeOfDay).
		Count(&total).Error
	return total, err
}

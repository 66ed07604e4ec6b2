// Package services: ScheduleService
//
// This file implements the medication-adherence view and the mark-taken
// upsert. The adherence view is computed on read, never stored: for one
// calendar day it merges each medication's declared dosing times with
// whatever schedule rows exist for that date, producing a per-time
// taken/untaken status list. The merge is deterministic and total: every
// declared time appears exactly once in declared order, regardless of how
// many schedule rows exist or what order the store returns them in.
//
// Day-window convention: a day is [local midnight, next local midnight), a
// half-open interval applied uniformly to the range query and to every
// date-equality comparison in this file.
//
// Observability: the two public methods are OpenTelemetry-instrumented in the
// same way as the message service.
package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/renalhub/go-portal-backend/internal/auth"
	"github.com/renalhub/go-portal-backend/internal/domain"
	"github.com/renalhub/go-portal-backend/internal/repo"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// DoseStatus is the adherence state of one declared dosing time on one day.
// TakenAt is nil until the dose has been marked taken.
type DoseStatus struct {
	Time    string     `json:"time"`
	Taken   bool       `json:"taken"`
	TakenAt *time.Time `json:"takenAt"`
}

// MedicationAdherence is one medication annotated with the per-dose status
// list for the requested day, in declared-times order.
type MedicationAdherence struct {
	domain.Medication
	Status []DoseStatus `json:"status"`
}

// MarkTakenInput is the validated input for MarkTaken. PatientID and Date are
// optional; PatientID resolves per the scope rules and Date defaults to the
// current day.
type MarkTakenInput struct {
	MedicationID   string
	PatientID      string
	Time           string
	Date           string
	AdministeredBy string
}

// ScheduleService implements the adherence view and dose marking.
type ScheduleService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// Now is the clock used for "today" and taken-at stamps; tests override it.
	// When nil, time.Now is used.
	Now func() time.Time

	// Location is the timezone whose midnight bounds a calendar day. When nil,
	// time.Local is used. One location serves both the range query and the
	// date-equality comparisons so the two can never disagree.
	Location *time.Location
}

func (s *ScheduleService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *ScheduleService) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.Local
}

// dayWindow resolves an optional YYYY-MM-DD string to the half-open interval
// [midnight, next midnight) in the service's timezone. An empty string means
// the current day; anything unparsable is ErrInvalidDate.
func (s *ScheduleService) dayWindow(dateStr string) (start, end time.Time, err error) {
	loc := s.location()
	if dateStr == "" {
		n := s.now().In(loc)
		start = time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 0, 1), nil
	}
	d, perr := time.ParseInLocation(dateLayout, dateStr, loc)
	if perr != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	return d, d.AddDate(0, 0, 1), nil
}

// Adherence returns the medications in scope annotated with per-dose status
// for the given day. dateStr is optional YYYY-MM-DD; empty means today.
// Read-only: it never creates schedule rows.
func (s *ScheduleService) Adherence(ctx context.Context, scope PatientScope, dateStr string) ([]MedicationAdherence, error) {
	tr := otel.Tracer("services/ScheduleService")
	ctx, span := tr.Start(ctx, "Adherence",
		trace.WithAttributes(
			attribute.String("patient.id", scope.PatientID),
			attribute.Bool("scope.all", scope.All),
			attribute.String("date", dateStr),
		),
	)
	defer span.End()

	start, end, err := s.dayWindow(dateStr)
	if err != nil {
		return nil, err
	}

	var (
		meds    []domain.Medication
		entries []domain.MedicationSchedule
	)
	if scope.All {
		if meds, err = repo.ListAllMedications(ctx, s.DB); err != nil {
			return nil, err
		}
		if entries, err = repo.ListScheduleEntriesAll(ctx, s.DB, start, end); err != nil {
			return nil, err
		}
	} else {
		if meds, err = repo.ListMedications(ctx, s.DB, scope.PatientID); err != nil {
			return nil, err
		}
		if entries, err = repo.ListScheduleEntries(ctx, s.DB, scope.PatientID, start, end); err != nil {
			return nil, err
		}
	}

	return mergeAdherence(meds, entries), nil
}

// mergeAdherence folds the day's schedule rows into each medication's
// declared times. Lookup is keyed by (patient, medication, time); the date
// dimension is already bounded by the fetch window.
func mergeAdherence(meds []domain.Medication, entries []domain.MedicationSchedule) []MedicationAdherence {
	type doseKey struct {
		patientID    string
		medicationID string
		timeOfDay    string
	}
	byDose := make(map[doseKey]*domain.MedicationSchedule, len(entries))
	for i := range entries {
		e := &entries[i]
		byDose[doseKey{e.PatientID, e.MedicationID, e.Time}] = e
	}

	out := make([]MedicationAdherence, 0, len(meds))
	for _, m := range meds {
		times := domain.SplitDoseTimes(m.Times)
		status := make([]DoseStatus, 0, len(times))
		for _, tod := range times {
			if e, ok := byDose[doseKey{m.PatientID, m.ID, tod}]; ok {
				status = append(status, DoseStatus{Time: tod, Taken: e.Taken, TakenAt: e.TakenAt})
				continue
			}
			status = append(status, DoseStatus{Time: tod, Taken: false, TakenAt: nil})
		}
		out = append(out, MedicationAdherence{Medication: m, Status: status})
	}
	return out
}

// MarkTaken idempotently records that one dose was taken. Re-marking the same
// (patient, medication, date, time) refreshes the taken-at stamp and the
// administerer instead of failing; the store's atomic upsert serializes
// concurrent marks.
func (s *ScheduleService) MarkTaken(ctx context.Context, ident auth.Identity, in MarkTakenInput) error {
	tr := otel.Tracer("services/ScheduleService")
	ctx, span := tr.Start(ctx, "MarkTaken",
		trace.WithAttributes(
			attribute.String("medication.id", in.MedicationID),
			attribute.String("dose.time", in.Time),
		),
	)
	defer span.End()

	patientID, err := ResolveWriteScope(in.PatientID, ident)
	if err != nil {
		return err
	}
	if in.MedicationID == "" {
		return ErrMedicationNotFound
	}
	if _, err := time.Parse(timeLayout, in.Time); err != nil {
		return ErrInvalidTime
	}
	start, _, err := s.dayWindow(in.Date)
	if err != nil {
		return err
	}

	_, err = repo.UpsertScheduleEntry(ctx, s.DB, patientID, in.MedicationID, start, in.Time, in.AdministeredBy, s.now().UTC())
	return err
}

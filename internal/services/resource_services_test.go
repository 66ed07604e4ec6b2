package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/renalhub/go-portal-backend/internal/auth"
	"github.com/renalhub/go-portal-backend/internal/domain"
	"github.com/renalhub/go-portal-backend/internal/repo"
)

func TestAppointmentService_CreateListUpdateCancel(t *testing.T) {
	db := newServiceDB(t, &domain.Appointment{})
	svc := &AppointmentService{DB: db, Location: time.UTC}
	ctx := context.Background()
	ident := auth.Identity{ID: "u1", Role: domain.RolePatient, PatientID: "p1"}

	a, err := svc.Create(ctx, ident, AppointmentInput{
		Date: "2026-04-01", Time: "09:30", Type: "dialysis", DoctorID: "doc1",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.PatientID != "p1" || a.Status != domain.AppointmentScheduled {
		t.Fatalf("unexpected appointment: %+v", a)
	}

	list, err := svc.List(ctx, PatientScope{PatientID: "p1"}, "2026-04-01")
	if err != nil || len(list) != 1 {
		t.Fatalf("List: %v (%d rows)", err, len(list))
	}
	other, err := svc.List(ctx, PatientScope{PatientID: "p1"}, "2026-04-02")
	if err != nil || len(other) != 0 {
		t.Fatalf("date filter leaked: %v (%d rows)", err, len(other))
	}

	upd, err := svc.Update(ctx, a.ID, domain.AppointmentCompleted, "went well")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if upd.Status != domain.AppointmentCompleted || upd.Notes != "went well" {
		t.Fatalf("update not applied: %+v", upd)
	}

	if _, err := svc.Update(ctx, a.ID, "rescheduled", ""); !errors.Is(err, ErrInvalidAppointmentStatus) {
		t.Fatalf("expected ErrInvalidAppointmentStatus, got %v", err)
	}

	if err := svc.Cancel(ctx, a.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if err := svc.Cancel(ctx, a.ID); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestAppointmentService_InvalidDate(t *testing.T) {
	db := newServiceDB(t, &domain.Appointment{})
	svc := &AppointmentService{DB: db, Location: time.UTC}
	ident := auth.Identity{ID: "u1", Role: domain.RolePatient, PatientID: "p1"}

	if _, err := svc.Create(context.Background(), ident, AppointmentInput{Date: "01/04/2026", Time: "09:30"}); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := svc.List(context.Background(), PatientScope{PatientID: "p1"}, "bad"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestRecordService_CreateParsesDate(t *testing.T) {
	db := newServiceDB(t, &domain.MedicalRecord{})
	svc := &RecordService{DB: db, Location: time.UTC}
	ctx := context.Background()
	ident := auth.Identity{ID: "doc1", Role: domain.RoleDoctor}

	r, err := svc.Create(ctx, ident, RecordInput{
		PatientID: "p1", Date: "2026-02-15", Type: "lab", Summary: "creatinine panel",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	want := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	if !r.Date.Equal(want) {
		t.Fatalf("date not parsed: %v", r.Date)
	}
	if r.CreatedBy != "doc1" {
		t.Fatalf("author not stamped: %+v", r)
	}

	// Scope precedence: explicit patientId wins over caller association.
	ident2 := auth.Identity{ID: "u2", Role: domain.RolePatient, PatientID: "p9"}
	r2, err := svc.Create(ctx, ident2, RecordInput{PatientID: "p1", Type: "note"})
	if err != nil {
		t.Fatalf("Create with explicit id: %v", err)
	}
	if r2.PatientID != "p1" {
		t.Fatalf("explicit patient id must win, got %q", r2.PatientID)
	}
}

func TestRecordService_UpdateAndDeleteMapNotFound(t *testing.T) {
	db := newServiceDB(t, &domain.MedicalRecord{})
	svc := &RecordService{DB: db, Location: time.UTC}
	ctx := context.Background()

	if _, err := svc.Update(ctx, "ghost", RecordInput{Summary: "x"}); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "ghost"); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestMedicationService_CreateValidatesTimes(t *testing.T) {
	db := newServiceDB(t, &domain.Medication{}, &domain.MedicationSchedule{})
	svc := &MedicationService{DB: db}
	ctx := context.Background()
	ident := auth.Identity{ID: "u1", Role: domain.RolePatient, PatientID: "p1"}

	m, err := svc.Create(ctx, ident, MedicationInput{
		Name: "Tacrolimus", Dosage: "2mg", Times: []string{"08:00", "20:00"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.Times != "08:00,20:00" {
		t.Fatalf("times not joined: %q", m.Times)
	}

	if _, err := svc.Create(ctx, ident, MedicationInput{Name: "X", Times: []string{"8am"}}); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("expected ErrInvalidTime, got %v", err)
	}
	if _, err := svc.Create(ctx, ident, MedicationInput{Name: "  "}); !errors.Is(err, ErrMedicationNameRequired) {
		t.Fatalf("expected ErrMedicationNameRequired, got %v", err)
	}
}

func TestMedicationService_PrescribeCreatesMedication(t *testing.T) {
	db := newServiceDB(t, &domain.Medication{}, &domain.MedicationSchedule{}, &domain.Prescription{})
	svc := &MedicationService{DB: db}
	ctx := context.Background()
	doctor := auth.Identity{ID: "doc1", Role: domain.RoleDoctor}

	p, err := svc.Prescribe(ctx, doctor, PrescriptionInput{
		PatientID: "p1", MedicationName: "Lisinopril", Dosage: "10mg", Times: []string{"08:00"},
	})
	if err != nil {
		t.Fatalf("Prescribe: %v", err)
	}
	if p.DoctorID != "doc1" || p.PatientID != "p1" {
		t.Fatalf("unexpected prescription: %+v", p)
	}

	meds, err := repo.ListMedications(ctx, db, "p1")
	if err != nil {
		t.Fatalf("ListMedications: %v", err)
	}
	if len(meds) != 1 || meds[0].Name != "Lisinopril" || meds[0].PrescribedBy != "doc1" {
		t.Fatalf("prescription did not create the medication row: %+v", meds)
	}

	patient := auth.Identity{ID: "u1", Role: domain.RolePatient, PatientID: "p1"}
	if _, err := svc.Prescribe(ctx, patient, PrescriptionInput{PatientID: "p1", MedicationName: "X"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestVitalsService_Validation(t *testing.T) {
	db := newServiceDB(t, &domain.Vital{})
	svc := &VitalsService{DB: db}
	ctx := context.Background()
	ident := auth.Identity{ID: "u1", Role: domain.RolePatient, PatientID: "p1"}

	if _, err := svc.Record(ctx, ident, VitalInput{Type: "pulse", Value: 70}); !errors.Is(err, ErrInvalidVital) {
		t.Fatalf("unknown type accepted: %v", err)
	}
	if _, err := svc.Record(ctx, ident, VitalInput{Type: domain.VitalBloodPressure, Systolic: 120}); !errors.Is(err, ErrInvalidVital) {
		t.Fatalf("bp missing diastolic accepted: %v", err)
	}
	if _, err := svc.Record(ctx, ident, VitalInput{Type: domain.VitalWeight}); !errors.Is(err, ErrInvalidVital) {
		t.Fatalf("weight without value accepted: %v", err)
	}

	v, err := svc.Record(ctx, ident, VitalInput{Type: domain.VitalBloodPressure, Systolic: 120, Diastolic: 80})
	if err != nil {
		t.Fatalf("Record bp: %v", err)
	}
	if v.RecordedBy != "u1" || v.PatientID != "p1" {
		t.Fatalf("unexpected vital: %+v", v)
	}

	got, err := svc.List(ctx, PatientScope{PatientID: "p1"}, domain.VitalBloodPressure)
	if err != nil || len(got) != 1 {
		t.Fatalf("List: %v (%d rows)", err, len(got))
	}
	if _, err := svc.List(ctx, PatientScope{PatientID: "p1"}, "pulse"); !errors.Is(err, ErrInvalidVital) {
		t.Fatalf("unknown filter type accepted: %v", err)
	}
}

func TestPatientService_RoleGateAndUpdate(t *testing.T) {
	db := newServiceDB(t, &domain.Patient{})
	svc := &PatientService{DB: db}
	ctx := context.Background()

	if err := repo.CreatePatient(ctx, db, &domain.Patient{ID: "p1", Name: "Alice"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	patient := auth.Identity{ID: "u1", Role: domain.RolePatient, PatientID: "p1"}
	if _, err := svc.List(ctx, patient); !errors.Is(err, ErrForbidden) {
		t.Fatalf("patient could list all patients: %v", err)
	}

	staff := auth.Identity{ID: "u9", Role: domain.RoleStaff}
	all, err := svc.List(ctx, staff)
	if err != nil || len(all) != 1 {
		t.Fatalf("staff list: %v (%d rows)", err, len(all))
	}

	got, err := svc.Update(ctx, "", patient, PatientInput{BloodType: "O+", CKDStage: 4})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.BloodType != "O+" || got.CKDStage != 4 || got.Name != "Alice" {
		t.Fatalf("partial update wrong: %+v", got)
	}

	if _, err := svc.Get(ctx, "", staff); !errors.Is(err, ErrPatientScopeRequired) {
		t.Fatalf("staff get without patient id must fail: %v", err)
	}
}

func TestDonorService_Workflow(t *testing.T) {
	db := newServiceDB(t, &domain.Donor{})
	svc := &DonorService{DB: db}
	ctx := context.Background()

	donorIdent := auth.Identity{ID: "u1", Name: "Alice", Role: domain.RolePatient, PatientID: "p1"}
	d, err := svc.Register(ctx, donorIdent, DonorInput{BloodType: "O+"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if d.Name != "Alice" || d.OrganType != "kidney" || d.Status != domain.DonorRegistered {
		t.Fatalf("defaults not applied: %+v", d)
	}

	if _, err := svc.List(ctx, donorIdent); !errors.Is(err, ErrForbidden) {
		t.Fatalf("patient could list donors: %v", err)
	}

	staff := auth.Identity{ID: "u9", Role: domain.RoleStaff}
	upd, err := svc.UpdateStatus(ctx, staff, d.ID, domain.DonorScreening, "initial labs ordered")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if upd.Status != domain.DonorScreening {
		t.Fatalf("status not moved: %+v", upd)
	}

	if _, err := svc.UpdateStatus(ctx, staff, d.ID, "donated", ""); !errors.Is(err, ErrInvalidDonorStatus) {
		t.Fatalf("expected ErrInvalidDonorStatus, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, staff, "ghost", domain.DonorMatched, ""); !errors.Is(err, ErrDonorNotFound) {
		t.Fatalf("expected ErrDonorNotFound, got %v", err)
	}
}

// Handler wiring for the portal API.
//
// Handlers are transport-thin: they decode input, resolve the caller's
// patient scope, call application services, and translate results (including
// the shared service error sentinels) into HTTP responses. Business rules
// live in internal/services; nothing here touches the database directly
// except the idempotency replay/store path in message_handler.go.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/renalhub/go-portal-backend/internal/auth"
	"github.com/renalhub/go-portal-backend/internal/domain"
	"github.com/renalhub/go-portal-backend/internal/http/middleware"
	"github.com/renalhub/go-portal-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// ScheduleService exposes the per-day adherence view and dose marking.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ScheduleService interface {
	// Adherence returns every in-scope medication with per-dose status for
	// one calendar day (empty date means today).
	Adherence(ctx context.Context, scope services.PatientScope, date string) ([]services.MedicationAdherence, error)
	// MarkTaken upserts the schedule row for one dose of one medication.
	MarkTaken(ctx context.Context, ident auth.Identity, in services.MarkTakenInput) error
}

// MessageService exposes conversation aggregation and sending.
type MessageService interface {
	// Conversations folds the caller's messages into per-counterpart threads,
	// merged with every eligible correspondent.
	Conversations(ctx context.Context, ident auth.Identity) ([]services.Conversation, error)
	// Send persists a message from the caller to another user.
	Send(ctx context.Context, ident auth.Identity, to, content string) (*domain.Message, error)
}

// AccountService exposes registration, login and profile operations.
type AccountService interface {
	Register(ctx context.Context, in services.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Profile(ctx context.Context, ident auth.Identity) (*domain.User, error)
	UpdateProfile(ctx context.Context, ident auth.Identity, name, email string) (*domain.User, error)
	ListStaff(ctx context.Context) ([]domain.User, error)
}

// AppointmentService exposes visit scheduling operations.
type AppointmentService interface {
	List(ctx context.Context, scope services.PatientScope, date string) ([]domain.Appointment, error)
	Create(ctx context.Context, ident auth.Identity, in services.AppointmentInput) (*domain.Appointment, error)
	Update(ctx context.Context, id, status, notes string) (*domain.Appointment, error)
	Cancel(ctx context.Context, id string) error
}

// RecordService exposes medical-record CRUD.
type RecordService interface {
	List(ctx context.Context, scope services.PatientScope) ([]domain.MedicalRecord, error)
	Get(ctx context.Context, id string) (*domain.MedicalRecord, error)
	Create(ctx context.Context, ident auth.Identity, in services.RecordInput) (*domain.MedicalRecord, error)
	Update(ctx context.Context, id string, in services.RecordInput) (*domain.MedicalRecord, error)
	Delete(ctx context.Context, id string) error
}

// MedicationService exposes medication CRUD and prescribing.
type MedicationService interface {
	List(ctx context.Context, scope services.PatientScope) ([]domain.Medication, error)
	Create(ctx context.Context, ident auth.Identity, in services.MedicationInput) (*domain.Medication, error)
	Update(ctx context.Context, id string, in services.MedicationInput) (*domain.Medication, error)
	Delete(ctx context.Context, id string) error
	ListPrescriptions(ctx context.Context, scope services.PatientScope) ([]domain.Prescription, error)
	Prescribe(ctx context.Context, ident auth.Identity, in services.PrescriptionInput) (*domain.Prescription, error)
}

// PatientService exposes clinical-profile operations.
type PatientService interface {
	List(ctx context.Context, ident auth.Identity) ([]domain.Patient, error)
	Get(ctx context.Context, explicit string, ident auth.Identity) (*domain.Patient, error)
	Update(ctx context.Context, explicit string, ident auth.Identity, in services.PatientInput) (*domain.Patient, error)
}

// VitalsService exposes measurement recording and listing.
type VitalsService interface {
	List(ctx context.Context, scope services.PatientScope, vitalType string) ([]domain.Vital, error)
	Record(ctx context.Context, ident auth.Identity, in services.VitalInput) (*domain.Vital, error)
}

// DonorService exposes donor-program operations.
type DonorService interface {
	List(ctx context.Context, ident auth.Identity) ([]domain.Donor, error)
	Register(ctx context.Context, ident auth.Identity, in services.DonorInput) (*domain.Donor, error)
	UpdateStatus(ctx context.Context, ident auth.Identity, id, status, notes string) (*domain.Donor, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for every portal resource. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	scheduleSvc    ScheduleService
	messageSvc     MessageService
	accountSvc     AccountService
	appointmentSvc AppointmentService
	recordSvc      RecordService
	medicationSvc  MedicationService
	patientSvc     PatientService
	vitalsSvc      VitalsService
	donorSvc       DonorService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(
	scheduleSvc ScheduleService,
	messageSvc MessageService,
	accountSvc AccountService,
	appointmentSvc AppointmentService,
	recordSvc RecordService,
	medicationSvc MedicationService,
	patientSvc PatientService,
	vitalsSvc VitalsService,
	donorSvc DonorService,
) *Handlers {
	return &Handlers{
		scheduleSvc:    scheduleSvc,
		messageSvc:     messageSvc,
		accountSvc:     accountSvc,
		appointmentSvc: appointmentSvc,
		recordSvc:      recordSvc,
		medicationSvc:  medicationSvc,
		patientSvc:     patientSvc,
		vitalsSvc:      vitalsSvc,
		donorSvc:       donorSvc,
	}
}

// identity extracts the authenticated caller set by the auth middleware. A
// missing identity means the route was wired without RequireAuth; the caller
// gets a 401 and the handler must return immediately.
func identity(c *gin.Context) (auth.Identity, bool) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "Unauthorized")
		return auth.Identity{}, false
	}
	return ident, true
}

// readScope resolves the caller's read scope from the patientId query
// parameter. It writes the error response itself so call sites stay flat.
func readScope(c *gin.Context, ident auth.Identity) (services.PatientScope, bool) {
	scope, err := services.ResolveReadScope(c.Query("patientId"), ident)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Patient ID is required")
		return services.PatientScope{}, false
	}
	return scope, true
}

// failScope translates a scope-resolution sentinel into the 400 shape shared
// by every scoped endpoint. Returns true when it handled the error.
func failScope(c *gin.Context, err error) bool {
	if err == services.ErrPatientScopeRequired {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Patient ID is required")
		return true
	}
	return false
}

// Package domain defines the persistence models for the kidney-care portal:
// users and their patient profiles, appointments, medical records, medications
// and their per-dose schedule entries, messages, prescriptions, vitals, and
// donor-program registrations. These types are mapped with GORM and form the
// core data layer of the application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// User roles. Every authenticated caller carries exactly one of these.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleStaff   = "staff"
)

// User is an account that can sign in to the portal. Patient-role users carry
// a PatientID linking them to their clinical profile; doctor and staff users
// have no patient association of their own.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Email: unique login identifier.
//   - PasswordHash: bcrypt hash, never serialized.
//   - Role: "patient", "doctor" or "staff" (enforced by DB constraint).
//   - PatientID: set only for patient-role users.
type User struct {
	ID           string         `json:"id"           gorm:"type:char(36);primaryKey"`
	Name         string         `json:"name"         gorm:"type:varchar(128);not null"`
	Email        string         `json:"email"        gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	PasswordHash string         `json:"-"            gorm:"type:varchar(128);not null"`
	Role         string         `json:"role"         gorm:"type:varchar(16);not null;check:role IN ('patient','doctor','staff')"`
	PatientID    string         `json:"patientId,omitempty" gorm:"type:char(36);index"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `json:"-"            gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Patient is the clinical profile of a patient-role user.
type Patient struct {
	ID          string         `json:"id"          gorm:"type:char(36);primaryKey"`
	UserID      string         `json:"userId"      gorm:"type:char(36);index"`
	Name        string         `json:"name"        gorm:"type:varchar(128);not null"`
	DateOfBirth *time.Time     `json:"dateOfBirth,omitempty"`
	BloodType   string         `json:"bloodType"   gorm:"type:varchar(8)"`
	CKDStage    int            `json:"ckdStage"`
	Phone       string         `json:"phone"       gorm:"type:varchar(32)"`
	Address     string         `json:"address"     gorm:"type:varchar(255)"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-"           gorm:"index"`
}

// TableName returns the database table name for Patient.
func (Patient) TableName() string { return "patients" }

// Appointment statuses.
const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment is a scheduled visit between a patient and a doctor.
// Date holds the calendar day (local midnight); TimeOfDay is the
// clock time in "HH:MM" form.
type Appointment struct {
	ID        string         `json:"id"        gorm:"type:char(36);primaryKey"`
	PatientID string         `json:"patientId" gorm:"type:char(36);not null;index:idx_patient_appointments"`
	DoctorID  string         `json:"doctorId"  gorm:"type:char(36);index"`
	Date      time.Time      `json:"date"      gorm:"not null;index"`
	TimeOfDay string         `json:"time"      gorm:"column:time_of_day;type:varchar(5);not null"`
	Type      string         `json:"type"      gorm:"type:varchar(64)"`
	Status    string         `json:"status"    gorm:"type:varchar(16);not null;default:'scheduled';check:status IN ('scheduled','completed','cancelled')"`
	Notes     string         `json:"notes"     gorm:"type:text"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-"         gorm:"index"`
}

// TableName returns the database table name for Appointment.
func (Appointment) TableName() string { return "appointments" }

// MedicalRecord is a dated clinical note attached to a patient.
type MedicalRecord struct {
	ID        string         `json:"id"        gorm:"type:char(36);primaryKey"`
	PatientID string         `json:"patientId" gorm:"type:char(36);not null;index:idx_patient_records"`
	Date      time.Time      `json:"date"      gorm:"not null;index"`
	Type      string         `json:"type"      gorm:"type:varchar(64);not null"`
	Summary   string         `json:"summary"   gorm:"type:varchar(255)"`
	Details   string         `json:"details"   gorm:"type:text"`
	CreatedBy string         `json:"createdBy" gorm:"type:char(36)"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-"         gorm:"index"`
}

// TableName returns the database table name for MedicalRecord.
func (MedicalRecord) TableName() string { return "medical_records" }

// Medication is a prescribed drug with its declared dosing times. Times is a
// comma-joined list of "HH:MM" values ("08:00,12:00"); use SplitDoseTimes and
// JoinDoseTimes for all access so the encoding never drifts between handlers.
type Medication struct {
	ID           string         `json:"id"           gorm:"type:char(36);primaryKey"`
	PatientID    string         `json:"patientId"    gorm:"type:char(36);not null;index:idx_patient_medications"`
	Name         string         `json:"name"         gorm:"type:varchar(128);not null"`
	Dosage       string         `json:"dosage"       gorm:"type:varchar(64)"`
	Times        string         `json:"times"        gorm:"type:varchar(255)"`
	Instructions string         `json:"instructions" gorm:"type:text"`
	PrescribedBy string         `json:"prescribedBy" gorm:"type:char(36)"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `json:"-"            gorm:"index"`
}

// TableName returns the database table name for Medication.
func (Medication) TableName() string { return "medications" }

// MedicationSchedule records whether one dose of one medication was taken on
// one calendar day. Rows are created lazily by the mark-taken upsert, never
// pre-created for future dates. The composite unique index guarantees at most
// one row per (patient, medication, date, time); concurrent marks serialize
// on the DB's ON CONFLICT clause with last-write-wins semantics.
type MedicationSchedule struct {
	ID             string     `json:"id"             gorm:"type:char(36);primaryKey"`
	PatientID      string     `json:"patientId"      gorm:"type:char(36);not null;uniqueIndex:ux_schedule_dose,priority:1"`
	MedicationID   string     `json:"medicationId"   gorm:"type:char(36);not null;uniqueIndex:ux_schedule_dose,priority:2"`
	Date           time.Time  `json:"date"           gorm:"not null;uniqueIndex:ux_schedule_dose,priority:3"`
	Time           string     `json:"time"           gorm:"type:varchar(5);not null;uniqueIndex:ux_schedule_dose,priority:4"`
	Taken          bool       `json:"taken"          gorm:"not null;default:false"`
	TakenAt        *time.Time `json:"takenAt"`
	AdministeredBy string     `json:"administeredBy" gorm:"type:varchar(128)"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// TableName returns the database table name for MedicationSchedule.
func (MedicationSchedule) TableName() string { return "medication_schedules" }

// Message is a single portal message between two users. Messages are
// immutable once created; there is no update or delete path.
type Message struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	SenderID    string    `json:"senderId"    gorm:"type:char(36);not null;index:idx_msg_sender"`
	RecipientID string    `json:"recipientId" gorm:"type:char(36);not null;index:idx_msg_recipient"`
	Content     string    `json:"content"     gorm:"type:text;not null"`
	CreatedAt   time.Time `json:"timestamp"   gorm:"index"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// Prescription is the prescribing act itself; creating one also creates the
// corresponding Medication row for the patient's tracking view.
type Prescription struct {
	ID             string         `json:"id"             gorm:"type:char(36);primaryKey"`
	PatientID      string         `json:"patientId"      gorm:"type:char(36);not null;index:idx_patient_prescriptions"`
	DoctorID       string         `json:"doctorId"       gorm:"type:char(36);index"`
	MedicationName string         `json:"medicationName" gorm:"type:varchar(128);not null"`
	Dosage         string         `json:"dosage"         gorm:"type:varchar(64)"`
	Times          string         `json:"times"          gorm:"type:varchar(255)"`
	Instructions   string         `json:"instructions"   gorm:"type:text"`
	IssuedAt       time.Time      `json:"issuedAt"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `json:"-"              gorm:"index"`
}

// TableName returns the database table name for Prescription.
func (Prescription) TableName() string { return "prescriptions" }

// Vital types accepted by the vitals endpoint.
const (
	VitalBloodPressure = "bp"
	VitalWeight        = "weight"
	VitalGlucose       = "glucose"
	VitalTemperature   = "temperature"
)

// Vital is one recorded measurement for a patient. Systolic/Diastolic are
// used for blood pressure; Value/Unit for scalar measurements.
type Vital struct {
	ID         string    `json:"id"         gorm:"type:char(36);primaryKey"`
	PatientID  string    `json:"patientId"  gorm:"type:char(36);not null;index:idx_patient_vitals"`
	Type       string    `json:"type"       gorm:"type:varchar(16);not null;check:type IN ('bp','weight','glucose','temperature')"`
	Systolic   int       `json:"systolic,omitempty"`
	Diastolic  int       `json:"diastolic,omitempty"`
	Value      float64   `json:"value,omitempty"`
	Unit       string    `json:"unit"       gorm:"type:varchar(16)"`
	RecordedAt time.Time `json:"recordedAt" gorm:"index"`
	RecordedBy string    `json:"recordedBy" gorm:"type:char(36)"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName returns the database table name for Vital.
func (Vital) TableName() string { return "vitals" }

// Donor statuses.
const (
	DonorRegistered = "registered"
	DonorScreening  = "screening"
	DonorMatched    = "matched"
	DonorWithdrawn  = "withdrawn"
)

// Donor is a kidney-donor-program registration.
type Donor struct {
	ID           string         `json:"id"           gorm:"type:char(36);primaryKey"`
	UserID       string         `json:"userId"       gorm:"type:char(36);index"`
	Name         string         `json:"name"         gorm:"type:varchar(128);not null"`
	BloodType    string         `json:"bloodType"    gorm:"type:varchar(8)"`
	OrganType    string         `json:"organType"    gorm:"type:varchar(32);not null;default:'kidney'"`
	Status       string         `json:"status"       gorm:"type:varchar(16);not null;default:'registered';check:status IN ('registered','screening','matched','withdrawn')"`
	RegisteredAt time.Time      `json:"registeredAt"`
	Notes        string         `json:"notes"        gorm:"type:text"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `json:"-"            gorm:"index"`
}

// TableName returns the database table name for Donor.
func (Donor) TableName() string { return "donors" }

// Idempotency stores the outcome of a completed message send keyed by
// (user_id, scope_id, key) so retried POSTs can be replayed instead of
// re-executed. Rows expire after ExpiresAt and are ignored thereafter.
type Idempotency struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	UserID     string    `json:"user_id"     gorm:"type:varchar(64);not null;uniqueIndex:ux_idem_scope,priority:1"`
	ScopeID    string    `json:"scope_id"    gorm:"type:char(36);not null;uniqueIndex:ux_idem_scope,priority:2"`
	Key        string    `json:"key"         gorm:"type:varchar(200);not null;uniqueIndex:ux_idem_scope,priority:3"`
	ResourceID string    `json:"resource_id" gorm:"type:char(36);not null"`
	Status     int       `json:"status"      gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"  gorm:"index"`
}

// TableName returns the database table name for Idempotency.
func (Idempotency) TableName() string { return "idempotency_keys" }

// Package services defines the business logic for the portal's resources.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler layer.
package services

import "errors"

var (
	// ErrPatientScopeRequired is returned when a patient-scoped operation can
	// resolve no patient identifier: the request named none and the caller's
	// credential carries none. Handlers map it to 400, never to an unscoped
	// read.
	ErrPatientScopeRequired = errors.New("patient id is required")

	// ErrInvalidDate is returned when a supplied date is not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidTime is returned when a supplied time-of-day is not HH:MM.
	ErrInvalidTime = errors.New("invalid time")

	// ErrMedicationNotFound indicates that the referenced medication does not exist.
	ErrMedicationNotFound = errors.New("medication not found")

	// ErrMedicationNameRequired is returned when a medication or prescription
	// payload has a blank name.
	ErrMedicationNameRequired = errors.New("medication name is required")

	// ErrPatientNotFound indicates that the referenced patient does not exist.
	ErrPatientNotFound = errors.New("patient not found")

	// ErrUserNotFound indicates that the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrRecipientNotFound indicates that a message's sender or recipient does
	// not exist.
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrRecordNotFound indicates that the referenced medical record does not exist.
	ErrRecordNotFound = errors.New("medical record not found")

	// ErrAppointmentNotFound indicates that the referenced appointment does not exist.
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrDonorNotFound indicates that the referenced donor registration does
	// not exist.
	ErrDonorNotFound = errors.New("donor not found")

	// ErrInvalidDonorStatus is returned when a donor update names a status
	// outside the program workflow.
	ErrInvalidDonorStatus = errors.New("invalid donor status")

	// ErrEmptyContent is returned when a message is sent with no content.
	ErrEmptyContent = errors.New("content is empty")

	// ErrEmailTaken is returned when registration reuses an existing email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned on a failed login. It deliberately does
	// not distinguish unknown email from wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidRole is returned when registration names an unknown role.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidRegistration is returned when a registration payload is
	// missing the name, email or password.
	ErrInvalidRegistration = errors.New("name, email and password are required")

	// ErrForbidden is returned when the caller's role may not perform the
	// operation (e.g. a patient listing all patients).
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidAppointmentStatus is returned when an appointment update names
	// a status outside scheduled/completed/cancelled.
	ErrInvalidAppointmentStatus = errors.New("invalid appointment status")

	// ErrInvalidVital is returned when a vitals payload names an unknown
	// measurement type or is missing the fields that type requires.
	ErrInvalidVital = errors.New("invalid vital")
)

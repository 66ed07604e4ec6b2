// Patient-scope resolution.
//
// Every patient-scoped operation must decide which patient's data a request
// may touch. Three sources exist, in strict precedence order:
//
//  1. an explicit patientId supplied in the request body or query. This wins,
//     which is what lets staff (who carry no patient association of their own)
//     act on behalf of a named patient;
//  2. the patient identifier embedded in the caller's credential, present only
//     for patient-role callers;
//  3. neither: an error for writes and patient-role reads, and "all patients"
//     only for staff-side reads that explicitly opt in.
//
// The helpers here are the single implementation of that rule. Nothing in the
// codebase falls through to an unscoped query by accident: the wide-read path
// is a separate type state (PatientScope.All) that only ResolveReadScope can
// produce, and only for staff callers.
package services

import (
	"strings"

	"github.com/renalhub/go-portal-backend/internal/auth"
)

// PatientScope is the resolved read scope of a request: either one patient or,
// for staff-side callers that named no patient, every patient.
type PatientScope struct {
	PatientID string
	All       bool
}

// ResolveWriteScope returns the single patient a write may touch. The explicit
// request-supplied id wins over the caller's own association; with neither
// present it fails with ErrPatientScopeRequired.
func ResolveWriteScope(explicit string, ident auth.Identity) (string, error) {
	if id := strings.TrimSpace(explicit); id != "" {
		return id, nil
	}
	if ident.PatientID != "" {
		return ident.PatientID, nil
	}
	return "", ErrPatientScopeRequired
}

// ResolveReadScope resolves the patient scope for a read. Precedence matches
// ResolveWriteScope; the only extra case is a staff-side caller naming no
// patient, which widens to all patients rather than failing.
func ResolveReadScope(explicit string, ident auth.Identity) (PatientScope, error) {
	if id := strings.TrimSpace(explicit); id != "" {
		return PatientScope{PatientID: id}, nil
	}
	if ident.PatientID != "" {
		return PatientScope{PatientID: ident.PatientID}, nil
	}
	if ident.IsStaff() {
		return PatientScope{All: true}, nil
	}
	return PatientScope{}, ErrPatientScopeRequired
}

// Medication-schedule HTTP handlers.
//
// This file exposes the per-day adherence view and the mark-taken action:
//   - GET  /medications-schedule   (adherence for one day, default today)
//   - POST /medications-schedule   (mark one dose taken, idempotent upsert)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/renalhub/go-portal-backend/internal/services"
)

//
// DTOs
//

// MarkTakenRequest is the JSON payload for marking one dose as taken.
type MarkTakenRequest struct {
	// MedicationID identifies the medication whose dose was taken.
	MedicationID string `json:"medicationId" binding:"required" example:"4f2c1f9a-6a3e-4d2b-9a3f-0b1c2d3e4f50"`
	// Time is the declared dosing time being marked, "HH:MM".
	Time string `json:"time" binding:"required" example:"08:00"`
	// Date optionally names the day ("YYYY-MM-DD"); defaults to today.
	Date string `json:"date,omitempty" example:"2025-03-14"`
	// AdministeredBy optionally records who gave the dose.
	AdministeredBy string `json:"administeredBy,omitempty" example:"Nurse Jane"`
	// PatientID lets care-side callers act for a named patient.
	PatientID string `json:"patientId,omitempty"`
}

//
// Handlers
//

// GetMedicationSchedule godoc
// @ID          getMedicationSchedule
// @Summary     Per-dose adherence for one day
// @Description Returns every in-scope medication with a status entry per declared
// @Description dosing time, marked taken when a schedule row exists for that day.
// @Tags        MedicationSchedule
// @Produce     json
// @Param       date       query  string  false "Day to report, YYYY-MM-DD (default today)"
// @Param       patientId  query  string  false "Patient to report on (care-side callers)"
// @Success     200  {array}   services.MedicationAdherence
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /medications-schedule [get]
func (h *Handlers) GetMedicationSchedule(c *gin.Context) {
	ident, okAuth := identity(c)
	if !okAuth {
		return
	}
	scope, okScope := readScope(c, ident)
	if !okScope {
		return
	}

	list, err := h.scheduleSvc.Adherence(c.Request.Context(), scope, c.Query("date"))
	if err != nil {
		switch err {
		case services.ErrInvalidDate:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date must be YYYY-MM-DD")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, "Failed to fetch medication schedule")
		}
		return
	}

	ok(c, http.StatusOK, list)
}

// PostMedicationSchedule godoc
// @ID          postMedicationSchedule
// @Summary     Mark a dose as taken
// @Description Upserts the schedule row for (patient, medication, day, time).
// @Description Repeating the call refreshes the taken-at stamp instead of
// @Description creating a duplicate row.
// @Tags        MedicationSchedule
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.MarkTakenRequest  true  "Dose to mark"
// @Success     201  {object}  map[string]string "Confirmation message"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse "Medication not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /medications-schedule [post]
func (h *Handlers) PostMedicationSchedule(c *gin.Context) {
	ident, okAuth := identity(c)
	if !okAuth {
		return
	}

	var req MarkTakenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "medicationId and time are required")
		return
	}

	err := h.scheduleSvc.MarkTaken(c.Request.Context(), ident, services.MarkTakenInput{
		MedicationID:   req.MedicationID,
		PatientID:      req.PatientID,
		Time:           req.Time,
		Date:           req.Date,
		AdministeredBy: req.AdministeredBy,
	})
	if err != nil {
		if failScope(c, err) {
			return
		}
		switch err {
		case services.ErrInvalidDate:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date must be YYYY-MM-DD")
		case services.ErrInvalidTime:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "time must be HH:MM")
		case services.ErrMedicationNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Medication not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "Failed to update medication schedule")
		}
		return
	}

	ok(c, http.StatusCreated, gin.H{"message": "Medication marked as taken successfully!"})
}

// Appointment HTTP handlers.
//
//   - GET    /appointments       (scoped list, optional ?date= window)
//   - POST   /appointments       (schedule a visit)
//   - PUT    /appointments/{id}  (status/notes update)
//   - DELETE /appointments/{id}  (cancel)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/renalhub/go-portal-backend/internal/services"
)

// CreateAppointmentRequest is the JSON payload for scheduling a visit.
type CreateAppointmentRequest struct {
	PatientID string `json:"patientId,omitempty"`
	DoctorID  string `json:"doctorId,omitempty"`
	Date      string `json:"date" binding:"required" example:"2025-03-14"`
	Time      string `json:"time" binding:"required" example:"09:30"`
	Type      string `json:"type,omitempty" example:"dialysis"`
	Notes     string `json:"notes,omitempty"`
}

// UpdateAppointmentRequest is the JSON payload for updating a visit.
type UpdateAppointmentRequest struct {
	Status string `json:"status,omitempty" example:"completed"`
	Notes  string `json:"notes,omitempty"`
}

// ListAppointments returns the caller's visits, optionally narrowed to one
// day via ?date=YYYY-MM-DD.
func (h *Handlers) ListAppointments(c *gin.Context) {
	ident, okAuth := identity(c)
	if !okAuth {
		return
	}
	scope, okScope := readScope(c, ident)
	if !okScope {
		return
	}

	list, err := h.appointmentSvc.List(c.Request.Context(), scope, c.Query("date"))
	if err != nil {
		switch err {
		case services.ErrInvalidDate:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date must be YYYY-MM-DD")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, "Failed to fetch appointments")
		}
		return
	}
	ok(c, http.StatusOK, list)
}

// CreateAppointment schedules a visit for the resolved patient.
func (h *Handlers) CreateAppointment(c *gin.Context) {
	ident, okAuth := identity(c)
	if !okAuth {
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date and time are required")
		return
	}

	appt, err := h.appointmentSvc.Create(c.Request.Context(), ident, services.AppointmentInput{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      req.Time,
		Type:      req.Type,
		Notes:     req.Notes,
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
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "Failed to create appointment")
		}
		return
	}
	ok(c, http.StatusCreated, appt)
}

// UpdateAppointment changes an appointment's status and/or notes.
func (h *Handlers) UpdateAppointment(c *gin.Context) {
	if _, okAuth := identity(c); !okAuth {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid payload")
		return
	}

	appt, err := h.appointmentSvc.Update(c.Request.Context(), c.Param("id"), req.Status, req.Notes)
	if err != nil {
		switch err {
		case services.ErrInvalidAppointmentStatus:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status must be scheduled, completed or cancelled")
		case services.ErrAppointmentNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Appointment not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, "Failed to update appointment")
		}
		return
	}
	ok(c, http.StatusOK, appt)
}

// CancelAppointment cancels a visit by id.
func (h *Handlers) CancelAppointment(c *gin.Context) {
	if _, okAuth := identity(c); !okAuth {
		return
	}

	if err := h.appointmentSvc.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		switch err {
		case services.ErrAppointmentNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Appointment not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, "Failed to cancel appointment")
		}
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Appointment cancelled"})
}

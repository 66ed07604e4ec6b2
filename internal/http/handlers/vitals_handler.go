// Vitals HTTP handlers.
//
//   - GET  /vitals   (scoped list, optional ?type= filter)
//   - POST /vitals   (record one measurement)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/renalhub/go-portal-backend/internal/services"
	"github.com/renalhub/go-portal-backend/internal/utils"
)

// Vitals accumulate fast for dialysis patients, so list responses are capped;
// ?limit= asks for fewer, never more than maxVitalsLimit.
const (
	defaultVitalsLimit = 500
	maxVitalsLimit     = 1000
)

// RecordVitalRequest is the JSON payload for recording a measurement.
// Blood-pressure readings carry systolic/diastolic; everything else carries
// a single value with a unit.
type RecordVitalRequest struct {
	PatientID string  `json:"patientId,omitempty"`
	Type      string  `json:"type" binding:"required" example:"bp"`
	Systolic  int     `json:"systolic,omitempty" example:"128"`
	Diastolic int     `json:"diastolic,omitempty" example:"82"`
	Value     float64 `json:"value,omitempty" example:"71.4"`
	Unit      string  `json:"unit,omitempty" example:"kg"`
}

// ListVitals returns the measurements in the caller's scope, newest first.
func (h *Handlers) ListVitals(c *gin.Context) {
	ident, okAuth := identity(c)
	if !okAuth {
		return
	}
	scope, okScope := readScope(c, ident)
	if !okScope {
		return
	}

	list, err := h.vitalsSvc.List(c.Request.Context(), scope, c.Query("type"))
	if err != nil {
		switch err {
		case services.ErrInvalidVital:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "type must be bp, weight, glucose or temperature")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, "Failed to fetch vitals")
		}
		return
	}

	// Lists come back newest first, so the cap keeps the most recent readings.
	limit := utils.ClampLimit(utils.AtoiDefault(c.Query("limit"), defaultVitalsLimit), maxVitalsLimit)
	if len(list) > limit {
		list = list[:limit]
	}
	ok(c, http.StatusOK, list)
}

// RecordVital stores one measurement for the resolved patient.
func (h *Handlers) RecordVital(c *gin.Context) {
	ident, okAuth := identity(c)
	if !okAuth {
		return
	}

	var req RecordVitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "type is required")
		return
	}

	v, err := h.vitalsSvc.Record(c.Request.Context(), ident, services.VitalInput{
		PatientID: req.PatientID,
		Type:      req.Type,
		Systolic:  req.Systolic,
		Diastolic: req.Diastolic,
		Value:     req.Value,
		Unit:      req.Unit,
	})
	if err != nil {
		if failScope(c, err) {
			return
		}
		switch err {
		case services.ErrInvalidVital:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid vital reading")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "Failed to record vital")
		}
		return
	}
	ok(c, http.StatusCreated, v)
}

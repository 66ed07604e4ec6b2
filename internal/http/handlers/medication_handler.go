// Medication and prescription HTTP handlers.
//
//   - GET    /medications        (scoped list)
//   - POST   /medications        (create)
//   - PUT    /medications/{id}   (partial update)
//   - DELETE /medications/{id}   (delete, cascades schedule rows)
//   - GET    /prescriptions      (scoped list)
//   - POST   /prescriptions      (prescribe; also creates the medication)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/renalhub/go-portal-backend/internal/services"
)

// MedicationRequest is the JSON payload for creating or updating a
// medication. A nil Times leaves the stored dosing times untouched on update.
type MedicationRequest struct {
	PatientID    string   `json:"patientId,omitempty"`
	Name         string   `json:"name,omitempty" example:"Tacrolimus"`
	Dosage       string   `json:"dosage,omitempty" example:"2mg"`
	Times        []string `json:"times,omitempty" example:"08:00,20:00"`
	Instructions string   `json:"instructions,omitempty"`
}

// PrescriptionRequest is the JSON payload for issuing a prescription.
type PrescriptionRequest struct {
	PatientID      string   `json:"patientId" binding:"required"`
	MedicationName string   `json:"medicationName" binding:"required" example:"Tacrolimus"`
	Dosage         string   `json:"dosage,omitempty" example:"2mg"`
	Times          []string `json:"times,omitempty"`
	Instructions   string   `json:"instructions,omitempty"`
}

// ListMedications returns the medications in the caller's scope.
func (h *Handlers) ListMedications(c *gin.Context) {
	ident, okAuth := identity(c)
	if !okAuth {
		return
	}
	scope, okScope := readScope(c, ident)
	if !okScope {
		return
	}

	list, err := h.medicationSvc.List(c.Request.Context(), scope)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "Failed to fetch medications")
		return
	}
	ok(c, http.StatusOK, list)
}

// CreateMedication adds a medication for the resolved patient.
func (h *Handlers) CreateMedication(c *gin.Context) {
	ident, okAuth := identity(c)
	if !okAuth {
		return
	}

	var req MedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid payload")
		return
	}

	med, err := h.medicationSvc.Create(c.Request.Context(), ident, services.MedicationInput{
		PatientID:    req.PatientID,
		Name:         req.Name,
		Dosage:       req.Dosage,
		Times:        req.Times,
		Instructions: req.Instructions,
	})
	if err != nil {
		if failScope(c, err) {
			return
		}
		switch err {
		case services.ErrMedicationNameRequired:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name is required")
		case services.ErrInvalidTime:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "times must be HH:MM")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "Failed to create medication")
		}
		return
	}
	ok(c, http.StatusCreated, med)
}

// UpdateMedication applies a partial update to a medication by id.
func (h *Handlers) UpdateMedication(c *gin.Context) {
	if _, okAuth := identity(c); !okAuth {
		return
	}

	var req MedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid payload")
		return
	}

	med, err := h.medicationSvc.Update(c.Request.Context(), c.Param("id"), services.MedicationInput{
		Name:         req.Name,
		Dosage:       req.Dosage,
		Times:        req.Times,
		Instructions: req.Instructions,
	})
	if err != nil {
		switch err {
		case services.ErrInvalidTime:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "times must be HH:MM")
		case services.ErrMedicationNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Medication not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, "Failed to update medication")
		}
		return
	}
	ok(c, http.StatusOK, med)
}

// DeleteMedication removes a medication and its schedule rows.
func (h *Handlers) DeleteMedication(c *gin.Context) {
	if _, okAuth := identity(c); !okAuth {
		return
	}

	if err := h.medicationSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		switch err {
		case services.ErrMedicationNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Medication not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, "Failed to delete medication")
		}
		return
	}
	noContent(c)
}

// ListPrescriptions returns the prescriptions in the caller's scope.
func (h *Handlers) ListPrescriptions(c *gin.Context) {
	ident, okAuth := identity(c)
	if !okAuth {
		return
	}
	scope, okScope := readScope(c, ident)
	if !okScope {
		return
	}

	list, err := h.medicationSvc.ListPrescriptions(c.Request.Context(), scope)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "Failed to fetch prescriptions")
		return
	}
	ok(c, http.StatusOK, list)
}

// CreatePrescription issues a prescription; the matching medication row is
// created in the same transaction so it shows up in the tracking view.
func (h *Handlers) CreatePrescription(c *gin.Context) {
	ident, okAuth := identity(c)
	if !okAuth {
		return
	}

	var req PrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "patientId and medicationName are required")
		return
	}

	p, err := h.medicationSvc.Prescribe(c.Request.Context(), ident, services.PrescriptionInput{
		PatientID:      req.PatientID,
		MedicationName: req.MedicationName,
		Dosage:         req.Dosage,
		Times:          req.Times,
		Instructions:   req.Instructions,
	})
	if err != nil {
		if failScope(c, err) {
			return
		}
		switch err {
		case services.ErrForbidden:
			fail(c, http.StatusForbidden, ErrCodeForbidden, "Only doctors and staff can prescribe")
		case services.ErrMedicationNameRequired:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "medicationName is required")
		case services.ErrInvalidTime:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "times must be HH:MM")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "Failed to create prescription")
		}
		return
	}
	ok(c, http.StatusCreated, p)
}

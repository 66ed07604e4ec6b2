// Patient-profile HTTP handlers.
//
//   - GET /patients   (every clinical profile, care-side callers only)
//   - GET /patient    (one profile: the caller's own, or ?patientId= for staff)
//   - PUT /patient    (profile update)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/renalhub/go-portal-backend/internal/services"
)

// UpdatePatientRequest is the JSON payload for updating a clinical profile.
// Empty fields are left untouched.
type UpdatePatientRequest struct {
	PatientID   string `json:"patientId,omitempty"`
	Name        string `json:"name,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty" example:"1974-06-02"`
	BloodType   string `json:"bloodType,omitempty" example:"O+"`
	CKDStage    int    `json:"ckdStage,omitempty" example:"3"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
}

// ListPatients returns every clinical profile. Patients get 403.
func (h *Handlers) ListPatients(c *gin.Context) {
	ident, okAuth := identity(c)
	if !okAuth {
		return
	}

	list, err := h.patientSvc.List(c.Request.Context(), ident)
	if err != nil {
		switch err {
		case services.ErrForbidden:
			fail(c, http.StatusForbidden, ErrCodeForbidden, "Forbidden")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, "Failed to fetch patients")
		}
		return
	}
	ok(c, http.StatusOK, list)
}

// GetPatient returns one clinical profile: the caller's own for patients,
// the one named by ?patientId= for care-side callers.
func (h *Handlers) GetPatient(c *gin.Context) {
	ident, okAuth := identity(c)
	if !okAuth {
		return
	}

	p, err := h.patientSvc.Get(c.Request.Context(), c.Query("patientId"), ident)
	if err != nil {
		if failScope(c, err) {
			return
		}
		switch err {
		case services.ErrPatientNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Patient not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, "Failed to fetch patient")
		}
		return
	}
	ok(c, http.StatusOK, p)
}

// UpdatePatient applies a partial update to a clinical profile.
func (h *Handlers) UpdatePatient(c *gin.Context) {
	ident, okAuth := identity(c)
	if !okAuth {
		return
	}

	var req UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid payload")
		return
	}

	p, err := h.patientSvc.Update(c.Request.Context(), req.PatientID, ident, services.PatientInput{
		Name:        req.Name,
		DateOfBirth: req.DateOfBirth,
		BloodType:   req.BloodType,
		CKDStage:    req.CKDStage,
		Phone:       req.Phone,
		Address:     req.Address,
	})
	if err != nil {
		if failScope(c, err) {
			return
		}
		switch err {
		case services.ErrInvalidDate:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "dateOfBirth must be YYYY-MM-DD")
		case services.ErrPatientNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Patient not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, "Failed to update patient")
		}
		return
	}
	ok(c, http.StatusOK, p)
}

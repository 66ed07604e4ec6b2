// Donor-program HTTP handlers.
//
//   - GET  /donors        (registrations, care-side callers only)
//   - POST /donors        (register as a donor)
//   - PUT  /donors/{id}   (status update, care-side callers only)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/renalhub/go-portal-backend/internal/services"
)

// RegisterDonorRequest is the JSON payload for joining the donor program.
// Name defaults to the caller's display name; OrganType defaults to kidney.
type RegisterDonorRequest struct {
	Name      string `json:"name,omitempty"`
	BloodType string `json:"bloodType,omitempty" example:"A-"`
	OrganType string `json:"organType,omitempty" example:"kidney"`
	Notes     string `json:"notes,omitempty"`
}

// UpdateDonorRequest is the JSON payload for moving a donor through the
// screening pipeline.
type UpdateDonorRequest struct {
	Status string `json:"status" binding:"required" example:"screening"`
	Notes  string `json:"notes,omitempty"`
}

// ListDonors returns every donor registration. Patients get 403.
func (h *Handlers) ListDonors(c *gin.Context) {
	ident, okAuth := identity(c)
	if !okAuth {
		return
	}

	list, err := h.donorSvc.List(c.Request.Context(), ident)
	if err != nil {
		switch err {
		case services.ErrForbidden:
			fail(c, http.StatusForbidden, ErrCodeForbidden, "Forbidden")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, "Failed to fetch donors")
		}
		return
	}
	ok(c, http.StatusOK, list)
}

// RegisterDonor enrolls the caller (or a named person) in the donor program.
func (h *Handlers) RegisterDonor(c *gin.Context) {
	ident, okAuth := identity(c)
	if !okAuth {
		return
	}

	var req RegisterDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid payload")
		return
	}

	d, err := h.donorSvc.Register(c.Request.Context(), ident, services.DonorInput{
		Name:      req.Name,
		BloodType: req.BloodType,
		OrganType: req.OrganType,
		Notes:     req.Notes,
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "Failed to register donor")
		return
	}
	ok(c, http.StatusCreated, d)
}

// UpdateDonor moves a registration to a new pipeline status.
func (h *Handlers) UpdateDonor(c *gin.Context) {
	ident, okAuth := identity(c)
	if !okAuth {
		return
	}

	var req UpdateDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status is required")
		return
	}

	d, err := h.donorSvc.UpdateStatus(c.Request.Context(), ident, c.Param("id"), req.Status, req.Notes)
	if err != nil {
		switch err {
		case services.ErrForbidden:
			fail(c, http.StatusForbidden, ErrCodeForbidden, "Forbidden")
		case services.ErrInvalidDonorStatus:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status must be registered, screening, matched or withdrawn")
		case services.ErrDonorNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Donor not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, "Failed to update donor")
		}
		return
	}
	ok(c, http.StatusOK, d)
}

// Medical-record HTTP handlers.
//
//   - GET    /medical-records       (scoped list)
//   - POST   /medical-records       (create a dated note)
//   - GET    /medical-records/{id}
//   - PUT    /medical-records/{id}
//   - DELETE /medical-records/{id}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/renalhub/go-portal-backend/internal/services"
)

// RecordRequest is the JSON payload for creating or updating a record.
type RecordRequest struct {
	PatientID string `json:"patientId,omitempty"`
	Date      string `json:"date,omitempty" example:"2025-03-14"`
	Type      string `json:"type,omitempty" example:"lab-result"`
	Summary   string `json:"summary,omitempty"`
	Details   string `json:"details,omitempty"`
}

func (r RecordRequest) toInput() services.RecordInput {
	return services.RecordInput{
		PatientID: r.PatientID,
		Date:      r.Date,
		Type:      r.Type,
		Summary:   r.Summary,
		Details:   r.Details,
	}
}

// ListRecords returns the medical records in the caller's scope.
func (h *Handlers) ListRecords(c *gin.Context) {
	ident, okAuth := identity(c)
	if !okAuth {
		return
	}
	scope, okScope := readScope(c, ident)
	if !okScope {
		return
	}

	list, err := h.recordSvc.List(c.Request.Context(), scope)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "Failed to fetch medical records")
		return
	}
	ok(c, http.StatusOK, list)
}

// GetRecord returns a single record by id.
func (h *Handlers) GetRecord(c *gin.Context) {
	if _, okAuth := identity(c); !okAuth {
		return
	}

	rec, err := h.recordSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch err {
		case services.ErrRecordNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Medical record not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, "Failed to fetch medical record")
		}
		return
	}
	ok(c, http.StatusOK, rec)
}

// CreateRecord stores a dated note for the resolved patient.
func (h *Handlers) CreateRecord(c *gin.Context) {
	ident, okAuth := identity(c)
	if !okAuth {
		return
	}

	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid payload")
		return
	}

	rec, err := h.recordSvc.Create(c.Request.Context(), ident, req.toInput())
	if err != nil {
		if failScope(c, err) {
			return
		}
		switch err {
		case services.ErrInvalidDate:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date must be YYYY-MM-DD")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "Failed to create medical record")
		}
		return
	}
	ok(c, http.StatusCreated, rec)
}

// UpdateRecord applies a partial update to a record by id.
func (h *Handlers) UpdateRecord(c *gin.Context) {
	if _, okAuth := identity(c); !okAuth {
		return
	}

	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid payload")
		return
	}

	rec, err := h.recordSvc.Update(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		switch err {
		case services.ErrInvalidDate:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date must be YYYY-MM-DD")
		case services.ErrRecordNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Medical record not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, "Failed to update medical record")
		}
		return
	}
	ok(c, http.StatusOK, rec)
}

// DeleteRecord removes a record by id.
func (h *Handlers) DeleteRecord(c *gin.Context) {
	if _, okAuth := identity(c); !okAuth {
		return
	}

	if err := h.recordSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		switch err {
		case services.ErrRecordNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Medical record not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, "Failed to delete medical record")
		}
		return
	}
	noContent(c)
}

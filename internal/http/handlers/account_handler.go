// Account HTTP handlers: registration, login, profile, staff directory.
//
//   - POST /register   (public; creates user, patient role gets a profile)
//   - POST /login      (public; issues a bearer token)
//   - GET  /user       (current profile)
//   - PUT  /user       (name/email update)
//   - GET  /staff      (doctor and staff directory)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/renalhub/go-portal-backend/internal/services"
)

// RegisterRequest is the JSON payload for account creation.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required" example:"Maria Santos"`
	Email    string `json:"email" binding:"required,email" example:"maria@example.com"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required" example:"patient"`
}

// LoginRequest is the JSON payload for credential checks.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"maria@example.com"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest is the JSON payload for profile updates. Empty fields
// are left untouched.
type UpdateUserRequest struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Register creates an account. Patient-role signups also get a linked
// clinical profile in the same transaction.
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name, email, password and role are required")
		return
	}

	u, err := h.accountSvc.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		switch err {
		case services.ErrInvalidRegistration:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name, email and password are required")
		case services.ErrInvalidRole:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "role must be patient, doctor or staff")
		case services.ErrEmailTaken:
			fail(c, http.StatusConflict, ErrCodeConflict, "email is already registered")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "Failed to create account")
		}
		return
	}
	ok(c, http.StatusCreated, u)
}

// Login checks credentials and issues a bearer token. Unknown email and
// wrong password are indistinguishable to the caller.
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password are required")
		return
	}

	u, token, err := h.accountSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch err {
		case services.ErrInvalidCredentials:
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid email or password")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "Failed to sign in")
		}
		return
	}
	ok(c, http.StatusOK, gin.H{"token": token, "user": u})
}

// GetUser returns the caller's own account record.
func (h *Handlers) GetUser(c *gin.Context) {
	ident, okAuth := identity(c)
	if !okAuth {
		return
	}

	u, err := h.accountSvc.Profile(c.Request.Context(), ident)
	if err != nil {
		switch err {
		case services.ErrUserNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "User not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, "Failed to fetch profile")
		}
		return
	}
	ok(c, http.StatusOK, u)
}

// UpdateUser changes the caller's display name and/or email.
func (h *Handlers) UpdateUser(c *gin.Context) {
	ident, okAuth := identity(c)
	if !okAuth {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid payload")
		return
	}

	u, err := h.accountSvc.UpdateProfile(c.Request.Context(), ident, req.Name, req.Email)
	if err != nil {
		switch err {
		case services.ErrUserNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "User not found")
		case services.ErrEmailTaken:
			fail(c, http.StatusConflict, ErrCodeConflict, "email is already registered")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, "Failed to update profile")
		}
		return
	}
	ok(c, http.StatusOK, u)
}

// ListStaff returns the doctor and staff directory used by the messaging UI.
func (h *Handlers) ListStaff(c *gin.Context) {
	if _, okAuth := identity(c); !okAuth {
		return
	}

	list, err := h.accountSvc.ListStaff(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "Failed to fetch staff")
		return
	}
	ok(c, http.StatusOK, list)
}

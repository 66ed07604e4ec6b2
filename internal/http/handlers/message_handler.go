// Messaging HTTP handlers.
//
// This file exposes the conversation view and message sending:
//   - GET  /messages   (per-counterpart conversation threads, ETag support)
//   - POST /messages   (send, with Idempotency-Key replay support)
//
// Handlers are transport-thin: they validate input, call the message service,
// and translate results into HTTP responses. The idempotency replay/store
// path reaches into the concrete service's DB handle; a stubbed service in
// tests simply skips it.
package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/renalhub/go-portal-backend/internal/repo"
	"github.com/renalhub/go-portal-backend/internal/services"
)

//
// DTOs
//

// SendMessageRequest is the JSON payload for sending a message.
type SendMessageRequest struct {
	// To is the recipient's user id.
	To string `json:"to" binding:"required" example:"7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab"`
	// Content is the message body (whitespace-only is rejected).
	Content string `json:"content" binding:"required" example:"Your next dialysis session moved to 14:00."`
}

//
// Helpers
//

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// sanitizeContent normalizes user text for consistent downstream behavior:
//   - converts CRLF/CR to LF,
//   - collapses runs of 3+ LFs to exactly two (paragraph separation),
//   - trims surrounding whitespace.
func sanitizeContent(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// idempotencyKey reads a validated Idempotency-Key if the upstream middleware
// stashed one, falling back to the raw header.
func idempotencyKey(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader("Idempotency-Key"))
}

//
// Handlers
//

// ListConversations godoc
// @ID          listConversations
// @Summary     List conversation threads
// @Description Folds the caller's sent and received messages into one thread per
// @Description counterpart, merged with every eligible correspondent so empty
// @Description threads still appear. Supports conditional GET via ETag.
// @Tags        Messages
// @Produce     json
// @Success     200  {array}   services.Conversation
// @Success     304  "Not modified"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /messages [get]
func (h *Handlers) ListConversations(c *gin.Context) {
	ident, okAuth := identity(c)
	if !okAuth {
		return
	}
	ctx := c.Request.Context()

	// Cheap conditional-GET: a weak ETag over (count, latest timestamp)
	// changes whenever the caller's message set changes.
	if svc, okSvc := h.messageSvc.(*services.MessageService); okSvc && svc.DB != nil {
		if count, maxAt, err := repo.MessagesStats(ctx, svc.DB, ident.ID); err == nil {
			var ts int64
			if maxAt != nil {
				ts = maxAt.UnixNano()
			}
			etag := fmt.Sprintf(`W/"messages:%s:%d:%d"`, ident.ID, count, ts)
			c.Header("ETag", etag)
			if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	threads, err := h.messageSvc.Conversations(ctx, ident)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "Failed to fetch messages")
		return
	}
	ok(c, http.StatusOK, threads)
}

// SendMessage godoc
// @ID          sendMessage
// @Summary     Send a message
// @Description Persists a message from the caller to another portal user.
// @Description Supports idempotency via the Idempotency-Key header (same key
// @Description replays the stored message instead of sending twice).
// @Tags        Messages
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"
// @Param       body             body    handlers.SendMessageRequest  true  "Message payload"
// @Success     201  {object}  domain.Message
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse "Recipient not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /messages [post]
func (h *Handlers) SendMessage(c *gin.Context) {
	ident, okAuth := identity(c)
	if !okAuth {
		return
	}
	ctx := c.Request.Context()

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "to and content are required")
		return
	}
	content := sanitizeContent(req.Content)
	if content == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "to and content are required")
		return
	}

	// Idempotency (replay path): the scope is the registered route, so the
	// same key on a different endpoint is a fresh request.
	idemKey := idempotencyKey(c)
	scopeID := c.FullPath()
	if idemKey != "" {
		if svc, okSvc := h.messageSvc.(*services.MessageService); okSvc && svc.DB != nil {
			if rec, err := repo.GetIdempotency(ctx, svc.DB, ident.ID, scopeID, idemKey, time.Now().UTC()); err == nil && rec != nil {
				if prev, err2 := repo.GetMessage(ctx, svc.DB, rec.ResourceID); err2 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusCreated, prev)
					return
				}
			}
		}
	}

	m, err := h.messageSvc.Send(ctx, ident, req.To, content)
	if err != nil {
		switch err {
		case services.ErrEmptyContent:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "to and content are required")
		case services.ErrUserNotFound, services.ErrRecipientNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Recipient not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "Failed to send message")
		}
		return
	}

	// Idempotency (store path): best effort, a failed insert only costs a
	// future replay.
	if idemKey != "" {
		if svc, okSvc := h.messageSvc.(*services.MessageService); okSvc && svc.DB != nil {
			_, _ = repo.CreateIdempotency(ctx, svc.DB, ident.ID, scopeID, idemKey, m.ID, http.StatusCreated, 24*time.Hour)
		}
	}

	ok(c, http.StatusCreated, m)
}

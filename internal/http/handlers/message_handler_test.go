package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/renalhub/go-portal-backend/internal/auth"
	"github.com/renalhub/go-portal-backend/internal/domain"
	"github.com/renalhub/go-portal-backend/internal/services"
)

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique DSN per call to avoid cross-test contamination
	dsn := fmt.Sprintf("file:msg_handlers_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Message{}, &domain.Idempotency{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedPortalUser(t *testing.T, db *gorm.DB, id, name, role string) {
	t.Helper()
	u := &domain.User{ID: id, Name: name, Email: id + "@example.com", PasswordHash: "x", Role: role}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
}

func TestListConversations_ReturnsThreads(t *testing.T) {
	f := newFixture()
	f.messages.conversations = func(_ context.Context, ident auth.Identity) ([]services.Conversation, error) {
		return []services.Conversation{{
			ID:              ident.ID + "_u-doc",
			ParticipantID:   "u-doc",
			ParticipantName: "Dr. Chen",
			ParticipantRole: domain.RoleDoctor,
			LastMessage:     "",
			Messages:        []services.MessageView{},
		}}, nil
	}
	w := do(t, f.router(patientIdent), http.MethodGet, "/messages", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var threads []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &threads); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(threads) != 1 {
		t.Fatalf("threads = %d, want 1", len(threads))
	}
	if threads[0]["id"] != "u-pat_u-doc" {
		t.Fatalf("id = %v", threads[0]["id"])
	}
	if msgs, okList := threads[0]["messages"].([]any); !okList || len(msgs) != 0 {
		t.Fatalf("messages should serialize as an empty array: %v", threads[0]["messages"])
	}
}

func TestListConversations_Error(t *testing.T) {
	f := newFixture()
	f.messages.conversations = func(context.Context, auth.Identity) ([]services.Conversation, error) {
		return nil, errors.New("db down")
	}
	w := do(t, f.router(patientIdent), http.MethodGet, "/messages", nil, nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if decodeBody(t, w)["error"] != "Failed to fetch messages" {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestSendMessage_Created(t *testing.T) {
	f := newFixture()
	f.messages.send = func(_ context.Context, ident auth.Identity, to, content string) (*domain.Message, error) {
		return &domain.Message{ID: "msg-1", SenderID: ident.ID, RecipientID: to, Content: content, CreatedAt: time.Now()}, nil
	}
	w := do(t, f.router(patientIdent), http.MethodPost, "/messages", map[string]string{
		"to": "u-doc", "content": "Feeling dizzy after dialysis.",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["recipientId"] != "u-doc" || body["content"] != "Feeling dizzy after dialysis." {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestSendMessage_RecipientMissing(t *testing.T) {
	f := newFixture()
	f.messages.send = func(context.Context, auth.Identity, string, string) (*domain.Message, error) {
		return nil, services.ErrRecipientNotFound
	}
	w := do(t, f.router(patientIdent), http.MethodPost, "/messages", map[string]string{
		"to": "nobody", "content": "hello",
	}, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestSendMessage_BlankContentRejectedAtEdge(t *testing.T) {
	f := newFixture()
	called := false
	f.messages.send = func(context.Context, auth.Identity, string, string) (*domain.Message, error) {
		called = true
		return &domain.Message{}, nil
	}
	w := do(t, f.router(patientIdent), http.MethodPost, "/messages", map[string]string{
		"to": "u-doc", "content": "  \n\n  ",
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if called {
		t.Fatal("service called for whitespace-only content")
	}
}

// End-to-end idempotency against the concrete service: the second POST with
// the same key replays the stored message instead of sending twice.
func TestSendMessage_IdempotencyReplay(t *testing.T) {
	db := newHandlerDB(t)
	seedPortalUser(t, db, "u-pat", "Maria", domain.RolePatient)
	seedPortalUser(t, db, "u-doc", "Dr. Chen", domain.RoleDoctor)

	f := newFixture()
	f.handlers.messageSvc = &services.MessageService{DB: db}
	r := f.router(patientIdent)

	headers := map[string]string{"Idempotency-Key": uuid.NewString()}
	body := map[string]string{"to": "u-doc", "content": "first send"}

	w1 := do(t, r, http.MethodPost, "/messages", body, headers)
	if w1.Code != http.StatusCreated {
		t.Fatalf("first status = %d: %s", w1.Code, w1.Body.String())
	}
	if w1.Header().Get("Idempotency-Replayed") != "" {
		t.Fatal("first send must not be a replay")
	}

	w2 := do(t, r, http.MethodPost, "/messages", body, headers)
	if w2.Code != http.StatusCreated {
		t.Fatalf("second status = %d: %s", w2.Code, w2.Body.String())
	}
	if w2.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatal("second send should be replayed")
	}
	if decodeBody(t, w1)["id"] != decodeBody(t, w2)["id"] {
		t.Fatal("replay returned a different message")
	}

	var count int64
	if err := db.Model(&domain.Message{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("messages stored = %d, want 1", count)
	}
}

func TestListConversations_ETagNotModified(t *testing.T) {
	db := newHandlerDB(t)
	seedPortalUser(t, db, "u-pat", "Maria", domain.RolePatient)
	seedPortalUser(t, db, "u-doc", "Dr. Chen", domain.RoleDoctor)

	f := newFixture()
	f.handlers.messageSvc = &services.MessageService{DB: db}
	r := f.router(patientIdent)

	w1 := do(t, r, http.MethodGet, "/messages", nil, nil)
	if w1.Code != http.StatusOK {
		t.Fatalf("first status = %d: %s", w1.Code, w1.Body.String())
	}
	etag := w1.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	w2 := do(t, r, http.MethodGet, "/messages", nil, map[string]string{"If-None-Match": etag})
	if w2.Code != http.StatusNotModified {
		t.Fatalf("second status = %d, want 304", w2.Code)
	}
}

package repo

import (
	"context"
	"testing"
	"time"

	"github.com/renalhub/go-portal-backend/internal/domain"
)

func TestCreateMessage_InsertsRow(t *testing.T) {
	db := newRepoDB(t, &domain.Message{})
	ctx := context.Background()

	m, err := CreateMessage(ctx, db, "u1", "u2", "hello")
	if err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	if m.ID == "" || m.SenderID != "u1" || m.RecipientID != "u2" || m.Content != "hello" {
		t.Fatalf("unexpected message: %+v", m)
	}
	if m.CreatedAt.IsZero() || time.Since(m.CreatedAt) > time.Minute {
		t.Fatalf("CreatedAt not set reasonably: %v", m.CreatedAt)
	}

	got, err := GetMessage(ctx, db, m.ID)
	if err != nil {
		t.Fatalf("GetMessage: %v", err)
	}
	if got.ID != m.ID {
		t.Fatalf("roundtrip mismatch: %+v vs %+v", got, m)
	}
}

func TestListMessagesFor_BothDirectionsInSendOrder(t *testing.T) {
	db := newRepoDB(t, &domain.Message{})
	ctx := context.Background()

	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seed := []domain.Message{
		{ID: "c", SenderID: "u1", RecipientID: "u2", Content: "third", CreatedAt: t0.Add(2 * time.Second)},
		{ID: "a", SenderID: "u1", RecipientID: "u2", Content: "first", CreatedAt: t0},
		{ID: "b", SenderID: "u2", RecipientID: "u1", Content: "second", CreatedAt: t0.Add(time.Second)},
		{ID: "x", SenderID: "u3", RecipientID: "u4", Content: "unrelated", CreatedAt: t0},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed %s: %v", seed[i].ID, err)
		}
	}

	out, err := ListMessagesFor(ctx, db, "u1")
	if err != nil {
		t.Fatalf("ListMessagesFor: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(out))
	}
	if out[0].ID != "a" || out[1].ID != "b" || out[2].ID != "c" {
		t.Fatalf("order wrong: %s %s %s", out[0].ID, out[1].ID, out[2].ID)
	}
}

func TestMessagesStats(t *testing.T) {
	db := newRepoDB(t, &domain.Message{})
	ctx := context.Background()

	count, maxTS, err := MessagesStats(ctx, db, "u1")
	if err != nil {
		t.Fatalf("MessagesStats empty: %v", err)
	}
	if count != 0 || maxTS != nil {
		t.Fatalf("expected empty stats, got %d %v", count, maxTS)
	}

	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	for _, m := range []domain.Message{
		{ID: "a", SenderID: "u1", RecipientID: "u2", Content: "x", CreatedAt: t0},
		{ID: "b", SenderID: "u2", RecipientID: "u1", Content: "y", CreatedAt: t1},
	} {
		m := m
		if err := db.Create(&m).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	count, maxTS, err = MessagesStats(ctx, db, "u1")
	if err != nil {
		t.Fatalf("MessagesStats: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d", count)
	}
	if maxTS == nil || !maxTS.Equal(t1) {
		t.Fatalf("maxTS = %v, want %v", maxTS, t1)
	}
}

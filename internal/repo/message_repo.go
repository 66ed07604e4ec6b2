// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Message model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renalhub/go-portal-backend/internal/domain"
)

// CreateMessage inserts a new message row.
func CreateMessage(ctx context.Context, db *gorm.DB, senderID, recipientID, content string) (*domain.Message, error) {
	m := &domain.Message{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// GetMessage fetches a message by ID.
func GetMessage(ctx context.Context, db *gorm.DB, id string) (*domain.Message, error) {
	var m domain.Message
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMessagesFor returns every message the user sent or received, in
// deterministic chronological order (CreatedAt ASC, ID ASC). Both directions
// come back in one query; the conversation aggregator relies on this order
// and must not reorder within a thread.
func ListMessagesFor(ctx context.Context, db *gorm.DB, userID string) ([]domain.Message, error) {
	var out []domain.Message
	err := db.WithContext(ctx).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// MessagesStats returns aggregate metadata for a user's messages: the total
// number of rows (either direction) and the greatest CreatedAt among them.
// Used for weak ETag generation on the conversations endpoint. When the user
// has no messages, count is 0 and maxCreatedAt is nil.
func MessagesStats(ctx context.Context, db *gorm.DB, userID string) (count int64, maxCreatedAt *time.Time, err error) {
	q := db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("sender_id = ? OR recipient_id = ?", userID, userID)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Fetch the newest row instead of MAX() to avoid SQLite's TEXT result.
	var row struct {
		CreatedAt time.Time
	}
	err = db.WithContext(ctx).
		Model(&domain.Message{}).
		Select("created_at").
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at desc").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return 0, nil, err
	}
	ts := row.CreatedAt
	return count, &ts, nil
}

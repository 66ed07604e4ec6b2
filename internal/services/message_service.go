// Package services: MessageService
//
// Messaging is thread-less at rest: the store holds a flat list of immutable
// point-to-point messages. The conversation view is derived on every read by
// folding the caller's messages per counterpart and merging the result with
// the full set of eligible correspondents, so a correspondent the caller has
// never written to still gets an empty thread.
//
// Correspondent eligibility is role-dependent: a patient caller may converse
// with doctor and staff users; a doctor or staff caller additionally sees
// patient users. Patients never see other patients.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/renalhub/go-portal-backend/internal/auth"
	"github.com/renalhub/go-portal-backend/internal/domain"
	"github.com/renalhub/go-portal-backend/internal/repo"
)

// MessageView is one message expanded with the display names and roles of
// both parties, as rendered inside a conversation thread.
type MessageView struct {
	ID            string    `json:"id"`
	SenderID      string    `json:"senderId"`
	SenderName    string    `json:"senderName"`
	SenderRole    string    `json:"senderRole"`
	RecipientID   string    `json:"recipientId"`
	RecipientName string    `json:"recipientName"`
	RecipientRole string    `json:"recipientRole"`
	Content       string    `json:"content"`
	Timestamp     time.Time `json:"timestamp"`
}

// Conversation is the derived thread between the caller and one counterpart.
// LastMessage is the latest message's content, empty when no messages exist;
// Timestamp is then the fetch time so clients can still sort by recency.
type Conversation struct {
	ID              string        `json:"id"`
	ParticipantID   string        `json:"participantId"`
	ParticipantName string        `json:"participantName"`
	ParticipantRole string        `json:"participantRole"`
	LastMessage     string        `json:"lastMessage"`
	Timestamp       time.Time     `json:"timestamp"`
	Messages        []MessageView `json:"messages"`
}

// MessageService derives conversation threads and records new messages.
type MessageService struct {
	DB *gorm.DB

	// Now stamps empty threads; tests override it. Nil means time.Now.
	Now func() time.Time
}

func (s *MessageService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// correspondentRoles returns the roles the caller may exchange messages with.
func correspondentRoles(callerRole string) []string {
	if callerRole == domain.RolePatient {
		return []string{domain.RoleDoctor, domain.RoleStaff}
	}
	return []string{domain.RoleDoctor, domain.RoleStaff, domain.RolePatient}
}

// Conversations folds the caller's messages into per-counterpart threads and
// merges them with every eligible correspondent, empty threads included.
// Correspondents keep the store's name ordering; per-thread messages keep
// send order. Counterparts with history who are no longer eligible (role
// changed, account removed) still get a thread so no message disappears.
func (s *MessageService) Conversations(ctx context.Context, ident auth.Identity) ([]Conversation, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Conversations",
		trace.WithAttributes(attribute.String("caller.role", ident.Role)),
	)
	defer span.End()

	msgs, err := repo.ListMessagesFor(ctx, s.DB, ident.ID)
	if err != nil {
		return nil, err
	}
	correspondents, err := repo.ListUsersByRoles(ctx, s.DB, correspondentRoles(ident.Role))
	if err != nil {
		return nil, err
	}

	userByID := map[string]*domain.User{
		ident.ID: {ID: ident.ID, Name: ident.Name, Role: ident.Role},
	}
	for i := range correspondents {
		userByID[correspondents[i].ID] = &correspondents[i]
	}
	// Display info for a party not in the correspondent set (sender whose role
	// changed, removed account). Missing rows render with empty name and role.
	lookup := func(id string) *domain.User {
		if u, ok := userByID[id]; ok {
			return u
		}
		u, err := repo.GetUser(ctx, s.DB, id)
		if err != nil {
			u = &domain.User{ID: id}
		}
		userByID[id] = u
		return u
	}

	byOther := make(map[string][]MessageView)
	var historyOrder []string
	for _, m := range msgs {
		other := m.SenderID
		if other == ident.ID {
			other = m.RecipientID
		}
		sender, recipient := lookup(m.SenderID), lookup(m.RecipientID)
		if _, seen := byOther[other]; !seen {
			historyOrder = append(historyOrder, other)
		}
		byOther[other] = append(byOther[other], MessageView{
			ID:            m.ID,
			SenderID:      m.SenderID,
			SenderName:    sender.Name,
			SenderRole:    sender.Role,
			RecipientID:   m.RecipientID,
			RecipientName: recipient.Name,
			RecipientRole: recipient.Role,
			Content:       m.Content,
			Timestamp:     m.CreatedAt,
		})
	}

	fetchedAt := s.now()
	build := func(u *domain.User) Conversation {
		c := Conversation{
			ID:              ident.ID + "_" + u.ID,
			ParticipantID:   u.ID,
			ParticipantName: u.Name,
			ParticipantRole: u.Role,
			Timestamp:       fetchedAt,
			Messages:        []MessageView{},
		}
		if thread := byOther[u.ID]; len(thread) > 0 {
			last := thread[len(thread)-1]
			c.LastMessage = last.Content
			c.Timestamp = last.Timestamp
			c.Messages = thread
		}
		return c
	}

	out := make([]Conversation, 0, len(correspondents))
	emitted := make(map[string]bool, len(correspondents))
	for i := range correspondents {
		u := &correspondents[i]
		if u.ID == ident.ID {
			continue
		}
		out = append(out, build(u))
		emitted[u.ID] = true
	}
	for _, other := range historyOrder {
		if other == ident.ID || emitted[other] {
			continue
		}
		out = append(out, build(lookup(other)))
	}
	return out, nil
}

// Send persists one message from the caller to the named recipient. Both
// parties must exist; content must be non-blank.
func (s *MessageService) Send(ctx context.Context, ident auth.Identity, to, content string) (*domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Send",
		trace.WithAttributes(attribute.String("recipient.id", to)),
	)
	defer span.End()

	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if _, err := repo.GetUser(ctx, s.DB, ident.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if _, err := repo.GetUser(ctx, s.DB, to); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}
	return repo.CreateMessage(ctx, s.DB, ident.ID, to, content)
}

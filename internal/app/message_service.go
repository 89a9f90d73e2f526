package app

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"tutorhub/internal/domain/message"
	"tutorhub/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultConversationLimit = 50
	maxConversationLimit     = 200
)

// MessageService carries direct messages between a tutor and their students.
// Admins may message anyone.
type MessageService struct {
	messages      message.Repository
	profiles      profile.Repository
	relationships RelationshipChecker
	log           *logrus.Entry
	newID         func() string
}

func NewMessageService(mr message.Repository, pr profile.Repository, rc RelationshipChecker, log *logrus.Entry) *MessageService {
	return &MessageService{
		messages:      mr,
		profiles:      pr,
		relationships: rc,
		log:           log,
		newID:         uuid.NewString,
	}
}

func (s *MessageService) canMessage(ctx context.Context, actor profile.Actor, peer *profile.Profile) error {
	if actor.IsAdmin() || peer.Role == profile.RoleAdmin {
		return nil
	}
	var tutorID, studentID string
	switch {
	case actor.IsTutor() && peer.Role == profile.RoleStudent:
		tutorID, studentID = actor.ID, peer.ID
	case actor.IsStudent() && peer.Role == profile.RoleTutor:
		tutorID, studentID = peer.ID, actor.ID
	default:
		return ErrForbidden
	}
	active, err := s.relationships.IsActive(ctx, tutorID, studentID)
	if err != nil {
		return fmt.Errorf("failed to check relationship: %w", err)
	}
	if !active {
		return ErrForbidden
	}
	return nil
}

func (s *MessageService) peer(ctx context.Context, actor profile.Actor, peerID string) (*profile.Profile, error) {
	if peerID == "" || peerID == actor.ID {
		return nil, fmt.Errorf("%w: pick someone else to message", ErrInvalidInput)
	}
	p, err := s.profiles.GetByID(ctx, peerID)
	if err != nil {
		return nil, err
	}
	if err := s.canMessage(ctx, actor, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Send stores a message from the actor to recipientID.
func (s *MessageService) Send(ctx context.Context, actor profile.Actor, recipientID, body string) (*message.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: message is empty", ErrInvalidInput)
	}
	if utf8.RuneCountInString(body) > message.MaxBodyLength {
		return nil, fmt.Errorf("%w: message is longer than %d characters", ErrInvalidInput, message.MaxBodyLength)
	}
	recipient, err := s.peer(ctx, actor, recipientID)
	if err != nil {
		return nil, err
	}
	if !recipient.Active {
		return nil, fmt.Errorf("%w: recipient is inactive", ErrInvalidInput)
	}

	m := &message.Message{ID: s.newID(), SenderID: actor.ID, RecipientID: recipient.ID, Body: body}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	s.log.WithFields(logrus.Fields{"message_id": m.ID, "recipient_id": m.RecipientID}).Debug("Message sent")
	return m, nil
}

// Conversation returns the messages between the actor and peerID, newest first.
func (s *MessageService) Conversation(ctx context.Context, actor profile.Actor, peerID string, page message.Page) ([]*message.Message, error) {
	if _, err := s.peer(ctx, actor, peerID); err != nil {
		return nil, err
	}
	if page.Limit <= 0 {
		page.Limit = defaultConversationLimit
	}
	if page.Limit > maxConversationLimit {
		page.Limit = maxConversationLimit
	}
	msgs, err := s.messages.ListBetween(ctx, actor.ID, peerID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}

// MarkRead marks every message peerID sent to the actor as read.
func (s *MessageService) MarkRead(ctx context.Context, actor profile.Actor, peerID string) (int64, error) {
	if peerID == "" || peerID == actor.ID {
		return 0, fmt.Errorf("%w: pick someone else to message", ErrInvalidInput)
	}
	n, err := s.messages.MarkRead(ctx, actor.ID, peerID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return n, nil
}

// UnreadCounts returns the actor's unread message count per sender.
func (s *MessageService) UnreadCounts(ctx context.Context, actor profile.Actor) (map[string]int, error) {
	counts, err := s.messages.UnreadBySender(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return counts, nil
}

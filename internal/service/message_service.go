package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/models"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/notify"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/repository"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/validation"
	"github.com/google/uuid"
	jww "github.com/spf13/jwalterweatherman"
)

type MessageOptions struct {
	MaxLength         int
	RequireConnection bool
}

// ConnectionGate answers whether two users may message each other.
type ConnectionGate interface {
	AreConnected(ctx context.Context, a, b uint) (bool, error)
}

type MessageService struct {
	messageRepo repository.MessageRepositoryInterface
	gate        ConnectionGate
	userRepo    repository.UserRepositoryInterface
	notifier    notify.Notifier
	opts        MessageOptions
	now         func() time.Time
}

func NewMessageService(messageRepo repository.MessageRepositoryInterface, gate ConnectionGate, userRepo repository.UserRepositoryInterface, notifier notify.Notifier, opts MessageOptions) *MessageService {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &MessageService{
		messageRepo: messageRepo,
		gate:        gate,
		userRepo:    userRepo,
		notifier:    notifier,
		opts:        opts,
		now:         time.Now,
	}
}

type SendMessageInput struct {
	RecipientID uint   `json:"recipient_id"`
	Content     string `json:"content"`
	ClientID    string `json:"client_id"`
}

// Thread is the full exchange between the caller and one counterpart.
type Thread struct {
	Counterpart models.ProfileSummary `json:"counterpart"`
	Messages    []models.Message      `json:"messages"`
	// MarkedRead counts messages this read flipped from unread to read.
	MarkedRead int64 `json:"marked_read"`
}

// Send stores a new unread message. Resending with the same client id returns
// the message stored the first time, provided recipient and content match.
func (s *MessageService) Send(ctx context.Context, senderID uint, input SendMessageInput) (*models.Message, error) {
	content, ok := validation.NormalizeContent(input.Content, s.opts.MaxLength)
	if !ok {
		return nil, ErrEmptyContent
	}
	if senderID == input.RecipientID {
		return nil, ErrSelfMessage
	}

	if input.ClientID != "" {
		id, err := uuid.Parse(input.ClientID)
		if err != nil {
			return nil, ErrInvalidClientID
		}
		input.ClientID = id.String()

		existing, err := s.messageRepo.FindByClientID(ctx, input.ClientID, senderID)
		if err == nil {
			return sameMessage(existing, input.RecipientID, content)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, persistence("lookup client id", err)
		}
	} else {
		input.ClientID = uuid.NewString()
	}

	if _, err := s.userRepo.FindByID(ctx, input.RecipientID); err != nil {
		return nil, storeError("load recipient", err)
	}

	if s.opts.RequireConnection {
		connected, err := s.gate.AreConnected(ctx, senderID, input.RecipientID)
		if err != nil {
			return nil, err
		}
		if !connected {
			return nil, ErrNotConnected
		}
	}

	msg := &models.Message{
		ClientID:    input.ClientID,
		SenderID:    senderID,
		RecipientID: input.RecipientID,
		Content:     content,
		CreatedAt:   s.now(),
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			// A concurrent retry with the same client id won.
			existing, findErr := s.messageRepo.FindByClientID(ctx, input.ClientID, senderID)
			if findErr == nil {
				return sameMessage(existing, input.RecipientID, content)
			}
		}
		return nil, persistence("create message", err)
	}

	s.notifier.Notify(ctx, notify.Notification{
		UserID:  msg.RecipientID,
		ActorID: senderID,
		Kind:    models.NotifyMessageReceived,
		Preview: msg.Content,
	})
	return msg, nil
}

// sameMessage accepts a stored message as the result of a resend only when
// it carries the same recipient and content.
func sameMessage(existing *models.Message, recipientID uint, content string) (*models.Message, error) {
	if existing.RecipientID != recipientID || existing.Content != content {
		return nil, ErrClientIDConflict
	}
	jww.DEBUG.Printf("message %d resent by %d (client_id %s)", existing.ID, existing.SenderID, existing.ClientID)
	return existing, nil
}

// ListThread marks everything peerID sent to userID as read, then returns the
// whole exchange oldest first. If the read fails after the mark, the mark
// stays committed. A counterpart whose profile is gone still has a readable
// thread, shown with a placeholder profile as in the inbox.
func (s *MessageService) ListThread(ctx context.Context, userID, peerID uint) (*Thread, error) {
	if userID == peerID {
		return nil, ErrSelfMessage
	}
	counterpart, err := s.counterpart(ctx, userID, peerID)
	if err != nil {
		return nil, err
	}

	marked, err := s.messageRepo.MarkThreadRead(ctx, userID, peerID, s.now())
	if err != nil {
		return nil, persistence("mark thread read", err)
	}

	msgs, err := s.messageRepo.FindThread(ctx, userID, peerID)
	if err != nil {
		return nil, persistence("load thread", err)
	}
	if marked > 0 {
		jww.DEBUG.Printf("user %d read %d messages from %d", userID, marked, peerID)
	}

	return &Thread{
		Counterpart: counterpart,
		Messages:    msgs,
		MarkedRead:  marked,
	}, nil
}

// counterpart loads peerID's profile. A missing profile is only an error when
// the two users have never exchanged a message.
func (s *MessageService) counterpart(ctx context.Context, userID, peerID uint) (models.ProfileSummary, error) {
	peer, err := s.userRepo.FindByID(ctx, peerID)
	if err == nil {
		return peer.Summary(), nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return models.ProfileSummary{}, persistence("load counterpart", err)
	}

	msgs, err := s.messageRepo.FindThread(ctx, userID, peerID)
	if err != nil {
		return models.ProfileSummary{}, persistence("load thread", err)
	}
	if len(msgs) == 0 {
		return models.ProfileSummary{}, fmt.Errorf("load counterpart: %w", ErrNotFound)
	}
	return models.UnknownProfile(peerID), nil
}

// ListConversations builds userID's inbox: one row per counterpart, most
// recently active first.
func (s *MessageService) ListConversations(ctx context.Context, userID uint) ([]models.ConversationSummary, error) {
	msgs, err := s.messageRepo.FindForUser(ctx, userID)
	if err != nil {
		return nil, persistence("load messages", err)
	}

	convs := AggregateConversations(userID, msgs)
	if len(convs) == 0 {
		return convs, nil
	}

	ids := make([]uint, len(convs))
	for i := range convs {
		ids[i] = convs[i].Counterpart.ID
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		jww.WARN.Printf("inbox for %d: profile lookup failed, using placeholders: %v", userID, err)
		return convs, nil
	}

	byID := make(map[uint]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for i := range convs {
		if u, ok := byID[convs[i].Counterpart.ID]; ok {
			convs[i].Counterpart = u.Summary()
		}
	}
	return convs, nil
}

// AggregateConversations folds msgs, which must be ordered newest first, into
// one summary per counterpart. The first message seen for a counterpart is
// its latest; only unread messages addressed to userID count as unread.
// Counterpart profiles are placeholders until enriched.
func AggregateConversations(userID uint, msgs []models.Message) []models.ConversationSummary {
	index := make(map[uint]int)
	out := make([]models.ConversationSummary, 0)

	for i := range msgs {
		m := &msgs[i]
		peer := m.Counterpart(userID)

		pos, seen := index[peer]
		if !seen {
			pos = len(out)
			index[peer] = pos
			out = append(out, models.ConversationSummary{
				Counterpart:   models.UnknownProfile(peer),
				LastMessageID: m.ID,
				LastMessage:   m.Content,
				LastMessageAt: m.CreatedAt,
				LastSenderID:  m.SenderID,
			})
		}
		if m.RecipientID == userID && !m.IsRead {
			out[pos].UnreadCount++
		}
	}
	return out
}

// UnreadCount returns how many messages addressed to userID are unread.
func (s *MessageService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	n, err := s.messageRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, persistence("count unread", err)
	}
	return n, nil
}

// UnreadFrom returns how many of peerID's messages to userID are unread.
func (s *MessageService) UnreadFrom(ctx context.Context, userID, peerID uint) (int64, error) {
	n, err := s.messageRepo.CountUnreadFrom(ctx, userID, peerID)
	if err != nil {
		return 0, persistence("count unread", err)
	}
	return n, nil
}

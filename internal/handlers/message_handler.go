package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/cache"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/httpx"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/models"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/service"
	"github.com/gofiber/fiber/v2"
)

// InboxStore caches inbox rows and unread badges. *cache.InboxCache
// implements it.
type InboxStore interface {
	GetConversations(ctx context.Context, userID uint) ([]models.ConversationSummary, bool)
	SetConversations(ctx context.Context, userID uint, convs []models.ConversationSummary) error
	GetUnreadCount(ctx context.Context, userID uint) (int64, bool)
	SetUnreadCount(ctx context.Context, userID uint, count int64) error
	Invalidate(ctx context.Context, userIDs ...uint) error
}

var _ InboxStore = (*cache.InboxCache)(nil)

type MessageHandler struct {
	messageService *service.MessageService
	inboxCache     InboxStore
}

func NewMessageHandler(messageService *service.MessageService, inboxCache InboxStore) *MessageHandler {
	if inboxCache == nil {
		inboxCache = (*cache.InboxCache)(nil)
	}
	return &MessageHandler{
		messageService: messageService,
		inboxCache:     inboxCache,
	}
}

// SendMessage handles POST /messages
func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input service.SendMessageInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}
	if input.RecipientID == 0 {
		return httpx.BadRequest(c, "missing_recipient", "recipient_id is required")
	}

	message, err := h.messageService.Send(c.UserContext(), userID, input)
	if err != nil {
		return respondError(c, err, "send_message_failed")
	}

	_ = h.inboxCache.Invalidate(c.UserContext(), message.SenderID, message.RecipientID)
	return c.Status(fiber.StatusCreated).JSON(message.ToResponse())
}

// GetThread handles GET /messages/:peerId and marks the peer's messages read.
func (h *MessageHandler) GetThread(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	peerID, err := httpx.ParamUint(c, "peerId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_peer_id", "Invalid user ID")
	}

	thread, err := h.messageService.ListThread(c.UserContext(), userID, peerID)
	if err != nil {
		if errors.Is(err, service.ErrPersistence) {
			// the mark may have committed before the failure
			_ = h.inboxCache.Invalidate(c.UserContext(), userID)
		}
		return respondError(c, err, "fetch_messages_failed")
	}
	if thread.MarkedRead > 0 {
		_ = h.inboxCache.Invalidate(c.UserContext(), userID)
	}

	responses := make([]models.MessageResponse, len(thread.Messages))
	for i := range thread.Messages {
		responses[i] = thread.Messages[i].ToResponse()
	}

	return c.JSON(fiber.Map{
		"counterpart": thread.Counterpart,
		"messages":    responses,
		"count":       len(responses),
		"marked_read": thread.MarkedRead,
	})
}

// ListConversations handles GET /conversations
func (h *MessageHandler) ListConversations(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	ctx := c.UserContext()
	convs, ok := h.inboxCache.GetConversations(ctx, userID)
	if !ok {
		convs, err = h.messageService.ListConversations(ctx, userID)
		if err != nil {
			return respondError(c, err, "fetch_conversations_failed")
		}
		_ = h.inboxCache.SetConversations(ctx, userID, convs)
	}

	c.Set("Cache-Control", "private, max-age=0, must-revalidate")
	return c.JSON(fiber.Map{
		"conversations": convs,
		"count":         len(convs),
	})
}

// UnreadCount handles GET /messages/unread-count, or the count from one
// peer with ?from=<userId>.
func (h *MessageHandler) UnreadCount(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	ctx := c.UserContext()
	if from := c.Query("from"); from != "" {
		peerID, err := strconv.ParseUint(from, 10, 64)
		if err != nil || peerID == 0 {
			return httpx.BadRequest(c, "invalid_peer_id", "Invalid user ID")
		}
		count, err := h.messageService.UnreadFrom(ctx, userID, uint(peerID))
		if err != nil {
			return respondError(c, err, "fetch_unread_failed")
		}
		return c.JSON(fiber.Map{"unread": count, "from": peerID})
	}

	count, ok := h.inboxCache.GetUnreadCount(ctx, userID)
	if !ok {
		count, err = h.messageService.UnreadCount(ctx, userID)
		if err != nil {
			return respondError(c, err, "fetch_unread_failed")
		}
		_ = h.inboxCache.SetUnreadCount(ctx, userID, count)
	}

	return c.JSON(fiber.Map{"unread": count})
}

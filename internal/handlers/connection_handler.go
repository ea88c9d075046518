package handlers

import (
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/cache"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/httpx"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/models"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/service"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type ConnectionHandler struct {
	connectionService *service.ConnectionService
	connectionCache   *cache.ConnectionCache
}

func NewConnectionHandler(connectionService *service.ConnectionService, connectionCache *cache.ConnectionCache) *ConnectionHandler {
	return &ConnectionHandler{
		connectionService: connectionService,
		connectionCache:   connectionCache,
	}
}

// SendRequest handles POST /connections/:userId
func (h *ConnectionHandler) SendRequest(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	recipientID, err := httpx.ParamUint(c, "userId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_user_id", "Invalid user ID")
	}

	conn, err := h.connectionService.CreateRequest(c.UserContext(), userID, recipientID)
	if err != nil {
		return respondError(c, err, "send_request_failed")
	}

	_ = h.connectionCache.InvalidatePending(c.UserContext(), recipientID)
	return c.Status(fiber.StatusCreated).JSON(conn.ToResponse())
}

// ListRequests handles GET /connections/requests
func (h *ConnectionHandler) ListRequests(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	ctx := c.UserContext()
	requests, ok := h.connectionCache.GetPending(ctx, userID)
	if !ok {
		requests, err = h.connectionService.ListIncomingPending(ctx, userID)
		if err != nil {
			return respondError(c, err, "fetch_requests_failed")
		}
		_ = h.connectionCache.SetPending(ctx, userID, requests)
	}

	return c.JSON(fiber.Map{
		"requests": requests,
		"count":    len(requests),
	})
}

func (h *ConnectionHandler) Accept(c *fiber.Ctx) error {
	return h.resolve(c, models.ConnectionAccepted)
}

func (h *ConnectionHandler) Reject(c *fiber.Ctx) error {
	return h.resolve(c, models.ConnectionRejected)
}

type decisionInput struct {
	Decision string `json:"decision"`
}

// Decide handles PATCH /connections/:id with {"decision": "accept"|"reject"}
func (h *ConnectionHandler) Decide(c *fiber.Ctx) error {
	var input decisionInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}
	decision, ok := validation.ParseDecision(input.Decision)
	if !ok {
		return respondError(c, service.ErrInvalidDecision, "resolve_request_failed")
	}
	return h.resolve(c, decision)
}

func (h *ConnectionHandler) resolve(c *fiber.Ctx, decision models.ConnectionStatus) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	connID, err := httpx.ParamUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_connection_id", "Invalid connection ID")
	}

	conn, err := h.connectionService.Resolve(c.UserContext(), userID, connID, decision)
	if err != nil {
		return respondError(c, err, "resolve_request_failed")
	}

	_ = h.connectionCache.InvalidatePair(c.UserContext(), conn.RequesterID, conn.RecipientID)
	return c.JSON(conn.ToResponse())
}

// ListConnections handles GET /connections
func (h *ConnectionHandler) ListConnections(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	ctx := c.UserContext()
	views, ok := h.connectionCache.GetAccepted(ctx, userID)
	if !ok {
		views, err = h.connectionService.ListAccepted(ctx, userID)
		if err != nil {
			return respondError(c, err, "fetch_connections_failed")
		}
		_ = h.connectionCache.SetAccepted(ctx, userID, views)
	}

	return c.JSON(fiber.Map{
		"connections": views,
		"count":       len(views),
	})
}

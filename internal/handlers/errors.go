package handlers

import (
	"errors"

	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/httpx"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/service"
	"github.com/gofiber/fiber/v2"
	jww "github.com/spf13/jwalterweatherman"
)

// respondError maps service errors onto the HTTP error envelope. fallback is
// the code reported for unexpected failures.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrDuplicateRequest):
		return httpx.Conflict(c, "request_already_pending", "Request already pending")
	case errors.Is(err, service.ErrAlreadyResolved):
		return httpx.Conflict(c, "request_already_resolved", "Request already resolved")
	case errors.Is(err, service.ErrNotFound):
		return httpx.NotFound(c, "not_found", "Not found")
	case errors.Is(err, service.ErrNotRecipient):
		return httpx.Forbidden(c, "not_recipient", "Only the recipient can respond to this request")
	case errors.Is(err, service.ErrNotConnected):
		return httpx.Forbidden(c, "not_connected", "You can only message your connections")
	case errors.Is(err, service.ErrSelfConnection):
		return httpx.BadRequest(c, "self_connection", "You cannot connect with yourself")
	case errors.Is(err, service.ErrSelfMessage):
		return httpx.BadRequest(c, "self_message", "You cannot message yourself")
	case errors.Is(err, service.ErrEmptyContent):
		return httpx.BadRequest(c, "missing_content", "Content is required")
	case errors.Is(err, service.ErrInvalidClientID):
		return httpx.BadRequest(c, "invalid_client_id", "client_id must be a UUID")
	case errors.Is(err, service.ErrClientIDConflict):
		return httpx.Conflict(c, "client_id_conflict", "client_id was already used for a different message")
	case errors.Is(err, service.ErrInvalidDecision):
		return httpx.BadRequest(c, "invalid_decision", "Decision must be accept or reject")
	case errors.Is(err, service.ErrPersistence):
		jww.ERROR.Printf("%s %s: %v", c.Method(), c.Path(), err)
		return httpx.Error(c, fiber.StatusInternalServerError, fallback, "Something went wrong, please try again")
	default:
		jww.ERROR.Printf("%s %s: unexpected error: %v", c.Method(), c.Path(), err)
		return httpx.Internal(c, fallback)
	}
}

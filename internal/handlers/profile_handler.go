package handlers

import (
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/httpx"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/service"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	profileService    *service.ProfileService
	connectionService *service.ConnectionService
}

func NewProfileHandler(profileService *service.ProfileService, connectionService *service.ConnectionService) *ProfileHandler {
	return &ProfileHandler{
		profileService:    profileService,
		connectionService: connectionService,
	}
}

// Search handles GET /alumni/search?q=&limit=
func (h *ProfileHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if validation.NormalizeSearchQuery(query) == "" {
		return httpx.BadRequest(c, "missing_query", "Search query is required")
	}

	profiles, err := h.profileService.Search(c.UserContext(), query, c.QueryInt("limit", validation.DefaultSearchLimit))
	if err != nil {
		return respondError(c, err, "search_alumni_failed")
	}

	return c.JSON(fiber.Map{
		"alumni": profiles,
	})
}

// Get handles GET /alumni/:id. The response carries the caller's connection
// with that alumnus, if any.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	id, err := httpx.ParamUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_user_id", "Invalid user ID")
	}

	ctx := c.UserContext()
	profile, err := h.profileService.Get(ctx, id)
	if err != nil {
		return respondError(c, err, "fetch_profile_failed")
	}
	conn, err := h.connectionService.Between(ctx, userID, id)
	if err != nil {
		return respondError(c, err, "fetch_profile_failed")
	}

	var connection fiber.Map
	if conn != nil {
		connection = fiber.Map{
			"connection_id": conn.ConnectionID,
			"status":        conn.Status,
			"direction":     conn.Direction,
		}
	}
	return c.JSON(fiber.Map{
		"alumnus":    profile,
		"connection": connection,
	})
}

package handlers

import (
	"strconv"
	"time"

	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/config"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/httpx"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Connections *ConnectionHandler
	Messages    *MessageHandler
	Profiles    *ProfileHandler
}

// RegisterRoutes mounts the API under /api and the health check.
func RegisterRoutes(app *fiber.App, cfg *config.Config, h Handlers) {
	api := app.Group("/api", middleware.OriginAllowed(cfg.AllowedOrigins))
	protected := api.Group("/", middleware.AuthRequired(cfg.JWTSecret), middleware.CSRFRequired(cfg.CSRFMode, cfg.AllowedOrigins))

	perUser := func(prefix string, max int, window time.Duration) fiber.Handler {
		return limiter.New(limiter.Config{
			Max:        max,
			Expiration: window,
			KeyGenerator: func(c *fiber.Ctx) string {
				if uid, err := httpx.LocalUint(c, "userID"); err == nil {
					return prefix + ":" + strconv.FormatUint(uint64(uid), 10)
				}
				return c.IP()
			},
		})
	}

	protected.Get("/connections", h.Connections.ListConnections)
	protected.Get("/connections/requests", h.Connections.ListRequests)
	protected.Post("/connections/:id/accept", h.Connections.Accept)
	protected.Post("/connections/:id/reject", h.Connections.Reject)
	protected.Patch("/connections/:id", h.Connections.Decide)
	protected.Post("/connections/:userId", perUser("connect", 30, time.Hour), h.Connections.SendRequest)

	protected.Get("/conversations", h.Messages.ListConversations)
	protected.Get("/messages/unread-count", h.Messages.UnreadCount)
	protected.Get("/messages/:peerId", h.Messages.GetThread)
	protected.Post("/messages", perUser("send", 60, time.Minute), h.Messages.SendMessage)

	protected.Get("/alumni/search", h.Profiles.Search)
	protected.Get("/alumni/:id", h.Profiles.Get)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Alumni network is running",
		})
	})
}

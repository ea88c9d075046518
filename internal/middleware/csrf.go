package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/httpx"
	"github.com/gofiber/fiber/v2"
)

const (
	CSRFCookie = "alumni_csrf"
	CSRFHeader = "X-Alumni-CSRF"
)

// CSRFRequired guards state-changing browser requests. mode is one of
// "token" (default: the CSRF header must echo the CSRF cookie), "origin"
// (allow-list only) or "off". Requests without an Origin header come from
// non-browser clients and pass.
func CSRFRequired(mode, allowedCSV string) fiber.Handler {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		mode = "token"
	}
	allowed := parseOrigins(allowedCSV)

	return func(c *fiber.Ctx) error {
		if mode == "off" || safeMethod(c.Method()) {
			return c.Next()
		}

		origin, ok := allowed.checkOrigin(c)
		if !ok {
			return forbiddenOrigin(c)
		}
		if origin == "" || mode == "origin" {
			return c.Next()
		}

		cookie, header := c.Cookies(CSRFCookie), c.Get(CSRFHeader)
		if cookie == "" || header == "" {
			return httpx.Forbidden(c, "csrf_required", "Missing CSRF token")
		}
		if subtle.ConstantTimeCompare([]byte(cookie), []byte(header)) != 1 {
			return httpx.Forbidden(c, "csrf_invalid", "Invalid CSRF token")
		}
		return c.Next()
	}
}

func safeMethod(method string) bool {
	switch method {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
		return true
	}
	return false
}

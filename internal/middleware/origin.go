package middleware

import (
	"strings"

	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/httpx"
	"github.com/gofiber/fiber/v2"
)

// origins is a parsed ALUMNI_ALLOWED_ORIGINS list. An empty list or "*"
// permits any origin.
type origins map[string]struct{}

func parseOrigins(csv string) origins {
	set := origins{}
	for _, o := range strings.Split(csv, ",") {
		if o = strings.TrimSpace(o); o != "" {
			set[o] = struct{}{}
		}
	}
	return set
}

func (o origins) permits(origin string) bool {
	if len(o) == 0 {
		return true
	}
	if _, wildcard := o["*"]; wildcard {
		return true
	}
	_, ok := o[origin]
	return ok
}

// checkOrigin rejects a browser request from an origin outside the list.
// ok is false when a response has already been written.
func (o origins) checkOrigin(c *fiber.Ctx) (origin string, ok bool) {
	origin = strings.TrimSpace(c.Get(fiber.HeaderOrigin))
	if origin != "" && !o.permits(origin) {
		return origin, false
	}
	return origin, true
}

// OriginAllowed rejects browser requests whose Origin is not in the
// comma-separated allow-list.
func OriginAllowed(allowedCSV string) fiber.Handler {
	allowed := parseOrigins(allowedCSV)
	return func(c *fiber.Ctx) error {
		if _, ok := allowed.checkOrigin(c); !ok {
			return forbiddenOrigin(c)
		}
		return c.Next()
	}
}

func forbiddenOrigin(c *fiber.Ctx) error {
	return httpx.Forbidden(c, "forbidden_origin", "Origin not allowed")
}

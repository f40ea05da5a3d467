package gateway

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/sidedoor/pkg/openai"
)

// requireAuth guards the /v1 routes with bearer authentication against the
// configured shared secret. A missing or malformed header is distinguished
// from a wrong secret so clients can tell the two failure modes apart.
func (g *Gateway) requireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return newAPIError(fiber.StatusUnauthorized, openai.CodeUnauthorized, "missing bearer token")
	}

	// Constant-time comparison so the secret cannot be probed byte by byte.
	if subtle.ConstantTimeCompare([]byte(token), []byte(g.config.SharedSecret)) != 1 {
		return newAPIError(fiber.StatusForbidden, openai.CodeInvalidAPIKey, "invalid api key")
	}

	return c.Next()
}

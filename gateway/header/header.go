// Package header builds the header sets for the gateway's two connection
// legs:
//
//	Client <--> Gateway <--> Upstream chat service
//
// The upstream only answers requests that look like they came from its own
// web client, so the outbound leg wears a browser persona: a desktop
// User-Agent plus an Origin/Referer pair matching the upstream's site. The
// inbound leg needs event-stream response headers when streaming.
package header

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// userAgent is the fixed desktop browser identity presented upstream.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

// TraceIDHeader tags each outbound request with a per-request identifier so
// upstream activity can be correlated with gateway logs.
const TraceIDHeader = "X-Request-Id"

// Handler builds headers for both gateway connection legs.
type Handler struct {
	origin string
}

// NewHandler creates a Handler for the given upstream origin
// (e.g. "https://chat.example.com").
func NewHandler(origin string) *Handler {
	return &Handler{origin: strings.TrimRight(origin, "/")}
}

// SetUpstreamRequestHeaders applies the browser persona and the trace
// identifier to an outbound upstream request.
func (h *Handler) SetUpstreamRequestHeaders(req *http.Request, traceID string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Origin", h.origin)
	req.Header.Set("Referer", h.origin+"/")
	req.Header.Set(TraceIDHeader, traceID)
}

// SetStreamResponseHeaders applies the event-stream headers on the client
// leg. X-Accel-Buffering disables proxy buffering in front of the gateway,
// which would otherwise defeat per-chunk delivery.
func (h *Handler) SetStreamResponseHeaders(c *fiber.Ctx) {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")
}

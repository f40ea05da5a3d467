// Package upstream issues chat requests against the upstream service's
// non-standard API: one POST per inbound gateway request, answered with a
// line-oriented event stream that pkg/events decodes.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/papercomputeco/sidedoor/gateway/header"
)

// Request is the upstream's chat request body. Only the latest user message
// is carried; the upstream holds no conversation state on our behalf.
type Request struct {
	Message           string   `json:"message"`
	ModelIDs          []string `json:"modelIds"`
	DeepSearchEnabled bool     `json:"deepSearchEnabled"`
}

// Client sends chat requests to the upstream service.
type Client struct {
	url        string
	headers    *header.Handler
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Client for the given upstream endpoint and origin.
func NewClient(url, origin string, logger *zap.Logger) *Client {
	return &Client{
		url:     url,
		headers: header.NewHandler(origin),
		// No client-side timeout: responses stream for as long as the
		// upstream keeps producing tokens. Deadlines are left to the
		// hosting environment.
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Send posts one chat message and returns the raw upstream response. The
// caller owns resp.Body. traceID tags the request end to end.
func (c *Client) Send(ctx context.Context, message, model, traceID string) (*http.Response, error) {
	body, err := json.Marshal(Request{
		Message:           message,
		ModelIDs:          []string{model},
		DeepSearchEnabled: false,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding upstream request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating upstream request: %w", err)
	}

	c.headers.SetUpstreamRequestHeaders(req, traceID)

	c.logger.Debug("sending upstream request",
		zap.String("url", c.url),
		zap.String("model", model),
		zap.String("request_id", traceID),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	return resp, nil
}

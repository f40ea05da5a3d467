// Package gateway provides an OpenAI-compatible HTTP facade over an
// upstream chat service that speaks its own line-oriented event protocol.
// Clients talk standard chat completions; the gateway translates both the
// request shape and the response stream in flight.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papercomputeco/sidedoor/gateway/header"
	"github.com/papercomputeco/sidedoor/gateway/worker"
	"github.com/papercomputeco/sidedoor/pkg/openai"
	"github.com/papercomputeco/sidedoor/pkg/upstream"
	"github.com/papercomputeco/sidedoor/pkg/utils"
)

const ownedBy = "sidedoor"

// Gateway is the translating HTTP server. It owns the fiber app, the
// upstream client, and a worker pool that records request telemetry off the
// hot path.
type Gateway struct {
	config   Config
	logger   *zap.Logger
	server   *fiber.App
	upstream *upstream.Client
	headers  *header.Handler
	pool     *worker.Pool
}

// New creates a new Gateway.
// Returns an error if no upstream endpoint or model list is configured.
func New(config Config, logger *zap.Logger) (*Gateway, error) {
	if config.UpstreamURL == "" {
		return nil, errors.New("upstream url is required")
	}
	if len(config.Models) == 0 {
		return nil, errors.New("at least one model id is required")
	}
	if config.DefaultModel == "" {
		config.DefaultModel = config.Models[0]
	}
	if config.CompleteMode == "" {
		config.CompleteMode = CompleteReplace
	}

	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
		// Enable streaming
		StreamRequestBody: true,
		ErrorHandler:      newErrorHandler(logger),
	})

	// Add compression middleware to handle responses
	app.Use(compress.New())

	// Permissive CORS so browser-hosted clients can call the API directly.
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Authorization,Content-Type",
	}))

	wp, err := worker.NewPool(&worker.Config{
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create worker pool: %w", err)
	}

	g := &Gateway{
		config:   config,
		logger:   logger,
		server:   app,
		upstream: upstream.NewClient(config.UpstreamURL, config.UpstreamOrigin, logger),
		headers:  header.NewHandler(config.UpstreamOrigin),
		pool:     wp,
	}

	app.Get("/healthz", g.handleHealth)

	// Bare OPTIONS on any path answers 204 even outside the CORS preflight
	// flow, so permissive clients never trip the 404 handler.
	app.Options("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1 := app.Group("/v1", g.requireAuth)
	v1.Get("/models", g.handleModels)
	v1.Post("/chat/completions", g.handleChatCompletions)

	// Everything else is a structured 404, same envelope as other errors.
	app.Use(func(c *fiber.Ctx) error {
		return newAPIError(fiber.StatusNotFound, openai.CodeNotFound, fmt.Sprintf("unknown route: %s %s", c.Method(), c.Path()))
	})

	return g, nil
}

// Run starts the gateway server on the configured listening address
func (g *Gateway) Run() error {
	g.logger.Info("starting gateway server",
		zap.String("listen", g.config.ListenAddr),
		zap.String("upstream", g.config.UpstreamURL),
	)

	return g.server.Listen(g.config.ListenAddr)
}

// RunWithListener starts the gateway server using the provided listener.
func (g *Gateway) RunWithListener(listener net.Listener) error {
	g.logger.Info("starting gateway server",
		zap.String("listen", listener.Addr().String()),
		zap.String("upstream", g.config.UpstreamURL),
	)

	return g.server.Listener(listener)
}

// Close gracefully shuts down the gateway and waits for the worker pool to drain
func (g *Gateway) Close() error {
	err := g.server.Shutdown()
	g.pool.Close()
	return err
}

func (g *Gateway) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleModels lists the configured model ids in configuration order.
func (g *Gateway) handleModels(c *fiber.Ctx) error {
	created := time.Now().Unix()

	data := make([]openai.Model, 0, len(g.config.Models))
	for _, id := range g.config.Models {
		data = append(data, openai.Model{
			ID:      id,
			Object:  "model",
			Created: created,
			OwnedBy: ownedBy,
		})
	}

	return c.JSON(openai.ModelsResponse{Object: "list", Data: data})
}

// handleChatCompletions translates one chat completion request: extract the
// latest user message, forward it upstream, and re-encode the reply either
// as a chunk stream or as a single aggregate completion.
func (g *Gateway) handleChatCompletions(c *fiber.Ctx) error {
	startTime := time.Now()

	var req openai.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("parsing chat request: %w", err)
	}

	model := req.Model
	if model == "" {
		model = g.config.DefaultModel
	}

	message := openai.LatestUserText(req.Messages)
	requestID := uuid.NewString()

	g.logger.Debug("chat completion request",
		zap.String("request_id", requestID),
		zap.String("model", model),
		zap.Bool("stream", req.Stream),
		zap.Int("message_count", len(req.Messages)),
	)

	// Use context.Background() for streaming because fasthttp recycles its
	// RequestCtx after the handler returns, while the transcoding goroutine
	// keeps reading the upstream connection. Aggregate requests finish
	// inside the handler and can ride the request context.
	ctx := context.Background()
	if !req.Stream {
		ctx = c.Context()
	}

	resp, err := g.upstream.Send(ctx, message, model, requestID)
	if err != nil {
		g.logger.Error("upstream request failed",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return newAPIError(fiber.StatusBadGateway, openai.CodeUpstreamError, "upstream request failed")
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		// The raw upstream body is logged for operators but never forwarded;
		// clients get the envelope with the upstream's status only.
		g.logger.Error("upstream returned error",
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode),
			zap.String("body", utils.Truncate(string(body), 512)),
		)
		return newAPIError(resp.StatusCode, openai.CodeUpstreamError, fmt.Sprintf("upstream returned status %d", resp.StatusCode))
	}

	id := openai.NewCompletionID()
	created := time.Now().Unix()

	if req.Stream {
		return g.streamResponse(c, resp, id, created, model, requestID, startTime)
	}

	return g.aggregateResponse(c, resp, id, created, model, requestID, startTime)
}

// streamResponse pipes the transcoded chunk stream to the client.
//
// Use io.Pipe + SetBodyStream so pw.Write blocks until fasthttp flushes to
// the TCP socket, giving direct backpressure and true per-chunk delivery.
func (g *Gateway) streamResponse(c *fiber.Ctx, resp *http.Response, id string, created int64, model, requestID string, startTime time.Time) error {
	g.headers.SetStreamResponseHeaders(c)

	pr, pw := io.Pipe()

	go func() {
		defer resp.Body.Close()
		defer pw.Close()

		chunks, contentBytes, err := transcodeStream(pw, resp.Body, id, created, model)
		if err != nil {
			g.logger.Error("streaming transcode failed",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
		}

		g.pool.Enqueue(worker.Job{
			RequestID:    requestID,
			Model:        model,
			Streaming:    true,
			Status:       fiber.StatusOK,
			Chunks:       chunks,
			ContentBytes: contentBytes,
			Duration:     time.Since(startTime),
		})
	}()

	// Unknown size (-1) triggers chunked transfer encoding in fasthttp.
	c.Context().Response.SetBodyStream(pr, -1)

	return nil
}

// aggregateResponse reads the whole upstream body and folds its events into
// one completion object.
func (g *Gateway) aggregateResponse(c *fiber.Ctx, resp *http.Response, id string, created int64, model, requestID string, startTime time.Time) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading upstream response: %w", err)
	}

	answer := transcodeAggregate(body, g.config.CompleteMode)

	g.pool.Enqueue(worker.Job{
		RequestID:    requestID,
		Model:        model,
		Streaming:    false,
		Status:       fiber.StatusOK,
		ContentBytes: len(answer),
		Duration:     time.Since(startTime),
	})

	return c.JSON(openai.NewChatCompletion(id, created, model, answer))
}

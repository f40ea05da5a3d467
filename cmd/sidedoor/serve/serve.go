// Package servecmder provides the serve command that runs the gateway.
package servecmder

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/sidedoor/gateway"
	"github.com/papercomputeco/sidedoor/pkg/config"
	"github.com/papercomputeco/sidedoor/pkg/logger"
)

type ServeCommander struct {
	listen       string
	secret       string
	upstream     string
	origin       string
	completeMode string
	models       string
	defaultModel string
	debug        bool

	cfg    *config.Config
	logger *zap.Logger
}

const serveLongDesc string = `Run the sidedoor gateway server.

The gateway exposes an OpenAI-compatible API (GET /v1/models,
POST /v1/chat/completions) and translates each request into the upstream
chat service's own protocol, transcoding the streamed reply back into
chat-completion chunks on the fly.

Configuration resolves with the usual precedence:
flags > SIDEDOOR_* environment variables > config.toml > defaults.`

const serveShortDesc string = "Run the sidedoor gateway server"

// serveFlagKeys lists which registry flags this command carries.
var serveFlagKeys = []string{
	config.FlagListen,
	config.FlagSecret,
	config.FlagUpstreamURL,
	config.FlagOrigin,
	config.FlagCompleteMode,
	config.FlagModels,
	config.FlagDefaultModel,
}

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.ServeFlags, serveFlagKeys)
			cmder.cfg = config.ConfigFromViper(v)

			return cmder.validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.ServeFlags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagSecret, &cmder.secret)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagUpstreamURL, &cmder.upstream)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagOrigin, &cmder.origin)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagCompleteMode, &cmder.completeMode)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagModels, &cmder.models)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagDefaultModel, &cmder.defaultModel)

	return cmd
}

// validate rejects configurations the gateway cannot serve with.
func (c *ServeCommander) validate() error {
	if c.cfg.Upstream.URL == "" {
		return errors.New("upstream.url must be configured (flag --upstream or SIDEDOOR_UPSTREAM_URL)")
	}
	if c.cfg.Auth.SharedSecret == "" {
		return errors.New("auth.shared_secret must be configured (flag --secret or SIDEDOOR_AUTH_SHARED_SECRET)")
	}
	if len(c.cfg.Models.IDs) == 0 {
		return errors.New("models.ids must list at least one model id")
	}

	switch mode := c.cfg.Upstream.CompleteMode; mode {
	case string(gateway.CompleteReplace), string(gateway.CompleteAppend):
	default:
		return fmt.Errorf("upstream.complete_mode must be %q or %q, got %q",
			gateway.CompleteReplace, gateway.CompleteAppend, mode)
	}

	return nil
}

func (c *ServeCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	origin := c.cfg.Upstream.Origin
	if origin == "" {
		origin = c.cfg.Upstream.URL
	}

	g, err := gateway.New(gateway.Config{
		ListenAddr:     c.cfg.Server.Listen,
		SharedSecret:   c.cfg.Auth.SharedSecret,
		UpstreamURL:    c.cfg.Upstream.URL,
		UpstreamOrigin: origin,
		Models:         c.cfg.Models.IDs,
		DefaultModel:   c.cfg.Models.Default,
		CompleteMode:   gateway.CompleteMode(c.cfg.Upstream.CompleteMode),
	}, c.logger)
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}
	defer g.Close()

	errChan := make(chan error, 1)
	go func() {
		if err := g.Run(); err != nil {
			errChan <- fmt.Errorf("gateway error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return nil
	}
}

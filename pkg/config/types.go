package config

import (
	"strings"
)

// Config represents the persistent sidedoor configuration stored as
// config.toml in the .sidedoor/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version  int            `toml:"version"`
	Server   ServerConfig   `toml:"server"`
	Auth     AuthConfig     `toml:"auth"`
	Upstream UpstreamConfig `toml:"upstream"`
	Models   ModelsConfig   `toml:"models"`
}

// ServerConfig holds gateway HTTP server settings.
type ServerConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// AuthConfig holds client authentication settings.
type AuthConfig struct {
	SharedSecret string `toml:"shared_secret,omitempty"`
}

// UpstreamConfig holds the upstream chat service settings.
type UpstreamConfig struct {
	URL          string `toml:"url,omitempty"`
	Origin       string `toml:"origin,omitempty"`
	CompleteMode string `toml:"complete_mode,omitempty"`
}

// ModelsConfig holds the advertised model catalog.
type ModelsConfig struct {
	IDs     []string `toml:"ids,omitempty"`
	Default string   `toml:"default,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"server.listen": {
		get: func(c *Config) string { return c.Server.Listen },
		set: func(c *Config, v string) error { c.Server.Listen = v; return nil },
	},
	"auth.shared_secret": {
		get: func(c *Config) string { return c.Auth.SharedSecret },
		set: func(c *Config, v string) error { c.Auth.SharedSecret = v; return nil },
	},
	"upstream.url": {
		get: func(c *Config) string { return c.Upstream.URL },
		set: func(c *Config, v string) error { c.Upstream.URL = v; return nil },
	},
	"upstream.origin": {
		get: func(c *Config) string { return c.Upstream.Origin },
		set: func(c *Config, v string) error { c.Upstream.Origin = v; return nil },
	},
	"upstream.complete_mode": {
		get: func(c *Config) string { return c.Upstream.CompleteMode },
		set: func(c *Config, v string) error { c.Upstream.CompleteMode = v; return nil },
	},
	// models.ids round-trips through a comma-separated string so it can be
	// set from the CLI like any scalar key.
	"models.ids": {
		get: func(c *Config) string { return strings.Join(c.Models.IDs, ",") },
		set: func(c *Config, v string) error { c.Models.IDs = SplitModelIDs(v); return nil },
	},
	"models.default": {
		get: func(c *Config) string { return c.Models.Default },
		set: func(c *Config, v string) error { c.Models.Default = v; return nil },
	},
}

// SplitModelIDs parses a comma-separated model id list, trimming whitespace
// and dropping empty entries.
func SplitModelIDs(s string) []string {
	parts := strings.Split(s, ",")

	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if id := strings.TrimSpace(p); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/sidedoor/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the SIDEDOOR_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (SIDEDOOR_SERVER_LISTEN, SIDEDOOR_UPSTREAM_URL, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: SIDEDOOR_AUTH_SHARED_SECRET, SIDEDOOR_MODELS_IDS, etc.
	v.SetEnvPrefix("SIDEDOOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Server
	v.SetDefault("server.listen", d.Server.Listen)

	// Auth
	v.SetDefault("auth.shared_secret", d.Auth.SharedSecret)

	// Upstream
	v.SetDefault("upstream.url", d.Upstream.URL)
	v.SetDefault("upstream.origin", d.Upstream.Origin)
	v.SetDefault("upstream.complete_mode", d.Upstream.CompleteMode)

	// Models
	v.SetDefault("models.ids", d.Models.IDs)
	v.SetDefault("models.default", d.Models.Default)
}

// ConfigFromViper materializes a Config from the resolved viper state.
// models.ids accepts either a TOML array or a comma-separated string so the
// same key works from config files, env vars, and flags.
func ConfigFromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Version: v.GetInt("version"),
		Server: ServerConfig{
			Listen: v.GetString("server.listen"),
		},
		Auth: AuthConfig{
			SharedSecret: v.GetString("auth.shared_secret"),
		},
		Upstream: UpstreamConfig{
			URL:          v.GetString("upstream.url"),
			Origin:       v.GetString("upstream.origin"),
			CompleteMode: v.GetString("upstream.complete_mode"),
		},
		Models: ModelsConfig{
			IDs:     modelIDsFromViper(v),
			Default: v.GetString("models.default"),
		},
	}

	applyDefaults(cfg)
	return cfg
}

func modelIDsFromViper(v *viper.Viper) []string {
	ids := v.GetStringSlice("models.ids")
	if len(ids) == 1 && strings.Contains(ids[0], ",") {
		return SplitModelIDs(ids[0])
	}

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

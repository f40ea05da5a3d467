package config

const (
	defaultListen       = ":8787"
	defaultCompleteMode = "replace"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values. Secrets and
// upstream targets have no defaults on purpose; the operator must set them.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			Listen: defaultListen,
		},
		Upstream: UpstreamConfig{
			CompleteMode: defaultCompleteMode,
		},
	}
}

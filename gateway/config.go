package gateway

// CompleteMode controls how a final complete event interacts with the
// tokens that preceded it when assembling an aggregate answer.
type CompleteMode string

const (
	// CompleteReplace discards accumulated tokens in favor of the complete
	// event's content. The upstream's complete payload restates the full
	// answer, so this is the default.
	CompleteReplace CompleteMode = "replace"

	// CompleteAppend treats the complete event's content as one more token.
	CompleteAppend CompleteMode = "append"
)

// Config is the gateway server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8787")
	ListenAddr string

	// SharedSecret is the bearer token clients must present.
	SharedSecret string

	// UpstreamURL is the upstream chat endpoint (e.g., "https://chat.example.com/api/chat")
	UpstreamURL string

	// UpstreamOrigin is the site origin presented in the browser persona
	// headers (e.g., "https://chat.example.com").
	UpstreamOrigin string

	// Models is the list of model ids advertised by GET /v1/models.
	Models []string

	// DefaultModel is used when a request names no model.
	// Defaults to the first entry of Models.
	DefaultModel string

	// CompleteMode selects replace or append semantics for complete events
	// in aggregate responses. Defaults to CompleteReplace.
	CompleteMode CompleteMode
}

package openai

// ErrorType is the fixed type tag of every error envelope.
const ErrorType = "api_error"

// Error codes surfaced in the envelope.
const (
	CodeUnauthorized  = "unauthorized"
	CodeInvalidAPIKey = "invalid_api_key"
	CodeNotFound      = "not_found"
	CodeUpstreamError = "upstream_error"
	CodeInternal      = "internal_server_error"
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the error message, type tag, and machine code.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

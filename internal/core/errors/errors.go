package errors

const (
	HttpInternalError            = "internal_error"
	HttpInvalidQueryError        = "invalid_query"
	HttpUpstreamUnavailableError = "upstream_unavailable"
	HttpStoreUnavailableError    = "store_unavailable"
)

// ErrorResponse is the error response body for every API error.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}

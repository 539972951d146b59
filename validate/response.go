package validate

import (
	"encoding/json"
	"net/http"
)

// MsgInternal is the generic message returned whenever internal detail must
// not leak to the client.
const MsgInternal = "Error interno del servidor"

// Response is a transport-level error response produced by the validation
// and middleware layers.
type Response struct {
	Status  int
	Message string
	Details map[string][]string
	Headers map[string]string

	// RetryAfterISO is set only on rate-limit responses and serialized as
	// the body's retryAfter field.
	RetryAfterISO string
}

type responseBody struct {
	Error      string              `json:"error"`
	Details    map[string][]string `json:"details,omitempty"`
	RetryAfter string              `json:"retryAfter,omitempty"`
}

// NewResponse builds an error response. A zero status defaults to 400.
func NewResponse(status int, message string, details map[string][]string) *Response {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return &Response{Status: status, Message: message, Details: details}
}

// Write serializes the response as JSON, including any attached headers.
func (r *Response) Write(w http.ResponseWriter) {
	for k, v := range r.Headers {
		w.Header().Set(k, v)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.Status)
	_ = json.NewEncoder(w).Encode(responseBody{
		Error:      r.Message,
		Details:    r.Details,
		RetryAfter: r.RetryAfterISO,
	})
}

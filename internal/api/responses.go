// Package api defines the shared HTTP response envelopes used by all handlers.
package api

// MessageResponse is the single-field envelope for message-only responses.
// Both success acknowledgements and failure bodies use the same shape.
type MessageResponse struct {
	Message string `json:"message"`
}

package api

// Envelope is the uniform wrapper of every backend response.
type Envelope[T any] struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      T      `json:"data,omitempty"`
	ErrorCode string `json:"errorCode,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// errorBody covers both the envelope and the exception-handler error shape
// that the backend may return on non-2xx responses.
type errorBody struct {
	Success     bool              `json:"success"`
	Message     string            `json:"message"`
	Error       string            `json:"error"`
	ErrorCode   string            `json:"errorCode"`
	FieldErrors map[string]string `json:"fieldErrors"`
}

package kusto

import "fmt"

// ErrorDetail is the engine's structured error payload. The service emits
// the message under "@message" or "message" depending on the endpoint
// generation.
type ErrorDetail struct {
	AtMessage string `json:"@message,omitempty"`
	Message   string `json:"message,omitempty"`
}

// ErrorData is the body of a non-2xx response.
type ErrorData struct {
	Error   *ErrorDetail `json:"error,omitempty"`
	Message string       `json:"message,omitempty"`
}

// HTTPError is an HTTP-shaped failure from the engine's REST surface.
type HTTPError struct {
	StatusCode int
	Data       ErrorData
}

func (e *HTTPError) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("engine returned %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("engine returned %d", e.StatusCode)
}

// Message returns the most specific message embedded in the payload,
// preferring error.@message, then error.message, then the top-level
// message. Returns "" when the payload carries none.
func (e *HTTPError) Message() string {
	if e.Data.Error != nil {
		if e.Data.Error.AtMessage != "" {
			return e.Data.Error.AtMessage
		}
		if e.Data.Error.Message != "" {
			return e.Data.Error.Message
		}
	}
	return e.Data.Message
}

// EngineError is a failure the engine reports inside an otherwise valid
// response body, optionally with a nested inner error.
type EngineError struct {
	Message string      `json:"message"`
	Inner   *InnerError `json:"innererror,omitempty"`
}

// InnerError carries the nested detail of an EngineError.
type InnerError struct {
	Message string `json:"message"`
}

func (e *EngineError) Error() string {
	if e.Inner != nil && e.Inner.Message != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Inner.Message)
	}
	return e.Message
}

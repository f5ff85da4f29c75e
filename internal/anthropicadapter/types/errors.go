package types

// Error is the Anthropic error object.
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ErrorResponse is the Anthropic error envelope: {"type":"error","error":{...}}.
// Status is the HTTP status used when the error is sent as a response.
type ErrorResponse struct {
	Type   string `json:"type"`
	Err    Error  `json:"error"`
	Status int    `json:"-"`
}

// Error implements the error interface.
func (e *ErrorResponse) Error() string {
	return e.Err.Message
}

// EventType implements StreamEvent so errors can be sent in-band.
func (e *ErrorResponse) EventType() string { return "error" }

package types

// SuccessBody is the message-plus-payload shape every 2xx response carries.
type SuccessBody map[string]any

// ErrorEnvelope is the uniform error body written at the HTTP boundary.
type ErrorEnvelope struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

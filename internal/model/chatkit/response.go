package chatkit

// Credential is returned to the browser widget on success. Both values are
// passed through exactly as the upstream produced them.
type Credential struct {
	ClientSecret any `json:"client_secret"`
	ExpiresAfter any `json:"expires_after"`
}

// ErrorResponse is the JSON error envelope of the gateway endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

package chatkit

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey means no upstream API key is configured.
	ErrMissingAPIKey = errors.New("chatkit api key is not configured")
	// ErrMissingClientSecret means the upstream answered 2xx without a credential.
	ErrMissingClientSecret = errors.New("upstream response is missing client_secret")
)

// UpstreamError is a non-success answer from the chat-session API.
type UpstreamError struct {
	Status  int
	Message string
	// Body is the decoded upstream payload, an empty object when unparsable.
	Body map[string]any
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("chatkit upstream returned %d: %s", e.Status, e.Message)
}

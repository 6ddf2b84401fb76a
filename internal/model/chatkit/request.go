package chatkit

import (
	"encoding/json"
	"strings"
)

// CreateSessionRequest is the browser-submitted body of POST /api/create-session.
// Every field is optional.
type CreateSessionRequest struct {
	Workflow             *WorkflowRef          `json:"workflow,omitempty"`
	WorkflowID           *string               `json:"workflowId,omitempty"`
	ChatKitConfiguration *ChatKitConfiguration `json:"chatkit_configuration,omitempty"`
}

// WorkflowRef names an upstream workflow.
type WorkflowRef struct {
	ID *string `json:"id,omitempty"`
}

// ChatKitConfiguration toggles widget features for the new session.
type ChatKitConfiguration struct {
	FileUpload *FileUpload `json:"file_upload,omitempty"`
}

// FileUpload controls attachment support.
type FileUpload struct {
	Enabled *bool `json:"enabled,omitempty"`
}

// ParseCreateSessionRequest decodes raw field by field. A field holding an
// unexpected JSON type counts as absent without discarding its siblings.
// Invalid JSON or a non-object body yields nil.
func ParseCreateSessionRequest(raw []byte) *CreateSessionRequest {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil
	}

	req := &CreateSessionRequest{}
	if workflow, ok := fields["workflow"].(map[string]any); ok {
		if id, ok := workflow["id"].(string); ok {
			req.Workflow = &WorkflowRef{ID: &id}
		}
	}
	if id, ok := fields["workflowId"].(string); ok {
		req.WorkflowID = &id
	}
	if configuration, ok := fields["chatkit_configuration"].(map[string]any); ok {
		if upload, ok := configuration["file_upload"].(map[string]any); ok {
			if enabled, ok := upload["enabled"].(bool); ok {
				req.ChatKitConfiguration = &ChatKitConfiguration{FileUpload: &FileUpload{Enabled: &enabled}}
			}
		}
	}
	return req
}

// ResolveWorkflowID applies the precedence workflow.id, workflowId, then
// fallback. Blank values count as absent, so a blank workflow.id falls
// through to workflowId instead of failing as a missing id.
func (r *CreateSessionRequest) ResolveWorkflowID(fallback string) string {
	if r != nil {
		if r.Workflow != nil && r.Workflow.ID != nil {
			if id := strings.TrimSpace(*r.Workflow.ID); id != "" {
				return id
			}
		}
		if r.WorkflowID != nil {
			if id := strings.TrimSpace(*r.WorkflowID); id != "" {
				return id
			}
		}
	}
	return strings.TrimSpace(fallback)
}

// FileUploadEnabled defaults to true when the caller says nothing.
func (r *CreateSessionRequest) FileUploadEnabled() bool {
	if r == nil || r.ChatKitConfiguration == nil || r.ChatKitConfiguration.FileUpload == nil {
		return true
	}
	if r.ChatKitConfiguration.FileUpload.Enabled == nil {
		return true
	}
	return *r.ChatKitConfiguration.FileUpload.Enabled
}

// SessionParams is what the gateway asks the upstream to create.
type SessionParams struct {
	UserID            string
	WorkflowID        string
	FileUploadEnabled bool
}

// UpstreamSessionRequest is the wire body sent to /v1/chatkit/sessions.
type UpstreamSessionRequest struct {
	User                 string                `json:"user"`
	Workflow             UpstreamWorkflow      `json:"workflow"`
	ChatKitConfiguration UpstreamConfiguration `json:"chatkit_configuration"`
}

// UpstreamWorkflow is the required workflow reference.
type UpstreamWorkflow struct {
	ID string `json:"id"`
}

// UpstreamConfiguration is the resolved widget configuration.
type UpstreamConfiguration struct {
	FileUpload UpstreamFileUpload `json:"file_upload"`
}

// UpstreamFileUpload is the resolved attachment toggle.
type UpstreamFileUpload struct {
	Enabled bool `json:"enabled"`
}

// NewUpstreamSessionRequest builds the wire body for params.
func NewUpstreamSessionRequest(params SessionParams) UpstreamSessionRequest {
	return UpstreamSessionRequest{
		User:     params.UserID,
		Workflow: UpstreamWorkflow{ID: params.WorkflowID},
		ChatKitConfiguration: UpstreamConfiguration{
			FileUpload: UpstreamFileUpload{Enabled: params.FileUploadEnabled},
		},
	}
}

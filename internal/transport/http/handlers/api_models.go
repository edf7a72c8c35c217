package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports liveness and service start time.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports per-dependency readiness.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// RoleSummary describes a role returned by the API.
type RoleSummary struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// RoleCreateRequest defines the payload for creating a role.
type RoleCreateRequest struct {
	Code            string   `json:"code" binding:"required"`
	Name            string   `json:"name" binding:"required"`
	SortOrder       int      `json:"sort_order"`
	PermissionCodes []string `json:"permission_codes"`
}

// PermissionPayload describes a permission returned by the API.
type PermissionPayload struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// PermissionCreateRequest defines the payload for creating a permission.
type PermissionCreateRequest struct {
	Code      string `json:"code" binding:"required"`
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// MyPermissionsResponse lists the caller's resolved permission codes.
type MyPermissionsResponse struct {
	SubjectID   string   `json:"subject_id"`
	Permissions []string `json:"permissions"`
}

// FileUploadResponse returns the opaque reference assigned to an upload.
type FileUploadResponse struct {
	FileRef string `json:"file_ref"`
	Name    string `json:"name"`
	Size    int64  `json:"size"`
}

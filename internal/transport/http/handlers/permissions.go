package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/db-y99/workhub-api/internal/core/domain"
	"github.com/db-y99/workhub-api/internal/transport/http/middleware"
	"github.com/db-y99/workhub-api/internal/usecase"
)

// PermissionHandler exposes the permission catalog and the caller's own grants.
type PermissionHandler struct {
	service *usecase.PermissionService
}

// NewPermissionHandler constructs a new handler instance.
func NewPermissionHandler(service *usecase.PermissionService) *PermissionHandler {
	return &PermissionHandler{service: service}
}

// List handles GET /permissions requests.
func (h *PermissionHandler) List(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "permission service unavailable"))
		return
	}

	permissions, err := h.service.ListPermissions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list permissions"))
		return
	}

	c.JSON(http.StatusOK, toPermissionPayloads(permissions))
}

// Create handles POST /permissions requests.
func (h *PermissionHandler) Create(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "permission service unavailable"))
		return
	}

	var req PermissionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	permission, err := h.service.CreatePermission(c.Request.Context(), usecase.CreatePermissionInput{
		Code:      req.Code,
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidPermissionCode, Status: http.StatusBadRequest, Message: "permission code must be page:action"},
			{Err: usecase.ErrBadRequest, Status: http.StatusBadRequest, Message: "invalid permission payload"},
			{Err: usecase.ErrPermissionExists, Status: http.StatusConflict, Message: "permission code already exists"},
		}, http.StatusInternalServerError, "failed to create permission")
		return
	}

	c.JSON(http.StatusCreated, PermissionPayload{
		ID:        permission.ID,
		Code:      permission.Code,
		Name:      permission.Name,
		SortOrder: permission.SortOrder,
	})
}

// Me handles GET /permissions/me requests. It reflects the codes the guard
// resolved for this request, so the client always sees a fresh snapshot.
func (h *PermissionHandler) Me(c *gin.Context) {
	subjectID, ok := middleware.GetSubjectID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	granted := middleware.GetGrantedCodes(c)
	if granted == nil {
		granted = []string{}
	}

	c.JSON(http.StatusOK, MyPermissionsResponse{
		SubjectID:   subjectID,
		Permissions: granted,
	})
}

func toPermissionPayloads(permissions []domain.Permission) []PermissionPayload {
	out := make([]PermissionPayload, 0, len(permissions))
	for _, permission := range permissions {
		out = append(out, PermissionPayload{
			ID:        permission.ID,
			Code:      permission.Code,
			Name:      permission.Name,
			SortOrder: permission.SortOrder,
		})
	}
	return out
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/db-y99/workhub-api/internal/core/domain"
	"github.com/db-y99/workhub-api/internal/transport/http/middleware"
	"github.com/db-y99/workhub-api/internal/usecase"
)

// RoleHandler exposes role management endpoints.
type RoleHandler struct {
	service *usecase.RoleService
}

// NewRoleHandler constructs a new handler instance.
func NewRoleHandler(service *usecase.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// List handles GET /roles requests.
func (h *RoleHandler) List(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "role service unavailable"))
		return
	}

	roles, err := h.service.ListRoles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list roles"))
		return
	}

	c.JSON(http.StatusOK, toRoleSummaries(roles))
}

// Create handles POST /roles requests.
func (h *RoleHandler) Create(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "role service unavailable"))
		return
	}

	var req RoleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	role, err := h.service.CreateRole(c.Request.Context(), usecase.CreateRoleInput{
		Code:            req.Code,
		Name:            req.Name,
		SortOrder:       req.SortOrder,
		PermissionCodes: req.PermissionCodes,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrBadRequest, Status: http.StatusBadRequest, Message: "invalid role payload"},
			{Err: usecase.ErrRoleExists, Status: http.StatusConflict, Message: "role code already exists"},
		}, http.StatusInternalServerError, "failed to create role")
		return
	}

	c.JSON(http.StatusCreated, RoleSummary{
		ID:        role.ID,
		Code:      role.Code,
		Name:      role.Name,
		SortOrder: role.SortOrder,
	})
}

// Delete handles DELETE /roles/:roleId requests.
func (h *RoleHandler) Delete(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "role service unavailable"))
		return
	}

	roleID := strings.TrimSpace(c.Param("roleId"))
	if roleID == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "roleId is required"))
		return
	}

	actorID, _ := middleware.GetSubjectID(c)

	if err := h.service.DeleteRole(c.Request.Context(), actorID, roleID); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrBadRequest, Status: http.StatusBadRequest, Message: "invalid role id"},
			{Err: usecase.ErrRecordNotFound, Status: http.StatusNotFound, Message: "role not found"},
			{Err: usecase.ErrRoleInUse, Status: http.StatusConflict, Message: "role is still assigned to profiles"},
		}, http.StatusInternalServerError, "failed to delete role")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListPermissions handles GET /roles/:roleId/permissions requests.
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "role service unavailable"))
		return
	}

	roleID := strings.TrimSpace(c.Param("roleId"))
	if roleID == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "roleId is required"))
		return
	}

	permissions, err := h.service.ListRolePermissions(c.Request.Context(), roleID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrBadRequest, Status: http.StatusBadRequest, Message: "invalid role id"},
			{Err: usecase.ErrRecordNotFound, Status: http.StatusNotFound, Message: "role not found"},
		}, http.StatusInternalServerError, "failed to list role permissions")
		return
	}

	c.JSON(http.StatusOK, toPermissionPayloads(permissions))
}

func toRoleSummaries(roles []domain.Role) []RoleSummary {
	out := make([]RoleSummary, 0, len(roles))
	for _, role := range roles {
		out = append(out, RoleSummary{
			ID:        role.ID,
			Code:      role.Code,
			Name:      role.Name,
			SortOrder: role.SortOrder,
		})
	}
	return out
}

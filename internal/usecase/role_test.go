package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/db-y99/workhub-api/internal/core/domain"
)

func TestCreateRoleAssignsPermissions(t *testing.T) {
	roles := &roleRepoMock{}
	permissions := &permissionRepoMock{byCode: map[string]domain.Permission{
		"bulletins:view":   {ID: "perm-1", Code: "bulletins:view"},
		"bulletins:create": {ID: "perm-2", Code: "bulletins:create"},
	}}

	service := NewRoleService(roles, permissions, &eventRecorderMock{})

	role, err := service.CreateRole(context.Background(), CreateRoleInput{
		Code:            "editor",
		Name:            "Editor",
		SortOrder:       5,
		PermissionCodes: []string{"bulletins:view", "bulletins:create"},
	})
	if err != nil {
		t.Fatalf("CreateRole returned error: %v", err)
	}
	if role.ID == "" || role.Code != "editor" {
		t.Fatalf("unexpected role: %+v", role)
	}
	if got := roles.assigned[role.ID]; len(got) != 2 {
		t.Fatalf("expected two assigned permissions, got %v", got)
	}
}

func TestCreateRoleRejectsDuplicateCode(t *testing.T) {
	roles := &roleRepoMock{byCode: map[string]domain.Role{
		"editor": {ID: "role-1", Code: "editor"},
	}}

	service := NewRoleService(roles, &permissionRepoMock{}, &eventRecorderMock{})

	_, err := service.CreateRole(context.Background(), CreateRoleInput{Code: "editor", Name: "Editor"})
	if !errors.Is(err, ErrRoleExists) {
		t.Fatalf("expected ErrRoleExists, got %v", err)
	}
}

func TestCreateRoleRejectsUnknownPermission(t *testing.T) {
	service := NewRoleService(&roleRepoMock{}, &permissionRepoMock{}, &eventRecorderMock{})

	_, err := service.CreateRole(context.Background(), CreateRoleInput{
		Code:            "editor",
		Name:            "Editor",
		PermissionCodes: []string{"nonexistent:view"},
	})
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestDeleteRoleRefusedWhileAssigned(t *testing.T) {
	roles := &roleRepoMock{
		byID:     map[string]domain.Role{"role-1": {ID: "role-1", Code: "editor"}},
		profiles: map[string]int{"role-1": 4},
	}

	service := NewRoleService(roles, &permissionRepoMock{}, &eventRecorderMock{})

	if err := service.DeleteRole(context.Background(), "actor-1", "role-1"); !errors.Is(err, ErrRoleInUse) {
		t.Fatalf("expected ErrRoleInUse, got %v", err)
	}
	if len(roles.deleted) != 0 {
		t.Fatal("role must not be deleted while assigned")
	}
}

func TestDeleteRolePublishesEvent(t *testing.T) {
	roles := &roleRepoMock{
		byID: map[string]domain.Role{"role-1": {ID: "role-1", Code: "editor"}},
	}
	events := &eventRecorderMock{}

	service := NewRoleService(roles, &permissionRepoMock{}, events)

	if err := service.DeleteRole(context.Background(), "actor-1", "role-1"); err != nil {
		t.Fatalf("DeleteRole returned error: %v", err)
	}
	if len(events.roleErased) != 1 || events.roleErased[0].RoleCode != "editor" || events.roleErased[0].DeletedBy != "actor-1" {
		t.Fatalf("expected role-deleted event, got %+v", events.roleErased)
	}
}

func TestDeleteRoleMissing(t *testing.T) {
	service := NewRoleService(&roleRepoMock{}, &permissionRepoMock{}, &eventRecorderMock{})

	if err := service.DeleteRole(context.Background(), "actor-1", "ghost"); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestListRolePermissionsUnknownRole(t *testing.T) {
	service := NewRoleService(&roleRepoMock{}, &permissionRepoMock{}, &eventRecorderMock{})

	if _, err := service.ListRolePermissions(context.Background(), "ghost"); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

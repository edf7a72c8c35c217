package usecase

import "errors"

var (
	// ErrUnauthenticated indicates the request carried no verifiable session.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates an authenticated subject lacks the required grant.
	ErrForbidden = errors.New("forbidden")
	// ErrRecordNotFound indicates the owning record is absent or soft-deleted.
	ErrRecordNotFound = errors.New("record not found")
	// ErrFileNotFound indicates the file reference resolves to no object.
	ErrFileNotFound = errors.New("file not found")
	// ErrBadRequest indicates the caller supplied malformed or missing parameters.
	ErrBadRequest = errors.New("bad request")
	// ErrDirectoryUnavailable indicates the profile or permission directory
	// could not be consulted; callers must treat this as a denial.
	ErrDirectoryUnavailable = errors.New("directory unavailable")
	// ErrUpstream indicates the blob store failed while serving a valid request.
	ErrUpstream = errors.New("upstream storage failure")
	// ErrFileTooLarge indicates the upload exceeds the configured ceiling.
	ErrFileTooLarge = errors.New("file exceeds upload ceiling")
	// ErrMissingStorageConfig indicates no destination folder is configured
	// for the requested upload category.
	ErrMissingStorageConfig = errors.New("storage folder not configured")
	// ErrPermissionDenied indicates the actor lacks the management grant for
	// the attempted administrative operation.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrRoleInUse indicates the role is still assigned to active profiles.
	ErrRoleInUse = errors.New("role is assigned to active profiles")
	// ErrRoleExists indicates a role with the provided code already exists.
	ErrRoleExists = errors.New("role already exists")
	// ErrPermissionExists indicates a permission with the provided code already exists.
	ErrPermissionExists = errors.New("permission already exists")
	// ErrInvalidPermissionCode indicates the code is not of the form "<page>:<action>".
	ErrInvalidPermissionCode = errors.New("invalid permission code")
)

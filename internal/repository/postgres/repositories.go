package postgres

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Profiles    *ProfileRepository
	Roles       *RoleRepository
	Permissions *PermissionRepository
	Bulletins   *BulletinRepository
	Requests    *RequestRepository
}

// NewRepositories wires all repositories backed by the provided database.
func NewRepositories(db DB) *Repositories {
	return &Repositories{
		Profiles:    NewProfileRepository(db),
		Roles:       NewRoleRepository(db),
		Permissions: NewPermissionRepository(db),
		Bulletins:   NewBulletinRepository(db),
		Requests:    NewRequestRepository(db),
	}
}

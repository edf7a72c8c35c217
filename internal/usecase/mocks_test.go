package usecase

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/db-y99/workhub-api/internal/core/domain"
	"github.com/db-y99/workhub-api/internal/core/port"
	"github.com/db-y99/workhub-api/internal/repository"
)

// Shared hand-rolled mocks for the usecase tests.

type profileRepoMock struct {
	profiles map[string]domain.Profile
	err      error
}

func (m *profileRepoMock) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	if profile, ok := m.profiles[id]; ok {
		return &profile, nil
	}
	return nil, repository.ErrNotFound
}

type permissionRepoMock struct {
	byCode    map[string]domain.Permission
	byRole    map[string][]domain.Permission
	createErr error
	listErr   error
	created   []domain.Permission
}

func (m *permissionRepoMock) Create(_ context.Context, permission domain.Permission) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.byCode == nil {
		m.byCode = make(map[string]domain.Permission)
	}
	m.byCode[permission.Code] = permission
	m.created = append(m.created, permission)
	return nil
}

func (m *permissionRepoMock) GetByCode(_ context.Context, code string) (*domain.Permission, error) {
	if permission, ok := m.byCode[code]; ok {
		return &permission, nil
	}
	return nil, repository.ErrNotFound
}

func (m *permissionRepoMock) List(_ context.Context) ([]domain.Permission, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]domain.Permission, 0, len(m.byCode))
	for _, permission := range m.byCode {
		result = append(result, permission)
	}
	return result, nil
}

func (m *permissionRepoMock) ListByRole(_ context.Context, roleID string) ([]domain.Permission, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.byRole[roleID], nil
}

type roleRepoMock struct {
	byID        map[string]domain.Role
	byCode      map[string]domain.Role
	profiles    map[string]int
	assigned    map[string][]string
	deleted     []string
	countErr    error
	softDelErr  error
	getByIDErr  error
	assignCalls int
}

func (m *roleRepoMock) List(_ context.Context) ([]domain.Role, error) {
	result := make([]domain.Role, 0, len(m.byID))
	for _, role := range m.byID {
		result = append(result, role)
	}
	return result, nil
}

func (m *roleRepoMock) GetByID(_ context.Context, id string) (*domain.Role, error) {
	if m.getByIDErr != nil {
		return nil, m.getByIDErr
	}
	if role, ok := m.byID[id]; ok {
		return &role, nil
	}
	return nil, repository.ErrNotFound
}

func (m *roleRepoMock) GetByCode(_ context.Context, code string) (*domain.Role, error) {
	if role, ok := m.byCode[code]; ok {
		return &role, nil
	}
	return nil, repository.ErrNotFound
}

func (m *roleRepoMock) Create(_ context.Context, role domain.Role) error {
	if m.byID == nil {
		m.byID = make(map[string]domain.Role)
	}
	if m.byCode == nil {
		m.byCode = make(map[string]domain.Role)
	}
	m.byID[role.ID] = role
	m.byCode[role.Code] = role
	return nil
}

func (m *roleRepoMock) SoftDelete(_ context.Context, id string, _ time.Time) error {
	if m.softDelErr != nil {
		return m.softDelErr
	}
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	m.deleted = append(m.deleted, id)
	delete(m.byID, id)
	return nil
}

func (m *roleRepoMock) CountProfiles(_ context.Context, roleID string) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.profiles[roleID], nil
}

func (m *roleRepoMock) AssignPermissions(_ context.Context, roleID string, permissionIDs []string) error {
	if m.assigned == nil {
		m.assigned = make(map[string][]string)
	}
	m.assigned[roleID] = append(m.assigned[roleID], permissionIDs...)
	m.assignCalls++
	return nil
}

type bulletinRepoMock struct {
	bulletins map[string]domain.Bulletin
	err       error
}

func (m *bulletinRepoMock) GetByID(_ context.Context, id string) (*domain.Bulletin, error) {
	if m.err != nil {
		return nil, m.err
	}
	if bulletin, ok := m.bulletins[id]; ok {
		return &bulletin, nil
	}
	return nil, repository.ErrNotFound
}

type requestRepoMock struct {
	requests map[string]domain.Request
	err      error
}

func (m *requestRepoMock) GetByID(_ context.Context, id string) (*domain.Request, error) {
	if m.err != nil {
		return nil, m.err
	}
	if request, ok := m.requests[id]; ok {
		return &request, nil
	}
	return nil, repository.ErrNotFound
}

type fileStoreMock struct {
	objects    map[string][]byte
	fetchErr   error
	uploadErr  error
	lastUpload port.UploadInput
}

func (m *fileStoreMock) Fetch(_ context.Context, ref string) (*port.StorageObject, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	data, ok := m.objects[ref]
	if !ok {
		return nil, port.ErrObjectNotFound
	}
	return &port.StorageObject{
		Body:        io.NopCloser(bytes.NewReader(data)),
		ContentType: "application/octet-stream",
		Size:        int64(len(data)),
	}, nil
}

func (m *fileStoreMock) Upload(_ context.Context, input port.UploadInput) (*port.StoredFile, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	m.lastUpload = input
	return &port.StoredFile{
		Ref:  input.Folder + "/stored-object",
		Name: input.Name,
		Size: int64(len(input.Data)),
	}, nil
}

type sessionVerifierMock struct {
	identities map[string]domain.Identity
	err        error
}

func (m *sessionVerifierMock) Verify(_ context.Context, token string) (*domain.Identity, error) {
	if m.err != nil {
		return nil, m.err
	}
	if identity, ok := m.identities[token]; ok {
		return &identity, nil
	}
	return nil, ErrUnauthenticated
}

type eventRecorderMock struct {
	downloaded []domain.FileDownloadedEvent
	denied     []domain.FileAccessDeniedEvent
	roleErased []domain.RoleDeletedEvent
}

func (m *eventRecorderMock) PublishFileDownloaded(_ context.Context, event domain.FileDownloadedEvent) error {
	m.downloaded = append(m.downloaded, event)
	return nil
}

func (m *eventRecorderMock) PublishFileAccessDenied(_ context.Context, event domain.FileAccessDeniedEvent) error {
	m.denied = append(m.denied, event)
	return nil
}

func (m *eventRecorderMock) PublishRoleDeleted(_ context.Context, event domain.RoleDeletedEvent) error {
	m.roleErased = append(m.roleErased, event)
	return nil
}

var (
	_ port.ProfileRepository    = (*profileRepoMock)(nil)
	_ port.PermissionRepository = (*permissionRepoMock)(nil)
	_ port.RoleRepository       = (*roleRepoMock)(nil)
	_ port.BulletinRepository   = (*bulletinRepoMock)(nil)
	_ port.RequestRepository    = (*requestRepoMock)(nil)
	_ port.FileStore            = (*fileStoreMock)(nil)
	_ port.SessionVerifier      = (*sessionVerifierMock)(nil)
	_ port.EventPublisher       = (*eventRecorderMock)(nil)
)

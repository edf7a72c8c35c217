package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/db-y99/workhub-api/internal/core/domain"
	"github.com/db-y99/workhub-api/internal/core/port"
	"github.com/db-y99/workhub-api/internal/repository"
	"github.com/db-y99/workhub-api/internal/transport/http/middleware"
	"github.com/db-y99/workhub-api/internal/usecase"
)

type stubProfileRepo struct {
	profiles map[string]domain.Profile
}

func (s *stubProfileRepo) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	if profile, ok := s.profiles[id]; ok {
		return &profile, nil
	}
	return nil, repository.ErrNotFound
}

type stubPermissionRepo struct{}

func (s *stubPermissionRepo) Create(context.Context, domain.Permission) error { return nil }
func (s *stubPermissionRepo) GetByCode(context.Context, string) (*domain.Permission, error) {
	return nil, repository.ErrNotFound
}
func (s *stubPermissionRepo) List(context.Context) ([]domain.Permission, error) { return nil, nil }
func (s *stubPermissionRepo) ListByRole(context.Context, string) ([]domain.Permission, error) {
	return nil, nil
}

type stubRoleRepo struct {
	byID map[string]domain.Role
}

func (s *stubRoleRepo) List(context.Context) ([]domain.Role, error) { return nil, nil }
func (s *stubRoleRepo) GetByID(_ context.Context, id string) (*domain.Role, error) {
	if role, ok := s.byID[id]; ok {
		return &role, nil
	}
	return nil, repository.ErrNotFound
}
func (s *stubRoleRepo) GetByCode(context.Context, string) (*domain.Role, error) {
	return nil, repository.ErrNotFound
}
func (s *stubRoleRepo) Create(context.Context, domain.Role) error { return nil }
func (s *stubRoleRepo) SoftDelete(context.Context, string, time.Time) error {
	return nil
}
func (s *stubRoleRepo) CountProfiles(context.Context, string) (int, error) { return 0, nil }
func (s *stubRoleRepo) AssignPermissions(context.Context, string, []string) error {
	return nil
}

type stubBulletinRepo struct {
	bulletins map[string]domain.Bulletin
}

func (s *stubBulletinRepo) GetByID(_ context.Context, id string) (*domain.Bulletin, error) {
	if bulletin, ok := s.bulletins[id]; ok {
		return &bulletin, nil
	}
	return nil, repository.ErrNotFound
}

type stubRequestRepo struct {
	requests map[string]domain.Request
}

func (s *stubRequestRepo) GetByID(_ context.Context, id string) (*domain.Request, error) {
	if request, ok := s.requests[id]; ok {
		return &request, nil
	}
	return nil, repository.ErrNotFound
}

type stubFileStore struct {
	objects    map[string]string
	lastUpload *port.UploadInput
}

func (s *stubFileStore) Fetch(_ context.Context, ref string) (*port.StorageObject, error) {
	body, ok := s.objects[ref]
	if !ok {
		return nil, port.ErrObjectNotFound
	}
	return &port.StorageObject{
		Body:        io.NopCloser(bytes.NewReader([]byte(body))),
		ContentType: "application/pdf",
		Size:        int64(len(body)),
	}, nil
}

func (s *stubFileStore) Upload(_ context.Context, input port.UploadInput) (*port.StoredFile, error) {
	s.lastUpload = &input
	return &port.StoredFile{Ref: input.Folder + "/generated-key", Name: input.Name, Size: int64(len(input.Data))}, nil
}

type stubEvents struct {
	downloaded int
	denied     int
}

func (s *stubEvents) PublishFileDownloaded(context.Context, domain.FileDownloadedEvent) error {
	s.downloaded++
	return nil
}
func (s *stubEvents) PublishFileAccessDenied(context.Context, domain.FileAccessDeniedEvent) error {
	s.denied++
	return nil
}
func (s *stubEvents) PublishRoleDeleted(context.Context, domain.RoleDeletedEvent) error { return nil }

var (
	_ port.ProfileRepository    = (*stubProfileRepo)(nil)
	_ port.PermissionRepository = (*stubPermissionRepo)(nil)
	_ port.RoleRepository       = (*stubRoleRepo)(nil)
	_ port.BulletinRepository   = (*stubBulletinRepo)(nil)
	_ port.RequestRepository    = (*stubRequestRepo)(nil)
	_ port.FileStore            = (*stubFileStore)(nil)
	_ port.EventPublisher       = (*stubEvents)(nil)
)

type fileFixture struct {
	handler *FileHandler
	store   *stubFileStore
	events  *stubEvents
}

func newFileFixture(maxUpload int64) *fileFixture {
	dept := "dept-1"
	profiles := &stubProfileRepo{profiles: map[string]domain.Profile{
		"subject-1": {ID: "subject-1", DepartmentID: &dept, Status: domain.ProfileActive},
	}}
	bulletins := &stubBulletinRepo{bulletins: map[string]domain.Bulletin{
		"bulletin-1": {
			ID:          "bulletin-1",
			Attachments: []domain.Attachment{{Name: "báo cáo.pdf", FileRef: "bulletins/abc.pdf"}},
		},
	}}
	requests := &stubRequestRepo{requests: map[string]domain.Request{
		"request-1": {
			ID:           "request-1",
			RequestedBy:  "author-1",
			DepartmentID: "dept-9",
			Attachments:  []domain.Attachment{{Name: "form.pdf", FileRef: "requests/form.pdf"}},
		},
	}}
	store := &stubFileStore{objects: map[string]string{
		"bulletins/abc.pdf": "pdf-bytes",
		"requests/form.pdf": "form-bytes",
	}}
	events := &stubEvents{}

	resolver := usecase.NewPermissionResolver(profiles, &stubPermissionRepo{})
	ownership := usecase.NewOwnershipPolicy(resolver, &stubRoleRepo{})
	proxy := usecase.NewFileProxyService(bulletins, requests, ownership, store, events, usecase.FileProxyConfig{
		MaxUploadBytes: maxUpload,
		BulletinFolder: "bulletins",
		RequestFolder:  "requests",
	})

	return &fileFixture{handler: NewFileHandler(proxy), store: store, events: events}
}

func newFileRouter(fx *fileFixture, subjectID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if subjectID != "" {
			c.Set(middleware.SubjectIDKey, subjectID)
		}
	})
	router.GET("/files", fx.handler.Download)
	router.POST("/files", fx.handler.Upload)
	return router
}

func TestFileDownloadStreamsManifestEntry(t *testing.T) {
	fx := newFileFixture(1 << 20)
	router := newFileRouter(fx, "subject-1")

	req := httptest.NewRequest(http.MethodGet, "/files?fileId=bulletins%2Fabc.pdf&bulletinId=bulletin-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != "pdf-bytes" {
		t.Fatalf("unexpected body: %q", got)
	}
	disposition := rec.Header().Get("Content-Disposition")
	if disposition != "attachment; filename*=UTF-8''b%C3%A1o%20c%C3%A1o.pdf" {
		t.Fatalf("unexpected disposition: %q", disposition)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "private, no-cache" {
		t.Fatalf("unexpected cache-control: %q", cc)
	}
	if fx.events.downloaded != 1 {
		t.Fatalf("expected one download event, got %d", fx.events.downloaded)
	}
}

func TestAttachmentDispositionEscapesNonAttrChars(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"report.pdf", "attachment; filename*=UTF-8''report.pdf"},
		{"báo cáo.pdf", "attachment; filename*=UTF-8''b%C3%A1o%20c%C3%A1o.pdf"},
		{"a=b:c@d.pdf", "attachment; filename*=UTF-8''a%3Db%3Ac%40d.pdf"},
		{"notes (v2).txt", "attachment; filename*=UTF-8''notes%20%28v2%29.txt"},
	}
	for _, tc := range cases {
		if got := attachmentDisposition(tc.name); got != tc.want {
			t.Errorf("attachmentDisposition(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestFileDownloadRejectsAmbiguousScope(t *testing.T) {
	fx := newFileFixture(1 << 20)
	router := newFileRouter(fx, "subject-1")

	req := httptest.NewRequest(http.MethodGet, "/files?fileId=x&bulletinId=b&requestId=r", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestFileDownloadMissingRecordUsesVietnameseMessage(t *testing.T) {
	fx := newFileFixture(1 << 20)
	router := newFileRouter(fx, "subject-1")

	req := httptest.NewRequest(http.MethodGet, "/files?fileId=x&bulletinId=missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "không tìm thấy bảng tin" {
		t.Fatalf("unexpected message: %q", resp.Error)
	}
}

func TestFileDownloadForeignReferenceIsNotFound(t *testing.T) {
	fx := newFileFixture(1 << 20)
	router := newFileRouter(fx, "subject-1")

	// The object exists in the store but is not in bulletin-1's manifest.
	req := httptest.NewRequest(http.MethodGet, "/files?fileId=requests%2Fform.pdf&bulletinId=bulletin-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "không tìm thấy file" {
		t.Fatalf("unexpected message: %q", resp.Error)
	}
}

func TestFileDownloadDeniedForForeignDepartment(t *testing.T) {
	fx := newFileFixture(1 << 20)
	router := newFileRouter(fx, "subject-1")

	// subject-1 sits in dept-1; request-1 belongs to dept-9 and another author.
	req := httptest.NewRequest(http.MethodGet, "/files?fileId=requests%2Fform.pdf&requestId=request-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if fx.events.denied != 1 {
		t.Fatalf("expected one denial event, got %d", fx.events.denied)
	}
}

func TestFileDownloadRequiresSubject(t *testing.T) {
	fx := newFileFixture(1 << 20)
	router := newFileRouter(fx, "")

	req := httptest.NewRequest(http.MethodGet, "/files?fileId=x&bulletinId=bulletin-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func multipartUpload(t *testing.T, category, filename string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("category", category); err != nil {
		t.Fatalf("write category: %v", err)
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestFileUploadStoresUnderCategoryFolder(t *testing.T) {
	fx := newFileFixture(1 << 20)
	router := newFileRouter(fx, "subject-1")

	body, contentType := multipartUpload(t, "request", "notes.txt", []byte("hello"))
	req := httptest.NewRequest(http.MethodPost, "/files", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if fx.store.lastUpload == nil || fx.store.lastUpload.Folder != "requests" {
		t.Fatalf("expected upload into requests folder, got %+v", fx.store.lastUpload)
	}
	var resp FileUploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.FileRef == "" || resp.Size != 5 {
		t.Fatalf("unexpected upload response: %+v", resp)
	}
}

func TestFileUploadRejectsUnknownCategory(t *testing.T) {
	fx := newFileFixture(1 << 20)
	router := newFileRouter(fx, "subject-1")

	body, contentType := multipartUpload(t, "invoice", "notes.txt", []byte("hello"))
	req := httptest.NewRequest(http.MethodPost, "/files", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestFileUploadEnforcesCeilingBeforeStorage(t *testing.T) {
	fx := newFileFixture(8)
	router := newFileRouter(fx, "subject-1")

	body, contentType := multipartUpload(t, "bulletin", "big.bin", bytes.Repeat([]byte("a"), 9))
	req := httptest.NewRequest(http.MethodPost, "/files", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if fx.store.lastUpload != nil {
		t.Fatal("oversized upload must never reach the store")
	}
}

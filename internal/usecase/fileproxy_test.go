package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/db-y99/workhub-api/internal/core/domain"
)

func newTestProxy(bulletins *bulletinRepoMock, requests *requestRepoMock, profiles *profileRepoMock, store *fileStoreMock, events *eventRecorderMock) *FileProxyService {
	resolver := NewPermissionResolver(profiles, &permissionRepoMock{})
	ownership := NewOwnershipPolicy(resolver, &roleRepoMock{})
	return NewFileProxyService(bulletins, requests, ownership, store, events, FileProxyConfig{
		MaxUploadBytes: 64,
		BulletinFolder: "bulletins",
		RequestFolder:  "requests",
	})
}

func TestFetchAttachmentStreamsManifestEntry(t *testing.T) {
	bulletins := &bulletinRepoMock{bulletins: map[string]domain.Bulletin{
		"bulletin-1": {
			ID: "bulletin-1",
			Attachments: []domain.Attachment{
				{Name: "báo cáo.pdf", FileRef: "bulletins/abc"},
			},
		},
	}}
	profiles := &profileRepoMock{profiles: map[string]domain.Profile{
		"subject-1": {ID: "subject-1", Status: domain.ProfileActive},
	}}
	store := &fileStoreMock{objects: map[string][]byte{
		"bulletins/abc": []byte("pdf-bytes"),
	}}
	events := &eventRecorderMock{}

	proxy := newTestProxy(bulletins, &requestRepoMock{}, profiles, store, events)

	object, err := proxy.FetchAttachment(context.Background(), "subject-1", domain.RecordBulletin, "bulletin-1", "bulletins/abc")
	if err != nil {
		t.Fatalf("FetchAttachment returned error: %v", err)
	}
	defer object.Body.Close()

	if object.Name != "báo cáo.pdf" {
		t.Fatalf("expected manifest name, got %q", object.Name)
	}
	data, err := io.ReadAll(object.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !bytes.Equal(data, []byte("pdf-bytes")) {
		t.Fatalf("unexpected body: %q", data)
	}
	if len(events.downloaded) != 1 || events.downloaded[0].RecordID != "bulletin-1" {
		t.Fatalf("expected one download event, got %+v", events.downloaded)
	}
}

func TestFetchAttachmentRejectsForeignReference(t *testing.T) {
	// The reference exists in storage but not in this record's manifest.
	bulletins := &bulletinRepoMock{bulletins: map[string]domain.Bulletin{
		"bulletin-1": {
			ID:          "bulletin-1",
			Attachments: []domain.Attachment{{Name: "a.txt", FileRef: "bulletins/abc"}},
		},
	}}
	profiles := &profileRepoMock{profiles: map[string]domain.Profile{
		"subject-1": {ID: "subject-1", Status: domain.ProfileActive},
	}}
	store := &fileStoreMock{objects: map[string][]byte{
		"bulletins/abc":   []byte("mine"),
		"bulletins/other": []byte("not mine"),
	}}

	proxy := newTestProxy(bulletins, &requestRepoMock{}, profiles, store, &eventRecorderMock{})

	_, err := proxy.FetchAttachment(context.Background(), "subject-1", domain.RecordBulletin, "bulletin-1", "bulletins/other")
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound for foreign reference, got %v", err)
	}
}

func TestFetchAttachmentSoftDeletedRecordIsNotFound(t *testing.T) {
	proxy := newTestProxy(&bulletinRepoMock{}, &requestRepoMock{}, &profileRepoMock{}, &fileStoreMock{}, &eventRecorderMock{})

	_, err := proxy.FetchAttachment(context.Background(), "subject-1", domain.RecordBulletin, "gone", "bulletins/abc")
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestFetchAttachmentDeniedPublishesAudit(t *testing.T) {
	requests := &requestRepoMock{requests: map[string]domain.Request{
		"request-1": {
			ID:           "request-1",
			RequestedBy:  "author",
			DepartmentID: "dept-a",
			Attachments:  []domain.Attachment{{Name: "x.txt", FileRef: "requests/x"}},
		},
	}}
	profiles := &profileRepoMock{profiles: map[string]domain.Profile{
		"stranger": {ID: "stranger", DepartmentID: strPtr("dept-b"), Status: domain.ProfileActive},
	}}
	events := &eventRecorderMock{}

	proxy := newTestProxy(&bulletinRepoMock{}, requests, profiles, &fileStoreMock{}, events)

	_, err := proxy.FetchAttachment(context.Background(), "stranger", domain.RecordRequest, "request-1", "requests/x")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(events.denied) != 1 || events.denied[0].SubjectID != "stranger" {
		t.Fatalf("expected one denial event, got %+v", events.denied)
	}
}

func TestFetchAttachmentAuthorWithoutProfileForbidden(t *testing.T) {
	requests := &requestRepoMock{requests: map[string]domain.Request{
		"request-1": {
			ID:           "request-1",
			RequestedBy:  "author",
			DepartmentID: "dept-a",
			Attachments:  []domain.Attachment{{Name: "x.txt", FileRef: "requests/x"}},
		},
	}}
	store := &fileStoreMock{objects: map[string][]byte{
		"requests/x": []byte("bytes"),
	}}

	// The subject authored the request but has no profile row.
	proxy := newTestProxy(&bulletinRepoMock{}, requests, &profileRepoMock{}, store, &eventRecorderMock{})

	if _, err := proxy.FetchAttachment(context.Background(), "author", domain.RecordRequest, "request-1", "requests/x"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for profile-less author, got %v", err)
	}
}

func TestFetchAttachmentMissingObjectIsNotFound(t *testing.T) {
	bulletins := &bulletinRepoMock{bulletins: map[string]domain.Bulletin{
		"bulletin-1": {
			ID:          "bulletin-1",
			Attachments: []domain.Attachment{{Name: "a.txt", FileRef: "bulletins/lost"}},
		},
	}}
	profiles := &profileRepoMock{profiles: map[string]domain.Profile{
		"subject-1": {ID: "subject-1", Status: domain.ProfileActive},
	}}

	proxy := newTestProxy(bulletins, &requestRepoMock{}, profiles, &fileStoreMock{}, &eventRecorderMock{})

	_, err := proxy.FetchAttachment(context.Background(), "subject-1", domain.RecordBulletin, "bulletin-1", "bulletins/lost")
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound for missing object, got %v", err)
	}
}

func TestFetchAttachmentUpstreamFailure(t *testing.T) {
	bulletins := &bulletinRepoMock{bulletins: map[string]domain.Bulletin{
		"bulletin-1": {
			ID:          "bulletin-1",
			Attachments: []domain.Attachment{{Name: "a.txt", FileRef: "bulletins/abc"}},
		},
	}}
	profiles := &profileRepoMock{profiles: map[string]domain.Profile{
		"subject-1": {ID: "subject-1", Status: domain.ProfileActive},
	}}
	store := &fileStoreMock{fetchErr: errors.New("503 from backend")}

	proxy := newTestProxy(bulletins, &requestRepoMock{}, profiles, store, &eventRecorderMock{})

	_, err := proxy.FetchAttachment(context.Background(), "subject-1", domain.RecordBulletin, "bulletin-1", "bulletins/abc")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestFetchAttachmentValidatesParameters(t *testing.T) {
	proxy := newTestProxy(&bulletinRepoMock{}, &requestRepoMock{}, &profileRepoMock{}, &fileStoreMock{}, &eventRecorderMock{})

	if _, err := proxy.FetchAttachment(context.Background(), "subject-1", domain.RecordBulletin, "", "ref"); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest for empty record id, got %v", err)
	}
	if _, err := proxy.FetchAttachment(context.Background(), "subject-1", domain.RecordBulletin, "bulletin-1", " "); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest for blank file id, got %v", err)
	}
}

func TestUploadAttachmentEnforcesCeiling(t *testing.T) {
	store := &fileStoreMock{}
	proxy := newTestProxy(&bulletinRepoMock{}, &requestRepoMock{}, &profileRepoMock{}, store, &eventRecorderMock{})

	oversized := make([]byte, 65)
	_, err := proxy.UploadAttachment(context.Background(), "subject-1", UploadAttachmentInput{
		Kind: domain.RecordBulletin,
		Name: "big.bin",
		Data: oversized,
	})
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
	if store.lastUpload.Name != "" {
		t.Fatal("oversized upload must not reach the store")
	}

	atCeiling := make([]byte, 64)
	if _, err := proxy.UploadAttachment(context.Background(), "subject-1", UploadAttachmentInput{
		Kind: domain.RecordBulletin,
		Name: "exact.bin",
		Data: atCeiling,
	}); err != nil {
		t.Fatalf("upload at the ceiling should succeed, got %v", err)
	}
}

func TestUploadAttachmentRoutesToCategoryFolder(t *testing.T) {
	store := &fileStoreMock{}
	proxy := newTestProxy(&bulletinRepoMock{}, &requestRepoMock{}, &profileRepoMock{}, store, &eventRecorderMock{})

	stored, err := proxy.UploadAttachment(context.Background(), "subject-1", UploadAttachmentInput{
		Kind:        domain.RecordRequest,
		Name:        "form.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        []byte("cells"),
	})
	if err != nil {
		t.Fatalf("UploadAttachment returned error: %v", err)
	}
	if store.lastUpload.Folder != "requests" {
		t.Fatalf("expected requests folder, got %q", store.lastUpload.Folder)
	}
	if stored.Ref == "" || stored.Name != "form.xlsx" {
		t.Fatalf("unexpected stored file: %+v", stored)
	}
}

func TestUploadAttachmentMissingFolderConfig(t *testing.T) {
	resolver := NewPermissionResolver(&profileRepoMock{}, &permissionRepoMock{})
	ownership := NewOwnershipPolicy(resolver, &roleRepoMock{})
	proxy := NewFileProxyService(&bulletinRepoMock{}, &requestRepoMock{}, ownership, &fileStoreMock{}, &eventRecorderMock{}, FileProxyConfig{
		MaxUploadBytes: 64,
	})

	_, err := proxy.UploadAttachment(context.Background(), "subject-1", UploadAttachmentInput{
		Kind: domain.RecordBulletin,
		Name: "a.txt",
		Data: []byte("x"),
	})
	if !errors.Is(err, ErrMissingStorageConfig) {
		t.Fatalf("expected ErrMissingStorageConfig, got %v", err)
	}
}

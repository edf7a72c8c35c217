package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/db-y99/workhub-api/internal/core/domain"
	"github.com/db-y99/workhub-api/internal/core/port"
	"github.com/db-y99/workhub-api/internal/repository"
)

// DefaultMaxUploadBytes is the upload ceiling applied when none is configured.
const DefaultMaxUploadBytes = 10 << 20

// FileProxyConfig tunes the proxy's upload ceiling and destination folders.
type FileProxyConfig struct {
	MaxUploadBytes int64
	BulletinFolder string
	RequestFolder  string
}

// UploadAttachmentInput carries a fully buffered upload and its metadata.
type UploadAttachmentInput struct {
	Kind        domain.RecordKind
	Name        string
	ContentType string
	Data        []byte
}

// FileProxyService mediates every attachment read and write. Clients never
// see blob-store locations; they exchange record-scoped file references for
// bytes through this service, which re-checks ownership on each call.
type FileProxyService struct {
	bulletins port.BulletinRepository
	requests  port.RequestRepository
	ownership *OwnershipPolicy
	store     port.FileStore
	events    port.EventPublisher
	cfg       FileProxyConfig
}

// NewFileProxyService constructs a FileProxyService.
func NewFileProxyService(
	bulletins port.BulletinRepository,
	requests port.RequestRepository,
	ownership *OwnershipPolicy,
	store port.FileStore,
	events port.EventPublisher,
	cfg FileProxyConfig,
) *FileProxyService {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &FileProxyService{
		bulletins: bulletins,
		requests:  requests,
		ownership: ownership,
		store:     store,
		events:    events,
		cfg:       cfg,
	}
}

// MaxUploadBytes exposes the effective ceiling so transports can reject
// oversized requests before buffering them.
func (s *FileProxyService) MaxUploadBytes() int64 {
	return s.cfg.MaxUploadBytes
}

// FetchAttachment resolves a file reference scoped to its owning record and
// streams the object back. The reference must appear in the record's
// attachment manifest; holding a reference alone grants nothing. The caller
// owns the returned body and must close it.
func (s *FileProxyService) FetchAttachment(ctx context.Context, subjectID string, kind domain.RecordKind, recordID, fileRef string) (*port.StorageObject, error) {
	if strings.TrimSpace(recordID) == "" || strings.TrimSpace(fileRef) == "" {
		return nil, fmt.Errorf("%w: record id and file id are required", ErrBadRequest)
	}

	attachments, err := s.loadAttachments(ctx, subjectID, kind, recordID)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			s.publishDenied(ctx, subjectID, kind, recordID, fileRef, "ownership")
		}
		return nil, err
	}

	attachment, ok := domain.FindAttachment(attachments, fileRef)
	if !ok {
		return nil, fmt.Errorf("%w: reference not in record manifest", ErrFileNotFound)
	}

	object, err := s.store.Fetch(ctx, attachment.FileRef)
	if err != nil {
		if errors.Is(err, port.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: object missing in store", ErrFileNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	// The manifest name is authoritative for what the client sees.
	object.Name = attachment.Name

	event := domain.FileDownloadedEvent{
		EventID:    uuid.NewString(),
		SubjectID:  subjectID,
		FileRef:    attachment.FileRef,
		RecordKind: kind,
		RecordID:   recordID,
		FileName:   attachment.Name,
		OccurredAt: time.Now().UTC(),
	}
	// Audit delivery is best effort; the download proceeds regardless.
	_ = s.events.PublishFileDownloaded(ctx, event)

	return object, nil
}

// UploadAttachment stores a new object under the category's folder and
// returns its opaque reference for inclusion in a record manifest. The size
// ceiling is enforced before any storage traffic.
func (s *FileProxyService) UploadAttachment(ctx context.Context, subjectID string, input UploadAttachmentInput) (*port.StoredFile, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: file name is required", ErrBadRequest)
	}

	if int64(len(input.Data)) > s.cfg.MaxUploadBytes {
		return nil, ErrFileTooLarge
	}

	folder, err := s.folderFor(input.Kind)
	if err != nil {
		return nil, err
	}

	stored, err := s.store.Upload(ctx, port.UploadInput{
		Folder:      folder,
		Name:        name,
		ContentType: input.ContentType,
		Data:        input.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return stored, nil
}

func (s *FileProxyService) folderFor(kind domain.RecordKind) (string, error) {
	switch kind {
	case domain.RecordBulletin:
		if s.cfg.BulletinFolder == "" {
			return "", ErrMissingStorageConfig
		}
		return s.cfg.BulletinFolder, nil
	case domain.RecordRequest:
		if s.cfg.RequestFolder == "" {
			return "", ErrMissingStorageConfig
		}
		return s.cfg.RequestFolder, nil
	default:
		return "", fmt.Errorf("%w: unknown record kind %q", ErrBadRequest, kind)
	}
}

func (s *FileProxyService) loadAttachments(ctx context.Context, subjectID string, kind domain.RecordKind, recordID string) ([]domain.Attachment, error) {
	switch kind {
	case domain.RecordBulletin:
		bulletin, err := s.bulletins.GetByID(ctx, recordID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrRecordNotFound
			}
			return nil, fmt.Errorf("load bulletin: %w", err)
		}
		allowed, err := s.ownership.CanReadBulletin(ctx, subjectID, bulletin)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, ErrForbidden
		}
		return bulletin.Attachments, nil
	case domain.RecordRequest:
		request, err := s.requests.GetByID(ctx, recordID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrRecordNotFound
			}
			return nil, fmt.Errorf("load request: %w", err)
		}
		allowed, err := s.ownership.CanReadRequest(ctx, subjectID, request)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, ErrForbidden
		}
		return request.Attachments, nil
	default:
		return nil, fmt.Errorf("%w: unknown record kind %q", ErrBadRequest, kind)
	}
}

func (s *FileProxyService) publishDenied(ctx context.Context, subjectID string, kind domain.RecordKind, recordID, fileRef, reason string) {
	event := domain.FileAccessDeniedEvent{
		EventID:    uuid.NewString(),
		SubjectID:  subjectID,
		FileRef:    fileRef,
		RecordKind: kind,
		RecordID:   recordID,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}
	_ = s.events.PublishFileAccessDenied(ctx, event)
}

package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/db-y99/workhub-api/internal/core/domain"
	"github.com/db-y99/workhub-api/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, subjectID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("subject_id", subjectID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishFileDownloaded logs workhub.file.downloaded events.
func (p *StubPublisher) PublishFileDownloaded(_ context.Context, event domain.FileDownloadedEvent) error {
	payload := map[string]any{
		"file_ref":    event.FileRef,
		"record_kind": event.RecordKind,
		"record_id":   event.RecordID,
		"file_name":   event.FileName,
	}
	p.logEvent("workhub.file.downloaded", event.SubjectID, event.OccurredAt, payload)
	return nil
}

// PublishFileAccessDenied logs workhub.file.access_denied events.
func (p *StubPublisher) PublishFileAccessDenied(_ context.Context, event domain.FileAccessDeniedEvent) error {
	payload := map[string]any{
		"file_ref":    event.FileRef,
		"record_kind": event.RecordKind,
		"record_id":   event.RecordID,
		"reason":      event.Reason,
	}
	p.logEvent("workhub.file.access_denied", event.SubjectID, event.OccurredAt, payload)
	return nil
}

// PublishRoleDeleted logs workhub.role.deleted events.
func (p *StubPublisher) PublishRoleDeleted(_ context.Context, event domain.RoleDeletedEvent) error {
	payload := map[string]any{
		"role_id":   event.RoleID,
		"role_code": event.RoleCode,
	}
	p.logEvent("workhub.role.deleted", event.DeletedBy, event.OccurredAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)

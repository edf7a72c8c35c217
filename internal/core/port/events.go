package port

import (
	"context"

	"github.com/db-y99/workhub-api/internal/core/domain"
)

// EventPublisher emits audit events for access-sensitive operations.
type EventPublisher interface {
	PublishFileDownloaded(ctx context.Context, event domain.FileDownloadedEvent) error
	PublishFileAccessDenied(ctx context.Context, event domain.FileAccessDeniedEvent) error
	PublishRoleDeleted(ctx context.Context, event domain.RoleDeletedEvent) error
}

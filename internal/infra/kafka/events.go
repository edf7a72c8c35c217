package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/db-y99/workhub-api/internal/core/domain"
	"github.com/db-y99/workhub-api/internal/core/port"
	"github.com/db-y99/workhub-api/internal/infra/config"
	"github.com/db-y99/workhub-api/internal/infra/logger"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, log *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: log}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	SubjectID string           `json:"subject_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, subjectID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if requestID, ok := ctx.Value(logger.RequestIDKey{}).(string); ok && requestID != "" {
		metadata["request_id"] = requestID
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		SubjectID: subjectID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishFileDownloaded publishes workhub.file.downloaded events.
func (p *EventPublisher) PublishFileDownloaded(ctx context.Context, event domain.FileDownloadedEvent) error {
	payload := struct {
		SubjectID  string    `json:"subject_id"`
		FileRef    string    `json:"file_ref"`
		RecordKind string    `json:"record_kind"`
		RecordID   string    `json:"record_id"`
		FileName   string    `json:"file_name"`
		OccurredAt time.Time `json:"occurred_at"`
	}{
		SubjectID:  event.SubjectID,
		FileRef:    event.FileRef,
		RecordKind: string(event.RecordKind),
		RecordID:   event.RecordID,
		FileName:   event.FileName,
		OccurredAt: event.OccurredAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "workhub.file.downloaded", event.SubjectID, event.OccurredAt, payload)
}

// PublishFileAccessDenied publishes workhub.file.access_denied events.
func (p *EventPublisher) PublishFileAccessDenied(ctx context.Context, event domain.FileAccessDeniedEvent) error {
	payload := struct {
		SubjectID  string    `json:"subject_id"`
		FileRef    string    `json:"file_ref"`
		RecordKind string    `json:"record_kind"`
		RecordID   string    `json:"record_id"`
		Reason     string    `json:"reason"`
		OccurredAt time.Time `json:"occurred_at"`
	}{
		SubjectID:  event.SubjectID,
		FileRef:    event.FileRef,
		RecordKind: string(event.RecordKind),
		RecordID:   event.RecordID,
		Reason:     event.Reason,
		OccurredAt: event.OccurredAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "workhub.file.access_denied", event.SubjectID, event.OccurredAt, payload)
}

// PublishRoleDeleted publishes workhub.role.deleted events.
func (p *EventPublisher) PublishRoleDeleted(ctx context.Context, event domain.RoleDeletedEvent) error {
	payload := struct {
		RoleID     string    `json:"role_id"`
		RoleCode   string    `json:"role_code"`
		DeletedBy  string    `json:"deleted_by"`
		OccurredAt time.Time `json:"occurred_at"`
	}{
		RoleID:     event.RoleID,
		RoleCode:   event.RoleCode,
		DeletedBy:  event.DeletedBy,
		OccurredAt: event.OccurredAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "workhub.role.deleted", event.DeletedBy, event.OccurredAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)

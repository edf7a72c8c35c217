package domain

import "time"

// FileDownloadedEvent records a successful attachment fetch through the proxy.
type FileDownloadedEvent struct {
	EventID    string
	SubjectID  string
	FileRef    string
	RecordKind RecordKind
	RecordID   string
	FileName   string
	OccurredAt time.Time
}

// FileAccessDeniedEvent records an attachment fetch rejected by the ownership
// policy or a missing profile.
type FileAccessDeniedEvent struct {
	EventID    string
	SubjectID  string
	FileRef    string
	RecordKind RecordKind
	RecordID   string
	Reason     string
	OccurredAt time.Time
}

// RoleDeletedEvent records the soft deletion of a role.
type RoleDeletedEvent struct {
	EventID    string
	RoleID     string
	RoleCode   string
	DeletedBy  string
	OccurredAt time.Time
}

package domain

import "time"

// RecordKind distinguishes the two owning-record types for attachments.
type RecordKind string

const (
	RecordBulletin RecordKind = "bulletin"
	RecordRequest  RecordKind = "request"
)

// Attachment pairs a display name with an opaque storage reference. The
// reference is meaningful only to the file proxy and the blob store; it is
// never a dereferenceable URL.
type Attachment struct {
	Name    string `json:"name"`
	FileRef string `json:"file_ref"`
}

// Bulletin is broadcast to zero or more departments. An empty DepartmentIDs
// slice means the bulletin targets the whole company.
type Bulletin struct {
	ID            string
	Title         string
	DepartmentIDs []string
	Attachments   []Attachment
	CreatedAt     time.Time
	DeletedAt     *time.Time
}

// Request is authored by a single subject within a single department.
type Request struct {
	ID           string
	Title        string
	RequestedBy  string
	DepartmentID string
	Attachments  []Attachment
	CreatedAt    time.Time
	DeletedAt    *time.Time
}

// FindAttachment returns the attachment carrying the given file reference.
func FindAttachment(attachments []Attachment, fileRef string) (Attachment, bool) {
	for _, a := range attachments {
		if a.FileRef == fileRef {
			return a, true
		}
	}
	return Attachment{}, false
}

package port

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound indicates the blob store has no object for the reference.
var ErrObjectNotFound = errors.New("file store: object not found")

// StorageObject is a resolved blob ready to stream to a client. The caller
// owns Body and must close it; abandoning it mid-stream is permitted when the
// client disconnects.
type StorageObject struct {
	Body        io.ReadCloser
	ContentType string
	Name        string
	Size        int64
}

// UploadInput carries a fully buffered upload destined for a folder prefix.
type UploadInput struct {
	Folder      string
	Name        string
	ContentType string
	Data        []byte
}

// StoredFile describes a newly stored object by its opaque reference.
type StoredFile struct {
	Ref  string
	Name string
	Size int64
}

// FileStore is the external blob-store boundary. References are opaque to
// clients; only the proxy exchanges them for bytes.
type FileStore interface {
	Fetch(ctx context.Context, ref string) (*StorageObject, error)
	Upload(ctx context.Context, input UploadInput) (*StoredFile, error)
}

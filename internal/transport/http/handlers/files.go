package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/db-y99/workhub-api/internal/core/domain"
	"github.com/db-y99/workhub-api/internal/infra/logger"
	"github.com/db-y99/workhub-api/internal/transport/http/middleware"
	"github.com/db-y99/workhub-api/internal/usecase"
)

const (
	bulletinNotFoundMessage = "không tìm thấy bảng tin"
	requestNotFoundMessage  = "không tìm thấy yêu cầu"
	fileNotFoundMessage     = "không tìm thấy file"
)

// FileHandler proxies attachment downloads and uploads. Clients only ever see
// opaque file references; the blob store stays invisible behind this handler.
type FileHandler struct {
	proxy *usecase.FileProxyService
}

// NewFileHandler constructs a new handler instance.
func NewFileHandler(proxy *usecase.FileProxyService) *FileHandler {
	return &FileHandler{proxy: proxy}
}

// Download handles GET /files/download requests. The file reference must be
// scoped to exactly one owning record via bulletinId or requestId.
func (h *FileHandler) Download(c *gin.Context) {
	if h.proxy == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "file proxy unavailable"))
		return
	}

	subjectID, ok := middleware.GetSubjectID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	fileRef := strings.TrimSpace(c.Query("fileId"))
	if fileRef == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "fileId is required"))
		return
	}

	bulletinID := strings.TrimSpace(c.Query("bulletinId"))
	requestID := strings.TrimSpace(c.Query("requestId"))

	var kind domain.RecordKind
	var recordID string
	switch {
	case bulletinID != "" && requestID != "":
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "provide either bulletinId or requestId, not both"))
		return
	case bulletinID != "":
		kind, recordID = domain.RecordBulletin, bulletinID
	case requestID != "":
		kind, recordID = domain.RecordRequest, requestID
	default:
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "bulletinId or requestId is required"))
		return
	}

	recordNotFound := bulletinNotFoundMessage
	if kind == domain.RecordRequest {
		recordNotFound = requestNotFoundMessage
	}

	object, err := h.proxy.FetchAttachment(c.Request.Context(), subjectID, kind, recordID, fileRef)
	if err != nil {
		logger.WithContext(c.Request.Context()).Warn("attachment fetch failed",
			zap.String("record_kind", string(kind)),
			zap.String("record_id", recordID),
			zap.Error(err))
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrBadRequest, Status: http.StatusBadRequest, Message: "invalid file request"},
			{Err: usecase.ErrRecordNotFound, Status: http.StatusNotFound, Message: recordNotFound},
			{Err: usecase.ErrFileNotFound, Status: http.StatusNotFound, Message: fileNotFoundMessage},
			{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "access denied"},
			{Err: usecase.ErrDirectoryUnavailable, Status: http.StatusServiceUnavailable, Message: "permission directory unavailable"},
		}, http.StatusInternalServerError, "failed to fetch file")
		return
	}
	defer object.Body.Close()

	c.Header("Content-Disposition", attachmentDisposition(object.Name))
	c.Header("Cache-Control", "private, no-cache")

	contentType := object.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// DataFromReader abandons the copy when the client disconnects.
	c.DataFromReader(http.StatusOK, object.Size, contentType, object.Body, nil)
}

// Upload handles POST /files/upload requests. The multipart form carries the
// binary under "file" and the owning category under "category".
func (h *FileHandler) Upload(c *gin.Context) {
	if h.proxy == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "file proxy unavailable"))
		return
	}

	subjectID, ok := middleware.GetSubjectID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	kind, ok := uploadKind(c.PostForm("category"))
	if !ok {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "category must be bulletin or request"))
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "file is required"))
		return
	}

	// Reject on the declared size before buffering anything.
	if header.Size > h.proxy.MaxUploadBytes() {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "file exceeds the upload size limit"))
		return
	}

	src, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "unable to read uploaded file"))
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.proxy.MaxUploadBytes()+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "unable to read uploaded file"))
		return
	}

	stored, err := h.proxy.UploadAttachment(c.Request.Context(), subjectID, usecase.UploadAttachmentInput{
		Kind:        kind,
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		logger.WithContext(c.Request.Context()).Warn("attachment upload failed",
			zap.String("record_kind", string(kind)),
			zap.Error(err))
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrBadRequest, Status: http.StatusBadRequest, Message: "invalid upload request"},
			{Err: usecase.ErrFileTooLarge, Status: http.StatusBadRequest, Message: "file exceeds the upload size limit"},
			{Err: usecase.ErrMissingStorageConfig, Status: http.StatusInternalServerError, Message: "storage is not configured"},
		}, http.StatusInternalServerError, "failed to store file")
		return
	}

	c.JSON(http.StatusOK, FileUploadResponse{
		FileRef: stored.Ref,
		Name:    stored.Name,
		Size:    stored.Size,
	})
}

func uploadKind(category string) (domain.RecordKind, bool) {
	switch strings.TrimSpace(category) {
	case "bulletin":
		return domain.RecordBulletin, true
	case "request":
		return domain.RecordRequest, true
	default:
		return "", false
	}
}

// attachmentDisposition encodes display names per RFC 5987 so Vietnamese
// filenames survive the trip.
func attachmentDisposition(name string) string {
	return "attachment; filename*=UTF-8''" + encodeRFC5987(name)
}

// encodeRFC5987 percent-encodes every byte outside the attr-char set.
// url.PathEscape is not enough here: it leaves "=", ":" and "@" bare, which
// are not attr-chars.
func encodeRFC5987(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; isAttrChar(c) {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func isAttrChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '!', '#', '$', '&', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return false
}

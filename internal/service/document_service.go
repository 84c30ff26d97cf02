package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/dto"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/observability"
)

var (
	// ErrUploadTooLarge indicates the payload exceeded the configured limit.
	ErrUploadTooLarge = errors.New("document exceeds maximum allowed size")
	// ErrUploadTypeNotAllowed indicates the MIME type is not permitted.
	ErrUploadTypeNotAllowed = errors.New("document type not allowed")
)

// FileStorage abstracts the external upload destination.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// DocumentService validates binary documents and publishes them through the
// upload backend. A non-nil error guarantees no durable URL exists.
type DocumentService interface {
	Publish(ctx context.Context, name string, payload []byte) (dto.UploadResponse, error)
}

type documentService struct {
	storage FileStorage
	logger  zerolog.Logger
	maxSize int64
	timeout time.Duration
}

// NewDocumentService constructs a document upload service.
func NewDocumentService(storage FileStorage, maxSizeMB int, timeout time.Duration, logger zerolog.Logger) DocumentService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &documentService{
		storage: storage,
		logger:  logger.With().Str("component", "document_service").Logger(),
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		timeout: timeout,
	}
}

func (s *documentService) Publish(ctx context.Context, name string, payload []byte) (dto.UploadResponse, error) {
	if len(payload) == 0 {
		return dto.UploadResponse{}, fmt.Errorf("%w: document payload is empty", ErrValidation)
	}

	if int64(len(payload)) > s.maxSize {
		return dto.UploadResponse{}, ErrUploadTooLarge
	}

	mime := mimetype.Detect(payload)
	fileType := normalizeMime(mime.String())
	if !isAllowedType(fileType) {
		return dto.UploadResponse{}, fmt.Errorf("%w: %s", ErrUploadTypeNotAllowed, fileType)
	}

	uploadCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	storedURL, err := s.storage.Upload(uploadCtx, name, bytes.NewReader(payload))
	observability.UploadLatency().Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("document upload failed")
		return dto.UploadResponse{}, err
	}

	if _, err := url.ParseRequestURI(storedURL); err != nil {
		return dto.UploadResponse{}, fmt.Errorf("upload backend returned invalid url %q: %w", storedURL, err)
	}

	return dto.UploadResponse{
		URL:       storedURL,
		FileName:  name,
		MimeType:  fileType,
		SizeBytes: int64(len(payload)),
	}, nil
}

func normalizeMime(m string) string {
	lower := strings.ToLower(strings.TrimSpace(m))
	if strings.HasPrefix(lower, "image/") {
		return "image"
	}
	return lower
}

func isAllowedType(m string) bool {
	switch m {
	case "image", "application/pdf":
		return true
	default:
		return false
	}
}

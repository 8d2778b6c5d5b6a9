package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/asap-api/internal/observability"
	"github.com/noah-isme/asap-api/pkg/ai"
)

var (
	// ErrUploadTooLarge indicates the payload exceeded the configured limit.
	ErrUploadTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrUploadInvalid indicates a file part could not be read.
	ErrUploadInvalid = errors.New("invalid file upload")
)

const genericMimeType = "application/octet-stream"

// UploadEncoder turns uploaded project files into prompt-ready base64 payloads.
type UploadEncoder interface {
	EncodeMultipart(ctx context.Context, files []*multipart.FileHeader) ([]ai.UploadedFile, error)
	Encode(ctx context.Context, name, declaredType string, content []byte) (ai.UploadedFile, error)
}

type uploadEncoder struct {
	logger  zerolog.Logger
	maxSize int64
	tracer  trace.Tracer
}

// NewUploadEncoder constructs an encoder enforcing a per-file size limit in megabytes.
func NewUploadEncoder(maxSizeMB int, logger zerolog.Logger) UploadEncoder {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &uploadEncoder{
		logger:  logger.With().Str("component", "upload_encoder").Logger(),
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		tracer:  otel.Tracer("github.com/noah-isme/asap-api/internal/service/upload"),
	}
}

// EncodeMultipart encodes every part, preserving order.
func (e *uploadEncoder) EncodeMultipart(ctx context.Context, files []*multipart.FileHeader) ([]ai.UploadedFile, error) {
	ctx, span := e.tracer.Start(ctx, "upload.encode")
	defer span.End()

	span.SetAttributes(attribute.Int("upload.file_count", len(files)), attribute.Int64("upload.max_bytes", e.maxSize))

	start := time.Now()
	defer func() {
		observability.UploadLatency().Observe(time.Since(start).Seconds())
	}()

	encoded := make([]ai.UploadedFile, 0, len(files))
	for _, header := range files {
		if header == nil {
			continue
		}
		if header.Size > e.maxSize {
			observability.UploadRejected().WithLabelValues("size").Inc()
			span.RecordError(ErrUploadTooLarge)
			span.SetStatus(codes.Error, "payload too large")
			return nil, fmt.Errorf("%s: %w", header.Filename, ErrUploadTooLarge)
		}

		content, err := e.read(header)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "read failed")
			return nil, fmt.Errorf("%s: %w", header.Filename, err)
		}

		file, err := e.Encode(ctx, header.Filename, header.Header.Get("Content-Type"), content)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "encode failed")
			return nil, err
		}
		encoded = append(encoded, file)
	}

	span.SetStatus(codes.Ok, "encoded")
	return encoded, nil
}

// Encode base64-encodes content. The declared type wins unless it is empty or generic,
// in which case the type is sniffed from the content.
func (e *uploadEncoder) Encode(_ context.Context, name, declaredType string, content []byte) (ai.UploadedFile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		observability.UploadRejected().WithLabelValues("name").Inc()
		return ai.UploadedFile{}, fmt.Errorf("%w: file name is required", ErrUploadInvalid)
	}
	if int64(len(content)) > e.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		return ai.UploadedFile{}, fmt.Errorf("%s: %w", name, ErrUploadTooLarge)
	}

	mimeType := resolveMimeType(declaredType, content)
	observability.UploadFiles().WithLabelValues(mimeType).Inc()
	e.logger.Debug().Str("file", name).Str("mime", mimeType).Int("bytes", len(content)).Msg("encoded project file")

	return ai.UploadedFile{
		Name:          name,
		MimeType:      mimeType,
		ContentBase64: base64.StdEncoding.EncodeToString(content),
	}, nil
}

func (e *uploadEncoder) read(header *multipart.FileHeader) ([]byte, error) {
	handle, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadInvalid, err)
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, e.maxSize+1)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadInvalid, err)
	}
	if int64(buf.Len()) > e.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		return nil, ErrUploadTooLarge
	}
	return buf.Bytes(), nil
}

func resolveMimeType(declared string, content []byte) string {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if declared != "" && declared != genericMimeType {
		return declared
	}
	if len(content) == 0 {
		return ""
	}
	detected := mimetype.Detect(content).String()
	if detected == genericMimeType {
		return ""
	}
	return detected
}

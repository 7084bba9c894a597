package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"jobportal/internal/config"
	apperrors "jobportal/internal/errors"
	"jobportal/internal/metrics"
	"jobportal/internal/storage"
)

const blobCleanupTimeout = 10 * time.Second

// UploadConfig bounds what the profile and resume stores accept.
type UploadConfig struct {
	ResumeExtensions  []string
	PictureExtensions []string
	MaxBytes          int64
	WriteTimeout      time.Duration
}

// DefaultUploadConfig returns the allowed extension sets with a 10 MiB limit and a 30s write timeout.
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		ResumeExtensions:  []string{"pdf", "doc", "docx"},
		PictureExtensions: []string{"png", "jpg", "jpeg", "gif"},
		MaxBytes:          10 << 20,
		WriteTimeout:      30 * time.Second,
	}
}

// NewUploadConfig applies the configured limits to the default extension sets.
func NewUploadConfig(cfg config.UploadConfig) UploadConfig {
	uc := DefaultUploadConfig()
	if cfg.MaxBytes > 0 {
		uc.MaxBytes = cfg.MaxBytes
	}
	if cfg.WriteTimeout > 0 {
		uc.WriteTimeout = cfg.WriteTimeout
	}
	return uc
}

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// blobs saves and discards uploaded files on behalf of the profile and resume services.
type blobs struct {
	store  storage.BlobStore
	cfg    UploadConfig
	logger *slog.Logger
}

func (b *blobs) validate(up *Upload, allowed []string) error {
	if up == nil || up.Body == nil || strings.TrimSpace(up.Filename) == "" {
		return apperrors.ErrMissingFile
	}
	if !storage.AllowedExtension(up.Filename, allowed) {
		return apperrors.ErrInvalidFileType
	}
	if b.cfg.MaxBytes > 0 && up.Size > b.cfg.MaxBytes {
		return apperrors.ErrFileTooLarge
	}
	return nil
}

// save writes up under a generated key and returns the key.
func (b *blobs) save(ctx context.Context, prefix string, userID uint, up *Upload) (string, error) {
	key := storage.NewKey(prefix, userID, up.Filename)

	if b.cfg.WriteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.WriteTimeout)
		defer cancel()
	}

	contentType := up.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := b.store.Put(ctx, key, up.Body, up.Size, contentType); err != nil {
		b.logger.Error("blob write failed", slog.String("key", key), slog.Any("error", err))
		// the store may hold a partial object
		b.discard(ctx, key, "write failed")
		return "", fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return key, nil
}

// discard deletes key without surfacing failures. It runs detached from ctx so a
// cancelled request still cleans up.
func (b *blobs) discard(ctx context.Context, key, reason string) {
	if key == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), blobCleanupTimeout)
	defer cancel()

	if err := b.store.Delete(ctx, key); err != nil {
		metrics.BlobCleanupFailures.Inc()
		b.logger.Warn("blob cleanup failed",
			slog.String("key", key),
			slog.String("reason", reason),
			slog.Any("error", err),
		)
	}
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gorm.io/gorm"

	"jobportal/internal/authz"
	apperrors "jobportal/internal/errors"
	"jobportal/internal/model"
	"jobportal/internal/repository"
	"jobportal/internal/storage"
)

// ResumeService manages a student's resumes and their files.
type ResumeService interface {
	Upload(ctx context.Context, id authz.Identity, file *Upload) (*model.Resume, error)
	List(ctx context.Context, id authz.Identity) ([]model.Resume, error)
	// Update replaces the file behind an existing resume.
	Update(ctx context.Context, id authz.Identity, resumeID uint, file *Upload) (*model.Resume, error)
	Delete(ctx context.Context, id authz.Identity, resumeID uint) error
	// Open returns the resume and its content. The caller closes the reader.
	Open(ctx context.Context, id authz.Identity, resumeID uint) (*model.Resume, io.ReadCloser, error)
}

type resumeService struct {
	repo   repository.ResumeRepository
	blobs  *blobs
	logger *slog.Logger
}

// NewResumeService builds a ResumeService storing files in store.
func NewResumeService(repo repository.ResumeRepository, store storage.BlobStore, cfg UploadConfig, logger *slog.Logger) ResumeService {
	logger = orDefault(logger)
	return &resumeService{
		repo:   repo,
		blobs:  &blobs{store: store, cfg: cfg, logger: logger},
		logger: logger,
	}
}

func (s *resumeService) Upload(ctx context.Context, id authz.Identity, file *Upload) (*model.Resume, error) {
	if err := authz.Authorize(id, authz.ActionUploadResume, nil); err != nil {
		return nil, err
	}
	if err := s.blobs.validate(file, s.blobs.cfg.ResumeExtensions); err != nil {
		return nil, err
	}

	key, err := s.blobs.save(ctx, storage.PrefixResumes, id.UserID, file)
	if err != nil {
		return nil, err
	}

	resume := &model.Resume{
		UserID:       id.UserID,
		Filename:     key,
		OriginalName: file.Filename,
		ContentType:  file.ContentType,
		Size:         file.Size,
	}
	if err := s.repo.Create(ctx, resume); err != nil {
		s.blobs.discard(ctx, key, "resume create failed")
		return nil, fmt.Errorf("create resume: %w", err)
	}

	s.logger.Info("resume uploaded",
		slog.Uint64("resume_id", uint64(resume.ID)),
		slog.Uint64("user_id", uint64(resume.UserID)),
		slog.String("key", key),
	)
	return resume, nil
}

func (s *resumeService) List(ctx context.Context, id authz.Identity) ([]model.Resume, error) {
	if err := authz.Authorize(id, authz.ActionListResumes, nil); err != nil {
		return nil, err
	}
	resumes, err := s.repo.ListByUser(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	return resumes, nil
}

func (s *resumeService) Update(ctx context.Context, id authz.Identity, resumeID uint, file *Upload) (*model.Resume, error) {
	resume, err := s.load(ctx, id, authz.ActionUpdateResume, resumeID)
	if err != nil {
		return nil, err
	}
	if err := s.blobs.validate(file, s.blobs.cfg.ResumeExtensions); err != nil {
		return nil, err
	}

	newKey, err := s.blobs.save(ctx, storage.PrefixResumes, id.UserID, file)
	if err != nil {
		return nil, err
	}

	oldKey := resume.Filename
	resume.Filename = newKey
	resume.OriginalName = file.Filename
	resume.ContentType = file.ContentType
	resume.Size = file.Size

	if err := s.repo.UpdateFile(ctx, resume); err != nil {
		s.blobs.discard(ctx, newKey, "resume update failed")
		return nil, fmt.Errorf("update resume: %w", err)
	}
	s.blobs.discard(ctx, oldKey, "resume replaced")
	return resume, nil
}

func (s *resumeService) Delete(ctx context.Context, id authz.Identity, resumeID uint) error {
	resume, err := s.load(ctx, id, authz.ActionDeleteResume, resumeID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, resume.ID); err != nil {
		return fmt.Errorf("delete resume: %w", err)
	}
	s.blobs.discard(ctx, resume.Filename, "resume deleted")
	return nil
}

func (s *resumeService) Open(ctx context.Context, id authz.Identity, resumeID uint) (*model.Resume, io.ReadCloser, error) {
	resume, err := s.load(ctx, id, authz.ActionDownloadResume, resumeID)
	if err != nil {
		return nil, nil, err
	}

	body, err := s.blobs.store.Get(ctx, resume.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, apperrors.ErrResumeNotFound
		}
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return resume, body, nil
}

func (s *resumeService) load(ctx context.Context, id authz.Identity, action authz.Action, resumeID uint) (*model.Resume, error) {
	if err := authz.Authorize(id, action, nil); err != nil {
		return nil, err
	}
	resume, err := s.repo.FindByID(ctx, resumeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrResumeNotFound
		}
		return nil, fmt.Errorf("find resume: %w", err)
	}
	if err := authz.Authorize(id, action, authz.Owned(resume.UserID)); err != nil {
		return nil, err
	}
	return resume, nil
}

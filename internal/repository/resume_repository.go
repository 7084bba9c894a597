package repository

import (
	"context"

	"gorm.io/gorm"

	"jobportal/internal/model"
)

// ResumeRepository defines resume persistence operations.
type ResumeRepository interface {
	Create(ctx context.Context, resume *model.Resume) error
	FindByID(ctx context.Context, id uint) (*model.Resume, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Resume, error)
	// UpdateFile points the resume at a new blob.
	UpdateFile(ctx context.Context, resume *model.Resume) error
	Delete(ctx context.Context, id uint) error
}

type resumeRepository struct {
	db *gorm.DB
}

// NewResumeRepository creates a new resume repository.
func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

func (r *resumeRepository) Create(ctx context.Context, resume *model.Resume) error {
	return r.db.WithContext(ctx).Omit("User").Create(resume).Error
}

func (r *resumeRepository) FindByID(ctx context.Context, id uint) (*model.Resume, error) {
	var resume model.Resume
	if err := r.db.WithContext(ctx).First(&resume, id).Error; err != nil {
		return nil, err
	}
	return &resume, nil
}

func (r *resumeRepository) ListByUser(ctx context.Context, userID uint) ([]model.Resume, error) {
	var resumes []model.Resume
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&resumes).Error; err != nil {
		return nil, err
	}
	return resumes, nil
}

func (r *resumeRepository) UpdateFile(ctx context.Context, resume *model.Resume) error {
	return r.db.WithContext(ctx).Model(&model.Resume{ID: resume.ID}).
		Updates(map[string]interface{}{
			"filename":      resume.Filename,
			"original_name": resume.OriginalName,
			"content_type":  resume.ContentType,
			"size":          resume.Size,
		}).Error
}

func (r *resumeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Resume{}, id).Error
}

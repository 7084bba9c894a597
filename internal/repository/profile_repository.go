package repository

import (
	"context"

	"gorm.io/gorm"

	"jobportal/internal/model"
)

// ProfileRepository defines profile persistence operations.
type ProfileRepository interface {
	// Create inserts a profile; a second profile for the same user yields gorm.ErrDuplicatedKey.
	Create(ctx context.Context, profile *model.Profile) error
	FindByUserID(ctx context.Context, userID uint) (*model.Profile, error)
	Update(ctx context.Context, profile *model.Profile) error
	Delete(ctx context.Context, id uint) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Omit("User").Create(profile).Error
}

func (r *profileRepository) FindByUserID(ctx context.Context, userID uint) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update writes the mutable fields; user_id is never touched.
func (r *profileRepository) Update(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Model(&model.Profile{ID: profile.ID}).
		Updates(map[string]interface{}{
			"full_name":   profile.FullName,
			"bio":         profile.Bio,
			"profile_pic": profile.ProfilePic,
		}).Error
}

func (r *profileRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Profile{}, id).Error
}

// StudentDetailsRepository defines student details persistence operations.
type StudentDetailsRepository interface {
	// Create inserts details; a second row for the same user yields gorm.ErrDuplicatedKey.
	Create(ctx context.Context, details *model.StudentDetails) error
	FindByUserID(ctx context.Context, userID uint) (*model.StudentDetails, error)
	Update(ctx context.Context, details *model.StudentDetails) error
	Delete(ctx context.Context, id uint) error
}

type studentDetailsRepository struct {
	db *gorm.DB
}

// NewStudentDetailsRepository creates a new student details repository.
func NewStudentDetailsRepository(db *gorm.DB) StudentDetailsRepository {
	return &studentDetailsRepository{db: db}
}

func (r *studentDetailsRepository) Create(ctx context.Context, details *model.StudentDetails) error {
	return r.db.WithContext(ctx).Omit("User").Create(details).Error
}

func (r *studentDetailsRepository) FindByUserID(ctx context.Context, userID uint) (*model.StudentDetails, error) {
	var details model.StudentDetails
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&details).Error; err != nil {
		return nil, err
	}
	return &details, nil
}

func (r *studentDetailsRepository) Update(ctx context.Context, details *model.StudentDetails) error {
	return r.db.WithContext(ctx).Model(&model.StudentDetails{ID: details.ID}).
		Updates(map[string]interface{}{
			"education": details.Education,
			"skills":    details.Skills,
			"contact":   details.Contact,
			"address":   details.Address,
		}).Error
}

func (r *studentDetailsRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.StudentDetails{}, id).Error
}

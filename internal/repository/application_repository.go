package repository

import (
	"context"

	"gorm.io/gorm"

	"jobportal/internal/model"
)

// ApplicationRepository defines application persistence operations.
type ApplicationRepository interface {
	// Create inserts an application; a second application for the same
	// (student, vacancy) pair yields gorm.ErrDuplicatedKey.
	Create(ctx context.Context, application *model.Application) error
	FindByID(ctx context.Context, id uint) (*model.Application, error)
	ListByStudent(ctx context.Context, studentID uint) ([]model.Application, error)
	// ListByVacancyIDs returns the applications with their vacancy, applicant and
	// the applicant's student details.
	ListByVacancyIDs(ctx context.Context, vacancyIDs []uint) ([]model.Application, error)
	// UpdateStatusFrom sets status to `to` only while it still equals `from`.
	// It reports whether a row changed.
	UpdateStatusFrom(ctx context.Context, id uint, from, to model.ApplicationStatus) (bool, error)
	// DeleteAllForVacancy removes every application referencing vacancyID.
	DeleteAllForVacancy(ctx context.Context, vacancyID uint) (int64, error)
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, application *model.Application) error {
	return r.db.WithContext(ctx).Omit("Student", "Vacancy").Create(application).Error
}

// FindByID finds an application with its vacancy.
func (r *applicationRepository) FindByID(ctx context.Context, id uint) (*model.Application, error) {
	var application model.Application
	if err := r.db.WithContext(ctx).Preload("Vacancy").First(&application, id).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepository) ListByStudent(ctx context.Context, studentID uint) ([]model.Application, error) {
	var applications []model.Application
	if err := r.db.WithContext(ctx).Preload("Vacancy").
		Where("student_id = ?", studentID).
		Order("id").
		Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *applicationRepository) ListByVacancyIDs(ctx context.Context, vacancyIDs []uint) ([]model.Application, error) {
	if len(vacancyIDs) == 0 {
		return []model.Application{}, nil
	}
	var applications []model.Application
	if err := r.db.WithContext(ctx).Preload("Vacancy").Preload("Student").
		Where("vacancy_id IN ?", vacancyIDs).
		Order("vacancy_id, id").
		Find(&applications).Error; err != nil {
		return nil, err
	}
	if err := r.attachStudentDetails(ctx, applications); err != nil {
		return nil, err
	}
	return applications, nil
}

// attachStudentDetails loads the applicants' details in one query.
func (r *applicationRepository) attachStudentDetails(ctx context.Context, applications []model.Application) error {
	if len(applications) == 0 {
		return nil
	}
	studentIDs := make([]uint, 0, len(applications))
	for _, a := range applications {
		studentIDs = append(studentIDs, a.StudentID)
	}

	var details []model.StudentDetails
	if err := r.db.WithContext(ctx).Where("user_id IN ?", studentIDs).Find(&details).Error; err != nil {
		return err
	}
	byStudent := make(map[uint]*model.StudentDetails, len(details))
	for i := range details {
		byStudent[details[i].UserID] = &details[i]
	}
	for i := range applications {
		applications[i].StudentDetails = byStudent[applications[i].StudentID]
	}
	return nil
}

func (r *applicationRepository) UpdateStatusFrom(ctx context.Context, id uint, from, to model.ApplicationStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Application{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *applicationRepository) DeleteAllForVacancy(ctx context.Context, vacancyID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("vacancy_id = ?", vacancyID).Delete(&model.Application{})
	return res.RowsAffected, res.Error
}

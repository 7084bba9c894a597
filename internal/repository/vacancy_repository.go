package repository

import (
	"context"

	"gorm.io/gorm"

	"jobportal/internal/model"
)

// VacancyRepository defines vacancy persistence operations.
type VacancyRepository interface {
	Create(ctx context.Context, vacancy *model.Vacancy) error
	FindByID(ctx context.Context, id uint) (*model.Vacancy, error)
	ListByCompany(ctx context.Context, companyID uint) ([]model.Vacancy, error)
	ListAll(ctx context.Context) ([]model.Vacancy, error)
	IDsByCompany(ctx context.Context, companyID uint) ([]uint, error)
	// Delete removes the vacancy row and reports how many rows were affected.
	Delete(ctx context.Context, id uint) (int64, error)
}

type vacancyRepository struct {
	db *gorm.DB
}

// NewVacancyRepository creates a new vacancy repository.
func NewVacancyRepository(db *gorm.DB) VacancyRepository {
	return &vacancyRepository{db: db}
}

// Create creates a new vacancy.
func (r *vacancyRepository) Create(ctx context.Context, vacancy *model.Vacancy) error {
	return r.db.WithContext(ctx).Omit("Company").Create(vacancy).Error
}

// FindByID finds a vacancy by ID.
func (r *vacancyRepository) FindByID(ctx context.Context, id uint) (*model.Vacancy, error) {
	var vacancy model.Vacancy
	if err := r.db.WithContext(ctx).First(&vacancy, id).Error; err != nil {
		return nil, err
	}
	return &vacancy, nil
}

// ListByCompany lists a company's vacancies in insertion order.
func (r *vacancyRepository) ListByCompany(ctx context.Context, companyID uint) ([]model.Vacancy, error) {
	var vacancies []model.Vacancy
	if err := r.db.WithContext(ctx).Where("company_id = ?", companyID).Order("id").Find(&vacancies).Error; err != nil {
		return nil, err
	}
	return vacancies, nil
}

// ListAll lists every vacancy in insertion order.
func (r *vacancyRepository) ListAll(ctx context.Context) ([]model.Vacancy, error) {
	var vacancies []model.Vacancy
	if err := r.db.WithContext(ctx).Order("id").Find(&vacancies).Error; err != nil {
		return nil, err
	}
	return vacancies, nil
}

// IDsByCompany returns the ids of a company's vacancies.
func (r *vacancyRepository) IDsByCompany(ctx context.Context, companyID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&model.Vacancy{}).
		Where("company_id = ?", companyID).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Delete removes a vacancy by ID.
func (r *vacancyRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Vacancy{}, id)
	return res.RowsAffected, res.Error
}

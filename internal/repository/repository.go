package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories groups the repositories that can take part in one unit of work.
type Repositories struct {
	Users          UserRepository
	Profiles       ProfileRepository
	StudentDetails StudentDetailsRepository
	Resumes        ResumeRepository
	Vacancies      VacancyRepository
	Applications   ApplicationRepository
}

// New builds GORM-backed repositories sharing db.
func New(db *gorm.DB) Repositories {
	return Repositories{
		Users:          NewUserRepository(db),
		Profiles:       NewProfileRepository(db),
		StudentDetails: NewStudentDetailsRepository(db),
		Resumes:        NewResumeRepository(db),
		Vacancies:      NewVacancyRepository(db),
		Applications:   NewApplicationRepository(db),
	}
}

// Transactor runs a function within a database transaction.
type Transactor interface {
	// WithTransaction commits when fn returns nil and rolls back otherwise.
	// repos passed to fn are bound to the transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

type transactor struct {
	db *gorm.DB
}

// NewTransactor creates a Transactor over db.
func NewTransactor(db *gorm.DB) Transactor {
	return &transactor{db: db}
}

// WithTransaction executes a function within a database transaction.
func (t *transactor) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, New(tx))
	})
}

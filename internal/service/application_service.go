package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"jobportal/internal/authz"
	apperrors "jobportal/internal/errors"
	"jobportal/internal/metrics"
	"jobportal/internal/model"
	"jobportal/internal/repository"
)

// ApplicationService tracks students' applications through their lifecycle.
type ApplicationService interface {
	// Apply creates a Pending application. A second application to the same
	// vacancy by the same student fails with ErrAlreadyApplied.
	Apply(ctx context.Context, id authz.Identity, vacancyID uint) (*model.Application, error)
	ListForStudent(ctx context.Context, id authz.Identity) ([]model.Application, error)
	// ListForCompanyVacancies gathers the applications to every vacancy the caller owns.
	ListForCompanyVacancies(ctx context.Context, id authz.Identity) ([]model.Application, error)
	// UpdateStatus moves a Pending application to Selected or Rejected.
	UpdateStatus(ctx context.Context, id authz.Identity, applicationID uint, status string) (*model.Application, error)
	ApplicationCascade
}

type applicationService struct {
	repos  repository.Repositories
	logger *slog.Logger
	now    func() time.Time
}

// NewApplicationService builds an ApplicationService over repos.
func NewApplicationService(repos repository.Repositories, logger *slog.Logger) ApplicationService {
	return &applicationService{
		repos:  repos,
		logger: orDefault(logger),
		now:    time.Now,
	}
}

func (s *applicationService) Apply(ctx context.Context, id authz.Identity, vacancyID uint) (*model.Application, error) {
	if err := authz.Authorize(id, authz.ActionApplyVacancy, nil); err != nil {
		return nil, err
	}

	vacancy, err := s.repos.Vacancies.FindByID(ctx, vacancyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVacancyNotFound
		}
		return nil, fmt.Errorf("find vacancy: %w", err)
	}

	application := &model.Application{
		StudentID:   id.UserID,
		VacancyID:   vacancy.ID,
		Status:      model.ApplicationStatusPending,
		AppliedDate: s.now().UTC(),
	}
	if err := s.repos.Applications.Create(ctx, application); err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, apperrors.ErrAlreadyApplied
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			// vacancy deleted between lookup and insert
			return nil, apperrors.ErrVacancyNotFound
		}
		return nil, fmt.Errorf("create application: %w", err)
	}

	metrics.ApplicationsSubmitted.Inc()
	s.logger.Info("application submitted",
		slog.Uint64("application_id", uint64(application.ID)),
		slog.Uint64("student_id", uint64(application.StudentID)),
		slog.Uint64("vacancy_id", uint64(application.VacancyID)),
	)
	application.Vacancy = vacancy
	return application, nil
}

func (s *applicationService) ListForStudent(ctx context.Context, id authz.Identity) ([]model.Application, error) {
	if err := authz.Authorize(id, authz.ActionListStudentApplications, nil); err != nil {
		return nil, err
	}
	applications, err := s.repos.Applications.ListByStudent(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("list student applications: %w", err)
	}
	return applications, nil
}

func (s *applicationService) ListForCompanyVacancies(ctx context.Context, id authz.Identity) ([]model.Application, error) {
	if err := authz.Authorize(id, authz.ActionListCompanyApplications, nil); err != nil {
		return nil, err
	}

	vacancyIDs, err := s.repos.Vacancies.IDsByCompany(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("list company vacancy ids: %w", err)
	}
	applications, err := s.repos.Applications.ListByVacancyIDs(ctx, vacancyIDs)
	if err != nil {
		return nil, fmt.Errorf("list company applications: %w", err)
	}
	return applications, nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, id authz.Identity, applicationID uint, status string) (*model.Application, error) {
	if err := authz.Authorize(id, authz.ActionUpdateApplicationStatus, nil); err != nil {
		return nil, err
	}

	application, err := s.repos.Applications.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	if application.Vacancy == nil {
		return nil, apperrors.ErrApplicationNotFound
	}

	if err := authz.Authorize(id, authz.ActionUpdateApplicationStatus, authz.Owned(application.Vacancy.CompanyID)); err != nil {
		return nil, err
	}

	next, ok := model.ParseApplicationStatus(status)
	if !ok {
		return nil, apperrors.ErrInvalidStatus
	}

	if !application.Status.CanTransitionTo(next) {
		return nil, apperrors.ErrInvalidTransition
	}

	changed, err := s.repos.Applications.UpdateStatusFrom(ctx, application.ID, application.Status, next)
	if err != nil {
		return nil, fmt.Errorf("update application status: %w", err)
	}
	if !changed {
		// another request moved it out of Pending first
		return nil, apperrors.ErrInvalidTransition
	}

	previous := application.Status
	application.Status = next
	metrics.ApplicationTransitions.WithLabelValues(string(next)).Inc()
	s.logger.Info("application status changed",
		slog.Uint64("application_id", uint64(application.ID)),
		slog.String("from", string(previous)),
		slog.String("to", string(next)),
		slog.Uint64("company_id", uint64(id.UserID)),
	)
	return application, nil
}

// DeleteAllForVacancy is the cascade hook used when a vacancy is deleted.
func (s *applicationService) DeleteAllForVacancy(ctx context.Context, repos repository.Repositories, vacancyID uint) (int64, error) {
	if repos.Applications == nil {
		repos = s.repos
	}
	return repos.Applications.DeleteAllForVacancy(ctx, vacancyID)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"jobportal/internal/authz"
	"jobportal/internal/cache"
	apperrors "jobportal/internal/errors"
	"jobportal/internal/metrics"
	"jobportal/internal/model"
	"jobportal/internal/repository"
)

const (
	// the listing is cached under vacancies:all:<generation>; writes bump the generation
	vacancyListCachePrefix = "vacancies:all:"
	vacancyListGenKey      = "vacancies:all:gen"
	defaultVacancyListTTL = time.Minute
)

// lastDateLayouts are tried in order when parsing a vacancy's closing date.
var lastDateLayouts = []string{"2006-01-02", time.RFC3339}

// CreateVacancyInput carries the fields of a new vacancy. LastDate is YYYY-MM-DD.
type CreateVacancyInput struct {
	Title       string
	Description string
	Location    string
	LastDate    string
	Salary      *decimal.Decimal
}

// ApplicationCascade removes the applications of a vacancy that is being deleted.
// repos are bound to the deleting transaction.
type ApplicationCascade interface {
	DeleteAllForVacancy(ctx context.Context, repos repository.Repositories, vacancyID uint) (int64, error)
}

// VacancyService manages company-owned job postings.
type VacancyService interface {
	Create(ctx context.Context, id authz.Identity, in CreateVacancyInput) (*model.Vacancy, error)
	ListForCompany(ctx context.Context, id authz.Identity) ([]model.Vacancy, error)
	ListAll(ctx context.Context, id authz.Identity) ([]model.Vacancy, error)
	Get(ctx context.Context, id authz.Identity, vacancyID uint) (*model.Vacancy, error)
	// Delete removes the vacancy and all of its applications in one transaction.
	Delete(ctx context.Context, id authz.Identity, vacancyID uint) error
}

type vacancyService struct {
	repo    repository.VacancyRepository
	tx      repository.Transactor
	cascade ApplicationCascade
	cache   VacancyCache
	ttl     time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// VacancyCache is the part of cache.Client the vacancy listing needs.
type VacancyCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Incr(ctx context.Context, key string) error
	GetJSON(ctx context.Context, key string, dst interface{}) bool
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration)
}

var _ VacancyCache = (*cache.Client)(nil)

// NewVacancyService builds a VacancyService. listCache may be nil.
func NewVacancyService(
	repo repository.VacancyRepository,
	tx repository.Transactor,
	cascade ApplicationCascade,
	listCache VacancyCache,
	ttl time.Duration,
	logger *slog.Logger,
) VacancyService {
	if ttl <= 0 {
		ttl = defaultVacancyListTTL
	}
	if listCache == nil {
		listCache = (*cache.Client)(nil)
	}
	return &vacancyService{
		repo:    repo,
		tx:      tx,
		cascade: cascade,
		cache:   listCache,
		ttl:     ttl,
		logger:  orDefault(logger),
		now:     time.Now,
	}
}

func (s *vacancyService) Create(ctx context.Context, id authz.Identity, in CreateVacancyInput) (*model.Vacancy, error) {
	if err := authz.Authorize(id, authz.ActionCreateVacancy, nil); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	location := strings.TrimSpace(in.Location)
	switch {
	case title == "":
		return nil, apperrors.Validation("title is required")
	case description == "":
		return nil, apperrors.Validation("description is required")
	case location == "":
		return nil, apperrors.Validation("location is required")
	}

	now := s.now().UTC()
	lastDate, err := parseLastDate(in.LastDate, now)
	if err != nil {
		return nil, err
	}

	var salary decimal.NullDecimal
	if in.Salary != nil {
		if in.Salary.IsNegative() {
			return nil, apperrors.ErrInvalidSalary
		}
		salary = decimal.NewNullDecimal(*in.Salary)
	}

	vacancy := &model.Vacancy{
		CompanyID:   id.UserID,
		Title:       title,
		Description: description,
		Location:    location,
		Salary:      salary,
		PostedDate:  now,
		LastDate:    lastDate,
	}
	if err := s.repo.Create(ctx, vacancy); err != nil {
		return nil, fmt.Errorf("create vacancy: %w", err)
	}

	s.invalidateList(ctx)
	s.logger.Info("vacancy created",
		slog.Uint64("vacancy_id", uint64(vacancy.ID)),
		slog.Uint64("company_id", uint64(vacancy.CompanyID)),
	)
	return vacancy, nil
}

func (s *vacancyService) ListForCompany(ctx context.Context, id authz.Identity) ([]model.Vacancy, error) {
	if err := authz.Authorize(id, authz.ActionListCompanyVacancies, nil); err != nil {
		return nil, err
	}
	vacancies, err := s.repo.ListByCompany(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("list company vacancies: %w", err)
	}
	return vacancies, nil
}

func (s *vacancyService) ListAll(ctx context.Context, id authz.Identity) ([]model.Vacancy, error) {
	if err := authz.Authorize(id, authz.ActionListVacancies, nil); err != nil {
		return nil, err
	}

	// a reader that raced a write fills a generation nobody reads any more
	key := s.listCacheKey(ctx)
	var cached []model.Vacancy
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	vacancies, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vacancies: %w", err)
	}
	s.cache.SetJSON(ctx, key, vacancies, s.ttl)
	return vacancies, nil
}

func (s *vacancyService) Get(ctx context.Context, id authz.Identity, vacancyID uint) (*model.Vacancy, error) {
	if err := authz.Authorize(id, authz.ActionGetVacancy, nil); err != nil {
		return nil, err
	}
	return s.find(ctx, vacancyID)
}

func (s *vacancyService) Delete(ctx context.Context, id authz.Identity, vacancyID uint) error {
	if err := authz.Authorize(id, authz.ActionDeleteVacancy, nil); err != nil {
		return err
	}

	vacancy, err := s.find(ctx, vacancyID)
	if err != nil {
		return err
	}
	if err := authz.Authorize(id, authz.ActionDeleteVacancy, authz.Owned(vacancy.CompanyID)); err != nil {
		return err
	}

	var removed int64
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		n, err := s.cascade.DeleteAllForVacancy(ctx, repos, vacancy.ID)
		if err != nil {
			return fmt.Errorf("delete applications: %w", err)
		}
		removed = n

		affected, err := repos.Vacancies.Delete(ctx, vacancy.ID)
		if err != nil {
			return fmt.Errorf("delete vacancy: %w", err)
		}
		if affected == 0 {
			// deleted concurrently
			return apperrors.ErrVacancyNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateList(ctx)
	metrics.VacanciesDeleted.Inc()
	metrics.CascadedApplications.Add(float64(removed))
	s.logger.Info("vacancy deleted",
		slog.Uint64("vacancy_id", uint64(vacancy.ID)),
		slog.Uint64("company_id", uint64(vacancy.CompanyID)),
		slog.Int64("applications_removed", removed),
	)
	return nil
}

func (s *vacancyService) listCacheKey(ctx context.Context) string {
	gen, _ := s.cache.Get(ctx, vacancyListGenKey)
	if len(gen) == 0 {
		return vacancyListCachePrefix + "0"
	}
	return vacancyListCachePrefix + string(gen)
}

func (s *vacancyService) invalidateList(ctx context.Context) {
	_ = s.cache.Incr(ctx, vacancyListGenKey)
}

func (s *vacancyService) find(ctx context.Context, vacancyID uint) (*model.Vacancy, error) {
	vacancy, err := s.repo.FindByID(ctx, vacancyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVacancyNotFound
		}
		return nil, fmt.Errorf("find vacancy: %w", err)
	}
	return vacancy, nil
}

// parseLastDate accepts YYYY-MM-DD or RFC3339 and rejects dates before the posting day.
func parseLastDate(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, apperrors.ErrInvalidDate
	}

	var (
		lastDate time.Time
		parsed   bool
	)
	for _, layout := range lastDateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			lastDate, parsed = t.UTC(), true
			break
		}
	}
	if !parsed {
		return time.Time{}, apperrors.ErrInvalidDate
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if lastDate.Before(today) {
		return time.Time{}, apperrors.ErrInvalidDate
	}
	return lastDate, nil
}

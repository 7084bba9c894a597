package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"jobportal/internal/authz"
	apperrors "jobportal/internal/errors"
	"jobportal/internal/model"
	"jobportal/internal/repository"
)

// StudentDetailsInput carries a student's academic and contact information.
type StudentDetailsInput struct {
	Education string
	Skills    string
	Contact   string
	Address   string
}

// StudentDetailsService manages a student's own details record.
type StudentDetailsService interface {
	Create(ctx context.Context, id authz.Identity, in StudentDetailsInput) (*model.StudentDetails, error)
	Get(ctx context.Context, id authz.Identity) (*model.StudentDetails, error)
	Update(ctx context.Context, id authz.Identity, in StudentDetailsInput) (*model.StudentDetails, error)
	Delete(ctx context.Context, id authz.Identity) error
}

type studentDetailsService struct {
	repo repository.StudentDetailsRepository
}

// NewStudentDetailsService builds a StudentDetailsService.
func NewStudentDetailsService(repo repository.StudentDetailsRepository) StudentDetailsService {
	return &studentDetailsService{repo: repo}
}

func (s *studentDetailsService) Create(ctx context.Context, id authz.Identity, in StudentDetailsInput) (*model.StudentDetails, error) {
	if err := authz.Authorize(id, authz.ActionCreateStudentDetails, authz.Owned(id.UserID)); err != nil {
		return nil, err
	}

	details := &model.StudentDetails{UserID: id.UserID}
	applyDetails(details, in)

	if err := s.repo.Create(ctx, details); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrStudentDetailsExists
		}
		return nil, fmt.Errorf("create student details: %w", err)
	}
	return details, nil
}

func (s *studentDetailsService) Get(ctx context.Context, id authz.Identity) (*model.StudentDetails, error) {
	return s.load(ctx, id, authz.ActionGetStudentDetails)
}

func (s *studentDetailsService) Update(ctx context.Context, id authz.Identity, in StudentDetailsInput) (*model.StudentDetails, error) {
	details, err := s.load(ctx, id, authz.ActionUpdateStudentDetails)
	if err != nil {
		return nil, err
	}
	applyDetails(details, in)
	if err := s.repo.Update(ctx, details); err != nil {
		return nil, fmt.Errorf("update student details: %w", err)
	}
	return details, nil
}

func (s *studentDetailsService) Delete(ctx context.Context, id authz.Identity) error {
	details, err := s.load(ctx, id, authz.ActionDeleteStudentDetails)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, details.ID); err != nil {
		return fmt.Errorf("delete student details: %w", err)
	}
	return nil
}

func (s *studentDetailsService) load(ctx context.Context, id authz.Identity, action authz.Action) (*model.StudentDetails, error) {
	if err := authz.Authorize(id, action, nil); err != nil {
		return nil, err
	}
	details, err := s.repo.FindByUserID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStudentDetailsNotFound
		}
		return nil, fmt.Errorf("find student details: %w", err)
	}
	if err := authz.Authorize(id, action, authz.Owned(details.UserID)); err != nil {
		return nil, err
	}
	return details, nil
}

func applyDetails(details *model.StudentDetails, in StudentDetailsInput) {
	details.Education = strings.TrimSpace(in.Education)
	details.Skills = strings.TrimSpace(in.Skills)
	details.Contact = strings.TrimSpace(in.Contact)
	details.Address = strings.TrimSpace(in.Address)
}

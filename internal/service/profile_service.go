package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"jobportal/internal/authz"
	apperrors "jobportal/internal/errors"
	"jobportal/internal/model"
	"jobportal/internal/repository"
	"jobportal/internal/storage"
)

// ProfileInput carries the editable profile fields.
type ProfileInput struct {
	FullName string
	Bio      string
}

// ProfileService manages the caller's own profile and picture.
type ProfileService interface {
	// Create fails with ErrProfileExists when the caller already has a profile.
	Create(ctx context.Context, id authz.Identity, in ProfileInput, picture *Upload) (*model.Profile, error)
	Get(ctx context.Context, id authz.Identity) (*model.Profile, error)
	// Update replaces the scalar fields and, when picture is non-nil, the picture.
	Update(ctx context.Context, id authz.Identity, in ProfileInput, picture *Upload) (*model.Profile, error)
	Delete(ctx context.Context, id authz.Identity) error
}

type profileService struct {
	repo   repository.ProfileRepository
	blobs  *blobs
	logger *slog.Logger
}

// NewProfileService builds a ProfileService storing pictures in store.
func NewProfileService(repo repository.ProfileRepository, store storage.BlobStore, cfg UploadConfig, logger *slog.Logger) ProfileService {
	logger = orDefault(logger)
	return &profileService{
		repo:   repo,
		blobs:  &blobs{store: store, cfg: cfg, logger: logger},
		logger: logger,
	}
}

func (s *profileService) Create(ctx context.Context, id authz.Identity, in ProfileInput, picture *Upload) (*model.Profile, error) {
	if err := authz.Authorize(id, authz.ActionCreateProfile, authz.Owned(id.UserID)); err != nil {
		return nil, err
	}

	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return nil, apperrors.Validation("full name is required")
	}
	if picture != nil {
		if err := s.blobs.validate(picture, s.blobs.cfg.PictureExtensions); err != nil {
			return nil, err
		}
	}

	profile := &model.Profile{
		UserID:   id.UserID,
		FullName: fullName,
		Bio:      strings.TrimSpace(in.Bio),
	}

	var key string
	if picture != nil {
		var err error
		key, err = s.blobs.save(ctx, storage.PrefixProfilePics, id.UserID, picture)
		if err != nil {
			return nil, err
		}
		profile.ProfilePic = &key
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		s.blobs.discard(ctx, key, "profile create failed")
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrProfileExists
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) Get(ctx context.Context, id authz.Identity) (*model.Profile, error) {
	return s.load(ctx, id, authz.ActionGetProfile)
}

func (s *profileService) Update(ctx context.Context, id authz.Identity, in ProfileInput, picture *Upload) (*model.Profile, error) {
	profile, err := s.load(ctx, id, authz.ActionUpdateProfile)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.FullName); name != "" {
		profile.FullName = name
	}
	profile.Bio = strings.TrimSpace(in.Bio)

	var oldKey, newKey string
	if picture != nil {
		if err := s.blobs.validate(picture, s.blobs.cfg.PictureExtensions); err != nil {
			return nil, err
		}
		newKey, err = s.blobs.save(ctx, storage.PrefixProfilePics, id.UserID, picture)
		if err != nil {
			return nil, err
		}
		if profile.ProfilePic != nil {
			oldKey = *profile.ProfilePic
		}
		profile.ProfilePic = &newKey
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		s.blobs.discard(ctx, newKey, "profile update failed")
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.blobs.discard(ctx, oldKey, "profile picture replaced")
	return profile, nil
}

func (s *profileService) Delete(ctx context.Context, id authz.Identity) error {
	profile, err := s.load(ctx, id, authz.ActionDeleteProfile)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, profile.ID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if profile.ProfilePic != nil {
		s.blobs.discard(ctx, *profile.ProfilePic, "profile deleted")
	}
	s.logger.Info("profile deleted", slog.Uint64("user_id", uint64(profile.UserID)))
	return nil
}

// load runs the role check, fetches the caller's profile and runs the ownership check.
func (s *profileService) load(ctx context.Context, id authz.Identity, action authz.Action) (*model.Profile, error) {
	if err := authz.Authorize(id, action, nil); err != nil {
		return nil, err
	}
	profile, err := s.repo.FindByUserID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	if err := authz.Authorize(id, action, authz.Owned(profile.UserID)); err != nil {
		return nil, err
	}
	return profile, nil
}

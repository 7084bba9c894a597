package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"jobportal/internal/auth"
	"jobportal/internal/authz"
	apperrors "jobportal/internal/errors"
	"jobportal/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, role model.Role, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, role, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, model.Role, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.Get(1).(model.Role), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func newTestAuthService(repo *MockUserRepository, store *MockTokenStore) (AuthService, *auth.JWTService) {
	jwtService := auth.NewJWTService("test-secret")
	return NewAuthService(repo, auth.NewBcryptHasher(bcrypt.MinCost), jwtService, store), jwtService
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		input         RegisterInput
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:  "successful registration",
			input: RegisterInput{Username: "alice", Email: "Alice@Example.com", Password: "password123", Role: "student"},
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:  "user already exists",
			input: RegisterInput{Username: "alice", Email: "alice@example.com", Password: "password123", Role: "company"},
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrDuplicateUser,
		},
		{
			name:          "unknown role",
			input:         RegisterInput{Username: "mallory", Email: "m@example.com", Password: "password123", Role: "admin"},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service, _ := newTestAuthService(mockRepo, new(MockTokenStore))
			user, err := service.Register(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "alice@example.com", user.Email)
				assert.Equal(t, model.RoleStudent, user.Role)
				assert.NotEqual(t, tt.input.Password, user.PasswordHash)
				assert.NotEmpty(t, user.PasswordHash)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &model.User{ID: 7, Email: "test@example.com", PasswordHash: string(hash), Role: model.RoleCompany}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(7), model.RoleCompany, auth.RefreshTokenExpiry).Return(nil)
			},
		},
		{
			name:     "invalid credentials - user not found",
			email:    "notfound@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "invalid credentials - wrong password",
			email:    "test@example.com",
			password: "wrong",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			service, jwtService := newTestAuthService(mockRepo, mockTokenStore)
			accessToken, refreshToken, user, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, refreshToken)
				claims, err := jwtService.ValidateToken(accessToken)
				require.NoError(t, err)
				assert.Equal(t, uint(7), claims.UserID)
				assert.Equal(t, model.RoleCompany, claims.Role)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(3, model.RoleStudent)
	require.NoError(t, err)
	accessToken, err := jwtService.GenerateAccessToken(3, model.RoleStudent)
	require.NoError(t, err)

	t.Run("valid refresh token", func(t *testing.T) {
		store := new(MockTokenStore)
		store.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(3), model.RoleStudent, nil)
		service, _ := newTestAuthService(new(MockUserRepository), store)

		newAccess, err := service.RefreshToken(context.Background(), refreshToken)
		require.NoError(t, err)
		claims, err := jwtService.ValidateToken(newAccess)
		require.NoError(t, err)
		assert.True(t, claims.IsAccess())
		store.AssertExpectations(t)
	})

	t.Run("revoked refresh token", func(t *testing.T) {
		store := new(MockTokenStore)
		store.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(0), model.Role(""), assert.AnError)
		service, _ := newTestAuthService(new(MockUserRepository), store)

		_, err := service.RefreshToken(context.Background(), refreshToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		service, _ := newTestAuthService(new(MockUserRepository), new(MockTokenStore))

		_, err := service.RefreshToken(context.Background(), accessToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(3, model.RoleStudent)
	require.NoError(t, err)
	accessToken, err := jwtService.GenerateAccessToken(3, model.RoleStudent)
	require.NoError(t, err)
	access, err := jwtService.ValidateToken(accessToken)
	require.NoError(t, err)

	t.Run("revokes refresh and blacklists access", func(t *testing.T) {
		store := new(MockTokenStore)
		store.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)
		store.On("BlacklistAccessToken", mock.Anything, access.ID, mock.AnythingOfType("time.Duration")).Return(nil)
		service, _ := newTestAuthService(new(MockUserRepository), store)

		require.NoError(t, service.Logout(context.Background(), refreshToken, access))
		store.AssertExpectations(t)
	})

	t.Run("refresh token of another user", func(t *testing.T) {
		other := *access
		other.UserID = 4
		service, _ := newTestAuthService(new(MockUserRepository), new(MockTokenStore))

		err := service.Logout(context.Background(), refreshToken, &other)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})
}

func TestAuthService_Me(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByID", mock.Anything, uint(5)).Return(&model.User{ID: 5, Role: model.RoleStudent}, nil)
	repo.On("FindByID", mock.Anything, uint(6)).Return(nil, gorm.ErrRecordNotFound)
	service, _ := newTestAuthService(repo, new(MockTokenStore))

	user, err := service.Me(context.Background(), authz.NewIdentity(5, model.RoleStudent))
	require.NoError(t, err)
	assert.Equal(t, uint(5), user.ID)

	_, err = service.Me(context.Background(), authz.NewIdentity(6, model.RoleStudent))
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = service.Me(context.Background(), authz.Anonymous)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
}

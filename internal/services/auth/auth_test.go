package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/user-account-service/internal/lib/jwt"
	"github.com/magabrotheeeer/user-account-service/internal/lib/password"
	"github.com/magabrotheeeer/user-account-service/internal/models"
	"github.com/magabrotheeeer/user-account-service/internal/storage"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepositoryMock) GetUserByUID(ctx context.Context, uid string) (*models.User, error) {
	args := m.Called(ctx, uid)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepositoryMock) UpdateUser(ctx context.Context, uid, name, email string) (*models.User, error) {
	args := m.Called(ctx, uid, name, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepositoryMock) UpdatePassword(ctx context.Context, uid, passwordHash string) error {
	args := m.Called(ctx, uid, passwordHash)
	return args.Error(0)
}

func (m *UserRepositoryMock) DeleteUser(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

func (m *UserRepositoryMock) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*models.User)
	return users, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestService(repo UserRepository) (*AuthService, jwt.Maker) {
	maker := jwt.NewJWTMaker("test_secret_key_1234567890", 15*time.Minute)
	return NewAuthService(repo, maker, nil, nil, newNoopLogger(), time.Minute), maker
}

func TestAuthService_Register(t *testing.T) {
	repo := new(UserRepositoryMock)
	svc, maker := newTestService(repo)

	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "a@x.com" &&
			u.Role == models.RoleUser &&
			u.PasswordHash != "" &&
			u.PasswordHash != "secret1" &&
			password.CompareHash(u.PasswordHash, "secret1") == nil
	})).Return("uid-123", nil).Once()

	token, err := svc.Register(context.Background(), "Alice", "a@x.com", "secret1", "secret1")
	require.NoError(t, err)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "uid-123", claims.Subject)
	assert.Equal(t, models.RoleUser, claims.Role)

	repo.AssertExpectations(t)
}

func TestAuthService_Register_PasswordMismatch(t *testing.T) {
	repo := new(UserRepositoryMock)
	svc, _ := newTestService(repo)

	token, err := svc.Register(context.Background(), "Alice", "a@x.com", "secret1", "secret2")
	assert.Empty(t, token)
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := new(UserRepositoryMock)
	svc, _ := newTestService(repo)

	repo.On("CreateUser", mock.Anything, mock.Anything).
		Return("", fmt.Errorf("storage.CreateUser: %w", storage.ErrUserExists)).Once()

	token, err := svc.Register(context.Background(), "Alice", "a@x.com", "secret1", "secret1")
	assert.Empty(t, token)
	assert.ErrorIs(t, err, storage.ErrUserExists)
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.GetHash("secret1")
	require.NoError(t, err)

	user := &models.User{
		UID:          "uid-123",
		Name:         "Alice",
		Email:        "a@x.com",
		PasswordHash: hash,
		Role:         models.RoleUser,
	}

	tests := []struct {
		name        string
		email       string
		password    string
		repoUser    *models.User
		repoErr     error
		wantErr     error
		wantSubject string
	}{
		{
			name:        "valid credentials",
			email:       "a@x.com",
			password:    "secret1",
			repoUser:    user,
			wantSubject: "uid-123",
		},
		{
			name:     "wrong password",
			email:    "a@x.com",
			password: "wrong",
			repoUser: user,
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "b@x.com",
			password: "secret1",
			repoErr:  fmt.Errorf("storage.GetUserByEmail: %w", storage.ErrUserNotFound),
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "storage failure",
			email:    "a@x.com",
			password: "secret1",
			repoErr:  errors.New("connection refused"),
			wantErr:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepositoryMock)
			svc, maker := newTestService(repo)

			repo.On("GetUserByEmail", mock.Anything, tt.email).
				Return(tt.repoUser, tt.repoErr).Once()

			token, err := svc.Login(context.Background(), tt.email, tt.password)

			switch {
			case tt.wantSubject != "":
				require.NoError(t, err)
				claims, err := maker.ParseToken(token)
				require.NoError(t, err)
				assert.Equal(t, tt.wantSubject, claims.Subject)
			case tt.wantErr != nil:
				assert.Empty(t, token)
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				assert.Empty(t, token)
				require.Error(t, err)
				// Внутренний сбой не маскируется под неверные учетные данные.
				assert.NotErrorIs(t, err, ErrInvalidCredentials)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	oldHash, err := password.GetHash("oldpass1")
	require.NoError(t, err)

	user := &models.User{UID: "uid-123", PasswordHash: oldHash}

	t.Run("success", func(t *testing.T) {
		repo := new(UserRepositoryMock)
		svc, _ := newTestService(repo)

		repo.On("GetUserByUID", mock.Anything, "uid-123").Return(user, nil).Once()
		repo.On("UpdatePassword", mock.Anything, "uid-123", mock.MatchedBy(func(hash string) bool {
			// Старый пароль больше не подходит к новому хешу.
			return password.CompareHash(hash, "newpass1") == nil &&
				password.CompareHash(hash, "oldpass1") != nil
		})).Return(nil).Once()

		err := svc.ChangePassword(context.Background(), "uid-123", "oldpass1", "newpass1", "newpass1")
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("wrong old password", func(t *testing.T) {
		repo := new(UserRepositoryMock)
		svc, _ := newTestService(repo)

		repo.On("GetUserByUID", mock.Anything, "uid-123").Return(user, nil).Once()

		err := svc.ChangePassword(context.Background(), "uid-123", "wrong", "newpass1", "newpass1")
		assert.ErrorIs(t, err, ErrWrongPassword)
		repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("confirmation mismatch", func(t *testing.T) {
		repo := new(UserRepositoryMock)
		svc, _ := newTestService(repo)

		repo.On("GetUserByUID", mock.Anything, "uid-123").Return(user, nil).Once()

		err := svc.ChangePassword(context.Background(), "uid-123", "oldpass1", "newpass1", "other")
		assert.ErrorIs(t, err, ErrPasswordMismatch)
		repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_DeleteUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := new(UserRepositoryMock)
		svc, _ := newTestService(repo)

		repo.On("GetUserByUID", mock.Anything, "uid-123").
			Return(&models.User{UID: "uid-123", Email: "a@x.com"}, nil).Once()
		repo.On("DeleteUser", mock.Anything, "uid-123").Return(nil).Once()

		require.NoError(t, svc.DeleteUser(context.Background(), "uid-123"))
		repo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(UserRepositoryMock)
		svc, _ := newTestService(repo)

		repo.On("GetUserByUID", mock.Anything, "missing").
			Return(nil, fmt.Errorf("storage.GetUserByUID: %w", storage.ErrUserNotFound)).Once()

		err := svc.DeleteUser(context.Background(), "missing")
		assert.ErrorIs(t, err, storage.ErrUserNotFound)
		repo.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
	})
}

func TestAuthService_GetUser_NoCache(t *testing.T) {
	repo := new(UserRepositoryMock)
	svc, _ := newTestService(repo)

	want := &models.User{UID: "uid-123", Email: "a@x.com"}
	repo.On("GetUserByUID", mock.Anything, "uid-123").Return(want, nil).Once()

	got, err := svc.GetUser(context.Background(), "uid-123")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

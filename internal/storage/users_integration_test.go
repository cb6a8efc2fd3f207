package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/user-account-service/internal/migrations"
	"github.com/magabrotheeeer/user-account-service/internal/models"
)

func setupTestStorage(t *testing.T) (*Storage, func()) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(connStr)
	require.NoError(t, err)

	require.NoError(t, migrations.Run(storage.DB, "../../migrations"))

	cleanup := func() {
		_ = storage.Close()
		_ = pgContainer.Terminate(ctx)
	}
	return storage, cleanup
}

func newTestUser(email string) models.User {
	return models.User{
		UID:          uuid.NewString(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         models.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestStorage_CreateAndGetUser(t *testing.T) {
	storage, cleanup := setupTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	user := newTestUser("a@x.com")

	uid, err := storage.CreateUser(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, user.UID, uid)

	got, err := storage.GetUserByUID(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, user.PasswordHash, got.PasswordHash)
	assert.Equal(t, models.RoleUser, got.Role)

	// Поиск по email нечувствителен к регистру.
	got, err = storage.GetUserByEmail(ctx, "A@X.COM")
	require.NoError(t, err)
	assert.Equal(t, uid, got.UID)
}

func TestStorage_CreateUser_DuplicateEmail(t *testing.T) {
	storage, cleanup := setupTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	_, err := storage.CreateUser(ctx, newTestUser("a@x.com"))
	require.NoError(t, err)

	_, err = storage.CreateUser(ctx, newTestUser("A@x.com"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestStorage_GetUser_NotFound(t *testing.T) {
	storage, cleanup := setupTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	_, err := storage.GetUserByUID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = storage.GetUserByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_UpdateUser(t *testing.T) {
	storage, cleanup := setupTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	uid, err := storage.CreateUser(ctx, newTestUser("a@x.com"))
	require.NoError(t, err)
	_, err = storage.CreateUser(ctx, newTestUser("b@x.com"))
	require.NoError(t, err)

	updated, err := storage.UpdateUser(ctx, uid, "New Name", "new@x.com")
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "new@x.com", updated.Email)

	// Email другого пользователя занят.
	_, err = storage.UpdateUser(ctx, uid, "New Name", "b@x.com")
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = storage.UpdateUser(ctx, uuid.NewString(), "X", "x@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_UpdatePassword(t *testing.T) {
	storage, cleanup := setupTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	uid, err := storage.CreateUser(ctx, newTestUser("a@x.com"))
	require.NoError(t, err)

	require.NoError(t, storage.UpdatePassword(ctx, uid, "newhash"))

	got, err := storage.GetUserByUID(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "newhash", got.PasswordHash)

	err = storage.UpdatePassword(ctx, uuid.NewString(), "newhash")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_DeleteUser(t *testing.T) {
	storage, cleanup := setupTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	uid, err := storage.CreateUser(ctx, newTestUser("a@x.com"))
	require.NoError(t, err)

	require.NoError(t, storage.DeleteUser(ctx, uid))

	_, err = storage.GetUserByUID(ctx, uid)
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = storage.DeleteUser(ctx, uid)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_ListUsers(t *testing.T) {
	storage, cleanup := setupTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	users, err := storage.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = storage.CreateUser(ctx, newTestUser("a@x.com"))
	require.NoError(t, err)
	_, err = storage.CreateUser(ctx, newTestUser("b@x.com"))
	require.NoError(t, err)

	users, err = storage.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

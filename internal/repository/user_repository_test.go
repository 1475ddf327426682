package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockUserRepo(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepo(db), mock
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	mock.ExpectExec("INSERT INTO users (username, email, password_hash, profile_picture_url) VALUES (?,?,?,?)").
		WithArgs("wira", "wira@example.com", "$2a$hash", "https://is3.cloudhost.id/artefacto/assets/profilepicture/pp-default.jpg").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'wira@example.com' for key 'users.email'"))

	_, err := repo.Create(context.Background(), "wira", "wira@example.com", "$2a$hash",
		"https://is3.cloudhost.id/artefacto/assets/profilepicture/pp-default.jpg")
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByEmailNormalizes(t *testing.T) {
	repo, mock := newMockUserRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT " + userColumns + " FROM users WHERE email=? LIMIT 1").
		WithArgs("wira@example.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "username", "email", "password_hash", "is_admin",
			"profile_picture_url", "created_at", "updated_at",
		}).AddRow(3, "wira", "wira@example.com", "$2a$hash", false, "url", now, now))

	u, err := repo.GetByEmail(context.Background(), "  Wira@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), u.ID)
	assert.False(t, u.IsAdmin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByIDNotFound(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	mock.ExpectQuery("SELECT " + userColumns + " FROM users WHERE id=? LIMIT 1").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserDeleteMissing(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	mock.ExpectExec("DELETE FROM users WHERE id=?").
		WithArgs(uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 4), ErrNotFound)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artefacto/heritage-api/internal/repository"
)

func userRow(isAdmin bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "username", "email", "password_hash", "is_admin",
		"profile_picture_url", "created_at", "updated_at",
	}).AddRow(3, "wira", "wira@example.com", "$2a$hash", isAdmin, "url", now, now)
}

func runRequireAdmin(t *testing.T, rows *sqlmock.Rows, uid uint64) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	if rows != nil {
		mock.ExpectQuery("SELECT .* FROM users").WillReturnRows(rows)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/temples", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if uid != 0 {
		c.Set(ContextUserID, uid)
	}

	reached := false
	handler := RequireAdmin(repository.NewUserRepo(db))(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, reached
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	rec, reached := runRequireAdmin(t, userRow(true), 3)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

func TestRequireAdminRejectsRegularUser(t *testing.T) {
	rec, reached := runRequireAdmin(t, userRow(false), 3)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
}

func TestRequireAdminRejectsUnknownUser(t *testing.T) {
	rec, reached := runRequireAdmin(t, sqlmock.NewRows([]string{"id"}), 3)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestRequireAdminRejectsMissingIdentity(t *testing.T) {
	rec, reached := runRequireAdmin(t, nil, 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

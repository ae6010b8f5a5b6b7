package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dormfix/internal/model"
	"github.com/iliyamo/dormfix/internal/repository"
)

func runApproved(t *testing.T, users *repository.UserRepo, userID uint64, role string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("role", role)
	h := RequireApproved(users)(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	require.NoError(t, h(c))
	return rec
}

func TestRequireApprovedLandlordSkipsLookup(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec := runApproved(t, repository.NewUserRepo(db), 1, model.RoleLandlord)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet()) // no query ran
}

func TestRequireApprovedBlocksPendingTenant(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT is_approved FROM users").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"is_approved"}).AddRow(false))

	rec := runApproved(t, repository.NewUserRepo(db), 9, model.RoleTenant)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "pending landlord approval")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireApprovedPassesApprovedTenant(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT is_approved FROM users").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"is_approved"}).AddRow(true))

	rec := runApproved(t, repository.NewUserRepo(db), 9, model.RoleTenant)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

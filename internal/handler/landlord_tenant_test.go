package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dormfix/internal/model"
	"github.com/iliyamo/dormfix/internal/repository"
)

func newTenantHandler(t *testing.T) (*LandlordTenantHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewLandlordTenantHandler(repository.NewUserRepo(db), repository.NewAssignmentRepo(db), repository.NewTokenRepo(db)), mock
}

func assignmentRow(tenantID, landlordID uint64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "tenant_id", "landlord_id", "room_number", "move_in_date", "created_at", "updated_at"}).
		AddRow(33, tenantID, landlordID, model.UnassignedRoom, nil, now, now)
}

func TestUpdateTenantStatusRequiresFlag(t *testing.T) {
	h, _ := newTenantHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/users/9/status", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("9")
	c.Set("user_id", uint64(1))
	c.Set("role", model.RoleLandlord)

	require.NoError(t, h.UpdateTenantStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "isApproved")
}

func TestUpdateTenantStatusApprove(t *testing.T) {
	h, mock := newTenantHandler(t)

	mock.ExpectQuery("FROM dorm_assignments WHERE tenant_id=").
		WithArgs(uint64(9)).
		WillReturnRows(assignmentRow(9, 1))
	mock.ExpectExec("UPDATE users SET is_approved=1").
		WithArgs(uint64(9), model.RoleTenant).
		WillReturnResult(sqlmock.NewResult(0, 1))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/users/9/status", strings.NewReader(`{"isApproved":true}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("9")
	c.Set("user_id", uint64(1))
	c.Set("role", model.RoleLandlord)

	require.NoError(t, h.UpdateTenantStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isApproved":true`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTenantStatusForeignTenant(t *testing.T) {
	h, mock := newTenantHandler(t)

	// Tenant 9 is linked to landlord 2, not the caller.
	mock.ExpectQuery("FROM dorm_assignments WHERE tenant_id=").
		WithArgs(uint64(9)).
		WillReturnRows(assignmentRow(9, 2))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/users/9/status", strings.NewReader(`{"isApproved":true}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("9")
	c.Set("user_id", uint64(1))
	c.Set("role", model.RoleLandlord)

	require.NoError(t, h.UpdateTenantStatus(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Rejecting a tenant must clear every row referencing the account in
// one transaction, in FK order: assignment, refresh tokens, then the
// user. A surviving refresh token would let a deleted tenant keep
// refreshing access tokens. The ordered sqlmock expectations pin the
// sequence.
func TestRejectTenantRemovesAssignmentTokensThenUser(t *testing.T) {
	h, mock := newTenantHandler(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM dorm_assignments WHERE tenant_id=").
		WithArgs(uint64(9), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM refresh_tokens WHERE user_id=").
		WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 2)) // two device sessions purged
	mock.ExpectExec("DELETE FROM users WHERE id=").
		WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/landlord/reject/9", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("tenantId")
	c.SetParamValues("9")
	c.Set("user_id", uint64(1))
	c.Set("role", model.RoleLandlord)

	require.NoError(t, h.RejectTenant(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"removed":true`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectTenantUnknownTenant(t *testing.T) {
	h, mock := newTenantHandler(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM dorm_assignments WHERE tenant_id=").
		WithArgs(uint64(404), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/landlord/reject/404", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("tenantId")
	c.SetParamValues("404")
	c.Set("user_id", uint64(1))
	c.Set("role", model.RoleLandlord)

	require.NoError(t, h.RejectTenant(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

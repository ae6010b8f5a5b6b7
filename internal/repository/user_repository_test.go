package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dormfix/internal/model"
)

func newMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepo(db), mock
}

func TestCreateTxDuplicateEmail(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'a@b.c' for key 'users.email'"))
	mock.ExpectRollback()

	tx, err := repo.DB.Begin()
	require.NoError(t, err)

	u := model.User{Name: "Ana", Email: "a@b.c", Role: model.RoleTenant, DormFixID: "TN-AAAA1111"}
	err = repo.CreateTx(context.Background(), tx, &u, "pw", 4)
	assert.ErrorIs(t, err, ErrEmailExists)
	_ = tx.Rollback()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTxPopulatesID(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WithArgs("Ana", "a@b.c", sqlmock.AnyArg(), model.RoleTenant, "TN-AAAA1111", false).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	tx, err := repo.DB.Begin()
	require.NoError(t, err)

	u := model.User{Name: "Ana", Email: " A@B.C ", Role: model.RoleTenant, DormFixID: "TN-AAAA1111"}
	require.NoError(t, repo.CreateTx(context.Background(), tx, &u, "pw", 4))
	require.NoError(t, tx.Commit())

	assert.Equal(t, uint64(7), u.ID)
	assert.Equal(t, "a@b.c", u.Email) // normalized
	assert.NotEmpty(t, u.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindLandlordByJoinCode(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT id FROM users WHERE dorm_fix_id=").
		WithArgs("DF-12345678", model.RoleLandlord).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	id, err := repo.FindLandlordByJoinCode(context.Background(), " df-12345678 ")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindLandlordByJoinCodeUnknown(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT id FROM users WHERE dorm_fix_id=").
		WithArgs("DF-NOPE", model.RoleLandlord).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindLandlordByJoinCode(context.Background(), "DF-NOPE")
	assert.ErrorIs(t, err, ErrInvalidJoinCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveIsIdempotent(t *testing.T) {
	repo, mock := newMock(t)

	// First approval changes the row, second changes nothing. Both succeed.
	mock.ExpectExec("UPDATE users SET is_approved=1").
		WithArgs(uint64(5), model.RoleTenant).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users SET is_approved=1").
		WithArgs(uint64(5), model.RoleTenant).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Approve(context.Background(), 5))
	assert.NoError(t, repo.Approve(context.Background(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTenantsByLandlord(t *testing.T) {
	repo, mock := newMock(t)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "dorm_fix_id", "is_approved", "room_number"}).
		AddRow(9, "Newest", "new@x.y", "TN-11111111", false, model.UnassignedRoom).
		AddRow(2, "Older", "old@x.y", "TN-22222222", true, "101")

	mock.ExpectQuery("JOIN dorm_assignments").
		WithArgs(uint64(1)).
		WillReturnRows(rows)

	tenants, err := repo.ListTenantsByLandlord(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, tenants, 2)
	assert.Equal(t, "Newest", tenants[0].Name)
	assert.False(t, tenants[0].IsApproved)
	assert.Equal(t, model.UnassignedRoom, tenants[0].RoomNumber)
	assert.Equal(t, "101", tenants[1].RoomNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmail(t *testing.T) {
	repo, mock := newMock(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "dorm_fix_id", "is_approved", "created_at", "updated_at"}).
		AddRow(4, "Lia", "lia@x.y", "hash", model.RoleLandlord, "DF-ABCDEF01", true, now, now)

	mock.ExpectQuery("SELECT id,name,email,password_hash,role,dorm_fix_id,is_approved,created_at,updated_at FROM users WHERE email=").
		WithArgs("lia@x.y").
		WillReturnRows(rows)

	u, err := repo.GetByEmail(context.Background(), " LIA@x.y ")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), u.ID)
	assert.Equal(t, model.RoleLandlord, u.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTxMissingTenant(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM users WHERE id=").
		WithArgs(uint64(77)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := repo.DB.Begin()
	require.NoError(t, err)
	err = repo.DeleteTx(context.Background(), tx, 77)
	assert.ErrorIs(t, err, ErrTenantNotFound)
	_ = tx.Rollback()

	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dormfix/internal/model"
)

func newAssignMock(t *testing.T) (*AssignmentRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAssignmentRepo(db), mock
}

func TestCreateTxUsesUnassignedSentinel(t *testing.T) {
	repo, mock := newAssignMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO dorm_assignments").
		WithArgs(uint64(9), uint64(1), model.UnassignedRoom).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := repo.DB().Begin()
	require.NoError(t, err)
	require.NoError(t, repo.CreateTx(context.Background(), tx, 9, 1))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByRoomTx(t *testing.T) {
	repo, mock := newAssignMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM dorm_assignments").
		WithArgs(uint64(1), "101").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectCommit()

	tx, err := repo.DB().Begin()
	require.NoError(t, err)
	n, err := repo.CountByRoomTx(context.Background(), tx, 1, "101")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), n)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignRoomTxUnlinkedTenant(t *testing.T) {
	repo, mock := newAssignMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM dorm_assignments WHERE tenant_id=").
		WithArgs(uint64(9), uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	tx, err := repo.DB().Begin()
	require.NoError(t, err)
	err = repo.AssignRoomTx(context.Background(), tx, 9, 1, "101")
	assert.ErrorIs(t, err, ErrTenantNotFound)
	_ = tx.Rollback()
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignRoomTxRewritesRow(t *testing.T) {
	repo, mock := newAssignMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM dorm_assignments WHERE tenant_id=").
		WithArgs(uint64(9), uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(33))
	mock.ExpectExec("UPDATE dorm_assignments SET room_number=").
		WithArgs("101", uint64(33)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := repo.DB().Begin()
	require.NoError(t, err)
	require.NoError(t, repo.AssignRoomTx(context.Background(), tx, 9, 1, "101"))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByTenantNullMoveIn(t *testing.T) {
	repo, mock := newAssignMock(t)

	now := time.Now()
	mock.ExpectQuery("FROM dorm_assignments WHERE tenant_id=").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "landlord_id", "room_number", "move_in_date", "created_at", "updated_at"}).
			AddRow(33, 9, 1, model.UnassignedRoom, nil, now, now))

	a, err := repo.GetByTenant(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, model.UnassignedRoom, a.RoomNumber)
	assert.Nil(t, a.MoveInDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByTenantTxScopedToLandlord(t *testing.T) {
	repo, mock := newAssignMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM dorm_assignments WHERE tenant_id=").
		WithArgs(uint64(9), uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := repo.DB().Begin()
	require.NoError(t, err)
	// Tenant 9 belongs to landlord 1, so landlord 2 matches nothing.
	err = repo.DeleteByTenantTx(context.Background(), tx, 9, 2)
	assert.ErrorIs(t, err, ErrTenantNotFound)
	_ = tx.Rollback()
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/dormfix/internal/model"
)

// AssignmentRepo manages dorm_assignments, the link table between tenants
// and landlord properties. A tenant owns at most one row (unique key on
// tenant_id); the row is created at registration with the Unassigned
// sentinel and rewritten by the assignment engine.
type AssignmentRepo struct {
	db *sql.DB
}

// NewAssignmentRepo returns an AssignmentRepo bound to the given database.
func NewAssignmentRepo(db *sql.DB) *AssignmentRepo { return &AssignmentRepo{db: db} }

// DB exposes the underlying handle for handler-owned transactions.
func (r *AssignmentRepo) DB() *sql.DB { return r.db }

// CreateTx inserts the initial assignment row for a freshly registered
// tenant, linked to the landlord but with the Unassigned sentinel room.
// Runs in the registration transaction so a failed insert also rolls the
// user row back.
func (r *AssignmentRepo) CreateTx(ctx context.Context, tx *sql.Tx, tenantID, landlordID uint64) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO dorm_assignments (tenant_id, landlord_id, room_number) VALUES (?,?,?)",
		tenantID, landlordID, model.UnassignedRoom)
	return err
}

// CountByRoomTx counts the tenants currently assigned to a landlord's
// room. Must be called after the room row is locked so the count cannot
// race a concurrent assignment.
func (r *AssignmentRepo) CountByRoomTx(ctx context.Context, tx *sql.Tx, landlordID uint64, roomNumber string) (uint32, error) {
	var n uint32
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM dorm_assignments WHERE landlord_id=? AND room_number=?",
		landlordID, roomNumber).Scan(&n)
	return n, err
}

// AssignRoomTx points the tenant's assignment at a concrete room and
// stamps the move-in date. The tenant must already be linked to this
// landlord; a missing link maps to ErrTenantNotFound. The row is locked
// first so a concurrent reject cannot delete it mid-flight.
func (r *AssignmentRepo) AssignRoomTx(ctx context.Context, tx *sql.Tx, tenantID, landlordID uint64, roomNumber string) error {
	var id uint64
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM dorm_assignments WHERE tenant_id=? AND landlord_id=? FOR UPDATE",
		tenantID, landlordID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTenantNotFound
		}
		return err
	}
	_, err = tx.ExecContext(ctx,
		"UPDATE dorm_assignments SET room_number=?, move_in_date=CURDATE(), updated_at=CURRENT_TIMESTAMP WHERE id=?",
		roomNumber, id)
	return err
}

// GetByTenant returns the tenant's assignment, or sql.ErrNoRows when the
// tenant has none (unlinked account).
func (r *AssignmentRepo) GetByTenant(ctx context.Context, tenantID uint64) (model.DormAssignment, error) {
	var a model.DormAssignment
	var moveIn sql.NullTime
	err := r.db.QueryRowContext(ctx,
		"SELECT id, tenant_id, landlord_id, room_number, move_in_date, created_at, updated_at FROM dorm_assignments WHERE tenant_id=? LIMIT 1",
		tenantID).Scan(&a.ID, &a.TenantID, &a.LandlordID, &a.RoomNumber, &moveIn, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return a, err
	}
	if moveIn.Valid {
		t := moveIn.Time
		a.MoveInDate = &t
	}
	return a, nil
}

// DeleteByTenantTx removes the tenant's assignment inside the reject
// transaction, scoped to the calling landlord so one landlord cannot
// unlink another's tenant. Returns ErrTenantNotFound when no row matched.
func (r *AssignmentRepo) DeleteByTenantTx(ctx context.Context, tx *sql.Tx, tenantID, landlordID uint64) error {
	res, err := tx.ExecContext(ctx,
		"DELETE FROM dorm_assignments WHERE tenant_id=? AND landlord_id=?",
		tenantID, landlordID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTenantNotFound
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/dormfix/internal/model"
	"github.com/iliyamo/dormfix/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// CreateTx inserts a user within an existing transaction and populates the
// generated ID. Registration creates the user row and, for tenants, the
// assignment row atomically, so the caller owns the transaction. A unique
// key violation on email maps to ErrEmailExists.
func (r *UserRepo) CreateTx(ctx context.Context, tx *sql.Tx, u *model.User, password string, cost int) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, dorm_fix_id, is_approved) VALUES (?,?,?,?,?,?)",
		u.Name, u.Email, u.PasswordHash, u.Role, u.DormFixID, u.IsApproved)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,role,dorm_fix_id,is_approved,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.DormFixID, &u.IsApproved, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,role,dorm_fix_id,is_approved,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.DormFixID, &u.IsApproved, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// FindLandlordByJoinCode resolves a join code to the owning landlord's ID.
// Only landlord accounts are considered; a code that matches nothing maps
// to ErrInvalidJoinCode.
func (r *UserRepo) FindLandlordByJoinCode(ctx context.Context, code string) (uint64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	var id uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM users WHERE dorm_fix_id=? AND role=? LIMIT 1",
		code, model.RoleLandlord).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, ErrInvalidJoinCode
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Approve marks a tenant account as approved. The update is idempotent:
// approving an already-approved tenant changes nothing and succeeds.
func (r *UserRepo) Approve(ctx context.Context, tenantID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_approved=1 WHERE id=? AND role=?",
		tenantID, model.RoleTenant)
	return err
}

// IsApproved reports the approval flag for a user. Used by the
// authorization middleware that gates tenant routes.
func (r *UserRepo) IsApproved(ctx context.Context, id uint64) (bool, error) {
	var approved bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT is_approved FROM users WHERE id=? LIMIT 1", id).Scan(&approved)
	if err != nil {
		return false, err
	}
	return approved, nil
}

// DeleteTx removes a user row within a transaction. The reject flow
// deletes the tenant's assignment first to satisfy foreign key ordering.
func (r *UserRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTenantNotFound
	}
	return nil
}

// TenantRow is the landlord's view of a linked tenant: account fields plus
// approval state and the room the tenant currently occupies (possibly the
// Unassigned sentinel).
type TenantRow struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	DormFixID  string `json:"dormFixId"`
	IsApproved bool   `json:"isApproved"`
	RoomNumber string `json:"roomNumber"`
}

// ListTenantsByLandlord returns every tenant linked to the landlord via a
// dorm assignment, newest application first.
func (r *UserRepo) ListTenantsByLandlord(ctx context.Context, landlordID uint64) ([]TenantRow, error) {
	const q = `SELECT u.id, u.name, u.email, u.dorm_fix_id, u.is_approved, a.room_number
	           FROM users u
	           JOIN dorm_assignments a ON a.tenant_id = u.id
	           WHERE a.landlord_id = ?
	           ORDER BY u.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, q, landlordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]TenantRow, 0)
	for rows.Next() {
		var t TenantRow
		if err := rows.Scan(&t.ID, &t.Name, &t.Email, &t.DormFixID, &t.IsApproved, &t.RoomNumber); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/dormfix/internal/model"
)

// MaintenanceRepo provides CRUD operations for maintenance tickets.
// Tenants create tickets and read their own; landlords read a joined view
// across all their tenants and drive the status lifecycle.
type MaintenanceRepo struct {
	db *sql.DB
}

// NewMaintenanceRepo returns a MaintenanceRepo bound to the given database.
func NewMaintenanceRepo(db *sql.DB) *MaintenanceRepo { return &MaintenanceRepo{db: db} }

// DB exposes the underlying handle for handler-owned transactions.
func (r *MaintenanceRepo) DB() *sql.DB { return r.db }

// Create inserts a ticket with status Pending and populates the generated
// ID and submission timestamp on the model.
func (r *MaintenanceRepo) Create(ctx context.Context, req *model.MaintenanceRequest) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO maintenance_requests (tenant_id, issue_type, description, urgency, status) VALUES (?,?,?,?,?)",
		req.TenantID, req.IssueType, req.Description, req.Urgency, model.StatusPending)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	req.ID = uint64(id)
	req.Status = model.StatusPending
	const sel = `SELECT date_submitted FROM maintenance_requests WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, req.ID).Scan(&req.DateSubmitted)
}

// ListByTenant returns the tenant's own tickets, newest first.
func (r *MaintenanceRepo) ListByTenant(ctx context.Context, tenantID uint64) ([]model.MaintenanceRequest, error) {
	const q = `SELECT id, tenant_id, date_submitted, issue_type, description, urgency, status, admin_remarks
	           FROM maintenance_requests
	           WHERE tenant_id = ?
	           ORDER BY date_submitted DESC`
	rows, err := r.db.QueryContext(ctx, q, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.MaintenanceRequest, 0)
	for rows.Next() {
		var m model.MaintenanceRequest
		var remarks sql.NullString
		if err := rows.Scan(&m.ID, &m.TenantID, &m.DateSubmitted, &m.IssueType, &m.Description, &m.Urgency, &m.Status, &remarks); err != nil {
			return nil, err
		}
		if remarks.Valid {
			s := remarks.String
			m.AdminRemarks = &s
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LandlordTicket extends a ticket with the tenant's name and current room
// for the landlord triage table.
type LandlordTicket struct {
	ID            uint64  `json:"id"`
	TenantID      uint64  `json:"tenantId"`
	TenantName    string  `json:"tenantName"`
	RoomNumber    string  `json:"roomNumber"`
	DateSubmitted string  `json:"dateSubmitted"`
	IssueType     string  `json:"issueType"`
	Description   string  `json:"description"`
	Urgency       string  `json:"urgency"`
	Status        string  `json:"status"`
	AdminRemarks  *string `json:"adminRemarks,omitempty"`
}

// ListByLandlord returns tickets from every tenant linked to the landlord.
// Ordering is the triage order: Emergency first, then High, then Medium
// and Low together, newest submission first within each bucket.
func (r *MaintenanceRepo) ListByLandlord(ctx context.Context, landlordID uint64) ([]LandlordTicket, error) {
	const q = `SELECT m.id, m.tenant_id, u.name, a.room_number,
	                  m.date_submitted, m.issue_type, m.description, m.urgency, m.status, m.admin_remarks
	           FROM maintenance_requests m
	           JOIN users u ON u.id = m.tenant_id
	           JOIN dorm_assignments a ON a.tenant_id = m.tenant_id
	           WHERE a.landlord_id = ?
	           ORDER BY CASE m.urgency
	                      WHEN 'Emergency' THEN 0
	                      WHEN 'High' THEN 1
	                      ELSE 2
	                    END,
	                    m.date_submitted DESC`
	rows, err := r.db.QueryContext(ctx, q, landlordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]LandlordTicket, 0)
	for rows.Next() {
		var t LandlordTicket
		var submitted sql.NullTime
		var remarks sql.NullString
		if err := rows.Scan(&t.ID, &t.TenantID, &t.TenantName, &t.RoomNumber,
			&submitted, &t.IssueType, &t.Description, &t.Urgency, &t.Status, &remarks); err != nil {
			return nil, err
		}
		if submitted.Valid {
			t.DateSubmitted = submitted.Time.UTC().Format("2006-01-02")
		}
		if remarks.Valid {
			s := remarks.String
			t.AdminRemarks = &s
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetForStatusUpdateTx locks a ticket row and verifies that it belongs to
// one of the landlord's tenants. Returns the current status so the strict
// transition check can run against it. ErrRequestNotFound when the ticket
// does not exist, ErrForbidden when it belongs to another landlord's
// tenant.
func (r *MaintenanceRepo) GetForStatusUpdateTx(ctx context.Context, tx *sql.Tx, ticketID, landlordID uint64) (string, error) {
	const q = `SELECT m.status, a.landlord_id
	           FROM maintenance_requests m
	           JOIN dorm_assignments a ON a.tenant_id = m.tenant_id
	           WHERE m.id = ?
	           FOR UPDATE`
	var status string
	var actualLandlordID uint64
	err := tx.QueryRowContext(ctx, q, ticketID).Scan(&status, &actualLandlordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrRequestNotFound
		}
		return "", err
	}
	if actualLandlordID != landlordID {
		return "", ErrForbidden
	}
	return status, nil
}

// UpdateStatusTx writes the new status and optional landlord remarks.
func (r *MaintenanceRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, ticketID uint64, status string, remarks *string) error {
	if remarks != nil {
		_, err := tx.ExecContext(ctx,
			"UPDATE maintenance_requests SET status=?, admin_remarks=? WHERE id=?",
			status, *remarks, ticketID)
		return err
	}
	_, err := tx.ExecContext(ctx,
		"UPDATE maintenance_requests SET status=? WHERE id=?",
		status, ticketID)
	return err
}

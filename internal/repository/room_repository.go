package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/dormfix/internal/model"
)

// RoomRepo provides persistence for rooms and the occupancy view used by
// the landlord dashboard. Occupancy is never stored; it is always derived
// by counting dorm_assignments so the number cannot drift.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span rooms and assignments.
func (r *RoomRepo) DB() *sql.DB { return r.db }

// Create inserts a room for a landlord. The (landlord_id, room_number)
// unique key maps violations to ErrDuplicateRoom. The generated ID and
// timestamps are read back onto the model.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO rooms (landlord_id, room_number, capacity) VALUES (?,?,?)",
		room.LandlordID, room.RoomNumber, room.Capacity)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateRoom
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)
	const sel = `SELECT id, landlord_id, room_number, capacity, created_at FROM rooms WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, room.ID).
		Scan(&room.ID, &room.LandlordID, &room.RoomNumber, &room.Capacity, &room.CreatedAt)
}

// RoomOccupancy is a room plus its live occupant count, shaped for the
// landlord room list and the assignment modal.
type RoomOccupancy struct {
	ID               uint64 `json:"id"`
	RoomNumber       string `json:"room_number"`
	Capacity         uint32 `json:"capacity"`
	CurrentOccupants uint32 `json:"currentOccupants"`
}

// ListByLandlord returns the landlord's rooms with current occupant
// counts. Rooms the sentinel assignment points at are never real rooms,
// so counting by room_number is safe within one landlord.
func (r *RoomRepo) ListByLandlord(ctx context.Context, landlordID uint64) ([]RoomOccupancy, error) {
	const q = `SELECT r.id, r.room_number, r.capacity,
	                  (SELECT COUNT(*) FROM dorm_assignments a
	                   WHERE a.landlord_id = r.landlord_id AND a.room_number = r.room_number) AS occupants
	           FROM rooms r
	           WHERE r.landlord_id = ?
	           ORDER BY r.room_number`
	rows, err := r.db.QueryContext(ctx, q, landlordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RoomOccupancy, 0)
	for rows.Next() {
		var ro RoomOccupancy
		if err := rows.Scan(&ro.ID, &ro.RoomNumber, &ro.Capacity, &ro.CurrentOccupants); err != nil {
			return nil, err
		}
		out = append(out, ro)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetForUpdateTx loads a room by (landlord_id, room_number) and takes a
// row lock on it. The assignment engine relies on this lock to serialize
// the capacity check against concurrent inserts: two assignments racing
// for the last free slot queue up here, and the loser re-counts after the
// winner committed. Returns ErrRoomNotFound when the room is absent or
// owned by another landlord.
func (r *RoomRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, landlordID uint64, roomNumber string) (*model.Room, error) {
	const q = `SELECT id, landlord_id, room_number, capacity, created_at
	           FROM rooms
	           WHERE landlord_id = ? AND room_number = ?
	           FOR UPDATE`
	var room model.Room
	err := tx.QueryRowContext(ctx, q, landlordID, roomNumber).
		Scan(&room.ID, &room.LandlordID, &room.RoomNumber, &room.Capacity, &room.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

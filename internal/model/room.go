package model

import "time"

// UnassignedRoom is the sentinel room number written into a tenant's
// assignment at registration: the tenant is linked to the landlord but
// not yet housed.
const UnassignedRoom = "Unassigned"

// Room is a rentable unit owned by exactly one landlord. The pair
// (LandlordID, RoomNumber) is unique. Capacity bounds how many tenants
// may hold an assignment pointing at this room.
type Room struct {
	ID         uint64    // rooms.id
	LandlordID uint64    // rooms.landlord_id
	RoomNumber string    // rooms.room_number
	Capacity   uint32    // rooms.capacity
	CreatedAt  time.Time // rooms.created_at
}

// DormAssignment links a tenant to a landlord's property and, once housed,
// to a concrete room. Every tenant has at most one assignment row; it is
// created at registration with the UnassignedRoom sentinel and updated by
// the assignment engine.
type DormAssignment struct {
	ID         uint64     // dorm_assignments.id
	TenantID   uint64     // dorm_assignments.tenant_id (unique)
	LandlordID uint64     // dorm_assignments.landlord_id
	RoomNumber string     // dorm_assignments.room_number
	MoveInDate *time.Time // dorm_assignments.move_in_date (nullable)
	CreatedAt  time.Time  // dorm_assignments.created_at
	UpdatedAt  time.Time  // dorm_assignments.updated_at
}

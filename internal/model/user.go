package model

import "time"

// Role names stored in the users.role column. Landlords own rooms and
// triage tickets; tenants submit tickets and hold at most one assignment.
const (
	RoleTenant   = "tenant"
	RoleLandlord = "landlord"
)

// User represents an application user record as stored in the `users`
// table. Each field corresponds to a column. The json tags are omitted
// because these structs are used internally; handlers define separate
// response types with appropriate JSON tags.
//
// DormFixID is a display identifier for tenants and doubles as the join
// code for landlords: a tenant supplies it at registration to link to the
// landlord's property.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role (tenant | landlord)
	DormFixID    string    // users.dorm_fix_id
	IsApproved   bool      // users.is_approved
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Each refresh
// token belongs to a user and carries metadata for expiry and revocation.
// The plain token is never stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}

package utils

import (
	"strings"

	"github.com/google/uuid"
)

// DormFix IDs double as join codes for landlords: a tenant types the code
// during registration to link to the landlord's property. Tenants get one
// too, but theirs is cosmetic and never resolved.
//
// Codes are derived from a v4 UUID so that collisions are vanishingly
// unlikely without a uniqueness check against the users table.

// NewLandlordCode returns a join code like "DF-3F2A9C1B".
func NewLandlordCode() string {
	return "DF-" + shortUUID()
}

// NewTenantCode returns a display identifier like "TN-7E41D08A".
func NewTenantCode() string {
	return "TN-" + shortUUID()
}

// shortUUID takes the first hex group of a fresh UUID, upper-cased.
func shortUUID() string {
	id := uuid.NewString() // e.g. "3f2a9c1b-...."
	return strings.ToUpper(id[:8])
}

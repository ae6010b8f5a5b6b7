package model

import "time"

// Maintenance ticket statuses. Completed and Rejected are terminal when
// strict transitions are enabled; otherwise landlords may set any status.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusRejected   = "Rejected"
)

// Urgency levels, from least to most pressing. Landlord listings sort
// Emergency first, then High, then Medium and Low together.
const (
	UrgencyLow       = "Low"
	UrgencyMedium    = "Medium"
	UrgencyHigh      = "High"
	UrgencyEmergency = "Emergency"
)

// Issue categories offered by the tenant form. Stored as free text so the
// set can grow without a migration.
const (
	IssuePlumbing   = "Plumbing"
	IssueElectrical = "Electrical"
	IssueAppliance  = "Appliance"
	IssueStructural = "Structural"
	IssueOther      = "Other"
)

// ValidStatus reports whether s is one of the four ticket statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// ValidUrgency reports whether u is one of the four urgency levels.
func ValidUrgency(u string) bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyEmergency:
		return true
	}
	return false
}

// CanTransition reports whether a ticket may move from one status to
// another under the strict transition graph: Pending feeds In Progress,
// Completed or Rejected; In Progress feeds Completed or Rejected; the
// terminal states feed nothing. Setting the same status twice is allowed
// so landlord retries stay idempotent.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusPending:
		return to == StatusInProgress || to == StatusCompleted || to == StatusRejected
	case StatusInProgress:
		return to == StatusCompleted || to == StatusRejected
	}
	return false
}

// MaintenanceRequest mirrors the maintenance_requests table. AdminRemarks
// holds optional landlord feedback shown to the tenant.
type MaintenanceRequest struct {
	ID            uint64    // maintenance_requests.id
	TenantID      uint64    // maintenance_requests.tenant_id
	DateSubmitted time.Time // maintenance_requests.date_submitted
	IssueType     string    // maintenance_requests.issue_type
	Description   string    // maintenance_requests.description
	Urgency       string    // maintenance_requests.urgency
	Status        string    // maintenance_requests.status
	AdminRemarks  *string   // maintenance_requests.admin_remarks (nullable)
}

// Package queue defines message payloads exchanged over the message broker.
package queue

// MaintenanceSubmittedEvent is published when a tenant files a new
// maintenance request. It carries enough information for downstream
// consumers to log or notify without querying the primary database.
type MaintenanceSubmittedEvent struct {
	RequestID   uint64 `json:"request_id"`
	TenantID    uint64 `json:"tenant_id"`
	TenantName  string `json:"tenant_name"`
	RoomNumber  string `json:"room_number"`
	IssueType   string `json:"issue_type"`
	Description string `json:"description"`
	Urgency     string `json:"urgency"`
	SubmittedAt string `json:"submitted_at"`
}

// file: model/audit.go

package model

import "time"

// AuditLog records access to protected health information. Entries are
// append-only; the ID and timestamp are assigned by the database.
type AuditLog struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	ResourceType string    `json:"resource_type"`
	ResourceID   int       `json:"resource_id"`
	Action       string    `json:"action"`
	Description  string    `json:"description,omitempty"`
	IPAddress    string    `json:"ip_address,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

package entities

import "time"

type AuditAction string

const (
	AuditActionCreate     AuditAction = "create"
	AuditActionUpdate     AuditAction = "update"
	AuditActionDelete     AuditAction = "delete"
	AuditActionBulkDelete AuditAction = "bulk_delete"
	AuditActionUpload     AuditAction = "upload"
	AuditActionLogin      AuditAction = "login"
	AuditActionLogout     AuditAction = "logout"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuditEvent is one entry of the CMS write trail.
type AuditEvent struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Actor       string      `gorm:"index;size:255" json:"actor"` // Principal email or provider subject
	ActorSource string      `gorm:"size:20" json:"actorSource"`
	Action      AuditAction `gorm:"index;size:20" json:"action"`
	EntityType  string      `gorm:"index;size:50" json:"entityType"` // Resource name, e.g. "news"
	EntityIDs   string      `gorm:"size:1000" json:"entityIds,omitempty"`
	Description string      `gorm:"size:500" json:"description"`
	IPAddress   string      `gorm:"size:45" json:"ipAddress,omitempty"`
	UserAgent   string      `gorm:"size:500" json:"userAgent,omitempty"`
	Status      AuditStatus `gorm:"size:20" json:"status"`
	ErrorMsg    string      `gorm:"size:500" json:"errorMsg,omitempty"`
	CreatedAt   time.Time   `gorm:"index" json:"createdAt"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}

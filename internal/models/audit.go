package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Audit actions recorded for routine writes.
const (
	AuditActionRoutineCommit       = "ROUTINE_COMMIT"
	AuditActionEntryCreate         = "SCHEDULE_ENTRY_CREATE"
	AuditActionEntryDelete         = "SCHEDULE_ENTRY_DELETE"
	AuditActionEntryCancel         = "SCHEDULE_ENTRY_CANCEL"
	AuditActionCourseTeacherAssign = "COURSE_TEACHER_ASSIGN"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID        int64          `db:"id" json:"id"`
	UserID    *int64         `db:"user_id" json:"user_id,omitempty"`
	Action    string         `db:"action" json:"action"`
	Resource  string         `db:"resource" json:"resource"`
	Payload   types.JSONText `db:"payload" json:"payload,omitempty"`
	IPAddress string         `db:"ip_address" json:"ip_address"`
	UserAgent string         `db:"user_agent" json:"user_agent"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

package leavetype

import (
	"time"

	"github.com/google/uuid"
)

// LeaveType describes a category of leave. RequiresBalance controls whether
// approvals and reversals touch the ledger at all; unpaid kinds never do.
type LeaveType struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code            string    `gorm:"size:30;not null;uniqueIndex"`
	Name            string    `gorm:"size:255;not null"`
	RequiresBalance bool      `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

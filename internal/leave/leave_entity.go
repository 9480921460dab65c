package leave

import (
	"time"

	"go-leave/internal/group"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

const (
	FlowEFlow = "EFLOW"
	FlowPaper = "PAPER"
)

// StageSlot is the chain snapshot for one stage, captured at submission.
// GroupID records which delegation group is authoritative for the stage;
// a nil GroupID means the stage is not part of this application's chain.
// ActorID is filled when a concrete assignee exists or when a group member
// acts, CompletedAt marks the stage as done.
type StageSlot struct {
	GroupID     *uuid.UUID `gorm:"type:uuid"`
	ActorID     *uuid.UUID `gorm:"type:uuid"`
	CompletedAt *time.Time
	Remarks     *string `gorm:"type:text"`
}

func (s *StageSlot) Active() bool    { return s.GroupID != nil }
func (s *StageSlot) Pending() bool   { return s.GroupID != nil && s.CompletedAt == nil }
func (s *StageSlot) Completed() bool { return s.GroupID != nil && s.CompletedAt != nil }

// Application is one leave request or cancellation-of-leave request. Rows
// are never deleted; terminal states are permanent.
type Application struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ApplicationNo string          `gorm:"size:30;not null;uniqueIndex"`
	ApplicantID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_applications_applicant"`
	LeaveTypeID   uuid.UUID       `gorm:"type:uuid;not null"`
	StartDate     time.Time       `gorm:"type:date;not null"`
	EndDate       time.Time       `gorm:"type:date;not null"`
	Days          decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	Reason        string          `gorm:"type:text"`
	Status        string          `gorm:"size:20;not null;default:'PENDING';index:idx_applications_status"`
	FlowKind      string          `gorm:"size:10;not null;default:'EFLOW'"`

	IsCancellationRequest bool       `gorm:"not null;default:false"`
	OriginalApplicationID *uuid.UUID `gorm:"type:uuid"`

	// DepartmentGroupID records which group the chain was resolved from.
	DepartmentGroupID *uuid.UUID `gorm:"type:uuid"`

	Checker   StageSlot `gorm:"embedded;embeddedPrefix:checker_"`
	Approver1 StageSlot `gorm:"embedded;embeddedPrefix:approver1_"`
	Approver2 StageSlot `gorm:"embedded;embeddedPrefix:approver2_"`
	Approver3 StageSlot `gorm:"embedded;embeddedPrefix:approver3_"`

	RejectedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectedAt      *time.Time
	RejectionReason *string `gorm:"type:text"`

	CancelledBy        *uuid.UUID `gorm:"type:uuid"`
	CancelledAt        *time.Time
	CancellationReason *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Application) TableName() string { return "leave_applications" }

// Slot returns the snapshot slot for a stage.
func (a *Application) Slot(st group.Stage) *StageSlot {
	switch st {
	case group.StageChecker:
		return &a.Checker
	case group.StageApprover1:
		return &a.Approver1
	case group.StageApprover2:
		return &a.Approver2
	case group.StageApprover3:
		return &a.Approver3
	default:
		return nil
	}
}

// CurrentStage walks the fixed stage order and returns the first slot that
// is part of the chain and not yet completed. Resolution is purely
// data-dependent; it never considers who is asking. The second return is
// false when every chained stage is complete.
func (a *Application) CurrentStage() (group.Stage, bool) {
	for _, st := range group.StageOrder {
		if a.Slot(st).Pending() {
			return st, true
		}
	}
	return "", false
}

// stageColumnPrefix maps a stage to its column prefix in the applications
// table, matching the embedded struct prefixes above.
func stageColumnPrefix(st group.Stage) string {
	switch st {
	case group.StageChecker:
		return "checker"
	case group.StageApprover1:
		return "approver1"
	case group.StageApprover2:
		return "approver2"
	case group.StageApprover3:
		return "approver3"
	default:
		return ""
	}
}

package group

import (
	"time"

	"github.com/google/uuid"
)

// DelegationGroup is a named pool of employees used purely as an
// authorization container. IsGlobalOverride marks the group whose members
// may act on the current stage of any application.
type DelegationGroup struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string    `gorm:"size:255;not null;uniqueIndex"`
	IsGlobalOverride bool      `gorm:"not null;default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type DelegationMember struct {
	GroupID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_delegation_members_employee"`
}

// DepartmentGroup is an employee cohort plus its stage bindings. A nil
// binding means the stage is not part of the chain.
type DepartmentGroup struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string     `gorm:"size:255;not null;uniqueIndex"`
	CheckerGroupID   *uuid.UUID `gorm:"type:uuid"`
	Approver1GroupID *uuid.UUID `gorm:"type:uuid"`
	Approver2GroupID *uuid.UUID `gorm:"type:uuid"`
	Approver3GroupID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type DepartmentMember struct {
	GroupID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_department_members_employee"`
}

// StageBinding returns the delegation group bound to a stage, nil when the
// stage is unbound.
func (g *DepartmentGroup) StageBinding(st Stage) *uuid.UUID {
	switch st {
	case StageChecker:
		return g.CheckerGroupID
	case StageApprover1:
		return g.Approver1GroupID
	case StageApprover2:
		return g.Approver2GroupID
	case StageApprover3:
		return g.Approver3GroupID
	default:
		return nil
	}
}

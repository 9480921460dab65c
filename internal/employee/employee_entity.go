package employee

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`
	// EmployeeNo is stored uppercased so the unique index is effectively
	// case-insensitive.
	EmployeeNo string `gorm:"size:30;not null;uniqueIndex:uq_employee_no"`
	FullName   string `gorm:"not null"`
	Email      string `gorm:"uniqueIndex:uq_employee_email"`
	Phone      string
	HireDate   time.Time `gorm:"type:date"`
	Active     bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

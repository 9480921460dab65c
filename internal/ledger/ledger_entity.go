package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is one append-only ledger row. Rows are never updated or
// deleted; corrections are posted as new rows with the opposite sign. The
// balance for an (employee, leave type, year) key is always the sum of its
// rows, never a stored counter.
type Transaction struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_ledger_key,priority:1"`
	LeaveTypeID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_ledger_key,priority:2"`
	Year          int             `gorm:"not null;index:idx_ledger_key,priority:3"`
	Amount        decimal.Decimal `gorm:"type:numeric(8,2);not null"` // positive = grant, negative = consumption
	EffectiveFrom *time.Time      `gorm:"type:date"`
	EffectiveTo   *time.Time      `gorm:"type:date"`
	Remarks       string          `gorm:"type:text"`
	CreatedBy     *uuid.UUID      `gorm:"type:uuid"` // nil = posted by the workflow itself
	CreatedAt     time.Time
}

func (Transaction) TableName() string { return "ledger_transactions" }

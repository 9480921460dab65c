package ledger

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=ledger_repo.go -destination=mock/ledger_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Append(ctx context.Context, t *Transaction) error
	SumAmount(ctx context.Context, employeeID, leaveTypeID string, year int) (decimal.Decimal, error)
	SumTaken(ctx context.Context, employeeID, leaveTypeID string, year int) (decimal.Decimal, error)
	FindAllByKey(ctx context.Context, employeeID, leaveTypeID string, year int) ([]Transaction, error)
	// AcquireKeyLock takes a Postgres advisory lock scoped to the current
	// transaction so concurrent postings for the same balance key are
	// serialized until commit. Only meaningful on a tx-bound repository.
	AcquireKeyLock(ctx context.Context, key string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn routes statements through the bound sql.Tx when present, so ledger
// writes commit or roll back together with the caller's state changes.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	if r.tx == nil {
		return r.db.WithContext(ctx)
	}
	session := r.db.Session(&gorm.Session{NewDB: true, Context: ctx})
	session.Statement.ConnPool = r.tx
	return session
}

func (r *repository) Append(ctx context.Context, t *Transaction) error {
	return r.conn(ctx).Create(t).Error
}

func (r *repository) SumAmount(ctx context.Context, employeeID, leaveTypeID string, year int) (decimal.Decimal, error) {
	row := r.conn(ctx).Raw(`
		SELECT COALESCE(SUM(amount), 0)
		FROM ledger_transactions
		WHERE employee_id = ? AND leave_type_id = ? AND year = ?
	`, employeeID, leaveTypeID, year).Row()

	var total decimal.Decimal
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *repository) SumTaken(ctx context.Context, employeeID, leaveTypeID string, year int) (decimal.Decimal, error) {
	row := r.conn(ctx).Raw(`
		SELECT COALESCE(SUM(-amount), 0)
		FROM ledger_transactions
		WHERE employee_id = ? AND leave_type_id = ? AND year = ? AND amount < 0
	`, employeeID, leaveTypeID, year).Row()

	var taken decimal.Decimal
	if err := row.Scan(&taken); err != nil {
		return decimal.Zero, err
	}
	return taken, nil
}

func (r *repository) FindAllByKey(ctx context.Context, employeeID, leaveTypeID string, year int) ([]Transaction, error) {
	var txs []Transaction
	err := r.conn(ctx).
		Where("employee_id = ? AND leave_type_id = ? AND year = ?", employeeID, leaveTypeID, year).
		Order("created_at ASC, id ASC").
		Find(&txs).Error
	return txs, err
}

func (r *repository) AcquireKeyLock(ctx context.Context, key string) error {
	return r.conn(ctx).Exec(`SELECT pg_advisory_xact_lock(hashtext(?))`, key).Error
}

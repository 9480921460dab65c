package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	ledgererrors "go-leave/internal/ledger/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=ledger_service.go -destination=mock/ledger_service_mock.go -package=mock
type Service interface {
	// WithTx returns a ledger bound to a caller-owned transaction. Debits
	// and credits issued through it commit or roll back with the caller;
	// serialization then relies on the advisory key lock held to tx end.
	WithTx(tx *sql.Tx) Service

	TotalBalance(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (decimal.Decimal, error)
	TakenAmount(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (decimal.Decimal, error)
	History(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) ([]TransactionResponse, error)

	// Post appends a signed transaction without sign preconditions; the
	// caller is responsible for sufficiency rules. Zero amounts are
	// rejected.
	Post(ctx context.Context, actorID string, req PostRequest) (TransactionResponse, error)
	// Debit checks sufficiency and posts a negative amount. The check and
	// the posting are serialized per (employee, leave type, year) key.
	Debit(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int, days decimal.Decimal, remarks string) error
	// Credit posts a positive amount unconditionally.
	Credit(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int, days decimal.Decimal, remarks string) error
}

// keyLocks hands out one mutex per balance key so in-process debits against
// the same key never interleave between the sufficiency check and the
// append.
type keyLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func newKeyLocks() *keyLocks {
	return &keyLocks{m: make(map[string]*sync.Mutex)}
}

func (k *keyLocks) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	if l, ok := k.m[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	k.m[key] = l
	return l
}

type service struct {
	db     *sql.DB
	repo   Repository
	tx     *sql.Tx // non-nil when bound to a caller-owned transaction
	locks  *keyLocks
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("ledger.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ledger.service")
	}
	return &service{db: db, repo: repo, locks: newKeyLocks(), logger: l}
}

func (s *service) WithTx(tx *sql.Tx) Service {
	return &service{
		db:     s.db,
		repo:   s.repo.WithTx(tx),
		tx:     tx,
		locks:  s.locks,
		logger: s.logger,
	}
}

func balanceKey(employeeID, leaveTypeID uuid.UUID, year int) string {
	return fmt.Sprintf("ledger:%s:%s:%d", employeeID, leaveTypeID, year)
}

func (s *service) TotalBalance(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (decimal.Decimal, error) {
	return s.repo.SumAmount(ctx, employeeID.String(), leaveTypeID.String(), year)
}

func (s *service) TakenAmount(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (decimal.Decimal, error) {
	return s.repo.SumTaken(ctx, employeeID.String(), leaveTypeID.String(), year)
}

func (s *service) History(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) ([]TransactionResponse, error) {
	txs, err := s.repo.FindAllByKey(ctx, employeeID.String(), leaveTypeID.String(), year)
	if err != nil {
		return nil, err
	}
	resp := make([]TransactionResponse, len(txs))
	for i, t := range txs {
		resp[i] = mapToResponse(t)
	}
	return resp, nil
}

func (s *service) Post(ctx context.Context, actorID string, req PostRequest) (TransactionResponse, error) {
	createdBy, err := uuid.Parse(actorID)
	if err != nil {
		return TransactionResponse{}, ledgererrors.ErrInvalidEmployeeID
	}
	employeeID, leaveTypeID, amount, err := validatePostRequest(req)
	if err != nil {
		return TransactionResponse{}, err
	}
	effectiveFrom, err := parseOptionalDate(req.EffectiveFrom)
	if err != nil {
		return TransactionResponse{}, err
	}
	effectiveTo, err := parseOptionalDate(req.EffectiveTo)
	if err != nil {
		return TransactionResponse{}, err
	}

	t := &Transaction{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		LeaveTypeID:   leaveTypeID,
		Year:          req.Year,
		Amount:        amount,
		EffectiveFrom: effectiveFrom,
		EffectiveTo:   effectiveTo,
		Remarks:       req.Remarks,
		CreatedBy:     &createdBy,
	}

	run := func(repo Repository) error {
		if err := repo.AcquireKeyLock(ctx, balanceKey(employeeID, leaveTypeID, req.Year)); err != nil {
			return err
		}
		return repo.Append(ctx, t)
	}

	if err := s.withKeyTx(ctx, balanceKey(employeeID, leaveTypeID, req.Year), run); err != nil {
		s.logger.Error("ledger post failed",
			zap.String("employee_id", employeeID.String()),
			zap.Error(err),
		)
		return TransactionResponse{}, err
	}

	s.logger.Info("ledger transaction posted",
		zap.String("transaction_id", t.ID.String()),
		zap.String("employee_id", employeeID.String()),
		zap.String("amount", amount.StringFixed(2)),
		zap.Int("year", req.Year),
	)
	return mapToResponse(*t), nil
}

func (s *service) Debit(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int, days decimal.Decimal, remarks string) error {
	if !days.IsPositive() {
		return ledgererrors.ErrInvalidAmount
	}

	key := balanceKey(employeeID, leaveTypeID, year)
	run := func(repo Repository) error {
		if err := repo.AcquireKeyLock(ctx, key); err != nil {
			return err
		}
		total, err := repo.SumAmount(ctx, employeeID.String(), leaveTypeID.String(), year)
		if err != nil {
			return err
		}
		if days.GreaterThan(total) {
			s.logger.Warn("ledger debit rejected",
				zap.String("employee_id", employeeID.String()),
				zap.String("requested", days.StringFixed(2)),
				zap.String("available", total.StringFixed(2)),
			)
			return ledgererrors.ErrInsufficientBalance
		}
		return repo.Append(ctx, &Transaction{
			ID:          uuid.New(),
			EmployeeID:  employeeID,
			LeaveTypeID: leaveTypeID,
			Year:        year,
			Amount:      days.Neg(),
			Remarks:     remarks,
		})
	}

	return s.withKeyTx(ctx, key, run)
}

func (s *service) Credit(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int, days decimal.Decimal, remarks string) error {
	if !days.IsPositive() {
		return ledgererrors.ErrInvalidAmount
	}

	key := balanceKey(employeeID, leaveTypeID, year)
	run := func(repo Repository) error {
		if err := repo.AcquireKeyLock(ctx, key); err != nil {
			return err
		}
		return repo.Append(ctx, &Transaction{
			ID:          uuid.New(),
			EmployeeID:  employeeID,
			LeaveTypeID: leaveTypeID,
			Year:        year,
			Amount:      days,
			Remarks:     remarks,
		})
	}

	return s.withKeyTx(ctx, key, run)
}

// withKeyTx runs fn against a tx-bound repository. When the service is
// already bound to a caller-owned transaction it joins it; otherwise it
// owns a transaction and additionally holds the in-process key mutex across
// commit so the sufficiency check can never act on a stale total.
func (s *service) withKeyTx(ctx context.Context, key string, fn func(repo Repository) error) error {
	if s.tx != nil {
		return fn(s.repo)
	}

	mu := s.locks.get(key)
	mu.Lock()
	defer mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(s.repo.WithTx(tx)); err != nil {
		return err
	}
	return tx.Commit()
}

func parseOptionalDate(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *v)
	if err != nil {
		return nil, ledgererrors.ErrInvalidEffectiveDate
	}
	return &t, nil
}

func validatePostRequest(req PostRequest) (uuid.UUID, uuid.UUID, decimal.Decimal, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, decimal.Zero, ledgererrors.ErrInvalidEmployeeID
	}
	leaveTypeID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, decimal.Zero, ledgererrors.ErrInvalidLeaveTypeID
	}
	if req.Year < 1970 || req.Year > 9999 {
		return uuid.Nil, uuid.Nil, decimal.Zero, ledgererrors.ErrInvalidYear
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return uuid.Nil, uuid.Nil, decimal.Zero, ledgererrors.ErrInvalidAmount
	}
	// Round before the zero check so a sub-cent amount cannot slip a
	// zero row into the ledger.
	amount = amount.Round(2)
	if amount.IsZero() {
		return uuid.Nil, uuid.Nil, decimal.Zero, ledgererrors.ErrInvalidAmount
	}
	return employeeID, leaveTypeID, amount, nil
}

func mapToResponse(t Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:          t.ID.String(),
		EmployeeID:  t.EmployeeID.String(),
		LeaveTypeID: t.LeaveTypeID.String(),
		Year:        t.Year,
		Amount:      t.Amount.StringFixed(2),
		Remarks:     t.Remarks,
	}
	if t.EffectiveFrom != nil {
		v := t.EffectiveFrom.Format("2006-01-02")
		resp.EffectiveFrom = &v
	}
	if t.EffectiveTo != nil {
		v := t.EffectiveTo.Format("2006-01-02")
		resp.EffectiveTo = &v
	}
	if t.CreatedBy != nil {
		v := t.CreatedBy.String()
		resp.CreatedBy = &v
	}
	if !t.CreatedAt.IsZero() {
		resp.CreatedAt = t.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

package ledger_test

import (
	"context"
	"database/sql"
	"math/rand"
	"sync"
	"testing"

	"go-leave/internal/ledger"
	ledgererrors "go-leave/internal/ledger/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// fakeLedgerRepository keeps the transactions in memory; sums are derived
// from the stored rows the same way the SQL aggregate would compute them.
type fakeLedgerRepository struct {
	mu   sync.Mutex
	rows []ledger.Transaction

	appendErr error
}

func (f *fakeLedgerRepository) WithTx(tx *sql.Tx) ledger.Repository { return f }

func (f *fakeLedgerRepository) AcquireKeyLock(ctx context.Context, key string) error { return nil }

func (f *fakeLedgerRepository) Append(ctx context.Context, t *ledger.Transaction) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, *t)
	return nil
}

func (f *fakeLedgerRepository) SumAmount(ctx context.Context, employeeID, leaveTypeID string, year int) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := decimal.Zero
	for _, r := range f.rows {
		if r.EmployeeID.String() == employeeID && r.LeaveTypeID.String() == leaveTypeID && r.Year == year {
			total = total.Add(r.Amount)
		}
	}
	return total, nil
}

func (f *fakeLedgerRepository) SumTaken(ctx context.Context, employeeID, leaveTypeID string, year int) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	taken := decimal.Zero
	for _, r := range f.rows {
		if r.EmployeeID.String() == employeeID && r.LeaveTypeID.String() == leaveTypeID && r.Year == year && r.Amount.IsNegative() {
			taken = taken.Add(r.Amount.Neg())
		}
	}
	return taken, nil
}

func (f *fakeLedgerRepository) FindAllByKey(ctx context.Context, employeeID, leaveTypeID string, year int) ([]ledger.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ledger.Transaction
	for _, r := range f.rows {
		if r.EmployeeID.String() == employeeID && r.LeaveTypeID.String() == leaveTypeID && r.Year == year {
			out = append(out, r)
		}
	}
	return out, nil
}

func setupLedgerTest(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *fakeLedgerRepository, ledger.Service) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	repo := &fakeLedgerRepository{}
	return db, mock, repo, ledger.NewService(db, repo)
}

func TestLedgerService_Post(t *testing.T) {
	ctx := context.Background()

	t.Run("success - grant is appended and echoed back", func(t *testing.T) {
		db, mock, repo, svc := setupLedgerTest(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.Post(ctx, uuid.NewString(), ledger.PostRequest{
			EmployeeID:  uuid.NewString(),
			LeaveTypeID: uuid.NewString(),
			Year:        2026,
			Amount:      "12",
			Remarks:     "annual grant 2026",
		})

		assert.NoError(t, err)
		assert.Equal(t, "12.00", resp.Amount)
		assert.Len(t, repo.rows, 1)
	})

	t.Run("negative - zero amount rejected", func(t *testing.T) {
		db, _, repo, svc := setupLedgerTest(t)
		defer db.Close()

		_, err := svc.Post(ctx, uuid.NewString(), ledger.PostRequest{
			EmployeeID:  uuid.NewString(),
			LeaveTypeID: uuid.NewString(),
			Year:        2026,
			Amount:      "0",
		})

		assert.ErrorIs(t, err, ledgererrors.ErrInvalidAmount)
		assert.Empty(t, repo.rows)
	})

	t.Run("negative - sub-cent amount rounds to zero and is rejected", func(t *testing.T) {
		db, _, repo, svc := setupLedgerTest(t)
		defer db.Close()

		_, err := svc.Post(ctx, uuid.NewString(), ledger.PostRequest{
			EmployeeID:  uuid.NewString(),
			LeaveTypeID: uuid.NewString(),
			Year:        2026,
			Amount:      "0.001",
		})

		assert.ErrorIs(t, err, ledgererrors.ErrInvalidAmount)
		assert.Empty(t, repo.rows)
	})

	t.Run("negative - year out of range", func(t *testing.T) {
		db, _, _, svc := setupLedgerTest(t)
		defer db.Close()

		_, err := svc.Post(ctx, uuid.NewString(), ledger.PostRequest{
			EmployeeID:  uuid.NewString(),
			LeaveTypeID: uuid.NewString(),
			Year:        1969,
			Amount:      "5",
		})
		assert.ErrorIs(t, err, ledgererrors.ErrInvalidYear)
	})
}

func TestLedgerService_Debit(t *testing.T) {
	ctx := context.Background()

	employeeID := uuid.New()
	leaveTypeID := uuid.New()
	year := 2026

	grant := func(repo *fakeLedgerRepository, amount int64) {
		repo.rows = append(repo.rows, ledger.Transaction{
			ID:          uuid.New(),
			EmployeeID:  employeeID,
			LeaveTypeID: leaveTypeID,
			Year:        year,
			Amount:      decimal.NewFromInt(amount),
		})
	}

	t.Run("success - debit within balance appends a negative row", func(t *testing.T) {
		db, mock, repo, svc := setupLedgerTest(t)
		defer db.Close()

		grant(repo, 10)
		mock.ExpectBegin()
		mock.ExpectCommit()

		err := svc.Debit(ctx, employeeID, leaveTypeID, year, decimal.NewFromInt(3), "leave LV-000001")
		assert.NoError(t, err)

		total, _ := repo.SumAmount(ctx, employeeID.String(), leaveTypeID.String(), year)
		assert.Equal(t, "7", total.String())
	})

	t.Run("negative - debit beyond balance is rejected and appends nothing", func(t *testing.T) {
		db, mock, repo, svc := setupLedgerTest(t)
		defer db.Close()

		grant(repo, 2)
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := svc.Debit(ctx, employeeID, leaveTypeID, year, decimal.NewFromInt(3), "leave LV-000002")
		assert.ErrorIs(t, err, ledgererrors.ErrInsufficientBalance)
		assert.Len(t, repo.rows, 1)
	})

	t.Run("negative - non-positive days rejected", func(t *testing.T) {
		db, _, _, svc := setupLedgerTest(t)
		defer db.Close()

		err := svc.Debit(ctx, employeeID, leaveTypeID, year, decimal.Zero, "noop")
		assert.ErrorIs(t, err, ledgererrors.ErrInvalidAmount)
	})

	t.Run("concurrent debits - exactly one wins", func(t *testing.T) {
		db, mock, repo, svc := setupLedgerTest(t)
		defer db.Close()

		grant(repo, 3)

		// One debit commits, the other fails the sufficiency check and
		// rolls back. The interleaving decides which is which.
		mock.MatchExpectationsInOrder(false)
		mock.ExpectBegin()
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()

		errs := make(chan error, 2)
		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- svc.Debit(ctx, employeeID, leaveTypeID, year, decimal.NewFromInt(3), "race")
			}()
		}
		wg.Wait()
		close(errs)

		var ok, insufficient int
		for err := range errs {
			if err == nil {
				ok++
			} else {
				assert.ErrorIs(t, err, ledgererrors.ErrInsufficientBalance)
				insufficient++
			}
		}
		assert.Equal(t, 1, ok)
		assert.Equal(t, 1, insufficient)

		total, _ := repo.SumAmount(ctx, employeeID.String(), leaveTypeID.String(), year)
		assert.Equal(t, "0", total.String())
	})
}

func TestLedgerService_Credit(t *testing.T) {
	ctx := context.Background()

	t.Run("success - credit needs no prior balance", func(t *testing.T) {
		db, mock, repo, svc := setupLedgerTest(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		err := svc.Credit(ctx, uuid.New(), uuid.New(), 2026, decimal.NewFromInt(3), "cancellation of LV-000001")
		assert.NoError(t, err)
		assert.Len(t, repo.rows, 1)
		assert.True(t, repo.rows[0].Amount.IsPositive())
	})

	t.Run("negative - non-positive days rejected", func(t *testing.T) {
		db, _, _, svc := setupLedgerTest(t)
		defer db.Close()

		err := svc.Credit(ctx, uuid.New(), uuid.New(), 2026, decimal.NewFromInt(-1), "bad")
		assert.ErrorIs(t, err, ledgererrors.ErrInvalidAmount)
	})
}

func TestLedgerService_RunningSumInvariant(t *testing.T) {
	ctx := context.Background()

	db, mock, _, svc := setupLedgerTest(t)
	defer db.Close()

	employeeID := uuid.New()
	leaveTypeID := uuid.New()
	year := 2026
	actor := uuid.NewString()

	// Fixed seed keeps the sequence reproducible on failure.
	rng := rand.New(rand.NewSource(20260830))

	expectOwnedTx := func(commit bool) {
		mock.ExpectBegin()
		if commit {
			mock.ExpectCommit()
		} else {
			mock.ExpectRollback()
		}
	}

	balance := decimal.Zero
	taken := decimal.Zero
	for i := 0; i < 50; i++ {
		amount := decimal.New(int64(rng.Intn(800)+1), -2)

		switch rng.Intn(3) {
		case 0:
			signed := amount
			if rng.Intn(2) == 0 {
				signed = signed.Neg()
			}
			expectOwnedTx(true)
			_, err := svc.Post(ctx, actor, ledger.PostRequest{
				EmployeeID:  employeeID.String(),
				LeaveTypeID: leaveTypeID.String(),
				Year:        year,
				Amount:      signed.String(),
			})
			assert.NoError(t, err)
			balance = balance.Add(signed)
			if signed.IsNegative() {
				taken = taken.Add(signed.Neg())
			}
		case 1:
			expectOwnedTx(true)
			assert.NoError(t, svc.Credit(ctx, employeeID, leaveTypeID, year, amount, "grant"))
			balance = balance.Add(amount)
		case 2:
			if amount.GreaterThan(balance) {
				expectOwnedTx(false)
				err := svc.Debit(ctx, employeeID, leaveTypeID, year, amount, "debit")
				assert.ErrorIs(t, err, ledgererrors.ErrInsufficientBalance)
			} else {
				expectOwnedTx(true)
				assert.NoError(t, svc.Debit(ctx, employeeID, leaveTypeID, year, amount, "debit"))
				balance = balance.Sub(amount)
				taken = taken.Add(amount)
			}
		}
	}

	total, err := svc.TotalBalance(ctx, employeeID, leaveTypeID, year)
	assert.NoError(t, err)
	assert.True(t, total.Equal(balance), "total %s, want %s", total, balance)

	takenGot, err := svc.TakenAmount(ctx, employeeID, leaveTypeID, year)
	assert.NoError(t, err)
	assert.True(t, takenGot.Equal(taken), "taken %s, want %s", takenGot, taken)
}

func TestLedgerService_Sums(t *testing.T) {
	ctx := context.Background()

	db, _, repo, svc := setupLedgerTest(t)
	defer db.Close()

	employeeID := uuid.New()
	leaveTypeID := uuid.New()

	for _, amt := range []int64{12, -3, -2} {
		repo.rows = append(repo.rows, ledger.Transaction{
			ID:          uuid.New(),
			EmployeeID:  employeeID,
			LeaveTypeID: leaveTypeID,
			Year:        2026,
			Amount:      decimal.NewFromInt(amt),
		})
	}
	// A different year must not leak into the sums.
	repo.rows = append(repo.rows, ledger.Transaction{
		ID:          uuid.New(),
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		Year:        2025,
		Amount:      decimal.NewFromInt(100),
	})

	total, err := svc.TotalBalance(ctx, employeeID, leaveTypeID, 2026)
	assert.NoError(t, err)
	assert.Equal(t, "7", total.String())

	taken, err := svc.TakenAmount(ctx, employeeID, leaveTypeID, 2026)
	assert.NoError(t, err)
	assert.Equal(t, "5", taken.String())

	history, err := svc.History(ctx, employeeID, leaveTypeID, 2026)
	assert.NoError(t, err)
	assert.Len(t, history, 3)
}

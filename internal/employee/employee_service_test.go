package employee_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-leave/internal/employee"
	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeEmployeeRepository struct {
	createFn      func(ctx context.Context, empl *employee.Employee) error
	findAllFn     func(ctx context.Context) ([]employee.Employee, error)
	findOptionsFn func(ctx context.Context) ([]employee.Employee, error)
	findByIDFn    func(ctx context.Context, id string) (*employee.Employee, error)
	updateFn      func(ctx context.Context, empl *employee.Employee) error
	deactivateFn  func(ctx context.Context, id string) error
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeEmployeeRepository) Create(ctx context.Context, empl *employee.Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, empl)
	}
	return nil
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindOptions(ctx context.Context) ([]employee.Employee, error) {
	if f.findOptionsFn != nil {
		return f.findOptionsFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, empl *employee.Employee) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, empl)
	}
	return nil
}

func (f *fakeEmployeeRepository) Deactivate(ctx context.Context, id string) error {
	if f.deactivateFn != nil {
		return f.deactivateFn(ctx, id)
	}
	return nil
}

type fakeCounterRepository struct {
	next int64
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeOutboxRepository struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id, reason string) error {
	return nil
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success - generated number, normalized fields, outbox event", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := &fakeEmployeeRepository{}
		outbox := &fakeOutboxRepository{}
		svc := employee.NewServiceWithOutbox(db, repo, &fakeCounterRepository{}, outbox, nil)

		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.Create(ctx, employee.CreateEmployeeRequest{
			FullName: "jane van dyke",
			Email:    "Jane.Dyke@Example.com",
			HireDate: "2026-01-15",
		})

		assert.NoError(t, err)
		assert.Equal(t, "EMP-000001", resp.EmployeeNo)
		assert.Equal(t, "Jane Van Dyke", resp.FullName)
		assert.Equal(t, "jane.dyke@example.com", resp.Email)
		assert.True(t, resp.Active)

		assert.Len(t, outbox.events, 1)
		assert.Equal(t, "employee_created", outbox.events[0].EventType)
	})

	t.Run("success - caller-supplied number is uppercased", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		svc := employee.NewService(db, &fakeEmployeeRepository{}, &fakeCounterRepository{}, nil)

		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.Create(ctx, employee.CreateEmployeeRequest{
			FullName:   "bob stone",
			Email:      "bob@example.com",
			HireDate:   "2026-02-01",
			EmployeeNo: "emp-x17",
		})

		assert.NoError(t, err)
		assert.Equal(t, "EMP-X17", resp.EmployeeNo)
	})

	t.Run("negative - bad hire date", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		svc := employee.NewService(db, &fakeEmployeeRepository{}, &fakeCounterRepository{}, nil)

		_, err = svc.Create(ctx, employee.CreateEmployeeRequest{
			FullName: "bob stone",
			Email:    "bob@example.com",
			HireDate: "15-01-2026",
		})
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidHireDate)
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()

	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	t.Run("negative - invalid id", func(t *testing.T) {
		svc := employee.NewService(db, &fakeEmployeeRepository{}, &fakeCounterRepository{}, nil)
		_, err := svc.GetByID(ctx, "nope")
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})

	t.Run("negative - not found", func(t *testing.T) {
		svc := employee.NewService(db, &fakeEmployeeRepository{}, &fakeCounterRepository{}, nil)
		_, err := svc.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("success", func(t *testing.T) {
		id := uuid.New()
		repo := &fakeEmployeeRepository{
			findByIDFn: func(ctx context.Context, gotID string) (*employee.Employee, error) {
				return &employee.Employee{
					ID:         id,
					EmployeeNo: "EMP-000007",
					FullName:   "Jane Van Dyke",
					HireDate:   time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
					Active:     true,
				}, nil
			},
		}
		svc := employee.NewService(db, repo, &fakeCounterRepository{}, nil)

		resp, err := svc.GetByID(ctx, id.String())
		assert.NoError(t, err)
		assert.Equal(t, "EMP-000007", resp.EmployeeNo)
	})
}

func TestEmployeeService_IsActive(t *testing.T) {
	ctx := context.Background()

	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	t.Run("active employee", func(t *testing.T) {
		repo := &fakeEmployeeRepository{
			findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
				return &employee.Employee{ID: uuid.MustParse(id), Active: true}, nil
			},
		}
		svc := employee.NewService(db, repo, &fakeCounterRepository{}, nil)

		active, err := svc.IsActive(ctx, uuid.NewString())
		assert.NoError(t, err)
		assert.True(t, active)
	})

	t.Run("deactivated employee", func(t *testing.T) {
		repo := &fakeEmployeeRepository{
			findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
				return &employee.Employee{ID: uuid.MustParse(id), Active: false}, nil
			},
		}
		svc := employee.NewService(db, repo, &fakeCounterRepository{}, nil)

		active, err := svc.IsActive(ctx, uuid.NewString())
		assert.NoError(t, err)
		assert.False(t, active)
	})

	t.Run("unknown employee counts as inactive", func(t *testing.T) {
		svc := employee.NewService(db, &fakeEmployeeRepository{}, &fakeCounterRepository{}, nil)

		active, err := svc.IsActive(ctx, uuid.NewString())
		assert.NoError(t, err)
		assert.False(t, active)
	})

	t.Run("negative - invalid id", func(t *testing.T) {
		svc := employee.NewService(db, &fakeEmployeeRepository{}, &fakeCounterRepository{}, nil)

		_, err := svc.IsActive(ctx, "nope")
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})
}

func TestEmployeeService_GetOptions(t *testing.T) {
	ctx := context.Background()

	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	calls := 0
	repo := &fakeEmployeeRepository{
		findOptionsFn: func(ctx context.Context) ([]employee.Employee, error) {
			calls++
			return []employee.Employee{
				{ID: uuid.New(), EmployeeNo: "EMP-000001", FullName: "Jane Van Dyke", Active: true},
			}, nil
		},
	}
	svc := employee.NewService(db, repo, &fakeCounterRepository{}, nil)

	resp, err := svc.GetOptions(ctx)
	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, 1, calls)
}

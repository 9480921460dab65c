package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-leave/internal/group"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Application) error
	FindByID(ctx context.Context, id string) (*Application, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Application, error)
	HasOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error)
	HasPendingCancellation(ctx context.Context, originalID string) (bool, error)
	// CompleteStage records the stage completion only when the slot is still
	// open and the application is still pending. Returns false without error
	// when another actor got there first.
	CompleteStage(ctx context.Context, id string, st group.Stage, actorID uuid.UUID, remarks *string, at time.Time) (bool, error)
	// TransitionStatus moves the application from one status to another with
	// a compare-and-set on the current status. Extra terminal fields (e.g.
	// rejected_by) are written in the same statement.
	TransitionStatus(ctx context.Context, id, from, to string, fields map[string]any) (bool, error)
}

// ListFilter narrows FindAll. Zero values mean "no filter".
type ListFilter struct {
	ApplicantID string
	Status      string
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

func (r *repository) conn(ctx context.Context) *gorm.DB {
	if r.tx == nil {
		return r.db.WithContext(ctx)
	}
	session := r.db.Session(&gorm.Session{NewDB: true, Context: ctx})
	session.Statement.ConnPool = r.tx
	return session
}

func (r *repository) Create(ctx context.Context, a *Application) error {
	return r.conn(ctx).Create(a).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Application, error) {
	var a Application
	err := r.conn(ctx).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Application, error) {
	q := r.conn(ctx).Model(&Application{})
	if filter.ApplicantID != "" {
		q = q.Where("applicant_id = ?", filter.ApplicantID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var apps []Application
	err := q.Order("created_at DESC, id DESC").Find(&apps).Error
	return apps, err
}

func (r *repository) HasOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&Application{}).
		Where("applicant_id = ?", employeeID).
		Where("is_cancellation_request = FALSE").
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) HasPendingCancellation(ctx context.Context, originalID string) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&Application{}).
		Where("original_application_id = ?", originalID).
		Where("is_cancellation_request = TRUE").
		Where("status = ?", StatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CompleteStage(ctx context.Context, id string, st group.Stage, actorID uuid.UUID, remarks *string, at time.Time) (bool, error) {
	prefix := stageColumnPrefix(st)
	if prefix == "" {
		return false, nil
	}

	updates := map[string]any{
		prefix + "_actor_id":     actorID,
		prefix + "_completed_at": at,
	}
	if remarks != nil {
		updates[prefix+"_remarks"] = *remarks
	}

	res := r.conn(ctx).Model(&Application{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Where(prefix+"_group_id IS NOT NULL").
		Where(prefix + "_completed_at IS NULL").
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) TransitionStatus(ctx context.Context, id, from, to string, fields map[string]any) (bool, error) {
	updates := map[string]any{"status": to}
	for k, v := range fields {
		updates[k] = v
	}

	res := r.conn(ctx).Model(&Application{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

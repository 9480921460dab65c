package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go-leave/internal/events"
	"go-leave/internal/group"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/leavetype"
	"go-leave/internal/ledger"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const applicationCounterType = "leave_application"

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateLeaveRequest) (ApplicationResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]ApplicationResponse, error)
	GetMine(ctx context.Context, actorID string) ([]ApplicationResponse, error)
	GetByID(ctx context.Context, actorID, id string) (ApplicationResponse, error)
	Approve(ctx context.Context, actorID, id string, req ActionRequest) (ApplicationResponse, error)
	Reject(ctx context.Context, actorID, id string, req RejectRequest) (ApplicationResponse, error)
	RequestCancellation(ctx context.Context, actorID, originalID string, req CancelRequest) (ApplicationResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	directory group.Directory
	perms     *Permissions
	types     leavetype.Service
	balances  ledger.Service
	counter   counter.Repository
	outbox    kafka.OutboxRepository // optional; nil disables notifications
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	directory group.Directory,
	types leavetype.Service,
	balances ledger.Service,
	counterRepo counter.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		directory: directory,
		perms:     NewPermissions(directory),
		types:     types,
		balances:  balances,
		counter:   counterRepo,
		outbox:    outbox,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateLeaveRequest) (ApplicationResponse, error) {
	applicantID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return ApplicationResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	leaveTypeID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return ApplicationResponse{}, leavetype.ErrInvalidLeaveTypeID
	}

	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return ApplicationResponse{}, err
	}
	days, err := resolveDays(req.Days, start, end)
	if err != nil {
		return ApplicationResponse{}, err
	}

	// Also validates the leave type exists.
	if _, err := s.types.RequiresBalance(ctx, leaveTypeID); err != nil {
		return ApplicationResponse{}, err
	}

	overlapping, err := s.repo.HasOverlapping(ctx, applicantID.String(), start, end)
	if err != nil {
		return ApplicationResponse{}, err
	}
	if overlapping {
		return ApplicationResponse{}, leaveerrors.ErrOverlappingLeave
	}

	deptGroupID, chain, err := s.resolveChain(ctx, applicantID)
	if err != nil {
		return ApplicationResponse{}, err
	}

	seq, err := s.counter.GetNextValue(ctx, applicationCounterType)
	if err != nil {
		return ApplicationResponse{}, err
	}

	flow := req.FlowKind
	if flow == "" {
		flow = FlowEFlow
	}

	app := &Application{
		ID:                uuid.New(),
		ApplicationNo:     fmt.Sprintf("LV-%06d", seq),
		ApplicantID:       applicantID,
		LeaveTypeID:       leaveTypeID,
		StartDate:         start,
		EndDate:           end,
		Days:              days,
		Reason:            req.Reason,
		Status:            StatusPending,
		FlowKind:          flow,
		DepartmentGroupID: deptGroupID,
	}
	applyChain(app, chain)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ApplicationResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ApplicationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, app); err != nil {
		return ApplicationResponse{}, err
	}

	if st, ok := app.CurrentStage(); ok {
		if err := s.enqueueStageAdvanced(ctx, tx, app, st); err != nil {
			return ApplicationResponse{}, err
		}
	} else {
		// No chain bound: the application is approved on submission.
		if err := s.finalize(ctx, tx, app, actorUUID, time.Now().UTC()); err != nil {
			return ApplicationResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return ApplicationResponse{}, err
	}

	s.logger.Info("leave application created",
		zap.String("application_no", app.ApplicationNo),
		zap.String("applicant_id", applicantID.String()),
		zap.String("status", app.Status),
	)
	return toApplicationResponse(app), nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]ApplicationResponse, error) {
	apps, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toResponses(apps), nil
}

func (s *service) GetMine(ctx context.Context, actorID string) ([]ApplicationResponse, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return nil, leaveerrors.ErrInvalidActorID
	}
	apps, err := s.repo.FindAll(ctx, ListFilter{ApplicantID: actorID})
	if err != nil {
		return nil, err
	}
	return toResponses(apps), nil
}

func (s *service) GetByID(ctx context.Context, actorID, id string) (ApplicationResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ApplicationResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return ApplicationResponse{}, leaveerrors.ErrInvalidApplicationID
	}

	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ApplicationResponse{}, err
	}
	if app == nil {
		return ApplicationResponse{}, leaveerrors.ErrApplicationNotFound
	}

	visible, err := s.perms.CanView(ctx, actorUUID, app)
	if err != nil {
		return ApplicationResponse{}, err
	}
	if !visible {
		return ApplicationResponse{}, leaveerrors.ErrNotAuthorizedViewer
	}

	return toApplicationResponse(app), nil
}

func (s *service) Approve(ctx context.Context, actorID, id string, req ActionRequest) (ApplicationResponse, error) {
	actorUUID, app, tx, err := s.beginAction(ctx, actorID, id)
	if err != nil {
		return ApplicationResponse{}, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	st, ok := app.CurrentStage()
	if !ok {
		return ApplicationResponse{}, leaveerrors.ErrNotPending
	}

	allowed, err := s.perms.CanAct(ctx, actorUUID, app, st)
	if err != nil {
		return ApplicationResponse{}, err
	}
	if !allowed {
		return ApplicationResponse{}, leaveerrors.ErrNotAuthorizedActor
	}

	now := time.Now().UTC()
	var remarks *string
	if req.Remarks != "" {
		remarks = &req.Remarks
	}

	done, err := qtx.CompleteStage(ctx, id, st, actorUUID, remarks, now)
	if err != nil {
		return ApplicationResponse{}, err
	}
	if !done {
		return ApplicationResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	slot := app.Slot(st)
	slot.ActorID = &actorUUID
	slot.CompletedAt = &now
	slot.Remarks = remarks

	if next, pending := app.CurrentStage(); pending {
		if err := s.enqueueStageAdvanced(ctx, tx, app, next); err != nil {
			return ApplicationResponse{}, err
		}
	} else {
		if err := s.finalize(ctx, tx, app, actorUUID, now); err != nil {
			return ApplicationResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return ApplicationResponse{}, err
	}

	s.logger.Info("stage completed",
		zap.String("application_no", app.ApplicationNo),
		zap.String("stage", string(st)),
		zap.String("actor_id", actorUUID.String()),
		zap.String("status", app.Status),
	)
	return toApplicationResponse(app), nil
}

func (s *service) Reject(ctx context.Context, actorID, id string, req RejectRequest) (ApplicationResponse, error) {
	actorUUID, app, tx, err := s.beginAction(ctx, actorID, id)
	if err != nil {
		return ApplicationResponse{}, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	st, ok := app.CurrentStage()
	if !ok {
		return ApplicationResponse{}, leaveerrors.ErrNotPending
	}

	allowed, err := s.perms.CanAct(ctx, actorUUID, app, st)
	if err != nil {
		return ApplicationResponse{}, err
	}
	if !allowed {
		return ApplicationResponse{}, leaveerrors.ErrNotAuthorizedActor
	}

	now := time.Now().UTC()
	moved, err := qtx.TransitionStatus(ctx, id, StatusPending, StatusRejected, map[string]any{
		"rejected_by":      actorUUID,
		"rejected_at":      now,
		"rejection_reason": req.Reason,
	})
	if err != nil {
		return ApplicationResponse{}, err
	}
	if !moved {
		return ApplicationResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	app.Status = StatusRejected
	app.RejectedBy = &actorUUID
	app.RejectedAt = &now
	app.RejectionReason = &req.Reason

	if err := s.enqueueDecided(ctx, tx, app, actorUUID, now); err != nil {
		return ApplicationResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return ApplicationResponse{}, err
	}

	s.logger.Info("application rejected",
		zap.String("application_no", app.ApplicationNo),
		zap.String("actor_id", actorUUID.String()),
	)
	return toApplicationResponse(app), nil
}

func (s *service) RequestCancellation(ctx context.Context, actorID, originalID string, req CancelRequest) (ApplicationResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ApplicationResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(originalID); err != nil {
		return ApplicationResponse{}, leaveerrors.ErrInvalidApplicationID
	}

	orig, err := s.repo.FindByID(ctx, originalID)
	if err != nil {
		return ApplicationResponse{}, err
	}
	if orig == nil {
		return ApplicationResponse{}, leaveerrors.ErrApplicationNotFound
	}

	if actorUUID != orig.ApplicantID {
		override, err := s.directory.IsGlobalOverrideMember(ctx, actorUUID)
		if err != nil {
			return ApplicationResponse{}, err
		}
		if !override {
			return ApplicationResponse{}, leaveerrors.ErrNotCancelRequester
		}
	}

	if orig.IsCancellationRequest {
		return ApplicationResponse{}, leaveerrors.ErrNotCancellable
	}
	if orig.Status != StatusApproved {
		return ApplicationResponse{}, leaveerrors.ErrOriginalNotApproved
	}

	duplicate, err := s.repo.HasPendingCancellation(ctx, originalID)
	if err != nil {
		return ApplicationResponse{}, err
	}
	if duplicate {
		return ApplicationResponse{}, leaveerrors.ErrCancellationPending
	}

	// The cancellation travels the applicant's current chain, not the one
	// snapshotted on the original application.
	deptGroupID, chain, err := s.resolveChain(ctx, orig.ApplicantID)
	if err != nil {
		return ApplicationResponse{}, err
	}

	seq, err := s.counter.GetNextValue(ctx, applicationCounterType)
	if err != nil {
		return ApplicationResponse{}, err
	}

	origID := orig.ID
	app := &Application{
		ID:                    uuid.New(),
		ApplicationNo:         fmt.Sprintf("LV-%06d", seq),
		ApplicantID:           orig.ApplicantID,
		LeaveTypeID:           orig.LeaveTypeID,
		StartDate:             orig.StartDate,
		EndDate:               orig.EndDate,
		Days:                  orig.Days,
		Reason:                req.Reason,
		Status:                StatusPending,
		FlowKind:              orig.FlowKind,
		IsCancellationRequest: true,
		OriginalApplicationID: &origID,
		DepartmentGroupID:     deptGroupID,
	}
	applyChain(app, chain)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ApplicationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, app); err != nil {
		return ApplicationResponse{}, err
	}

	if st, ok := app.CurrentStage(); ok {
		if err := s.enqueueStageAdvanced(ctx, tx, app, st); err != nil {
			return ApplicationResponse{}, err
		}
	} else {
		if err := s.finalize(ctx, tx, app, actorUUID, time.Now().UTC()); err != nil {
			return ApplicationResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return ApplicationResponse{}, err
	}

	s.logger.Info("cancellation requested",
		zap.String("application_no", app.ApplicationNo),
		zap.String("original_application_no", orig.ApplicationNo),
		zap.String("status", app.Status),
	)
	return toApplicationResponse(app), nil
}

// beginAction loads a pending application inside a fresh transaction. The
// caller owns the returned tx.
func (s *service) beginAction(ctx context.Context, actorID, id string) (uuid.UUID, *Application, *sql.Tx, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return uuid.Nil, nil, nil, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return uuid.Nil, nil, nil, leaveerrors.ErrInvalidApplicationID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, nil, nil, err
	}

	app, err := s.repo.WithTx(tx).FindByID(ctx, id)
	if err != nil {
		tx.Rollback()
		return uuid.Nil, nil, nil, err
	}
	if app == nil {
		tx.Rollback()
		return uuid.Nil, nil, nil, leaveerrors.ErrApplicationNotFound
	}
	if app.Status != StatusPending {
		tx.Rollback()
		return uuid.Nil, nil, nil, leaveerrors.ErrNotPending
	}

	return actorUUID, app, tx, nil
}

// finalize runs the terminal approval effects inside the caller's
// transaction: the balance movement, the status flip, and the decided
// event. Any failure aborts the whole transaction, so a stage completion
// never outlives a failed debit.
func (s *service) finalize(ctx context.Context, tx *sql.Tx, app *Application, actorID uuid.UUID, now time.Time) error {
	qtx := s.repo.WithTx(tx)

	if app.IsCancellationRequest {
		if app.OriginalApplicationID == nil {
			return leaveerrors.ErrApplicationNotFound
		}
		orig, err := qtx.FindByID(ctx, app.OriginalApplicationID.String())
		if err != nil {
			return err
		}
		if orig == nil {
			return leaveerrors.ErrApplicationNotFound
		}

		moved, err := qtx.TransitionStatus(ctx, orig.ID.String(), StatusApproved, StatusCancelled, map[string]any{
			"cancelled_by":        app.ApplicantID,
			"cancelled_at":        now,
			"cancellation_reason": app.Reason,
		})
		if err != nil {
			return err
		}
		if !moved {
			return leaveerrors.ErrOriginalNotApproved
		}

		requiresBalance, err := s.types.RequiresBalance(ctx, orig.LeaveTypeID)
		if err != nil {
			return err
		}
		if requiresBalance {
			remarks := "cancellation of " + orig.ApplicationNo
			if err := s.balances.WithTx(tx).Credit(ctx, orig.ApplicantID, orig.LeaveTypeID, orig.StartDate.Year(), orig.Days, remarks); err != nil {
				return err
			}
		}
	} else {
		requiresBalance, err := s.types.RequiresBalance(ctx, app.LeaveTypeID)
		if err != nil {
			return err
		}
		if requiresBalance {
			remarks := "leave " + app.ApplicationNo
			if err := s.balances.WithTx(tx).Debit(ctx, app.ApplicantID, app.LeaveTypeID, app.StartDate.Year(), app.Days, remarks); err != nil {
				return err
			}
		}
	}

	moved, err := qtx.TransitionStatus(ctx, app.ID.String(), StatusPending, StatusApproved, nil)
	if err != nil {
		return err
	}
	if !moved {
		return leaveerrors.ErrAlreadyProcessed
	}
	app.Status = StatusApproved

	return s.enqueueDecided(ctx, tx, app, actorID, now)
}

// resolveChain looks up the applicant's department group and returns the
// chain snapshot to stamp on a new application. An employee outside every
// department group, or a group with no stages bound, yields an empty chain.
func (s *service) resolveChain(ctx context.Context, employeeID uuid.UUID) (*uuid.UUID, []group.ChainStep, error) {
	groups, err := s.directory.DepartmentGroupsOf(ctx, employeeID)
	if err != nil {
		return nil, nil, err
	}
	if len(groups) == 0 {
		return nil, nil, nil
	}

	deptGroupID := groups[0].ID
	chain, err := s.directory.ApprovalChainOf(ctx, deptGroupID)
	if err != nil {
		return nil, nil, err
	}
	return &deptGroupID, chain, nil
}

func applyChain(app *Application, chain []group.ChainStep) {
	for _, step := range chain {
		gid := step.DelegationGroupID
		app.Slot(step.Stage).GroupID = &gid
	}
}

func (s *service) enqueueStageAdvanced(ctx context.Context, tx *sql.Tx, app *Application, st group.Stage) error {
	if s.outbox == nil {
		return nil
	}

	recipients, err := s.stageRecipients(ctx, app, st)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(events.LeaveStageAdvancedEvent{
		EventType:            "leave.stage.advanced",
		ApplicationID:        app.ID.String(),
		ApplicationNo:        app.ApplicationNo,
		ApplicantID:          app.ApplicantID.String(),
		Stage:                string(st),
		RecipientEmployeeIDs: recipients,
		OccurredAt:           time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_application",
		AggregateID:   app.ID.String(),
		EventType:     "leave.stage.advanced",
		Topic:         events.LeaveStageAdvancedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) enqueueDecided(ctx context.Context, tx *sql.Tx, app *Application, actorID uuid.UUID, now time.Time) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.LeaveDecidedEvent{
		EventType:     "leave.decided",
		ApplicationID: app.ID.String(),
		ApplicationNo: app.ApplicationNo,
		ApplicantID:   app.ApplicantID.String(),
		Status:        app.Status,
		DecidedBy:     actorID.String(),
		OccurredAt:    now,
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_application",
		AggregateID:   app.ID.String(),
		EventType:     "leave.decided",
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) stageRecipients(ctx context.Context, app *Application, st group.Stage) ([]string, error) {
	slot := app.Slot(st)
	if slot == nil || !slot.Active() {
		return nil, nil
	}
	if slot.ActorID != nil && slot.CompletedAt == nil {
		return []string{slot.ActorID.String()}, nil
	}

	members, err := s.directory.DelegationMembers(ctx, *slot.GroupID)
	if err != nil {
		return nil, err
	}
	recipients := make([]string, len(members))
	for i, m := range members {
		recipients[i] = m.String()
	}
	return recipients, nil
}

func toResponses(apps []Application) []ApplicationResponse {
	resp := make([]ApplicationResponse, len(apps))
	for i := range apps {
		resp[i] = toApplicationResponse(&apps[i])
	}
	return resp
}

func parseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return start, end, nil
}

func resolveDays(daysStr string, start, end time.Time) (decimal.Decimal, error) {
	if daysStr == "" {
		span := int64(end.Sub(start).Hours()/24) + 1
		return decimal.NewFromInt(span), nil
	}
	days, err := decimal.NewFromString(daysStr)
	if err != nil {
		return decimal.Zero, leaveerrors.ErrInvalidDays
	}
	// Round before the positivity check so a sub-cent day count cannot
	// round down to a zero-day application.
	days = days.Round(2)
	if !days.IsPositive() {
		return decimal.Zero, leaveerrors.ErrInvalidDays
	}
	return days, nil
}

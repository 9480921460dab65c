package leave

import (
	"time"

	"go-leave/internal/group"
)

type CreateLeaveRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	LeaveTypeID string `json:"leave_type_id" binding:"required,uuid"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	// Days overrides the calendar span, e.g. "0.5" for a half day.
	Days     string `json:"days"`
	Reason   string `json:"reason" binding:"required"`
	FlowKind string `json:"flow_kind" binding:"omitempty,oneof=EFLOW PAPER"`
}

type ActionRequest struct {
	Remarks string `json:"remarks"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type StageSlotResponse struct {
	Stage       string     `json:"stage"`
	GroupID     string     `json:"group_id"`
	ActorID     *string    `json:"actor_id,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Remarks     *string    `json:"remarks,omitempty"`
}

type ApplicationResponse struct {
	ID            string `json:"id"`
	ApplicationNo string `json:"application_no"`
	ApplicantID   string `json:"applicant_id"`
	LeaveTypeID   string `json:"leave_type_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Days          string `json:"days"`
	Reason        string `json:"reason"`
	Status        string `json:"status"`
	FlowKind      string `json:"flow_kind"`

	IsCancellationRequest bool    `json:"is_cancellation_request"`
	OriginalApplicationID *string `json:"original_application_id,omitempty"`

	CurrentStage *string             `json:"current_stage,omitempty"`
	Stages       []StageSlotResponse `json:"stages"`

	RejectionReason    *string `json:"rejection_reason,omitempty"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toApplicationResponse(a *Application) ApplicationResponse {
	resp := ApplicationResponse{
		ID:                    a.ID.String(),
		ApplicationNo:         a.ApplicationNo,
		ApplicantID:           a.ApplicantID.String(),
		LeaveTypeID:           a.LeaveTypeID.String(),
		StartDate:             a.StartDate.Format("2006-01-02"),
		EndDate:               a.EndDate.Format("2006-01-02"),
		Days:                  a.Days.StringFixed(2),
		Reason:                a.Reason,
		Status:                a.Status,
		FlowKind:              a.FlowKind,
		IsCancellationRequest: a.IsCancellationRequest,
		CreatedAt:             a.CreatedAt,
		UpdatedAt:             a.UpdatedAt,
		RejectionReason:       a.RejectionReason,
		CancellationReason:    a.CancellationReason,
	}

	if a.OriginalApplicationID != nil {
		s := a.OriginalApplicationID.String()
		resp.OriginalApplicationID = &s
	}

	if st, ok := a.CurrentStage(); ok {
		s := string(st)
		resp.CurrentStage = &s
	}

	for _, st := range group.StageOrder {
		slot := a.Slot(st)
		if !slot.Active() {
			continue
		}
		sr := StageSlotResponse{
			Stage:       string(st),
			GroupID:     slot.GroupID.String(),
			CompletedAt: slot.CompletedAt,
			Remarks:     slot.Remarks,
		}
		if slot.ActorID != nil {
			actor := slot.ActorID.String()
			sr.ActorID = &actor
		}
		resp.Stages = append(resp.Stages, sr)
	}

	return resp
}

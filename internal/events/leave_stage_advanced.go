package events

import "time"

const LeaveStageAdvancedTopic = "hr.leave.stage.advanced.v1"

// LeaveStageAdvancedEvent is published when an application enters a new
// pending stage (including the first stage at submission). Recipients are
// the employees who can act on that stage.
type LeaveStageAdvancedEvent struct {
	EventType            string    `json:"event_type"`
	ApplicationID        string    `json:"application_id"`
	ApplicationNo        string    `json:"application_no"`
	ApplicantID          string    `json:"applicant_id"`
	Stage                string    `json:"stage"`
	RecipientEmployeeIDs []string  `json:"recipient_employee_ids"`
	OccurredAt           time.Time `json:"occurred_at"`
}

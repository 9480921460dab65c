package events

import "time"

const LeaveDecidedTopic = "hr.leave.decided.v1"

// LeaveDecidedEvent is published once per application when it reaches a
// terminal status. The applicant is always a recipient.
type LeaveDecidedEvent struct {
	EventType     string    `json:"event_type"`
	ApplicationID string    `json:"application_id"`
	ApplicationNo string    `json:"application_no"`
	ApplicantID   string    `json:"applicant_id"`
	Status        string    `json:"status"`
	DecidedBy     string    `json:"decided_by"`
	OccurredAt    time.Time `json:"occurred_at"`
}

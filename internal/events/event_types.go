package events

import (
	"time"

	"github.com/uap-campus/campus-fixer/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIssueCreated       EventType = "issue_created"
	EventIssueStatusChanged EventType = "issue_status_changed"
	EventIssueAssigned      EventType = "issue_assigned"
	EventFeedbackAdded      EventType = "feedback_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// IssueCreatedPayload payload.
type IssueCreatedPayload struct {
	Department domain.Department    `json:"department"`
	Category   domain.IssueCategory `json:"category"`
	Building   domain.Building      `json:"building"`
	Priority   domain.IssuePriority `json:"priority"`
	Emergency  bool                 `json:"emergency"`
}

// IssueStatusChangedPayload payload.
type IssueStatusChangedPayload struct {
	OldStatus domain.IssueStatus `json:"old_status"`
	NewStatus domain.IssueStatus `json:"new_status"`
	Note      string             `json:"note,omitempty"`
}

// IssueAssignedPayload payload.
type IssueAssignedPayload struct {
	AssigneeID string `json:"assignee_id"`
}

// FeedbackAddedPayload payload.
type FeedbackAddedPayload struct {
	Rating int `json:"rating"`
}

package dto

import (
	"time"

	"github.com/uap-campus/campus-fixer/internal/domain"
)

// ReportIssueRequest payload.
type ReportIssueRequest struct {
	Anonymous    bool                 `json:"anonymous"`
	ReporterRole domain.UserRole      `json:"reporter_role"`
	Department   domain.Department    `json:"department"`
	Category     domain.IssueCategory `json:"category"`
	Building     domain.Building      `json:"building"`
	Location     string               `json:"location"`
	Description  string               `json:"description"`
	ImageKey     *string              `json:"image_key"`
	Priority     domain.IssuePriority `json:"priority"`
}

// StatusChangeRequest payload.
type StatusChangeRequest struct {
	Status domain.IssueStatus `json:"status"`
	Note   string             `json:"note"`
}

// AssignRequest payload.
type AssignRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// FeedbackRequest payload.
type FeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// IssueSummary response. ReporterID is omitted for anonymous issues unless
// the viewer is the reporter.
type IssueSummary struct {
	TicketID     string               `json:"ticket_id"`
	ReporterID   *string              `json:"reporter_id,omitempty"`
	Anonymous    bool                 `json:"anonymous"`
	ReporterRole domain.UserRole      `json:"reporter_role"`
	Department   domain.Department    `json:"department"`
	Category     domain.IssueCategory `json:"category"`
	Building     domain.Building      `json:"building"`
	Location     string               `json:"location"`
	Priority     domain.IssuePriority `json:"priority"`
	Status       domain.IssueStatus   `json:"status"`
	AssigneeID   *string              `json:"assignee_id,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// IssueDetailResponse provides full issue info.
type IssueDetailResponse struct {
	IssueSummary
	Description string                `json:"description"`
	ImageKey    *string               `json:"image_key,omitempty"`
	Updates     []IssueUpdateResponse `json:"updates"`
	Feedback    *FeedbackResponse     `json:"feedback,omitempty"`
}

// IssueUpdateResponse represents one update-log entry.
type IssueUpdateResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	ActorID   string    `json:"actor_id"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackResponse represents the reporter's rating.
type FeedbackResponse struct {
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

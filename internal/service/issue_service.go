package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/uap-campus/campus-fixer/internal/domain"
	"github.com/uap-campus/campus-fixer/internal/events"
	"github.com/uap-campus/campus-fixer/internal/repository"
	apperrors "github.com/uap-campus/campus-fixer/pkg/util"
)

const (
	ticketIDPrefix = "UAP"
	// ticketIDAttempts bounds regeneration when an insert hits the
	// ticket_id unique constraint.
	ticketIDAttempts = 3
)

// IssueService coordinates the issue lifecycle: creation, status changes,
// assignment and feedback.
type IssueService struct {
	issues     repository.IssueRepository
	updates    repository.IssueUpdateRepository
	feedback   repository.FeedbackRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// IssueDependencies bundles repositories for the issue service.
type IssueDependencies struct {
	IssueRepo    repository.IssueRepository
	UpdateRepo   repository.IssueUpdateRepository
	FeedbackRepo repository.FeedbackRepository
	UserRepo     repository.UserRepository
	Dispatcher   events.Dispatcher
}

// IssueReportInput describes issue creation payload.
type IssueReportInput struct {
	Anonymous    bool
	ReporterRole domain.UserRole
	Department   domain.Department
	Category     domain.IssueCategory
	Building     domain.Building
	Location     string
	Description  string
	ImageKey     *string
	Priority     domain.IssuePriority
}

// NewIssueService constructs the service.
func NewIssueService(deps IssueDependencies) *IssueService {
	return &IssueService{
		issues:     deps.IssueRepo,
		updates:    deps.UpdateRepo,
		feedback:   deps.FeedbackRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// ReportIssue validates and persists a new issue for the reporter, assigns
// the ticket id and records the initial update entry. The admin notification
// is dispatched as an event; its delivery never affects the outcome.
func (s *IssueService) ReportIssue(ctx context.Context, reporter *domain.User, input IssueReportInput) (*domain.Issue, error) {
	if input.ReporterRole == "" {
		input.ReporterRole = reporter.Role
	}
	if input.Priority == "" {
		input.Priority = domain.IssuePriorityMedium
	}
	if input.Building == "" {
		input.Building = domain.BuildingAcademic
	}
	if err := validateReportInput(input); err != nil {
		return nil, err
	}

	issue := &domain.Issue{
		ReporterID:   reporter.ID,
		Anonymous:    input.Anonymous,
		ReporterRole: input.ReporterRole,
		Department:   input.Department,
		Category:     input.Category,
		Building:     input.Building,
		Location:     strings.TrimSpace(input.Location),
		Description:  strings.TrimSpace(input.Description),
		ImageKey:     input.ImageKey,
		Priority:     input.Priority,
		Status:       domain.IssueStatusPending,
	}

	if err := s.insertWithFreshTicketID(ctx, issue); err != nil {
		return nil, err
	}

	initial := &domain.IssueUpdate{
		IssueID: issue.ID,
		Text:    fmt.Sprintf("Issue reported. Status: %s", issue.Status),
		ActorID: reporter.ID,
	}
	if err := s.updates.Create(ctx, initial); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventIssueCreated,
		TicketID: issue.TicketID,
		ActorID:  reporter.ID,
		Payload: events.IssueCreatedPayload{
			Department: issue.Department,
			Category:   issue.Category,
			Building:   issue.Building,
			Priority:   issue.Priority,
			Emergency:  issue.IsEmergency(),
		},
	})
	return issue, nil
}

// ApplyStatusChange overwrites the issue status and appends one update entry.
// The transition graph is deliberately unconstrained: any of the four states
// may follow any other, and closed issues can be reopened.
func (s *IssueService) ApplyStatusChange(ctx context.Context, actor *domain.User, ticketID string, newStatus domain.IssueStatus, note string) (*domain.Issue, error) {
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": string(newStatus)})
	}

	issue, err := s.getVisibleIssue(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	issue.Status = newStatus
	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}

	text := fmt.Sprintf("Status changed to %s.", newStatus)
	if note = strings.TrimSpace(note); note != "" {
		text = text + " " + note
	}
	entry := &domain.IssueUpdate{
		IssueID: issue.ID,
		Text:    text,
		ActorID: actor.ID,
	}
	if err := s.updates.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventIssueStatusChanged,
		TicketID: issue.TicketID,
		ActorID:  actor.ID,
		Payload: events.IssueStatusChangedPayload{
			NewStatus: newStatus,
			Note:      note,
		},
	})
	return issue, nil
}

// AssignIssue sets or replaces the staff member responsible for an issue.
func (s *IssueService) AssignIssue(ctx context.Context, actor *domain.User, ticketID, assigneeID string) (*domain.Issue, error) {
	if !actor.IsStaff() {
		return nil, apperrors.NewForbidden("staff role required")
	}

	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("assignee not found", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !assignee.IsStaff() {
		return nil, apperrors.NewValidationError("assignee must hold the staff role", nil)
	}

	issue, err := s.issues.GetByTicketID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}

	issue.AssigneeID = &assignee.ID
	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}

	entry := &domain.IssueUpdate{
		IssueID: issue.ID,
		Text:    fmt.Sprintf("Assigned to %s.", assignee.Name),
		ActorID: actor.ID,
	}
	if err := s.updates.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventIssueAssigned,
		TicketID: issue.TicketID,
		ActorID:  actor.ID,
		Payload:  events.IssueAssignedPayload{AssigneeID: assignee.ID},
	})
	return issue, nil
}

// TrackIssue fetches an issue with its update log and feedback, enforcing
// visibility. Callers that may not see the issue get the same not-found as
// callers of an unknown ticket id.
func (s *IssueService) TrackIssue(ctx context.Context, actor *domain.User, ticketID string) (*domain.Issue, []domain.IssueUpdate, *domain.Feedback, error) {
	issue, err := s.getVisibleIssue(ctx, actor, ticketID)
	if err != nil {
		return nil, nil, nil, err
	}

	updates, err := s.updates.ListByIssue(ctx, issue.ID)
	if err != nil {
		return nil, nil, nil, apperrors.MapError(err)
	}

	feedback, err := s.feedback.GetByIssue(ctx, issue.ID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, nil, apperrors.MapError(err)
	}
	return issue, updates, feedback, nil
}

// ListOwnIssues returns the reporter's issues, newest first.
func (s *IssueService) ListOwnIssues(ctx context.Context, actor *domain.User, limit, offset int) ([]domain.Issue, error) {
	return s.issues.ListByReporter(ctx, actor.ID, limit, offset)
}

// ListIssues returns filtered issues for staff views.
func (s *IssueService) ListIssues(ctx context.Context, actor *domain.User, filter repository.IssueFilter) ([]domain.Issue, error) {
	if !actor.IsStaff() {
		return nil, apperrors.NewForbidden("staff role required")
	}
	return s.issues.ListWithFilter(ctx, filter)
}

// AddFeedback records the reporter's one-time rating of a resolved issue.
func (s *IssueService) AddFeedback(ctx context.Context, actor *domain.User, ticketID string, rating int, comment string) (*domain.Feedback, error) {
	if !domain.ValidRating(rating) {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5", nil)
	}

	issue, err := s.issues.GetByTicketID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	if issue.ReporterID != actor.ID {
		return nil, apperrors.NewNotFound("issue", nil)
	}
	if issue.Status != domain.IssueStatusResolved {
		return nil, apperrors.NewValidationError("feedback is only accepted on resolved issues", nil)
	}

	feedback := &domain.Feedback{
		IssueID: issue.ID,
		Rating:  rating,
		Comment: strings.TrimSpace(comment),
	}
	if err := s.feedback.Create(ctx, feedback); err != nil {
		if errors.Is(err, repository.ErrFeedbackExists) {
			return nil, apperrors.NewConflict("feedback already provided", nil)
		}
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventFeedbackAdded,
		TicketID: issue.TicketID,
		ActorID:  actor.ID,
		Payload:  events.FeedbackAddedPayload{Rating: rating},
	})
	return feedback, nil
}

func (s *IssueService) insertWithFreshTicketID(ctx context.Context, issue *domain.Issue) error {
	for attempt := 0; attempt < ticketIDAttempts; attempt++ {
		issue.TicketID = generateTicketID()
		err := s.issues.Create(ctx, issue)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicateTicketID) {
			return apperrors.MapError(err)
		}
	}
	return apperrors.NewConflict("could not allocate a unique ticket id", nil)
}

func (s *IssueService) getVisibleIssue(ctx context.Context, actor *domain.User, ticketID string) (*domain.Issue, error) {
	issue, err := s.issues.GetByTicketID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	if issue.ReporterID != actor.ID && !actor.IsStaff() {
		return nil, apperrors.NewNotFound("issue", nil)
	}
	return issue, nil
}

func (s *IssueService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validateReportInput(input IssueReportInput) error {
	details := map[string]any{}
	if !domain.ValidRole(input.ReporterRole) {
		details["reporter_role"] = "must be student, faculty or staff"
	}
	if strings.TrimSpace(string(input.Department)) == "" {
		details["department"] = "required"
	} else if !domain.ValidDepartment(input.Department) {
		details["department"] = "unknown department"
	}
	if strings.TrimSpace(string(input.Category)) == "" {
		details["category"] = "required"
	} else if !domain.ValidCategory(input.Category) {
		details["category"] = "unknown category"
	}
	if !domain.ValidBuilding(input.Building) {
		details["building"] = "unknown building"
	}
	if strings.TrimSpace(input.Location) == "" {
		details["location"] = "required"
	}
	if strings.TrimSpace(input.Description) == "" {
		details["description"] = "required"
	}
	if !domain.ValidPriority(input.Priority) {
		details["priority"] = "unknown priority"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid issue report", details)
	}
	return nil
}

// generateTicketID concatenates the campus prefix with the first eight hex
// characters of a fresh random UUID, upper-cased. Uniqueness is enforced by
// the database; see insertWithFreshTicketID.
func generateTicketID() string {
	return ticketIDPrefix + strings.ToUpper(uuid.NewString()[:8])
}

func notFoundOrInternal(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("issue", nil)
	}
	return apperrors.MapError(err)
}

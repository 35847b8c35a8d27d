package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/uap-campus/campus-fixer/internal/api/dto"
	"github.com/uap-campus/campus-fixer/internal/auth"
	"github.com/uap-campus/campus-fixer/internal/domain"
	"github.com/uap-campus/campus-fixer/internal/service"
	apperrors "github.com/uap-campus/campus-fixer/pkg/util"
)

// IssuesHandler manages reporter-facing issue endpoints.
type IssuesHandler struct {
	service *service.IssueService
}

// NewIssuesHandler constructs handler.
func NewIssuesHandler(issueService *service.IssueService) *IssuesHandler {
	return &IssuesHandler{service: issueService}
}

// Report POST /issues.
func (h *IssuesHandler) Report(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ReportIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.IssueReportInput{
		Anonymous:    req.Anonymous,
		ReporterRole: req.ReporterRole,
		Department:   req.Department,
		Category:     req.Category,
		Building:     req.Building,
		Location:     req.Location,
		Description:  req.Description,
		ImageKey:     req.ImageKey,
		Priority:     req.Priority,
	}
	issue, err := h.service.ReportIssue(c.Context(), principal.User, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data":    issueSummary(issue, principal.User),
		"message": "Issue reported successfully! Ticket ID: " + issue.TicketID,
	})
}

// ListOwn GET /issues.
func (h *IssuesHandler) ListOwn(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	limit, offset := parsePagination(c)
	issues, err := h.service.ListOwnIssues(c.Context(), principal.User, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.IssueSummary, 0, len(issues))
	for i := range issues {
		items = append(items, issueSummary(&issues[i], principal.User))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Track GET /issues/:ticket_id.
func (h *IssuesHandler) Track(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	issue, updates, feedback, err := h.service.TrackIssue(c.Context(), principal.User, c.Params("ticket_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueDetail(issue, updates, feedback, principal.User)})
}

// ChangeStatus POST /issues/:ticket_id/status.
func (h *IssuesHandler) ChangeStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.StatusChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(string(req.Status)) == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	issue, err := h.service.ApplyStatusChange(c.Context(), principal.User, c.Params("ticket_id"), req.Status, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":    issueSummary(issue, principal.User),
		"message": "Issue status updated successfully!",
	})
}

// AddFeedback POST /issues/:ticket_id/feedback.
func (h *IssuesHandler) AddFeedback(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	feedback, err := h.service.AddFeedback(c.Context(), principal.User, c.Params("ticket_id"), req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": feedbackResponse(feedback)})
}

func parsePagination(c *fiber.Ctx) (limit, offset int) {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	return pageSize, (page - 1) * pageSize
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

// issueSummary maps an issue for the viewer, suppressing reporter identity on
// anonymous issues. The underlying reference stays stored for accountability.
func issueSummary(issue *domain.Issue, viewer *domain.User) dto.IssueSummary {
	summary := dto.IssueSummary{
		TicketID:     issue.TicketID,
		Anonymous:    issue.Anonymous,
		ReporterRole: issue.ReporterRole,
		Department:   issue.Department,
		Category:     issue.Category,
		Building:     issue.Building,
		Location:     issue.Location,
		Priority:     issue.Priority,
		Status:       issue.Status,
		AssigneeID:   issue.AssigneeID,
		CreatedAt:    issue.CreatedAt,
		UpdatedAt:    issue.UpdatedAt,
	}
	if !issue.Anonymous || (viewer != nil && viewer.ID == issue.ReporterID) {
		reporterID := issue.ReporterID
		summary.ReporterID = &reporterID
	}
	return summary
}

func issueDetail(issue *domain.Issue, updates []domain.IssueUpdate, feedback *domain.Feedback, viewer *domain.User) dto.IssueDetailResponse {
	entries := make([]dto.IssueUpdateResponse, 0, len(updates))
	for _, update := range updates {
		entries = append(entries, dto.IssueUpdateResponse{
			ID:        update.ID,
			Text:      update.Text,
			ActorID:   update.ActorID,
			CreatedAt: update.CreatedAt,
		})
	}
	detail := dto.IssueDetailResponse{
		IssueSummary: issueSummary(issue, viewer),
		Description:  issue.Description,
		ImageKey:     issue.ImageKey,
		Updates:      entries,
	}
	if feedback != nil {
		resp := feedbackResponse(feedback)
		detail.Feedback = &resp
	}
	return detail
}

func feedbackResponse(feedback *domain.Feedback) dto.FeedbackResponse {
	return dto.FeedbackResponse{
		Rating:    feedback.Rating,
		Comment:   feedback.Comment,
		CreatedAt: feedback.CreatedAt,
	}
}

package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/uap-campus/campus-fixer/internal/api/dto"
	"github.com/uap-campus/campus-fixer/internal/auth"
	"github.com/uap-campus/campus-fixer/internal/domain"
	"github.com/uap-campus/campus-fixer/internal/repository"
	"github.com/uap-campus/campus-fixer/internal/service"
	apperrors "github.com/uap-campus/campus-fixer/pkg/util"
)

// AdminHandler exposes staff-only dashboard and management endpoints.
type AdminHandler struct {
	issues *service.IssueService
	stats  *service.StatsService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(issueService *service.IssueService, statsService *service.StatsService) *AdminHandler {
	return &AdminHandler{issues: issueService, stats: statsService}
}

// Dashboard GET /admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	recentLimit := parseInt(c.Query("recent"), 10)
	stats, err := h.stats.Dashboard(c.Context(), recentLimit)
	if err != nil {
		return apperrors.MapError(err)
	}

	recent := make([]dto.IssueSummary, 0, len(stats.Recent))
	for i := range stats.Recent {
		recent = append(recent, issueSummary(&stats.Recent[i], principal.User))
	}
	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		Total:      stats.Counts.Total,
		ByStatus:   stats.Counts.ByStatus,
		ByPriority: stats.Counts.ByPriority,
		Recent:     recent,
	}})
}

// ListIssues GET /admin/issues.
func (h *AdminHandler) ListIssues(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := parseIssueFilter(c)
	issues, err := h.issues.ListIssues(c.Context(), principal.User, filter)
	if err != nil {
		return err
	}
	items := make([]dto.IssueSummary, 0, len(issues))
	for i := range issues {
		items = append(items, issueSummary(&issues[i], principal.User))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Assign POST /admin/issues/:ticket_id/assign.
func (h *AdminHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.AssigneeID) == "" {
		return apperrors.NewValidationError("assignee_id required", nil)
	}
	issue, err := h.issues.AssignIssue(c.Context(), principal.User, c.Params("ticket_id"), req.AssigneeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueSummary(issue, principal.User)})
}

func parseIssueFilter(c *fiber.Ctx) repository.IssueFilter {
	filter := repository.IssueFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.IssueStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.IssuePriority(strings.TrimSpace(part)))
		}
	}
	if dept := c.Query("department"); dept != "" {
		value := domain.Department(dept)
		filter.Department = &value
	}
	if category := c.Query("category"); category != "" {
		value := domain.IssueCategory(category)
		filter.Category = &value
	}
	if building := c.Query("building"); building != "" {
		value := domain.Building(building)
		filter.Building = &value
	}
	if assignee := c.Query("assignee_id"); assignee != "" {
		filter.AssigneeID = &assignee
	}
	if search := c.Query("q"); search != "" {
		filter.SearchTerm = &search
	}
	filter.Limit, filter.Offset = parsePagination(c)
	return filter
}

package dto

import "github.com/uap-campus/campus-fixer/internal/domain"

// DashboardResponse aggregates counts and recent issues for admins.
type DashboardResponse struct {
	Total      int64                          `json:"total"`
	ByStatus   map[domain.IssueStatus]int64   `json:"by_status"`
	ByPriority map[domain.IssuePriority]int64 `json:"by_priority"`
	Recent     []IssueSummary                 `json:"recent"`
}

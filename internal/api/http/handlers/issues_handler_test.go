package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uap-campus/campus-fixer/internal/domain"
)

func anonymousIssue() *domain.Issue {
	return &domain.Issue{
		ID:           "issue-1",
		TicketID:     "UAP1234ABCD",
		ReporterID:   "user-reporter",
		Anonymous:    true,
		ReporterRole: domain.RoleStudent,
		Department:   domain.DepartmentCSE,
		Category:     domain.CategoryElectrical,
		Building:     domain.BuildingAcademic,
		Location:     "Lab 3",
		Description:  "Broken socket",
		Priority:     domain.IssuePriorityMedium,
		Status:       domain.IssueStatusPending,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func TestIssueSummaryHidesAnonymousReporter(t *testing.T) {
	issue := anonymousIssue()
	staff := &domain.User{ID: "user-staff", Role: domain.RoleStaff}

	summary := issueSummary(issue, staff)
	assert.Nil(t, summary.ReporterID, "staff views must not see who filed an anonymous issue")
	assert.True(t, summary.Anonymous)
	assert.Equal(t, domain.RoleStudent, summary.ReporterRole, "role stays visible for triage")
}

func TestIssueSummaryShowsReporterToThemselves(t *testing.T) {
	issue := anonymousIssue()
	reporter := &domain.User{ID: "user-reporter", Role: domain.RoleStudent}

	summary := issueSummary(issue, reporter)
	require.NotNil(t, summary.ReporterID)
	assert.Equal(t, "user-reporter", *summary.ReporterID)
}

func TestIssueSummaryShowsReporterWhenNotAnonymous(t *testing.T) {
	issue := anonymousIssue()
	issue.Anonymous = false
	other := &domain.User{ID: "user-other", Role: domain.RoleStaff}

	summary := issueSummary(issue, other)
	require.NotNil(t, summary.ReporterID)
	assert.Equal(t, "user-reporter", *summary.ReporterID)
}

func TestIssueDetailIncludesUpdatesAndFeedback(t *testing.T) {
	issue := anonymousIssue()
	updates := []domain.IssueUpdate{
		{ID: "update-2", IssueID: issue.ID, Text: "Status changed to resolved. Fixed", ActorID: "user-staff", CreatedAt: time.Now()},
		{ID: "update-1", IssueID: issue.ID, Text: "Issue reported. Status: pending", ActorID: "user-reporter", CreatedAt: time.Now().Add(-time.Hour)},
	}
	feedback := &domain.Feedback{IssueID: issue.ID, Rating: 4, Comment: "quick", CreatedAt: time.Now()}

	detail := issueDetail(issue, updates, feedback, &domain.User{ID: "user-reporter"})
	require.Len(t, detail.Updates, 2)
	assert.Equal(t, "update-2", detail.Updates[0].ID)
	assert.Equal(t, "Broken socket", detail.Description)
	require.NotNil(t, detail.Feedback)
	assert.Equal(t, 4, detail.Feedback.Rating)

	withoutFeedback := issueDetail(issue, nil, nil, &domain.User{ID: "user-reporter"})
	assert.Nil(t, withoutFeedback.Feedback)
	assert.Empty(t, withoutFeedback.Updates)
}

func TestParseIntDefaults(t *testing.T) {
	assert.Equal(t, 20, parseInt("", 20))
	assert.Equal(t, 20, parseInt("abc", 20))
	assert.Equal(t, 20, parseInt("-5", 20))
	assert.Equal(t, 3, parseInt("3", 20))
}

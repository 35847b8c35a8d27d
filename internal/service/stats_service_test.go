package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uap-campus/campus-fixer/internal/domain"
)

func TestDashboardCounts(t *testing.T) {
	f := newIssueFixture()
	reporter := student()
	staff := staffMember()

	seed := []struct {
		status   domain.IssueStatus
		priority domain.IssuePriority
	}{
		{domain.IssueStatusPending, domain.IssuePriorityMedium},
		{domain.IssueStatusPending, domain.IssuePriorityUrgent},
		{domain.IssueStatusPending, domain.IssuePriorityLow},
		{domain.IssueStatusResolved, domain.IssuePriorityMedium},
		{domain.IssueStatusResolved, domain.IssuePriorityHigh},
		{domain.IssueStatusClosed, domain.IssuePriorityMedium},
	}
	for _, s := range seed {
		input := validReport()
		input.Priority = s.priority
		issue, err := f.service.ReportIssue(context.Background(), reporter, input)
		require.NoError(t, err)
		if s.status != domain.IssueStatusPending {
			_, err = f.service.ApplyStatusChange(context.Background(), staff, issue.TicketID, s.status, "")
			require.NoError(t, err)
		}
	}

	stats := NewStatsService(f.issues, nil, zap.NewNop())
	dashboard, err := stats.Dashboard(context.Background(), 5)
	require.NoError(t, err)

	counts := dashboard.Counts
	assert.Equal(t, int64(6), counts.Total)
	assert.Equal(t, int64(3), counts.ByStatus[domain.IssueStatusPending])
	assert.Equal(t, int64(0), counts.ByStatus[domain.IssueStatusInProgress])
	assert.Equal(t, int64(2), counts.ByStatus[domain.IssueStatusResolved])
	assert.Equal(t, int64(1), counts.ByStatus[domain.IssueStatusClosed])

	assert.Equal(t, int64(3), counts.ByPriority[domain.IssuePriorityMedium])
	assert.Equal(t, int64(1), counts.ByPriority[domain.IssuePriorityUrgent])
	assert.Equal(t, int64(1), counts.ByPriority[domain.IssuePriorityHigh])
	assert.Equal(t, int64(1), counts.ByPriority[domain.IssuePriorityLow])

	assert.Len(t, dashboard.Recent, 5)
}

func TestDashboardEmpty(t *testing.T) {
	f := newIssueFixture()
	stats := NewStatsService(f.issues, nil, zap.NewNop())

	dashboard, err := stats.Dashboard(context.Background(), 10)
	require.NoError(t, err)
	assert.Zero(t, dashboard.Counts.Total)
	assert.Empty(t, dashboard.Recent)
}

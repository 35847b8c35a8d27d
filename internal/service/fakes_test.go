package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/uap-campus/campus-fixer/internal/domain"
	"github.com/uap-campus/campus-fixer/internal/events"
	"github.com/uap-campus/campus-fixer/internal/repository"
)

type fakeIssueRepo struct {
	mu         sync.Mutex
	byTicketID map[string]*domain.Issue
	seq        int
	failDupes  int
	createCnt  int
}

func newFakeIssueRepo() *fakeIssueRepo {
	return &fakeIssueRepo{byTicketID: map[string]*domain.Issue{}}
}

func (r *fakeIssueRepo) Create(_ context.Context, issue *domain.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCnt++
	if r.failDupes > 0 {
		r.failDupes--
		return repository.ErrDuplicateTicketID
	}
	if _, exists := r.byTicketID[issue.TicketID]; exists {
		return repository.ErrDuplicateTicketID
	}
	r.seq++
	issue.ID = fmt.Sprintf("issue-%d", r.seq)
	issue.CreatedAt = time.Now()
	issue.UpdatedAt = issue.CreatedAt
	clone := *issue
	r.byTicketID[issue.TicketID] = &clone
	return nil
}

func (r *fakeIssueRepo) Update(_ context.Context, issue *domain.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for ticketID, stored := range r.byTicketID {
		if stored.ID == issue.ID {
			issue.UpdatedAt = time.Now()
			clone := *issue
			r.byTicketID[ticketID] = &clone
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeIssueRepo) GetByTicketID(_ context.Context, ticketID string) (*domain.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byTicketID[ticketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (r *fakeIssueRepo) ListByReporter(_ context.Context, reporterID string, _, _ int) ([]domain.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Issue
	for _, stored := range r.byTicketID {
		if stored.ReporterID == reporterID {
			result = append(result, *stored)
		}
	}
	return result, nil
}

func (r *fakeIssueRepo) ListRecent(_ context.Context, limit int) ([]domain.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Issue
	for _, stored := range r.byTicketID {
		result = append(result, *stored)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (r *fakeIssueRepo) ListWithFilter(_ context.Context, filter repository.IssueFilter) ([]domain.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Issue
	for _, stored := range r.byTicketID {
		if filter.ReporterID != nil && stored.ReporterID != *filter.ReporterID {
			continue
		}
		result = append(result, *stored)
	}
	return result, nil
}

func (r *fakeIssueRepo) CountTotal(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byTicketID)), nil
}

func (r *fakeIssueRepo) CountByStatus(_ context.Context) (repository.StatusCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := repository.StatusCounts{}
	for _, stored := range r.byTicketID {
		counts[stored.Status]++
	}
	return counts, nil
}

func (r *fakeIssueRepo) CountByPriority(_ context.Context) (repository.PriorityCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := repository.PriorityCounts{}
	for _, stored := range r.byTicketID {
		counts[stored.Priority]++
	}
	return counts, nil
}

func (r *fakeIssueRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byTicketID)
}

type fakeUpdateRepo struct {
	mu      sync.Mutex
	entries []domain.IssueUpdate
	seq     int
}

func (r *fakeUpdateRepo) Create(_ context.Context, update *domain.IssueUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	update.ID = fmt.Sprintf("update-%d", r.seq)
	update.CreatedAt = time.Now()
	r.entries = append(r.entries, *update)
	return nil
}

func (r *fakeUpdateRepo) ListByIssue(_ context.Context, issueID string) ([]domain.IssueUpdate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.IssueUpdate
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].IssueID == issueID {
			result = append(result, r.entries[i])
		}
	}
	return result, nil
}

func (r *fakeUpdateRepo) forIssue(issueID string) []domain.IssueUpdate {
	updates, _ := r.ListByIssue(context.Background(), issueID)
	return updates
}

type fakeFeedbackRepo struct {
	mu      sync.Mutex
	byIssue map[string]*domain.Feedback
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{byIssue: map[string]*domain.Feedback{}}
}

func (r *fakeFeedbackRepo) Create(_ context.Context, feedback *domain.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byIssue[feedback.IssueID]; exists {
		return repository.ErrFeedbackExists
	}
	feedback.ID = "feedback-" + feedback.IssueID
	feedback.CreatedAt = time.Now()
	clone := *feedback
	r.byIssue[feedback.IssueID] = &clone
	return nil
}

func (r *fakeFeedbackRepo) GetByIssue(_ context.Context, issueID string) (*domain.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byIssue[issueID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

type fakeUserRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.User
	seq  int
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{byID: map[string]*domain.User{}}
	for _, user := range users {
		repo.byID[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.byID[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.byID[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.byID {
		if stored.Email == email {
			clone := *stored
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeResetRepo struct {
	mu      sync.Mutex
	byToken map[string]*repository.PasswordResetToken
	seq     int
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{byToken: map[string]*repository.PasswordResetToken{}}
}

func (r *fakeResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	token.ID = fmt.Sprintf("reset-%d", r.seq)
	token.CreatedAt = time.Now()
	clone := *token
	r.byToken[token.Token] = &clone
	return nil
}

func (r *fakeResetRepo) GetByToken(_ context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byToken[tokenStr]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (r *fakeResetRepo) MarkUsed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, stored := range r.byToken {
		if stored.ID == id {
			stored.UsedAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event{}, d.events...)
}

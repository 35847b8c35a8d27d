package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uap-campus/campus-fixer/internal/domain"
)

// ErrDuplicateTicketID is returned when an insert collides on the ticket_id
// unique constraint. Callers regenerate the id and retry.
var ErrDuplicateTicketID = errors.New("duplicate ticket id")

const pgUniqueViolation = "23505"

// IssueFilter captures admin search parameters.
type IssueFilter struct {
	ReporterID *string
	Department *domain.Department
	Category   *domain.IssueCategory
	Building   *domain.Building
	AssigneeID *string
	Statuses   []domain.IssueStatus
	Priorities []domain.IssuePriority
	SearchTerm *string
	Limit      int
	Offset     int
}

// StatusCounts maps each lifecycle state to its issue count.
type StatusCounts map[domain.IssueStatus]int64

// PriorityCounts maps each priority to its issue count.
type PriorityCounts map[domain.IssuePriority]int64

// IssueRepository encapsulates issue persistence.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) error
	Update(ctx context.Context, issue *domain.Issue) error
	GetByTicketID(ctx context.Context, ticketID string) (*domain.Issue, error)
	ListByReporter(ctx context.Context, reporterID string, limit, offset int) ([]domain.Issue, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Issue, error)
	ListWithFilter(ctx context.Context, filter IssueFilter) ([]domain.Issue, error)
	CountTotal(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (StatusCounts, error)
	CountByPriority(ctx context.Context) (PriorityCounts, error)
}

type issueRepository struct {
	pool *pgxpool.Pool
}

// NewIssueRepository instantiates repository.
func NewIssueRepository(pool *pgxpool.Pool) IssueRepository {
	return &issueRepository{pool: pool}
}

const issueColumns = `id, ticket_id, reporter_id, anonymous, reporter_role, department, category,
               building, location, description, image_key, priority, status, assignee_id,
               created_at, updated_at`

func (r *issueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	const query = `
        INSERT INTO issues (ticket_id, reporter_id, anonymous, reporter_role, department, category, building, location, description, image_key, priority, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		issue.TicketID,
		issue.ReporterID,
		issue.Anonymous,
		issue.ReporterRole,
		issue.Department,
		issue.Category,
		issue.Building,
		issue.Location,
		issue.Description,
		issue.ImageKey,
		issue.Priority,
		issue.Status,
	).Scan(&issue.ID, &issue.CreatedAt, &issue.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && strings.Contains(pgErr.ConstraintName, "ticket_id") {
			return ErrDuplicateTicketID
		}
		return err
	}
	return nil
}

func (r *issueRepository) Update(ctx context.Context, issue *domain.Issue) error {
	const query = `
        UPDATE issues SET department=$1, category=$2, building=$3, location=$4, description=$5,
            image_key=$6, priority=$7, status=$8, assignee_id=$9, updated_at=NOW()
        WHERE id=$10
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		issue.Department,
		issue.Category,
		issue.Building,
		issue.Location,
		issue.Description,
		issue.ImageKey,
		issue.Priority,
		issue.Status,
		issue.AssigneeID,
		issue.ID,
	).Scan(&issue.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return pgx.ErrNoRows
	}
	return err
}

func (r *issueRepository) GetByTicketID(ctx context.Context, ticketID string) (*domain.Issue, error) {
	query := fmt.Sprintf(`SELECT %s FROM issues WHERE ticket_id=$1`, issueColumns)
	var issue domain.Issue
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&issue.ID,
		&issue.TicketID,
		&issue.ReporterID,
		&issue.Anonymous,
		&issue.ReporterRole,
		&issue.Department,
		&issue.Category,
		&issue.Building,
		&issue.Location,
		&issue.Description,
		&issue.ImageKey,
		&issue.Priority,
		&issue.Status,
		&issue.AssigneeID,
		&issue.CreatedAt,
		&issue.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *issueRepository) ListByReporter(ctx context.Context, reporterID string, limit, offset int) ([]domain.Issue, error) {
	filter := IssueFilter{
		ReporterID: &reporterID,
		Limit:      limit,
		Offset:     offset,
	}
	return r.ListWithFilter(ctx, filter)
}

func (r *issueRepository) ListRecent(ctx context.Context, limit int) ([]domain.Issue, error) {
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf(`SELECT %s FROM issues ORDER BY created_at DESC LIMIT %d`, issueColumns, limit)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

func (r *issueRepository) ListWithFilter(ctx context.Context, filter IssueFilter) ([]domain.Issue, error) {
	base := fmt.Sprintf(`SELECT %s FROM issues`, issueColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ReporterID != nil {
		args = append(args, *filter.ReporterID)
		clauses = append(clauses, fmt.Sprintf("reporter_id=$%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Building != nil {
		args = append(args, *filter.Building)
		clauses = append(clauses, fmt.Sprintf("building=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assignee_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(location) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

func (r *issueRepository) CountTotal(ctx context.Context) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM issues`).Scan(&total)
	return total, err
}

func (r *issueRepository) CountByStatus(ctx context.Context) (StatusCounts, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM issues GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := StatusCounts{}
	for rows.Next() {
		var status domain.IssueStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *issueRepository) CountByPriority(ctx context.Context) (PriorityCounts, error) {
	rows, err := r.pool.Query(ctx, `SELECT priority, COUNT(*) FROM issues GROUP BY priority`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := PriorityCounts{}
	for rows.Next() {
		var priority domain.IssuePriority
		var count int64
		if err := rows.Scan(&priority, &count); err != nil {
			return nil, err
		}
		counts[priority] = count
	}
	return counts, rows.Err()
}

func scanIssues(rows pgx.Rows) ([]domain.Issue, error) {
	var result []domain.Issue
	for rows.Next() {
		var issue domain.Issue
		if err := rows.Scan(
			&issue.ID,
			&issue.TicketID,
			&issue.ReporterID,
			&issue.Anonymous,
			&issue.ReporterRole,
			&issue.Department,
			&issue.Category,
			&issue.Building,
			&issue.Location,
			&issue.Description,
			&issue.ImageKey,
			&issue.Priority,
			&issue.Status,
			&issue.AssigneeID,
			&issue.CreatedAt,
			&issue.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, issue)
	}
	return result, rows.Err()
}

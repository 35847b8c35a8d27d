package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uap-campus/campus-fixer/internal/domain"
)

// ErrFeedbackExists is returned when an issue already has feedback.
var ErrFeedbackExists = errors.New("feedback already recorded")

// FeedbackRepository stores one feedback row per resolved issue.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.Feedback) error
	GetByIssue(ctx context.Context, issueID string) (*domain.Feedback, error)
}

type feedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository constructs repository.
func NewFeedbackRepository(pool *pgxpool.Pool) FeedbackRepository {
	return &feedbackRepository{pool: pool}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	const query = `
        INSERT INTO feedback (issue_id, rating, comment)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		feedback.IssueID,
		feedback.Rating,
		feedback.Comment,
	).Scan(&feedback.ID, &feedback.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrFeedbackExists
		}
		return err
	}
	return nil
}

func (r *feedbackRepository) GetByIssue(ctx context.Context, issueID string) (*domain.Feedback, error) {
	const query = `
        SELECT id, issue_id, rating, comment, created_at
        FROM feedback WHERE issue_id=$1`
	var feedback domain.Feedback
	if err := r.pool.QueryRow(ctx, query, issueID).Scan(
		&feedback.ID,
		&feedback.IssueID,
		&feedback.Rating,
		&feedback.Comment,
		&feedback.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, err
	}
	return &feedback, nil
}

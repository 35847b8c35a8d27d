package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/uap-campus/campus-fixer/internal/domain"
	"github.com/uap-campus/campus-fixer/internal/repository"
)

const (
	dashboardCacheKey = "campus-fixer:dashboard:counts"
	dashboardCacheTTL = 30 * time.Second
)

// DashboardCounts aggregates ticket counts for the admin dashboard.
type DashboardCounts struct {
	Total      int64                     `json:"total"`
	ByStatus   repository.StatusCounts   `json:"by_status"`
	ByPriority repository.PriorityCounts `json:"by_priority"`
}

// DashboardStats is the full dashboard payload.
type DashboardStats struct {
	Counts DashboardCounts
	Recent []domain.Issue
}

// StatsService answers read-only aggregation queries. Counts are cached in
// Redis with a short TTL; cache failures fall back to Postgres silently.
type StatsService struct {
	issues repository.IssueRepository
	cache  *redis.Client
	logger *zap.Logger
}

// NewStatsService constructs the service. cache may be nil.
func NewStatsService(issues repository.IssueRepository, cache *redis.Client, logger *zap.Logger) *StatsService {
	return &StatsService{issues: issues, cache: cache, logger: logger}
}

// Dashboard returns aggregate counts plus the most recent issues.
func (s *StatsService) Dashboard(ctx context.Context, recentLimit int) (*DashboardStats, error) {
	counts, err := s.counts(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.issues.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{Counts: *counts, Recent: recent}, nil
}

func (s *StatsService) counts(ctx context.Context) (*DashboardCounts, error) {
	if cached := s.cachedCounts(ctx); cached != nil {
		return cached, nil
	}

	total, err := s.issues.CountTotal(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.issues.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byPriority, err := s.issues.CountByPriority(ctx)
	if err != nil {
		return nil, err
	}

	counts := &DashboardCounts{Total: total, ByStatus: byStatus, ByPriority: byPriority}
	s.storeCounts(ctx, counts)
	return counts, nil
}

func (s *StatsService) cachedCounts(ctx context.Context) *DashboardCounts {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, dashboardCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Debug("dashboard cache read failed", zap.Error(err))
		}
		return nil
	}
	var counts DashboardCounts
	if err := json.Unmarshal(raw, &counts); err != nil {
		s.logger.Debug("dashboard cache decode failed", zap.Error(err))
		return nil
	}
	return &counts
}

func (s *StatsService) storeCounts(ctx context.Context, counts *DashboardCounts) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(counts)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, dashboardCacheKey, raw, dashboardCacheTTL).Err(); err != nil {
		s.logger.Debug("dashboard cache write failed", zap.Error(err))
	}
}

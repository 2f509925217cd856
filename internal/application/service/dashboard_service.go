package service

import (
	"context"
	"time"

	"github.com/faisalr/propdesk/internal/application/port"
	"github.com/faisalr/propdesk/internal/domain/entity"
)

// WindowStat is one aging bucket: cheques falling due inside a time window
type WindowStat struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// DashboardSummary is the PDC status aggregation, recomputed per request
// from current cheque state. There is no cache to invalidate; freshness is
// guaranteed by definition.
type DashboardSummary struct {
	ByStatus          []port.StatusBucket `json:"by_status"`
	TotalCount        int                 `json:"total_count"`
	TotalAmount       float64             `json:"total_amount"`
	DueThisWeek       WindowStat          `json:"due_this_week"`
	DueThisMonth      WindowStat          `json:"due_this_month"`
	AwaitingClearance int                 `json:"awaiting_clearance"`
	GeneratedAt       time.Time           `json:"generated_at"`
}

// DashboardService is the read-side status aggregator
type DashboardService interface {
	Summary(ctx context.Context) (*DashboardSummary, error)
}

type dashboardServiceImpl struct {
	chequeRepo port.ChequeRepository
	logger     Logger
	now        func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(chequeRepo port.ChequeRepository, logger Logger) DashboardService {
	return &dashboardServiceImpl{
		chequeRepo: chequeRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// Summary aggregates counts and amounts by status plus due-date windows:
// the next seven days and the current calendar month.
func (s *dashboardServiceImpl) Summary(ctx context.Context) (*DashboardSummary, error) {
	buckets, err := s.chequeRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	summary := &DashboardSummary{
		ByStatus:    buckets,
		GeneratedAt: now,
	}

	for _, bucket := range buckets {
		summary.TotalCount += bucket.Count
		summary.TotalAmount += bucket.Amount
		if bucket.Status == entity.StatusDeposited {
			summary.AwaitingClearance = bucket.Count
		}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	weekCount, weekAmount, err := s.chequeRepo.DueWindow(ctx, today, today.AddDate(0, 0, 7))
	if err != nil {
		return nil, err
	}
	summary.DueThisWeek = WindowStat{Count: weekCount, Amount: weekAmount}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthCount, monthAmount, err := s.chequeRepo.DueWindow(ctx, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	summary.DueThisMonth = WindowStat{Count: monthCount, Amount: monthAmount}

	return summary, nil
}

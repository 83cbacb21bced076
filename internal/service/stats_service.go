package service

import (
	"context"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const statsWindowDays = 30

// StatsService computes read-only aggregates over the ticket set,
// partitioned by the caller's visibility scope.
type StatsService struct {
	tickets repository.TicketRepository
	now     func() time.Time
}

// NewStatsService constructs the service.
func NewStatsService(tickets repository.TicketRepository) *StatsService {
	return &StatsService{tickets: tickets, now: time.Now}
}

// BasicStats returns status counts over the actor's visibility scope.
func (s *StatsService) BasicStats(ctx context.Context, actor *domain.User, caps auth.Capabilities) (*domain.BasicStats, error) {
	var scope *string
	if !caps.Staff() {
		owner := actor.ID
		scope = &owner
	}
	stats, err := s.tickets.StatusCounts(ctx, scope)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// AdminStats returns the extended dashboard aggregates. Staff only. All
// rolling windows are computed against the current time of the call.
func (s *StatsService) AdminStats(ctx context.Context, actor *domain.User, caps auth.Capabilities) (*domain.AdminStats, error) {
	if !caps.Staff() {
		return nil, apperrors.NewForbidden("staff role required")
	}

	now := s.now()
	since := now.AddDate(0, 0, -statsWindowDays)

	basic, err := s.tickets.StatusCounts(ctx, nil)
	if err != nil {
		return nil, err
	}
	agg, err := s.tickets.Aggregates(ctx, since)
	if err != nil {
		return nil, err
	}
	trend, err := s.tickets.CreationTrend(ctx, since)
	if err != nil {
		return nil, err
	}

	return &domain.AdminStats{
		BasicStats:     basic,
		ByPriority:     agg.ByPriority,
		CreatedLast30:  agg.CreatedLast30,
		ResolvedLast30: agg.ResolvedLast30,
		CreationTrend:  fillTrend(trend, since, now),
		Unassigned:     agg.Unassigned,
		Aging:          agg.Aging,
	}, nil
}

// fillTrend expands sparse daily counts into one bucket per day of the
// window, zero-filled.
func fillTrend(points []domain.TrendPoint, since, now time.Time) []domain.TrendPoint {
	counts := make(map[string]int64, len(points))
	for _, p := range points {
		counts[p.Day.UTC().Format("2006-01-02")] = p.Count
	}

	start := since.UTC().Truncate(24 * time.Hour)
	end := now.UTC().Truncate(24 * time.Hour)
	filled := make([]domain.TrendPoint, 0, statsWindowDays+1)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		filled = append(filled, domain.TrendPoint{Day: day, Count: counts[day.Format("2006-01-02")]})
	}
	return filled
}

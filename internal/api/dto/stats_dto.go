package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// BasicStatsResponse mirrors the user dashboard counters.
type BasicStatsResponse struct {
	Total      int64 `json:"total"`
	Open       int64 `json:"open"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
}

// TrendPointResponse is one day of the creation trend.
type TrendPointResponse struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// AdminStatsResponse mirrors the admin dashboard counters.
type AdminStatsResponse struct {
	TotalTickets       int64                           `json:"total_tickets"`
	OpenTickets        int64                           `json:"open_tickets"`
	InProgressTickets  int64                           `json:"in_progress_tickets"`
	ResolvedTickets    int64                           `json:"resolved_tickets"`
	ByPriority         map[domain.TicketPriority]int64 `json:"by_priority"`
	CreatedLast30Days  int64                           `json:"created_last_30_days"`
	ResolvedLast30Days int64                           `json:"resolved_last_30_days"`
	CreationTrend      []TrendPointResponse            `json:"creation_trend"`
	UnassignedTickets  int64                           `json:"unassigned_tickets"`
	AgingTickets       int64                           `json:"aging_tickets"`
}

// NewBasicStatsResponse maps domain stats.
func NewBasicStatsResponse(stats *domain.BasicStats) BasicStatsResponse {
	return BasicStatsResponse{
		Total:      stats.Total,
		Open:       stats.Open,
		InProgress: stats.InProgress,
		Resolved:   stats.Resolved,
	}
}

// NewAdminStatsResponse maps extended domain stats.
func NewAdminStatsResponse(stats *domain.AdminStats) AdminStatsResponse {
	trend := make([]TrendPointResponse, 0, len(stats.CreationTrend))
	for _, point := range stats.CreationTrend {
		trend = append(trend, TrendPointResponse{
			Day:   point.Day.Format(time.DateOnly),
			Count: point.Count,
		})
	}
	return AdminStatsResponse{
		TotalTickets:       stats.Total,
		OpenTickets:        stats.Open,
		InProgressTickets:  stats.InProgress,
		ResolvedTickets:    stats.Resolved,
		ByPriority:         stats.ByPriority,
		CreatedLast30Days:  stats.CreatedLast30,
		ResolvedLast30Days: stats.ResolvedLast30,
		CreationTrend:      trend,
		UnassignedTickets:  stats.Unassigned,
		AgingTickets:       stats.Aging,
	}
}

package domain

import "time"

// BasicStats summarizes ticket counts inside an actor's visibility scope.
type BasicStats struct {
	Total      int64
	Open       int64
	InProgress int64
	Resolved   int64
}

// TrendPoint is one daily bucket of the creation trend.
type TrendPoint struct {
	Day   time.Time
	Count int64
}

// AdminStats extends BasicStats with the dashboard aggregates staff see.
// Rolling windows are computed relative to the request time, never cached.
type AdminStats struct {
	BasicStats
	ByPriority     map[TicketPriority]int64
	CreatedLast30  int64
	ResolvedLast30 int64
	CreationTrend  []TrendPoint
	Unassigned     int64
	Aging          int64
}

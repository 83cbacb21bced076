package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

func TestBasicStatsScopesNonStaff(t *testing.T) {
	tickets := newFakeTicketRepo()
	tickets.statusCounts = domain.BasicStats{Total: 3, Open: 2, Resolved: 1}
	svc := NewStatsService(tickets)

	user, userCaps := actorWithCaps("u1", domain.RoleUser)
	stats, err := svc.BasicStats(context.Background(), user, userCaps)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	require.NotNil(t, tickets.lastScope)
	assert.Equal(t, "u1", *tickets.lastScope)
}

func TestBasicStatsStaffSeesAll(t *testing.T) {
	tickets := newFakeTicketRepo()
	svc := NewStatsService(tickets)

	admin, adminCaps := actorWithCaps("a1", domain.RoleAdmin)
	_, err := svc.BasicStats(context.Background(), admin, adminCaps)
	require.NoError(t, err)
	assert.Nil(t, tickets.lastScope)
}

func TestAdminStatsStaffOnly(t *testing.T) {
	tickets := newFakeTicketRepo()
	svc := NewStatsService(tickets)

	user, userCaps := actorWithCaps("u1", domain.RoleUser)
	_, err := svc.AdminStats(context.Background(), user, userCaps)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
}

func TestAdminStatsAggregates(t *testing.T) {
	tickets := newFakeTicketRepo()
	tickets.statusCounts = domain.BasicStats{Total: 10, Open: 4, InProgress: 3, Resolved: 3}
	tickets.aggregates = &repository.AdminAggregates{
		ByPriority:     map[domain.TicketPriority]int64{domain.TicketPriorityLow: 6, domain.TicketPriorityHigh: 4},
		CreatedLast30:  7,
		ResolvedLast30: 2,
		Unassigned:     5,
		Aging:          1,
	}

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	tickets.trend = []domain.TrendPoint{
		{Day: now.AddDate(0, 0, -1), Count: 3},
		{Day: now, Count: 2},
	}

	svc := NewStatsService(tickets)
	svc.now = func() time.Time { return now }

	admin, adminCaps := actorWithCaps("a1", domain.RoleAdmin)
	stats, err := svc.AdminStats(context.Background(), admin, adminCaps)
	require.NoError(t, err)

	assert.Equal(t, int64(10), stats.Total)
	assert.Equal(t, int64(7), stats.CreatedLast30)
	assert.Equal(t, int64(2), stats.ResolvedLast30)
	assert.Equal(t, int64(5), stats.Unassigned)
	assert.Equal(t, int64(1), stats.Aging)
	assert.Equal(t, int64(4), stats.ByPriority[domain.TicketPriorityHigh])

	// One zero-filled bucket per day of the window, inclusive of today.
	require.Len(t, stats.CreationTrend, statsWindowDays+1)
	assert.Equal(t, int64(0), stats.CreationTrend[0].Count)
	last := stats.CreationTrend[len(stats.CreationTrend)-1]
	assert.Equal(t, int64(2), last.Count)
	assert.Equal(t, int64(3), stats.CreationTrend[len(stats.CreationTrend)-2].Count)
}

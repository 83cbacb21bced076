package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("ADMIN")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, role)

	role, ok = ParseRole(" user ")
	assert.True(t, ok)
	assert.Equal(t, RoleUser, role)

	_, ok = ParseRole("owner")
	assert.False(t, ok)
	_, ok = ParseRole("")
	assert.False(t, ok)
}

func TestValidStatusAndPriority(t *testing.T) {
	assert.True(t, ValidStatus(TicketStatusOpen))
	assert.True(t, ValidStatus(TicketStatusInProgress))
	assert.True(t, ValidStatus(TicketStatusResolved))
	assert.False(t, ValidStatus(TicketStatus("closed")))

	assert.True(t, ValidPriority(TicketPriorityLow))
	assert.True(t, ValidPriority(TicketPriorityMedium))
	assert.True(t, ValidPriority(TicketPriorityHigh))
	assert.False(t, ValidPriority(TicketPriority("urgent")))
}

func TestTicketResolved(t *testing.T) {
	open := &Ticket{Status: TicketStatusOpen}
	resolved := &Ticket{Status: TicketStatusResolved}
	assert.False(t, open.Resolved())
	assert.True(t, resolved.Resolved())
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

func newTicketFixture() (*TicketService, *fakeTicketRepo, *fakeUserRepo, *captureDispatcher) {
	tickets := newFakeTicketRepo()
	users := newFakeUserRepo()
	dispatcher := &captureDispatcher{}
	svc := NewTicketService(TicketDependencies{TicketRepo: tickets, UserRepo: users, Dispatcher: dispatcher})
	return svc, tickets, users, dispatcher
}

func actorWithCaps(id string, role domain.Role) (*domain.User, auth.Capabilities) {
	user := &domain.User{ID: id, Role: role, IsActive: true, IsStaff: role == domain.RoleAdmin}
	return user, auth.CapabilitiesFor(role)
}

func TestCreateForcesOwnershipAndStatus(t *testing.T) {
	svc, _, _, dispatcher := newTicketFixture()
	actor, _ := actorWithCaps("u1", domain.RoleUser)

	ticket, err := svc.Create(context.Background(), actor, TicketCreateInput{
		Title:       "  Printer on fire  ",
		Description: "Smoke coming out of the tray.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Printer on fire", ticket.Title)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketPriorityLow, ticket.Priority)
	assert.Equal(t, "u1", ticket.CreatedBy)
	assert.Nil(t, ticket.AssignedTo)

	published := dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTicketCreated, published[0].Type)
}

func TestCreateValidation(t *testing.T) {
	svc, _, _, _ := newTicketFixture()
	actor, _ := actorWithCaps("u1", domain.RoleUser)

	tests := []struct {
		name  string
		input TicketCreateInput
	}{
		{name: "empty title", input: TicketCreateInput{Title: "   ", Description: "desc"}},
		{name: "empty description", input: TicketCreateInput{Title: "title", Description: ""}},
		{name: "bad priority", input: TicketCreateInput{Title: "title", Description: "desc", Priority: "urgent"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), actor, tt.input)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
		})
	}
}

func TestCreateBlockedActor(t *testing.T) {
	svc, _, _, _ := newTicketFixture()
	actor, _ := actorWithCaps("u1", domain.RoleUser)
	actor.IsBlocked = true

	_, err := svc.Create(context.Background(), actor, TicketCreateInput{Title: "t", Description: "d"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
}

func TestGetVisibility(t *testing.T) {
	svc, tickets, _, _ := newTicketFixture()
	tickets.add(domain.Ticket{ID: "t1", Title: "t", CreatedBy: "u1", Status: domain.TicketStatusOpen})

	owner, ownerCaps := actorWithCaps("u1", domain.RoleUser)
	other, otherCaps := actorWithCaps("u2", domain.RoleUser)
	admin, adminCaps := actorWithCaps("a1", domain.RoleAdmin)

	_, err := svc.Get(context.Background(), owner, ownerCaps, "t1")
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), admin, adminCaps, "t1")
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), other, otherCaps, "t1")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	_, err = svc.Get(context.Background(), owner, ownerCaps, "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestUpdateResolvedLockAppliesToEveryActor(t *testing.T) {
	svc, tickets, _, _ := newTicketFixture()
	tickets.add(domain.Ticket{ID: "t1", Title: "t", CreatedBy: "u1", Status: domain.TicketStatusResolved})

	owner, ownerCaps := actorWithCaps("u1", domain.RoleUser)
	admin, adminCaps := actorWithCaps("a1", domain.RoleAdmin)

	title := "new title"
	_, err := svc.Update(context.Background(), owner, ownerCaps, "t1", TicketPatch{Title: &title})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeAlreadyResolved))

	_, err = svc.Update(context.Background(), admin, adminCaps, "t1", TicketPatch{Title: &title})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeAlreadyResolved))
}

func TestUpdateOwnershipBeforeResolvedLock(t *testing.T) {
	svc, tickets, _, _ := newTicketFixture()
	tickets.add(domain.Ticket{ID: "t1", Title: "t", CreatedBy: "u1", Status: domain.TicketStatusResolved})

	other, otherCaps := actorWithCaps("u2", domain.RoleUser)

	title := "new title"
	_, err := svc.Update(context.Background(), other, otherCaps, "t1", TicketPatch{Title: &title})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
}

func TestUpdateFields(t *testing.T) {
	svc, tickets, users, dispatcher := newTicketFixture()
	tickets.add(domain.Ticket{ID: "t1", Title: "t", Description: "d", CreatedBy: "u1", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityLow})
	users.add(domain.User{ID: "a1", Email: "admin@example.com", Role: domain.RoleAdmin, IsActive: true})

	owner, ownerCaps := actorWithCaps("u1", domain.RoleUser)

	status := domain.TicketStatusInProgress
	priority := domain.TicketPriorityHigh
	assignee := "a1"
	updated, err := svc.Update(context.Background(), owner, ownerCaps, "t1", TicketPatch{
		Status:     &status,
		Priority:   &priority,
		AssignedTo: &assignee,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)
	assert.Equal(t, domain.TicketPriorityHigh, updated.Priority)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, "a1", *updated.AssignedTo)

	// Unassign via an explicit null.
	updated, err = svc.Update(context.Background(), owner, ownerCaps, "t1", TicketPatch{ClearAssignee: true})
	require.NoError(t, err)
	assert.Nil(t, updated.AssignedTo)

	published := dispatcher.published()
	require.Len(t, published, 2)
	assert.Equal(t, events.EventTicketUpdated, published[0].Type)
}

func TestUpdateResolvingEmitsResolvedEvent(t *testing.T) {
	svc, tickets, _, dispatcher := newTicketFixture()
	tickets.add(domain.Ticket{ID: "t1", Title: "t", CreatedBy: "u1", Status: domain.TicketStatusOpen})

	owner, ownerCaps := actorWithCaps("u1", domain.RoleUser)

	status := domain.TicketStatusResolved
	_, err := svc.Update(context.Background(), owner, ownerCaps, "t1", TicketPatch{Status: &status})
	require.NoError(t, err)

	published := dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTicketResolved, published[0].Type)
}

func TestUpdateUnknownAssignee(t *testing.T) {
	svc, tickets, _, _ := newTicketFixture()
	tickets.add(domain.Ticket{ID: "t1", Title: "t", CreatedBy: "u1", Status: domain.TicketStatusOpen})

	owner, ownerCaps := actorWithCaps("u1", domain.RoleUser)

	assignee := "ghost"
	_, err := svc.Update(context.Background(), owner, ownerCaps, "t1", TicketPatch{AssignedTo: &assignee})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
}

func TestDeleteStaffOnly(t *testing.T) {
	svc, tickets, _, dispatcher := newTicketFixture()
	tickets.add(domain.Ticket{ID: "t1", Title: "t", CreatedBy: "u1", Status: domain.TicketStatusOpen})

	owner, ownerCaps := actorWithCaps("u1", domain.RoleUser)
	admin, adminCaps := actorWithCaps("a1", domain.RoleAdmin)

	// Owners may never delete their own tickets.
	err := svc.Delete(context.Background(), owner, ownerCaps, "t1")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	require.NoError(t, svc.Delete(context.Background(), admin, adminCaps, "t1"))

	err = svc.Delete(context.Background(), admin, adminCaps, "t1")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	published := dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTicketDeleted, published[0].Type)
}

func TestListScopesNonStaffToOwnTickets(t *testing.T) {
	svc, tickets, _, _ := newTicketFixture()
	tickets.add(domain.Ticket{ID: "t1", Title: "mine", CreatedBy: "u1", Status: domain.TicketStatusOpen})
	tickets.add(domain.Ticket{ID: "t2", Title: "theirs", CreatedBy: "u2", Status: domain.TicketStatusOpen})

	user, userCaps := actorWithCaps("u1", domain.RoleUser)
	admin, adminCaps := actorWithCaps("a1", domain.RoleAdmin)

	mine, err := svc.List(context.Background(), user, userCaps, TicketListFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "t1", mine[0].ID)

	all, err := svc.List(context.Background(), admin, adminCaps, TicketListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListNonStaffFilteringOtherOwnerIsEmpty(t *testing.T) {
	svc, tickets, _, _ := newTicketFixture()
	tickets.add(domain.Ticket{ID: "t2", Title: "theirs", CreatedBy: "u2", Status: domain.TicketStatusOpen})

	user, userCaps := actorWithCaps("u1", domain.RoleUser)

	other := "u2"
	result, err := svc.List(context.Background(), user, userCaps, TicketListFilter{CreatedBy: &other})
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.NotNil(t, result)
}

func TestListReturnsEmptySliceNotNil(t *testing.T) {
	svc, _, _, _ := newTicketFixture()
	user, userCaps := actorWithCaps("u1", domain.RoleUser)

	result, err := svc.List(context.Background(), user, userCaps, TicketListFilter{})
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestParseOrdering(t *testing.T) {
	cases := []struct {
		in    string
		field string
		desc  bool
	}{
		{in: "", field: "created_at", desc: true},
		{in: "created_at", field: "created_at", desc: false},
		{in: "-created_at", field: "created_at", desc: true},
		{in: "-priority", field: "priority", desc: true},
		{in: "updated_at", field: "updated_at", desc: false},
		{in: "password_hash", field: "created_at", desc: true},
		{in: "-id; DROP TABLE tickets", field: "created_at", desc: true},
	}
	for _, tt := range cases {
		field, desc := parseOrdering(tt.in)
		assert.Equal(t, tt.field, field, "ordering %q", tt.in)
		assert.Equal(t, tt.desc, desc, "ordering %q", tt.in)
	}
}

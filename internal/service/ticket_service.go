package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketService owns ticket state transitions and field-level mutation
// rules, consulting the authorization policy on every operation.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// TicketCreateInput describes ticket creation payload. Ownership, status and
// assignee are never taken from the client.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
}

// TicketPatch describes a partial update. Nil fields are left untouched;
// ClearAssignee unassigns the ticket.
type TicketPatch struct {
	Title         *string
	Description   *string
	Priority      *domain.TicketPriority
	Status        *domain.TicketStatus
	AssignedTo    *string
	ClearAssignee bool
}

// TicketListFilter describes listing parameters before visibility scoping.
type TicketListFilter struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	CreatedBy  *string
	AssignedTo *string
	Search     *string
	Ordering   string
	Limit      int
	Offset     int
}

// Create opens a ticket owned by the actor. Status is forced to open and the
// assignee to none regardless of input.
func (s *TicketService) Create(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if !auth.CanCreateTicket(actor) {
		return nil, apperrors.NewForbidden("blocked accounts cannot create tickets")
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", map[string]any{"field": "title"})
	}
	if description == "" {
		return nil, apperrors.NewValidationError("description required", map[string]any{"field": "description"})
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityLow
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("priority must be one of: low, medium, high", map[string]any{"field": "priority"})
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: description,
		Priority:    priority,
		Status:      domain.TicketStatusOpen,
		CreatedBy:   actor.ID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:    events.EventTicketCreated,
		ActorID: actor.ID,
		Payload: events.TicketCreatedPayload{TicketID: ticket.ID, Title: ticket.Title, Priority: ticket.Priority},
	})
	return ticket, nil
}

// Get fetches a ticket the actor is allowed to see.
func (s *TicketService) Get(ctx context.Context, actor *domain.User, caps auth.Capabilities, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.fetch(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !auth.CanViewTicket(actor, caps, ticket) {
		return nil, apperrors.NewForbidden("ticket access denied")
	}
	return ticket, nil
}

// Update applies a partial mutation. Resolved tickets reject every mutation
// for every actor; there is no reopen path.
func (s *TicketService) Update(ctx context.Context, actor *domain.User, caps auth.Capabilities, ticketID string, patch TicketPatch) (*domain.Ticket, error) {
	ticket, err := s.fetch(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := auth.CheckTicketUpdate(actor, caps, ticket); err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title cannot be empty", map[string]any{"field": "title"})
		}
		ticket.Title = title
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if description == "" {
			return nil, apperrors.NewValidationError("description cannot be empty", map[string]any{"field": "description"})
		}
		ticket.Description = description
	}
	if patch.Priority != nil {
		if !domain.ValidPriority(*patch.Priority) {
			return nil, apperrors.NewValidationError("priority must be one of: low, medium, high", map[string]any{"field": "priority"})
		}
		ticket.Priority = *patch.Priority
	}
	if patch.Status != nil {
		if !domain.ValidStatus(*patch.Status) {
			return nil, apperrors.NewValidationError("status must be one of: open, in_progress, resolved", map[string]any{"field": "status"})
		}
		ticket.Status = *patch.Status
	}
	if patch.ClearAssignee {
		ticket.AssignedTo = nil
	} else if patch.AssignedTo != nil {
		if _, err := s.users.GetByID(ctx, *patch.AssignedTo); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("assignee does not exist", map[string]any{"field": "assigned_to"})
			}
			return nil, err
		}
		assignee := *patch.AssignedTo
		ticket.AssignedTo = &assignee
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, err
	}

	eventType := events.EventTicketUpdated
	if oldStatus != domain.TicketStatusResolved && ticket.Status == domain.TicketStatusResolved {
		eventType = events.EventTicketResolved
	}
	s.publish(ctx, events.Event{
		Type:    eventType,
		ActorID: actor.ID,
		Payload: events.TicketUpdatedPayload{TicketID: ticket.ID, OldStatus: oldStatus, NewStatus: ticket.Status},
	})
	return ticket, nil
}

// Delete removes a ticket. Staff only; owners may never delete their own.
func (s *TicketService) Delete(ctx context.Context, actor *domain.User, caps auth.Capabilities, ticketID string) error {
	ticket, err := s.fetch(ctx, ticketID)
	if err != nil {
		return err
	}
	if !auth.CanDeleteTicket(caps) {
		return apperrors.NewForbidden("only staff may delete tickets")
	}
	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return err
	}
	s.publish(ctx, events.Event{
		Type:    events.EventTicketDeleted,
		ActorID: actor.ID,
		Payload: events.TicketDeletedPayload{TicketID: ticket.ID},
	})
	return nil
}

// List returns tickets inside the actor's visibility scope. Staff see every
// matching ticket; everyone else only their own, with the same filter
// predicate applied on top.
func (s *TicketService) List(ctx context.Context, actor *domain.User, caps auth.Capabilities, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		CreatedBy:  filter.CreatedBy,
		AssignedTo: filter.AssignedTo,
		Statuses:   filter.Statuses,
		Priorities: filter.Priorities,
		SearchTerm: filter.Search,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	repoFilter.OrderBy, repoFilter.Descending = parseOrdering(filter.Ordering)

	if !caps.Staff() {
		if filter.CreatedBy != nil && *filter.CreatedBy != actor.ID {
			// The scope and the requested filter cannot both hold.
			return []domain.Ticket{}, nil
		}
		owner := actor.ID
		repoFilter.CreatedBy = &owner
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

func (s *TicketService) fetch(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, err
	}
	return ticket, nil
}

// parseOrdering accepts an ordering field with an optional leading dash for
// descending order, e.g. "-created_at". Unknown fields fall back to newest
// first.
func parseOrdering(ordering string) (string, bool) {
	ordering = strings.TrimSpace(ordering)
	if ordering == "" {
		return "created_at", true
	}
	desc := false
	if strings.HasPrefix(ordering, "-") {
		desc = true
		ordering = ordering[1:]
	}
	switch ordering {
	case "created_at", "updated_at", "priority":
		return ordering, desc
	}
	return "created_at", true
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

package auth

import (
	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// Pure authorization decisions over (actor, action, ticket). Callers are
// responsible for authentication; these functions only decide allow/deny.

// CanViewTicket allows staff, or the ticket's owner.
func CanViewTicket(actor *domain.User, caps Capabilities, ticket *domain.Ticket) bool {
	if actor == nil || ticket == nil {
		return false
	}
	return caps.Staff() || ticket.CreatedBy == actor.ID
}

// CanCreateTicket allows any authenticated, non-blocked actor. Ownership of
// the new ticket is forced to the actor elsewhere.
func CanCreateTicket(actor *domain.User) bool {
	return actor != nil && !actor.IsBlocked
}

// CheckTicketUpdate decides whether the actor may mutate the ticket. Denials
// surface in order of specificity: ownership/role first, then the
// resolved-lock, which applies to every actor including staff.
func CheckTicketUpdate(actor *domain.User, caps Capabilities, ticket *domain.Ticket) error {
	if actor == nil || ticket == nil {
		return apperrors.NewForbidden("ticket access denied")
	}
	if ticket.CreatedBy != actor.ID && !caps.Staff() {
		return apperrors.NewForbidden("only the ticket owner or staff may modify a ticket")
	}
	if ticket.Resolved() {
		return apperrors.NewAlreadyResolved()
	}
	return nil
}

// CanDeleteTicket allows staff only; owners may never delete their own tickets.
func CanDeleteTicket(caps Capabilities) bool {
	return caps.CanDeleteTickets
}

// CanManageUsers gates user listing and blocking.
func CanManageUsers(caps Capabilities) bool {
	return caps.CanListUsers && caps.CanBlockUsers
}

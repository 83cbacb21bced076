package auth

import "github.com/spec-kit/helpdesk-service/internal/domain"

// Capabilities is the privilege set derived from an account role. It is
// computed once per request and consulted everywhere instead of comparing
// role strings ad hoc.
type Capabilities struct {
	CanListUsers       bool
	CanBlockUsers      bool
	CanCreateUsers     bool
	CanDeleteTickets   bool
	CanBypassOwnership bool
}

// CapabilitiesFor maps a role to its capability set.
func CapabilitiesFor(role domain.Role) Capabilities {
	if role == domain.RoleAdmin {
		return Capabilities{
			CanListUsers:       true,
			CanBlockUsers:      true,
			CanCreateUsers:     true,
			CanDeleteTickets:   true,
			CanBypassOwnership: true,
		}
	}
	return Capabilities{}
}

// Staff reports whether the capability set carries cross-user privileges.
func (c Capabilities) Staff() bool {
	return c.CanBypassOwnership
}

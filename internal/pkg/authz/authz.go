// Package authz is the role guard: stateless policy evaluation over
// (role, operation, is-owner) triples. Both lifecycle engines consult
// it before any mutation.
package authz

import (
	"errors"

	"travelbook/internal/domain"
)

var ErrPermissionDenied = errors.New("permission denied")

type Operation string

const (
	OpCreateBooking    Operation = "booking.create"
	OpViewBooking      Operation = "booking.view"
	OpListAllBookings  Operation = "booking.list_all"
	OpConfirmBooking   Operation = "booking.confirm"
	OpPayBooking       Operation = "booking.pay"
	OpCancelBooking    Operation = "booking.cancel"
	OpRefundBooking    Operation = "booking.refund"
	OpListEscalations  Operation = "escalation.list"
	OpRespondTicket    Operation = "escalation.respond"
	OpViewConversation Operation = "conversation.view"
)

type rule struct {
	anyOf []domain.Role // allowed regardless of ownership
	owner []domain.Role // allowed only when the caller owns the entity
}

var policy = map[Operation]rule{
	OpCreateBooking:    {anyOf: []domain.Role{domain.RoleTraveler}},
	OpViewBooking:      {anyOf: staff(), owner: []domain.Role{domain.RoleTraveler}},
	OpListAllBookings:  {anyOf: staff()},
	OpConfirmBooking:   {anyOf: staff()},
	OpPayBooking:       {owner: []domain.Role{domain.RoleTraveler}},
	OpCancelBooking:    {anyOf: staff(), owner: []domain.Role{domain.RoleTraveler}},
	OpRefundBooking:    {anyOf: staff()},
	OpListEscalations:  {anyOf: []domain.Role{domain.RoleAdmin}},
	OpRespondTicket:    {anyOf: []domain.Role{domain.RoleAdmin}},
	OpViewConversation: {anyOf: staff(), owner: []domain.Role{domain.RoleTraveler}},
}

func staff() []domain.Role {
	return []domain.Role{domain.RolePropertySales, domain.RoleAdmin}
}

// Authorize returns nil when the role may perform the operation,
// ErrPermissionDenied otherwise. Unknown operations are denied.
func Authorize(role domain.Role, op Operation, isOwner bool) error {
	r, ok := policy[op]
	if !ok {
		return ErrPermissionDenied
	}
	for _, allowed := range r.anyOf {
		if role == allowed {
			return nil
		}
	}
	if isOwner {
		for _, allowed := range r.owner {
			if role == allowed {
				return nil
			}
		}
	}
	return ErrPermissionDenied
}

package domain

import "fmt"

// BookingStatus is the trip side of a booking's lifecycle.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled, BookingCompleted},
	BookingConfirmed: {BookingCompleted},
	BookingCancelled: {},
	BookingCompleted: {},
}

// ParseBookingStatus converts a string to a BookingStatus, returning an error if invalid.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", invalidArgument("status", fmt.Sprintf("unknown booking status %q", s))
	}
	return status, nil
}

func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range bookingTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal is true for cancelled, completed and anything unknown.
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

func (s BookingStatus) String() string { return string(s) }

// Transition checks a single step of the booking machine.
func (s BookingStatus) Transition(target BookingStatus) error {
	if !target.IsValid() {
		return invalidArgument("status", fmt.Sprintf("unknown booking status %q", target))
	}
	if !s.CanTransitionTo(target) {
		return invalidTransition("booking", fmt.Sprintf("cannot move from %s to %s", s, target))
	}
	return nil
}

// AuthorizeStatusChange applies the actor rules on top of the transition table:
// only agents confirm, tourists may cancel their own pending booking, and
// completion is reserved for the system.
func AuthorizeStatusChange(actor Actor, ownerID int64, from, to BookingStatus) error {
	if err := from.Transition(to); err != nil {
		return err
	}
	switch to {
	case BookingConfirmed:
		if actor.Role != RoleAgent {
			return ForbiddenError{Msg: "only agents can confirm bookings"}
		}
	case BookingCancelled:
		switch actor.Role {
		case RoleAgent:
		case RoleTourist:
			if actor.UserID != ownerID {
				return ForbiddenError{Msg: "booking belongs to another tourist"}
			}
		default:
			return ForbiddenError{Msg: "role cannot cancel bookings"}
		}
	case BookingCompleted:
		if actor.Role != RoleSystem {
			return ForbiddenError{Msg: "completion is server driven"}
		}
	}
	return nil
}

package domain

import "fmt"

// PaymentStatus is the payment side of a booking's lifecycle.
type PaymentStatus string

const (
	PaymentUnpaid              PaymentStatus = "unpaid"
	PaymentPendingVerification PaymentStatus = "pending_verification"
	PaymentVerified            PaymentStatus = "verified"
	PaymentRejected            PaymentStatus = "rejected"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentUnpaid:              {PaymentPendingVerification},
	PaymentPendingVerification: {PaymentVerified, PaymentRejected},
	PaymentRejected:            {PaymentPendingVerification},
	PaymentVerified:            {},
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	status := PaymentStatus(s)
	if !status.IsValid() {
		return "", invalidArgument("paymentStatus", fmt.Sprintf("unknown payment status %q", s))
	}
	return status, nil
}

func (s PaymentStatus) IsValid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	for _, t := range paymentTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s PaymentStatus) IsTerminal() bool {
	return len(paymentTransitions[s]) == 0
}

// AcceptsProof is false while a proof is under review or already verified.
func (s PaymentStatus) AcceptsProof() bool {
	return s.CanTransitionTo(PaymentPendingVerification)
}

func (s PaymentStatus) String() string { return string(s) }

func (s PaymentStatus) Transition(target PaymentStatus) error {
	if !target.IsValid() {
		return invalidArgument("paymentStatus", fmt.Sprintf("unknown payment status %q", target))
	}
	if !s.CanTransitionTo(target) {
		return invalidTransition("payment", fmt.Sprintf("cannot move from %s to %s", s, target))
	}
	return nil
}

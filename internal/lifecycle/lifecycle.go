// Package lifecycle holds the booking state machine as an explicit
// transition table. Every caller (HTTP handlers, internal endpoints,
// batch jobs) goes through the same table; there is no other place
// where a status change is decided.
package lifecycle

import "travelbook/internal/domain"

type Operation string

const (
	OpConfirm  Operation = "confirm"
	OpCancel   Operation = "cancel"
	OpComplete Operation = "complete"
	OpRefund   Operation = "refund"
	OpPay      Operation = "pay"
	OpFailPay  Operation = "fail_payment"
)

type statusKey struct {
	from domain.BookingStatus
	op   Operation
}

var statusTransitions = map[statusKey]domain.BookingStatus{
	{domain.BookingPending, OpConfirm}:    domain.BookingConfirmed,
	{domain.BookingPending, OpCancel}:     domain.BookingCancelled,
	{domain.BookingConfirmed, OpCancel}:   domain.BookingCancelled,
	{domain.BookingConfirmed, OpComplete}: domain.BookingCompleted,
	// Refund cancels the stay as part of the same transition.
	{domain.BookingConfirmed, OpRefund}: domain.BookingCancelled,
}

type paymentKey struct {
	from domain.PaymentStatus
	op   Operation
}

var paymentTransitions = map[paymentKey]domain.PaymentStatus{
	{domain.PaymentPending, OpPay}:     domain.PaymentPaid,
	{domain.PaymentFailed, OpPay}:      domain.PaymentPaid,
	{domain.PaymentPending, OpFailPay}: domain.PaymentFailed,
	{domain.PaymentPaid, OpRefund}:     domain.PaymentRefunded,
}

// NextStatus returns the status the operation moves the booking to.
// ok is false when the transition is not in the table; re-invoking an
// operation that already happened is rejected the same way, callers
// must treat the lifecycle as append-only.
func NextStatus(from domain.BookingStatus, op Operation) (domain.BookingStatus, bool) {
	to, ok := statusTransitions[statusKey{from, op}]
	return to, ok
}

// NextPayment returns the payment sub-state the operation moves to.
func NextPayment(from domain.PaymentStatus, op Operation) (domain.PaymentStatus, bool) {
	to, ok := paymentTransitions[paymentKey{from, op}]
	return to, ok
}

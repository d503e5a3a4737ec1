package service

import (
	"fmt"

	"github.com/haitham-akram/prestige-designs-sub004/internal/constants"
)

// Order status and payment status transitions live in explicit tables.
// All mutations go through CheckOrderTransition / CheckPaymentTransition
// so call sites cannot invent ad hoc state changes.

var orderTransitions = map[string][]string{
	constants.OrderStatusPending:    {constants.OrderStatusProcessing, constants.OrderStatusCancelled},
	constants.OrderStatusProcessing: {constants.OrderStatusCompleted, constants.OrderStatusCancelled},
	constants.OrderStatusCompleted:  {},
	constants.OrderStatusCancelled:  {},
}

var paymentTransitions = map[string][]string{
	constants.PaymentStatusPending:  {constants.PaymentStatusPaid, constants.PaymentStatusFailed, constants.PaymentStatusFree},
	constants.PaymentStatusPaid:     {constants.PaymentStatusRefunded},
	constants.PaymentStatusFailed:   {constants.PaymentStatusPaid},
	constants.PaymentStatusRefunded: {},
	constants.PaymentStatusFree:     {},
}

// CheckOrderTransition validates an order status change.
func CheckOrderTransition(from, to string) error {
	if from == to {
		return nil
	}
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("%w: order status %s -> %s", ErrOrderStateConflict, from, to)
}

// CheckPaymentTransition validates a payment status change.
func CheckPaymentTransition(from, to string) error {
	if from == to {
		return nil
	}
	for _, allowed := range paymentTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("%w: payment status %s -> %s", ErrOrderStateConflict, from, to)
}

// OrderIsTerminal reports whether the order reached a final state.
func OrderIsTerminal(status string) bool {
	return status == constants.OrderStatusCompleted || status == constants.OrderStatusCancelled
}

// PaymentIsSettled reports whether money movement is already decided for
// the order. Settled orders ignore further payment events.
func PaymentIsSettled(paymentStatus string) bool {
	switch paymentStatus {
	case constants.PaymentStatusPaid, constants.PaymentStatusRefunded, constants.PaymentStatusFree:
		return true
	}
	return false
}

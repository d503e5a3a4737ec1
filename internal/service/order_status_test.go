package service

import (
	"errors"
	"testing"

	"github.com/haitham-akram/prestige-designs-sub004/internal/constants"
)

func TestCheckOrderTransitionAllowed(t *testing.T) {
	allowed := [][2]string{
		{constants.OrderStatusPending, constants.OrderStatusProcessing},
		{constants.OrderStatusPending, constants.OrderStatusCancelled},
		{constants.OrderStatusProcessing, constants.OrderStatusCompleted},
		{constants.OrderStatusProcessing, constants.OrderStatusCancelled},
	}
	for _, pair := range allowed {
		if err := CheckOrderTransition(pair[0], pair[1]); err != nil {
			t.Fatalf("expected %s -> %s to be allowed: %v", pair[0], pair[1], err)
		}
	}
}

func TestCheckOrderTransitionRejected(t *testing.T) {
	rejected := [][2]string{
		{constants.OrderStatusPending, constants.OrderStatusCompleted},
		{constants.OrderStatusCompleted, constants.OrderStatusProcessing},
		{constants.OrderStatusCompleted, constants.OrderStatusCancelled},
		{constants.OrderStatusCancelled, constants.OrderStatusPending},
		{constants.OrderStatusCancelled, constants.OrderStatusCompleted},
	}
	for _, pair := range rejected {
		err := CheckOrderTransition(pair[0], pair[1])
		if err == nil {
			t.Fatalf("expected %s -> %s to be rejected", pair[0], pair[1])
		}
		if !errors.Is(err, ErrOrderStateConflict) {
			t.Fatalf("expected ErrOrderStateConflict, got %v", err)
		}
	}
}

func TestCheckOrderTransitionSameState(t *testing.T) {
	for _, status := range []string{
		constants.OrderStatusPending,
		constants.OrderStatusProcessing,
		constants.OrderStatusCompleted,
		constants.OrderStatusCancelled,
	} {
		if err := CheckOrderTransition(status, status); err != nil {
			t.Fatalf("same-state %s must be a no-op: %v", status, err)
		}
	}
}

func TestCheckPaymentTransition(t *testing.T) {
	if err := CheckPaymentTransition(constants.PaymentStatusPending, constants.PaymentStatusPaid); err != nil {
		t.Fatalf("pending -> paid must be allowed: %v", err)
	}
	if err := CheckPaymentTransition(constants.PaymentStatusFailed, constants.PaymentStatusPaid); err != nil {
		t.Fatalf("failed -> paid must be allowed (late capture): %v", err)
	}
	if err := CheckPaymentTransition(constants.PaymentStatusPaid, constants.PaymentStatusRefunded); err != nil {
		t.Fatalf("paid -> refunded must be allowed: %v", err)
	}
	if err := CheckPaymentTransition(constants.PaymentStatusRefunded, constants.PaymentStatusPaid); err == nil {
		t.Fatalf("refunded -> paid must be rejected")
	}
	if err := CheckPaymentTransition(constants.PaymentStatusFree, constants.PaymentStatusPaid); err == nil {
		t.Fatalf("free -> paid must be rejected")
	}
}

func TestOrderIsTerminal(t *testing.T) {
	if !OrderIsTerminal(constants.OrderStatusCompleted) || !OrderIsTerminal(constants.OrderStatusCancelled) {
		t.Fatalf("completed and cancelled are terminal")
	}
	if OrderIsTerminal(constants.OrderStatusPending) || OrderIsTerminal(constants.OrderStatusProcessing) {
		t.Fatalf("pending and processing are not terminal")
	}
}

func TestPaymentIsSettled(t *testing.T) {
	for _, status := range []string{constants.PaymentStatusPaid, constants.PaymentStatusRefunded, constants.PaymentStatusFree} {
		if !PaymentIsSettled(status) {
			t.Fatalf("expected %s to be settled", status)
		}
	}
	for _, status := range []string{constants.PaymentStatusPending, constants.PaymentStatusFailed} {
		if PaymentIsSettled(status) {
			t.Fatalf("expected %s to not be settled", status)
		}
	}
}

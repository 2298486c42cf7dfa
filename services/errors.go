package services

import (
	"errors"
	"fmt"

	"github.com/KKTT/catalog-shop-sub000/models"
)

var (
	// ErrOrderNotFound is returned when the targeted order no longer exists
	ErrOrderNotFound = errors.New("order not found")

	// ErrConflict is returned when a conditional status write matches zero
	// rows: the order was read successfully but its status changed
	// underneath us. Callers recover by re-reading the order.
	ErrConflict = errors.New("order was modified concurrently")
)

// InvalidTransitionError is a local validation failure in the status
// engine. It never reaches the store and is always recoverable by choosing
// one of the current status's valid actions.
type InvalidTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %q to %q", e.From, e.To)
}

// StoreUnavailableError wraps a transport or backend failure from the
// order store. Reads fail all-or-nothing: no partial result accompanies it.
type StoreUnavailableError struct {
	Cause error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("order store unavailable: %v", e.Cause)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Cause
}

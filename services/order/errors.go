package order

import (
	"errors"
	"fmt"
)

// errCODLimit signals the early, successful exit taken when the cart total
// reaches the cash-on-delivery ceiling. It never surfaces to callers.
var errCODLimit = errors.New("cart total at or above the cash-on-delivery limit")

// HardStopError marks a step failure that invalidates everything downstream,
// such as a payment record with no usable identifiers.
type HardStopError struct {
	Step   string
	Reason string
}

func (e *HardStopError) Error() string {
	return fmt.Sprintf("hard stop at %s: %s", e.Step, e.Reason)
}

// ValidationError reports a cross-record consistency failure between the
// cart, the payment, and the order documents.
type ValidationError struct {
	Field    string
	Expected interface{}
	Actual   interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cross validation failed on %s: expected %v, got %v", e.Field, e.Expected, e.Actual)
}

// ErrPollTimeout indicates a tracking status never reached the awaited state
// within the polling window.
var ErrPollTimeout = errors.New("tracking status poll timed out")

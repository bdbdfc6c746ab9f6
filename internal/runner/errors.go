package runner

import (
	"errors"
	"fmt"
)

// Backpressure reasons.
const (
	ReasonQueueFull   = "queue_full"
	ReasonWaitTimeout = "wait_timeout"
)

// TooBusyError signals queue overflow or an admission wait timeout.
type TooBusyError struct {
	Model  string
	Reason string
}

func (e *TooBusyError) Error() string { return "too busy: " + e.Model + " (" + e.Reason + ")" }

// IsTooBusy reports whether err wraps a *TooBusyError.
func IsTooBusy(err error) bool {
	var tb *TooBusyError
	return errors.As(err, &tb)
}

// BusyReason returns the backpressure reason carried by err, or "".
func BusyReason(err error) string {
	var tb *TooBusyError
	if errors.As(err, &tb) {
		return tb.Reason
	}
	return ""
}

// PanicError is a recovered panic raised while evaluating a model.
type PanicError struct {
	Model string
	Value any
}

func (e *PanicError) Error() string { return fmt.Sprintf("%s: panic during evaluation: %v", e.Model, e.Value) }

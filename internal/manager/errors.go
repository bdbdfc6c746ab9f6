package manager

import (
	"errors"
	"fmt"

	"energyd/internal/runner"
)

// Prediction stages reported by PredictionError.
const (
	StageProject = "project"
	StagePredict = "predict"
)

// PredictionError is the failure variant of a prediction. Model is empty for
// projection failures.
type PredictionError struct {
	Stage string
	Model string
	Err   error
}

func (e *PredictionError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Model, e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }

// IsPredictionError reports whether err wraps a *PredictionError.
func IsPredictionError(err error) bool {
	var pe *PredictionError
	return errors.As(err, &pe)
}

// IsTooBusy reports whether err indicates backpressure (return 429).
func IsTooBusy(err error) bool { return runner.IsTooBusy(err) }

// notReadyError is returned while the models are not bound.
type notReadyError struct{ state State }

func (e notReadyError) Error() string { return "models not ready: " + string(e.state) }

// IsNotReady reports whether err indicates the manager cannot serve yet (return 503).
func IsNotReady(err error) bool {
	var nr notReadyError
	return errors.As(err, &nr)
}

// schemaMismatchError reports a model whose inputs differ from the projected frame.
type schemaMismatchError struct {
	role     Role
	ref      string
	unused   []string // projected but not a model input
	unfilled []string // model inputs the projector never produces
}

func (e schemaMismatchError) Error() string {
	return fmt.Sprintf("%s model %s: input columns differ from projection (unused %v, unfilled %v)",
		e.role, e.ref, e.unused, e.unfilled)
}

// IsSchemaMismatch reports whether err came from CheckSchemas.
func IsSchemaMismatch(err error) bool {
	var sm schemaMismatchError
	return errors.As(err, &sm)
}

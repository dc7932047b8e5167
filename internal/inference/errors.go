package inference

import (
	"errors"
	"fmt"
)

// ErrUnknownContextLimit means the model reports no context length and the
// caller gave no override, so nothing can bound the run. Raised at loop
// construction, before any token is generated.
var ErrUnknownContextLimit = errors.New("context limit unknown: model reports none and no override was given")

// InferenceError wraps a model forward failure with the step it happened on.
// Forward failures are fatal: the run aborts with no partial result and is
// never retried.
type InferenceError struct {
	Step int
	Err  error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("forward pass failed at step %d: %v", e.Step, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

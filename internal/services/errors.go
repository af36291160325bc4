package services

import (
	"errors"
	"fmt"
)

// ErrSuperseded is returned by a Resolve call that was replaced by a newer call on the
// same orchestrator before it finished. Its partial results are discarded.
var ErrSuperseded = errors.New("resolve superseded by a newer request")

// InputError reports a stop sequence that cannot be routed: too short, or longer than
// Max when the orchestrator caps the stop count.
type InputError struct {
	Stops int
	Max   int
}

func (e *InputError) Error() string {
	if e.Max > 0 {
		return fmt.Sprintf("at most %d stops are allowed, got %d", e.Max, e.Stops)
	}
	return fmt.Sprintf("at least 2 valid stops are required, got %d", e.Stops)
}

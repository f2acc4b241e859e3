package fractional

import "fmt"

// UnmixError reports a failed or malformed unmixing result for a single
// timestep. Any UnmixError aborts the whole pipeline: a partially unmixed
// time series is not a valid product, so no partial results are returned.
type UnmixError struct {
	TimeIndex int
	Err       error
}

func (e *UnmixError) Error() string {
	return fmt.Sprintf("unmixing failed at time index %d: %v", e.TimeIndex, e.Err)
}

func (e *UnmixError) Unwrap() error {
	return e.Err
}

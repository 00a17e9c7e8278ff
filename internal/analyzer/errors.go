package analyzer

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData means both fetch attempts returned no rows.
	ErrNoData = errors.New("no data found for this ticker/period/interval")
	// ErrResampleEmpty means a non-empty raw series produced no derived bars.
	ErrResampleEmpty = errors.New("could not build the derived timeframe")
	// ErrInvalidRequest is returned for a request without a ticker.
	ErrInvalidRequest = errors.New("invalid analysis request")
)

// ProcessingError reports an unexpected failure inside the pipeline.
type ProcessingError struct {
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing failed: %v", e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

package extract

import "fmt"

// Failure reasons recorded on ExtractionError.
const (
	ReasonAPIError     = "api_error"
	ReasonTimeout      = "timeout"
	ReasonMalformed    = "malformed_response"
	ReasonEmptyContent = "empty_response"
)

// ExtractionError is a failed batch extraction with a machine-readable
// reason. Reasons end up in run records so failure modes can be counted.
type ExtractionError struct {
	Reason string
	Batch  int
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract: batch %d failed (%s): %v", e.Batch, e.Reason, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

package parsing

import (
	"errors"
	"fmt"
)

// ErrExtractionFailed is matched by every *ExtractionError via errors.Is.
var ErrExtractionFailed = errors.New("could not extract a job posting")

// ExtractionError reports free text that could not be turned into a draft.
type ExtractionError struct {
	Input  string
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %s", ErrExtractionFailed.Error(), e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return ErrExtractionFailed
}

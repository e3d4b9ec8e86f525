package extract

import (
	"fmt"
	"strings"
)

// PartialParseWarning records a declaration that was excluded from the
// model. It never aborts extraction.
type PartialParseWarning struct {
	Source      string `json:"source"`
	Declaration string `json:"declaration"`
	Message     string `json:"message"`
}

// Error implements error.
func (w PartialParseWarning) Error() string {
	if w.Declaration == "" {
		return fmt.Sprintf("%s: %s", w.Source, w.Message)
	}
	return fmt.Sprintf("%s: %s: %s", w.Source, w.Declaration, w.Message)
}

// Warnings lets a Source report recoverable problems alongside the
// declarations it could read.
type Warnings []PartialParseWarning

// Error implements error.
func (ws Warnings) Error() string {
	msgs := make([]string, len(ws))
	for i, w := range ws {
		msgs[i] = w.Error()
	}
	return strings.Join(msgs, "; ")
}

// FatalExtractionError reports an input source that could not be read at all.
type FatalExtractionError struct {
	Source string
	Err    error
}

// Error implements error.
func (e *FatalExtractionError) Error() string {
	return fmt.Sprintf("fatal extraction error in %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *FatalExtractionError) Unwrap() error {
	return e.Err
}

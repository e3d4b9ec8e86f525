package core

import (
	"fmt"
	"strings"
)

// ConfigurationError reports an invalid rule set configuration. It is raised
// before extraction starts and aborts the run with exit code 2.
type ConfigurationError struct {
	Problems []string
}

// Error implements error.
func (e *ConfigurationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid configuration: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid configuration (%d problems): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

// Add records a problem.
func (e *ConfigurationError) Add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// OrNil returns e when it holds problems and nil otherwise.
func (e *ConfigurationError) OrNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// FindingsDetectedError is returned when validation detects violations.
type FindingsDetectedError struct {
	Errors   int
	Warnings int
}

// Error implements the error interface.
func (e *FindingsDetectedError) Error() string {
	return fmt.Sprintf("validation found %d errors, %d warnings", e.Errors, e.Warnings)
}

// ExitCode returns the exit code for detected violations (always 2).
func (e *FindingsDetectedError) ExitCode() int {
	return 2
}

// ExitCoder is implemented by errors that carry a specific process exit code.
type ExitCoder interface {
	ExitCode() int
}

// ExitCodeFromError returns the appropriate exit code for an error.
// nil returns 0, ExitCoder errors return their code, all others return 1.
func ExitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var coder ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}

// writeJSONImpl encodes v as JSON to w, handling I/O errors at the boundary.
func writeJSONImpl(w io.Writer, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(w, "{\"error\":%q}\n", err.Error())
	}
}

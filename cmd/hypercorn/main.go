package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess     = 0 // Command completed
	ExitCheckFailed = 1 // Dataset rows failed schema validation
	ExitError       = 2 // Configuration or runtime error
)

// CheckFailureError indicates that validation ran successfully,
// but one or more dataset rows failed the schema.
type CheckFailureError struct {
	Message string
}

func (e *CheckFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Check error type to determine exit code
		var checkFailureErr *CheckFailureError
		if errors.As(err, &checkFailureErr) {
			os.Exit(ExitCheckFailed)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}

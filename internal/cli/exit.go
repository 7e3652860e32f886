package cli

import "errors"

// Exit codes returned by the ghgcalc binary.
const (
	ExitOK             = 0
	ExitError          = 1
	ExitPartialFailure = 2
)

// ExitCodeError carries a specific process exit code. `calculate` returns
// one with ExitPartialFailure when some requests failed and others did not.
type ExitCodeError struct {
	ExitCode int
	Reason   string
}

func (e *ExitCodeError) Error() string {
	return e.Reason
}

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode
	}
	return ExitError
}

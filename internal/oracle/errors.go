package oracle

import "errors"

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Oracle failures. Only ErrOracleTimeout is worth retrying; the others mean
// the reply for this activity is unusable.
const (
	ErrOracleEmptyResponse  = constError("oracle returned an empty response")
	ErrOracleParseError     = constError("oracle response could not be parsed")
	ErrOracleFactorNotFound = constError("oracle chose a factor that is not a candidate")
	ErrOracleTimeout        = constError("oracle call timed out")
	ErrNoCandidates         = constError("no candidate factors to choose from")
)

// IsRetryable reports whether err is worth another attempt.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrOracleTimeout)
}

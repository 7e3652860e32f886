package factors

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors returned by the factor store and GWP tables.
// Compare with errors.Is; callers usually receive them wrapped with context.
var (
	// ErrFactorNotFound indicates no EmissionFactor matched a lookup.
	ErrFactorNotFound = constError("emission factor not found")

	// ErrUnknownGasType indicates a GWP table has no entry for a gas.
	ErrUnknownGasType = constError("unknown gas type")

	// ErrUnknownStandard indicates an unrecognised accounting standard name.
	ErrUnknownStandard = constError("unknown accounting standard")

	// ErrUnknownAssessmentReport indicates an unrecognised IPCC assessment report.
	ErrUnknownAssessmentReport = constError("unknown assessment report")

	// ErrInvalidFactor indicates a factor definition failed validation.
	ErrInvalidFactor = constError("invalid emission factor")

	// ErrDuplicateFactor indicates two factors share an ID.
	ErrDuplicateFactor = constError("duplicate emission factor id")

	// ErrUnsupportedSchema indicates a dataset declares a schema version
	// this build cannot read.
	ErrUnsupportedSchema = constError("unsupported factor dataset schema version")
)

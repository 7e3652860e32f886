package engine

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrNoRequests is returned by CalculateAll for an empty batch.
const ErrNoRequests = constError("no calculation requests")

// ErrMissingAPIKey means the genai oracle is configured but its API key
// environment variable is empty.
const ErrMissingAPIKey = constError("oracle API key is not set")

package model

// Sentinel responses the model may return instead of a diff. They must match
// the full trimmed response text exactly.
const (
	// SentinelNoChanges signals the model found nothing to do. It is a
	// success-without-mutation outcome, never an error.
	SentinelNoChanges = "NO_CHANGES"

	// SentinelRefuse signals the model declined the request.
	SentinelRefuse = "REFUSE"
)

// Verdict classifies a validated model response.
type Verdict int

const (
	// VerdictApply means the response is a well-formed single-file diff.
	VerdictApply Verdict = iota
	// VerdictNoChanges means the model returned the NO_CHANGES sentinel.
	VerdictNoChanges
)

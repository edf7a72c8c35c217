package domain

import "time"

// Identity is the authenticated subject bound to a session by the external
// identity provider. It is re-validated on every guarded operation and never
// cached across requests.
type Identity struct {
	SubjectID       string
	AuthenticatedAt time.Time
}

// DecisionOutcome enumerates the possible guard results.
type DecisionOutcome string

const (
	DecisionAllow           DecisionOutcome = "allow"
	DecisionDeny            DecisionOutcome = "deny"
	DecisionUnauthenticated DecisionOutcome = "unauthenticated"
)

// DenyReason distinguishes an ordinary denial from one forced by a directory
// failure, so logs can tell "denied" from "could not determine".
type DenyReason string

const (
	DenyMissingPermission    DenyReason = "missing_permission"
	DenyDirectoryUnavailable DenyReason = "directory_unavailable"
)

// Decision is the outcome of a single authorization check. Granted carries
// the subject's resolved permission codes when resolution succeeded.
type Decision struct {
	Outcome DecisionOutcome
	Reason  DenyReason
	Granted []string
}

// Allowed reports whether the decision permits the operation.
func (d Decision) Allowed() bool {
	return d.Outcome == DecisionAllow
}

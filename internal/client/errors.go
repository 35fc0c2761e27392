package client

import "fmt"

// GuardViolation is a failed local precondition. No backend call was made.
type GuardViolation struct {
	// Reason is the message catalog key describing the failed check.
	Reason string
}

func (e *GuardViolation) Error() string {
	return "guard violation: " + e.Reason
}

// GatewayError is a backend failure surfaced to the user. The action was aborted.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// PartialFailure means an object was stored but the row referencing it was
// not written. The object at Path is left in place.
type PartialFailure struct {
	Path string
	Err  error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("object %s stored but metadata insert failed: %v", e.Path, e.Err)
}

func (e *PartialFailure) Unwrap() error {
	return e.Err
}

func guard(reason string) error {
	return &GuardViolation{Reason: reason}
}

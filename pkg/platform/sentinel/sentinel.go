package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Storage engines return these
// (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in the store (or is out of scope)
// - ErrConflict: a uniqueness invariant was violated at commit
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrUnavailable: storage engine temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)

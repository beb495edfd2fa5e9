package types

import (
	"errors"
	"fmt"
)

// Lookup errors.
var (
	ErrNotFound            = errors.New("entity not found")
	ErrInvalidID           = errors.New("invalid entity ID")
	ErrInvalidData         = errors.New("invalid entity data")
	ErrUnknownEntity       = errors.New("unknown entity type")
	ErrUnknownRelationship = errors.New("unknown relationship")
	ErrStaleHandle         = errors.New("stale handle")
	ErrDanglingReference   = errors.New("dangling reference")
)

// NotFoundError reports a lookup of an identifier that was never interred.
// Required relationship navigators panic with a *NotFoundError.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DanglingError reports a foreign key that names a record missing from the
// referenced collection.
type DanglingError struct {
	Entity string `json:"entity"` // entity type holding the reference
	ID     string `json:"id"`     // identifier of the holding record
	Field  string `json:"field"`  // relationship that holds the key, e.g. "R18"
	Target string `json:"target"` // referenced entity type
	Ref    string `json:"ref"`    // the dangling identifier
}

func (e *DanglingError) Error() string {
	return fmt.Sprintf("%s %q: %s references missing %s %q", e.Entity, e.ID, e.Field, e.Target, e.Ref)
}

// Is reports whether target is ErrDanglingReference.
func (e *DanglingError) Is(target error) bool {
	return target == ErrDanglingReference
}

// IsNotFound reports whether err is or wraps a not-found error.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) || errors.Is(err, ErrNotFound)
}

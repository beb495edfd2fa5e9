// Package ids synthesizes entity identifiers. New mints a random UUID for
// records without a natural key; Derive content-addresses a record by the
// formatted tuple of its defining fields so that the same logical record
// always resolves to the same identifier.
package ids

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/ossuary/pkg/types"
)

// Namespace is the UUID v5 namespace for derived identifiers.
var Namespace = uuid.MustParse("b49d6fe1-e5e9-4896-bd42-b77883be0d2b")

// Policy selects how constructors mint identifiers.
type Policy int

const (
	// Random mints a fresh UUID on every call.
	Random Policy = iota
	// Derived hashes the constructor arguments.
	Derived
)

// String returns the configuration name of the policy.
func (p Policy) String() string {
	switch p {
	case Derived:
		return types.IDPolicyDerived
	default:
		return types.IDPolicyRandom
	}
}

// Parse maps a configuration name to a Policy. An empty name is Random.
func Parse(name string) (Policy, error) {
	switch name {
	case "", types.IDPolicyRandom:
		return Random, nil
	case types.IDPolicyDerived:
		return Derived, nil
	default:
		return Random, fmt.Errorf("%w: %q", types.ErrIDPolicyUnknown, name)
	}
}

// Make mints an identifier for a record of the given kind.
func (p Policy) Make(kind string, args ...any) string {
	if p == Derived {
		return Derive(kind, args...)
	}
	return New()
}

// New generates a UUID v7, falling back to v4 if v7 generation fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Derive returns a UUID v5 over kind and the ":"-joined %v formatting of
// args. Entities contribute their ID and nil pointers format as "<nil>".
func Derive(kind string, args ...any) string {
	var b strings.Builder
	b.WriteString(kind)
	for _, a := range args {
		b.WriteByte(':')
		b.WriteString(format(a))
	}
	return uuid.NewSHA1(Namespace, []byte(b.String())).String()
}

func format(a any) string {
	switch v := a.(type) {
	case nil:
		return "<nil>"
	case types.Entity:
		if isNil(v) {
			return "<nil>"
		}
		return v.ID()
	case *string:
		if v == nil {
			return "<nil>"
		}
		return *v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// isNil catches typed nil pointers hidden in an Entity interface.
func isNil(e types.Entity) bool {
	rv := reflect.ValueOf(e)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// Validate reports whether id is a well-formed UUID.
func Validate(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", types.ErrInvalidID, id)
	}
	return nil
}

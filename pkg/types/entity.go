package types

// Entity is implemented by every record kept in an object store.
type Entity interface {
	// ID returns the record's unique identifier within its entity type.
	ID() string
}

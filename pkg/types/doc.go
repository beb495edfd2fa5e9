// Package types defines the Entity and Backend contracts, the serialized
// Document form of an object store, configuration, and the standard errors
// shared by every ossuary package.
package types

// Package store implements the RDF triple store: a node dictionary, a
// persistent and a transient triple table, namespace/source registries,
// and the operations the AQL translator's compiled SQL runs against.
package store

import "github.com/pkg/errors"

// StorageError wraps a failure in a node/triple/namespace operation with
// the operation name that failed, mirroring piglet's per-call ERR_* tags.
type StorageError struct {
	Op  string
	err error
}

func (e *StorageError) Error() string {
	return "store: " + e.Op + ": " + e.err.Error()
}

func (e *StorageError) Unwrap() error { return e.err }

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, err: errors.WithStack(err)}
}

// LoadError reports a failed source load, distinguishing a parse/fetch
// failure (which rolls back) from a plain storage error.
type LoadError struct {
	Source string
	err    error
}

func (e *LoadError) Error() string {
	return "store: load " + e.Source + ": " + e.err.Error()
}

func (e *LoadError) Unwrap() error { return e.err }

func loadErr(source string, err error) error {
	if err == nil {
		return nil
	}
	return &LoadError{Source: source, err: errors.WithStack(err)}
}

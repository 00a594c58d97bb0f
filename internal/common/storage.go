package common

import (
	"errors"
	"fmt"
)

// Storage operations reported in StorageError.Op.
const (
	OpRead   = "read"
	OpWrite  = "write"
	OpDelete = "delete"
	OpList   = "list"
	OpEncode = "encode"
	OpDecode = "decode"
)

// StorageError reports a failed interaction with the key-value store or a
// failed (de)serialization of a stored record. It matches ErrStorageFailure.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is reports true for ErrStorageFailure so callers can match every storage
// error with a single sentinel.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorageFailure
}

// IsCorrupt reports whether err was caused by a stored record that could not
// be decoded.
func IsCorrupt(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Op == OpDecode
}

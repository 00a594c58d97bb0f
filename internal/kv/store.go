package kv

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dmitrijs2005/cardkeeper/internal/common"
)

// Store is the contract every key-value backend fulfils.
type Store interface {
	// Get returns the value stored under key, or an error matching
	// common.ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists the keys starting with prefix in ascending order.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// ReadJSON loads key and decodes it into v. It reports found=false with a
// nil error when the key is absent. Decode failures are returned as a
// StorageError with Op common.OpDecode (see common.IsCorrupt) and found=true.
func ReadJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, &common.StorageError{Op: common.OpRead, Key: key, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, &common.StorageError{Op: common.OpDecode, Key: key, Err: err}
	}
	return true, nil
}

// WriteJSON encodes v and stores it under key.
func WriteJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &common.StorageError{Op: common.OpEncode, Key: key, Err: err}
	}
	if err := s.Set(ctx, key, data); err != nil {
		return &common.StorageError{Op: common.OpWrite, Key: key, Err: err}
	}
	return nil
}

// Remove deletes key.
func Remove(ctx context.Context, s Store, key string) error {
	if err := s.Delete(ctx, key); err != nil {
		return &common.StorageError{Op: common.OpDelete, Key: key, Err: err}
	}
	return nil
}

// ListKeys lists keys under prefix.
func ListKeys(ctx context.Context, s Store, prefix string) ([]string, error) {
	keys, err := s.Keys(ctx, prefix)
	if err != nil {
		return nil, &common.StorageError{Op: common.OpList, Key: prefix, Err: err}
	}
	return keys, nil
}

package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageError_MatchesSentinelAndCause(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("save: %w", &StorageError{Op: OpWrite, Key: "k", Err: cause})

	require.ErrorIs(t, err, ErrStorageFailure)
	require.ErrorIs(t, err, cause)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), `storage write "k": disk full`)
}

func TestStorageError_NoKey(t *testing.T) {
	err := &StorageError{Op: OpList, Err: errors.New("boom")}
	assert.Equal(t, "storage list: boom", err.Error())
}

func TestIsCorrupt(t *testing.T) {
	assert.True(t, IsCorrupt(&StorageError{Op: OpDecode, Key: "k", Err: errors.New("bad json")}))
	assert.False(t, IsCorrupt(&StorageError{Op: OpRead, Key: "k", Err: errors.New("io")}))
	assert.False(t, IsCorrupt(errors.New("plain")))
	assert.False(t, IsCorrupt(nil))
}

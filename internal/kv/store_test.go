package kv_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/kv"
	"github.com/dmitrijs2005/cardkeeper/internal/kv/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	kv.Store
	err error
}

func (f *failingStore) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f *failingStore) Set(context.Context, string, []byte) error { return f.err }
func (f *failingStore) Delete(context.Context, string) error { return f.err }
func (f *failingStore) Keys(context.Context, string) ([]string, error) { return nil, f.err }

func TestReadWriteJSON_RoundTrip(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	type rec struct {
		IDs []string `json:"ids"`
	}
	require.NoError(t, kv.WriteJSON(ctx, s, "k", rec{IDs: []string{"a", "b"}}))

	var got rec
	found, err := kv.ReadJSON(ctx, s, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, got.IDs)
}

func TestReadJSON_Absent(t *testing.T) {
	var v []string
	found, err := kv.ReadJSON(context.Background(), memory.New(), "missing", &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestReadJSON_CorruptIsDecodeError(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "k", []byte("{not json")))

	var v []string
	found, err := kv.ReadJSON(ctx, s, "k", &v)
	assert.True(t, found)
	require.ErrorIs(t, err, common.ErrStorageFailure)
	assert.True(t, common.IsCorrupt(err))
}

func TestHelpers_WrapBackendFailures(t *testing.T) {
	boom := errors.New("io error")
	s := &failingStore{err: boom}
	ctx := context.Background()

	var v []string
	_, err := kv.ReadJSON(ctx, s, "k", &v)
	require.ErrorIs(t, err, common.ErrStorageFailure)
	require.ErrorIs(t, err, boom)
	assert.False(t, common.IsCorrupt(err))

	require.ErrorIs(t, kv.WriteJSON(ctx, s, "k", v), common.ErrStorageFailure)
	require.ErrorIs(t, kv.Remove(ctx, s, "k"), common.ErrStorageFailure)

	_, err = kv.ListKeys(ctx, s, "p")
	require.ErrorIs(t, err, common.ErrStorageFailure)
}

func TestWriteJSON_EncodeFailure(t *testing.T) {
	err := kv.WriteJSON(context.Background(), memory.New(), "k", make(chan int))
	require.ErrorIs(t, err, common.ErrStorageFailure)

	var se *common.StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, common.OpEncode, se.Op)
}

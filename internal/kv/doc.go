// Package kv defines the durable key-value store used by the offline catalog
// cache and the collection ledger.
//
// # Overview
//
// Records are whole JSON documents addressed by string keys. There are no
// partial updates, no query language and no cache in front of a store: every
// read goes back to the backend and re-decodes the record.
//
// Backends live in sub-packages:
//
//   - kv/sqlite: a single SQLite table, the default on device
//   - kv/memory: a process-local map for tests and throwaway sessions
//   - kv/s3: one object per key in an S3-compatible bucket
//
// # Errors
//
// A backend reports a missing key with an error matching common.ErrNotFound.
// ReadJSON, WriteJSON and Remove lift every other failure into a
// *common.StorageError so callers can match common.ErrStorageFailure.
//
// # Concurrency
//
// Backends are safe for concurrent use, but nothing here serialises a
// read-modify-write cycle across calls. Two writers that read the same key
// before either writes will lose one update.
package kv

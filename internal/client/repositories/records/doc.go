// Package records provides the key/value backends behind the session store.
//
// A Repository keeps opaque byte values under string keys. SetMany writes
// all of its keys atomically, so readers never observe half of a multi-key
// update. Get on an absent key returns (nil, nil).
//
// Backends:
//   - SQLiteRepository: the default, a goose-migrated session_records table.
//   - RedisRepository: keys under a prefix, multi-key writes in MULTI/EXEC.
//   - MemoryRepository: process-local, for tests and throwaway sessions.
package records

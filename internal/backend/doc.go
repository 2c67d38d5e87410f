// Package backend persists the tutorbook aggregate.
//
// Two interchangeable backends satisfy the Backend interface:
//   - File: a user-authorized JSON file, with permission re-verified through
//     an Authorizer on every read and write
//   - KV: a single key in a SQLite key-value table (the fallback)
//
// The Selector decides per access which backend is live. A file backend is
// used only when the platform supports file handles and a handle has been
// recorded in the HandleRegistry, a small keyed table kept beside the KV
// data. Permission grants are never cached: a grant revoked between two
// calls fails the second call with a PERMISSION_DENIED model.Error instead
// of silently switching to the fallback.
//
// # Database Configuration
//
//   - WAL mode: readers do not block the writer
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//
// Writes are whole-aggregate overwrites. Selector.Write compares the stored
// revision with the one the caller read and refuses to overwrite a document
// that changed underneath it.
package backend

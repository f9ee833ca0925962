// Package credentials holds the broker connection settings a dashboard uses.
//
// A ConnectionConfig is the triple {host, username, password}. All three must
// be non-empty before a connect attempt is allowed. The Store persists exactly
// one record; its absence means the user has not been asked yet.
//
// Two stores are provided:
//   - SQLiteStore keeps the record in the settings table under a single key
//   - MemoryStore keeps it in process, for tests and ephemeral runs
package credentials

// Package database provides SQLite connectivity for the irrigation dashboard.
//
// The dashboard keeps exactly one piece of local state: the broker
// credential record. SQLite holds it so the record survives restarts and
// can be replaced atomically.
//
// This package manages:
//   - Database connection with WAL mode and busy timeout
//   - Schema migrations from an embedded filesystem
//   - Lifecycle and health checks
//
// Security Considerations:
//   - All queries use parameterised statements
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
package database

// Package database provides the SQLite journal for Smart City Core.
//
// The journal is optional. When enabled it records sensor sweep results
// and community feedback so they can be inspected after a run. The
// default path is ":memory:", which keeps the journal process-local.
//
// This package manages:
//   - Connection setup with busy timeout, foreign keys and optional WAL
//   - Versioned schema migrations embedded from schema/*.sql
//   - Health checks and connection lifecycle
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: cfg.Database.Path})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.up.sql with an
// optional matching .down.sql. Each migration is applied in its own
// transaction and recorded in schema_migrations.
package database

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the results database and creates its schema.

# Connecting

Open accepts the database type from configuration ("sqlite" or "postgres")
and pings the server before returning:

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

Both drivers are registered by this package: lib/pq for postgres and
modernc.org/sqlite (pure Go, no cgo) for sqlite.

# Schema Creation

CreateSchema initializes the tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - simulation_run: one row per request id; payload holds the stored
    record JSON ({"status":"success","results":...,"config":...} or
    {"status":"error","error":...})

Writes for an existing id replace the row, so a rerun of the same request
overwrites its earlier outcome.
*/
package db

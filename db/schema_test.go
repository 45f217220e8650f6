// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"testing"
)

func TestCreateSchema_Idempotent(t *testing.T) {
	conn, err := Open(context.Background(), "sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer conn.Close()

	for i := 0; i < 2; i++ {
		if err := CreateSchema(conn); err != nil {
			t.Fatalf("CreateSchema call %d failed: %v", i+1, err)
		}
	}

	_, err = conn.Exec(`INSERT INTO simulation_run (id, status, payload) VALUES ($1, $2, $3)`,
		"run-1", "success", `{"status":"success"}`)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	_, err = conn.Exec(`INSERT INTO simulation_run (id, status, payload) VALUES ($1, $2, $3)`,
		"run-2", "pending", `{}`)
	if err == nil {
		t.Error("expected status check constraint to reject 'pending'")
	}
}

func TestOpen_UnsupportedType(t *testing.T) {
	if _, err := Open(context.Background(), "mysql", "x"); err == nil {
		t.Error("expected error for unsupported database type")
	}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/danielhkuo/votekit-sim/db"
	"github.com/danielhkuo/votekit-sim/models"
)

// SQL stores records in the simulation_run table.
type SQL struct {
	db *sql.DB
}

// OpenSQL connects to the database and ensures the schema exists.
func OpenSQL(ctx context.Context, dbType, url string) (*SQL, error) {
	conn, err := db.Open(ctx, dbType, url)
	if err != nil {
		return nil, err
	}
	s, err := NewSQL(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// NewSQL wraps an open connection, creating the schema if needed. Close
// closes conn.
func NewSQL(conn *sql.DB) (*SQL, error) {
	if err := db.CreateSchema(conn); err != nil {
		return nil, err
	}
	return &SQL{db: conn}, nil
}

func (s *SQL) WriteSuccess(ctx context.Context, id string, results models.Histogram, request json.RawMessage) error {
	data, err := encodeSuccess(results, request)
	if err != nil {
		return err
	}
	return s.upsert(ctx, id, models.StatusSuccess, data)
}

func (s *SQL) WriteError(ctx context.Context, id string, message string) error {
	data, err := encodeError(message)
	if err != nil {
		return err
	}
	return s.upsert(ctx, id, models.StatusError, data)
}

func (s *SQL) Read(ctx context.Context, id string) (models.RunRecord, error) {
	if err := checkID(id); err != nil {
		return models.RunRecord{}, err
	}

	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload
		FROM simulation_run
		WHERE id = $1
	`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RunRecord{}, ErrNotFound
	}
	if err != nil {
		return models.RunRecord{}, fmt.Errorf("failed to query run %s: %w", id, err)
	}
	return decodeRecord([]byte(payload))
}

func (s *SQL) Close() error {
	return s.db.Close()
}

func (s *SQL) upsert(ctx context.Context, id, status string, data []byte) error {
	if err := checkID(id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO simulation_run (id, status, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET status = excluded.status, payload = excluded.payload, updated_at = CURRENT_TIMESTAMP
	`, id, status, string(data))
	if err != nil {
		return fmt.Errorf("failed to store run %s: %w", id, err)
	}
	return nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danielhkuo/votekit-sim/models"
)

// Local writes records as {id}.json files in a directory.
type Local struct {
	Dir string
}

// NewLocal creates dir if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Local{Dir: dir}, nil
}

func (l *Local) WriteSuccess(_ context.Context, id string, results models.Histogram, request json.RawMessage) error {
	data, err := encodeSuccess(results, request)
	if err != nil {
		return err
	}
	return l.write(id, data)
}

func (l *Local) WriteError(_ context.Context, id string, message string) error {
	data, err := encodeError(message)
	if err != nil {
		return err
	}
	return l.write(id, data)
}

func (l *Local) Read(_ context.Context, id string) (models.RunRecord, error) {
	if err := checkID(id); err != nil {
		return models.RunRecord{}, err
	}
	data, err := os.ReadFile(l.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return models.RunRecord{}, ErrNotFound
	}
	if err != nil {
		return models.RunRecord{}, fmt.Errorf("failed to read run %s: %w", id, err)
	}
	return decodeRecord(data)
}

func (l *Local) Close() error { return nil }

func (l *Local) path(id string) string {
	return filepath.Join(l.Dir, id+".json")
}

// write replaces the file via rename so readers never see a partial record.
func (l *Local) write(id string, data []byte) error {
	if err := checkID(id); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(l.Dir, "."+id+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write run %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write run %s: %w", id, err)
	}
	if err := os.Rename(tmp.Name(), l.path(id)); err != nil {
		return fmt.Errorf("failed to store run %s: %w", id, err)
	}
	return nil
}

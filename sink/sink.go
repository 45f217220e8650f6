// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/danielhkuo/votekit-sim/cliparse"
	"github.com/danielhkuo/votekit-sim/models"
)

var (
	ErrNotFound  = errors.New("run not found")
	ErrInvalidID = errors.New("invalid run id")
)

// Sink stores the outcome of a request under its id. Implementations are
// safe for concurrent use.
type Sink interface {
	WriteSuccess(ctx context.Context, id string, results models.Histogram, request json.RawMessage) error
	WriteError(ctx context.Context, id string, message string) error
	Read(ctx context.Context, id string) (models.RunRecord, error)
	Close() error
}

// Open builds the sink selected by cfg.ResultsOutput.
func Open(ctx context.Context, cfg cliparse.Config) (Sink, error) {
	switch cfg.ResultsOutput {
	case cliparse.OutputNone, "":
		return Nop{}, nil
	case cliparse.OutputLocal:
		return NewLocal(cfg.OutputDir)
	case cliparse.OutputS3:
		return NewS3(ctx, cfg.S3Bucket)
	case cliparse.OutputSQL:
		return OpenSQL(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown results output %q", cfg.ResultsOutput)
	}
}

// Nop discards writes and never finds a run.
type Nop struct{}

func (Nop) WriteSuccess(context.Context, string, models.Histogram, json.RawMessage) error {
	return nil
}

func (Nop) WriteError(context.Context, string, string) error { return nil }

func (Nop) Read(context.Context, string) (models.RunRecord, error) {
	return models.RunRecord{}, ErrNotFound
}

func (Nop) Close() error { return nil }

// checkID rejects ids that cannot be used as a single path or key segment.
func checkID(id string) error {
	if id == "" || id == "." || id == ".." || filepath.Base(id) != id || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func encodeSuccess(results models.Histogram, request json.RawMessage) ([]byte, error) {
	return json.Marshal(models.RunRecord{
		Status:  models.StatusSuccess,
		Results: results,
		Config:  request,
	})
}

func encodeError(message string) ([]byte, error) {
	return json.Marshal(models.RunRecord{
		Status: models.StatusError,
		Error:  message,
	})
}

func decodeRecord(data []byte) (models.RunRecord, error) {
	var rec models.RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.RunRecord{}, fmt.Errorf("failed to decode run record: %w", err)
	}
	return rec, nil
}

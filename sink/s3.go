// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/danielhkuo/votekit-sim/models"
)

// ObjectAPI is the part of the S3 client the sink uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 stores records as {id}.json objects in a bucket.
type S3 struct {
	Client ObjectAPI
	Bucket string
}

// NewS3 uses the default AWS credential chain and region.
func NewS3(ctx context.Context, bucket string) (*S3, error) {
	if bucket == "" {
		return nil, errors.New("S3 bucket is required")
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3{Client: s3.NewFromConfig(cfg), Bucket: bucket}, nil
}

func (s *S3) WriteSuccess(ctx context.Context, id string, results models.Histogram, request json.RawMessage) error {
	data, err := encodeSuccess(results, request)
	if err != nil {
		return err
	}
	return s.put(ctx, id, data)
}

func (s *S3) WriteError(ctx context.Context, id string, message string) error {
	data, err := encodeError(message)
	if err != nil {
		return err
	}
	return s.put(ctx, id, data)
}

func (s *S3) Read(ctx context.Context, id string) (models.RunRecord, error) {
	if err := checkID(id); err != nil {
		return models.RunRecord{}, err
	}

	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(id + ".json"),
	})
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return models.RunRecord{}, ErrNotFound
	}
	if err != nil {
		return models.RunRecord{}, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return models.RunRecord{}, fmt.Errorf("failed to read run %s: %w", id, err)
	}
	return decodeRecord(data)
}

func (s *S3) Close() error { return nil }

func (s *S3) put(ctx context.Context, id string, data []byte) error {
	if err := checkID(id); err != nil {
		return err
	}
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(id + ".json"),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put run %s: %w", id, err)
	}
	return nil
}

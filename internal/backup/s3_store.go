package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

// ObjectAPI is the subset of the S3 client used by the store.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Store implements Store on an S3 bucket.
type s3Store struct {
	client ObjectAPI
	bucket string
	logger zerolog.Logger
}

// NewS3Store loads the default AWS configuration for region and returns a
// Store writing to bucket.
func NewS3Store(ctx context.Context, bucket, region string, logger zerolog.Logger) (Store, error) {
	logger = logger.With().Str("component", "backup-s3").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 backup store initialised")

	return NewS3StoreWithClient(s3.NewFromConfig(cfg), bucket, logger), nil
}

// NewS3StoreWithClient returns a Store backed by an existing client.
func NewS3StoreWithClient(client ObjectAPI, bucket string, logger zerolog.Logger) Store {
	return &s3Store{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// Put uploads data gzip-compressed under key.
func (s *s3Store) Put(ctx context.Context, key string, data []byte) error {
	compressed, err := compress(data)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(compressed),
		ContentType: aws.String("application/gzip"),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", key).
			Msg("failed to put object to S3")
		return fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", s.bucket, key, err)
	}

	s.logger.Info().
		Str("bucket", s.bucket).
		Str("key", key).
		Int("bytes", len(compressed)).
		Msg("backup uploaded to S3")
	return nil
}

// Get downloads and decompresses the object under key.
func (s *s3Store) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", s.bucket, key, err)
	}
	defer result.Body.Close()

	data, err := decompress(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object %s: %w", key, err)
	}
	return data, nil
}

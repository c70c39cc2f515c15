package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mitchellh/mapstructure"

	"github.com/vrepo/vrepo/internal/logger"
	"github.com/vrepo/vrepo/pkg/store"
	badgerStore "github.com/vrepo/vrepo/pkg/store/badger"
	memoryStore "github.com/vrepo/vrepo/pkg/store/memory"
	s3Store "github.com/vrepo/vrepo/pkg/store/s3"
)

// CreatePathStore creates a path store based on configuration.
//
// The Type field selects the backend; the matching type-specific map is
// decoded into that backend's configuration struct and passed to its
// constructor.
//
// Supported types:
//   - "memory": in-memory storage, ephemeral
//   - "badger": BadgerDB storage, persistent
//   - "s3": Amazon S3 or compatible object storage
func CreatePathStore(ctx context.Context, cfg *StoreConfig) (store.PathStore, error) {
	switch cfg.Type {
	case "memory":
		return createMemoryPathStore(ctx)
	case "badger":
		return createBadgerPathStore(ctx, cfg.Badger)
	case "s3":
		return createS3PathStore(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown store type: %q (supported: memory, badger, s3)", cfg.Type)
	}
}

func createMemoryPathStore(ctx context.Context) (store.PathStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return memoryStore.NewMemoryPathStore(), nil
}

func createBadgerPathStore(ctx context.Context, options map[string]any) (store.PathStore, error) {
	type BadgerOptions struct {
		DBPath   string `mapstructure:"db_path"`
		InMemory bool   `mapstructure:"in_memory"`
	}

	var storeOpts BadgerOptions
	if err := mapstructure.Decode(options, &storeOpts); err != nil {
		return nil, fmt.Errorf("failed to decode badger store options: %w", err)
	}

	s, err := badgerStore.NewBadgerPathStore(ctx, badgerStore.BadgerPathStoreConfig{
		DBPath:   storeOpts.DBPath,
		InMemory: storeOpts.InMemory,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create badger path store: %w", err)
	}
	return s, nil
}

func createS3PathStore(ctx context.Context, options map[string]any) (store.PathStore, error) {
	type S3Options struct {
		Region          string `mapstructure:"region"`
		Bucket          string `mapstructure:"bucket"`
		KeyPrefix       string `mapstructure:"key_prefix"`
		Endpoint        string `mapstructure:"endpoint"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
		MaxRetries      int    `mapstructure:"max_retries"`
	}

	var storeOpts S3Options
	if err := mapstructure.Decode(options, &storeOpts); err != nil {
		return nil, fmt.Errorf("failed to decode S3 store options: %w", err)
	}

	if storeOpts.Bucket == "" {
		return nil, fmt.Errorf("S3 path store: bucket is required")
	}
	if storeOpts.Region == "" {
		return nil, fmt.Errorf("S3 path store: region is required")
	}

	var configOptions []func(*awsConfig.LoadOptions) error
	configOptions = append(configOptions, awsConfig.WithRegion(storeOpts.Region))

	// Custom endpoint support for MinIO, Localstack and friends.
	if storeOpts.Endpoint != "" {
		//nolint:staticcheck // TODO: migrate to BaseEndpoint when AWS SDK v2 stabilizes the new API
		customResolver := aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				//nolint:staticcheck // TODO: migrate to BaseEndpoint when AWS SDK v2 stabilizes the new API
				return aws.Endpoint{
					URL:               storeOpts.Endpoint,
					HostnameImmutable: true,
					Source:            aws.EndpointSourceCustom,
				}, nil
			},
		)
		//nolint:staticcheck // TODO: migrate to BaseEndpoint when AWS SDK v2 stabilizes the new API
		configOptions = append(configOptions, awsConfig.WithEndpointResolverWithOptions(customResolver))
	}

	// Static credentials if provided, otherwise the default chain.
	if storeOpts.AccessKeyID != "" && storeOpts.SecretAccessKey != "" {
		credProvider := credentials.NewStaticCredentialsProvider(
			storeOpts.AccessKeyID,
			storeOpts.SecretAccessKey,
			"",
		)
		configOptions = append(configOptions, awsConfig.WithCredentialsProvider(credProvider))
	}

	maxRetries := storeOpts.MaxRetries
	if maxRetries == 0 {
		maxRetries = 10
	}
	configOptions = append(configOptions, awsConfig.WithRetryer(func() aws.Retryer {
		return retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = maxRetries
		})
	}))

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// Path-style addressing for S3-compatible endpoints.
		if storeOpts.Endpoint != "" {
			o.UsePathStyle = true
		}
	})

	s, err := s3Store.NewS3PathStore(ctx, s3Store.S3PathStoreConfig{
		Client:    client,
		Bucket:    storeOpts.Bucket,
		KeyPrefix: storeOpts.KeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 path store: %w", err)
	}

	logger.Info("S3 path store initialized: bucket=%s, region=%s, prefix=%s",
		storeOpts.Bucket, storeOpts.Region, storeOpts.KeyPrefix)

	return s, nil
}

// Package s3 provides an S3-backed PathStore backend.
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vrepo/vrepo/pkg/store"
)

// S3PathStore implements store.PathStore on Amazon S3 or S3-compatible
// object storage.
//
// Object Key Design:
//   - Every row becomes one object under "<keyPrefix>rows<canonicalPath>"
//   - The root path "/" maps to "<keyPrefix>rows/" (a zero-content marker
//     object; trailing-slash keys are valid S3 object names)
//   - Object bodies are the JSON-encoded store.Value
//
// The bucket therefore mirrors the virtual namespace and stays
// human-inspectable, and the namespace can be rebuilt from the bucket alone.
//
// Consistency:
// S3 offers read-after-write consistency per object but no multi-object
// transactions. A crash mid-mutation can leave a partially written subtree,
// which matches the store contract: no cross-row atomicity is promised.
//
// Thread Safety:
// The S3 client is safe for concurrent use; this wrapper adds no state.
type S3PathStore struct {
	client    *s3.Client
	bucket    string
	keyPrefix string
}

// S3PathStoreConfig contains configuration for the S3 backend.
type S3PathStoreConfig struct {
	// Client is the configured S3 client.
	Client *s3.Client

	// Bucket is the S3 bucket name. Must already exist.
	Bucket string

	// KeyPrefix is an optional prefix for all object keys.
	// Example: "vrepo/prod/" yields keys like "vrepo/prod/rows/a/b".
	KeyPrefix string
}

// NewS3PathStore creates an S3-backed path store and verifies bucket access.
// The bucket must already exist; this function does not create it.
func NewS3PathStore(ctx context.Context, cfg S3PathStoreConfig) (*S3PathStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if cfg.Client == nil {
		return nil, fmt.Errorf("S3 client is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	_, err := cfg.Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to access bucket %q: %w", cfg.Bucket, err)
	}

	return &S3PathStore{
		client:    cfg.Client,
		bucket:    cfg.Bucket,
		keyPrefix: cfg.KeyPrefix,
	}, nil
}

// rowNamespace is the object-key segment all rows live under. Canonical
// paths start with "/", so concatenation never produces a double slash.
const rowNamespace = "rows"

// objectKey maps a canonical path to its S3 object key.
func (s *S3PathStore) objectKey(path string) string {
	return s.keyPrefix + rowNamespace + path
}

// pathFromObjectKey maps an S3 object key back to the canonical path.
// The boolean is false for keys outside the row namespace.
func (s *S3PathStore) pathFromObjectKey(key string) (string, bool) {
	prefix := s.keyPrefix + rowNamespace
	if len(key) <= len(prefix) || key[:len(prefix)+1] != prefix+"/" {
		return "", false
	}
	return key[len(prefix):], true
}

// Exists reports whether a row object is present for the exact key.
func (s *S3PathStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check row %q: %w", key, err)
	}
	return true, nil
}

// Get returns the row value for the key.
func (s *S3PathStore) Get(ctx context.Context, key string) (store.Value, bool, error) {
	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return store.Value{}, false, nil
		}
		return store.Value{}, false, fmt.Errorf("failed to read row %q: %w", key, err)
	}
	defer func() { _ = output.Body.Close() }()

	raw, err := io.ReadAll(output.Body)
	if err != nil {
		return store.Value{}, false, fmt.Errorf("failed to read row body %q: %w", key, err)
	}

	var value store.Value
	if err := json.Unmarshal(raw, &value); err != nil {
		return store.Value{}, false, fmt.Errorf("corrupt row value for %q: %w", key, err)
	}
	return value, true, nil
}

// Set writes the row for the key, overwriting any existing row.
func (s *S3PathStore) Set(ctx context.Context, key string, value store.Value) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode row value: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(raw),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to write row %q: %w", key, err)
	}
	return nil
}

// Remove deletes the row for the key. S3 treats deleting a missing object
// as success, which matches the store contract.
func (s *S3PathStore) Remove(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return fmt.Errorf("failed to remove row %q: %w", key, err)
	}
	return nil
}

// Clear deletes every row object under the row namespace in batches of up
// to 1000 keys (the DeleteObjects limit).
func (s *S3PathStore) Clear(ctx context.Context) error {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.keyPrefix + rowNamespace + "/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list rows for clear: %w", err)
		}
		if len(page.Contents) == 0 {
			continue
		}

		identifiers := make([]types.ObjectIdentifier, 0, len(page.Contents))
		for _, object := range page.Contents {
			identifiers = append(identifiers, types.ObjectIdentifier{Key: object.Key})
		}

		_, err = s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{
				Objects: identifiers,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return fmt.Errorf("failed to delete rows: %w", err)
		}
	}
	return nil
}

// Keys returns every key, lexicographically ascending.
//
// S3 lists object keys in UTF-8 binary order, which already matches the
// ordering contract; the explicit sort below only defends against
// S3-compatible services with looser listing guarantees.
func (s *S3PathStore) Keys(ctx context.Context) ([]string, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.keyPrefix + rowNamespace + "/"),
	})

	var keys []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to enumerate rows: %w", err)
		}
		for _, object := range page.Contents {
			if object.Key == nil {
				continue
			}
			if path, ok := s.pathFromObjectKey(*object.Key); ok {
				keys = append(keys, path)
			}
		}
	}

	sort.Strings(keys)
	return keys, nil
}

// GetMultiple returns the rows for the given keys. Missing keys are omitted.
//
// S3 has no native batch read; this issues one GetObject per key, which is
// acceptable for the match-set sizes the repository resolves.
func (s *S3PathStore) GetMultiple(ctx context.Context, keys []string) (map[string]store.Value, error) {
	result := make(map[string]store.Value, len(keys))
	for _, key := range keys {
		value, ok, err := s.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			result[key] = value
		}
	}
	return result, nil
}

// Count returns the number of rows by paging through the listing.
func (s *S3PathStore) Count(ctx context.Context) (int, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.keyPrefix + rowNamespace + "/"),
	})

	count := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count rows: %w", err)
		}
		count += len(page.Contents)
	}
	return count, nil
}

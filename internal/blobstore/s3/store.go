package s3

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/voltstore/catalog-api/internal/blobstore"
	"github.com/voltstore/catalog-api/internal/config"
)

// ObjectStoreAPI defines the interface for S3 operations used by Store.
type ObjectStoreAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store keeps catalog images in an S3 bucket.
type Store struct {
	client  ObjectStoreAPI
	bucket  string
	baseURL string
}

// NewClient creates and configures a new AWS S3 client.
// It loads the AWS configuration from the environment and optionally sets a custom endpoint.
func NewClient(ctx context.Context, conf config.AWSConfig) (*s3.Client, error) {
	// Load AWS configuration
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(conf.Region),
	)
	if err != nil {
		return nil, err
	}

	// Override endpoint for LocalStack if specified
	if conf.Endpoint != "" {
		awsCfg.BaseEndpoint = aws.String(conf.Endpoint)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// Custom endpoints (LocalStack, MinIO) only route path-style keys.
		o.UsePathStyle = conf.Endpoint != ""
	}), nil
}

// NewStore creates a blob store backed by the given S3 client and bucket.
func NewStore(client ObjectStoreAPI, awsConf config.AWSConfig, storeConf config.ObjectStore) *Store {
	return &Store{
		client:  client,
		bucket:  storeConf.Bucket,
		baseURL: resolveBaseURL(awsConf, storeConf),
	}
}

func (s *Store) Upload(ctx context.Context, folder string, file blobstore.File) (blobstore.Object, error) {
	key := objectKey(folder, file.Name)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          file.Reader,
		ContentType:   aws.String(file.ContentType),
		ContentLength: aws.Int64(file.Size),
	})
	if err != nil {
		return blobstore.Object{}, fmt.Errorf("failed to upload object: %w", err)
	}

	return blobstore.Object{
		URL:      s.baseURL + "/" + key,
		PublicID: key,
	}, nil
}

func (s *Store) Delete(ctx context.Context, publicID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// objectKey builds a collision-free key under the folder, keeping only the
// original file extension.
func objectKey(folder, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return folder + "/" + uuid.NewString() + ext
}

// resolveBaseURL picks the root that public image URLs are built from. An
// explicitly configured base URL wins; custom endpoints serve path-style
// bucket URLs and plain AWS serves the virtual-hosted form.
func resolveBaseURL(awsConf config.AWSConfig, storeConf config.ObjectStore) string {
	if storeConf.PublicBaseURL != "" {
		return strings.TrimSuffix(storeConf.PublicBaseURL, "/")
	}
	if awsConf.Endpoint != "" {
		return strings.TrimSuffix(awsConf.Endpoint, "/") + "/" + storeConf.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", storeConf.Bucket, awsConf.Region)
}

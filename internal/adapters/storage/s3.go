package storage

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Namespaces for uploaded objects
const (
	NamespaceDocuments = "documents"
	NamespacePhotos    = "photos"
)

// defaultExt is used when an upload carries no recognizable extension
const defaultExt = ".bin"

// S3Store talks to an S3-compatible object store (path-style endpoint)
type S3Store struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

// NewS3Store creates a new object store client
func NewS3Store(endpoint, region, bucket, accessKey, secretKey, publicBase string) *S3Store {
	client := s3.New(s3.Options{
		Region:       region,
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		BaseEndpoint: aws.String(endpoint),
		UsePathStyle: true,
	})

	if publicBase == "" {
		publicBase = strings.TrimSuffix(endpoint, "/") + "/" + bucket
	}

	return &S3Store{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimSuffix(publicBase, "/"),
	}
}

// Put stores bytes under path and returns the public retrieval URL
func (s *S3Store) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(path),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return s.PublicURL(path), nil
}

// Delete removes an object. Deleting a missing object is not an error.
func (s *S3Store) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	return err
}

// PublicURL returns the retrieval URL for a stored object
func (s *S3Store) PublicURL(path string) string {
	return s.publicBase + "/" + path
}

// ObjectPath builds a namespaced path with a fresh random filename,
// preserving the original extension when present.
func ObjectPath(namespace, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = defaultExt
	}
	return namespace + "/" + uuid.NewString() + ext
}

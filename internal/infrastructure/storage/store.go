// Package storage uploads listing photos to object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	gstorage "cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/oksasatya/campuskart/pkg/helpers"
)

var ErrTooLarge = errors.New("image exceeds size limit")

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// ObjectName places a photo under items/<owner>/<uuid><ext>. Unknown extensions are dropped.
func ObjectName(ownerID int64, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if !allowedExt[ext] {
		ext = ""
	}
	return path.Join("items", strconv.FormatInt(ownerID, 10), uuid.NewString()+ext)
}

// readLimited buffers at most limit bytes of r.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, ErrTooLarge
	}
	return b, nil
}

// GCS stores photos in a Google Cloud Storage bucket.
type GCS struct {
	Client   *gstorage.Client
	Bucket   string
	MaxBytes int64
}

func NewGCS(client *gstorage.Client, bucket string, maxBytes int64) *GCS {
	return &GCS{Client: client, Bucket: bucket, MaxBytes: maxBytes}
}

func (g *GCS) Upload(ctx context.Context, ownerID int64, filename, contentType string, r io.Reader) (string, error) {
	if g.Client == nil || g.Bucket == "" {
		return "", errors.New("gcs not configured")
	}
	b, err := readLimited(r, g.MaxBytes)
	if err != nil {
		return "", err
	}
	return helpers.UploadObject(ctx, g.Client, g.Bucket, ObjectName(ownerID, filename), contentType, bytes.NewReader(b))
}

// S3Putter is the part of the S3 client the store calls.
type S3Putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 stores photos in an S3 compatible bucket (AWS, MinIO, R2).
type S3 struct {
	Client    S3Putter
	Bucket    string
	PublicURL string // base URL objects are served from; defaults to the AWS virtual-host URL
	Region    string
	MaxBytes  int64
}

func NewS3(client S3Putter, bucket, region, publicURL string, maxBytes int64) *S3 {
	return &S3{Client: client, Bucket: bucket, Region: region, PublicURL: strings.TrimRight(publicURL, "/"), MaxBytes: maxBytes}
}

func (s *S3) Upload(ctx context.Context, ownerID int64, filename, contentType string, r io.Reader) (string, error) {
	if s.Client == nil || s.Bucket == "" {
		return "", errors.New("s3 not configured")
	}
	b, err := readLimited(r, s.MaxBytes)
	if err != nil {
		return "", err
	}
	key := ObjectName(ownerID, filename)
	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(b),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(b))),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return s.url(key), nil
}

func (s *S3) url(key string) string {
	if s.PublicURL != "" {
		return s.PublicURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.Bucket, s.Region, key)
}

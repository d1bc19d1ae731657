package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Service stores attachments in Amazon S3 (or compatible APIs).
type S3Service struct {
	client   *s3.Client
	presign  *s3.PresignClient
	uploader *manager.Uploader
}

func NewS3Service(client *s3.Client) *S3Service {
	return &S3Service{
		client:   client,
		presign:  s3.NewPresignClient(client),
		uploader: manager.NewUploader(client),
	}
}

// Upload streams the body to the bucket under the prefixed key and returns an
// s3:// reference for the stored object.
func (s *S3Service) Upload(ctx context.Context, key string, body io.Reader, contentType string, opts UploadOptions) (string, error) {
	if opts.Bucket == "" {
		return "", fmt.Errorf("storage bucket is required")
	}
	if key == "" {
		return "", fmt.Errorf("object key is required")
	}

	fullKey := key
	if prefix := strings.Trim(opts.KeyPrefix, "/"); prefix != "" {
		fullKey = prefix + "/" + key
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(opts.Bucket),
		Key:    aws.String(fullKey),
		Body:   body,
		ACL:    types.ObjectCannedACLPrivate,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("upload %s: %w", fullKey, err)
	}

	return fmt.Sprintf("s3://%s/%s", opts.Bucket, fullKey), nil
}

// GetObjectURL returns a presigned link for viewing an object.
func (s *S3Service) GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	if bucket == "" || key == "" {
		return "", fmt.Errorf("bucket and key are required")
	}
	if expires <= 0 {
		expires = 15 * time.Minute
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("presign object url: %w", err)
	}
	return req.URL, nil
}

// DeletePrefix removes every object under the prefix. Passing a full object
// key removes exactly that object.
func (s *S3Service) DeletePrefix(ctx context.Context, bucket, prefix string) error {
	if bucket == "" {
		return fmt.Errorf("storage bucket is required")
	}
	trimmed := strings.TrimSpace(prefix)
	if trimmed == "" {
		return fmt.Errorf("prefix is required")
	}

	listInput := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(trimmed),
	}

	for {
		output, err := s.client.ListObjectsV2(ctx, listInput)
		if err != nil {
			return fmt.Errorf("list objects for delete: %w", err)
		}

		if len(output.Contents) > 0 {
			identifiers := make([]types.ObjectIdentifier, 0, len(output.Contents))
			for _, obj := range output.Contents {
				identifiers = append(identifiers, types.ObjectIdentifier{Key: obj.Key})
			}
			_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
				Bucket: aws.String(bucket),
				Delete: &types.Delete{
					Objects: identifiers,
					Quiet:   aws.Bool(true),
				},
			})
			if err != nil {
				return fmt.Errorf("delete objects: %w", err)
			}
		}

		if !aws.ToBool(output.IsTruncated) || output.NextContinuationToken == nil {
			break
		}
		listInput.ContinuationToken = output.NextContinuationToken
	}

	return nil
}

var _ Service = (*S3Service)(nil)

// ParseRef splits an s3://bucket/key reference produced by Upload.
func ParseRef(ref string) (bucket, key string, err error) {
	if !strings.HasPrefix(ref, "s3://") {
		return "", "", fmt.Errorf("invalid s3 reference")
	}
	rest := strings.TrimPrefix(ref, "s3://")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid s3 reference")
	}
	return parts[0], parts[1], nil
}

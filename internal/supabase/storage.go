package supabase

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type StorageOpts struct {
	ProjectURL string
	Endpoint   string
	Region     string
	AccessKey  string
	SecretKey  string
}

// Storage writes bucket objects through the backend's S3-compatible
// endpoint. Public URLs are served from the project URL, not the S3
// endpoint, so both are kept.
type Storage struct {
	s3Client   *s3.S3
	projectURL string
}

func NewStorage(opts StorageOpts) *Storage {
	sess := session.Must(session.NewSession(&aws.Config{
		Region:           aws.String(opts.Region),
		Endpoint:         aws.String(opts.Endpoint),
		S3ForcePathStyle: aws.Bool(true),
		Credentials: credentials.NewStaticCredentials(
			opts.AccessKey, opts.SecretKey, "",
		),
	}))
	return &Storage{
		s3Client:   s3.New(sess),
		projectURL: strings.TrimSuffix(opts.ProjectURL, "/"),
	}
}

// Upload puts a file into a bucket and returns its public URL.
func (s *Storage) Upload(ctx context.Context, bucket, key string, file []byte) (string, error) {
	contentType := http.DetectContentType(file)

	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(file),
		ContentLength: aws.Int64(int64(len(file))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload file to storage: %v", err)
	}
	return s.PublicURL(bucket, key), nil
}

func (s *Storage) PublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.projectURL, bucket, key)
}

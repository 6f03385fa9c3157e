package media

import (
	"bytes"
	"fmt"
	"mime"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
)

// Store is the external media host. Upload returns the public URL of the
// stored object plus the handle needed to destroy it later.
type Store interface {
	Upload(data []byte, filename string, folder string) (url string, mediaID string, err error)
	Destroy(mediaID string) error
}

type S3Store struct {
	uploader *s3manager.Uploader
	client   *s3.S3
	bucket   string
}

func NewS3Store(region string, bucket string) (*S3Store, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Store{
		uploader: s3manager.NewUploader(sess),
		client:   s3.New(sess),
		bucket:   bucket,
	}, nil
}

func (s *S3Store) Upload(data []byte, filename string, folder string) (string, string, error) {
	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), filepath.Ext(filename))
	contentType := mime.TypeByExtension(filepath.Ext(filename))

	result, err := s.uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return result.Location, key, nil
}

func (s *S3Store) Destroy(mediaID string) error {
	_, err := s.client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(mediaID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

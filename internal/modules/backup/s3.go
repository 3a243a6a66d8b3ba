package backup

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3KeyTemplate = "backups/%s/%s/%s" // year / month / filename

func (s *Service) s3Client() *s3.Client {
	opts := s.cfg.S3
	return s3.New(s3.Options{
		Region: opts.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		),
		BaseEndpoint: baseEndpoint(opts.Endpoint),
		UsePathStyle: opts.PathStyleAccess || opts.Endpoint != "",
	})
}

func baseEndpoint(endpoint string) *string {
	e := strings.TrimSpace(endpoint)
	if e == "" {
		return nil
	}
	if !strings.HasPrefix(e, "http://") && !strings.HasPrefix(e, "https://") {
		e = "https://" + e
	}
	e = strings.TrimSuffix(e, "/")
	return aws.String(e)
}

func (s *Service) uploadToS3(ctx context.Context, filename string, payload []byte) error {
	now := time.Now().UTC()
	key := fmt.Sprintf(s3KeyTemplate, now.Format("2006"), now.Format("01"), filename)

	_, err := s.s3Client().PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.S3.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/zip"),
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s: %w", key, err)
	}
	return nil
}

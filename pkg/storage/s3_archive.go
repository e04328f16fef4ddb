package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/dskvich/image-telegram-bot/pkg/config"
)

type s3Archive struct {
	client *s3.Client
	bucket string
	now    func() time.Time
}

func NewS3Archive(cfg config.Archive) (*s3Archive, error) {
	bucket := strings.TrimSpace(cfg.S3Bucket)
	if bucket == "" {
		return nil, errors.New("archive: missing S3 bucket")
	}
	region := strings.TrimSpace(cfg.S3Region)
	if region == "" {
		return nil, errors.New("archive: missing S3 region")
	}

	awsCfg := aws.Config{Region: region}
	if cfg.S3AccessKey != "" || cfg.S3SecretKey != "" {
		awsCfg.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		)
	}

	if endpoint := strings.TrimSpace(cfg.S3Endpoint); endpoint != "" {
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}
		awsCfg.EndpointResolverWithOptions = aws.EndpointResolverWithOptionsFunc(func(service, _ string, _ ...interface{}) (aws.Endpoint, error) {
			if service == s3.ServiceID {
				return aws.Endpoint{URL: endpoint, SigningRegion: region}, nil
			}
			return aws.Endpoint{}, fmt.Errorf("archive: no endpoint for service %s", service)
		})
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3PathStyle
	})

	return &s3Archive{client: client, bucket: bucket, now: time.Now}, nil
}

func (s *s3Archive) Save(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty payload")
	}

	key := objectKey(s.now())
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("image/png"),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("put object %s: %s: %s", key, apiErr.ErrorCode(), apiErr.ErrorMessage())
		}
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return key, nil
}

package archive

import (
	"bytes"
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"bev-backend/internal/config"
)

// Archiver pushes settlement invoices to an S3-compatible bucket so the
// accounting trail survives the database.
type Archiver struct {
	client *s3.Client
	bucket string
}

// New builds the archiver from configuration. Returns nil when archiving
// is not configured; callers treat a nil archiver as "archiving off".
func New(cfg config.ArchiveConfig) *Archiver {
	if cfg.Bucket == "" || cfg.AccessKey == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		log.Printf("[Archive] Failed to configure S3 client: %v", err)
		return nil
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &Archiver{client: client, bucket: cfg.Bucket}
}

// Store uploads a rendered invoice under the given key.
func (a *Archiver) Store(ctx context.Context, key string, pdf []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(pdf),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return err
	}
	log.Printf("[Archive] Stored %s in bucket %s", key, a.bucket)
	return nil
}

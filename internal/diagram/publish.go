package diagram

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"

	"socialschema/internal/config"
	"socialschema/internal/observability"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// Publisher uploads generated diagrams to an S3 bucket.
type Publisher struct {
	client s3iface.S3API
	bucket string
	prefix string
}

// NewPublisher builds a publisher from configuration. Credentials come from
// the default AWS chain (environment, shared config, instance role).
func NewPublisher(cfg *config.Config) (*Publisher, error) {
	if cfg.DiagramS3Bucket == "" {
		return nil, fmt.Errorf("DIAGRAM_S3_BUCKET is not set")
	}

	awsConfig := &aws.Config{Region: aws.String(cfg.AWSRegion)}
	// MinIO for local development
	if cfg.AWSEndpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.AWSEndpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return NewPublisherWithClient(s3.New(sess), cfg.DiagramS3Bucket, "diagrams/"), nil
}

// NewPublisherWithClient wraps an existing S3 client. Objects are stored under prefix.
func NewPublisherWithClient(client s3iface.S3API, bucket, prefix string) *Publisher {
	return &Publisher{client: client, bucket: bucket, prefix: prefix}
}

// Publish uploads the file at path and returns its s3:// location.
func (p *Publisher) Publish(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open diagram: %w", err)
	}
	defer f.Close()

	key := p.prefix + filepath.Base(path)
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "text/plain; charset=utf-8"
	}

	_, err = p.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload diagram to S3: %w", err)
	}

	location := fmt.Sprintf("s3://%s/%s", p.bucket, key)
	observability.Logger.InfoContext(ctx, "Diagram published", slog.String("location", location))
	return location, nil
}

package media

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jhoicas/forecast-cloud/internal/application/ports"
	"github.com/jhoicas/forecast-cloud/pkg/config"
)

var _ ports.MediaStore = (*S3Store)(nil)

// s3API subconjunto del cliente usado por S3Store.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store guarda las imágenes en un bucket S3 compatible (AWS, MinIO).
// Las credenciales salen de la cadena por defecto del SDK.
type S3Store struct {
	client  s3API
	bucket  string
	baseURL string
}

// NewS3Store configura el cliente con región y endpoint opcionales.
func NewS3Store(ctx context.Context, cfg config.MediaConfig) (*S3Store, error) {
	if cfg.S3Bucket == "" {
		return nil, errors.New("media: bucket S3 obligatorio")
	}
	region := cfg.S3Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("media: configuración AWS: %w", err)
	}
	endpoint := strings.TrimRight(cfg.S3Endpoint, "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	base := cfg.URL
	if base == "" || strings.HasPrefix(base, "/") {
		if endpoint != "" {
			base = endpoint + "/" + cfg.S3Bucket + "/"
		} else {
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", cfg.S3Bucket, region)
		}
	}
	return &S3Store{client: client, bucket: cfg.S3Bucket, baseURL: normalizeBase(base)}, nil
}

func (s *S3Store) Save(ctx context.Context, folder string, up ports.Upload) (string, error) {
	key := newKey(folder, up.ContentType)
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   up.Body,
	}
	if up.ContentType != "" {
		in.ContentType = aws.String(up.ContentType)
	}
	if up.Size > 0 {
		in.ContentLength = aws.Int64(up.Size)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("media: subir %s: %w", key, err)
	}
	return key, nil
}

// Delete en S3 no falla si el objeto no existe.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	clean, ok := cleanKey(key)
	if !ok {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(clean),
	})
	if err != nil {
		return fmt.Errorf("media: eliminar %s: %w", clean, err)
	}
	return nil
}

func (s *S3Store) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.baseURL + key
}

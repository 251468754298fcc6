package cli

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/centipede/internal/config"
	"github.com/hupe1980/centipede/sink"
	miniosink "github.com/hupe1980/centipede/sink/minio"
	s3sink "github.com/hupe1980/centipede/sink/s3"
)

// Scheme selects the store a target is written to.
type Scheme string

const (
	SchemeLocal Scheme = ""
	SchemeS3    Scheme = "s3"
	SchemeMinIO Scheme = "minio"
)

// Target is an output location: a local path, s3://bucket/key or
// minio://bucket/key.
type Target struct {
	Scheme Scheme
	Bucket string
	Name   string
}

// ParseTarget parses an output location.
func ParseTarget(s string) (Target, error) {
	if s == "" {
		return Target{}, sink.ErrEmptyName
	}

	scheme, rest, ok := strings.Cut(s, "://")
	if !ok {
		return Target{Scheme: SchemeLocal, Name: s}, nil
	}

	switch Scheme(scheme) {
	case SchemeS3, SchemeMinIO:
	default:
		return Target{}, fmt.Errorf("unsupported target scheme %q", scheme)
	}

	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return Target{}, fmt.Errorf("target %q: want %s://bucket/key", s, scheme)
	}
	return Target{Scheme: Scheme(scheme), Bucket: bucket, Name: key}, nil
}

func (t Target) String() string {
	if t.Scheme == SchemeLocal {
		return t.Name
	}
	return string(t.Scheme) + "://" + t.Bucket + "/" + t.Name
}

// Numbered returns the i-th of several targets derived from t:
// "run.bin" becomes "run-003.bin".
func (t Target) Numbered(i int) Target {
	ext := path.Ext(t.Name)
	t.Name = fmt.Sprintf("%s-%03d%s", strings.TrimSuffix(t.Name, ext), i, ext)
	return t
}

// openStore returns the store serving t. Local targets use the writer's
// default store and yield nil.
func openStore(ctx context.Context, cfg *config.Config, t Target) (sink.Store, error) {
	switch t.Scheme {
	case SchemeLocal:
		return nil, nil
	case SchemeS3:
		return newS3Store(ctx, cfg.S3, t.Bucket)
	case SchemeMinIO:
		return newMinIOStore(cfg.MinIO, t.Bucket)
	default:
		return nil, fmt.Errorf("unsupported target scheme %q", t.Scheme)
	}
}

func newS3Store(ctx context.Context, cfg config.S3Config, bucket string) (sink.Store, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return s3sink.NewStore(client, bucket, "", func(c *s3sink.UploadConfig) {
		if cfg.PartSize > 0 {
			c.PartSize = cfg.PartSize
		}
		if cfg.Concurrency > 0 {
			c.Concurrency = cfg.Concurrency
		}
	}), nil
}

func newMinIOStore(cfg config.MinIOConfig, bucket string) (sink.Store, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("minio target requires minio.endpoint")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return miniosink.NewStore(client, bucket, "").WithPartSize(cfg.PartSize), nil
}

// Package publish uploads a built site to an S3-compatible bucket.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// ErrBucketRequired is returned when no destination bucket is configured.
var ErrBucketRequired = errors.New("publish: bucket required")

const (
	defaultRegion   = "us-east-1"
	pageCacheCtl    = "no-cache"
	assetCacheCtl   = "public, max-age=3600"
	fallbackType    = "application/octet-stream"
	wasmContentType = "application/wasm"
)

// Config describes the destination bucket.
type Config struct {
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"` // optional, e.g. MinIO
	PathStyle bool   `mapstructure:"pathStyle"`

	// Static credentials; the default AWS chain is used when empty.
	AccessKeyID     string `mapstructure:"accessKeyId"`
	SecretAccessKey string `mapstructure:"secretAccessKey"`
}

// Uploader is the subset of the S3 client used by Publisher.
type Uploader interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewClient builds an S3 client for cfg.
func NewClient(ctx context.Context, cfg Config, optFns ...func(*s3.Options)) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	opts := append([]func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}}, optFns...)
	return s3.NewFromConfig(awsCfg, opts...), nil
}

// Publisher copies a directory tree into a bucket.
type Publisher struct {
	client Uploader
	bucket string
	prefix string
	log    *zap.Logger
}

// New returns a Publisher writing through client.
func New(client Uploader, cfg Config, log *zap.Logger) (*Publisher, error) {
	if cfg.Bucket == "" {
		return nil, ErrBucketRequired
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		log:    log,
	}, nil
}

// Report summarises a publish run.
type Report struct {
	Objects int
	Bytes   int64
	Keys    []string
}

// Publish uploads every regular file under dir. Keys are the slash-separated
// paths relative to dir, below the configured prefix.
func (p *Publisher) Publish(ctx context.Context, dir string) (Report, error) {
	var rep Report
	start := time.Now()
	err := filepath.WalkDir(dir, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, name)
		if err != nil {
			return err
		}
		key := p.key(filepath.ToSlash(rel))
		n, err := p.upload(ctx, name, key)
		if err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}
		rep.Objects++
		rep.Bytes += n
		rep.Keys = append(rep.Keys, key)
		p.log.Debug("uploaded", zap.String("key", key), zap.Int64("bytes", n))
		return nil
	})
	if err != nil {
		return rep, err
	}
	p.log.Info("site published",
		zap.String("bucket", p.bucket),
		zap.String("prefix", p.prefix),
		zap.Int("objects", rep.Objects),
		zap.Int64("bytes", rep.Bytes),
		zap.Duration("elapsed", time.Since(start)),
	)
	return rep, nil
}

func (p *Publisher) key(rel string) string {
	if p.prefix == "" {
		return rel
	}
	return p.prefix + "/" + rel
}

func (p *Publisher) upload(ctx context.Context, name, key string) (int64, error) {
	f, err := os.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	cacheControl := assetCacheCtl
	if path.Ext(key) == ".html" {
		cacheControl = pageCacheCtl
	}
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(ContentType(key)),
		CacheControl:  aws.String(cacheControl),
	})
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// ContentType infers the MIME type of an object from its key.
func ContentType(key string) string {
	ext := strings.ToLower(path.Ext(key))
	if ext == ".wasm" {
		return wasmContentType
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return fallbackType
}

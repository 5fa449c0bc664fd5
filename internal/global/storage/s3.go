package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"

	"taskview/config"
)

// S3 把附件保存在 S3 兼容的对象存储，下载时返回预签名 URL
type S3 struct {
	client        *s3.Client
	uploader      *manager.Uploader
	presigner     *s3.PresignClient
	bucket        string
	prefix        string
	presignExpire time.Duration
}

func NewS3(ctx context.Context, cfg config.S3) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	expire := time.Duration(cfg.PresignExpire) * time.Second
	if expire <= 0 {
		expire = time.Hour
	}

	return &S3{
		client:        client,
		uploader:      manager.NewUploader(client),
		presigner:     s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		prefix:        strings.Trim(cfg.Prefix, "/"),
		presignExpire: expire,
	}, nil
}

func (s *S3) key(name string) (string, error) {
	if !validName(name) {
		return "", ErrNotExist
	}
	return strings.TrimLeft(path.Join(s.prefix, name), "/"), nil
}

func (s *S3) Save(ctx context.Context, name string, r io.Reader) error {
	key, err := s.key(name)
	if err != nil {
		return errors.Errorf("invalid attachment name %q", name)
	}
	switch err := s.exists(ctx, key); {
	case err == nil:
		return ErrExist
	case !errors.Is(err, ErrNotExist):
		return err
	}

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	return errors.Wrap(err, "upload attachment")
}

func (s *S3) Remove(ctx context.Context, name string) error {
	key, err := s.key(name)
	if err != nil {
		return err
	}
	if err := s.exists(ctx, key); err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return errors.Wrap(err, "delete attachment")
}

func (s *S3) Download(ctx context.Context, name string) (*Download, error) {
	key, err := s.key(name)
	if err != nil {
		return nil, err
	}
	if err := s.exists(ctx, key); err != nil {
		return nil, err
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(s.bucket),
		Key:                        aws.String(key),
		ResponseContentDisposition: aws.String(`attachment; filename="` + name + `"`),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.presignExpire
	})
	if err != nil {
		return nil, errors.Wrap(err, "presign download")
	}
	return &Download{URL: req.URL}, nil
}

func (s *S3) exists(ctx context.Context, key string) error {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return nil
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return ErrNotExist
	}
	return errors.Wrap(err, "head attachment")
}

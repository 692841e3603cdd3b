package archive

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/schollz/progressbar/v3"

	"github.com/yamakage/souji/internal/config"
)

// Client wraps an S3-compatible bucket used as archive storage.
type Client struct {
	s3     *s3.Client
	bucket string
}

// Object is one stored archive blob.
type Object struct {
	Key  string
	Size int64
}

// NewClient builds a client from the [storage] config section. Any
// S3-compatible endpoint works; credentials come from the environment
// first, then the file.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	st := cfg.Storage
	accessKey, secretKey := cfg.Credentials()

	if st.Bucket == "" {
		return nil, fmt.Errorf("storage bucket not configured (see %s)", config.Path())
	}
	if accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("storage credentials missing: set SOUJI_ACCESS_KEY_ID and SOUJI_SECRET_ACCESS_KEY or the [storage] keys")
	}

	region := st.Region
	if region == "" {
		region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if st.Endpoint != "" {
			o.BaseEndpoint = aws.String(st.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &Client{s3: client, bucket: st.Bucket}, nil
}

// Upload streams a local file to the bucket under key, with a progress
// bar on stderr when the size is known.
func (c *Client) Upload(ctx context.Context, key, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return err
	}

	bar := progressbar.DefaultBytes(stat.Size(), "uploading")
	body := progressbar.NewReader(f, bar)

	_, err = c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          &body,
		ContentLength: aws.Int64(stat.Size()),
		ContentType:   aws.String("application/gzip"),
	})
	return err
}

// Download fetches key into a local file.
func (c *Client) Download(ctx context.Context, key, path string) error {
	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return err
	}
	defer out.Body.Close()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var size int64
	if out.ContentLength != nil {
		size = *out.ContentLength
	}
	bar := progressbar.DefaultBytes(size, "downloading")
	reader := progressbar.NewReader(out.Body, bar)
	if _, err := io.Copy(f, &reader); err != nil {
		return err
	}
	return f.Close()
}

// List returns all objects under prefix.
func (c *Client) List(ctx context.Context, prefix string) ([]Object, error) {
	var objects []Object
	paginator := s3.NewListObjectsV2Paginator(c.s3, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			objects = append(objects, Object{
				Key:  aws.ToString(obj.Key),
				Size: aws.ToInt64(obj.Size),
			})
		}
	}
	return objects, nil
}

// Delete removes one object.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	return err
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/pdiddy/resume-sync/pkg/types"
)

// trashDir holds soft-deleted objects under the store prefix.
const trashDir = ".trash"

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	CopyObject(ctx context.Context, in *s3.CopyObjectInput, opts ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	PutObjectAcl(ctx context.Context, in *s3.PutObjectAclInput, opts ...func(*s3.Options)) (*s3.PutObjectAclOutput, error)
}

// S3Store stores each upload as a distinct object under
// <prefix>/<name>/<timestamp>-<id>. The object key is the artifact ID.
type S3Store struct {
	client S3API
	bucket string
	prefix string
	now    func() time.Time
}

// StaticKeys holds optional explicit credentials. When empty the default
// AWS credential chain is used.
type StaticKeys struct {
	AccessKeyID     string
	SecretAccessKey string
}

// NewS3Store loads AWS configuration and returns a store for cfg.Bucket.
func NewS3Store(ctx context.Context, cfg types.S3Config, keys StaticKeys) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if keys.AccessKeyID != "" && keys.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(keys.AccessKeyID, keys.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3StoreWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewS3StoreWithClient wraps an existing client.
func NewS3StoreWithClient(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(strings.TrimSpace(prefix), "/"),
		now:    time.Now,
	}
}

func (s *S3Store) Upload(ctx context.Context, name, mimeType string, r io.Reader) (string, error) {
	key := s.key(name, fmt.Sprintf("%s-%s", s.now().UTC().Format("20060102T150405Z"), uuid.NewString()))
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object bucket=%s key=%s: %w", s.bucket, key, err)
	}
	return key, nil
}

// FindByName lists every object stored under name. Trashed copies live
// outside the listed prefix.
func (s *S3Store) FindByName(ctx context.Context, name string) ([]Artifact, error) {
	prefix := s.key(name, "")
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	var out []Artifact
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 list bucket=%s prefix=%s: %w", s.bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			a := Artifact{ID: aws.ToString(obj.Key), Name: name}
			if obj.LastModified != nil {
				a.Created = *obj.LastModified
			}
			out = append(out, a)
		}
	}
	return out, nil
}

// Trash copies the object under the trash prefix, then removes the original.
func (s *S3Store) Trash(ctx context.Context, id string) error {
	dst := s.trashKey(id)
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		Key:        aws.String(dst),
		CopySource: aws.String(url.PathEscape(s.bucket + "/" + id)),
	})
	if err != nil {
		return fmt.Errorf("s3 copy %s to %s: %w", id, dst, err)
	}
	return s.Delete(ctx, id)
}

func (s *S3Store) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		return fmt.Errorf("s3 delete object bucket=%s key=%s: %w", s.bucket, id, err)
	}
	return nil
}

func (s *S3Store) SharePublic(ctx context.Context, id string) error {
	_, err := s.client.PutObjectAcl(ctx, &s3.PutObjectAclInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
		ACL:    s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("s3 put acl bucket=%s key=%s: %w", s.bucket, id, err)
	}
	return nil
}

// key joins the store prefix, the artifact name and leaf. An empty leaf
// yields the listing prefix with a trailing slash.
func (s *S3Store) key(name, leaf string) string {
	k := path.Join(s.prefix, name) + "/"
	if strings.HasPrefix(k, "/") {
		k = k[1:]
	}
	return k + leaf
}

func (s *S3Store) trashKey(id string) string {
	rel := strings.TrimPrefix(id, s.prefix+"/")
	if s.prefix == "" {
		return path.Join(trashDir, rel)
	}
	return path.Join(s.prefix, trashDir, rel)
}

var _ ArtifactStore = (*S3Store)(nil)

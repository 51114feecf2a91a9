package docstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3 stores each document as an object at {prefix}{db}/{id}.json.
type S3 struct {
	client *minio.Client
	bucket string
	prefix string
}

var (
	_ Store  = (*S3)(nil)
	_ Writer = (*S3)(nil)
)

// NewS3 creates an S3 store. The bucket must already exist.
func NewS3(cfg S3Config) (*S3, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}
	client, err := minio.New(strings.TrimSpace(cfg.Endpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(cfg.AccessKey), strings.TrimSpace(cfg.SecretKey), ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3{
		client: client,
		bucket: strings.TrimSpace(cfg.Bucket),
		prefix: cfg.Prefix,
	}, nil
}

func (s *S3) objectKey(db, id string) string {
	return s.prefix + db + "/" + id + ".json"
}

// IDs lists the ids of all "*.json" objects directly under the db prefix.
func (s *S3) IDs(ctx context.Context, db string) ([]string, error) {
	dbPrefix := s.prefix + db + "/"
	var ids []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    dbPrefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list %s: %w", db, obj.Err)
		}
		name := strings.TrimPrefix(obj.Key, dbPrefix)
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Get downloads the object for db/id.
func (s *S3) Get(ctx context.Context, db, id string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.objectKey(db, id), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", db, id, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, &NotFoundError{DB: db, ID: id}
		}
		return nil, fmt.Errorf("get %s/%s: %w", db, id, err)
	}
	return data, nil
}

// Put uploads body as the object for db/id.
func (s *S3) Put(ctx context.Context, db, id string, body []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.objectKey(db, id), bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", db, id, err)
	}
	return nil
}

// isNoSuchKey reports a missing object. A missing bucket is a configuration
// error and is not mapped to ErrDocumentNotFound.
func isNoSuchKey(err error) bool {
	var resp minio.ErrorResponse
	return errors.As(err, &resp) && resp.Code == "NoSuchKey"
}

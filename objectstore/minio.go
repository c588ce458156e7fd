// Package objectstore keeps case documents in an S3-compatible bucket.
package objectstore

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/blogem/caseledger/models"
)

const (
	folderRoot   = "cases"
	folderMarker = ".folder"
	linkExpiry   = 7 * 24 * time.Hour
)

// Config holds bucket connection settings
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Store is an AttachmentStore over a MinIO/S3 bucket. A folder is a key
// prefix holding a marker object; file ids are the URL-safe encoding of the
// object key.
type Store struct {
	client *minio.Client
	bucket string
}

// New connects to the bucket, creating it when missing
func New(ctx context.Context, cfg Config) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// CreateFolder writes the folder marker and returns the prefix as its id
func (s *Store) CreateFolder(ctx context.Context, name string) (*models.Folder, error) {
	prefix := path.Join(folderRoot, uuid.NewString())

	_, err := s.client.PutObject(ctx, s.bucket, path.Join(prefix, folderMarker),
		strings.NewReader(name), int64(len(name)),
		minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"},
	)
	if err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}

	return &models.Folder{ID: prefix, Link: fmt.Sprintf("s3://%s/%s/", s.bucket, prefix)}, nil
}

// UploadFile stores body under the folder prefix
func (s *Store) UploadFile(ctx context.Context, folderID, name, mimeType string, body io.Reader, size int64) (*models.Attachment, error) {
	key := path.Join(folderID, uuid.NewString(), path.Base(name))

	info, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{ContentType: mimeType})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}

	link, err := s.link(ctx, key)
	if err != nil {
		return nil, err
	}

	return &models.Attachment{
		ID:        encodeFileID(key),
		Name:      path.Base(key),
		Link:      link,
		MimeType:  mimeType,
		CreatedAt: info.LastModified,
	}, nil
}

// ListFiles lists the objects under the folder prefix, newest first
func (s *Store) ListFiles(ctx context.Context, folderID string) ([]models.Attachment, error) {
	files := []models.Attachment{}

	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:       folderID + "/",
		Recursive:    true,
		WithMetadata: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list %s: %w", folderID, obj.Err)
		}
		if path.Base(obj.Key) == folderMarker {
			continue
		}

		link, err := s.link(ctx, obj.Key)
		if err != nil {
			return nil, err
		}
		files = append(files, models.Attachment{
			ID:        encodeFileID(obj.Key),
			Name:      path.Base(obj.Key),
			Link:      link,
			MimeType:  contentType(obj),
			CreatedAt: obj.LastModified,
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].CreatedAt.After(files[j].CreatedAt)
	})
	return files, nil
}

// contentType reads the listed type, falling back to the key's extension
func contentType(obj minio.ObjectInfo) string {
	if obj.ContentType != "" {
		return obj.ContentType
	}
	for k, v := range obj.UserMetadata {
		if strings.EqualFold(k, "Content-Type") && v != "" {
			return v
		}
	}
	if t := mime.TypeByExtension(path.Ext(obj.Key)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// DeleteFile removes an object by file id
func (s *Store) DeleteFile(ctx context.Context, fileID string) error {
	key, err := decodeFileID(fileID)
	if err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) link(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, linkExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return u.String(), nil
}

func encodeFileID(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}

func decodeFileID(id string) (string, error) {
	key, err := base64.RawURLEncoding.DecodeString(id)
	if err != nil || !strings.HasPrefix(string(key), folderRoot+"/") {
		return "", fmt.Errorf("%w: file %s", models.ErrNotFound, id)
	}
	return string(key), nil
}

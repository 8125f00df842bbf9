// Package minio implements storage.Uploads on MinIO or any S3 compatible
// service through presigned PUT URLs.
package minio

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"skillmatch/internal/config"
	"skillmatch/internal/infrastructure/storage"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type limits struct {
	bucket       string
	maxBytes     int64
	contentTypes []string
}

type Uploads struct {
	client     *mclient.Client
	presignTTL time.Duration
	publicBase string
	kinds      map[storage.Kind]limits
}

var _ storage.Uploads = (*Uploads)(nil)

// New connects to the endpoint and fails fast when a bucket is missing.
func New(ctx context.Context, s3 config.S3Config, up config.UploadConfig) (*Uploads, error) {
	const op = "storage/minio/New"

	endpoint := s3.Endpoint
	secure := strings.HasPrefix(endpoint, "https://")
	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(s3.AccessKey, s3.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u := &Uploads{
		client:     client,
		presignTTL: s3.PresignTTL,
		publicBase: strings.TrimRight(s3.PublicBaseURL, "/"),
		kinds: map[storage.Kind]limits{
			storage.KindAvatar: {bucket: s3.AvatarsBucket, maxBytes: up.AvatarMaxBytes, contentTypes: up.AvatarContentTypes},
			storage.KindCV:     {bucket: s3.CVsBucket, maxBytes: up.CVMaxBytes, contentTypes: up.CVContentTypes},
		},
	}

	for _, l := range u.kinds {
		exists, err := client.BucketExists(ctx, l.bucket)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !exists {
			return nil, fmt.Errorf("%s: bucket %q does not exist", op, l.bucket)
		}
	}
	return u, nil
}

// UploadURL issues a presigned PUT for a key of the form
// "<kind>/<userID>/<uuid><ext>".
func (u *Uploads) UploadURL(ctx context.Context, kind storage.Kind, userID uuid.UUID, contentType string, contentLength int64) (storage.UploadInfo, error) {
	const op = "storage/minio/UploadURL"

	l, ok := u.kinds[kind]
	if !ok {
		return storage.UploadInfo{}, storage.ErrInvalidArgument
	}
	if contentLength <= 0 || contentLength > l.maxBytes {
		return storage.UploadInfo{}, storage.ErrInvalidArgument
	}
	if !isAllowedContentType(l.contentTypes, contentType) {
		return storage.UploadInfo{}, storage.ErrInvalidArgument
	}

	key := path.Join(string(kind), userID.String(), uuid.NewString()+extension(contentType))

	signed, err := u.client.PresignedPutObject(ctx, l.bucket, key, u.presignTTL)
	if err != nil {
		return storage.UploadInfo{}, fmt.Errorf("%s: %w", op, err)
	}

	return storage.UploadInfo{
		UploadURL: signed.String(),
		ObjectKey: key,
		Expires:   u.presignTTL,
		RequiredHeaders: map[string]string{
			"Content-Type":   contentType,
			"Content-Length": fmt.Sprintf("%d", contentLength),
		},
	}, nil
}

func (u *Uploads) ConfirmUpload(ctx context.Context, kind storage.Kind, userID uuid.UUID, key string) (string, error) {
	const op = "storage/minio/ConfirmUpload"

	l, ok := u.kinds[kind]
	if !ok {
		return "", storage.ErrInvalidArgument
	}
	prefix := string(kind) + "/" + userID.String() + "/"
	if !strings.HasPrefix(key, prefix) || strings.Contains(key, "..") {
		return "", storage.ErrInvalidArgument
	}

	info, err := u.client.StatObject(ctx, l.bucket, key, mclient.StatObjectOptions{})
	if err != nil {
		resp := mclient.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.StatusCode == 404 {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if info.Size <= 0 || info.Size > l.maxBytes {
		return "", storage.ErrInvalidArgument
	}
	if ct := info.ContentType; ct != "" && !isAllowedContentType(l.contentTypes, ct) {
		return "", storage.ErrInvalidArgument
	}

	return u.publicURL(l.bucket, key), nil
}

// publicURL prefers the configured CDN base and falls back to the
// path-style object URL of the endpoint.
func (u *Uploads) publicURL(bucket, key string) string {
	if u.publicBase != "" {
		return u.publicBase + "/" + key
	}
	return strings.TrimRight(u.client.EndpointURL().String(), "/") + "/" + bucket + "/" + key
}

func isAllowedContentType(allow []string, contentType string) bool {
	for _, a := range allow {
		if strings.EqualFold(strings.TrimSpace(a), contentType) {
			return true
		}
	}
	return false
}

func extension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	default:
		return ""
	}
}

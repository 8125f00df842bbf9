// Package storage describes presigned uploads of profile media. The minio
// subpackage implements it on any S3 compatible backend.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound means the object was never uploaded under the key.
	ErrNotFound = errors.New("object not found")
	// ErrInvalidArgument covers content type, size and foreign keys.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDisabled is returned when no object storage is configured.
	ErrDisabled = errors.New("object storage disabled")
)

type Kind string

const (
	KindAvatar Kind = "avatars"
	KindCV     Kind = "cvs"
)

// UploadInfo tells the client where and how to PUT the object. The
// RequiredHeaders are checked again when the upload is confirmed.
type UploadInfo struct {
	UploadURL       string            `json:"upload_url"`
	ObjectKey       string            `json:"object_key"`
	Expires         time.Duration     `json:"-"`
	RequiredHeaders map[string]string `json:"required_headers"`
}

type Uploads interface {
	UploadURL(ctx context.Context, kind Kind, userID uuid.UUID, contentType string, contentLength int64) (UploadInfo, error)
	// ConfirmUpload checks the object exists and satisfies the limits, and
	// returns its public URL.
	ConfirmUpload(ctx context.Context, kind Kind, userID uuid.UUID, key string) (string, error)
}

// Disabled rejects every upload. It stands in when S3 is not configured.
type Disabled struct{}

func (Disabled) UploadURL(context.Context, Kind, uuid.UUID, string, int64) (UploadInfo, error) {
	return UploadInfo{}, ErrDisabled
}

func (Disabled) ConfirmUpload(context.Context, Kind, uuid.UUID, string) (string, error) {
	return "", ErrDisabled
}

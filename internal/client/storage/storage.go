// Package storage is the attachment store boundary: uploading a binary
// attachment and resolving its durable public URL. Upload failures are
// classified so the mutation pipeline can surface distinct messages for a
// missing bucket vs. a policy denial.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrBucketMissing means the configured bucket does not exist.
	ErrBucketMissing = errors.New("attachment bucket not found")
	// ErrPermissionDenied means the store rejected the upload by policy.
	ErrPermissionDenied = errors.New("attachment upload denied")
)

// Store is the attachment store boundary.
type Store interface {
	// Upload writes data under key and returns the durable public URL.
	Upload(ctx context.Context, key string, data []byte) (string, error)

	// ResolvePublicURL returns the public URL an already-uploaded key is
	// served from.
	ResolvePublicURL(key string) string
}

// MakeStorageKey builds a fresh object key for an attachment, keeping the
// original extension so the served file opens with the right type.
func MakeStorageKey(filename string) string {
	return fmt.Sprintf("attachments/%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), filepath.Ext(filename))
}

// Package blob stores uploaded image bytes. Two backends exist: a local
// directory served by the HTTP server and an S3-compatible bucket.
package blob

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// Store keeps opaque blobs under flat keys.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// URL returns where clients fetch the blob.
	URL(key string) string
}

var ErrInvalidKey = errors.New("invalid blob key")

// checkKey rejects keys that could escape the store's namespace.
func checkKey(key string) error {
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`) || filepath.Base(key) != key {
		return ErrInvalidKey
	}
	return nil
}

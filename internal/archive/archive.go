package archive

import (
	"context"
	"errors"
)

// ContentType is the content type recorded for archived pages.
const ContentType = "text/html; charset=utf-8"

var (
	// ErrExists is returned by Put when the key is already archived.
	ErrExists = errors.New("archive: object already exists")
	// ErrNotFound is returned by Get when the key is not archived.
	ErrNotFound = errors.New("archive: object not found")
)

// Object is an archived page with its metadata
type Object struct {
	Key      string
	Body     []byte
	Metadata map[string]string
}

// Store is a create-only object store for archived pages
type Store interface {
	Put(ctx context.Context, key string, body []byte, meta map[string]string) error
	Get(ctx context.Context, key string) (*Object, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// Package archive copies exported workbooks to object storage.
package archive

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/pratik-mahalle/cisaudit/internal/config"
)

// Backends
const (
	BackendNone = "none"
	BackendS3   = "s3"
	BackendGCS  = "gcs"
)

// Store persists an object under a key
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Name identifies the backend in logs
	Name() string
}

// keyTimeLayout sorts lexically in time order
const keyTimeLayout = "20060102T150405.000000000Z"

// Key builds the object key "{prefix}/{kind}/{scope}/{time}_{filename}".
// Download filenames repeat per target and day, so scope names the owner
// (a session or a benchmark) and the export time keeps every copy. An empty
// prefix or scope is left out.
func Key(prefix, kind, scope string, at time.Time, filename string) string {
	name := at.UTC().Format(keyTimeLayout) + "_" + filename
	parts := []string{kind, strings.Trim(scope, "/"), name}
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		parts = append([]string{prefix}, parts...)
	}
	return path.Join(parts...)
}

// New returns the store selected by cfg.Backend
func New(ctx context.Context, cfg config.ArchiveConfig) (Store, error) {
	switch cfg.Backend {
	case "", BackendNone:
		return Nop{}, nil
	case BackendS3:
		return NewS3Store(ctx, cfg)
	case BackendGCS:
		return NewGCSStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported archive backend: %s", cfg.Backend)
	}
}

// Nop discards everything
type Nop struct{}

// Put does nothing
func (Nop) Put(context.Context, string, []byte, string) error { return nil }

// Name returns "none"
func (Nop) Name() string { return BackendNone }

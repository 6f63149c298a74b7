// Package storage stores uploaded artwork images on a local directory or an
// S3-compatible bucket, chosen by STORAGE_DISK.
//
//	url, err := storage.Default().Put(ctx, "artworks/3f2a.jpg", file, "image/jpeg")
package storage

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/inkwell-studio/atelier/config"
	"github.com/inkwell-studio/atelier/pkg/logger"
)

// Disk is a flat object store.
type Disk interface {
	// Put writes r to path and returns its public URL.
	Put(ctx context.Context, path string, r io.Reader, contentType string) (string, error)
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Exists(ctx context.Context, path string) bool
	// Delete is a no-op for a missing path.
	Delete(ctx context.Context, path string) error
	URL(path string) string
}

var (
	mu          sync.RWMutex
	disks       = map[string]Disk{}
	defaultName = "local"
)

// Connect registers the local disk and, when S3_BUCKET is set, the s3 disk.
func Connect(ctx context.Context) error {
	Register("local", NewLocal(config.Get("STORAGE_LOCAL_ROOT", "storage"), config.Get("STORAGE_URL", config.AppURL()+"/storage")))

	if config.Get("S3_BUCKET", "") != "" {
		d, err := NewS3(ctx, S3Options{
			Bucket:   config.Get("S3_BUCKET", ""),
			Region:   config.Get("S3_REGION", "us-east-1"),
			Key:      config.Get("S3_KEY", ""),
			Secret:   config.Get("S3_SECRET", ""),
			Endpoint: config.Get("S3_ENDPOINT", ""),
			BaseURL:  config.Get("S3_URL", ""),
		})
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			Register("s3", d)
		}
	}

	name := config.Get("STORAGE_DISK", "local")
	if _, err := Use(name); err != nil {
		return err
	}
	mu.Lock()
	defaultName = name
	mu.Unlock()
	return nil
}

// Register adds or replaces a named disk.
func Register(name string, d Disk) {
	mu.Lock()
	disks[name] = d
	mu.Unlock()
}

// Use returns the named disk.
func Use(name string) (Disk, error) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the STORAGE_DISK disk, falling back to local.
func Default() Disk {
	mu.RLock()
	name := defaultName
	mu.RUnlock()
	if d, err := Use(name); err == nil {
		return d
	}
	d, err := Use("local")
	if err != nil {
		Register("local", NewLocal("storage", config.AppURL()+"/storage"))
		d, _ = Use("local")
	}
	return d
}

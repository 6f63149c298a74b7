// Package seeders fills a fresh database with the studio admin and sample
// catalog content. Each seeder skips its table when rows already exist, so
// `atelier seed` can be re-run safely.
package seeders

import (
	"context"
	"fmt"
	"io"
	"sync"

	"gorm.io/gorm"
)

// Func seeds one concern.
type Func func(ctx context.Context, db *gorm.DB) error

type entry struct {
	name string
	fn   Func
}

var (
	mu      sync.Mutex
	entries []entry
)

// Register adds a seeder; seeders run in registration order.
func Register(name string, fn Func) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, entry{name: name, fn: fn})
}

// RunAll executes every registered seeder and stops on the first error.
func RunAll(ctx context.Context, db *gorm.DB, out io.Writer) error {
	mu.Lock()
	current := append([]entry(nil), entries...)
	mu.Unlock()

	for _, e := range current {
		fmt.Fprintf(out, "  • Seeding %s … ", e.name)
		if err := e.fn(ctx, db); err != nil {
			fmt.Fprintln(out, "FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Fprintln(out, "done")
	}
	return nil
}

// empty reports whether model's table has no rows.
func empty(ctx context.Context, db *gorm.DB, model any) (bool, error) {
	var n int64
	if err := db.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
		return false, err
	}
	return n == 0, nil
}

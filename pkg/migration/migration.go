// Package migration runs versioned schema changes and records them in the
// schema_migrations table.
//
//	func init() {
//	    migration.Register("20260301000000_create_artworks_table", &CreateArtworksTable{})
//	}
package migration

import (
	"fmt"
	"io"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/pkg/logger"
)

// Migration is one reversible schema change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "schema_migrations" }

type entry struct {
	name string
	m    Migration
}

var registry []entry

// Register adds a migration. Names are timestamp-prefixed so they sort in
// the order they must run.
func Register(name string, m Migration) {
	registry = append(registry, entry{name: name, m: m})
}

// Status is one row of the status table.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

// Runner applies registered migrations to db, reporting progress on Out.
type Runner struct {
	db  *gorm.DB
	Out io.Writer
}

func New(db *gorm.DB, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{db: db, Out: out}
}

func (r *Runner) ensureTable() error {
	if err := r.db.AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) ran() (map[string]record, error) {
	var rows []record
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: load history: %w", err)
	}
	out := make(map[string]record, len(rows))
	for _, row := range rows {
		out[row.Name] = row
	}
	return out, nil
}

func sorted() []entry {
	out := append([]entry(nil), registry...)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func (r *Runner) lastBatch() (int, error) {
	var last struct{ Max int }
	err := r.db.Model(&record{}).Select("COALESCE(MAX(batch), 0) AS max").Scan(&last).Error
	return last.Max, err
}

// Run applies every pending migration as one batch and returns how many ran.
func (r *Runner) Run() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, err
	}
	done, err := r.ran()
	if err != nil {
		return 0, err
	}
	last, err := r.lastBatch()
	if err != nil {
		return 0, fmt.Errorf("migration: last batch: %w", err)
	}
	batch := last + 1

	count := 0
	for _, e := range sorted() {
		if _, ok := done[e.name]; ok {
			continue
		}
		fmt.Fprintf(r.Out, "  ▶ Migrating: %s\n", e.name)
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := e.m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&record{Name: e.name, Batch: batch}).Error
		})
		if err != nil {
			return count, fmt.Errorf("migration: %s up: %w", e.name, err)
		}
		count++
	}

	if count == 0 {
		fmt.Fprintln(r.Out, "Nothing to migrate.")
	} else {
		logger.Info("migration: done", "ran", count, "batch", batch)
	}
	return count, nil
}

// Rollback reverts the most recent batch and returns how many were reverted.
func (r *Runner) Rollback() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, err
	}
	batch, err := r.lastBatch()
	if err != nil {
		return 0, fmt.Errorf("migration: last batch: %w", err)
	}
	if batch == 0 {
		fmt.Fprintln(r.Out, "Nothing to roll back.")
		return 0, nil
	}

	var rows []record
	if err := r.db.Where("batch = ?", batch).Order("name desc").Find(&rows).Error; err != nil {
		return 0, fmt.Errorf("migration: load batch %d: %w", batch, err)
	}

	byName := make(map[string]Migration, len(registry))
	for _, e := range registry {
		byName[e.name] = e.m
	}

	count := 0
	for _, row := range rows {
		m, ok := byName[row.Name]
		if !ok {
			return count, fmt.Errorf("migration: cannot roll back %s: not registered", row.Name)
		}
		fmt.Fprintf(r.Out, "  ◀ Rolling back: %s\n", row.Name)
		row := row
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&row).Error
		})
		if err != nil {
			return count, fmt.Errorf("migration: %s down: %w", row.Name, err)
		}
		count++
	}
	return count, nil
}

// Status lists every registered migration in run order.
func (r *Runner) Status() ([]Status, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	done, err := r.ran()
	if err != nil {
		return nil, err
	}
	out := make([]Status, 0, len(registry))
	for _, e := range sorted() {
		row, ok := done[e.name]
		out = append(out, Status{Name: e.name, Ran: ok, Batch: row.Batch})
	}
	return out, nil
}

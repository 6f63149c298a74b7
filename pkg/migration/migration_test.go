package migration

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type widget struct {
	ID   uint
	Name string
}

type createWidgets struct{}

func (createWidgets) Up(db *gorm.DB) error   { return db.AutoMigrate(&widget{}) }
func (createWidgets) Down(db *gorm.DB) error { return db.Migrator().DropTable(&widget{}) }

type addWidgetIndex struct{}

func (addWidgetIndex) Up(db *gorm.DB) error {
	return db.Exec("CREATE INDEX idx_widgets_name ON widgets(name)").Error
}
func (addWidgetIndex) Down(db *gorm.DB) error {
	return db.Exec("DROP INDEX idx_widgets_name").Error
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestRunRollbackStatus(t *testing.T) {
	saved := registry
	t.Cleanup(func() { registry = saved })
	registry = nil
	// registered out of order on purpose
	Register("20260102000000_add_widget_index", addWidgetIndex{})
	Register("20260101000000_create_widgets", createWidgets{})

	db := openDB(t)
	var out bytes.Buffer
	r := New(db, &out)

	n, err := r.Run()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, db.Migrator().HasTable(&widget{}))

	n, err = r.Run()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Contains(t, out.String(), "Nothing to migrate.")

	st, err := r.Status()
	require.NoError(t, err)
	require.Len(t, st, 2)
	assert.Equal(t, "20260101000000_create_widgets", st[0].Name)
	assert.True(t, st[0].Ran)
	assert.Equal(t, 1, st[1].Batch)

	n, err = r.Rollback()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, db.Migrator().HasTable(&widget{}))

	n, err = r.Rollback()
	require.NoError(t, err)
	assert.Zero(t, n)
}

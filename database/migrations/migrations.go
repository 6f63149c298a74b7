// Package migrations registers the studio schema, one table per migration.
// Importing it for side effects makes the migrations visible to the runner.
package migrations

import (
	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/app/models"
	"github.com/inkwell-studio/atelier/pkg/migration"
	"github.com/inkwell-studio/atelier/pkg/queue"
)

func init() {
	migration.Register("20260301000000_create_users_table", table(&models.User{}))
	migration.Register("20260301000001_create_artworks_table", table(&models.Artwork{}))
	migration.Register("20260301000002_create_classes_table", table(&models.Class{}))
	migration.Register("20260301000003_create_bookings_table", table(&models.Booking{}))
	migration.Register("20260301000004_create_orders_table", table(&models.Order{}))
	migration.Register("20260301000005_create_order_items_table", table(&models.OrderItem{}))
	migration.Register("20260301000006_create_inquiries_table", table(&models.Inquiry{}))
	migration.Register("20260301000007_create_posts_table", table(&models.Post{}))
	migration.Register("20260301000008_create_testimonials_table", table(&models.Testimonial{}))
	migration.Register("20260301000009_create_failed_jobs_table", table(&queue.Failure{}))
}

// createTable migrates one model up and drops its table down.
type createTable struct {
	model any
}

func table(model any) *createTable { return &createTable{model: model} }

func (m *createTable) Up(db *gorm.DB) error { return db.AutoMigrate(m.model) }

func (m *createTable) Down(db *gorm.DB) error { return db.Migrator().DropTable(m.model) }

package services_test

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/app/models"
	"github.com/inkwell-studio/atelier/app/services"
)

var leeds = &services.Address{
	Name:       "Mara Quinn",
	Line1:      "4 Canal Wharf",
	City:       "Leeds",
	PostalCode: "LS11 5PS",
	Country:    "UK",
}

// placeOrder checks out a cart holding the given artworks.
func placeOrder(t *testing.T, db *gorm.DB, userID uint, artworks ...models.Artwork) models.Order {
	t.Helper()
	ctx := context.Background()
	cart := services.NewCartService(db)
	for _, a := range artworks {
		_, err := cart.Add(ctx, userID, a.ID, 1)
		require.NoError(t, err)
	}
	order, err := services.NewOrderService(db).Checkout(ctx, userID, services.CheckoutInput{ShippingAddress: leeds})
	require.NoError(t, err)
	return order
}

func artworkStatus(t *testing.T, db *gorm.DB, id uint) string {
	t.Helper()
	var a models.Artwork
	require.NoError(t, db.First(&a, id).Error)
	return a.Status
}

func TestOrderStatusMovesArtworks(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	heron, harbour, _ := gallery(t, services.NewArtworkService(db))
	u := newUser(t, db, "buyer@example.com")
	svc := services.NewOrderService(db)

	first := placeOrder(t, db, u.ID, heron)
	assert.Equal(t, models.ArtworkReserved, artworkStatus(t, db, heron.ID))

	got, err := svc.UpdateStatus(ctx, services.OrderStatusInput{OrderID: first.ID, Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, got.Status)
	require.NotNil(t, got.User)
	assert.Equal(t, "buyer@example.com", got.User.Email)
	assert.Equal(t, models.ArtworkAvailable, artworkStatus(t, db, heron.ID))

	second := placeOrder(t, db, u.ID, heron, harbour)
	_, err = svc.UpdateStatus(ctx, services.OrderStatusInput{OrderID: second.ID, Status: models.OrderShipped})
	require.NoError(t, err)
	assert.Equal(t, models.ArtworkReserved, artworkStatus(t, db, harbour.ID))

	_, err = svc.UpdateStatus(ctx, services.OrderStatusInput{OrderID: second.ID, Status: models.OrderDelivered})
	require.NoError(t, err)
	assert.Equal(t, models.ArtworkSold, artworkStatus(t, db, heron.ID))
	assert.Equal(t, models.ArtworkSold, artworkStatus(t, db, harbour.ID))

	_, err = svc.UpdateStatus(ctx, services.OrderStatusInput{OrderID: 9999, Status: models.OrderShipped})
	se := serviceError(t, err)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, "Order not found", se.Message)
}

func TestPlacedOrdersNeverReopen(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	heron, harbour, _ := gallery(t, services.NewArtworkService(db))
	u := newUser(t, db, "buyer@example.com")
	svc := services.NewOrderService(db)
	pendingFor := func() int64 {
		var n int64
		require.NoError(t, db.Model(&models.Order{}).Where("user_id = ? AND status = ?", u.ID, models.OrderPending).Count(&n).Error)
		return n
	}

	placed := placeOrder(t, db, u.ID, heron)
	_, err := services.NewCartService(db).Add(ctx, u.ID, harbour.ID, 1)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, services.OrderStatusInput{OrderID: placed.ID, Status: "pending"})
	assert.Equal(t, http.StatusBadRequest, serviceError(t, err).Code)
	assert.Equal(t, int64(1), pendingFor())

	cart, err := services.NewCartService(db).Get(ctx, u.ID)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, services.OrderStatusInput{OrderID: cart.ID, Status: models.OrderShipped})
	assert.Equal(t, "Order has not been placed", serviceError(t, err).Message)

	_, err = svc.UpdateStatus(ctx, services.OrderStatusInput{OrderID: placed.ID, Status: models.OrderCancelled})
	require.NoError(t, err)
	assert.Equal(t, models.ArtworkAvailable, artworkStatus(t, db, heron.ID))

	_, err = svc.UpdateStatus(ctx, services.OrderStatusInput{OrderID: placed.ID, Status: models.OrderDelivered})
	se := serviceError(t, err)
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, "Order is already cancelled", se.Message)
	assert.Equal(t, models.ArtworkAvailable, artworkStatus(t, db, heron.ID))

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, placed.ID).Error)
	assert.Equal(t, models.OrderCancelled, reloaded.Status)
}

func TestOrderListHidesCarts(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	heron, harbour, _ := gallery(t, services.NewArtworkService(db))
	buyer := newUser(t, db, "buyer@example.com")
	browser := newUser(t, db, "browser@example.com")
	svc := services.NewOrderService(db)

	placed := placeOrder(t, db, buyer.ID, heron)
	_, err := services.NewCartService(db).Add(ctx, browser.ID, harbour.ID, 1)
	require.NoError(t, err)

	orders, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, placed.ID, orders[0].ID)

	carts, err := svc.List(ctx, "pending")
	require.NoError(t, err)
	require.Len(t, carts, 1)
	assert.Equal(t, browser.ID, carts[0].UserID)

	mine, err := svc.Mine(ctx, browser.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestOrderExport(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	heron, harbour, _ := gallery(t, services.NewArtworkService(db))
	u := newUser(t, db, "buyer@example.com")
	order := placeOrder(t, db, u.ID, heron, harbour)

	var buf bytes.Buffer
	require.NoError(t, services.NewOrderService(db).Export(ctx, &buf, ""))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	rows := file.Sheets[0].Rows
	require.Len(t, rows, 2)

	header := make([]string, len(rows[0].Cells))
	for i, c := range rows[0].Cells {
		header[i] = c.Value
	}
	assert.Equal(t, []string{"Order", "Placed", "Status", "Customer", "Email", "Items", "Subtotal", "Tax", "Shipping", "Total"}, header)

	row := rows[1].Cells
	require.Len(t, row, 10)
	assert.Equal(t, *order.OrderNumber, row[0].Value)
	assert.Equal(t, models.OrderProcessing, row[2].Value)
	assert.Equal(t, "buyer@example.com", row[4].Value)
	assert.Equal(t, "2", row[5].Value)
}

func TestPruneStaleCarts(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	heron, harbour, _ := gallery(t, services.NewArtworkService(db))
	idle := newUser(t, db, "idle@example.com")
	active := newUser(t, db, "active@example.com")
	cart := services.NewCartService(db)

	_, err := cart.Add(ctx, idle.ID, heron.ID, 1)
	require.NoError(t, err)
	_, err = cart.Add(ctx, active.ID, harbour.ID, 1)
	require.NoError(t, err)

	old := time.Now().Add(-60 * 24 * time.Hour)
	require.NoError(t, db.Model(&models.Order{}).Where("user_id = ?", idle.ID).UpdateColumn("updated_at", old).Error)

	n, err := cart.PruneStale(ctx, time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	gone, err := cart.Get(ctx, idle.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	var items int64
	require.NoError(t, db.Model(&models.OrderItem{}).Where("artwork_id = ?", heron.ID).Count(&items).Error)
	assert.Zero(t, items)

	kept, err := cart.Get(ctx, active.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.Len(t, kept.OrderItems, 1)
}

func TestStatsCountsPlacedRevenue(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	heron, harbour, _ := gallery(t, services.NewArtworkService(db))
	newClass(t, db, "Intro to Ink", models.LevelBeginner, 8, time.Now().Add(24*time.Hour))
	newClass(t, db, "Glazing", models.LevelAdvanced, 6, time.Now().Add(-24*time.Hour))
	a := newUser(t, db, "a@example.com")
	b := newUser(t, db, "b@example.com")

	kept := placeOrder(t, db, a.ID, heron)
	cancelled := placeOrder(t, db, b.ID, harbour)
	_, err := services.NewOrderService(db).UpdateStatus(ctx, services.OrderStatusInput{OrderID: cancelled.ID, Status: models.OrderCancelled})
	require.NoError(t, err)
	_, err = services.NewCartService(db).Add(ctx, b.ID, harbour.ID, 1)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Inquiry{Name: "N", Email: "n@example.com", Subject: "Hi", Message: "Hello there", Type: models.InquiryGeneral, Status: models.InquiryUnread, Priority: models.PriorityMedium}).Error)

	st, err := services.NewStatsService(db).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.Artworks)
	assert.Equal(t, int64(1), st.AvailableArtworks)
	assert.Equal(t, int64(2), st.Classes)
	assert.Equal(t, int64(1), st.UpcomingClasses)
	assert.Equal(t, int64(2), st.Orders)
	assert.Equal(t, map[string]int64{models.OrderProcessing: 1, models.OrderCancelled: 1}, st.OrdersByStatus)
	assert.InDelta(t, kept.Total, st.Revenue, 0.001)
	assert.Equal(t, int64(1), st.UnreadInquiries)
	assert.Equal(t, int64(2), st.Users)
}

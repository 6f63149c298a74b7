package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tealeg/xlsx"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/app/models"
	"github.com/inkwell-studio/atelier/pkg/cache"
	"github.com/inkwell-studio/atelier/pkg/event"
	"github.com/inkwell-studio/atelier/pkg/logger"
	"github.com/inkwell-studio/atelier/pkg/metrics"
	"github.com/inkwell-studio/atelier/pkg/validate"
)

type OrderService struct {
	db      *gorm.DB
	pricing Pricing
	now     func() time.Time
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db, pricing: PricingFromConfig(), now: time.Now}
}

type Address struct {
	Name       string `json:"name" validate:"required,max=255"`
	Line1      string `json:"line1" validate:"required,max=255"`
	Line2      string `json:"line2,omitempty" validate:"max=255"`
	City       string `json:"city" validate:"required,max=120"`
	State      string `json:"state,omitempty" validate:"max=120"`
	PostalCode string `json:"postalCode" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,max=80"`
	Phone      string `json:"phone,omitempty" validate:"max=40"`
}

func (a Address) jsonMap() datatypes.JSONMap {
	raw, _ := json.Marshal(a)
	m := datatypes.JSONMap{}
	json.Unmarshal(raw, &m) //nolint:errcheck
	return m
}

type CheckoutInput struct {
	ShippingAddress *Address `json:"shippingAddress"`
	BillingAddress  *Address `json:"billingAddress"`
}

// Errors validates the nested addresses; keys are dotted field paths.
func (in CheckoutInput) Errors() map[string]string {
	errs := map[string]string{}
	if in.ShippingAddress == nil {
		errs["shippingAddress"] = "The shippingAddress field is required."
		return errs
	}
	for k, v := range validate.Struct(in.ShippingAddress) {
		errs["shippingAddress."+k] = v
	}
	if in.BillingAddress != nil {
		for k, v := range validate.Struct(in.BillingAddress) {
			errs["billingAddress."+k] = v
		}
	}
	return errs
}

func (s *OrderService) orderNumber() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "ORD-" + s.now().Format("20060102") + "-" + strings.ToUpper(hex)
}

// Checkout turns the user's cart into a PROCESSING order and reserves its
// artworks.
func (s *OrderService) Checkout(ctx context.Context, userID uint, in CheckoutInput) (models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, userID); err != nil {
			return err
		}
		err := tx.Scopes(preloadItems).
			Where("user_id = ? AND status = ?", userID, models.OrderPending).
			First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && len(order.OrderItems) == 0) {
			return BadRequest("Cart is empty")
		}
		if err != nil {
			return err
		}

		ids := make([]uint, len(order.OrderItems))
		for i, it := range order.OrderItems {
			ids[i] = it.ArtworkID
		}
		var artworks []models.Artwork
		if err := forUpdate(tx).Where("id IN ?", ids).Find(&artworks).Error; err != nil {
			return err
		}
		byID := make(map[uint]models.Artwork, len(artworks))
		for _, a := range artworks {
			byID[a.ID] = a
		}
		for _, it := range order.OrderItems {
			a, ok := byID[it.ArtworkID]
			if !ok || a.Status != models.ArtworkAvailable {
				title := "item"
				if it.Artwork != nil {
					title = it.Artwork.Title
				}
				return BadRequest(fmt.Sprintf("Artwork %s is no longer available", title))
			}
		}

		billing := in.ShippingAddress
		if in.BillingAddress != nil {
			billing = in.BillingAddress
		}
		totals := s.pricing.Compute(lines(order.OrderItems))
		placed := s.now()
		number := s.orderNumber()

		err = tx.Model(&order).Updates(map[string]any{
			"status":           models.OrderProcessing,
			"order_number":     number,
			"placed_at":        placed,
			"subtotal":         totals.Subtotal,
			"tax":              totals.Tax,
			"shipping":         totals.Shipping,
			"total":            totals.Total,
			"shipping_address": in.ShippingAddress.jsonMap(),
			"billing_address":  billing.jsonMap(),
		}).Error
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Artwork{}).Where("id IN ?", ids).Update("status", models.ArtworkReserved).Error; err != nil {
			return err
		}
		return tx.Scopes(preloadItems).Preload("User").First(&order, order.ID).Error
	})
	if err != nil {
		return models.Order{}, err
	}

	metrics.OrdersPlaced.Inc()
	metrics.OrderRevenue.Add(order.Total)
	if err := cache.Forget(ctx, artworkCachePrefix); err != nil {
		logger.WithCtx(ctx).Warn("orders: cache forget", "error", err)
	}
	event.FireAsync(ctx, EventOrderPlaced, order)
	return order, nil
}

// Mine lists the user's placed orders, newest first.
func (s *OrderService) Mine(ctx context.Context, userID uint) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.WithContext(ctx).Scopes(preloadItems).
		Where("user_id = ? AND status <> ?", userID, models.OrderPending).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("orders: mine: %w", err)
	}
	return orders, nil
}

// List is the admin order list. Carts are hidden unless status asks for them.
func (s *OrderService) List(ctx context.Context, status string) ([]models.Order, error) {
	q := s.db.WithContext(ctx).Scopes(preloadItems).Preload("User").Order("created_at DESC")
	if st, ok := enumFilter(status); ok {
		q = q.Where("status = ?", st)
	} else {
		q = q.Where("status <> ?", models.OrderPending)
	}
	orders := []models.Order{}
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("orders: list: %w", err)
	}
	return orders, nil
}

type OrderStatusInput struct {
	OrderID uint   `json:"orderId" validate:"required"`
	Status  string `json:"status" validate:"required,in=PROCESSING|SHIPPED|DELIVERED|CANCELLED"`
}

// UpdateStatus moves a placed order along. Cancelling releases reserved
// artworks; delivery marks them sold. Carts cannot be moved, placed orders
// never go back to PENDING, and DELIVERED and CANCELLED are final.
func (s *OrderService) UpdateStatus(ctx context.Context, in OrderStatusInput) (models.Order, error) {
	status := strings.ToUpper(in.Status)
	if status == models.OrderPending {
		return models.Order{}, BadRequest("Placed orders cannot be moved back to PENDING")
	}
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&order, in.OrderID).Error; err != nil {
			return notFoundAs(err, "Order not found")
		}
		switch order.Status {
		case models.OrderPending:
			return BadRequest("Order has not been placed")
		case models.OrderDelivered, models.OrderCancelled:
			return BadRequest(fmt.Sprintf("Order is already %s", strings.ToLower(order.Status)))
		}
		if err := tx.Model(&order).Update("status", status).Error; err != nil {
			return err
		}

		artworks := tx.Model(&models.OrderItem{}).Select("artwork_id").Where("order_id = ?", order.ID)
		switch status {
		case models.OrderCancelled:
			return tx.Model(&models.Artwork{}).
				Where("id IN (?) AND status = ?", artworks, models.ArtworkReserved).
				Update("status", models.ArtworkAvailable).Error
		case models.OrderDelivered:
			return tx.Model(&models.Artwork{}).
				Where("id IN (?)", artworks).
				Update("status", models.ArtworkSold).Error
		}
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}
	if err := cache.Forget(ctx, artworkCachePrefix); err != nil {
		logger.WithCtx(ctx).Warn("orders: cache forget", "error", err)
	}

	err = s.db.WithContext(ctx).Scopes(preloadItems).Preload("User").First(&order, order.ID).Error
	return order, err
}

var exportHeader = []string{"Order", "Placed", "Status", "Customer", "Email", "Items", "Subtotal", "Tax", "Shipping", "Total"}

// Export writes the admin order list as an XLSX workbook.
func (s *OrderService) Export(ctx context.Context, w io.Writer, status string) error {
	orders, err := s.List(ctx, status)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return fmt.Errorf("orders: export: %w", err)
	}
	header := sheet.AddRow()
	for _, h := range exportHeader {
		header.AddCell().SetString(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetString(deref(o.OrderNumber))
		placed := row.AddCell()
		if o.PlacedAt != nil {
			placed.SetString(o.PlacedAt.UTC().Format(time.RFC3339))
		}
		row.AddCell().SetString(o.Status)
		var name, email string
		if o.User != nil {
			name, email = o.User.Name, o.User.Email
		}
		row.AddCell().SetString(name)
		row.AddCell().SetString(email)
		row.AddCell().SetInt(len(o.OrderItems))
		row.AddCell().SetFloat(o.Subtotal)
		row.AddCell().SetFloat(o.Tax)
		row.AddCell().SetFloat(o.Shipping)
		row.AddCell().SetFloat(o.Total)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("orders: export: %w", err)
	}
	return nil
}

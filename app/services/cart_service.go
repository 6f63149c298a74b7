package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/app/models"
)

// CartService manages the user's PENDING order.
type CartService struct {
	db      *gorm.DB
	pricing Pricing
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db, pricing: PricingFromConfig()}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("OrderItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Preload("OrderItems.Artwork")
}

// Get returns the cart, or nil when the user has none.
func (s *CartService) Get(ctx context.Context, userID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Scopes(preloadItems).
		Where("user_id = ? AND status = ?", userID, models.OrderPending).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cart: get: %w", err)
	}
	return &order, nil
}

// lockUser serialises cart and checkout writes per user.
func lockUser(tx *gorm.DB, userID uint) error {
	var u models.User
	if err := forUpdate(tx).Select("id").First(&u, userID).Error; err != nil {
		return notFoundAs(err, "User not found")
	}
	return nil
}

// Add puts an artwork in the cart at its current price and reprices the cart.
func (s *CartService) Add(ctx context.Context, userID, artworkID uint, quantity int) (models.OrderItem, error) {
	if quantity < 1 {
		quantity = 1
	}
	var item models.OrderItem

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, userID); err != nil {
			return err
		}

		var order models.Order
		err := tx.Where("user_id = ? AND status = ?", userID, models.OrderPending).First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			order = models.Order{UserID: userID, Status: models.OrderPending}
			err = tx.Create(&order).Error
		}
		if err != nil {
			return err
		}

		var artwork models.Artwork
		if err := tx.First(&artwork, artworkID).Error; err != nil {
			return notFoundAs(err, "Artwork not found")
		}
		if artwork.Status != models.ArtworkAvailable {
			return BadRequest("Artwork is not available")
		}

		var dup int64
		if err := tx.Model(&models.OrderItem{}).Where("order_id = ? AND artwork_id = ?", order.ID, artworkID).Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return BadRequest("Item already in cart")
		}

		item = models.OrderItem{OrderID: order.ID, ArtworkID: artworkID, Quantity: quantity, Price: artwork.Price}
		if err := tx.Create(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return BadRequest("Item already in cart")
			}
			return err
		}
		if _, err := refreshCart(tx, s.pricing, order.ID); err != nil {
			return err
		}
		item.Artwork = &artwork
		return nil
	})
	return item, err
}

// Remove deletes an item from the user's cart. An emptied cart is deleted.
func (s *CartService) Remove(ctx context.Context, userID, itemID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.OrderItem
		err := tx.Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("order_items.id = ? AND orders.user_id = ? AND orders.status = ?", itemID, userID, models.OrderPending).
			First(&item).Error
		if err != nil {
			return notFoundAs(err, "Item not found")
		}
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		_, err = refreshCart(tx, s.pricing, item.OrderID)
		return err
	})
}

// PruneStale deletes carts untouched since before.
func (s *CartService) PruneStale(ctx context.Context, before time.Time) (int64, error) {
	var pruned int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		err := tx.Model(&models.Order{}).
			Where("status = ? AND updated_at < ?", models.OrderPending, before).
			Pluck("id", &ids).Error
		if err != nil || len(ids) == 0 {
			return err
		}
		if err := tx.Where("order_id IN ?", ids).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&models.Order{})
		pruned = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("cart: prune: %w", err)
	}
	return pruned, nil
}

// refreshCart recomputes a pending order's totals from its items, deleting
// the order when no items remain. It reports whether the order was deleted.
func refreshCart(tx *gorm.DB, pricing Pricing, orderID uint) (bool, error) {
	var items []models.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return false, err
	}
	if len(items) == 0 {
		err := tx.Where("id = ? AND status = ?", orderID, models.OrderPending).Delete(&models.Order{}).Error
		return true, err
	}

	t := pricing.Compute(lines(items))
	err := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, models.OrderPending).
		Updates(map[string]any{
			"subtotal": t.Subtotal,
			"tax":      t.Tax,
			"shipping": t.Shipping,
			"total":    t.Total,
		}).Error
	return false, err
}

func lines(items []models.OrderItem) []Line {
	out := make([]Line, len(items))
	for i, it := range items {
		out[i] = Line{Price: it.Price, Quantity: it.Quantity}
	}
	return out
}
